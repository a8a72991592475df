package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-parlay/internal/models"
	"github.com/tzsmit/nova-titan-parlay/internal/odds"
	"github.com/tzsmit/nova-titan-parlay/internal/tracker"
	"github.com/tzsmit/nova-titan-parlay/pkg/database"
)

// PickStore persists tracked picks and rebuilds the in-memory tracker on
// startup. The tracker stays authoritative for settlement math; rows here are
// the durable copy.
type PickStore struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewPickStore(db *database.DB, logger *logrus.Logger) *PickStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PickStore{db: db, logger: logger}
}

// Save upserts one pick row.
func (s *PickStore) Save(p tracker.Pick) error {
	record, err := recordFromPick(p)
	if err != nil {
		return fmt.Errorf("failed to encode pick %s: %w", p.ID, err)
	}
	if err := s.db.Save(&record).Error; err != nil {
		return fmt.Errorf("failed to save pick %s: %w", p.ID, err)
	}
	return nil
}

// DeleteAll removes every pick row, mirroring a tracker history clear.
func (s *PickStore) DeleteAll() error {
	if err := s.db.Where("1 = 1").Delete(&models.PickRecord{}).Error; err != nil {
		return fmt.Errorf("failed to clear picks: %w", err)
	}
	return nil
}

// Hydrate loads all persisted picks into the given tracker. Settled rows are
// replayed as an add followed by a result update so profit is recomputed by
// the tracker, not trusted from the row.
func (s *PickStore) Hydrate(t *tracker.Tracker) error {
	var records []models.PickRecord
	if err := s.db.Order("created_at asc").Find(&records).Error; err != nil {
		return fmt.Errorf("failed to load picks: %w", err)
	}

	for _, record := range records {
		pick, err := pickFromRecord(record)
		if err != nil {
			s.logger.Warnf("Skipping unreadable pick row %s: %v", record.ID, err)
			continue
		}

		if _, err := t.AddPick(pick); err != nil {
			s.logger.Warnf("Skipping pick row %s: %v", record.ID, err)
			continue
		}

		if record.IsSettled() && record.ActualValue != nil {
			if _, err := t.UpdatePickResult(record.ID, *record.ActualValue); err != nil {
				s.logger.Warnf("Failed to replay result for pick %s: %v", record.ID, err)
			}
		}
	}

	s.logger.Infof("Hydrated %d picks from storage", len(records))
	return nil
}

// recordFromPick stores the price in American form regardless of the format
// the pick was entered with, so hydration can always rebuild it.
func recordFromPick(p tracker.Pick) (models.PickRecord, error) {
	american, err := odds.ToAmerican(p.Odds)
	if err != nil {
		return models.PickRecord{}, err
	}

	return models.PickRecord{
		ID:          p.ID,
		PlayerName:  p.Player,
		Market:      p.PropType,
		Line:        p.Line,
		Direction:   string(p.Direction),
		Odds:        american,
		Stake:       p.Stake,
		SafetyScore: float64(p.SafetyScore),
		Confidence:  p.Confidence,
		Result:      string(p.Result),
		ActualValue: p.ActualValue,
		Profit:      p.Profit,
		GameDate:    p.Date,
	}, nil
}

func pickFromRecord(record models.PickRecord) (tracker.Pick, error) {
	price, err := odds.American(record.Odds)
	if err != nil {
		return tracker.Pick{}, err
	}

	return tracker.Pick{
		ID:          record.ID,
		Date:        record.GameDate,
		Player:      record.PlayerName,
		PropType:    record.Market,
		Line:        record.Line,
		Direction:   tracker.Direction(record.Direction),
		Confidence:  record.Confidence,
		SafetyScore: int(record.SafetyScore),
		Odds:        price,
		Stake:       record.Stake,
	}, nil
}
