package models

import (
	"time"

	"gorm.io/datatypes"
)

// PickRecord is the persisted form of a tracked pick. The in-memory tracker
// owns settlement semantics; this row is the durable copy.
type PickRecord struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	PlayerName  string         `gorm:"not null;index" json:"player_name"`
	Market      string         `gorm:"not null" json:"market"`
	Line        float64        `gorm:"not null" json:"line"`
	Direction   string         `gorm:"not null" json:"direction"` // HIGHER or LOWER
	Odds        int            `gorm:"not null" json:"odds"`      // American price at entry
	Stake       float64        `gorm:"not null" json:"stake"`
	SafetyScore float64        `json:"safety_score"`
	Confidence  float64        `json:"confidence"`
	Result      string         `gorm:"not null;default:PENDING;index" json:"result"`
	ActualValue *float64       `json:"actual_value,omitempty"` // Null until settled
	Profit      float64        `json:"profit"`
	GameDate    string         `gorm:"not null;index" json:"game_date"` // YYYY-MM-DD
	Legs        datatypes.JSON `json:"legs,omitempty"`                  // Parlay leg snapshot, if any
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PickRecord) TableName() string {
	return "pick_records"
}

// IsSettled reports whether the pick has a terminal result.
func (p *PickRecord) IsSettled() bool {
	return p.Result == "WIN" || p.Result == "LOSS" || p.Result == "PUSH"
}
