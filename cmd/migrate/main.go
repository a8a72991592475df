package main

import (
	"fmt"
	"log"
	"os"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-parlay/internal/models"
	"github.com/tzsmit/nova-titan-parlay/pkg/config"
	"github.com/tzsmit/nova-titan-parlay/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	// Auto migrate all models
	if err := db.AutoMigrate(
		&models.Team{},
		&models.Player{},
		&models.PickRecord{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	// Create supplemental indexes
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_players_sport_team ON players(sport, team)",
		"CREATE INDEX IF NOT EXISTS idx_pick_records_result_date ON pick_records(result, game_date)",
		"CREATE INDEX IF NOT EXISTS idx_pick_records_player ON pick_records(player_name)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	// Drop tables in reverse order to handle foreign key constraints
	tables := []string{
		"pick_records",
		"players",
		"teams",
	}

	for _, table := range tables {
		stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", pq.QuoteIdentifier(table))
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

func seedData(db *database.DB) error {
	teams := []models.Team{
		{Abbreviation: "LAL", FullName: "Los Angeles Lakers", Sport: "basketball_nba"},
		{Abbreviation: "BOS", FullName: "Boston Celtics", Sport: "basketball_nba"},
		{Abbreviation: "DEN", FullName: "Denver Nuggets", Sport: "basketball_nba"},
		{Abbreviation: "MIL", FullName: "Milwaukee Bucks", Sport: "basketball_nba"},
		{Abbreviation: "KC", FullName: "Kansas City Chiefs", Sport: "americanfootball_nfl"},
		{Abbreviation: "BUF", FullName: "Buffalo Bills", Sport: "americanfootball_nfl"},
		{Abbreviation: "SF", FullName: "San Francisco 49ers", Sport: "americanfootball_nfl"},
		{Abbreviation: "PHI", FullName: "Philadelphia Eagles", Sport: "americanfootball_nfl"},
	}

	if err := db.Create(&teams).Error; err != nil {
		logrus.Warnf("Failed to seed teams (may already exist): %v", err)
	}

	players := []models.Player{
		{ExternalID: "nba_001", Name: "LeBron James", Team: "LAL", Position: "SF", Sport: "basketball_nba", IsActive: true},
		{ExternalID: "nba_002", Name: "Anthony Davis", Team: "LAL", Position: "C", Sport: "basketball_nba", IsActive: true},
		{ExternalID: "nba_003", Name: "Jayson Tatum", Team: "BOS", Position: "SF", Sport: "basketball_nba", IsActive: true},
		{ExternalID: "nba_004", Name: "Nikola Jokic", Team: "DEN", Position: "C", Sport: "basketball_nba", IsActive: true},
		{ExternalID: "nba_005", Name: "Giannis Antetokounmpo", Team: "MIL", Position: "PF", Sport: "basketball_nba", IsActive: true},
		{ExternalID: "nfl_001", Name: "Patrick Mahomes", Team: "KC", Position: "QB", Sport: "americanfootball_nfl", IsActive: true},
		{ExternalID: "nfl_002", Name: "Travis Kelce", Team: "KC", Position: "TE", Sport: "americanfootball_nfl", IsActive: true},
		{ExternalID: "nfl_003", Name: "Josh Allen", Team: "BUF", Position: "QB", Sport: "americanfootball_nfl", IsActive: true},
		{ExternalID: "nfl_004", Name: "Christian McCaffrey", Team: "SF", Position: "RB", Sport: "americanfootball_nfl", IsActive: true},
		{ExternalID: "nfl_005", Name: "A.J. Brown", Team: "PHI", Position: "WR", Sport: "americanfootball_nfl", IsActive: true},
	}

	if err := db.Create(&players).Error; err != nil {
		logrus.Warnf("Failed to seed players (may already exist): %v", err)
	}

	logrus.Infof("Seeded %d teams and %d players", len(teams), len(players))
	return nil
}
