package models

import "time"

// Team holds reference data for matchup lookups.
type Team struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Abbreviation string    `gorm:"uniqueIndex;not null" json:"abbreviation"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Sport        string    `gorm:"not null;index" json:"sport"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

// Player is the roster entry prop quotes reference by name.
type Player struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExternalID string    `gorm:"uniqueIndex" json:"external_id"`
	Name       string    `gorm:"not null;index" json:"name"`
	Team       string    `gorm:"not null;index" json:"team"`
	Position   string    `json:"position"`
	Sport      string    `gorm:"not null;index" json:"sport"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Player) TableName() string {
	return "players"
}
