package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GameUpdate is one entry in a game's ledger. The id order is the
// ledger order. UserID is nil for neutral entries such as the START
// marker. Cup positions are recorded from the throwing participant's
// perspective.
type GameUpdate struct {
	ID                   uint                     `json:"id" gorm:"primaryKey"`
	GameID               uint                     `json:"game_id" gorm:"not null;index"`
	UserID               *uint                    `json:"user_id"`
	Type                 GameUpdateType           `json:"type" gorm:"not null"`
	SelfCupPositions     datatypes.JSONSlice[int] `json:"self_cup_positions"`
	OpponentCupPositions datatypes.JSONSlice[int] `json:"opponent_cup_positions"`
	SelfCupsLeft         int                      `json:"self_cups_left" gorm:"not null"`
	OpponentCupsLeft     int                      `json:"opponent_cups_left" gorm:"not null"`
	AffectedCup          *int                     `json:"affected_cup"`
	CreatedAt            time.Time                `json:"created_at"`
	UpdatedAt            time.Time                `json:"updated_at"`
	DeletedAt            gorm.DeletedAt           `json:"-" gorm:"index"`

	// Relationships
	Game Game  `json:"game,omitempty"`
	User *User `json:"user,omitempty"`
}
