package models

import (
	"time"

	"gorm.io/gorm"
)

// Game is a single beer-pong match between two users (solo) or two
// teams. Participant links carry the per-side result and cup count;
// the update ledger lives in GameUpdates, ordered by id.
type Game struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Type      GameType       `json:"type" gorm:"not null"`
	IsSolo    bool           `json:"is_solo" gorm:"not null"`
	IsEnded   bool           `json:"is_ended" gorm:"not null;default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Users       []GameUser   `json:"users,omitempty" gorm:"foreignKey:GameID"`
	Teams       []GameTeam   `json:"teams,omitempty" gorm:"foreignKey:GameID"`
	GameUpdates []GameUpdate `json:"game_updates,omitempty" gorm:"foreignKey:GameID"`
}

// IsUserInGame reports whether the user plays in this game, either
// directly (solo) or through one of the attached teams. Users and
// Teams.Team.Users must be preloaded.
func (g *Game) IsUserInGame(userID uint) bool {
	for _, gu := range g.Users {
		if gu.UserID == userID {
			return true
		}
	}
	for _, gt := range g.Teams {
		if gt.Team.HasUser(userID) {
			return true
		}
	}
	return false
}
