package models

import (
	"time"

	"gorm.io/gorm"
)

type Team struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Users []User `json:"users,omitempty" gorm:"many2many:team_user;"`
}

// HasUser reports whether the given user is a member of the team.
// Users must be preloaded.
func (t *Team) HasUser(userID uint) bool {
	for _, u := range t.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}
