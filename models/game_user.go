package models

// GameUser links one user to a solo game. Result and CupsLeft stay
// nil until the state engine initializes/ends the game.
type GameUser struct {
	ID       uint        `json:"id" gorm:"primaryKey"`
	GameID   uint        `json:"game_id" gorm:"not null;index"`
	UserID   uint        `json:"user_id" gorm:"not null"`
	Result   *GameResult `json:"result"`
	CupsLeft *int        `json:"cups_left"`

	// Relationships
	User User `json:"user,omitempty"`
}
