package models

// GameTeam links one team to a team game. Result and CupsLeft stay
// nil until the state engine initializes/ends the game.
type GameTeam struct {
	ID       uint        `json:"id" gorm:"primaryKey"`
	GameID   uint        `json:"game_id" gorm:"not null;index"`
	TeamID   uint        `json:"team_id" gorm:"not null"`
	Result   *GameResult `json:"result"`
	CupsLeft *int        `json:"cups_left"`

	// Relationships
	Team Team `json:"team,omitempty"`
}
