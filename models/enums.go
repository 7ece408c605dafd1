package models

// GameType determines how many cups each side starts with.
type GameType string

const (
	GameTypeSixCup GameType = "SIX_CUP"
	GameTypeTenCup GameType = "TEN_CUP"
)

// StartingCups returns the cup count each side begins the game with.
func (t GameType) StartingCups() int {
	if t == GameTypeTenCup {
		return 10
	}
	return 6
}

func (t GameType) Valid() bool {
	return t == GameTypeSixCup || t == GameTypeTenCup
}

// GameResult is assigned to each participant link when a game ends.
type GameResult string

const (
	GameResultWin  GameResult = "WIN"
	GameResultLoss GameResult = "LOSS"
)

// GameUpdateType classifies a single entry in a game's update ledger.
type GameUpdateType string

const (
	GameUpdateTypeStart  GameUpdateType = "START"
	GameUpdateTypeEnd    GameUpdateType = "END"
	GameUpdateTypeMiss   GameUpdateType = "MISS"
	GameUpdateTypeEdge   GameUpdateType = "EDGE"
	GameUpdateTypeHit    GameUpdateType = "HIT"
	GameUpdateTypeRerack GameUpdateType = "RERACK"
)

// IsThrow reports whether the update represents an actual throw.
// START, END and RERACK are bookkeeping entries and never count
// towards throw statistics.
func (t GameUpdateType) IsThrow() bool {
	return t == GameUpdateTypeMiss || t == GameUpdateTypeEdge || t == GameUpdateTypeHit
}

func (t GameUpdateType) Valid() bool {
	switch t {
	case GameUpdateTypeStart, GameUpdateTypeEnd, GameUpdateTypeMiss,
		GameUpdateTypeEdge, GameUpdateTypeHit, GameUpdateTypeRerack:
		return true
	}
	return false
}
