package services

import (
	"testing"

	"beerpong/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }
func intPtr(v int) *int    { return &v }

func soloGame(gameType models.GameType, userA, userB uint) *models.Game {
	cups := gameType.StartingCups()
	a, b := cups, cups
	return &models.Game{
		ID:     1,
		Type:   gameType,
		IsSolo: true,
		Users: []models.GameUser{
			{ID: 10, GameID: 1, UserID: userA, CupsLeft: &a},
			{ID: 11, GameID: 1, UserID: userB, CupsLeft: &b},
		},
	}
}

func teamGame(gameType models.GameType, homeUsers, awayUsers []uint) *models.Game {
	cups := gameType.StartingCups()
	a, b := cups, cups

	home := models.Team{ID: 100, Name: "home"}
	for _, id := range homeUsers {
		home.Users = append(home.Users, models.User{ID: id})
	}
	away := models.Team{ID: 200, Name: "away"}
	for _, id := range awayUsers {
		away.Users = append(away.Users, models.User{ID: id})
	}

	return &models.Game{
		ID:     2,
		Type:   gameType,
		IsSolo: false,
		Teams: []models.GameTeam{
			{ID: 20, GameID: 2, TeamID: home.ID, CupsLeft: &a, Team: home},
			{ID: 21, GameID: 2, TeamID: away.ID, CupsLeft: &b, Team: away},
		},
	}
}

func TestUpdateEndsGame(t *testing.T) {
	assert.True(t, updateEndsGame(&models.GameUpdate{UserID: uintPtr(1), SelfCupsLeft: 0, OpponentCupsLeft: 3}))
	assert.True(t, updateEndsGame(&models.GameUpdate{UserID: uintPtr(1), SelfCupsLeft: 4, OpponentCupsLeft: 0}))
	assert.False(t, updateEndsGame(&models.GameUpdate{UserID: uintPtr(1), SelfCupsLeft: 4, OpponentCupsLeft: 3}))

	// Neutral updates never end a game.
	assert.False(t, updateEndsGame(&models.GameUpdate{UserID: nil, SelfCupsLeft: 0, OpponentCupsLeft: 0}))
}

func TestApplyCupsToLinksSolo(t *testing.T) {
	game := soloGame(models.GameTypeSixCup, 1, 2)
	update := &models.GameUpdate{
		UserID:           uintPtr(1),
		Type:             models.GameUpdateTypeHit,
		SelfCupsLeft:     5,
		OpponentCupsLeft: 2,
	}

	require.NoError(t, applyCupsToLinks(game, update))

	assert.Equal(t, 5, *game.Users[0].CupsLeft)
	assert.Equal(t, 2, *game.Users[1].CupsLeft)
}

func TestApplyCupsToLinksTeam(t *testing.T) {
	game := teamGame(models.GameTypeTenCup, []uint{1, 2}, []uint{3, 4})
	update := &models.GameUpdate{
		UserID:           uintPtr(4), // away team throws
		Type:             models.GameUpdateTypeHit,
		SelfCupsLeft:     7,
		OpponentCupsLeft: 6,
	}

	require.NoError(t, applyCupsToLinks(game, update))

	assert.Equal(t, 6, *game.Teams[0].CupsLeft)
	assert.Equal(t, 7, *game.Teams[1].CupsLeft)
}

func TestAssignResultsSolo(t *testing.T) {
	game := soloGame(models.GameTypeSixCup, 1, 2)
	game.Users[0].CupsLeft = intPtr(0)
	game.Users[1].CupsLeft = intPtr(3)

	require.NoError(t, assignResults(game))

	assert.Equal(t, models.GameResultLoss, *game.Users[0].Result)
	assert.Equal(t, models.GameResultWin, *game.Users[1].Result)
}

func TestAssignResultsNegativeCups(t *testing.T) {
	game := soloGame(models.GameTypeSixCup, 1, 2)
	game.Users[0].CupsLeft = intPtr(-1)
	game.Users[1].CupsLeft = intPtr(3)

	err := assignResults(game)

	assert.ErrorIs(t, err, ErrInvariantViolation)
}

// A ten-cup solo game ending throw: the thrower keeps 4 cups and
// takes the opponent's last one.
func TestEndGameScenarioTenCupSolo(t *testing.T) {
	game := soloGame(models.GameTypeTenCup, 1, 2)
	update := &models.GameUpdate{
		UserID:           uintPtr(1),
		Type:             models.GameUpdateTypeHit,
		SelfCupsLeft:     4,
		OpponentCupsLeft: 0,
	}

	require.True(t, updateEndsGame(update))
	require.NoError(t, applyCupsToLinks(game, update))
	require.NoError(t, assignResults(game))

	assert.Equal(t, models.GameResultWin, *game.Users[0].Result)
	assert.Equal(t, 4, *game.Users[0].CupsLeft)
	assert.Equal(t, models.GameResultLoss, *game.Users[1].Result)
	assert.Equal(t, 0, *game.Users[1].CupsLeft)
}

func TestValidateGameUpdate(t *testing.T) {
	game := soloGame(models.GameTypeSixCup, 1, 2)

	valid := &CreateGameUpdateRequest{
		UserID:               uintPtr(1),
		Type:                 models.GameUpdateTypeHit,
		SelfCupPositions:     []int{1, 2, 3},
		OpponentCupPositions: []int{2, 4},
		SelfCupsLeft:         3,
		OpponentCupsLeft:     2,
		AffectedCup:          intPtr(4),
	}
	assert.NoError(t, validateGameUpdate(game, valid))

	tests := []struct {
		name string
		req  CreateGameUpdateRequest
	}{
		{
			name: "unknown type",
			req:  CreateGameUpdateRequest{Type: "SPLASH"},
		},
		{
			name: "cups left above game size",
			req:  CreateGameUpdateRequest{Type: models.GameUpdateTypeMiss, SelfCupsLeft: 7},
		},
		{
			name: "cup position out of range",
			req: CreateGameUpdateRequest{
				Type:             models.GameUpdateTypeMiss,
				SelfCupPositions: []int{0},
			},
		},
		{
			name: "affected cup out of range",
			req: CreateGameUpdateRequest{
				Type:        models.GameUpdateTypeHit,
				AffectedCup: intPtr(9),
			},
		},
		{
			name: "affected cup on a miss",
			req: CreateGameUpdateRequest{
				Type:        models.GameUpdateTypeMiss,
				AffectedCup: intPtr(1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, validateGameUpdate(game, &tt.req), ErrValidation)
		})
	}
}
