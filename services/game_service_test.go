package services

import (
	"testing"

	"beerpong/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultPtr(r models.GameResult) *models.GameResult { return &r }

func endedSoloGame() *models.Game {
	return &models.Game{
		ID:      1,
		Type:    models.GameTypeTenCup,
		IsSolo:  true,
		IsEnded: true,
		Users: []models.GameUser{
			{
				GameID:   1,
				UserID:   1,
				Result:   resultPtr(models.GameResultWin),
				CupsLeft: intPtr(4),
				User:     models.User{ID: 1, Name: "alice"},
			},
			{
				GameID:   1,
				UserID:   2,
				Result:   resultPtr(models.GameResultLoss),
				CupsLeft: intPtr(0),
				User:     models.User{ID: 2, Name: "bob"},
			},
		},
		GameUpdates: []models.GameUpdate{
			throwUpdate(1, models.GameUpdateTypeHit),
			throwUpdate(1, models.GameUpdateTypeMiss),
			throwUpdate(2, models.GameUpdateTypeMiss),
		},
	}
}

func endedTeamGame() *models.Game {
	winners := models.Team{ID: 100, Name: "winners", Users: []models.User{
		{ID: 1, Name: "alice"}, {ID: 2, Name: "bob"},
	}}
	losers := models.Team{ID: 200, Name: "losers", Users: []models.User{
		{ID: 3, Name: "carol"}, {ID: 4, Name: "dave"},
	}}

	return &models.Game{
		ID:      2,
		Type:    models.GameTypeSixCup,
		IsSolo:  false,
		IsEnded: true,
		Teams: []models.GameTeam{
			{
				GameID:   2,
				TeamID:   winners.ID,
				Result:   resultPtr(models.GameResultWin),
				CupsLeft: intPtr(2),
				Team:     winners,
			},
			{
				GameID:   2,
				TeamID:   losers.ID,
				Result:   resultPtr(models.GameResultLoss),
				CupsLeft: intPtr(0),
				Team:     losers,
			},
		},
	}
}

func TestBuildMatchHistoryEntrySolo(t *testing.T) {
	game := endedSoloGame()
	viewer := &models.User{ID: 1, Name: "alice"}

	entry, err := BuildMatchHistoryEntry(game, viewer)
	require.NoError(t, err)

	assert.Equal(t, game.ID, entry.ID)
	assert.True(t, entry.IsSolo)
	assert.True(t, entry.IsEnded)
	assert.Nil(t, entry.PrimaryTeam)
	assert.Nil(t, entry.SecondaryTeam)

	require.NotNil(t, entry.PrimaryUser)
	assert.Equal(t, uint(1), entry.PrimaryUser.ID)
	assert.Equal(t, models.GameResultWin, *entry.PrimaryUser.Result)
	assert.Equal(t, 4, *entry.PrimaryUser.CupsLeft)

	require.NotNil(t, entry.SecondaryUser)
	assert.Equal(t, uint(2), entry.SecondaryUser.ID)
	assert.Equal(t, models.GameResultLoss, *entry.SecondaryUser.Result)

	// Viewer's own statistics: 1 hit out of 2 throws.
	assert.Equal(t, 2, entry.TotalThrows)
	assert.Equal(t, 1, entry.Hits)
	assert.Equal(t, 50.0, entry.HitRate)
	assert.Equal(t, 50.0, entry.MissRate)
}

func TestBuildMatchHistoryEntrySoloSwapsPerspective(t *testing.T) {
	game := endedSoloGame()
	viewer := &models.User{ID: 2, Name: "bob"}

	entry, err := BuildMatchHistoryEntry(game, viewer)
	require.NoError(t, err)

	assert.Equal(t, uint(2), entry.PrimaryUser.ID)
	assert.Equal(t, models.GameResultLoss, *entry.PrimaryUser.Result)
	assert.Equal(t, uint(1), entry.SecondaryUser.ID)
}

func TestBuildMatchHistoryEntryTeamLoser(t *testing.T) {
	game := endedTeamGame()
	viewer := &models.User{ID: 3, Name: "carol"}

	entry, err := BuildMatchHistoryEntry(game, viewer)
	require.NoError(t, err)

	assert.Nil(t, entry.PrimaryUser)
	assert.Nil(t, entry.SecondaryUser)

	require.NotNil(t, entry.PrimaryTeam)
	assert.Equal(t, uint(200), entry.PrimaryTeam.ID)
	assert.Equal(t, models.GameResultLoss, *entry.PrimaryTeam.Result)
	assert.Equal(t, 0, *entry.PrimaryTeam.CupsLeft)

	require.NotNil(t, entry.SecondaryTeam)
	assert.Equal(t, uint(100), entry.SecondaryTeam.ID)
	assert.Equal(t, models.GameResultWin, *entry.SecondaryTeam.Result)

	// Team members are identity-only, outcome lives on the team.
	require.Len(t, entry.PrimaryTeam.Users, 2)
	for _, u := range entry.PrimaryTeam.Users {
		assert.Nil(t, u.Result)
		assert.Nil(t, u.CupsLeft)
	}
}

func TestBuildMatchHistoryEntryViewerNotInGame(t *testing.T) {
	game := endedSoloGame()
	viewer := &models.User{ID: 99, Name: "mallory"}

	_, err := BuildMatchHistoryEntry(game, viewer)

	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestBuildMatchHistoryEntryTeamViewerNotInGame(t *testing.T) {
	game := endedTeamGame()
	viewer := &models.User{ID: 99, Name: "mallory"}

	_, err := BuildMatchHistoryEntry(game, viewer)

	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestBuildMatchHistoryEntryMissingSecondaryUser(t *testing.T) {
	game := endedSoloGame()
	game.Users = game.Users[:1]
	viewer := &models.User{ID: 1, Name: "alice"}

	entry, err := BuildMatchHistoryEntry(game, viewer)
	require.NoError(t, err)

	assert.NotNil(t, entry.PrimaryUser)
	assert.Nil(t, entry.SecondaryUser)
}
