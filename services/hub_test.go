package services

import (
	"encoding/json"
	"testing"
	"time"

	"beerpong/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameChannel(t *testing.T) {
	assert.Equal(t, "game-updates.42", GameChannel(42))
}

func TestGameUpdatePayloadWireFormat(t *testing.T) {
	created := time.Date(2025, 8, 9, 12, 0, 0, 0, time.UTC)
	payload := GameUpdatePayload{
		UserID:               uintPtr(3),
		GameID:               42,
		Type:                 models.GameUpdateTypeHit,
		SelfCupPositions:     []int{1, 2},
		OpponentCupPositions: []int{4},
		AffectedCup:          intPtr(4),
		SelfCupsLeft:         2,
		OpponentCupsLeft:     1,
		CreatedAt:            created,
		Created:              true,
	}

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, key := range []string{
		"user_id", "game_id", "type",
		"self_cup_positions", "opponent_cup_positions",
		"affected_cup", "self_cups_left", "opponent_cups_left",
		"created_at", "created",
	} {
		assert.Contains(t, decoded, key)
	}

	assert.Equal(t, "HIT", decoded["type"])
	assert.Equal(t, true, decoded["created"])
	assert.Equal(t, float64(42), decoded["game_id"])
}

func TestGameUpdatePayloadDeletionMarksCreatedFalse(t *testing.T) {
	update := &models.GameUpdate{
		GameID:           7,
		UserID:           uintPtr(1),
		Type:             models.GameUpdateTypeMiss,
		SelfCupsLeft:     3,
		OpponentCupsLeft: 5,
	}

	payload := GameUpdatePayload{
		UserID:               update.UserID,
		GameID:               update.GameID,
		Type:                 update.Type,
		SelfCupPositions:     update.SelfCupPositions,
		OpponentCupPositions: update.OpponentCupPositions,
		AffectedCup:          update.AffectedCup,
		SelfCupsLeft:         update.SelfCupsLeft,
		OpponentCupsLeft:     update.OpponentCupsLeft,
		CreatedAt:            update.CreatedAt,
		Created:              false,
	}

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, false, decoded["created"])
	// Neutral-safe: null positions stay null on the wire.
	assert.Nil(t, decoded["self_cup_positions"])
}
