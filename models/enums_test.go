package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameTypeStartingCups(t *testing.T) {
	assert.Equal(t, 6, GameTypeSixCup.StartingCups())
	assert.Equal(t, 10, GameTypeTenCup.StartingCups())
}

func TestGameUpdateTypeIsThrow(t *testing.T) {
	assert.True(t, GameUpdateTypeMiss.IsThrow())
	assert.True(t, GameUpdateTypeEdge.IsThrow())
	assert.True(t, GameUpdateTypeHit.IsThrow())

	assert.False(t, GameUpdateTypeStart.IsThrow())
	assert.False(t, GameUpdateTypeEnd.IsThrow())
	assert.False(t, GameUpdateTypeRerack.IsThrow())
}

func TestGameUpdateTypeValid(t *testing.T) {
	assert.True(t, GameUpdateTypeStart.Valid())
	assert.False(t, GameUpdateType("SPLASH").Valid())
}
