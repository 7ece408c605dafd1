package services

import (
	"testing"

	"beerpong/models"

	"github.com/stretchr/testify/assert"
)

func throwUpdate(userID uint, throwType models.GameUpdateType) models.GameUpdate {
	id := userID
	return models.GameUpdate{UserID: &id, Type: throwType}
}

func TestComputeThrowStatistics(t *testing.T) {
	updates := []models.GameUpdate{
		throwUpdate(1, models.GameUpdateTypeHit),
		throwUpdate(1, models.GameUpdateTypeHit),
		throwUpdate(1, models.GameUpdateTypeEdge),
		throwUpdate(1, models.GameUpdateTypeMiss),
		throwUpdate(1, models.GameUpdateTypeMiss),
		// Bookkeeping entries and other users never count.
		throwUpdate(1, models.GameUpdateTypeStart),
		throwUpdate(1, models.GameUpdateTypeRerack),
		throwUpdate(2, models.GameUpdateTypeHit),
		{UserID: nil, Type: models.GameUpdateTypeStart},
	}

	stats := ComputeThrowStatistics(updates, 1)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Hits)
	assert.Equal(t, 1, stats.EdgeHits)
	assert.Equal(t, 2, stats.Misses)
	assert.Equal(t, 40.0, stats.HitRate)
	assert.Equal(t, 20.0, stats.EdgeHitRate)
	assert.Equal(t, 40.0, stats.MissRate)
}

func TestComputeThrowStatisticsNoThrows(t *testing.T) {
	stats := ComputeThrowStatistics(nil, 1)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0.0, stats.HitRate)
	assert.Equal(t, 0.0, stats.EdgeHitRate)
	assert.Equal(t, 0.0, stats.MissRate)
}

func TestComputeThrowStatisticsCountsSumToTotal(t *testing.T) {
	updates := []models.GameUpdate{
		throwUpdate(7, models.GameUpdateTypeHit),
		throwUpdate(7, models.GameUpdateTypeEdge),
		throwUpdate(7, models.GameUpdateTypeEdge),
		throwUpdate(7, models.GameUpdateTypeMiss),
		throwUpdate(7, models.GameUpdateTypeHit),
		throwUpdate(7, models.GameUpdateTypeMiss),
		throwUpdate(7, models.GameUpdateTypeMiss),
	}

	stats := ComputeThrowStatistics(updates, 7)

	assert.Equal(t, stats.Total, stats.Hits+stats.EdgeHits+stats.Misses)
}

func TestComputeThrowStatisticsRoundsToOneDecimal(t *testing.T) {
	updates := []models.GameUpdate{
		throwUpdate(1, models.GameUpdateTypeHit),
		throwUpdate(1, models.GameUpdateTypeMiss),
		throwUpdate(1, models.GameUpdateTypeMiss),
	}

	stats := ComputeThrowStatistics(updates, 1)

	assert.Equal(t, 33.3, stats.HitRate)
	assert.Equal(t, 66.7, stats.MissRate)
}

func TestComputeThrowStatisticsOrderIndependent(t *testing.T) {
	forward := []models.GameUpdate{
		throwUpdate(1, models.GameUpdateTypeHit),
		throwUpdate(1, models.GameUpdateTypeEdge),
		throwUpdate(1, models.GameUpdateTypeMiss),
	}
	reversed := []models.GameUpdate{forward[2], forward[1], forward[0]}

	assert.Equal(t, ComputeThrowStatistics(forward, 1), ComputeThrowStatistics(reversed, 1))
}

func TestComputeThrowStatisticsIdempotent(t *testing.T) {
	updates := []models.GameUpdate{
		throwUpdate(1, models.GameUpdateTypeHit),
		throwUpdate(1, models.GameUpdateTypeMiss),
	}

	first := ComputeThrowStatistics(updates, 1)
	second := ComputeThrowStatistics(updates, 1)

	assert.Equal(t, first, second)
}
