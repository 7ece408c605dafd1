package services

import (
	"math"

	"beerpong/models"
)

// GameThrowStatistics aggregates the throw accuracy of one user in
// one game. Only MISS, EDGE and HIT updates count; rates are
// percentages rounded to one decimal and 0 when no throws exist.
type GameThrowStatistics struct {
	Total       int     `json:"total"`
	Hits        int     `json:"hits"`
	EdgeHits    int     `json:"edge_hits"`
	Misses      int     `json:"misses"`
	HitRate     float64 `json:"hit_rate"`
	EdgeHitRate float64 `json:"edge_hit_rate"`
	MissRate    float64 `json:"miss_rate"`
}

// ComputeThrowStatistics derives throw statistics for the given user
// from a game's update ledger. The result does not depend on the
// order of updates and recomputation from the same input always
// yields the same output.
func ComputeThrowStatistics(updates []models.GameUpdate, userID uint) GameThrowStatistics {
	stats := GameThrowStatistics{}

	for _, update := range updates {
		if update.UserID == nil || *update.UserID != userID || !update.Type.IsThrow() {
			continue
		}

		stats.Total++
		switch update.Type {
		case models.GameUpdateTypeHit:
			stats.Hits++
		case models.GameUpdateTypeEdge:
			stats.EdgeHits++
		case models.GameUpdateTypeMiss:
			stats.Misses++
		}
	}

	stats.HitRate = throwRate(stats.Hits, stats.Total)
	stats.EdgeHitRate = throwRate(stats.EdgeHits, stats.Total)
	stats.MissRate = throwRate(stats.Misses, stats.Total)

	return stats
}

func throwRate(count, total int) float64 {
	if count == 0 || total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}
