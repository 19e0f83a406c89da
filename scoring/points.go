package scoring

import (
	"cruxed/repository"
)

// CalculatePoints converts an attempt count into a point value for one climb.
// Attempt 1 always pays the flash value. Explicit tiers win over the
// MaxAttempts cutoff; anything without a tier falls back to MinPoints.
func CalculatePoints(schedule *repository.PointSchedule, attempts int) int {
	if attempts <= 0 {
		return 0
	}
	if attempts == 1 {
		return schedule.Flash
	}
	if points, ok := schedule.Attempts[attempts]; ok {
		return points
	}
	if attempts > schedule.MaxAttempts {
		return schedule.MinPoints
	}
	return schedule.MinPoints
}
