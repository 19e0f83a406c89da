package scoring

import (
	"testing"

	"cruxed/repository"

	"github.com/stretchr/testify/assert"
)

func testSchedule() *repository.PointSchedule {
	return &repository.PointSchedule{
		Flash:       1000,
		Attempts:    map[int]int{2: 800, 3: 600, 4: 500},
		MaxAttempts: 10,
		MinPoints:   100,
	}
}

func TestCalculatePointsFlash(t *testing.T) {
	assert.Equal(t, 1000, CalculatePoints(testSchedule(), 1))
}

func TestCalculatePointsExplicitTier(t *testing.T) {
	schedule := testSchedule()
	assert.Equal(t, 800, CalculatePoints(schedule, 2))
	assert.Equal(t, 600, CalculatePoints(schedule, 3))
	assert.Equal(t, 500, CalculatePoints(schedule, 4))
}

func TestCalculatePointsFallback(t *testing.T) {
	schedule := testSchedule()
	// no explicit tier, below the cutoff
	assert.Equal(t, 100, CalculatePoints(schedule, 5))
	// no explicit tier, above the cutoff
	assert.Equal(t, 100, CalculatePoints(schedule, 11))
}

func TestCalculatePointsExplicitTierBeyondMaxAttempts(t *testing.T) {
	// explicit tiers win even past the MaxAttempts cutoff
	schedule := testSchedule()
	schedule.Attempts[15] = 50
	assert.Equal(t, 50, CalculatePoints(schedule, 15))
}

func TestCalculatePointsNonPositiveAttempts(t *testing.T) {
	schedule := testSchedule()
	assert.Equal(t, 0, CalculatePoints(schedule, 0))
	assert.Equal(t, 0, CalculatePoints(schedule, -3))
}

func TestCalculatePointsEmptyTierTable(t *testing.T) {
	schedule := &repository.PointSchedule{
		Flash:       500,
		Attempts:    map[int]int{},
		MaxAttempts: 1,
		MinPoints:   25,
	}
	assert.Equal(t, 500, CalculatePoints(schedule, 1))
	assert.Equal(t, 25, CalculatePoints(schedule, 2))
	assert.Equal(t, 25, CalculatePoints(schedule, 100))
}

func TestCalculatePointsIsDeterministic(t *testing.T) {
	schedule := testSchedule()
	for attempts := -2; attempts < 20; attempts++ {
		first := CalculatePoints(schedule, attempts)
		assert.Equal(t, first, CalculatePoints(schedule, attempts))
		assert.GreaterOrEqual(t, first, 0)
	}
}
