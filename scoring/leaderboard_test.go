package scoring

import (
	"testing"

	"cruxed/repository"

	"github.com/stretchr/testify/assert"
)

func participant(id int, name string) *repository.Participant {
	return &repository.Participant{Id: id, DisplayName: name, CategoryId: 1}
}

func topped(participantId int, points int, attempts int) *repository.Score {
	return &repository.Score{ParticipantId: participantId, Points: points, Attempts: attempts, Topped: true}
}

func TestComputeLeaderboardOrdersByPoints(t *testing.T) {
	participants := []*repository.Participant{
		participant(1, "alice"),
		participant(2, "bob"),
	}
	scores := map[int][]*repository.Score{
		1: {topped(1, 600, 2)},
		2: {topped(2, 1000, 1)},
	}

	entries := ComputeLeaderboard(participants, scores)

	assert.Len(t, entries, 2)
	assert.Equal(t, "bob", entries[0].DisplayName)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 1000, entries[0].TotalPoints)
	assert.Equal(t, "alice", entries[1].DisplayName)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestComputeLeaderboardTieBreakFewerAttemptsWins(t *testing.T) {
	// A and B both have 3 tops worth 1800 points; B used fewer attempts
	participants := []*repository.Participant{
		participant(1, "A"),
		participant(2, "B"),
	}
	scores := map[int][]*repository.Score{
		1: {topped(1, 1000, 1), topped(1, 500, 3), topped(1, 300, 3)},
		2: {topped(2, 1000, 1), topped(2, 500, 2), topped(2, 300, 2)},
	}

	entries := ComputeLeaderboard(participants, scores)

	assert.Equal(t, "B", entries[0].DisplayName)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 5, entries[0].TotalAttempts)
	assert.Equal(t, "A", entries[1].DisplayName)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 7, entries[1].TotalAttempts)
}

func TestComputeLeaderboardTieBreakMoreTopsWins(t *testing.T) {
	participants := []*repository.Participant{
		participant(1, "one-big-top"),
		participant(2, "two-tops"),
	}
	scores := map[int][]*repository.Score{
		1: {topped(1, 1000, 1)},
		2: {topped(2, 600, 1), topped(2, 400, 1)},
	}

	entries := ComputeLeaderboard(participants, scores)

	assert.Equal(t, "two-tops", entries[0].DisplayName)
	assert.Equal(t, "one-big-top", entries[1].DisplayName)
}

func TestComputeLeaderboardFullTiesGetSequentialRanks(t *testing.T) {
	// fully tied participants keep input order and still get distinct ranks
	participants := []*repository.Participant{
		participant(1, "first"),
		participant(2, "second"),
		participant(3, "third"),
	}
	scores := map[int][]*repository.Score{
		1: {topped(1, 500, 2)},
		2: {topped(2, 500, 2)},
		3: {topped(3, 500, 2)},
	}

	entries := ComputeLeaderboard(participants, scores)

	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
	assert.Equal(t, "first", entries[0].DisplayName)
	assert.Equal(t, "second", entries[1].DisplayName)
	assert.Equal(t, "third", entries[2].DisplayName)
}

func TestComputeLeaderboardIgnoresNonToppedScores(t *testing.T) {
	participants := []*repository.Participant{participant(1, "alice")}
	scores := map[int][]*repository.Score{
		1: {
			topped(1, 800, 2),
			{ParticipantId: 1, Points: 0, Attempts: 6, Topped: false},
		},
	}

	entries := ComputeLeaderboard(participants, scores)

	assert.Equal(t, 800, entries[0].TotalPoints)
	assert.Equal(t, 1, entries[0].ClimbsTopped)
	// non-topped attempts do not count toward the total
	assert.Equal(t, 2, entries[0].TotalAttempts)
}

func TestComputeLeaderboardIncludesScorelessParticipants(t *testing.T) {
	participants := []*repository.Participant{
		participant(1, "scored"),
		participant(2, "joined-late"),
	}
	scores := map[int][]*repository.Score{
		1: {topped(1, 100, 5)},
	}

	entries := ComputeLeaderboard(participants, scores)

	assert.Len(t, entries, 2)
	assert.Equal(t, "joined-late", entries[1].DisplayName)
	assert.Equal(t, 0, entries[1].TotalPoints)
	assert.Equal(t, 2, entries[1].Rank)
}
