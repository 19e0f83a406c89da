package scoring

import (
	"sort"
	"time"

	"cruxed/metrics"
	"cruxed/repository"
)

type RankedEntry struct {
	Rank          int    `json:"rank"`
	ParticipantId int    `json:"participant_id"`
	DisplayName   string `json:"name"`
	CategoryId    int    `json:"category_id"`
	TotalPoints   int    `json:"total_points"`
	ClimbsTopped  int    `json:"climbs_topped"`
	TotalAttempts int    `json:"total_attempts"`
}

// ComputeLeaderboard aggregates each participant's topped scores and ranks
// them: total points descending, climbs topped descending, total attempts
// ascending. The sort is stable and ranks are sequential 1-based positions;
// fully tied participants still get distinct consecutive ranks.
func ComputeLeaderboard(participants []*repository.Participant, scoresByParticipant map[int][]*repository.Score) []*RankedEntry {
	t := time.Now()
	entries := make([]*RankedEntry, 0, len(participants))
	for _, participant := range participants {
		entry := &RankedEntry{
			ParticipantId: participant.Id,
			DisplayName:   participant.DisplayName,
			CategoryId:    participant.CategoryId,
		}
		for _, score := range scoresByParticipant[participant.Id] {
			if !score.Topped {
				continue
			}
			entry.TotalPoints += score.Points
			entry.ClimbsTopped++
			entry.TotalAttempts += score.Attempts
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.ClimbsTopped != b.ClimbsTopped {
			return a.ClimbsTopped > b.ClimbsTopped
		}
		return a.TotalAttempts < b.TotalAttempts
	})
	for i, entry := range entries {
		entry.Rank = i + 1
	}
	metrics.LeaderboardDuration.Observe(time.Since(t).Seconds())
	return entries
}
