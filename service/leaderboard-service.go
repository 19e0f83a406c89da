package service

import (
	"cruxed/repository"
	"cruxed/scoring"

	"gorm.io/gorm"
)

type LeaderboardService struct {
	participantRepository *repository.ParticipantRepository
	scoreRepository       *repository.ScoreRepository
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{
		participantRepository: repository.NewParticipantRepository(db),
		scoreRepository:       repository.NewScoreRepository(db),
	}
}

// GetLeaderboard recomputes the ranking from the store on every call;
// clients poll rather than receive pushes.
func (s *LeaderboardService) GetLeaderboard(compId int, categoryId *int) ([]*scoring.RankedEntry, error) {
	participants, err := s.participantRepository.GetParticipantsForComp(compId, categoryId)
	if err != nil {
		return nil, err
	}
	scoresByParticipant, err := s.scoreRepository.GetToppedScoresByParticipant(compId)
	if err != nil {
		return nil, err
	}
	return scoring.ComputeLeaderboard(participants, scoresByParticipant), nil
}
