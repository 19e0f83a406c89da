package service

import (
	"errors"
	"time"

	"cruxed/app_error"
	"cruxed/repository"
	"cruxed/scoring"

	"gorm.io/gorm"
)

type ScoreService struct {
	scoreRepository       *repository.ScoreRepository
	climbRepository       *repository.ClimbRepository
	participantRepository *repository.ParticipantRepository
	compRepository        *repository.CompRepository
}

func NewScoreService(db *gorm.DB) *ScoreService {
	return &ScoreService{
		scoreRepository:       repository.NewScoreRepository(db),
		climbRepository:       repository.NewClimbRepository(db),
		participantRepository: repository.NewParticipantRepository(db),
		compRepository:        repository.NewCompRepository(db),
	}
}

// SubmitScore validates and writes one score. Checks run in a fixed order,
// each with its own failure mode: input shape, closing date, climb in comp,
// participant in comp, device ownership. A submission that is not topped
// always stores zero points. The write is an upsert on (participant, climb);
// prior points are replaced, never accumulated.
func (s *ScoreService) SubmitScore(compId int, participantId int, climbId int, attempts int, topped bool, deviceId *string) (*repository.Score, error) {
	if attempts < 1 {
		return nil, app_error.Validation("attempts must be a positive integer")
	}
	comp, err := s.compRepository.GetCompById(compId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("comp not found")
		}
		return nil, err
	}
	if comp.ClosesAt != nil && time.Now().After(*comp.ClosesAt) {
		return nil, app_error.LoggingClosed("logging has closed for this competition")
	}
	climb, err := s.climbRepository.GetClimbInComp(climbId, compId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("climb not found")
		}
		return nil, err
	}
	participant, err := s.participantRepository.GetParticipantInComp(participantId, compId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("participant not found")
		}
		return nil, err
	}
	if deviceId != nil && participant.DeviceId != *deviceId {
		return nil, app_error.Forbidden("device does not own this participant")
	}
	return s.upsert(climb, participant, attempts, topped)
}

// SubmitScoreOverride is the admin surface: it skips the closing-date and
// device-ownership checks but keeps the referential ones.
func (s *ScoreService) SubmitScoreOverride(compId int, participantId int, climbId int, attempts int, topped bool) (*repository.Score, error) {
	if attempts < 1 {
		return nil, app_error.Validation("attempts must be a positive integer")
	}
	climb, err := s.climbRepository.GetClimbInComp(climbId, compId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("climb not found")
		}
		return nil, err
	}
	participant, err := s.participantRepository.GetParticipantInComp(participantId, compId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("participant not found")
		}
		return nil, err
	}
	return s.upsert(climb, participant, attempts, topped)
}

// WithdrawScore clears a submitted climb. The row is kept with zero points
// and a single attempt rather than deleted, so the pair stays visible in
// score listings.
func (s *ScoreService) WithdrawScore(compId int, participantId int, climbId int) (*repository.Score, error) {
	return s.SubmitScoreOverride(compId, participantId, climbId, 1, false)
}

func (s *ScoreService) upsert(climb *repository.Climb, participant *repository.Participant, attempts int, topped bool) (*repository.Score, error) {
	points := 0
	if topped {
		points = scoring.CalculatePoints(&climb.PointSchedule, attempts)
	}
	return s.scoreRepository.Upsert(&repository.Score{
		ParticipantId: participant.Id,
		ClimbId:       climb.Id,
		Attempts:      attempts,
		Topped:        topped,
		Points:        points,
	})
}

func (s *ScoreService) GetScoresForComp(compId int, participantId *int) ([]*repository.Score, error) {
	return s.scoreRepository.GetScoresForComp(compId, participantId)
}

func (s *ScoreService) GetScoresForParticipant(compId int, participantId int) ([]*repository.Score, error) {
	return s.scoreRepository.GetScoresForParticipant(compId, participantId)
}
