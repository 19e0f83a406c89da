package service

import (
	"errors"
	"strings"

	"cruxed/app_error"
	"cruxed/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParticipantService struct {
	participantRepository *repository.ParticipantRepository
	categoryRepository    *repository.CategoryRepository
	compRepository        *repository.CompRepository
	scoreRepository       *repository.ScoreRepository
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{
		participantRepository: repository.NewParticipantRepository(db),
		categoryRepository:    repository.NewCategoryRepository(db),
		compRepository:        repository.NewCompRepository(db),
		scoreRepository:       repository.NewScoreRepository(db),
	}
}

// Join registers a device as a participant of an active comp. Re-joining with
// the same device updates the display name only; the category sticks.
func (s *ParticipantService) Join(compId int, displayName string, deviceId string, categoryId int) (*repository.Participant, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, app_error.Validation("name is required")
	}
	if _, err := uuid.Parse(deviceId); err != nil {
		return nil, app_error.Validation("device id must be a valid uuid")
	}
	comp, err := s.compRepository.GetCompById(compId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("comp not found")
		}
		return nil, err
	}
	if comp.Status != repository.CompStatusActive {
		return nil, app_error.CompetitionNotActive("competition is not active")
	}
	if _, err := s.categoryRepository.GetCategoryInComp(categoryId, compId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.Validation("invalid category")
		}
		return nil, err
	}
	return s.participantRepository.Upsert(&repository.Participant{
		CompId:      compId,
		CategoryId:  categoryId,
		DisplayName: displayName,
		DeviceId:    deviceId,
	})
}

// LookupByName resolves a display name case-insensitively within the comp.
// Duplicate names resolve to the earliest-created participant.
func (s *ParticipantService) LookupByName(compId int, name string) (*repository.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, app_error.Validation("name is required")
	}
	participant, err := s.participantRepository.GetByName(compId, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("user does not exist in the competition")
		}
		return nil, err
	}
	return participant, nil
}

// GetByDevice returns the participant registered for the device, or nil when
// the device has not joined the comp yet.
func (s *ParticipantService) GetByDevice(compId int, deviceId string) (*repository.Participant, error) {
	participant, err := s.participantRepository.GetByDevice(compId, deviceId, "Category")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return participant, nil
}

func (s *ParticipantService) GetParticipantsForComp(compId int, categoryId *int) ([]*repository.Participant, error) {
	return s.participantRepository.GetParticipantsForComp(compId, categoryId)
}

func (s *ParticipantService) CountScores(participants []*repository.Participant) (map[int]int64, error) {
	participantIds := make([]int, 0, len(participants))
	for _, participant := range participants {
		participantIds = append(participantIds, participant.Id)
	}
	return s.scoreRepository.CountScoresForParticipants(participantIds)
}

func (s *ParticipantService) GetParticipantInComp(participantId int, compId int, preloads ...string) (*repository.Participant, error) {
	participant, err := s.participantRepository.GetParticipantInComp(participantId, compId, preloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("participant not found")
		}
		return nil, err
	}
	return participant, nil
}

type ParticipantUpdate struct {
	DisplayName *string
	CategoryId  *int
}

// UpdateParticipant is the admin surface for fixing a display name or moving
// a participant to another category.
func (s *ParticipantService) UpdateParticipant(compId int, participantId int, update *ParticipantUpdate) (*repository.Participant, error) {
	participant, err := s.GetParticipantInComp(participantId, compId)
	if err != nil {
		return nil, err
	}
	changed := false
	if update.DisplayName != nil && strings.TrimSpace(*update.DisplayName) != "" {
		participant.DisplayName = strings.TrimSpace(*update.DisplayName)
		changed = true
	}
	if update.CategoryId != nil {
		if _, err := s.categoryRepository.GetCategoryInComp(*update.CategoryId, compId); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, app_error.Validation("invalid category")
			}
			return nil, err
		}
		participant.CategoryId = *update.CategoryId
		changed = true
	}
	if !changed {
		return nil, app_error.Validation("nothing to update")
	}
	participant, err = s.participantRepository.Save(participant)
	if err != nil {
		return nil, err
	}
	return s.participantRepository.GetParticipantInComp(participant.Id, compId, "Category")
}

func (s *ParticipantService) DeleteParticipant(compId int, participantId int) error {
	participant, err := s.GetParticipantInComp(participantId, compId)
	if err != nil {
		return err
	}
	return s.participantRepository.Delete(participant)
}
