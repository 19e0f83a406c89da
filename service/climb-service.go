package service

import (
	"errors"

	"cruxed/app_error"
	"cruxed/repository"

	"gorm.io/gorm"
)

type ClimbService struct {
	climbRepository *repository.ClimbRepository
	compRepository  *repository.CompRepository
}

func NewClimbService(db *gorm.DB) *ClimbService {
	return &ClimbService{
		climbRepository: repository.NewClimbRepository(db),
		compRepository:  repository.NewCompRepository(db),
	}
}

func (s *ClimbService) GetClimbsForComp(compId int) ([]*repository.Climb, error) {
	return s.climbRepository.GetClimbsForComp(compId)
}

// CreateClimb stores the climb with its own point schedule. A nil schedule
// copies the comp's default; the copy is independently editable afterwards.
func (s *ClimbService) CreateClimb(compId int, name string, climbNumber int, sortOrder int, schedule *repository.PointSchedule) (*repository.Climb, error) {
	if name == "" {
		return nil, app_error.Validation("name is required")
	}
	if climbNumber < 1 {
		return nil, app_error.Validation("climb number is required")
	}
	if schedule == nil {
		comp, err := s.compRepository.GetCompById(compId)
		if err != nil {
			return nil, err
		}
		defaulted := comp.DefaultPointSchedule
		schedule = &defaulted
	}
	if err := schedule.Validate(); err != nil {
		return nil, app_error.Validation("invalid point schedule: %v", err)
	}
	return s.climbRepository.Save(&repository.Climb{
		CompId:        compId,
		Name:          name,
		ClimbNumber:   climbNumber,
		SortOrder:     sortOrder,
		PointSchedule: *schedule,
	})
}

type ClimbUpdate struct {
	Name          *string
	ClimbNumber   *int
	SortOrder     *int
	PointSchedule *repository.PointSchedule
}

func (s *ClimbService) UpdateClimb(compId int, climbId int, update *ClimbUpdate) (*repository.Climb, error) {
	climb, err := s.GetClimbInComp(climbId, compId)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		if *update.Name == "" {
			return nil, app_error.Validation("name cannot be empty")
		}
		climb.Name = *update.Name
	}
	if update.ClimbNumber != nil {
		if *update.ClimbNumber < 1 {
			return nil, app_error.Validation("climb number must be positive")
		}
		climb.ClimbNumber = *update.ClimbNumber
	}
	if update.SortOrder != nil {
		climb.SortOrder = *update.SortOrder
	}
	if update.PointSchedule != nil {
		if err := update.PointSchedule.Validate(); err != nil {
			return nil, app_error.Validation("invalid point schedule: %v", err)
		}
		climb.PointSchedule = *update.PointSchedule
	}
	return s.climbRepository.Save(climb)
}

func (s *ClimbService) GetClimbInComp(climbId int, compId int) (*repository.Climb, error) {
	climb, err := s.climbRepository.GetClimbInComp(climbId, compId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("climb not found")
		}
		return nil, err
	}
	return climb, nil
}

func (s *ClimbService) DeleteClimb(compId int, climbId int) error {
	climb, err := s.GetClimbInComp(climbId, compId)
	if err != nil {
		return err
	}
	return s.climbRepository.Delete(climb)
}
