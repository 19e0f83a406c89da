package repository

import (
	"gorm.io/gorm"
)

type Climb struct {
	Id            int           `gorm:"primaryKey"`
	CompId        int           `gorm:"not null;references comps(id)"`
	Name          string        `gorm:"not null"`
	ClimbNumber   int           `gorm:"not null"`
	SortOrder     int           `gorm:"not null;default:0"`
	PointSchedule PointSchedule `gorm:"type:jsonb;not null"`
}

type ClimbRepository struct {
	DB *gorm.DB
}

func NewClimbRepository(db *gorm.DB) *ClimbRepository {
	return &ClimbRepository{DB: db}
}

func (r *ClimbRepository) Save(climb *Climb) (*Climb, error) {
	result := r.DB.Save(climb)
	if result.Error != nil {
		return nil, result.Error
	}
	return climb, nil
}

func (r *ClimbRepository) GetClimbsForComp(compId int) ([]*Climb, error) {
	climbs := make([]*Climb, 0)
	result := r.DB.Order("sort_order ASC, climb_number ASC").Find(&climbs, &Climb{CompId: compId})
	if result.Error != nil {
		return nil, result.Error
	}
	return climbs, nil
}

func (r *ClimbRepository) GetClimbInComp(climbId int, compId int) (*Climb, error) {
	var climb Climb
	result := r.DB.First(&climb, &Climb{Id: climbId, CompId: compId})
	if result.Error != nil {
		return nil, result.Error
	}
	return &climb, nil
}

func (r *ClimbRepository) Delete(climb *Climb) error {
	return r.DB.Delete(climb).Error
}
