package repository

import (
	"time"

	"cruxed/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Participant struct {
	Id          int       `gorm:"primaryKey"`
	CompId      int       `gorm:"not null;uniqueIndex:idx_participant_comp_device;references comps(id)"`
	CategoryId  int       `gorm:"not null;references categories(id)"`
	Category    *Category `gorm:"foreignKey:CategoryId"`
	DisplayName string    `gorm:"not null"`
	DeviceId    string    `gorm:"not null;uniqueIndex:idx_participant_comp_device"`
	CreatedAt   time.Time `gorm:"not null"`
	Scores      []*Score  `gorm:"foreignKey:ParticipantId;constraint:OnDelete:CASCADE"`
}

type ParticipantRepository struct {
	DB *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{DB: db}
}

// Upsert inserts the participant or, when the (comp, device) pair already
// exists, updates the display name in place. The category of an existing
// participant is left untouched.
func (r *ParticipantRepository) Upsert(participant *Participant) (*Participant, error) {
	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "comp_id"}, {Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name"}),
	}).Create(participant)
	if result.Error != nil {
		return nil, result.Error
	}
	return r.GetByDevice(participant.CompId, participant.DeviceId, "Category")
}

func (r *ParticipantRepository) Save(participant *Participant) (*Participant, error) {
	result := r.DB.Save(participant)
	if result.Error != nil {
		return nil, result.Error
	}
	return participant, nil
}

func (r *ParticipantRepository) GetParticipantInComp(participantId int, compId int, preloads ...string) (*Participant, error) {
	var participant Participant
	query := r.DB
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	result := query.First(&participant, &Participant{Id: participantId, CompId: compId})
	if result.Error != nil {
		return nil, result.Error
	}
	return &participant, nil
}

func (r *ParticipantRepository) GetByDevice(compId int, deviceId string, preloads ...string) (*Participant, error) {
	var participant Participant
	query := r.DB
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	result := query.First(&participant, &Participant{CompId: compId, DeviceId: deviceId})
	if result.Error != nil {
		return nil, result.Error
	}
	return &participant, nil
}

// GetByName resolves a participant by case-insensitive exact display name.
// Duplicate names resolve to the earliest-created participant.
func (r *ParticipantRepository) GetByName(compId int, name string) (*Participant, error) {
	var participant Participant
	result := r.DB.Preload("Category").
		Where("comp_id = ? AND LOWER(display_name) = LOWER(?)", compId, name).
		Order("created_at ASC").
		First(&participant)
	if result.Error != nil {
		return nil, result.Error
	}
	return &participant, nil
}

func (r *ParticipantRepository) GetParticipantsForComp(compId int, categoryId *int) ([]*Participant, error) {
	timer := prometheus.NewTimer(metrics.QueryDuration.WithLabelValues("GetParticipantsForComp"))
	defer timer.ObserveDuration()
	participants := make([]*Participant, 0)
	query := r.DB.Preload("Category").Order("created_at ASC").Where("comp_id = ?", compId)
	if categoryId != nil {
		query = query.Where("category_id = ?", *categoryId)
	}
	result := query.Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}
	return participants, nil
}

func (r *ParticipantRepository) Delete(participant *Participant) error {
	return r.DB.Delete(participant).Error
}
