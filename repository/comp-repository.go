package repository

import (
	"strings"
	"time"

	"cruxed/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type CompStatus string

const (
	CompStatusDraft     CompStatus = "DRAFT"
	CompStatusActive    CompStatus = "ACTIVE"
	CompStatusCompleted CompStatus = "COMPLETED"
)

// statusOrder encodes the forward-only lifecycle Draft -> Active -> Completed.
var statusOrder = map[CompStatus]int{
	CompStatusDraft:     0,
	CompStatusActive:    1,
	CompStatusCompleted: 2,
}

func (s CompStatus) IsValid() bool {
	_, ok := statusOrder[s]
	return ok
}

func (s CompStatus) CanTransitionTo(next CompStatus) bool {
	return statusOrder[next] >= statusOrder[s]
}

type Comp struct {
	Id                   int            `gorm:"primaryKey"`
	Name                 string         `gorm:"not null"`
	Code                 string         `gorm:"not null;uniqueIndex"`
	Status               CompStatus     `gorm:"not null;type:cruxed.comp_status;default:'DRAFT'"`
	ClosesAt             *time.Time     `gorm:"null"`
	DefaultPointSchedule PointSchedule  `gorm:"type:jsonb;not null"`
	OwnerId              int            `gorm:"not null;references users(id)"`
	Owner                *User          `gorm:"foreignKey:OwnerId"`
	CreatedAt            time.Time      `gorm:"not null"`
	CoAdmins             []*CoAdmin     `gorm:"foreignKey:CompId;constraint:OnDelete:CASCADE"`
	Categories           []*Category    `gorm:"foreignKey:CompId;constraint:OnDelete:CASCADE"`
	Climbs               []*Climb       `gorm:"foreignKey:CompId;constraint:OnDelete:CASCADE"`
	Participants         []*Participant `gorm:"foreignKey:CompId;constraint:OnDelete:CASCADE"`
}

type CoAdmin struct {
	Id        int       `gorm:"primaryKey"`
	CompId    int       `gorm:"not null;uniqueIndex:idx_co_admin_user_comp;references comps(id)"`
	UserId    int       `gorm:"not null;uniqueIndex:idx_co_admin_user_comp;references users(id)"`
	User      *User     `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"not null"`
}

// IsAdmin reports whether the user owns the comp or is one of its co-admins.
// CoAdmins must be loaded.
func (c *Comp) IsAdmin(userId int) bool {
	if c.OwnerId == userId {
		return true
	}
	for _, coAdmin := range c.CoAdmins {
		if coAdmin.UserId == userId {
			return true
		}
	}
	return false
}

type CompRepository struct {
	DB *gorm.DB
}

func NewCompRepository(db *gorm.DB) *CompRepository {
	return &CompRepository{DB: db}
}

func (r *CompRepository) Save(comp *Comp) (*Comp, error) {
	result := r.DB.Save(comp)
	if result.Error != nil {
		return nil, result.Error
	}
	return comp, nil
}

func (r *CompRepository) GetCompById(compId int, preloads ...string) (*Comp, error) {
	var comp Comp
	query := r.DB
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	result := query.First(&comp, compId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &comp, nil
}

func (r *CompRepository) GetCompByCode(code string, preloads ...string) (*Comp, error) {
	var comp Comp
	query := r.DB
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	result := query.First(&comp, &Comp{Code: strings.ToUpper(code)})
	if result.Error != nil {
		return nil, result.Error
	}
	return &comp, nil
}

// GetCompsForAdmin returns all comps the user owns or co-administers, newest first.
func (r *CompRepository) GetCompsForAdmin(userId int) ([]*Comp, error) {
	timer := prometheus.NewTimer(metrics.QueryDuration.WithLabelValues("GetCompsForAdmin"))
	defer timer.ObserveDuration()
	comps := make([]*Comp, 0)
	result := r.DB.
		Where("owner_id = ? OR id IN (?)", userId,
			r.DB.Model(&CoAdmin{}).Select("comp_id").Where("user_id = ?", userId)).
		Order("created_at DESC").
		Find(&comps)
	if result.Error != nil {
		return nil, result.Error
	}
	return comps, nil
}

func (r *CompRepository) GetActiveComps() ([]*Comp, error) {
	comps := make([]*Comp, 0)
	result := r.DB.Order("created_at DESC").Find(&comps, &Comp{Status: CompStatusActive})
	if result.Error != nil {
		return nil, result.Error
	}
	return comps, nil
}

func (r *CompRepository) Delete(comp *Comp) error {
	return r.DB.Delete(comp).Error
}

type CompCounts struct {
	Climbs       int64
	Participants int64
}

func (r *CompRepository) GetCompCounts(compId int) (*CompCounts, error) {
	counts := &CompCounts{}
	result := r.DB.Model(&Climb{}).Where("comp_id = ?", compId).Count(&counts.Climbs)
	if result.Error != nil {
		return nil, result.Error
	}
	result = r.DB.Model(&Participant{}).Where("comp_id = ?", compId).Count(&counts.Participants)
	if result.Error != nil {
		return nil, result.Error
	}
	return counts, nil
}

func (r *CompRepository) GetCoAdminsForComp(compId int) ([]*CoAdmin, error) {
	coAdmins := make([]*CoAdmin, 0)
	result := r.DB.Preload("User").Order("created_at ASC").Find(&coAdmins, &CoAdmin{CompId: compId})
	if result.Error != nil {
		return nil, result.Error
	}
	return coAdmins, nil
}

func (r *CompRepository) GetCoAdmin(userId int, compId int) (*CoAdmin, error) {
	var coAdmin CoAdmin
	result := r.DB.First(&coAdmin, &CoAdmin{UserId: userId, CompId: compId})
	if result.Error != nil {
		return nil, result.Error
	}
	return &coAdmin, nil
}

func (r *CompRepository) SaveCoAdmin(coAdmin *CoAdmin) (*CoAdmin, error) {
	result := r.DB.Save(coAdmin)
	if result.Error != nil {
		return nil, result.Error
	}
	return coAdmin, nil
}

func (r *CompRepository) DeleteCoAdmin(coAdmin *CoAdmin) error {
	return r.DB.Delete(coAdmin).Error
}
