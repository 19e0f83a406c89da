package repository

import (
	"time"

	"cruxed/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Score is the single record for a (participant, climb) pair. Logging again
// overwrites attempts, topped and points in place; no history is kept.
type Score struct {
	Id            int          `gorm:"primaryKey"`
	ParticipantId int          `gorm:"not null;uniqueIndex:idx_score_participant_climb;references participants(id)"`
	Participant   *Participant `gorm:"foreignKey:ParticipantId"`
	ClimbId       int          `gorm:"not null;uniqueIndex:idx_score_participant_climb;references climbs(id)"`
	Climb         *Climb       `gorm:"foreignKey:ClimbId;constraint:OnDelete:CASCADE"`
	Attempts      int          `gorm:"not null"`
	Topped        bool         `gorm:"not null"`
	Points        int          `gorm:"not null"`
	CreatedAt     time.Time    `gorm:"not null"`
	UpdatedAt     time.Time    `gorm:"not null"`
}

type ScoreRepository struct {
	DB *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{DB: db}
}

// Upsert writes the score for its (participant, climb) pair, replacing any
// previous attempts/topped/points. Last write wins on concurrent submissions.
func (r *ScoreRepository) Upsert(score *Score) (*Score, error) {
	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "participant_id"}, {Name: "climb_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"attempts", "topped", "points", "updated_at"}),
	}).Create(score)
	if result.Error != nil {
		return nil, result.Error
	}
	return r.GetScore(score.ParticipantId, score.ClimbId)
}

func (r *ScoreRepository) GetScore(participantId int, climbId int) (*Score, error) {
	var score Score
	result := r.DB.First(&score, &Score{ParticipantId: participantId, ClimbId: climbId})
	if result.Error != nil {
		return nil, result.Error
	}
	return &score, nil
}

// GetScoresForComp returns all scores for climbs of the comp, newest first,
// optionally narrowed to one participant.
func (r *ScoreRepository) GetScoresForComp(compId int, participantId *int) ([]*Score, error) {
	timer := prometheus.NewTimer(metrics.QueryDuration.WithLabelValues("GetScoresForComp"))
	defer timer.ObserveDuration()
	scores := make([]*Score, 0)
	query := r.DB.Preload("Climb").Preload("Participant").
		Joins("JOIN cruxed.climbs ON cruxed.climbs.id = cruxed.scores.climb_id").
		Where("cruxed.climbs.comp_id = ?", compId).
		Order("cruxed.scores.created_at DESC")
	if participantId != nil {
		query = query.Where("cruxed.scores.participant_id = ?", *participantId)
	}
	result := query.Find(&scores)
	if result.Error != nil {
		return nil, result.Error
	}
	return scores, nil
}

func (r *ScoreRepository) GetScoresForParticipant(compId int, participantId int) ([]*Score, error) {
	scores := make([]*Score, 0)
	result := r.DB.
		Joins("JOIN cruxed.climbs ON cruxed.climbs.id = cruxed.scores.climb_id").
		Where("cruxed.climbs.comp_id = ? AND cruxed.scores.participant_id = ?", compId, participantId).
		Find(&scores)
	if result.Error != nil {
		return nil, result.Error
	}
	return scores, nil
}

// GetToppedScoresByParticipant loads all topped scores for the comp grouped
// by participant id. Non-topped rows never contribute to the leaderboard.
func (r *ScoreRepository) GetToppedScoresByParticipant(compId int) (map[int][]*Score, error) {
	timer := prometheus.NewTimer(metrics.QueryDuration.WithLabelValues("GetToppedScoresByParticipant"))
	defer timer.ObserveDuration()
	scores := make([]*Score, 0)
	result := r.DB.
		Joins("JOIN cruxed.climbs ON cruxed.climbs.id = cruxed.scores.climb_id").
		Where("cruxed.climbs.comp_id = ? AND cruxed.scores.topped = ?", compId, true).
		Find(&scores)
	if result.Error != nil {
		return nil, result.Error
	}
	scoresByParticipant := make(map[int][]*Score)
	for _, score := range scores {
		scoresByParticipant[score.ParticipantId] = append(scoresByParticipant[score.ParticipantId], score)
	}
	return scoresByParticipant, nil
}

func (r *ScoreRepository) CountScoresForParticipants(participantIds []int) (map[int]int64, error) {
	type row struct {
		ParticipantId int
		Count         int64
	}
	rows := make([]row, 0)
	if len(participantIds) == 0 {
		return map[int]int64{}, nil
	}
	result := r.DB.Model(&Score{}).
		Select("participant_id, COUNT(*) as count").
		Where("participant_id IN ?", participantIds).
		Group("participant_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	counts := make(map[int]int64)
	for _, r := range rows {
		counts[r.ParticipantId] = r.Count
	}
	return counts, nil
}
