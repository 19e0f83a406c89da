package cron

import (
	"context"
	"time"

	"cruxed/metrics"
	"cruxed/repository"

	"gorm.io/gorm"
)

// StatsJob periodically refreshes the comp gauges exposed on the metrics
// endpoint. It only reads counts; nothing user-facing depends on it.
type StatsJob struct {
	db       *gorm.DB
	interval time.Duration
	cancel   context.CancelFunc
}

func NewStatsJob(db *gorm.DB, interval time.Duration) *StatsJob {
	return &StatsJob{db: db, interval: interval}
}

func (j *StatsJob) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		j.refresh()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.refresh()
			}
		}
	}()
}

func (j *StatsJob) Stop() {
	if j.cancel != nil {
		j.cancel()
	}
}

func (j *StatsJob) refresh() {
	var count int64
	if err := j.db.Model(&repository.Comp{}).Where("status = ?", repository.CompStatusActive).Count(&count).Error; err == nil {
		metrics.ActiveCompsGauge.Set(float64(count))
	}
	if err := j.db.Model(&repository.Participant{}).Count(&count).Error; err == nil {
		metrics.ParticipantsGauge.Set(float64(count))
	}
	if err := j.db.Model(&repository.Score{}).Count(&count).Error; err == nil {
		metrics.ScoresGauge.Set(float64(count))
	}
}
