package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "sql_query_duration_seconds",
	Help: "Duration of sql queries in seconds",
}, []string{"query"})

var LeaderboardDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "leaderboard_computation_duration_s",
	Help: "Duration of a full leaderboard recomputation",
	Buckets: []float64{
		0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10,
	},
})

var ActiveCompsGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "cruxed_active_comps",
	Help: "Number of comps currently in active status",
})

var ParticipantsGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "cruxed_participants_total",
	Help: "Number of registered participants across all comps",
})

var ScoresGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "cruxed_scores_total",
	Help: "Number of score rows across all comps",
})
