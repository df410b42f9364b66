package game

import "github.com/prometheus/client_golang/prometheus"

var (
	ticks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "snake",
		Subsystem: "game",
		Name:      "ticks_total",
		Help:      "Ticks played.",
	})
	tickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "snake",
		Subsystem: "game",
		Name:      "advance_seconds",
		Help:      "Time spent advancing the board.",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 8),
	})
	snakeLength = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "snake",
		Subsystem: "game",
		Name:      "snake_length",
		Help:      "Length of the snake after the latest tick.",
	})
	gamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snake",
			Subsystem: "game",
			Name:      "finished_total",
			Help:      "Games finished, by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(ticks, tickDuration, snakeLength, gamesFinished)
}
