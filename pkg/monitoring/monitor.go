package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 引擎业务指标
	AttemptCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_attempts_total",
			Help: "Total number of recorded prompt attempts",
		},
		[]string{"completed"},
	)

	StageCompletedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_stages_completed_total",
			Help: "Total number of stage completions",
		},
	)

	AchievementCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_achievements_unlocked_total",
			Help: "Total number of unlocked achievements",
		},
		[]string{"rarity"},
	)

	ScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_overall_score",
			Help:    "Distribution of overall prompt quality scores",
			Buckets: []float64{20, 40, 60, 70, 80, 90, 100},
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(AttemptCounter)
	prometheus.MustRegister(StageCompletedCounter)
	prometheus.MustRegister(AchievementCounter)
	prometheus.MustRegister(ScoreHistogram)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
