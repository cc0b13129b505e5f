package monitoring

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	rosterListSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "roster_list_size",
			Help: "Current roster list size per event",
		},
		[]string{"event_id", "list"},
	)

	rosterOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_operations_total",
			Help: "Total roster operations",
		},
		[]string{"operation", "event_id", "status"},
	)

	goroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_goroutines_total",
			Help: "Current number of active goroutines",
		},
	)
)

type Monitor struct {
	redis *redis.Client
	stop  chan struct{}
}

func NewMonitor(redisClient *redis.Client) *Monitor {
	monitor := &Monitor{
		redis: redisClient,
		stop:  make(chan struct{}),
	}
	go monitor.collectMetrics()
	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.collectRosterMetrics(context.Background())
			goroutineCount.Set(float64(runtime.NumGoroutine()))
		}
	}
}

func (m *Monitor) collectRosterMetrics(ctx context.Context) {
	activeKeys, _ := m.redis.Keys(ctx, "roster:active:*").Result()
	for _, key := range activeKeys {
		eventID := key[len("roster:active:"):]
		size, _ := m.redis.ZCard(ctx, key).Result()
		rosterListSize.WithLabelValues(eventID, "active").Set(float64(size))
	}

	waitlistKeys, _ := m.redis.Keys(ctx, "roster:waitlist:*").Result()
	for _, key := range waitlistKeys {
		eventID := key[len("roster:waitlist:"):]
		size, _ := m.redis.ZCard(ctx, key).Result()
		rosterListSize.WithLabelValues(eventID, "waitlist").Set(float64(size))
	}
}

// TrackRosterOperation counts one roster mutation. Safe to call on a
// nil Monitor so callers need no metrics-enabled check.
func (m *Monitor) TrackRosterOperation(operation, eventID, status string) {
	if m == nil {
		return
	}
	rosterOperations.WithLabelValues(operation, eventID, status).Inc()
}

// Stop ends background collection.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}
	close(m.stop)
}
