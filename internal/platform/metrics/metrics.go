package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	ViewsRecorded      prometheus.Counter
	ViewsDeduplicated  prometheus.Counter
	ViewsUnattributed  prometheus.Counter
	AuthSucceeded      prometheus.Counter
	AuthFailed         prometheus.Counter
	ActivityRequests   prometheus.Counter
	ResponsesSubmitted prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		ViewsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dynaform_views_recorded_total",
			Help: "Total number of form view events admitted past deduplication",
		}),
		ViewsDeduplicated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dynaform_views_deduplicated_total",
			Help: "Total number of form views suppressed inside the dedup window",
		}),
		ViewsUnattributed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dynaform_views_unattributable_total",
			Help: "Total number of form views skipped for lack of a viewer identity",
		}),
		AuthSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dynaform_auth_success_total",
			Help: "Total number of requests authenticated by the bearer token gate",
		}),
		AuthFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dynaform_auth_failure_total",
			Help: "Total number of bearer tokens that failed verification or role checks",
		}),
		ActivityRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dynaform_activity_requests_total",
			Help: "Total number of recent-activity feed requests served",
		}),
		ResponsesSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dynaform_responses_submitted_total",
			Help: "Total number of form responses stored",
		}),
	}
}
