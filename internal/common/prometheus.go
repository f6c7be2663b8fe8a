package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	BadgeTrackedEventTotal     = "badge_tracked_event_total"
	BadgeUnlockTotal           = "badge_unlock_total"
	BadgeStoreFailureTotal     = "badge_store_failure_total"
	ActiveTrackers             = "badge_active_trackers"
)

var (
	PromGauges = map[string]*prometheus.GaugeVec{
		ActiveTrackers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: ActiveTrackers,
			Help: "Number of logged-in users with a live badge tracker",
		}, []string{}),
	}

	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "code"}),
		BadgeTrackedEventTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: BadgeTrackedEventTotal,
			Help: "Count of all application events passed to badge trackers",
		}, []string{"event"}),
		BadgeUnlockTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: BadgeUnlockTotal,
			Help: "Count of all badge unlocks",
		}, []string{"badge"}),
		BadgeStoreFailureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: BadgeStoreFailureTotal,
			Help: "Count of all failed progress store operations",
		}, []string{"op"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "code"}),
	}
)
