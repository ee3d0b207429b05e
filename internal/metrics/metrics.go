package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClicksRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ctw_clicks_recorded_total",
		Help: "Clicks written to the store, at most one per session",
	})

	MessagesStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ctw_messages_stored_total",
		Help: "Messages accepted into the public feed",
	})

	WishResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ctw_wish_results_total",
		Help: "Wishes served by source (cache, generated, fallback) and failure reason",
	}, []string{"source", "reason"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ctw_active_sessions",
		Help: "Sessions currently held in memory",
	})

	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ctw_store_errors_total",
		Help: "Store operations that returned an error",
	}, []string{"op"})
)
