package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	EventsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_events_processed_total",
		Help: "Platform events dispatched to handlers",
	}, []string{"type", "status"})

	WatchedMessages = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bot_watched_messages",
		Help: "Messages currently monitored for reactions",
	})

	SummariesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_summaries_sent_total",
		Help: "Reaction summary messages created",
	})

	SummariesEdited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_summaries_edited_total",
		Help: "Reaction summary messages edited in place",
	})

	Announcements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_announcements_total",
		Help: "Periodic timestamp announcements",
	}, []string{"status"})

	DiscordRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bot_discord_request_duration_seconds",
		Help:    "Duration of Discord REST calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// MustRegister registers all bot metrics
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		EventsProcessed,
		WatchedMessages,
		SummariesSent,
		SummariesEdited,
		Announcements,
		DiscordRequestDuration,
	)
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveDiscordRequest records the duration and outcome of a Discord REST call
func ObserveDiscordRequest(operation string, start time.Time, err error) {
	if operation == "" {
		operation = "unknown"
	}
	DiscordRequestDuration.WithLabelValues(operation, statusOf(err)).Observe(time.Since(start).Seconds())
}

func ObserveEvent(eventType string, err error) {
	EventsProcessed.WithLabelValues(eventType, statusOf(err)).Inc()
}

func ObserveAnnouncement(err error) {
	Announcements.WithLabelValues(statusOf(err)).Inc()
}
