package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMustRegister(t *testing.T) {
	registry := prometheus.NewRegistry()
	assert.NotPanics(t, func() { MustRegister(registry) })
	assert.Panics(t, func() { MustRegister(registry) }, "double registration must fail")
}

func TestObserveEvent(t *testing.T) {
	success := EventsProcessed.WithLabelValues("reaction_added", "success")
	failure := EventsProcessed.WithLabelValues("reaction_added", "error")
	beforeSuccess := testutil.ToFloat64(success)
	beforeFailure := testutil.ToFloat64(failure)

	ObserveEvent("reaction_added", nil)
	ObserveEvent("reaction_added", errors.New("boom"))
	ObserveEvent("reaction_added", nil)

	assert.Equal(t, beforeSuccess+2, testutil.ToFloat64(success))
	assert.Equal(t, beforeFailure+1, testutil.ToFloat64(failure))
}

func TestObserveAnnouncement(t *testing.T) {
	before := testutil.ToFloat64(Announcements.WithLabelValues("error"))
	ObserveAnnouncement(errors.New("send failed"))
	assert.Equal(t, before+1, testutil.ToFloat64(Announcements.WithLabelValues("error")))
}

func TestObserveDiscordRequest(t *testing.T) {
	ObserveDiscordRequest("", time.Now(), nil)
	ObserveDiscordRequest("send_message", time.Now(), errors.New("403"))

	assert.GreaterOrEqual(t, testutil.CollectAndCount(DiscordRequestDuration), 2)
}
