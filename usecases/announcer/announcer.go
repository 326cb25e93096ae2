package announcer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Teara-exe/starryCafeBot/clients"
	"github.com/Teara-exe/starryCafeBot/core/log"
	"github.com/Teara-exe/starryCafeBot/metrics"
	"github.com/Teara-exe/starryCafeBot/utils"
)

const TimestampLayout = "2006-01-02 15:04:05"

// BackgroundTaskWrapper decorates a periodic task with recovery and error reporting
type BackgroundTaskWrapper interface {
	WrapBackgroundTask(taskName string, task func() error) func() error
}

// Announcer posts the current time to a fixed channel on every tick
type Announcer struct {
	discordClient clients.DiscordClient
	channelID     string
	interval      time.Duration
	clock         clockwork.Clock
	tasks         BackgroundTaskWrapper

	mu      sync.Mutex
	started bool
	done    chan struct{}
}

func NewAnnouncer(
	discordClient clients.DiscordClient,
	channelID string,
	interval time.Duration,
	clock clockwork.Clock,
	tasks BackgroundTaskWrapper,
) *Announcer {
	utils.AssertInvariant(channelID != "", "announce channel id cannot be empty")
	utils.AssertInvariant(interval > 0, "announce interval must be positive")

	return &Announcer{
		discordClient: discordClient,
		channelID:     channelID,
		interval:      interval,
		clock:         clock,
		tasks:         tasks,
		done:          make(chan struct{}),
	}
}

// Start launches the announce loop in the background. Only the first call starts a loop, later
// calls (for example on gateway reconnects) return false. The loop ends when ctx is cancelled.
func (a *Announcer) Start(ctx context.Context) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return false
	}
	a.started = true
	go a.run(ctx)
	return true
}

// Wait blocks until the loop has exited, returning at once if it was never started
func (a *Announcer) Wait() {
	a.mu.Lock()
	started := a.started
	a.mu.Unlock()

	if started {
		<-a.done
	}
}

func (a *Announcer) run(ctx context.Context) {
	defer close(a.done)

	ticker := a.clock.NewTicker(a.interval)
	defer ticker.Stop()

	log.Info("⏰ Announcer started", "channel_id", a.channelID, "interval", a.interval)
	task := func() error { return a.Announce(ctx) }
	if a.tasks != nil {
		task = a.tasks.WrapBackgroundTask("Announce", task)
	} else {
		announce := task
		task = func() error {
			err := announce()
			if err != nil {
				log.Error("❌ Announcement failed", "channel_id", a.channelID, "error", err)
			}
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("⏰ Announcer stopped", "channel_id", a.channelID)
			return
		case <-ticker.Chan():
			// Failures were already reported, the next tick carries on
			_ = task()
		}
	}
}

// Announce sends a single timestamp message. A send already in flight is allowed to finish even
// if ctx is cancelled meanwhile.
func (a *Announcer) Announce(ctx context.Context) error {
	content := a.clock.Now().Format(TimestampLayout)

	_, err := a.discordClient.SendMessage(context.WithoutCancel(ctx), a.channelID, content)
	metrics.ObserveAnnouncement(err)
	if err != nil {
		return fmt.Errorf("failed to send announcement to channel %s: %w", a.channelID, err)
	}

	log.Debug("📣 Announcement sent", "channel_id", a.channelID, "content", content)
	return nil
}
