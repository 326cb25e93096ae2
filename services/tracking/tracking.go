package tracking

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/samber/mo"

	"github.com/Teara-exe/starryCafeBot/core"
	"github.com/Teara-exe/starryCafeBot/core/log"
	"github.com/Teara-exe/starryCafeBot/metrics"
	"github.com/Teara-exe/starryCafeBot/models"
	"github.com/Teara-exe/starryCafeBot/utils"
)

// TrackingService keeps the in-memory watched message registry.
// Entries live for the lifetime of the process; nothing is persisted.
type TrackingService struct {
	mu     sync.RWMutex
	states map[string]*models.TrackedState
	clock  clockwork.Clock
}

func NewTrackingService(clock clockwork.Clock) *TrackingService {
	return &TrackingService{
		states: make(map[string]*models.TrackedState),
		clock:  clock,
	}
}

// Watch starts monitoring a message. Watching an already watched message keeps its existing
// state, so a summary message is never orphaned.
func (s *TrackingService) Watch(ctx context.Context, message models.WatchedMessage) (*models.TrackedState, bool) {
	utils.AssertInvariant(message.MessageID != "", "watched message must have an id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.states[message.MessageID]; ok {
		log.Debug("🔁 Message already watched", "message_id", message.MessageID)
		return copyState(existing), false
	}

	now := s.clock.Now()
	state := &models.TrackedState{
		Message:          message,
		SummaryMessageID: mo.None[string](),
		WatchedAt:        now,
		UpdatedAt:        now,
	}
	s.states[message.MessageID] = state
	metrics.WatchedMessages.Set(float64(len(s.states)))

	return copyState(state), true
}

// GetState looks up the tracked state for a message
func (s *TrackingService) GetState(ctx context.Context, messageID string) mo.Option[*models.TrackedState] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[messageID]
	if !ok {
		return mo.None[*models.TrackedState]()
	}
	return mo.Some(copyState(state))
}

// SetSummaryMessage records the summary message sent for a watched message
func (s *TrackingService) SetSummaryMessage(ctx context.Context, messageID, summaryMessageID string) error {
	utils.AssertInvariant(summaryMessageID != "", "summary message id cannot be empty")

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[messageID]
	if !ok {
		return fmt.Errorf("tracked state for message %s: %w", messageID, core.ErrNotFound)
	}
	state.SummaryMessageID = mo.Some(summaryMessageID)
	state.UpdatedAt = s.clock.Now()
	return nil
}

// Touch marks a tracked state as updated after a summary edit
func (s *TrackingService) Touch(ctx context.Context, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[messageID]
	if !ok {
		return fmt.Errorf("tracked state for message %s: %w", messageID, core.ErrNotFound)
	}
	state.UpdatedAt = s.clock.Now()
	return nil
}

func (s *TrackingService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

// copyState hands callers a snapshot so they cannot mutate the registry without the lock
func copyState(state *models.TrackedState) *models.TrackedState {
	c := *state
	return &c
}
