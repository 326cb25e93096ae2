package models

import (
	"time"

	"github.com/samber/mo"
)

// WatchedMessage identifies a message whose reactions are being tallied
type WatchedMessage struct {
	MessageID string
	ChannelID string
	GuildID   string
}

// TrackedState is owned one-to-one by a WatchedMessage
type TrackedState struct {
	Message WatchedMessage
	// SummaryMessageID is absent until the first report has been sent
	SummaryMessageID mo.Option[string]
	WatchedAt        time.Time
	UpdatedAt        time.Time
}

// HasSummary reports whether a summary message was already sent for this message
func (s *TrackedState) HasSummary() bool {
	return s.SummaryMessageID.IsPresent()
}
