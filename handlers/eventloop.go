package handlers

import (
	"context"
	"fmt"

	"github.com/Teara-exe/starryCafeBot/core/log"
	"github.com/Teara-exe/starryCafeBot/models"
	"github.com/Teara-exe/starryCafeBot/usecases/reactions"
)

// EventHandler processes one platform event at a time
type EventHandler interface {
	HandleEvent(ctx context.Context, event models.Event) error
}

// AnnouncerStarter starts the periodic announcer, returning false if it was already running
type AnnouncerStarter interface {
	Start(ctx context.Context) bool
}

// EventDispatcher routes each event variant to the use case that owns it
type EventDispatcher struct {
	reactionsUseCase reactions.ReactionsUseCaseInterface
	announcer        AnnouncerStarter
	// announcerCtx outlives individual events and is cancelled at shutdown
	announcerCtx context.Context
}

// NewEventDispatcher creates the dispatcher. announcer may be nil when announcements are disabled.
func NewEventDispatcher(
	announcerCtx context.Context,
	reactionsUseCase reactions.ReactionsUseCaseInterface,
	announcer AnnouncerStarter,
) *EventDispatcher {
	return &EventDispatcher{
		reactionsUseCase: reactionsUseCase,
		announcer:        announcer,
		announcerCtx:     announcerCtx,
	}
}

func (d *EventDispatcher) HandleEvent(ctx context.Context, event models.Event) error {
	logger := log.FromContext(ctx)

	switch e := event.(type) {
	case models.ReadyEvent:
		logger.Info("🤖 Discord session ready", "bot_user_id", e.BotUserID, "bot_username", e.BotUsername,
			"guilds", len(e.GuildIDs))
		if d.announcer == nil {
			return nil
		}
		if !d.announcer.Start(d.announcerCtx) {
			logger.Debug("⏰ Announcer already running, ignoring repeated ready")
		}
		return nil
	case models.MessageReceivedEvent:
		return d.reactionsUseCase.ProcessMessageEvent(ctx, e)
	case models.ReactionAddedEvent:
		return d.reactionsUseCase.ProcessReactionEvent(ctx, e.ReactionEvent)
	case models.ReactionRemovedEvent:
		return d.reactionsUseCase.ProcessReactionEvent(ctx, e.ReactionEvent)
	default:
		return fmt.Errorf("unsupported event type %s", event.Type())
	}
}
