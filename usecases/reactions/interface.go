package reactions

import (
	"context"

	"github.com/Teara-exe/starryCafeBot/models"
)

// ReactionsUseCaseInterface is what the event loop needs from the reaction tracker
type ReactionsUseCaseInterface interface {
	ProcessMessageEvent(ctx context.Context, event models.MessageReceivedEvent) error
	ProcessReactionEvent(ctx context.Context, event models.ReactionEvent) error
}
