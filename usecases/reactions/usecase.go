package reactions

import (
	"context"
	"fmt"
	"slices"

	"github.com/Teara-exe/starryCafeBot/clients"
	"github.com/Teara-exe/starryCafeBot/core/log"
	"github.com/Teara-exe/starryCafeBot/metrics"
	"github.com/Teara-exe/starryCafeBot/models"
	"github.com/Teara-exe/starryCafeBot/services/tracking"
	"github.com/Teara-exe/starryCafeBot/usecases/mentions"
	"github.com/Teara-exe/starryCafeBot/usecases/tally"
	"github.com/Teara-exe/starryCafeBot/utils"
)

// ReactionsUseCase watches messages that mention the bot and keeps a reaction summary for each
type ReactionsUseCase struct {
	discordClient   clients.DiscordClient
	trackingService *tracking.TrackingService
	mentionResolver *mentions.MentionResolver
	label           string
	ackEmoji        string
}

// NewReactionsUseCase creates a new instance of ReactionsUseCase.
// An empty label falls back to tally.DefaultLabel; an empty ackEmoji disables the acknowledgement.
func NewReactionsUseCase(
	discordClient clients.DiscordClient,
	trackingService *tracking.TrackingService,
	mentionResolver *mentions.MentionResolver,
	label string,
	ackEmoji string,
) *ReactionsUseCase {
	if label == "" {
		label = tally.DefaultLabel
	}
	return &ReactionsUseCase{
		discordClient:   discordClient,
		trackingService: trackingService,
		mentionResolver: mentionResolver,
		label:           label,
		ackEmoji:        ackEmoji,
	}
}

func (r *ReactionsUseCase) ProcessMessageEvent(ctx context.Context, event models.MessageReceivedEvent) error {
	logger := log.FromContext(ctx)
	logger.Debug("📋 Starting to process message event",
		"message_id", event.MessageID, "channel_id", event.ChannelID, "author_id", event.AuthorID)

	botUser, err := r.discordClient.GetBotUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot user: %w", err)
	}

	if event.AuthorID == botUser.ID || event.AuthorIsBot {
		logger.Debug("🤖 Ignoring message from a bot account", "message_id", event.MessageID, "author_id", event.AuthorID)
		return nil
	}
	if !slices.Contains(event.Mentions, botUser.ID) {
		logger.Debug("🔍 Bot not mentioned, ignoring message", "message_id", event.MessageID)
		return nil
	}

	_, created := r.trackingService.Watch(ctx, models.WatchedMessage{
		MessageID: event.MessageID,
		ChannelID: event.ChannelID,
		GuildID:   event.GuildID,
	})
	if !created {
		return nil
	}
	logger.Info("👀 Watching message for reactions", "message_id", event.MessageID, "channel_id", event.ChannelID)

	if r.ackEmoji != "" {
		if err := r.discordClient.AddReaction(ctx, event.ChannelID, event.MessageID, r.ackEmoji); err != nil {
			return fmt.Errorf("failed to acknowledge message %s: %w", event.MessageID, err)
		}
	}

	logger.Debug("📋 Completed processing message event", "message_id", event.MessageID)
	return nil
}

// ProcessReactionEvent refreshes the summary of a watched message. Additions and removals are
// handled the same way since the summary is rebuilt from the message's current reactions.
func (r *ReactionsUseCase) ProcessReactionEvent(ctx context.Context, event models.ReactionEvent) error {
	maybeState := r.trackingService.GetState(ctx, event.MessageID)
	if maybeState.IsAbsent() {
		return nil
	}
	state := maybeState.MustGet()

	logger := log.FromContext(ctx)
	logger.Debug("📋 Starting to process reaction event",
		"message_id", event.MessageID, "user_id", event.UserID, "emoji", event.Emoji)

	botUser, err := r.discordClient.GetBotUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot user: %w", err)
	}
	if event.UserID == botUser.ID {
		logger.Debug("🤖 Ignoring own reaction", "message_id", event.MessageID, "emoji", event.Emoji)
		return nil
	}

	watched := state.Message
	if err := r.discordClient.AddReaction(ctx, watched.ChannelID, watched.MessageID, event.Emoji); err != nil {
		return fmt.Errorf("failed to mirror reaction %s: %w", event.Emoji, err)
	}

	report, err := r.buildReport(ctx, watched, botUser.ID)
	if err != nil {
		return err
	}

	if summaryID, ok := state.SummaryMessageID.Get(); ok {
		if err := r.discordClient.EditMessage(ctx, watched.ChannelID, summaryID, report); err != nil {
			return fmt.Errorf("failed to edit summary message %s: %w", summaryID, err)
		}
		if err := r.trackingService.Touch(ctx, watched.MessageID); err != nil {
			return fmt.Errorf("failed to update tracked state: %w", err)
		}
		metrics.SummariesEdited.Inc()
		logger.Info("✅ Updated reaction summary", "message_id", watched.MessageID, "summary_id", summaryID)
		return nil
	}

	response, err := r.discordClient.SendMessage(ctx, watched.ChannelID, report)
	if err != nil {
		return fmt.Errorf("failed to send summary for message %s: %w", watched.MessageID, err)
	}
	if err := r.trackingService.SetSummaryMessage(ctx, watched.MessageID, response.MessageID); err != nil {
		return fmt.Errorf("failed to record summary message: %w", err)
	}
	metrics.SummariesSent.Inc()
	logger.Info("✅ Sent reaction summary", "message_id", watched.MessageID, "summary_id", response.MessageID)
	return nil
}

func (r *ReactionsUseCase) buildReport(
	ctx context.Context,
	watched models.WatchedMessage,
	botUserID string,
) (string, error) {
	message, err := r.discordClient.FetchMessage(ctx, watched.ChannelID, watched.MessageID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch watched message %s: %w", watched.MessageID, err)
	}

	snapshot, reactors, err := r.snapshotReactions(ctx, watched, message.Reactions)
	if err != nil {
		return "", err
	}

	resolution, err := r.mentionResolver.Resolve(ctx, watched.GuildID, message, botUserID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve responders: %w", err)
	}

	directory := resolution.Directory
	directory.Merge(reactors)

	report := tally.Compute(snapshot, resolution.Roster).Render(r.label, directory.Name)
	return utils.TrimDiscordMessage(report), nil
}

// snapshotReactions lists non-bot reactors per emoji. Emoji left with only bot reactors are kept
// with no users so they still count toward the number of buckets, except the acknowledgement
// emoji: nobody but the bot put it there, so it is not part of the reactions being tallied.
func (r *ReactionsUseCase) snapshotReactions(
	ctx context.Context,
	watched models.WatchedMessage,
	reactions []clients.DiscordMessageReaction,
) (models.ReactionSnapshot, models.Directory, error) {
	snapshot := make(models.ReactionSnapshot, 0, len(reactions))
	reactors := models.Directory{}

	for _, reaction := range reactions {
		users, err := r.discordClient.ReactionUsers(ctx, watched.ChannelID, watched.MessageID, reaction.Emoji)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list users for reaction %s: %w", reaction.Emoji, err)
		}
		userIDs := make([]string, 0, len(users))
		for _, user := range users {
			if user.Bot {
				continue
			}
			userIDs = append(userIDs, user.ID)
			reactors.Set(user.ID, user.DisplayName())
		}
		if len(userIDs) == 0 && reaction.Emoji == r.ackEmoji {
			continue
		}
		snapshot = append(snapshot, models.EmojiReaction{Emoji: reaction.Emoji, UserIDs: userIDs})
	}
	return snapshot, reactors, nil
}
