package handlers

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/gammazero/workerpool"

	"github.com/Teara-exe/starryCafeBot/core"
	"github.com/Teara-exe/starryCafeBot/core/log"
	"github.com/Teara-exe/starryCafeBot/metrics"
	"github.com/Teara-exe/starryCafeBot/middleware"
	"github.com/Teara-exe/starryCafeBot/models"
)

// Intents needed to see mentions, reactions and the member list for @everyone and role mentions.
// GuildMembers is privileged and must be enabled for the application.
const DiscordIntents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsGuildMembers

type DiscordEventsHandler struct {
	discordSDKClient *discordgo.Session
	handle           middleware.EventHandlerFunc
	// A single worker keeps events strictly ordered and one at a time
	pool *workerpool.WorkerPool

	// stopped guards pool.Submit against handlers discordgo is still running after Close
	mu      sync.RWMutex
	stopped bool
}

func NewDiscordEventsHandler(
	session *discordgo.Session,
	eventHandler EventHandler,
	alerts *middleware.ErrorAlertMiddleware,
) *DiscordEventsHandler {
	handler := &DiscordEventsHandler{
		discordSDKClient: session,
		handle:           alerts.WrapEventHandler(eventHandler.HandleEvent),
		pool:             workerpool.New(1),
	}

	// Register event handlers
	session.AddHandler(handler.handleReadyEvent)
	session.AddHandler(handler.handleMessageCreatedEvent)
	session.AddHandler(handler.handleReactionAddedEvent)
	session.AddHandler(handler.handleReactionRemovedEvent)

	session.Identify.Intents = DiscordIntents

	return handler
}

// StartBot opens the Discord connection and starts listening for events
func (h *DiscordEventsHandler) StartBot() error {
	if err := h.discordSDKClient.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	log.Info("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot closes the Discord connection and waits for queued events to finish
func (h *DiscordEventsHandler) StopBot() {
	if err := h.discordSDKClient.Close(); err != nil {
		log.Warn("⚠️ Failed to close Discord session cleanly", "error", err)
	}
	h.stopLoop()
	log.Info("🛑 Discord event loop stopped")
}

// stopLoop rejects further events and drains the ones already queued
func (h *DiscordEventsHandler) stopLoop() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()

	h.pool.StopWait()
}

// dispatch queues an event on the serialized loop. Events arriving after stopLoop are dropped.
func (h *DiscordEventsHandler) dispatch(event models.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	eventID := core.NewID("evt")
	if h.stopped {
		log.Debug("🛑 Dropping event received after shutdown", "type", event.Type(), "event_id", eventID)
		return
	}

	h.pool.Submit(func() {
		ctx := log.WithEventID(context.Background(), eventID)
		err := h.handle(ctx, event)
		metrics.ObserveEvent(string(event.Type()), err)
	})
}

func (h *DiscordEventsHandler) handleReadyEvent(s *discordgo.Session, r *discordgo.Ready) {
	h.dispatch(mapToReadyEvent(r))
}

func (h *DiscordEventsHandler) handleMessageCreatedEvent(s *discordgo.Session, m *discordgo.MessageCreate) {
	// DMs have no guild, and roster expansion needs one
	if m.GuildID == "" || m.Author == nil {
		return
	}
	log.Debug("📨 Discord message received",
		"author", m.Author.Username, "guild_id", m.GuildID, "channel_id", m.ChannelID)
	h.dispatch(mapToMessageReceivedEvent(m))
}

func (h *DiscordEventsHandler) handleReactionAddedEvent(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.MessageReaction == nil {
		return
	}
	log.Debug("➕ Discord reaction added",
		"emoji", r.Emoji.Name, "user_id", r.UserID, "message_id", r.MessageID)
	h.dispatch(models.ReactionAddedEvent{ReactionEvent: mapToReactionEvent(r.MessageReaction)})
}

func (h *DiscordEventsHandler) handleReactionRemovedEvent(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if r.MessageReaction == nil {
		return
	}
	log.Debug("➖ Discord reaction removed",
		"emoji", r.Emoji.Name, "user_id", r.UserID, "message_id", r.MessageID)
	h.dispatch(models.ReactionRemovedEvent{ReactionEvent: mapToReactionEvent(r.MessageReaction)})
}

func mapToReadyEvent(r *discordgo.Ready) models.ReadyEvent {
	event := models.ReadyEvent{GuildIDs: make([]string, 0, len(r.Guilds))}
	if r.User != nil {
		event.BotUserID = r.User.ID
		event.BotUsername = r.User.Username
	}
	for _, guild := range r.Guilds {
		event.GuildIDs = append(event.GuildIDs, guild.ID)
	}
	return event
}

// mapToMessageReceivedEvent maps a Discord SDK message event to our domain model
func mapToMessageReceivedEvent(m *discordgo.MessageCreate) models.MessageReceivedEvent {
	mentions := make([]string, len(m.Mentions))
	for i, mentionedUser := range m.Mentions {
		mentions[i] = mentionedUser.ID
	}

	return models.MessageReceivedEvent{
		GuildID:         m.GuildID,
		ChannelID:       m.ChannelID,
		MessageID:       m.ID,
		AuthorID:        m.Author.ID,
		AuthorIsBot:     m.Author.Bot,
		Mentions:        mentions,
		MentionRoleIDs:  append([]string{}, m.MentionRoles...),
		MentionEveryone: m.MentionEveryone,
	}
}

func mapToReactionEvent(r *discordgo.MessageReaction) models.ReactionEvent {
	return models.ReactionEvent{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.APIName(),
	}
}
