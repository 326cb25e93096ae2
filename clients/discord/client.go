package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Teara-exe/starryCafeBot/clients"
	"github.com/Teara-exe/starryCafeBot/metrics"
)

const (
	reactionPageSize = 100
	memberPageSize   = 1000
)

// DiscordClient implements clients.DiscordClient on top of a discordgo session.
// The session is shared with the gateway handler so REST calls reuse its rate limiter.
type DiscordClient struct {
	session *discordgo.Session
}

// NewDiscordClient wraps an existing discordgo session
func NewDiscordClient(session *discordgo.Session) *DiscordClient {
	return &DiscordClient{session: session}
}

var _ clients.DiscordClient = (*DiscordClient)(nil)

// GetBotUser returns the bot account, from gateway state when available
func (c *DiscordClient) GetBotUser(ctx context.Context) (*clients.DiscordBotUser, error) {
	if c.session.State != nil && c.session.State.User != nil {
		u := c.session.State.User
		return &clients.DiscordBotUser{ID: u.ID, Username: u.Username, Bot: u.Bot}, nil
	}

	start := time.Now()
	u, err := c.session.User("@me", discordgo.WithContext(ctx))
	metrics.ObserveDiscordRequest("get_bot_user", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bot user: %w", err)
	}

	return &clients.DiscordBotUser{ID: u.ID, Username: u.Username, Bot: u.Bot}, nil
}

func (c *DiscordClient) SendMessage(
	ctx context.Context,
	channelID, content string,
) (*clients.DiscordPostMessageResponse, error) {
	start := time.Now()
	msg, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	metrics.ObserveDiscordRequest("send_message", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}

	return &clients.DiscordPostMessageResponse{
		ChannelID: msg.ChannelID,
		MessageID: msg.ID,
	}, nil
}

func (c *DiscordClient) EditMessage(ctx context.Context, channelID, messageID, content string) error {
	start := time.Now()
	_, err := c.session.ChannelMessageEdit(channelID, messageID, content, discordgo.WithContext(ctx))
	metrics.ObserveDiscordRequest("edit_message", start, err)
	if err != nil {
		return fmt.Errorf("failed to edit message %s in channel %s: %w", messageID, channelID, err)
	}
	return nil
}

func (c *DiscordClient) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	start := time.Now()
	err := c.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx))
	metrics.ObserveDiscordRequest("add_reaction", start, err)
	if err != nil {
		return fmt.Errorf("failed to add %s reaction to message %s: %w", emoji, messageID, err)
	}
	return nil
}

func (c *DiscordClient) FetchMessage(ctx context.Context, channelID, messageID string) (*clients.DiscordMessage, error) {
	start := time.Now()
	msg, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	metrics.ObserveDiscordRequest("fetch_message", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message %s in channel %s: %w", messageID, channelID, err)
	}

	return convertMessage(msg), nil
}

func (c *DiscordClient) ReactionUsers(
	ctx context.Context,
	channelID, messageID, emoji string,
) ([]clients.DiscordUser, error) {
	var result []clients.DiscordUser
	after := ""
	for {
		start := time.Now()
		page, err := c.session.MessageReactions(
			channelID,
			messageID,
			emoji,
			reactionPageSize,
			"",
			after,
			discordgo.WithContext(ctx),
		)
		metrics.ObserveDiscordRequest("reaction_users", start, err)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s reactions on message %s: %w", emoji, messageID, err)
		}

		for _, u := range page {
			result = append(result, convertUser(u))
		}

		if len(page) < reactionPageSize {
			return result, nil
		}
		after = page[len(page)-1].ID
	}
}

func (c *DiscordClient) GuildMembers(ctx context.Context, guildID string) ([]clients.DiscordMember, error) {
	var result []clients.DiscordMember
	after := ""
	for {
		start := time.Now()
		page, err := c.session.GuildMembers(guildID, after, memberPageSize, discordgo.WithContext(ctx))
		metrics.ObserveDiscordRequest("guild_members", start, err)
		if err != nil {
			return nil, fmt.Errorf("failed to list members of guild %s: %w", guildID, err)
		}

		for _, m := range page {
			if m.User == nil {
				continue
			}
			result = append(result, clients.DiscordMember{
				User:    convertUser(m.User),
				Nick:    m.Nick,
				RoleIDs: m.Roles,
			})
		}

		if len(page) < memberPageSize || page[len(page)-1].User == nil {
			return result, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func (c *DiscordClient) GuildRoles(ctx context.Context, guildID string) ([]clients.DiscordRole, error) {
	start := time.Now()
	roles, err := c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	metrics.ObserveDiscordRequest("guild_roles", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles of guild %s: %w", guildID, err)
	}

	result := make([]clients.DiscordRole, 0, len(roles))
	for _, r := range roles {
		result = append(result, clients.DiscordRole{ID: r.ID, Name: r.Name})
	}
	return result, nil
}

func convertUser(u *discordgo.User) clients.DiscordUser {
	return clients.DiscordUser{
		ID:         u.ID,
		Username:   u.Username,
		GlobalName: u.GlobalName,
		Bot:        u.Bot,
	}
}

func convertMessage(msg *discordgo.Message) *clients.DiscordMessage {
	result := &clients.DiscordMessage{
		ID:              msg.ID,
		ChannelID:       msg.ChannelID,
		GuildID:         msg.GuildID,
		Content:         msg.Content,
		MentionRoleIDs:  msg.MentionRoles,
		MentionEveryone: msg.MentionEveryone,
	}
	if msg.Author != nil {
		result.AuthorID = msg.Author.ID
	}
	for _, u := range msg.Mentions {
		result.Mentions = append(result.Mentions, convertUser(u))
	}
	for _, r := range msg.Reactions {
		if r.Emoji == nil {
			continue
		}
		result.Reactions = append(result.Reactions, clients.DiscordMessageReaction{
			Emoji: r.Emoji.APIName(),
			Count: r.Count,
		})
	}
	return result
}
