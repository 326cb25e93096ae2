package clients

import "context"

// DiscordClient is the subset of the Discord REST API the bot depends on
type DiscordClient interface {
	GetBotUser(ctx context.Context) (*DiscordBotUser, error)
	SendMessage(ctx context.Context, channelID, content string) (*DiscordPostMessageResponse, error)
	EditMessage(ctx context.Context, channelID, messageID, content string) error
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	FetchMessage(ctx context.Context, channelID, messageID string) (*DiscordMessage, error)
	// ReactionUsers returns every user who reacted with emoji, following pagination
	ReactionUsers(ctx context.Context, channelID, messageID, emoji string) ([]DiscordUser, error)
	// GuildMembers returns the full member list; requires the GuildMembers intent
	GuildMembers(ctx context.Context, guildID string) ([]DiscordMember, error)
	GuildRoles(ctx context.Context, guildID string) ([]DiscordRole, error)
}
