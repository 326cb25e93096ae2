package clients

// DiscordBotUser represents Discord bot user information
type DiscordBotUser struct {
	ID       string
	Username string
	Bot      bool
}

// DiscordUser is a Discord account as returned by mentions and reaction listings
type DiscordUser struct {
	ID         string
	Username   string
	GlobalName string
	Bot        bool
}

// DisplayName prefers the global display name over the username
func (u DiscordUser) DisplayName() string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	if u.Username != "" {
		return u.Username
	}
	return u.ID
}

// DiscordMember is a user's membership in a guild
type DiscordMember struct {
	User    DiscordUser
	Nick    string
	RoleIDs []string
}

// DisplayName prefers the guild nickname
func (m DiscordMember) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.User.DisplayName()
}

// DiscordRole represents a guild role
type DiscordRole struct {
	ID   string
	Name string
}

// DiscordMessageReaction is one emoji entry on a message
type DiscordMessageReaction struct {
	// Emoji is the API name: unicode emoji or name:id for custom emoji
	Emoji string
	Count int
}

// DiscordMessage represents a fetched Discord message
type DiscordMessage struct {
	ID              string
	ChannelID       string
	GuildID         string
	AuthorID        string
	Content         string
	Mentions        []DiscordUser
	MentionRoleIDs  []string
	MentionEveryone bool
	Reactions       []DiscordMessageReaction
}

// DiscordPostMessageResponse represents the response from posting a message to Discord
type DiscordPostMessageResponse struct {
	ChannelID string
	MessageID string
}
