package models

// EventType tags each inbound platform event
type EventType string

const (
	EventTypeReady           EventType = "ready"
	EventTypeMessageReceived EventType = "message_received"
	EventTypeReactionAdded   EventType = "reaction_added"
	EventTypeReactionRemoved EventType = "reaction_removed"
)

// Event is the closed set of platform events the bot reacts to.
// The unexported marker keeps other packages from adding variants.
type Event interface {
	Type() EventType
	isEvent()
}

type ReadyEvent struct {
	BotUserID   string
	BotUsername string
	GuildIDs    []string
}

type MessageReceivedEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	AuthorID  string
	// AuthorIsBot is true for any bot account, not only this one
	AuthorIsBot bool
	// Mentions contains the user IDs of all users mentioned in this message
	Mentions        []string
	MentionRoleIDs  []string
	MentionEveryone bool
}

// ReactionEvent carries the fields shared by reaction add and remove
type ReactionEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	// Emoji is the API form: the unicode character, or name:id for custom emoji
	Emoji string
}

type ReactionAddedEvent struct {
	ReactionEvent
}

type ReactionRemovedEvent struct {
	ReactionEvent
}

func (ReadyEvent) Type() EventType           { return EventTypeReady }
func (MessageReceivedEvent) Type() EventType { return EventTypeMessageReceived }
func (ReactionAddedEvent) Type() EventType   { return EventTypeReactionAdded }
func (ReactionRemovedEvent) Type() EventType { return EventTypeReactionRemoved }

func (ReadyEvent) isEvent()           {}
func (MessageReceivedEvent) isEvent() {}
func (ReactionAddedEvent) isEvent()   {}
func (ReactionRemovedEvent) isEvent() {}
