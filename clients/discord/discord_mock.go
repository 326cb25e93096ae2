package discord

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Teara-exe/starryCafeBot/clients"
)

// MockDiscordClient implements the clients.DiscordClient interface for testing
type MockDiscordClient struct {
	mock.Mock
}

func (m *MockDiscordClient) GetBotUser(ctx context.Context) (*clients.DiscordBotUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordBotUser), args.Error(1)
}

func (m *MockDiscordClient) SendMessage(
	ctx context.Context,
	channelID, content string,
) (*clients.DiscordPostMessageResponse, error) {
	args := m.Called(ctx, channelID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordPostMessageResponse), args.Error(1)
}

func (m *MockDiscordClient) EditMessage(ctx context.Context, channelID, messageID, content string) error {
	args := m.Called(ctx, channelID, messageID, content)
	return args.Error(0)
}

func (m *MockDiscordClient) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	args := m.Called(ctx, channelID, messageID, emoji)
	return args.Error(0)
}

func (m *MockDiscordClient) FetchMessage(
	ctx context.Context,
	channelID, messageID string,
) (*clients.DiscordMessage, error) {
	args := m.Called(ctx, channelID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordMessage), args.Error(1)
}

func (m *MockDiscordClient) ReactionUsers(
	ctx context.Context,
	channelID, messageID, emoji string,
) ([]clients.DiscordUser, error) {
	args := m.Called(ctx, channelID, messageID, emoji)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.DiscordUser), args.Error(1)
}

func (m *MockDiscordClient) GuildMembers(ctx context.Context, guildID string) ([]clients.DiscordMember, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.DiscordMember), args.Error(1)
}

func (m *MockDiscordClient) GuildRoles(ctx context.Context, guildID string) ([]clients.DiscordRole, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.DiscordRole), args.Error(1)
}
