package mentions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Teara-exe/starryCafeBot/clients"
	discordclient "github.com/Teara-exe/starryCafeBot/clients/discord"
	"github.com/Teara-exe/starryCafeBot/core"
)

const (
	testGuildID   = "guild-789"
	testBotID     = "bot-xyz"
	testMessageID = "msg-123"
	testRaidRole  = "role-raid"
)

type mentionsTestFixture struct {
	resolver      *MentionResolver
	discordClient *discordclient.MockDiscordClient
	ctx           context.Context
}

func setupMentionsTest(t *testing.T) *mentionsTestFixture {
	discordClient := new(discordclient.MockDiscordClient)
	return &mentionsTestFixture{
		resolver:      NewMentionResolver(discordClient),
		discordClient: discordClient,
		ctx:           context.Background(),
	}
}

func testGuildMembers() []clients.DiscordMember {
	return []clients.DiscordMember{
		{User: clients.DiscordUser{ID: testBotID, Username: "starry", Bot: true}, RoleIDs: []string{testRaidRole}},
		{User: clients.DiscordUser{ID: "u1", Username: "alice"}, Nick: "Ali", RoleIDs: []string{testRaidRole}},
		{User: clients.DiscordUser{ID: "u2", Username: "bob"}, RoleIDs: []string{testRaidRole, "role-other"}},
		{User: clients.DiscordUser{ID: "u3", Username: "carol"}, RoleIDs: []string{}},
	}
}

func testGuildRoles() []clients.DiscordRole {
	return []clients.DiscordRole{
		{ID: testRaidRole, Name: "raid"},
		{ID: "role-other", Name: "other"},
	}
}

func TestResolve_DirectMentions(t *testing.T) {
	f := setupMentionsTest(t)
	msg := &clients.DiscordMessage{
		ID: testMessageID,
		Mentions: []clients.DiscordUser{
			{ID: testBotID, Username: "starry", Bot: true},
			{ID: "u1", Username: "alice", GlobalName: "Alice"},
			{ID: "u2", Username: "bob"},
		},
	}

	res, err := f.resolver.Resolve(f.ctx, testGuildID, msg, testBotID)
	require.NoError(t, err)

	assert.Equal(t, []string{"u1", "u2"}, res.Roster.IDs())
	assert.Equal(t, "Alice", res.Directory.Name("u1"))
	assert.Equal(t, "bob", res.Directory.Name("u2"))
	f.discordClient.AssertExpectations(t)
}

func TestResolve_RoleMentionsDeduplicated(t *testing.T) {
	f := setupMentionsTest(t)
	f.discordClient.On("GuildRoles", f.ctx, testGuildID).Return(testGuildRoles(), nil).Once()
	f.discordClient.On("GuildMembers", f.ctx, testGuildID).Return(testGuildMembers(), nil).Once()

	msg := &clients.DiscordMessage{
		ID:             testMessageID,
		Mentions:       []clients.DiscordUser{{ID: testBotID, Bot: true}, {ID: "u1", Username: "alice"}, {ID: "u3", Username: "carol"}},
		MentionRoleIDs: []string{testRaidRole},
	}

	res, err := f.resolver.Resolve(f.ctx, testGuildID, msg, testBotID)
	require.NoError(t, err)

	assert.Equal(t, []string{"u1", "u2", "u3"}, res.Roster.IDs())
	assert.False(t, res.Roster.Contains(testBotID), "bot has the role but must be excluded")
	assert.Equal(t, "Ali", res.Directory.Name("u1"), "guild nickname wins")
	f.discordClient.AssertExpectations(t)
}

func TestResolve_EveryoneIgnoresExplicitMentions(t *testing.T) {
	f := setupMentionsTest(t)
	f.discordClient.On("GuildMembers", f.ctx, testGuildID).Return(testGuildMembers(), nil).Once()

	msg := &clients.DiscordMessage{
		ID:              testMessageID,
		Mentions:        []clients.DiscordUser{{ID: "outsider", Username: "ghost"}},
		MentionRoleIDs:  []string{"role-does-not-matter"},
		MentionEveryone: true,
	}

	res, err := f.resolver.Resolve(f.ctx, testGuildID, msg, testBotID)
	require.NoError(t, err)

	assert.Equal(t, []string{"u1", "u2", "u3"}, res.Roster.IDs())
	assert.False(t, res.Roster.Contains("outsider"))
	f.discordClient.AssertNotCalled(t, "GuildRoles", mock.Anything, mock.Anything)
	f.discordClient.AssertExpectations(t)
}

func TestResolve_UnknownRole(t *testing.T) {
	f := setupMentionsTest(t)
	f.discordClient.On("GuildRoles", f.ctx, testGuildID).Return(testGuildRoles(), nil).Once()

	msg := &clients.DiscordMessage{ID: testMessageID, MentionRoleIDs: []string{"role-deleted"}}

	res, err := f.resolver.Resolve(f.ctx, testGuildID, msg, testBotID)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
	f.discordClient.AssertNotCalled(t, "GuildMembers", mock.Anything, mock.Anything)
}

func TestResolve_FetchFailuresPropagate(t *testing.T) {
	t.Run("roles", func(t *testing.T) {
		f := setupMentionsTest(t)
		f.discordClient.On("GuildRoles", f.ctx, testGuildID).Return(nil, errors.New("HTTP 403 Forbidden")).Once()

		msg := &clients.DiscordMessage{ID: testMessageID, MentionRoleIDs: []string{testRaidRole}}
		_, err := f.resolver.Resolve(f.ctx, testGuildID, msg, testBotID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get guild roles")
	})

	t.Run("members", func(t *testing.T) {
		f := setupMentionsTest(t)
		f.discordClient.On("GuildMembers", f.ctx, testGuildID).Return(nil, errors.New("missing intent")).Once()

		msg := &clients.DiscordMessage{ID: testMessageID, MentionEveryone: true}
		_, err := f.resolver.Resolve(f.ctx, testGuildID, msg, testBotID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get guild members")
	})
}

func TestResolve_NoMentions(t *testing.T) {
	f := setupMentionsTest(t)

	res, err := f.resolver.Resolve(f.ctx, testGuildID, &clients.DiscordMessage{ID: testMessageID}, testBotID)
	require.NoError(t, err)
	assert.Empty(t, res.Roster)
	f.discordClient.AssertExpectations(t)
}
