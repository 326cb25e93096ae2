package mentions

import (
	"context"
	"fmt"

	"github.com/Teara-exe/starryCafeBot/clients"
	"github.com/Teara-exe/starryCafeBot/core"
	"github.com/Teara-exe/starryCafeBot/core/log"
	"github.com/Teara-exe/starryCafeBot/models"
)

// Resolution is the roster derived from a message plus the names needed to render it
type Resolution struct {
	Roster    models.Roster
	Directory models.Directory
}

// MentionResolver expands a message's mentions into the set of users expected to respond
type MentionResolver struct {
	discordClient clients.DiscordClient
}

func NewMentionResolver(discordClient clients.DiscordClient) *MentionResolver {
	return &MentionResolver{discordClient: discordClient}
}

// Resolve returns the responder roster for msg, never including botUserID.
//
// An @everyone mention expands to the whole guild and ignores explicit mentions. Otherwise the
// roster is the directly mentioned users plus every member of each mentioned role.
func (r *MentionResolver) Resolve(
	ctx context.Context,
	guildID string,
	msg *clients.DiscordMessage,
	botUserID string,
) (*Resolution, error) {
	resolution := &Resolution{
		Roster:    models.NewRoster(),
		Directory: models.Directory{},
	}

	if msg.MentionEveryone {
		log.FromContext(ctx).Debug("📣 Everyone mentioned, expanding to full guild", "message_id", msg.ID, "guild_id", guildID)
		members, err := r.discordClient.GuildMembers(ctx, guildID)
		if err != nil {
			return nil, fmt.Errorf("failed to get guild members: %w", err)
		}
		for _, member := range members {
			resolution.add(member.User.ID, member.DisplayName())
		}
		resolution.Roster.Remove(botUserID)
		return resolution, nil
	}

	for _, user := range msg.Mentions {
		resolution.add(user.ID, user.DisplayName())
	}

	if len(msg.MentionRoleIDs) > 0 {
		if err := r.addRoleMembers(ctx, guildID, msg.MentionRoleIDs, resolution); err != nil {
			return nil, err
		}
	}

	resolution.Roster.Remove(botUserID)
	return resolution, nil
}

func (r *MentionResolver) addRoleMembers(
	ctx context.Context,
	guildID string,
	roleIDs []string,
	resolution *Resolution,
) error {
	roles, err := r.discordClient.GuildRoles(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild roles: %w", err)
	}
	known := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		known[role.ID] = struct{}{}
	}
	wanted := make(map[string]struct{}, len(roleIDs))
	for _, roleID := range roleIDs {
		if _, ok := known[roleID]; !ok {
			return fmt.Errorf("mentioned role %s in guild %s: %w", roleID, guildID, core.ErrNotFound)
		}
		wanted[roleID] = struct{}{}
	}

	members, err := r.discordClient.GuildMembers(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild members: %w", err)
	}

	matched := 0
	for _, member := range members {
		for _, roleID := range member.RoleIDs {
			if _, ok := wanted[roleID]; ok {
				// Role membership carries the guild nickname, prefer it over the mention's name
				resolution.Directory[member.User.ID] = member.DisplayName()
				resolution.Roster.Add(member.User.ID)
				matched++
				break
			}
		}
	}
	log.FromContext(ctx).Debug("👥 Expanded role mentions", "roles", len(wanted), "members", matched)
	return nil
}

func (res *Resolution) add(userID, name string) {
	res.Roster.Add(userID)
	res.Directory.Set(userID, name)
}
