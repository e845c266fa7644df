package gateway

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/anarchy/associates/internal/model"
)

// DiscordAdapter implements the side-effect interfaces the service and
// validation layers depend on: staff role sync, guild scaffolding, rules
// message upserts, and role existence checks.
type DiscordAdapter struct {
	discord *discordgo.Session
}

// NewDiscordAdapter creates the adapter over an open session
func NewDiscordAdapter(session *Session) *DiscordAdapter {
	return &DiscordAdapter{discord: session.Discord()}
}

// roleByName finds a guild role by exact name, preferring the state cache
func (a *DiscordAdapter) roleByName(guildID, name string) (*discordgo.Role, error) {
	roles, err := a.guildRoles(guildID)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, nil
}

func (a *DiscordAdapter) guildRoles(guildID string) ([]*discordgo.Role, error) {
	if guild, err := a.discord.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
		return guild.Roles, nil
	}
	roles, err := a.discord.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("fetch guild roles: %w", err)
	}
	return roles, nil
}

// SyncStaffRole grants the Discord role named after the staff role and
// removes any other staff rank roles the member still holds
func (a *DiscordAdapter) SyncStaffRole(ctx context.Context, guildID, userID string, role model.StaffRole) error {
	target, err := a.roleByName(guildID, string(role))
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("discord role %q not found", role)
	}

	if err := a.discord.GuildMemberRoleAdd(guildID, userID, target.ID); err != nil {
		return fmt.Errorf("add role: %w", err)
	}
	for _, other := range model.StaffRolesByLevel() {
		if other == role {
			continue
		}
		stale, err := a.roleByName(guildID, string(other))
		if err != nil || stale == nil {
			continue
		}
		// Best effort; a member not holding the role is a no-op error.
		_ = a.discord.GuildMemberRoleRemove(guildID, userID, stale.ID)
	}
	return nil
}

// RemoveStaffRoles strips every staff rank role from the member
func (a *DiscordAdapter) RemoveStaffRoles(ctx context.Context, guildID, userID string) error {
	var firstErr error
	for _, role := range model.StaffRolesByLevel() {
		r, err := a.roleByName(guildID, string(role))
		if err != nil || r == nil {
			continue
		}
		if err := a.discord.GuildMemberRoleRemove(guildID, userID, r.ID); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("remove role %s: %w", role, err)
		}
	}
	return firstErr
}

// RoleExists reports whether a Discord role ID still exists in the guild
func (a *DiscordAdapter) RoleExists(guildID, roleID string) bool {
	roles, err := a.guildRoles(guildID)
	if err != nil {
		// Unverifiable is treated as existing so scans never
		// auto-repair on a transient API failure.
		return true
	}
	for _, role := range roles {
		if role.ID == roleID {
			return true
		}
	}
	return false
}

// EnsureRole returns the ID of the guild role with the given name,
// creating it when absent
func (a *DiscordAdapter) EnsureRole(ctx context.Context, guildID, name string) (string, error) {
	if existing, err := a.roleByName(guildID, name); err != nil {
		return "", err
	} else if existing != nil {
		return existing.ID, nil
	}

	role, err := a.discord.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: name})
	if err != nil {
		return "", fmt.Errorf("create role %q: %w", name, err)
	}
	return role.ID, nil
}

// EnsureCategory returns the ID of the category channel with the given
// name, creating it when absent
func (a *DiscordAdapter) EnsureCategory(ctx context.Context, guildID, name string) (string, error) {
	return a.ensureChannel(guildID, "", name, discordgo.ChannelTypeGuildCategory)
}

// EnsureChannel returns the ID of the text channel with the given name
// under the parent category, creating it when absent
func (a *DiscordAdapter) EnsureChannel(ctx context.Context, guildID, parentID, name string) (string, error) {
	return a.ensureChannel(guildID, parentID, name, discordgo.ChannelTypeGuildText)
}

func (a *DiscordAdapter) ensureChannel(guildID, parentID, name string, kind discordgo.ChannelType) (string, error) {
	channels, err := a.discord.GuildChannels(guildID)
	if err != nil {
		return "", fmt.Errorf("fetch guild channels: %w", err)
	}
	for _, ch := range channels {
		if ch.Name == name && ch.Type == kind && (parentID == "" || ch.ParentID == parentID) {
			return ch.ID, nil
		}
	}

	created, err := a.discord.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     kind,
		ParentID: parentID,
	})
	if err != nil {
		return "", fmt.Errorf("create channel %q: %w", name, err)
	}
	return created.ID, nil
}

// DeleteRole removes a guild role
func (a *DiscordAdapter) DeleteRole(ctx context.Context, guildID, roleID string) error {
	if err := a.discord.GuildRoleDelete(guildID, roleID); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}

// DeleteChannel removes a guild channel
func (a *DiscordAdapter) DeleteChannel(ctx context.Context, guildID, channelID string) error {
	if _, err := a.discord.ChannelDelete(channelID); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}

// UpsertMessage edits the bot-owned message when messageID is set and
// still exists, otherwise posts a new message, returning the resulting
// message ID
func (a *DiscordAdapter) UpsertMessage(ctx context.Context, channelID, messageID, content string) (string, error) {
	if messageID != "" {
		if _, err := a.discord.ChannelMessageEdit(channelID, messageID, content); err == nil {
			return messageID, nil
		}
	}
	msg, err := a.discord.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return msg.ID, nil
}

// SendChannelMessage posts a plain message, used by the reminder dispatcher
func (a *DiscordAdapter) SendChannelMessage(ctx context.Context, channelID, content string) error {
	if _, err := a.discord.ChannelMessageSend(channelID, content); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// IsGuildOwner reports whether the user owns the guild
func (a *DiscordAdapter) IsGuildOwner(guildID, userID string) bool {
	guild, err := a.discord.State.Guild(guildID)
	if err != nil || guild.OwnerID == "" {
		fetched, ferr := a.discord.Guild(guildID)
		if ferr != nil {
			return false
		}
		guild = fetched
	}
	return guild.OwnerID == userID
}
