package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/model"
)

// GuildConfigRepository defines the interface for guild config storage
type GuildConfigRepository interface {
	FindByGuild(ctx context.Context, guildID string) (*model.GuildConfig, error)
	EnsureDefault(ctx context.Context, guildID string) (*model.GuildConfig, error)
	SetPermissionRoles(ctx context.Context, configID string, action model.PermissionAction, roleIDs []string) (*model.GuildConfig, error)
	Update(ctx context.Context, id string, partial bson.M) (*model.GuildConfig, error)
	Apply(ctx context.Context, id string, update bson.M) (*model.GuildConfig, error)
}

// PermissionService mutates the guild's permission and channel
// configuration. Access gating (admin or owner) runs in the validation
// pipeline before these are called.
type PermissionService struct {
	configs GuildConfigRepository
	audit   AuditRecorder
}

// NewPermissionService creates a new permission service
func NewPermissionService(configs GuildConfigRepository, audit AuditRecorder) *PermissionService {
	return &PermissionService{configs: configs, audit: audit}
}

// Config returns the guild's configuration, creating the default on first
// touch
func (s *PermissionService) Config(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	return s.configs.EnsureDefault(ctx, guildID)
}

// SetActionRoles replaces the Discord roles granted a permission action
func (s *PermissionService) SetActionRoles(ctx context.Context, pctx *model.PermissionContext, action model.PermissionAction, roleIDs []string) (*model.GuildConfig, error) {
	if !action.IsValid() {
		return nil, ErrInvalidPermissionAction
	}

	cfg, err := s.configs.EnsureDefault(ctx, pctx.GuildID)
	if err != nil {
		return nil, fmt.Errorf("load guild config: %w", err)
	}

	updated, err := s.configs.SetPermissionRoles(ctx, cfg.EntityID(), action, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("set permission roles: %w", err)
	}
	if updated == nil {
		return nil, ErrGuildConfigNotFound
	}

	s.record(ctx, pctx, map[string]string{
		"action": string(action),
		"roles":  strings.Join(roleIDs, ","),
	})
	return updated, nil
}

// GrantAdminRole adds a Discord role to the admin set
func (s *PermissionService) GrantAdminRole(ctx context.Context, pctx *model.PermissionContext, roleID string) (*model.GuildConfig, error) {
	return s.applyAdminChange(ctx, pctx, bson.M{"$addToSet": bson.M{"adminRoles": roleID}}, "grant_admin_role", roleID)
}

// RevokeAdminRole removes a Discord role from the admin set
func (s *PermissionService) RevokeAdminRole(ctx context.Context, pctx *model.PermissionContext, roleID string) (*model.GuildConfig, error) {
	return s.applyAdminChange(ctx, pctx, bson.M{"$pull": bson.M{"adminRoles": roleID}}, "revoke_admin_role", roleID)
}

// GrantAdminUser adds a user to the admin set
func (s *PermissionService) GrantAdminUser(ctx context.Context, pctx *model.PermissionContext, userID string) (*model.GuildConfig, error) {
	return s.applyAdminChange(ctx, pctx, bson.M{"$addToSet": bson.M{"adminUsers": userID}}, "grant_admin_user", userID)
}

// RevokeAdminUser removes a user from the admin set
func (s *PermissionService) RevokeAdminUser(ctx context.Context, pctx *model.PermissionContext, userID string) (*model.GuildConfig, error) {
	return s.applyAdminChange(ctx, pctx, bson.M{"$pull": bson.M{"adminUsers": userID}}, "revoke_admin_user", userID)
}

// ChannelSettings carries channel wiring updates; empty fields are left
// unchanged
type ChannelSettings struct {
	FeedbackChannelID     string
	RetainerChannelID     string
	ModlogChannelID       string
	ApplicationChannelID  string
	RulesChannelID        string
	CaseReviewCategoryID  string
	CaseArchiveCategoryID string
	ClientRoleID          string
}

// SetChannels updates the guild's channel wiring
func (s *PermissionService) SetChannels(ctx context.Context, pctx *model.PermissionContext, settings ChannelSettings) (*model.GuildConfig, error) {
	cfg, err := s.configs.EnsureDefault(ctx, pctx.GuildID)
	if err != nil {
		return nil, fmt.Errorf("load guild config: %w", err)
	}

	partial := bson.M{}
	set := func(field, value string) {
		if value != "" {
			partial[field] = value
		}
	}
	set("feedbackChannelId", settings.FeedbackChannelID)
	set("retainerChannelId", settings.RetainerChannelID)
	set("modlogChannelId", settings.ModlogChannelID)
	set("applicationChannelId", settings.ApplicationChannelID)
	set("rulesChannelId", settings.RulesChannelID)
	set("caseReviewCategoryId", settings.CaseReviewCategoryID)
	set("caseArchiveCategoryId", settings.CaseArchiveCategoryID)
	set("clientRoleId", settings.ClientRoleID)
	if len(partial) == 0 {
		return cfg, nil
	}

	updated, err := s.configs.Update(ctx, cfg.EntityID(), partial)
	if err != nil {
		return nil, fmt.Errorf("update guild config: %w", err)
	}
	if updated == nil {
		return nil, ErrGuildConfigNotFound
	}
	return updated, nil
}

func (s *PermissionService) applyAdminChange(ctx context.Context, pctx *model.PermissionContext, update bson.M, change, targetID string) (*model.GuildConfig, error) {
	cfg, err := s.configs.EnsureDefault(ctx, pctx.GuildID)
	if err != nil {
		return nil, fmt.Errorf("load guild config: %w", err)
	}

	updated, err := s.configs.Apply(ctx, cfg.EntityID(), update)
	if err != nil {
		return nil, fmt.Errorf("change admin set: %w", err)
	}
	if updated == nil {
		return nil, ErrGuildConfigNotFound
	}

	s.record(ctx, pctx, map[string]string{"change": change, "target": targetID})
	return updated, nil
}

func (s *PermissionService) record(ctx context.Context, pctx *model.PermissionContext, details map[string]string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, model.AuditLog{
		GuildID: pctx.GuildID,
		Action:  model.AuditPermissionChanged,
		ActorID: pctx.UserID,
		Details: details,
	})
}
