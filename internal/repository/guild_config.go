package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/database"
	"github.com/anarchy/associates/internal/model"
)

// GuildConfigRepository handles per-guild configuration data access
type GuildConfigRepository struct {
	baseRepository[model.GuildConfig]
}

// NewGuildConfigRepository creates a new guild config repository
func NewGuildConfigRepository(db *database.Mongo) *GuildConfigRepository {
	return &GuildConfigRepository{newBase[model.GuildConfig](db.Collection("guild_configs"))}
}

// FindByGuild returns the guild's config, or nil when none exists yet
func (r *GuildConfigRepository) FindByGuild(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	return r.FindOne(ctx, bson.M{"guildId": guildID})
}

// EnsureDefault returns the guild's config, creating a default one on first use
func (r *GuildConfigRepository) EnsureDefault(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	cfg, err := r.FindByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}

	cfg = model.DefaultGuildConfig(guildID)
	if err := r.Add(ctx, cfg); err != nil {
		return nil, fmt.Errorf("create default guild config: %w", err)
	}
	return cfg, nil
}

// SetPermissionRoles replaces the role grant list for an action
func (r *GuildConfigRepository) SetPermissionRoles(ctx context.Context, configID string, action model.PermissionAction, roleIDs []string) (*model.GuildConfig, error) {
	return r.Update(ctx, configID, bson.M{
		fmt.Sprintf("permissions.%s", action): roleIDs,
	})
}
