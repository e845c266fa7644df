package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/database"
	"github.com/anarchy/associates/internal/model"
)

// StaffRepository handles staff data access
type StaffRepository struct {
	baseRepository[model.Staff]
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *database.Mongo) *StaffRepository {
	return &StaffRepository{newBase[model.Staff](db.Collection("staff"))}
}

// FindActiveByUser returns the active staff record for a user in a guild,
// or nil when the user is not employed
func (r *StaffRepository) FindActiveByUser(ctx context.Context, guildID, userID string) (*model.Staff, error) {
	return r.FindOne(ctx, bson.M{
		"guildId": guildID,
		"userId":  userID,
		"status":  model.StaffStatusActive,
	})
}

// FindByUser returns the most recent staff record for a user regardless of status
func (r *StaffRepository) FindByUser(ctx context.Context, guildID, userID string) (*model.Staff, error) {
	return r.FindOne(ctx, bson.M{"guildId": guildID, "userId": userID})
}

// FindActiveByRole returns all active staff holding the given role
func (r *StaffRepository) FindActiveByRole(ctx context.Context, guildID string, role model.StaffRole) ([]*model.Staff, error) {
	return r.FindMany(ctx, bson.M{
		"guildId": guildID,
		"role":    role,
		"status":  model.StaffStatusActive,
	})
}

// CountActiveByRole counts active staff holding the given role
func (r *StaffRepository) CountActiveByRole(ctx context.Context, guildID string, role model.StaffRole) (int64, error) {
	return r.Count(ctx, bson.M{
		"guildId": guildID,
		"role":    role,
		"status":  model.StaffStatusActive,
	})
}

// FindAllActive returns every active staff member in the guild
func (r *StaffRepository) FindAllActive(ctx context.Context, guildID string) ([]*model.Staff, error) {
	return r.FindMany(ctx, bson.M{"guildId": guildID, "status": model.StaffStatusActive})
}

// FindByRobloxUsername returns the active staff record with the given
// Roblox username, or nil
func (r *StaffRepository) FindByRobloxUsername(ctx context.Context, guildID, robloxUsername string) (*model.Staff, error) {
	return r.FindOne(ctx, bson.M{
		"guildId":        guildID,
		"robloxUsername": robloxUsername,
		"status":         model.StaffStatusActive,
	})
}
