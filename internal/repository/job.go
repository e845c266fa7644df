package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/database"
	"github.com/anarchy/associates/internal/model"
)

// JobRepository handles job posting data access
type JobRepository struct {
	baseRepository[model.Job]
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *database.Mongo) *JobRepository {
	return &JobRepository{newBase[model.Job](db.Collection("jobs"))}
}

// FindOpenByStaffRole returns the open job for a staff role, or nil.
// At most one open job exists per (guild, staff role).
func (r *JobRepository) FindOpenByStaffRole(ctx context.Context, guildID string, role model.StaffRole) (*model.Job, error) {
	return r.FindOne(ctx, bson.M{
		"guildId":   guildID,
		"staffRole": role,
		"isOpen":    true,
	})
}

// FindOpen returns all open jobs in the guild
func (r *JobRepository) FindOpen(ctx context.Context, guildID string) ([]*model.Job, error) {
	return r.FindMany(ctx, bson.M{"guildId": guildID, "isOpen": true})
}

// FindAll returns every job in the guild, open or closed
func (r *JobRepository) FindAll(ctx context.Context, guildID string) ([]*model.Job, error) {
	return r.FindMany(ctx, bson.M{"guildId": guildID})
}

// FindOpenOlderThan returns open jobs created before the cutoff
func (r *JobRepository) FindOpenOlderThan(ctx context.Context, cutoff time.Time) ([]*model.Job, error) {
	return r.FindMany(ctx, bson.M{
		"isOpen":    true,
		"createdAt": bson.M{"$lt": cutoff},
	})
}

// Close marks a job closed, recording who closed it
func (r *JobRepository) Close(ctx context.Context, jobID, closedBy string) (*model.Job, error) {
	now := time.Now().UTC()
	return r.Update(ctx, jobID, bson.M{
		"isOpen":   false,
		"closedAt": now,
		"closedBy": closedBy,
	})
}

// IncrementApplicationCount atomically bumps the application counter
func (r *JobRepository) IncrementApplicationCount(ctx context.Context, jobID string) (*model.Job, error) {
	return r.Apply(ctx, jobID, bson.M{"$inc": bson.M{"applicationCount": 1}})
}

// IncrementHiredCount atomically bumps the hired counter
func (r *JobRepository) IncrementHiredCount(ctx context.Context, jobID string) (*model.Job, error) {
	return r.Apply(ctx, jobID, bson.M{"$inc": bson.M{"hiredCount": 1}})
}
