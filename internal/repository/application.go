package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/database"
	"github.com/anarchy/associates/internal/model"
)

// ApplicationRepository handles job application data access
type ApplicationRepository struct {
	baseRepository[model.Application]
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *database.Mongo) *ApplicationRepository {
	return &ApplicationRepository{newBase[model.Application](db.Collection("applications"))}
}

// FindPendingByApplicant returns the applicant's pending application for a
// job, or nil
func (r *ApplicationRepository) FindPendingByApplicant(ctx context.Context, guildID, jobID, applicantID string) (*model.Application, error) {
	return r.FindOne(ctx, bson.M{
		"guildId":     guildID,
		"jobId":       jobID,
		"applicantId": applicantID,
		"status":      model.ApplicationStatusPending,
	})
}

// FindPendingByJob returns all pending applications against a job
func (r *ApplicationRepository) FindPendingByJob(ctx context.Context, guildID, jobID string) ([]*model.Application, error) {
	return r.FindMany(ctx, bson.M{
		"guildId": guildID,
		"jobId":   jobID,
		"status":  model.ApplicationStatusPending,
	})
}

// FindByJob returns every application against a job
func (r *ApplicationRepository) FindByJob(ctx context.Context, guildID, jobID string) ([]*model.Application, error) {
	return r.FindMany(ctx, bson.M{"guildId": guildID, "jobId": jobID})
}

// FindByApplicant returns every application submitted by a user in the guild
func (r *ApplicationRepository) FindByApplicant(ctx context.Context, guildID, applicantID string) ([]*model.Application, error) {
	return r.FindMany(ctx, bson.M{"guildId": guildID, "applicantId": applicantID})
}

// FindPendingByGuild returns every pending application in the guild
func (r *ApplicationRepository) FindPendingByGuild(ctx context.Context, guildID string) ([]*model.Application, error) {
	return r.FindMany(ctx, bson.M{"guildId": guildID, "status": model.ApplicationStatusPending})
}

// MarkRejected resolves an application as rejected
func (r *ApplicationRepository) MarkRejected(ctx context.Context, applicationID, reviewedBy, reason string) (*model.Application, error) {
	now := time.Now().UTC()
	return r.Update(ctx, applicationID, bson.M{
		"status":       model.ApplicationStatusRejected,
		"reviewedBy":   reviewedBy,
		"reviewedAt":   now,
		"reviewReason": reason,
	})
}

// MarkAccepted resolves an application as accepted
func (r *ApplicationRepository) MarkAccepted(ctx context.Context, applicationID, reviewedBy string) (*model.Application, error) {
	now := time.Now().UTC()
	return r.Update(ctx, applicationID, bson.M{
		"status":     model.ApplicationStatusAccepted,
		"reviewedBy": reviewedBy,
		"reviewedAt": now,
	})
}
