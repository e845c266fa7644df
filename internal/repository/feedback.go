package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/anarchy/associates/internal/database"
	"github.com/anarchy/associates/internal/model"
)

// FeedbackRepository handles client feedback data access
type FeedbackRepository struct {
	baseRepository[model.Feedback]
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *database.Mongo) *FeedbackRepository {
	return &FeedbackRepository{newBase[model.Feedback](db.Collection("feedback"))}
}

// FindByTargetStaff returns all feedback left for a staff member, newest first
func (r *FeedbackRepository) FindByTargetStaff(ctx context.Context, guildID, staffID string) ([]*model.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.FindMany(ctx, bson.M{"guildId": guildID, "targetStaffId": staffID}, opts)
}

// FindBySubmitter returns all feedback a user has submitted in the guild
func (r *FeedbackRepository) FindBySubmitter(ctx context.Context, guildID, submitterID string) ([]*model.Feedback, error) {
	return r.FindMany(ctx, bson.M{"guildId": guildID, "submitterId": submitterID})
}

// StatsForStaff aggregates ratings for a staff member. An empty staffID
// aggregates firm-wide feedback (records with no target).
func (r *FeedbackRepository) StatsForStaff(ctx context.Context, guildID, staffID string) (*model.FeedbackStats, error) {
	all, err := r.FindMany(ctx, bson.M{"guildId": guildID, "targetStaffId": staffID})
	if err != nil {
		return nil, err
	}

	stats := &model.FeedbackStats{CountByRating: make(map[int]int)}
	sum := 0
	for _, f := range all {
		stats.TotalCount++
		stats.CountByRating[f.Rating]++
		sum += f.Rating
	}
	if stats.TotalCount > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalCount)
	}
	return stats, nil
}
