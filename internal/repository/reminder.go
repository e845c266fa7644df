package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/anarchy/associates/internal/database"
	"github.com/anarchy/associates/internal/model"
)

// ReminderRepository handles reminder data access
type ReminderRepository struct {
	baseRepository[model.Reminder]
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *database.Mongo) *ReminderRepository {
	return &ReminderRepository{newBase[model.Reminder](db.Collection("reminders"))}
}

// FindDue returns undelivered reminders scheduled at or before now
func (r *ReminderRepository) FindDue(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduledFor", Value: 1}})
	return r.FindMany(ctx, bson.M{
		"delivered":    false,
		"scheduledFor": bson.M{"$lte": now},
	}, opts)
}

// FindPendingByUser returns a user's undelivered reminders in the guild
func (r *ReminderRepository) FindPendingByUser(ctx context.Context, guildID, userID string) ([]*model.Reminder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduledFor", Value: 1}})
	return r.FindMany(ctx, bson.M{
		"guildId":   guildID,
		"userId":    userID,
		"delivered": false,
	}, opts)
}

// MarkDelivered stamps a reminder as delivered
func (r *ReminderRepository) MarkDelivered(ctx context.Context, reminderID string, at time.Time) (*model.Reminder, error) {
	return r.Update(ctx, reminderID, bson.M{
		"delivered":   true,
		"deliveredAt": at,
	})
}
