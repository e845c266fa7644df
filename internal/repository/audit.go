package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/anarchy/associates/internal/database"
	"github.com/anarchy/associates/internal/model"
)

// AuditLogRepository handles append-only audit records
type AuditLogRepository struct {
	baseRepository[model.AuditLog]
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *database.Mongo) *AuditLogRepository {
	return &AuditLogRepository{newBase[model.AuditLog](db.Collection("audit_logs"))}
}

const defaultAuditQueryLimit = 100

// Query returns audit records matching the query, newest first
func (r *AuditLogRepository) Query(ctx context.Context, q model.AuditQuery) ([]*model.AuditLog, error) {
	filter := bson.M{"guildId": q.GuildID}
	if q.Action != "" {
		filter["action"] = q.Action
	}
	if q.ActorID != "" {
		filter["actorId"] = q.ActorID
	}
	if q.TargetID != "" {
		filter["targetId"] = q.TargetID
	}
	if q.From != nil || q.To != nil {
		ts := bson.M{}
		if q.From != nil {
			ts["$gte"] = *q.From
		}
		if q.To != nil {
			ts["$lte"] = *q.To
		}
		filter["timestamp"] = ts
	}

	limit := q.Limit
	if limit <= 0 || limit > defaultAuditQueryLimit {
		limit = defaultAuditQueryLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	return r.FindMany(ctx, filter, opts)
}
