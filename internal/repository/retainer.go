package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/database"
	"github.com/anarchy/associates/internal/model"
)

// RetainerRepository handles retainer agreement data access
type RetainerRepository struct {
	baseRepository[model.Retainer]
}

// NewRetainerRepository creates a new retainer repository
func NewRetainerRepository(db *database.Mongo) *RetainerRepository {
	return &RetainerRepository{newBase[model.Retainer](db.Collection("retainers"))}
}

// FindPendingByClient returns the client's pending retainer, or nil
func (r *RetainerRepository) FindPendingByClient(ctx context.Context, guildID, clientID string) (*model.Retainer, error) {
	return r.FindOne(ctx, bson.M{
		"guildId":  guildID,
		"clientId": clientID,
		"status":   model.RetainerStatusPending,
	})
}

// FindSignedByClient returns the client's signed retainer, or nil
func (r *RetainerRepository) FindSignedByClient(ctx context.Context, guildID, clientID string) (*model.Retainer, error) {
	return r.FindOne(ctx, bson.M{
		"guildId":  guildID,
		"clientId": clientID,
		"status":   model.RetainerStatusSigned,
	})
}

// FindByLawyer returns every retainer sent by the given staff member
func (r *RetainerRepository) FindByLawyer(ctx context.Context, guildID, lawyerID string) ([]*model.Retainer, error) {
	return r.FindMany(ctx, bson.M{"guildId": guildID, "lawyerId": lawyerID})
}

// Sign records the client's digital signature and marks the retainer signed
func (r *RetainerRepository) Sign(ctx context.Context, retainerID, signature string) (*model.Retainer, error) {
	now := time.Now().UTC()
	return r.Update(ctx, retainerID, bson.M{
		"status":           model.RetainerStatusSigned,
		"digitalSignature": signature,
		"signedAt":         now,
	})
}
