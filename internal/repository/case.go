package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/anarchy/associates/internal/database"
	"github.com/anarchy/associates/internal/model"
)

// CaseRepository handles case data access
type CaseRepository struct {
	baseRepository[model.Case]
	counters *mongo.Collection
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *database.Mongo) *CaseRepository {
	return &CaseRepository{
		baseRepository: newBase[model.Case](db.Collection("cases")),
		counters:       db.Collection("counters"),
	}
}

// activeStatuses matches cases that count against the client limit
var activeStatuses = bson.M{"$in": []model.CaseStatus{model.CaseStatusPending, model.CaseStatusOpen}}

// CountActiveByClient counts a client's pending and open cases
func (r *CaseRepository) CountActiveByClient(ctx context.Context, guildID, clientID string) (int64, error) {
	return r.Count(ctx, bson.M{
		"guildId":  guildID,
		"clientId": clientID,
		"status":   activeStatuses,
	})
}

// FindActiveByClient returns a client's pending and open cases
func (r *CaseRepository) FindActiveByClient(ctx context.Context, guildID, clientID string) ([]*model.Case, error) {
	return r.FindMany(ctx, bson.M{
		"guildId":  guildID,
		"clientId": clientID,
		"status":   activeStatuses,
	})
}

// FindOpenByLeadAttorney returns non-closed cases led by the given staff member
func (r *CaseRepository) FindOpenByLeadAttorney(ctx context.Context, guildID, attorneyID string) ([]*model.Case, error) {
	return r.FindMany(ctx, bson.M{
		"guildId":        guildID,
		"leadAttorneyId": attorneyID,
		"status":         activeStatuses,
	})
}

// FindAssignedTo returns non-closed cases where the staff member is lead or assigned
func (r *CaseRepository) FindAssignedTo(ctx context.Context, guildID, attorneyID string) ([]*model.Case, error) {
	return r.FindMany(ctx, bson.M{
		"guildId": guildID,
		"status":  activeStatuses,
		"$or": []bson.M{
			{"leadAttorneyId": attorneyID},
			{"assignedAttorneys": attorneyID},
		},
	})
}

// FindByStatus returns the guild's cases in the given status, newest first
func (r *CaseRepository) FindByStatus(ctx context.Context, guildID string, status model.CaseStatus) ([]*model.Case, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.FindMany(ctx, bson.M{"guildId": guildID, "status": status}, opts)
}

// FindByCaseNumber returns the case with the given case number, or nil
func (r *CaseRepository) FindByCaseNumber(ctx context.Context, guildID, caseNumber string) (*model.Case, error) {
	return r.FindOne(ctx, bson.M{"guildId": guildID, "caseNumber": caseNumber})
}

// ClearLeadAttorney removes the lead attorney from a case, used when the
// lead leaves the firm
func (r *CaseRepository) ClearLeadAttorney(ctx context.Context, caseID string) (*model.Case, error) {
	return r.Apply(ctx, caseID, bson.M{"$unset": bson.M{"leadAttorneyId": ""}})
}

// NextCaseSequence atomically allocates the next case number sequence for
// the guild and year using a counter document.
func (r *CaseRepository) NextCaseSequence(ctx context.Context, guildID string, year int) (int, error) {
	filter := bson.M{"_id": fmt.Sprintf("case:%s:%d", guildID, year)}
	update := bson.M{"$inc": bson.M{"seq": 1}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, fmt.Errorf("counter upsert returned no document")
		}
		return 0, fmt.Errorf("allocate case sequence: %w", err)
	}
	return counter.Seq, nil
}
