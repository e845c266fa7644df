package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/anarchy/associates/internal/database"
	"github.com/anarchy/associates/internal/model"
)

// baseRepository implements the shared persistence contract over one
// Mongo collection. Entity repositories embed it and add domain finders.
type baseRepository[T any] struct {
	coll *mongo.Collection
}

func newBase[T any](coll *mongo.Collection) baseRepository[T] {
	return baseRepository[T]{coll: coll}
}

// Add inserts the entity, assigning its ID and stamping both timestamps
func (r *baseRepository[T]) Add(ctx context.Context, doc *T) error {
	if e, ok := any(doc).(model.Entity); ok {
		e.StampCreate(bson.NewObjectID(), time.Now().UTC())
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if database.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %v", database.ErrDuplicate, err)
		}
		return fmt.Errorf("insert into %s: %w", r.coll.Name(), err)
	}
	return nil
}

// FindByID retrieves a document by its hex ID, or (nil, nil) when absent
func (r *baseRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.FindOne(ctx, bson.M{"_id": oid})
}

// FindOne retrieves the first document matching the filter, or (nil, nil)
func (r *baseRepository[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find in %s: %w", r.coll.Name(), err)
	}
	return &doc, nil
}

// FindMany retrieves all documents matching the filter
func (r *baseRepository[T]) FindMany(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOptions]) ([]*T, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", r.coll.Name(), err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	docs := make([]*T, 0)
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode from %s: %w", r.coll.Name(), err)
		}
		docs = append(docs, &doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor on %s: %w", r.coll.Name(), err)
	}
	return docs, nil
}

// Update applies a partial $set, stamps updatedAt, and returns the
// post-update document, or (nil, nil) when the document no longer exists
func (r *baseRepository[T]) Update(ctx context.Context, id string, partial bson.M) (*T, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range partial {
		set[k] = v
	}
	return r.Apply(ctx, id, bson.M{"$set": set})
}

// Apply runs an arbitrary update document (for $push, $pull, $inc callers)
// against the entity, stamping updatedAt, and returns the post-update
// document or (nil, nil) when absent
func (r *baseRepository[T]) Apply(ctx context.Context, id string, update bson.M) (*T, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
	}
	if _, stamped := set["updatedAt"]; !stamped {
		set["updatedAt"] = time.Now().UTC()
	}
	update["$set"] = set

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc T
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		if database.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: %v", database.ErrDuplicate, err)
		}
		return nil, fmt.Errorf("update in %s: %w", r.coll.Name(), err)
	}
	return &doc, nil
}

// Delete removes a document by ID, reporting whether one was removed
func (r *baseRepository[T]) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete in %s: %w", r.coll.Name(), err)
	}
	return res.DeletedCount > 0, nil
}

// DeleteMany removes all documents matching the filter, returning the count
func (r *baseRepository[T]) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete many in %s: %w", r.coll.Name(), err)
	}
	return res.DeletedCount, nil
}

// Count returns the number of documents matching the filter
func (r *baseRepository[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count in %s: %w", r.coll.Name(), err)
	}
	return n, nil
}
