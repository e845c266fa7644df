package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Meta carries the identity and timestamp fields shared by every persisted
// entity. The repository layer assigns ID on insert and stamps CreatedAt and
// UpdatedAt; domain code never sets these directly.
type Meta struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// EntityID returns the hex form of the entity's ID.
func (m *Meta) EntityID() string {
	return m.ID.Hex()
}

// StampCreate sets identity and both timestamps on insert.
func (m *Meta) StampCreate(id bson.ObjectID, now time.Time) {
	if m.ID.IsZero() {
		m.ID = id
	}
	m.CreatedAt = now
	m.UpdatedAt = now
}

// Entity is implemented by every persisted domain type via Meta.
type Entity interface {
	EntityID() string
	StampCreate(id bson.ObjectID, now time.Time)
}
