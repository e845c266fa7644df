package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/database"
)

// wipeableCollections are cleared by a full guild wipe. guild_configs is
// deliberately absent: configuration survives a wipe.
var wipeableCollections = []string{
	"staff",
	"jobs",
	"cases",
	"applications",
	"retainers",
	"feedback",
	"reminders",
	"audit_logs",
	"counters",
}

// WipeRepository removes all of a guild's data except its configuration
type WipeRepository struct {
	db *database.Mongo
}

// NewWipeRepository creates a new wipe repository
func NewWipeRepository(db *database.Mongo) *WipeRepository {
	return &WipeRepository{db: db}
}

// WipeGuild deletes every document belonging to the guild from each
// wipeable collection, returning per-collection deletion counts.
func (r *WipeRepository) WipeGuild(ctx context.Context, guildID string) (map[string]int64, error) {
	counts := make(map[string]int64, len(wipeableCollections))
	for _, name := range wipeableCollections {
		filter := bson.M{"guildId": guildID}
		if name == "counters" {
			// counter _ids embed the guild ID rather than carrying a field
			filter = bson.M{"_id": bson.M{"$regex": fmt.Sprintf("^case:%s:", guildID)}}
		}
		res, err := r.db.Collection(name).DeleteMany(ctx, filter)
		if err != nil {
			return counts, fmt.Errorf("wipe %s: %w", name, err)
		}
		counts[name] = res.DeletedCount
	}
	return counts, nil
}
