package validation

import (
	"time"

	"github.com/anarchy/associates/internal/model"
)

// ExtractValidationContext builds the validation context for an invocation
// by flattening its options into a name→value map and attaching fixed
// metadata. The result is reused as the cache key source for the whole
// invocation.
func ExtractValidationContext(inv model.Invocation, pctx model.PermissionContext) model.CommandValidationContext {
	options := make(map[string]any, len(inv.Options))
	for name, value := range inv.Options {
		options[name] = value
	}

	return model.CommandValidationContext{
		CommandName:       inv.CommandName,
		SubcommandName:    inv.SubcommandName,
		Options:           options,
		PermissionContext: pctx,
		Metadata: model.ValidationMetadata{
			GuildID:   inv.GuildID,
			UserID:    inv.UserID,
			ChannelID: inv.ChannelID,
			Timestamp: time.Now().UTC(),
		},
	}
}
