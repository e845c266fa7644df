package gateway

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anarchy/associates/internal/model"
)

// definedKeys flattens the command definitions into router keys
func definedKeys(t *testing.T) map[string]bool {
	t.Helper()

	keys := make(map[string]bool)
	for _, cmd := range Commands() {
		hasSub := false
		for _, opt := range cmd.Options {
			if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
				hasSub = true
				keys[cmd.Name+"/"+opt.Name] = true
			}
		}
		if !hasSub {
			keys[cmd.Name] = true
		}
	}
	return keys
}

func TestEveryRouteHasACommandDefinition(t *testing.T) {
	t.Parallel()

	r := NewRouter(nil, nil)
	h := &Handlers{}
	h.RegisterRoutes(r, nil)

	defined := definedKeys(t)
	for key := range r.routes {
		assert.True(t, defined[key], "route %q has no slash command definition", key)
	}
}

func TestEveryCommandDefinitionHasARoute(t *testing.T) {
	t.Parallel()

	r := NewRouter(nil, nil)
	h := &Handlers{}
	h.RegisterRoutes(r, nil)

	for key := range definedKeys(t) {
		_, ok := r.routes[key]
		assert.True(t, ok, "command %q has no registered route", key)
	}
}

func TestCommandDefinitionsAreWellFormed(t *testing.T) {
	t.Parallel()

	for _, cmd := range Commands() {
		require.NotEmpty(t, cmd.Name)
		require.NotEmpty(t, cmd.Description, "command %s has no description", cmd.Name)
		for _, opt := range cmd.Options {
			assert.NotEmpty(t, opt.Description, "%s option %s has no description", cmd.Name, opt.Name)
			seenOptional := false
			for _, nested := range opt.Options {
				assert.NotEmpty(t, nested.Description, "%s/%s option %s has no description", cmd.Name, opt.Name, nested.Name)
				if !nested.Required {
					seenOptional = true
				} else {
					// Discord rejects required options after optional ones
					assert.False(t, seenOptional, "%s/%s places required option %s after an optional one", cmd.Name, opt.Name, nested.Name)
				}
			}
		}
	}
}

func TestStaffRoleChoicesCoverTheHierarchy(t *testing.T) {
	t.Parallel()

	choices := staffRoleChoices()
	require.Len(t, choices, len(model.StaffRolesByLevel()))
	for _, choice := range choices {
		role, ok := choice.Value.(string)
		require.True(t, ok)
		assert.True(t, model.StaffRole(role).IsValid(), "choice %q is not a staff role", role)
	}
}
