package model

// PermissionContext describes the acting user for a single command
// invocation. It is derived from the triggering interaction and never
// persisted.
type PermissionContext struct {
	GuildID      string
	UserID       string
	UserRoles    []string // Discord role IDs held by the actor, in guild order
	IsGuildOwner bool
}

// HasRole returns true if the actor holds the given Discord role
func (p *PermissionContext) HasRole(roleID string) bool {
	for _, r := range p.UserRoles {
		if r == roleID {
			return true
		}
	}
	return false
}

// HasAnyRole returns true if the actor holds at least one of the given roles
func (p *PermissionContext) HasAnyRole(roleIDs []string) bool {
	for _, r := range roleIDs {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}
