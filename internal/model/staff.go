package model

import "time"

// StaffStatus represents the lifecycle state of a staff record
type StaffStatus string

const (
	StaffStatusActive     StaffStatus = "active"
	StaffStatusTerminated StaffStatus = "terminated"
)

// IsValid returns true if the status is a known staff status
func (s StaffStatus) IsValid() bool {
	return s == StaffStatusActive || s == StaffStatusTerminated
}

// StaffRole is a named position in the firm hierarchy
type StaffRole string

const (
	RoleManagingPartner StaffRole = "Managing Partner"
	RoleSeniorPartner   StaffRole = "Senior Partner"
	RoleJuniorPartner   StaffRole = "Junior Partner"
	RoleSeniorAssociate StaffRole = "Senior Associate"
	RoleJuniorAssociate StaffRole = "Junior Associate"
	RoleParalegal       StaffRole = "Paralegal"
)

// roleLevels defines the total order over staff roles. Higher level outranks
// lower; all hire/fire/promote/demote eligibility compares these values.
var roleLevels = map[StaffRole]int{
	RoleManagingPartner: 6,
	RoleSeniorPartner:   5,
	RoleJuniorPartner:   4,
	RoleSeniorAssociate: 3,
	RoleJuniorAssociate: 2,
	RoleParalegal:       1,
}

// roleMaxCounts is the configured headcount limit per role. A guild owner
// may bypass these limits with explicit confirmation.
var roleMaxCounts = map[StaffRole]int{
	RoleManagingPartner: 1,
	RoleSeniorPartner:   3,
	RoleJuniorPartner:   5,
	RoleSeniorAssociate: 10,
	RoleJuniorAssociate: 10,
	RoleParalegal:       10,
}

// IsValid returns true if the role is a known staff role
func (r StaffRole) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the role's position in the hierarchy (higher outranks lower).
// Unknown roles have level 0, below every real role.
func (r StaffRole) Level() int {
	return roleLevels[r]
}

// MaxCount returns the headcount limit for the role, or 0 when the role has
// no configured limit.
func (r StaffRole) MaxCount() int {
	return roleMaxCounts[r]
}

// Outranks returns true if r is strictly higher in the hierarchy than other
func (r StaffRole) Outranks(other StaffRole) bool {
	return r.Level() > other.Level()
}

// NextPromotion returns the role one level up, or empty when already at the top
func (r StaffRole) NextPromotion() StaffRole {
	return roleAtLevel(r.Level() + 1)
}

// NextDemotion returns the role one level down, or empty when already at the bottom
func (r StaffRole) NextDemotion() StaffRole {
	return roleAtLevel(r.Level() - 1)
}

func roleAtLevel(level int) StaffRole {
	for role, l := range roleLevels {
		if l == level {
			return role
		}
	}
	return ""
}

// StaffRolesByLevel returns all staff roles ordered from highest to lowest
func StaffRolesByLevel() []StaffRole {
	return []StaffRole{
		RoleManagingPartner,
		RoleSeniorPartner,
		RoleJuniorPartner,
		RoleSeniorAssociate,
		RoleJuniorAssociate,
		RoleParalegal,
	}
}

// PromotionRecord captures a single role transition in a staff member's history
type PromotionRecord struct {
	FromRole   StaffRole `bson:"fromRole" json:"from_role"`
	ToRole     StaffRole `bson:"toRole" json:"to_role"`
	PromotedBy string    `bson:"promotedBy" json:"promoted_by"`
	PromotedAt time.Time `bson:"promotedAt" json:"promoted_at"`
	ActionType string    `bson:"actionType" json:"action_type"` // hire, promotion, demotion, fire
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

// Staff represents an employed member of the firm.
// At most one active record exists per (guild, user).
type Staff struct {
	Meta             `bson:",inline"`
	GuildID          string            `bson:"guildId" json:"guild_id"`
	UserID           string            `bson:"userId" json:"user_id"`
	RobloxUsername   string            `bson:"robloxUsername" json:"roblox_username"`
	Role             StaffRole         `bson:"role" json:"role"`
	Status           StaffStatus       `bson:"status" json:"status"`
	HiredAt          time.Time         `bson:"hiredAt" json:"hired_at"`
	HiredBy          string            `bson:"hiredBy" json:"hired_by"`
	TerminatedAt     *time.Time        `bson:"terminatedAt,omitempty" json:"terminated_at,omitempty"`
	TerminatedBy     string            `bson:"terminatedBy,omitempty" json:"terminated_by,omitempty"`
	PromotionHistory []PromotionRecord `bson:"promotionHistory" json:"promotion_history"`
}

// IsActive returns true if the staff member is currently employed
func (s *Staff) IsActive() bool {
	return s.Status == StaffStatusActive
}
