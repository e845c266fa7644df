package model

// PermissionAction names a grantable capability. GuildConfig maps each
// action to the Discord roles allowed to perform it.
type PermissionAction string

const (
	PermissionAdmin    PermissionAction = "admin"
	PermissionHR       PermissionAction = "hr"       // hire/fire/promote/demote
	PermissionCase     PermissionAction = "case"     // case management
	PermissionConfig   PermissionAction = "config"   // guild configuration
	PermissionRetainer PermissionAction = "retainer" // retainer management
	PermissionRepair   PermissionAction = "repair"   // integrity scan/repair
)

// AllPermissionActions lists every grantable action
func AllPermissionActions() []PermissionAction {
	return []PermissionAction{
		PermissionAdmin,
		PermissionHR,
		PermissionCase,
		PermissionConfig,
		PermissionRetainer,
		PermissionRepair,
	}
}

// IsValid returns true if the action is a known permission action
func (a PermissionAction) IsValid() bool {
	for _, action := range AllPermissionActions() {
		if a == action {
			return true
		}
	}
	return false
}

// GuildConfig holds per-guild permission mappings and channel wiring.
// It is the one collection exempt from full-wipe operations.
type GuildConfig struct {
	Meta                  `bson:",inline"`
	GuildID               string                          `bson:"guildId" json:"guild_id"`
	Permissions           map[PermissionAction][]string   `bson:"permissions" json:"permissions"` // action -> role IDs
	AdminRoles            []string                        `bson:"adminRoles" json:"admin_roles"`
	AdminUsers            []string                        `bson:"adminUsers" json:"admin_users"`
	FeedbackChannelID     string                          `bson:"feedbackChannelId,omitempty" json:"feedback_channel_id,omitempty"`
	RetainerChannelID     string                          `bson:"retainerChannelId,omitempty" json:"retainer_channel_id,omitempty"`
	CaseReviewCategoryID  string                          `bson:"caseReviewCategoryId,omitempty" json:"case_review_category_id,omitempty"`
	CaseArchiveCategoryID string                          `bson:"caseArchiveCategoryId,omitempty" json:"case_archive_category_id,omitempty"`
	ModlogChannelID       string                          `bson:"modlogChannelId,omitempty" json:"modlog_channel_id,omitempty"`
	ApplicationChannelID  string                          `bson:"applicationChannelId,omitempty" json:"application_channel_id,omitempty"`
	RulesChannelID        string                          `bson:"rulesChannelId,omitempty" json:"rules_channel_id,omitempty"`
	RulesMessageID        string                          `bson:"rulesMessageId,omitempty" json:"rules_message_id,omitempty"`
	ClientRoleID          string                          `bson:"clientRoleId,omitempty" json:"client_role_id,omitempty"`
}

// DefaultGuildConfig returns a fresh config for a guild with no grants
func DefaultGuildConfig(guildID string) *GuildConfig {
	return &GuildConfig{
		GuildID:     guildID,
		Permissions: make(map[PermissionAction][]string),
		AdminRoles:  []string{},
		AdminUsers:  []string{},
	}
}

// RolesFor returns the role IDs granted the given action
func (c *GuildConfig) RolesFor(action PermissionAction) []string {
	if c.Permissions == nil {
		return nil
	}
	return c.Permissions[action]
}
