package model

import "time"

// AuditAction tags the kind of state change an audit record describes
type AuditAction string

const (
	AuditStaffHired          AuditAction = "staff_hired"
	AuditStaffFired          AuditAction = "staff_fired"
	AuditStaffPromoted       AuditAction = "staff_promoted"
	AuditStaffDemoted        AuditAction = "staff_demoted"
	AuditJobCreated          AuditAction = "job_created"
	AuditJobUpdated          AuditAction = "job_updated"
	AuditJobClosed           AuditAction = "job_closed"
	AuditJobRemoved          AuditAction = "job_removed"
	AuditCaseOpened          AuditAction = "case_opened"
	AuditCaseAssigned        AuditAction = "case_assigned"
	AuditCaseClosed          AuditAction = "case_closed"
	AuditCaseDeclined        AuditAction = "case_declined"
	AuditApplicationAccepted AuditAction = "application_accepted"
	AuditApplicationRejected AuditAction = "application_rejected"
	AuditRetainerSigned      AuditAction = "retainer_signed"
	AuditPermissionChanged   AuditAction = "permission_changed"
	AuditGuildOwnerBypass    AuditAction = "guild_owner_bypass"
	AuditServerSetup         AuditAction = "server_setup"
	AuditServerWipe          AuditAction = "server_wipe"
	AuditIntegrityRepair     AuditAction = "integrity_repair"
)

// AuditSeverity grades audit records for filtering
type AuditSeverity string

const (
	AuditSeverityInfo     AuditSeverity = "info"
	AuditSeverityWarning  AuditSeverity = "warning"
	AuditSeverityCritical AuditSeverity = "critical"
)

// AuditLog is an append-only record of a state-changing operation
type AuditLog struct {
	Meta      `bson:",inline"`
	GuildID   string            `bson:"guildId" json:"guild_id"`
	Action    AuditAction       `bson:"action" json:"action"`
	ActorID   string            `bson:"actorId" json:"actor_id"`
	TargetID  string            `bson:"targetId,omitempty" json:"target_id,omitempty"`
	Details   map[string]string `bson:"details,omitempty" json:"details,omitempty"`
	Timestamp time.Time         `bson:"timestamp" json:"timestamp"`
	Severity  AuditSeverity     `bson:"severity" json:"severity"`
}

// AuditQuery filters audit log lookups
type AuditQuery struct {
	GuildID  string
	Action   AuditAction
	ActorID  string
	TargetID string
	From     *time.Time
	To       *time.Time
	Limit    int
}
