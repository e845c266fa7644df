package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// BypassType tags which class of actor may override a failed rule
type BypassType string

// BypassGuildOwner is the only bypass class: the guild owner may override
// with explicit confirmation.
const BypassGuildOwner BypassType = "guild-owner"

// ValidationResult is the immutable outcome of evaluating one business rule.
// Rule-specific detail fields are populated only by the rules that use them.
type ValidationResult struct {
	Valid           bool
	Errors          []string
	Warnings        []string
	BypassAvailable bool
	BypassType      BypassType

	// Role-limit details
	CurrentCount int
	MaxCount     int
	RoleName     string

	// Permission details
	HasPermission      bool
	RequiredPermission PermissionAction
	GrantedPermissions []string

	Metadata map[string]string
}

// ValidResult returns a passing result
func ValidResult() ValidationResult {
	return ValidationResult{Valid: true}
}

// InvalidResult returns a failing result with the given errors
func InvalidResult(errs ...string) ValidationResult {
	return ValidationResult{Valid: false, Errors: errs}
}

// ValidationMetadata carries fixed per-invocation identifiers
type ValidationMetadata struct {
	GuildID   string
	UserID    string
	ChannelID string
	Timestamp time.Time
}

// CommandValidationContext describes the invocation being validated. It is
// built once per command by flattening the interaction's subcommand and
// option list, then reused as the cache key source.
type CommandValidationContext struct {
	CommandName       string
	SubcommandName    string
	Options           map[string]any
	PermissionContext PermissionContext
	Metadata          ValidationMetadata
}

// CacheKey derives a deterministic key from the command, subcommand, sorted
// option entries and the acting user.
func (c *CommandValidationContext) CacheKey() string {
	names := make([]string, 0, len(c.Options))
	for name := range c.Options {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(c.CommandName)
	b.WriteByte(':')
	b.WriteString(c.SubcommandName)
	for _, name := range names {
		fmt.Fprintf(&b, ":%s=%v", name, c.Options[name])
	}
	b.WriteByte(':')
	b.WriteString(c.Metadata.UserID)
	return b.String()
}

// StringOption returns the named option as a string, or "" when absent
func (c *CommandValidationContext) StringOption(name string) string {
	if v, ok := c.Options[name].(string); ok {
		return v
	}
	return ""
}

// IntOption returns the named option as an int, or 0 when absent
func (c *CommandValidationContext) IntOption(name string) int {
	switch v := c.Options[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// BoolOption returns the named option as a bool, or false when absent
func (c *CommandValidationContext) BoolOption(name string) bool {
	if v, ok := c.Options[name].(bool); ok {
		return v
	}
	return false
}

// BypassRequest pairs a bypass-eligible failure with the context that
// produced it, awaiting guild-owner confirmation.
type BypassRequest struct {
	Token     string
	Result    ValidationResult
	Context   CommandValidationContext
	CreatedAt time.Time
}

// FindingSeverity grades a cross-entity integrity finding
type FindingSeverity string

const (
	SeverityCritical FindingSeverity = "critical" // must block the operation
	SeverityWarning  FindingSeverity = "warning"  // surfaced, does not block
	SeverityInfo     FindingSeverity = "info"
)

// IntegrityFinding is one issue discovered by cross-entity validation
type IntegrityFinding struct {
	Severity      FindingSeverity
	EntityType    string
	EntityID      string
	Field         string
	Message       string
	CanAutoRepair bool
}

// RepairReport summarizes a best-effort integrity repair pass
type RepairReport struct {
	Scanned  int
	Repaired int
	Failed   int
	Findings []IntegrityFinding
}
