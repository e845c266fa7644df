// Package validation implements the business-rule pipeline every command
// runs before mutating state.
//
// # Services
//
// BusinessRuleService evaluates one rule at a time against current
// repository state: role headcount limits, client case limits, staff
// membership, and permission grants. Evaluators never mutate and never let
// a repository error escape; failures become failed results with a generic
// message.
//
// CrossEntityService checks referential integrity across entity types
// before destructive operations (for example, whether firing a staff member
// orphans open cases), and can scan for and best-effort repair orphaned
// references.
//
// CommandValidationService is the single entry point command handlers call.
// It orchestrates permission, business-rule, cross-entity and custom rules,
// aggregates every error and warning without short-circuiting, memoizes
// results per invocation, and manages the guild-owner bypass handshake.
//
// # Bypass Flow
//
// When a rule fails with bypass availability and the actor owns the guild,
// the aggregate result demands confirmation and a BypassRequest is parked
// per user. Confirmation consumes the pending requests and hands them back
// to the caller, which re-runs the original command with the failing rule
// skipped. Pending requests and cached results are both TTL- and
// size-bounded; nothing in this package grows without limit.
package validation
