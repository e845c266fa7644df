// Package model defines domain entities and data structures for the
// Anarchy & Associates bot.
//
// # Domain Entities
//
// Persisted entities include:
//
//   - Staff: an employed member of the firm with a role in the hierarchy
//   - Job: an open position users can apply to
//   - Case: a legal matter opened for a client
//   - Application: a user's answers to a job's questions
//   - Retainer: a signed client agreement
//   - GuildConfig: per-guild permission mappings and channel wiring
//
// Every persisted entity embeds Meta, which carries the Mongo _id and the
// createdAt/updatedAt stamps managed by the repository layer. All entities
// are scoped to a guild; the guild ID is the tenant boundary and every
// repository filter includes it.
//
// # Validation Types
//
// Transient types built per command invocation and never persisted:
//
//	PermissionContext        who is acting, with which Discord roles
//	ValidationResult         outcome of a single business rule
//	CommandValidationContext the invocation being validated (cache key source)
//	BypassRequest            a failed rule a guild owner may override
//
// # Staff Hierarchy
//
// StaffRole values form a total order by Level. Promotion, demotion, hiring
// and firing all compare levels; an actor may only act on strictly
// lower-level targets unless they own the guild.
package model
