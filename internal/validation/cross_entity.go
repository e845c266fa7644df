package validation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anarchy/associates/internal/model"
)

// CrossCaseAccess defines the case lookups and repairs integrity checks need
type CrossCaseAccess interface {
	FindOpenByLeadAttorney(ctx context.Context, guildID, attorneyID string) ([]*model.Case, error)
	FindAssignedTo(ctx context.Context, guildID, attorneyID string) ([]*model.Case, error)
	FindByStatus(ctx context.Context, guildID string, status model.CaseStatus) ([]*model.Case, error)
	ClearLeadAttorney(ctx context.Context, caseID string) (*model.Case, error)
}

// CrossJobAccess defines the job lookups and repairs integrity checks need
type CrossJobAccess interface {
	FindByID(ctx context.Context, id string) (*model.Job, error)
	FindOpen(ctx context.Context, guildID string) ([]*model.Job, error)
	Close(ctx context.Context, jobID, closedBy string) (*model.Job, error)
}

// CrossApplicationAccess defines the application lookups and repairs
// integrity checks need
type CrossApplicationAccess interface {
	FindPendingByGuild(ctx context.Context, guildID string) ([]*model.Application, error)
	FindPendingByJob(ctx context.Context, guildID, jobID string) ([]*model.Application, error)
	MarkRejected(ctx context.Context, applicationID, reviewedBy, reason string) (*model.Application, error)
}

// CrossStaffAccess defines the staff lookups integrity checks need
type CrossStaffAccess interface {
	FindActiveByUser(ctx context.Context, guildID, userID string) (*model.Staff, error)
}

// RoleChecker reports whether a Discord role still exists in a guild.
// The gateway adapter implements it; a nil checker skips role checks.
type RoleChecker interface {
	RoleExists(guildID, roleID string) bool
}

// CrossEntityService checks referential integrity across entity types
// before destructive operations, and can scan for and repair orphaned
// references left behind by them.
type CrossEntityService struct {
	cases        CrossCaseAccess
	jobs         CrossJobAccess
	applications CrossApplicationAccess
	staff        CrossStaffAccess
	roles        RoleChecker
}

// NewCrossEntityService creates a new cross-entity validation service
func NewCrossEntityService(cases CrossCaseAccess, jobs CrossJobAccess, applications CrossApplicationAccess, staff CrossStaffAccess, roles RoleChecker) *CrossEntityService {
	return &CrossEntityService{
		cases:        cases,
		jobs:         jobs,
		applications: applications,
		staff:        staff,
		roles:        roles,
	}
}

// entity/operation tags accepted by ValidateBeforeOperation
const (
	EntityStaff = "staff"
	EntityJob   = "job"
	EntityCase  = "case"

	OperationDelete = "delete"
	OperationClose  = "close"
)

// ValidateBeforeOperation looks up entities related to the target of a
// destructive operation and reports findings. Critical findings must block
// the operation; warnings surface but do not.
func (s *CrossEntityService) ValidateBeforeOperation(ctx context.Context, entityType, operation string, payload map[string]any, pctx *model.PermissionContext) []model.IntegrityFinding {
	switch {
	case entityType == EntityStaff && operation == OperationDelete:
		userID, _ := payload["userId"].(string)
		return s.checkStaffRemoval(ctx, pctx.GuildID, userID)
	case entityType == EntityJob && (operation == OperationDelete || operation == OperationClose):
		jobID, _ := payload["jobId"].(string)
		return s.checkJobRemoval(ctx, pctx.GuildID, jobID)
	case entityType == EntityCase && operation == OperationDelete:
		status, _ := payload["status"].(string)
		caseID, _ := payload["caseId"].(string)
		if model.CaseStatus(status) == model.CaseStatusOpen {
			return []model.IntegrityFinding{{
				Severity:   model.SeverityCritical,
				EntityType: EntityCase,
				EntityID:   caseID,
				Field:      "status",
				Message:    "Case is still open; close it before deleting",
			}}
		}
		return nil
	default:
		return nil
	}
}

func (s *CrossEntityService) checkStaffRemoval(ctx context.Context, guildID, userID string) []model.IntegrityFinding {
	var findings []model.IntegrityFinding

	led, err := s.cases.FindOpenByLeadAttorney(ctx, guildID, userID)
	if err != nil {
		slog.Error("cross-entity staff check failed",
			slog.String("guild_id", guildID),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return []model.IntegrityFinding{{
			Severity:   model.SeverityCritical,
			EntityType: EntityStaff,
			EntityID:   userID,
			Message:    "Failed to validate staff integrity",
		}}
	}
	for _, c := range led {
		findings = append(findings, model.IntegrityFinding{
			Severity:      model.SeverityCritical,
			EntityType:    EntityCase,
			EntityID:      c.EntityID(),
			Field:         "leadAttorneyId",
			Message:       fmt.Sprintf("Case %s has this member as lead attorney; reassign it first", c.CaseNumber),
			CanAutoRepair: true,
		})
	}

	assigned, err := s.cases.FindAssignedTo(ctx, guildID, userID)
	if err != nil {
		findings = append(findings, model.IntegrityFinding{
			Severity:   model.SeverityWarning,
			EntityType: EntityStaff,
			EntityID:   userID,
			Message:    "Failed to check assigned cases",
		})
		return findings
	}
	for _, c := range assigned {
		if c.LeadAttorneyID == userID {
			continue // already reported as critical
		}
		findings = append(findings, model.IntegrityFinding{
			Severity:   model.SeverityWarning,
			EntityType: EntityCase,
			EntityID:   c.EntityID(),
			Field:      "assignedAttorneys",
			Message:    fmt.Sprintf("Case %s lists this member as an assigned attorney", c.CaseNumber),
		})
	}
	return findings
}

func (s *CrossEntityService) checkJobRemoval(ctx context.Context, guildID, jobID string) []model.IntegrityFinding {
	pending, err := s.applications.FindPendingByJob(ctx, guildID, jobID)
	if err != nil {
		slog.Error("cross-entity job check failed",
			slog.String("guild_id", guildID),
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return []model.IntegrityFinding{{
			Severity:   model.SeverityCritical,
			EntityType: EntityJob,
			EntityID:   jobID,
			Message:    "Failed to validate job integrity",
		}}
	}

	var findings []model.IntegrityFinding
	for _, app := range pending {
		findings = append(findings, model.IntegrityFinding{
			Severity:      model.SeverityWarning,
			EntityType:    "application",
			EntityID:      app.EntityID(),
			Field:         "jobId",
			Message:       fmt.Sprintf("Application from <@%s> is still pending against this job", app.ApplicantID),
			CanAutoRepair: true,
		})
	}
	return findings
}

// ScanIntegrityIssues performs a batch detection pass over the guild's
// data, reporting orphaned references
func (s *CrossEntityService) ScanIntegrityIssues(ctx context.Context, guildID string) ([]model.IntegrityFinding, error) {
	var findings []model.IntegrityFinding

	// Open jobs pointing at deleted Discord roles
	openJobs, err := s.jobs.FindOpen(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("scan jobs: %w", err)
	}
	openJobIDs := make(map[string]bool, len(openJobs))
	for _, job := range openJobs {
		openJobIDs[job.EntityID()] = true
		if s.roles != nil && job.RoleID != "" && !s.roles.RoleExists(guildID, job.RoleID) {
			findings = append(findings, model.IntegrityFinding{
				Severity:      model.SeverityCritical,
				EntityType:    EntityJob,
				EntityID:      job.EntityID(),
				Field:         "roleId",
				Message:       fmt.Sprintf("Job '%s' references a deleted Discord role", job.Title),
				CanAutoRepair: true,
			})
		}
	}

	// Pending applications pointing at removed or closed jobs
	pendingApps, err := s.applications.FindPendingByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("scan applications: %w", err)
	}
	for _, app := range pendingApps {
		if !openJobIDs[app.JobID] {
			findings = append(findings, model.IntegrityFinding{
				Severity:      model.SeverityWarning,
				EntityType:    "application",
				EntityID:      app.EntityID(),
				Field:         "jobId",
				Message:       "Application references a job that is closed or removed",
				CanAutoRepair: true,
			})
		}
	}

	// Active cases led by someone no longer on staff
	for _, status := range []model.CaseStatus{model.CaseStatusPending, model.CaseStatusOpen} {
		cases, err := s.cases.FindByStatus(ctx, guildID, status)
		if err != nil {
			return nil, fmt.Errorf("scan cases: %w", err)
		}
		for _, c := range cases {
			if c.LeadAttorneyID == "" {
				continue
			}
			staff, err := s.staff.FindActiveByUser(ctx, guildID, c.LeadAttorneyID)
			if err != nil {
				return nil, fmt.Errorf("scan case lead: %w", err)
			}
			if staff == nil {
				findings = append(findings, model.IntegrityFinding{
					Severity:      model.SeverityWarning,
					EntityType:    EntityCase,
					EntityID:      c.EntityID(),
					Field:         "leadAttorneyId",
					Message:       fmt.Sprintf("Case %s is led by someone no longer on staff", c.CaseNumber),
					CanAutoRepair: true,
				})
			}
		}
	}

	return findings, nil
}

// RepairIntegrityIssues applies best-effort repairs for auto-repairable
// findings. Repair is opportunistic, not transactional: each repair stands
// alone and failures are counted, not rolled back.
func (s *CrossEntityService) RepairIntegrityIssues(ctx context.Context, findings []model.IntegrityFinding) model.RepairReport {
	report := model.RepairReport{Scanned: len(findings), Findings: findings}

	for _, f := range findings {
		if !f.CanAutoRepair {
			continue
		}
		var err error
		switch f.EntityType {
		case EntityJob:
			_, err = s.jobs.Close(ctx, f.EntityID, "integrity-repair")
		case "application":
			_, err = s.applications.MarkRejected(ctx, f.EntityID, "integrity-repair", "The job this application targeted no longer exists")
		case EntityCase:
			_, err = s.cases.ClearLeadAttorney(ctx, f.EntityID)
		default:
			continue
		}
		if err != nil {
			slog.Warn("integrity repair failed",
				slog.String("entity_type", f.EntityType),
				slog.String("entity_id", f.EntityID),
				slog.String("error", err.Error()),
			)
			report.Failed++
			continue
		}
		report.Repaired++
	}
	return report
}

// ValidateEntity performs structural validation on a single entity
func (s *CrossEntityService) ValidateEntity(entity any) []model.IntegrityFinding {
	var findings []model.IntegrityFinding
	add := func(entityType, id, field, msg string) {
		findings = append(findings, model.IntegrityFinding{
			Severity:   model.SeverityCritical,
			EntityType: entityType,
			EntityID:   id,
			Field:      field,
			Message:    msg,
		})
	}

	switch e := entity.(type) {
	case *model.Staff:
		if e.GuildID == "" {
			add(EntityStaff, e.EntityID(), "guildId", "staff record has no guild")
		}
		if e.UserID == "" {
			add(EntityStaff, e.EntityID(), "userId", "staff record has no user")
		}
		if !e.Role.IsValid() {
			add(EntityStaff, e.EntityID(), "role", fmt.Sprintf("unknown staff role '%s'", e.Role))
		}
		if !e.Status.IsValid() {
			add(EntityStaff, e.EntityID(), "status", fmt.Sprintf("unknown staff status '%s'", e.Status))
		}
	case *model.Job:
		if e.GuildID == "" {
			add(EntityJob, e.EntityID(), "guildId", "job has no guild")
		}
		if e.Title == "" {
			add(EntityJob, e.EntityID(), "title", "job has no title")
		}
		if !e.StaffRole.IsValid() {
			add(EntityJob, e.EntityID(), "staffRole", fmt.Sprintf("unknown staff role '%s'", e.StaffRole))
		}
	case *model.Case:
		if e.GuildID == "" {
			add(EntityCase, e.EntityID(), "guildId", "case has no guild")
		}
		if e.CaseNumber == "" {
			add(EntityCase, e.EntityID(), "caseNumber", "case has no case number")
		}
		if e.ClientID == "" {
			add(EntityCase, e.EntityID(), "clientId", "case has no client")
		}
		if !e.Status.IsValid() {
			add(EntityCase, e.EntityID(), "status", fmt.Sprintf("unknown case status '%s'", e.Status))
		}
	case *model.GuildConfig:
		if e.GuildID == "" {
			add("guild_config", e.EntityID(), "guildId", "config has no guild")
		}
	}
	return findings
}

// BatchValidate runs ValidateEntity over a batch, concatenating findings
func (s *CrossEntityService) BatchValidate(entities []any) []model.IntegrityFinding {
	var findings []model.IntegrityFinding
	for _, e := range entities {
		findings = append(findings, s.ValidateEntity(e)...)
	}
	return findings
}
