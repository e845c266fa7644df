package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/anarchy/associates/internal/model"
)

// ApplicationRepository defines the interface for application storage
type ApplicationRepository interface {
	Add(ctx context.Context, app *model.Application) error
	FindByID(ctx context.Context, id string) (*model.Application, error)
	FindPendingByApplicant(ctx context.Context, guildID, jobID, applicantID string) (*model.Application, error)
	FindByJob(ctx context.Context, guildID, jobID string) ([]*model.Application, error)
	FindByApplicant(ctx context.Context, guildID, applicantID string) ([]*model.Application, error)
	MarkAccepted(ctx context.Context, applicationID, reviewedBy string) (*model.Application, error)
	MarkRejected(ctx context.Context, applicationID, reviewedBy, reason string) (*model.Application, error)
}

// ApplicationJobAccess defines the job lookups the application flow needs
type ApplicationJobAccess interface {
	FindByID(ctx context.Context, id string) (*model.Job, error)
	IncrementApplicationCount(ctx context.Context, jobID string) (*model.Job, error)
	IncrementHiredCount(ctx context.Context, jobID string) (*model.Job, error)
}

// ApplicationStaffReader checks whether an applicant already works here
type ApplicationStaffReader interface {
	FindActiveByUser(ctx context.Context, guildID, userID string) (*model.Staff, error)
}

// StaffHirer runs the hire pipeline when an application is accepted
type StaffHirer interface {
	Hire(ctx context.Context, pctx *model.PermissionContext, params HireParams) (*model.Staff, error)
}

// ApplicationService manages job applications from submission through
// review. Accepting an application runs the same hire pipeline as a direct
// hire, so role limits and uniqueness rules hold either way.
type ApplicationService struct {
	applications ApplicationRepository
	jobs         ApplicationJobAccess
	staff        ApplicationStaffReader
	hirer        StaffHirer
	audit        AuditRecorder
}

// NewApplicationService creates a new application service
func NewApplicationService(applications ApplicationRepository, jobs ApplicationJobAccess, staff ApplicationStaffReader, hirer StaffHirer, audit AuditRecorder) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		jobs:         jobs,
		staff:        staff,
		hirer:        hirer,
		audit:        audit,
	}
}

// SubmitParams carries the inputs for submitting an application
type SubmitParams struct {
	JobID          string
	RobloxUsername string
	Answers        []model.ApplicationAnswer
}

// Submit files an application against an open job
func (s *ApplicationService) Submit(ctx context.Context, pctx *model.PermissionContext, params SubmitParams) (*model.Application, error) {
	job, err := s.jobs.FindByID(ctx, params.JobID)
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if !job.IsOpen {
		return nil, ErrJobClosed
	}

	employed, err := s.staff.FindActiveByUser(ctx, pctx.GuildID, pctx.UserID)
	if err != nil {
		return nil, fmt.Errorf("check staff status: %w", err)
	}
	if employed != nil {
		return nil, ErrAlreadyStaff
	}

	duplicate, err := s.applications.FindPendingByApplicant(ctx, pctx.GuildID, params.JobID, pctx.UserID)
	if err != nil {
		return nil, fmt.Errorf("check pending application: %w", err)
	}
	if duplicate != nil {
		return nil, ErrDuplicateApplication
	}

	if err := checkRequiredAnswers(job.Questions, params.Answers); err != nil {
		return nil, err
	}

	app := &model.Application{
		GuildID:        pctx.GuildID,
		JobID:          params.JobID,
		ApplicantID:    pctx.UserID,
		RobloxUsername: strings.TrimSpace(params.RobloxUsername),
		Answers:        params.Answers,
		Status:         model.ApplicationStatusPending,
	}
	if err := s.applications.Add(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	if _, err := s.jobs.IncrementApplicationCount(ctx, params.JobID); err != nil {
		// Counter drift only; the application itself is stored.
		return app, nil
	}
	return app, nil
}

// Accept approves a pending application and hires the applicant at the
// job's staff role
func (s *ApplicationService) Accept(ctx context.Context, pctx *model.PermissionContext, applicationID string) (*model.Staff, error) {
	app, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	if app == nil {
		return nil, ErrApplicationNotFound
	}
	if app.Status != model.ApplicationStatusPending {
		return nil, ErrApplicationNotPending
	}

	job, err := s.jobs.FindByID(ctx, app.JobID)
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	staff, err := s.hirer.Hire(ctx, pctx, HireParams{
		UserID:         app.ApplicantID,
		RobloxUsername: app.RobloxUsername,
		Role:           job.StaffRole,
		Reason:         fmt.Sprintf("Accepted application for %s", job.Title),
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.applications.MarkAccepted(ctx, applicationID, pctx.UserID); err != nil {
		return nil, fmt.Errorf("mark accepted: %w", err)
	}
	_, _ = s.jobs.IncrementHiredCount(ctx, app.JobID)

	s.record(ctx, pctx, model.AuditApplicationAccepted, app.ApplicantID, map[string]string{
		"job":  job.Title,
		"role": string(job.StaffRole),
	})
	return staff, nil
}

// Reject declines a pending application with a reason
func (s *ApplicationService) Reject(ctx context.Context, pctx *model.PermissionContext, applicationID, reason string) (*model.Application, error) {
	app, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	if app == nil {
		return nil, ErrApplicationNotFound
	}
	if app.Status != model.ApplicationStatusPending {
		return nil, ErrApplicationNotPending
	}

	rejected, err := s.applications.MarkRejected(ctx, applicationID, pctx.UserID, reason)
	if err != nil {
		return nil, fmt.Errorf("mark rejected: %w", err)
	}
	if rejected == nil {
		return nil, ErrApplicationNotFound
	}

	s.record(ctx, pctx, model.AuditApplicationRejected, app.ApplicantID, map[string]string{
		"reason": reason,
	})
	return rejected, nil
}

// ListByJob returns all applications against a job
func (s *ApplicationService) ListByJob(ctx context.Context, guildID, jobID string) ([]*model.Application, error) {
	return s.applications.FindByJob(ctx, guildID, jobID)
}

// ListByApplicant returns a user's applications in the guild
func (s *ApplicationService) ListByApplicant(ctx context.Context, guildID, applicantID string) ([]*model.Application, error) {
	return s.applications.FindByApplicant(ctx, guildID, applicantID)
}

// Info returns one application, or ErrApplicationNotFound
func (s *ApplicationService) Info(ctx context.Context, applicationID string) (*model.Application, error) {
	app, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	if app == nil {
		return nil, ErrApplicationNotFound
	}
	return app, nil
}

func checkRequiredAnswers(questions []model.JobQuestion, answers []model.ApplicationAnswer) error {
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		if strings.TrimSpace(a.Answer) != "" {
			answered[a.QuestionID] = true
		}
	}
	for _, q := range questions {
		if q.Required && !answered[q.ID] {
			return ErrAnswerRequired
		}
	}
	return nil
}

func (s *ApplicationService) record(ctx context.Context, pctx *model.PermissionContext, action model.AuditAction, targetID string, details map[string]string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, model.AuditLog{
		GuildID:  pctx.GuildID,
		Action:   action,
		ActorID:  pctx.UserID,
		TargetID: targetID,
		Details:  details,
	})
}
