package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/model"
)

// JobRepository defines the interface for job storage
type JobRepository interface {
	Add(ctx context.Context, job *model.Job) error
	FindByID(ctx context.Context, id string) (*model.Job, error)
	FindOpenByStaffRole(ctx context.Context, guildID string, role model.StaffRole) (*model.Job, error)
	FindOpen(ctx context.Context, guildID string) ([]*model.Job, error)
	FindAll(ctx context.Context, guildID string) ([]*model.Job, error)
	Update(ctx context.Context, id string, partial bson.M) (*model.Job, error)
	Close(ctx context.Context, jobID, closedBy string) (*model.Job, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// JobService manages job postings. At most one open posting exists per
// (guild, staff role) at any time.
type JobService struct {
	jobs  JobRepository
	audit AuditRecorder
}

// NewJobService creates a new job service
func NewJobService(jobs JobRepository, audit AuditRecorder) *JobService {
	return &JobService{jobs: jobs, audit: audit}
}

// JobParams carries the inputs for creating or updating a posting
type JobParams struct {
	Title       string
	Description string
	StaffRole   model.StaffRole
	RoleID      string // Discord role granted on acceptance
	Questions   []model.JobQuestion
}

func (p *JobParams) validate() error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return ErrJobTitleRequired
	}
	if len(p.Title) > model.MaxJobTitleLength {
		return ErrJobTitleTooLong
	}
	if len(p.Description) > model.MaxJobDescriptionLength {
		return ErrJobDescTooLong
	}
	if len(p.Questions) > model.MaxCustomJobQuestions {
		return ErrTooManyQuestions
	}
	return nil
}

// Create posts a new open job for a staff role
func (s *JobService) Create(ctx context.Context, pctx *model.PermissionContext, params JobParams) (*model.Job, error) {
	if !params.StaffRole.IsValid() {
		return nil, ErrInvalidStaffRole
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	open, err := s.jobs.FindOpenByStaffRole(ctx, pctx.GuildID, params.StaffRole)
	if err != nil {
		return nil, fmt.Errorf("check open job: %w", err)
	}
	if open != nil {
		return nil, ErrJobAlreadyOpen
	}

	job := &model.Job{
		GuildID:     pctx.GuildID,
		Title:       params.Title,
		Description: params.Description,
		StaffRole:   params.StaffRole,
		RoleID:      params.RoleID,
		IsOpen:      true,
		Questions:   append(model.DefaultJobQuestions(), params.Questions...),
		PostedBy:    pctx.UserID,
	}
	if err := s.jobs.Add(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.record(ctx, pctx, model.AuditJobCreated, job.EntityID(), map[string]string{
		"title": job.Title,
		"role":  string(job.StaffRole),
	})
	return job, nil
}

// Update edits an open posting's title, description, or questions
func (s *JobService) Update(ctx context.Context, pctx *model.PermissionContext, jobID string, params JobParams) (*model.Job, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if !job.IsOpen {
		return nil, ErrJobClosed
	}

	partial := bson.M{
		"title":       params.Title,
		"description": params.Description,
	}
	if len(params.Questions) > 0 {
		partial["questions"] = append(model.DefaultJobQuestions(), params.Questions...)
	}
	updated, err := s.jobs.Update(ctx, jobID, partial)
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	if updated == nil {
		return nil, ErrJobNotFound
	}

	s.record(ctx, pctx, model.AuditJobUpdated, jobID, map[string]string{"title": params.Title})
	return updated, nil
}

// Close marks a posting closed, leaving its applications intact
func (s *JobService) Close(ctx context.Context, pctx *model.PermissionContext, jobID string) (*model.Job, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if !job.IsOpen {
		return nil, ErrJobClosed
	}

	closed, err := s.jobs.Close(ctx, jobID, pctx.UserID)
	if err != nil {
		return nil, fmt.Errorf("close job: %w", err)
	}
	if closed == nil {
		return nil, ErrJobNotFound
	}

	s.record(ctx, pctx, model.AuditJobClosed, jobID, map[string]string{"title": job.Title})
	return closed, nil
}

// Remove deletes a posting entirely. Pending applications against it are
// surfaced by cross-entity validation before this is called.
func (s *JobService) Remove(ctx context.Context, pctx *model.PermissionContext, jobID string) error {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("find job: %w", err)
	}
	if job == nil {
		return ErrJobNotFound
	}

	removed, err := s.jobs.Delete(ctx, jobID)
	if err != nil {
		return fmt.Errorf("remove job: %w", err)
	}
	if !removed {
		return ErrJobNotFound
	}

	s.record(ctx, pctx, model.AuditJobRemoved, jobID, map[string]string{"title": job.Title})
	return nil
}

// List returns the guild's postings, open only or all
func (s *JobService) List(ctx context.Context, guildID string, openOnly bool) ([]*model.Job, error) {
	if openOnly {
		return s.jobs.FindOpen(ctx, guildID)
	}
	return s.jobs.FindAll(ctx, guildID)
}

// Info returns one posting by ID, or ErrJobNotFound
func (s *JobService) Info(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

func (s *JobService) record(ctx context.Context, pctx *model.PermissionContext, action model.AuditAction, targetID string, details map[string]string) {
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
