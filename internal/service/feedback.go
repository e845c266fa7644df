package service

import (
	"context"
	"fmt"

	"github.com/anarchy/associates/internal/model"
)

// FeedbackRepository defines the interface for feedback storage
type FeedbackRepository interface {
	Add(ctx context.Context, feedback *model.Feedback) error
	FindByTargetStaff(ctx context.Context, guildID, staffID string) ([]*model.Feedback, error)
	FindBySubmitter(ctx context.Context, guildID, submitterID string) ([]*model.Feedback, error)
	StatsForStaff(ctx context.Context, guildID, staffID string) (*model.FeedbackStats, error)
}

// FeedbackStaffReader checks rating targets against the staff roster
type FeedbackStaffReader interface {
	FindActiveByUser(ctx context.Context, guildID, userID string) (*model.Staff, error)
}

// FeedbackService records client ratings of staff members or the firm as
// a whole
type FeedbackService struct {
	feedback FeedbackRepository
	staff    FeedbackStaffReader
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(feedback FeedbackRepository, staff FeedbackStaffReader) *FeedbackService {
	return &FeedbackService{feedback: feedback, staff: staff}
}

// Submit records a rating. An empty targetStaffID rates the firm as a
// whole; otherwise the target must be an active staff member.
func (s *FeedbackService) Submit(ctx context.Context, pctx *model.PermissionContext, targetStaffID string, rating int, comment, submitterUsername string) (*model.Feedback, error) {
	if !model.IsValidRating(rating) {
		return nil, ErrInvalidRating
	}
	if targetStaffID == pctx.UserID {
		return nil, ErrFeedbackSelf
	}
	if targetStaffID != "" {
		target, err := s.staff.FindActiveByUser(ctx, pctx.GuildID, targetStaffID)
		if err != nil {
			return nil, fmt.Errorf("check feedback target: %w", err)
		}
		if target == nil {
			return nil, ErrFeedbackTarget
		}
	}

	feedback := &model.Feedback{
		GuildID:           pctx.GuildID,
		SubmitterID:       pctx.UserID,
		SubmitterUsername: submitterUsername,
		TargetStaffID:     targetStaffID,
		Rating:            rating,
		Comment:           comment,
	}
	if err := s.feedback.Add(ctx, feedback); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return feedback, nil
}

// StatsFor aggregates ratings for a staff member, or for the firm when
// staffID is empty
func (s *FeedbackService) StatsFor(ctx context.Context, guildID, staffID string) (*model.FeedbackStats, error) {
	return s.feedback.StatsForStaff(ctx, guildID, staffID)
}

// ListFor returns the individual ratings against a staff member
func (s *FeedbackService) ListFor(ctx context.Context, guildID, staffID string) ([]*model.Feedback, error) {
	return s.feedback.FindByTargetStaff(ctx, guildID, staffID)
}
