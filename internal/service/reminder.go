package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anarchy/associates/internal/model"
)

// ReminderRepository defines the interface for reminder storage
type ReminderRepository interface {
	Add(ctx context.Context, reminder *model.Reminder) error
	FindByID(ctx context.Context, id string) (*model.Reminder, error)
	FindPendingByUser(ctx context.Context, guildID, userID string) ([]*model.Reminder, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ReminderService schedules reminders for later dispatch by the background
// processor
type ReminderService struct {
	reminders ReminderRepository
}

// NewReminderService creates a new reminder service
func NewReminderService(reminders ReminderRepository) *ReminderService {
	return &ReminderService{reminders: reminders}
}

// Schedule creates a reminder for the acting user, delivered to the
// channel it was created in. An optional caseID ties it to a case channel.
func (s *ReminderService) Schedule(ctx context.Context, pctx *model.PermissionContext, channelID, text string, at time.Time, caseID string) (*model.Reminder, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrReminderTextEmpty
	}
	if len(text) > model.MaxReminderTextLength {
		return nil, ErrReminderTooLong
	}

	now := time.Now().UTC()
	if !at.After(now) {
		return nil, ErrReminderInPast
	}
	if at.Sub(now) > model.MaxReminderHorizon {
		return nil, ErrReminderTooFar
	}

	reminder := &model.Reminder{
		GuildID:      pctx.GuildID,
		UserID:       pctx.UserID,
		ChannelID:    channelID,
		Text:         text,
		ScheduledFor: at.UTC(),
		CaseID:       caseID,
	}
	if err := s.reminders.Add(ctx, reminder); err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}
	return reminder, nil
}

// ListPending returns the acting user's undelivered reminders
func (s *ReminderService) ListPending(ctx context.Context, pctx *model.PermissionContext) ([]*model.Reminder, error) {
	return s.reminders.FindPendingByUser(ctx, pctx.GuildID, pctx.UserID)
}

// Cancel deletes one of the acting user's reminders
func (s *ReminderService) Cancel(ctx context.Context, pctx *model.PermissionContext, reminderID string) error {
	reminder, err := s.reminders.FindByID(ctx, reminderID)
	if err != nil {
		return fmt.Errorf("find reminder: %w", err)
	}
	if reminder == nil {
		return ErrReminderNotFound
	}
	if reminder.UserID != pctx.UserID {
		return ErrNotReminderOwner
	}

	removed, err := s.reminders.Delete(ctx, reminderID)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if !removed {
		return ErrReminderNotFound
	}
	return nil
}
