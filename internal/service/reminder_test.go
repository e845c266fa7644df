package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/model"
)

type mockReminderRepo struct {
	addFunc               func(ctx context.Context, reminder *model.Reminder) error
	findByIDFunc          func(ctx context.Context, id string) (*model.Reminder, error)
	findPendingByUserFunc func(ctx context.Context, guildID, userID string) ([]*model.Reminder, error)
	deleteFunc            func(ctx context.Context, id string) (bool, error)
}

func (m *mockReminderRepo) Add(ctx context.Context, reminder *model.Reminder) error {
	if m.addFunc != nil {
		return m.addFunc(ctx, reminder)
	}
	reminder.StampCreate(bson.NewObjectID(), time.Now().UTC())
	return nil
}

func (m *mockReminderRepo) FindByID(ctx context.Context, id string) (*model.Reminder, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockReminderRepo) FindPendingByUser(ctx context.Context, guildID, userID string) ([]*model.Reminder, error) {
	if m.findPendingByUserFunc != nil {
		return m.findPendingByUserFunc(ctx, guildID, userID)
	}
	return nil, nil
}

func (m *mockReminderRepo) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return true, nil
}

func TestScheduleReminder(t *testing.T) {
	t.Parallel()

	svc := NewReminderService(&mockReminderRepo{})
	at := time.Now().Add(2 * time.Hour)

	reminder, err := svc.Schedule(context.Background(), actorContext("u1"), "channel-1", "file the brief", at, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reminder.Delivered {
		t.Error("new reminder must be undelivered")
	}
	if !reminder.ScheduledFor.Equal(at.UTC()) {
		t.Errorf("expected UTC schedule time, got %v", reminder.ScheduledFor)
	}
}

func TestScheduleReminder_Validation(t *testing.T) {
	t.Parallel()

	svc := NewReminderService(&mockReminderRepo{})
	pctx := actorContext("u1")
	future := time.Now().Add(time.Hour)

	if _, err := svc.Schedule(context.Background(), pctx, "c1", "  ", future, ""); !errors.Is(err, ErrReminderTextEmpty) {
		t.Errorf("expected ErrReminderTextEmpty, got %v", err)
	}
	long := strings.Repeat("x", model.MaxReminderTextLength+1)
	if _, err := svc.Schedule(context.Background(), pctx, "c1", long, future, ""); !errors.Is(err, ErrReminderTooLong) {
		t.Errorf("expected ErrReminderTooLong, got %v", err)
	}
	if _, err := svc.Schedule(context.Background(), pctx, "c1", "late", time.Now().Add(-time.Minute), ""); !errors.Is(err, ErrReminderInPast) {
		t.Errorf("expected ErrReminderInPast, got %v", err)
	}
	tooFar := time.Now().Add(model.MaxReminderHorizon + time.Hour)
	if _, err := svc.Schedule(context.Background(), pctx, "c1", "far", tooFar, ""); !errors.Is(err, ErrReminderTooFar) {
		t.Errorf("expected ErrReminderTooFar, got %v", err)
	}
}

func TestCancelReminder_OwnerOnly(t *testing.T) {
	t.Parallel()

	other := &model.Reminder{
		Meta:   model.Meta{ID: bson.NewObjectID()},
		UserID: "someone-else",
	}
	repo := &mockReminderRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reminder, error) {
			return other, nil
		},
	}
	svc := NewReminderService(repo)

	err := svc.Cancel(context.Background(), actorContext("u1"), other.EntityID())
	if !errors.Is(err, ErrNotReminderOwner) {
		t.Errorf("expected ErrNotReminderOwner, got %v", err)
	}
}
