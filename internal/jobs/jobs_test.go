package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/model"
)

// ============================================================================
// Mocks
// ============================================================================

type mockReminderStore struct {
	findDueFunc       func(ctx context.Context, now time.Time) ([]*model.Reminder, error)
	markDeliveredFunc func(ctx context.Context, reminderID string, at time.Time) (*model.Reminder, error)
	delivered         []string
}

func (m *mockReminderStore) FindDue(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
	return m.findDueFunc(ctx, now)
}

func (m *mockReminderStore) MarkDelivered(ctx context.Context, reminderID string, at time.Time) (*model.Reminder, error) {
	m.delivered = append(m.delivered, reminderID)
	if m.markDeliveredFunc != nil {
		return m.markDeliveredFunc(ctx, reminderID, at)
	}
	return &model.Reminder{}, nil
}

type mockNotifier struct {
	sendFunc func(ctx context.Context, channelID, content string) error
	sent     []string
}

func (m *mockNotifier) SendChannelMessage(ctx context.Context, channelID, content string) error {
	if m.sendFunc != nil {
		if err := m.sendFunc(ctx, channelID, content); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, channelID)
	return nil
}

type mockPostingStore struct {
	findFunc  func(ctx context.Context, cutoff time.Time) ([]*model.Job, error)
	closeFunc func(ctx context.Context, jobID, closedBy string) (*model.Job, error)
	closed    []string
}

func (m *mockPostingStore) FindOpenOlderThan(ctx context.Context, cutoff time.Time) ([]*model.Job, error) {
	return m.findFunc(ctx, cutoff)
}

func (m *mockPostingStore) Close(ctx context.Context, jobID, closedBy string) (*model.Job, error) {
	m.closed = append(m.closed, jobID)
	if m.closeFunc != nil {
		return m.closeFunc(ctx, jobID, closedBy)
	}
	return &model.Job{}, nil
}

type mockRoleChecker struct {
	missing map[string]bool
}

func (m *mockRoleChecker) RoleExists(guildID, roleID string) bool {
	return !m.missing[roleID]
}

func dueReminder(id bson.ObjectID, channelID string) *model.Reminder {
	return &model.Reminder{
		Meta:         model.Meta{ID: id, CreatedAt: time.Now().UTC()},
		GuildID:      "guild-1",
		UserID:       "user-1",
		ChannelID:    channelID,
		Text:         "court at noon",
		ScheduledFor: time.Now().UTC().Add(-time.Minute),
	}
}

func openPosting(id bson.ObjectID, roleID string, age time.Duration) *model.Job {
	return &model.Job{
		Meta:      model.Meta{ID: id, CreatedAt: time.Now().UTC().Add(-age)},
		GuildID:   "guild-1",
		Title:     "Hiring",
		StaffRole: model.RoleParalegal,
		RoleID:    roleID,
		IsOpen:    true,
	}
}

// ============================================================================
// ReminderDispatcher
// ============================================================================

func TestReminderDispatcher_DeliversAndMarks(t *testing.T) {
	t.Parallel()

	id := bson.NewObjectID()
	store := &mockReminderStore{
		findDueFunc: func(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
			return []*model.Reminder{dueReminder(id, "channel-1")}, nil
		},
	}
	notifier := &mockNotifier{}
	d := NewReminderDispatcher(store, notifier, time.Minute)

	if err := d.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != "channel-1" {
		t.Errorf("sent channels = %v, want [channel-1]", notifier.sent)
	}
	if len(store.delivered) != 1 || store.delivered[0] != id.Hex() {
		t.Errorf("delivered = %v, want [%s]", store.delivered, id.Hex())
	}
}

func TestReminderDispatcher_FailedSendLeavesReminderPending(t *testing.T) {
	t.Parallel()

	store := &mockReminderStore{
		findDueFunc: func(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
			return []*model.Reminder{
				dueReminder(bson.NewObjectID(), "gone-channel"),
				dueReminder(bson.NewObjectID(), "good-channel"),
			}, nil
		},
	}
	notifier := &mockNotifier{
		sendFunc: func(ctx context.Context, channelID, content string) error {
			if channelID == "gone-channel" {
				return errors.New("unknown channel")
			}
			return nil
		},
	}
	d := NewReminderDispatcher(store, notifier, time.Minute)

	if err := d.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if len(store.delivered) != 1 {
		t.Errorf("delivered count = %d, want 1 (failed send must stay pending)", len(store.delivered))
	}
}

func TestReminderDispatcher_FindErrorPropagates(t *testing.T) {
	t.Parallel()

	store := &mockReminderStore{
		findDueFunc: func(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
			return nil, errors.New("connection reset")
		},
	}
	d := NewReminderDispatcher(store, &mockNotifier{}, time.Minute)

	if err := d.RunOnce(context.Background()); err == nil {
		t.Fatal("RunOnce() error = nil, want lookup error")
	}
}

func TestReminderDispatcher_StartStop(t *testing.T) {
	t.Parallel()

	store := &mockReminderStore{
		findDueFunc: func(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
			return nil, nil
		},
	}
	d := NewReminderDispatcher(store, &mockNotifier{}, time.Hour)

	d.Start()
	d.Start() // second start is a no-op
	if !d.IsRunning() {
		t.Fatal("IsRunning() = false after Start")
	}
	d.Stop()
	d.Stop()
	if d.IsRunning() {
		t.Fatal("IsRunning() = true after Stop")
	}
}

// ============================================================================
// JobCleanup
// ============================================================================

func TestJobCleanup_ClosesOrphanedAndExpiredPostings(t *testing.T) {
	t.Parallel()

	orphanID := bson.NewObjectID()
	expiredID := bson.NewObjectID()
	healthyID := bson.NewObjectID()

	store := &mockPostingStore{
		findFunc: func(ctx context.Context, cutoff time.Time) ([]*model.Job, error) {
			return []*model.Job{
				openPosting(orphanID, "deleted-role", time.Hour),
				openPosting(expiredID, "live-role", 120*24*time.Hour),
				openPosting(healthyID, "live-role", time.Hour),
			}, nil
		},
	}
	roles := &mockRoleChecker{missing: map[string]bool{"deleted-role": true}}
	c := NewJobCleanup(store, roles, 90*24*time.Hour, time.Hour)

	closed, err := c.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if closed != 2 {
		t.Errorf("closed = %d, want 2", closed)
	}
	want := map[string]bool{orphanID.Hex(): true, expiredID.Hex(): true}
	for _, id := range store.closed {
		if !want[id] {
			t.Errorf("closed unexpected posting %s", id)
		}
	}
	for _, id := range store.closed {
		if id == healthyID.Hex() {
			t.Error("healthy posting was closed")
		}
	}
}

func TestJobCleanup_CloseFailureDoesNotAbortSweep(t *testing.T) {
	t.Parallel()

	first := bson.NewObjectID()
	second := bson.NewObjectID()
	store := &mockPostingStore{
		findFunc: func(ctx context.Context, cutoff time.Time) ([]*model.Job, error) {
			return []*model.Job{
				openPosting(first, "deleted-role", time.Hour),
				openPosting(second, "deleted-role", time.Hour),
			}, nil
		},
	}
	store.closeFunc = func(ctx context.Context, jobID, closedBy string) (*model.Job, error) {
		if jobID == first.Hex() {
			return nil, errors.New("write conflict")
		}
		return &model.Job{}, nil
	}
	roles := &mockRoleChecker{missing: map[string]bool{"deleted-role": true}}
	c := NewJobCleanup(store, roles, 90*24*time.Hour, time.Hour)

	closed, err := c.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if closed != 1 {
		t.Errorf("closed = %d, want 1", closed)
	}
}
