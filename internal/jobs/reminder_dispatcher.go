package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/anarchy/associates/internal/model"
)

// DueReminderStore is the reminder storage the dispatcher polls
type DueReminderStore interface {
	FindDue(ctx context.Context, now time.Time) ([]*model.Reminder, error)
	MarkDelivered(ctx context.Context, reminderID string, at time.Time) (*model.Reminder, error)
}

// ChannelNotifier sends reminder messages to Discord channels
type ChannelNotifier interface {
	SendChannelMessage(ctx context.Context, channelID, content string) error
}

// ReminderDispatcher polls for due reminders and delivers them. A reminder
// is marked delivered only after the channel message succeeds, so a failed
// send is retried on the next tick.
type ReminderDispatcher struct {
	reminders DueReminderStore
	notifier  ChannelNotifier
	interval  time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
}

// NewReminderDispatcher creates a new reminder dispatcher
func NewReminderDispatcher(reminders DueReminderStore, notifier ChannelNotifier, interval time.Duration) *ReminderDispatcher {
	if interval == 0 {
		interval = 30 * time.Second
	}
	return &ReminderDispatcher{
		reminders: reminders,
		notifier:  notifier,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the dispatch loop
func (d *ReminderDispatcher) Start() {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	d.wg.Add(1)
	go d.run()
	slog.Info("reminder dispatcher started", slog.Duration("interval", d.interval))
}

// Stop gracefully stops the dispatch loop
func (d *ReminderDispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	close(d.stopCh)
	d.wg.Wait()
	slog.Info("reminder dispatcher stopped")
}

func (d *ReminderDispatcher) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.dispatch()
		case <-d.stopCh:
			return
		}
	}
}

func (d *ReminderDispatcher) dispatch() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := d.RunOnce(ctx); err != nil {
		slog.Error("reminder dispatch failed", slog.String("error", err.Error()))
	}
}

// RunOnce delivers every currently due reminder
func (d *ReminderDispatcher) RunOnce(ctx context.Context) error {
	now := time.Now().UTC()
	due, err := d.reminders.FindDue(ctx, now)
	if err != nil {
		return fmt.Errorf("find due reminders: %w", err)
	}

	for _, reminder := range due {
		content := fmt.Sprintf("⏰ <@%s> %s", reminder.UserID, reminder.Text)
		if err := d.notifier.SendChannelMessage(ctx, reminder.ChannelID, content); err != nil {
			slog.Warn("reminder delivery failed",
				slog.String("reminder_id", reminder.EntityID()),
				slog.String("channel_id", reminder.ChannelID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if _, err := d.reminders.MarkDelivered(ctx, reminder.EntityID(), now); err != nil {
			slog.Warn("reminder delivered but not marked",
				slog.String("reminder_id", reminder.EntityID()),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// IsRunning returns whether the dispatcher is running
func (d *ReminderDispatcher) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}
