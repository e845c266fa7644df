package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/anarchy/associates/internal/model"
)

// StalePostingStore is the job-posting storage the cleanup pass reads
type StalePostingStore interface {
	FindOpenOlderThan(ctx context.Context, cutoff time.Time) ([]*model.Job, error)
	Close(ctx context.Context, jobID, closedBy string) (*model.Job, error)
}

// RoleChecker reports whether a Discord role still exists
type RoleChecker interface {
	RoleExists(guildID, roleID string) bool
}

// JobCleanup periodically closes open postings whose Discord role was
// deleted, and postings that have been open longer than the retention
// window.
type JobCleanup struct {
	postings  StalePostingStore
	roles     RoleChecker
	retention time.Duration
	interval  time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
}

// NewJobCleanup creates a new posting cleanup processor
func NewJobCleanup(postings StalePostingStore, roles RoleChecker, retention, interval time.Duration) *JobCleanup {
	if retention == 0 {
		retention = 90 * 24 * time.Hour
	}
	if interval == 0 {
		interval = time.Hour
	}
	return &JobCleanup{
		postings:  postings,
		roles:     roles,
		retention: retention,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the cleanup loop
func (c *JobCleanup) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run()
	slog.Info("job cleanup started",
		slog.Duration("interval", c.interval),
		slog.Duration("retention", c.retention),
	)
}

// Stop gracefully stops the cleanup loop
func (c *JobCleanup) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	close(c.stopCh)
	c.wg.Wait()
	slog.Info("job cleanup stopped")
}

func (c *JobCleanup) run() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopCh:
			return
		}
	}
}

func (c *JobCleanup) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := c.RunOnce(ctx); err != nil {
		slog.Error("job cleanup failed", slog.String("error", err.Error()))
	}
}

// RunOnce closes every stale or orphaned open posting and returns how many
// were closed. Postings inside the retention window with a live role are
// left alone.
func (c *JobCleanup) RunOnce(ctx context.Context) (int, error) {
	// Every open posting is a candidate; the far-future cutoff picks up
	// orphaned roles regardless of age.
	candidates, err := c.postings.FindOpenOlderThan(ctx, time.Now().UTC().Add(time.Hour))
	if err != nil {
		return 0, fmt.Errorf("find open postings: %w", err)
	}

	cutoff := time.Now().UTC().Add(-c.retention)
	closed := 0
	for _, job := range candidates {
		reason := ""
		switch {
		case job.RoleID != "" && !c.roles.RoleExists(job.GuildID, job.RoleID):
			reason = "discord role deleted"
		case job.CreatedAt.Before(cutoff):
			reason = "posting expired"
		default:
			continue
		}

		if _, err := c.postings.Close(ctx, job.EntityID(), "system"); err != nil {
			slog.Warn("stale posting close failed",
				slog.String("job_id", job.EntityID()),
				slog.String("error", err.Error()),
			)
			continue
		}
		closed++
		slog.Info("stale posting closed",
			slog.String("job_id", job.EntityID()),
			slog.String("guild_id", job.GuildID),
			slog.String("reason", reason),
		)
	}
	return closed, nil
}

// IsRunning returns whether the cleanup loop is running
func (c *JobCleanup) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
