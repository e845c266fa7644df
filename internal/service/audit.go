package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/anarchy/associates/internal/model"
)

// AuditRepository defines the interface for audit log storage
type AuditRepository interface {
	Add(ctx context.Context, log *model.AuditLog) error
	Query(ctx context.Context, q model.AuditQuery) ([]*model.AuditLog, error)
}

// AuditService appends and queries the append-only audit trail. Recording
// is best effort: a failed append is logged and never fails the operation
// that produced it.
type AuditService struct {
	repo AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(repo AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record appends one audit entry
func (s *AuditService) Record(ctx context.Context, entry model.AuditLog) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Severity == "" {
		entry.Severity = model.AuditSeverityInfo
	}
	if err := s.repo.Add(ctx, &entry); err != nil {
		slog.Warn("audit record failed",
			slog.String("guild_id", entry.GuildID),
			slog.String("action", string(entry.Action)),
			slog.String("error", err.Error()),
		)
	}
}

// Query returns audit entries matching the filter, newest first
func (s *AuditService) Query(ctx context.Context, q model.AuditQuery) ([]*model.AuditLog, error) {
	return s.repo.Query(ctx, q)
}
