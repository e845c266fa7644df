package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/model"
)

// CaseRepository defines the interface for case storage
type CaseRepository interface {
	Add(ctx context.Context, c *model.Case) error
	FindByID(ctx context.Context, id string) (*model.Case, error)
	FindByCaseNumber(ctx context.Context, guildID, caseNumber string) (*model.Case, error)
	CountActiveByClient(ctx context.Context, guildID, clientID string) (int64, error)
	FindActiveByClient(ctx context.Context, guildID, clientID string) ([]*model.Case, error)
	FindByStatus(ctx context.Context, guildID string, status model.CaseStatus) ([]*model.Case, error)
	Update(ctx context.Context, id string, partial bson.M) (*model.Case, error)
	Apply(ctx context.Context, id string, update bson.M) (*model.Case, error)
	NextCaseSequence(ctx context.Context, guildID string, year int) (int, error)
}

// CaseStaffReader resolves attorney eligibility for assignment
type CaseStaffReader interface {
	FindActiveByUser(ctx context.Context, guildID, userID string) (*model.Staff, error)
}

// CaseService manages the legal case lifecycle: a client opens a case
// (pending), a lawyer accepts it (open) or declines it (closed), and an
// assigned lawyer eventually closes it with a result.
type CaseService struct {
	cases CaseRepository
	staff CaseStaffReader
	audit AuditRecorder
}

// NewCaseService creates a new case service
func NewCaseService(cases CaseRepository, staff CaseStaffReader, audit AuditRecorder) *CaseService {
	return &CaseService{cases: cases, staff: staff, audit: audit}
}

// OpenParams carries the inputs for opening a case
type OpenParams struct {
	ClientID       string
	ClientUsername string
	Title          string
	Description    string
	Priority       model.CasePriority
}

// Open files a new case for a client in pending state, assigning the next
// sequential case number for the guild and year
func (s *CaseService) Open(ctx context.Context, pctx *model.PermissionContext, params OpenParams) (*model.Case, error) {
	params.Title = strings.TrimSpace(params.Title)
	if params.Title == "" {
		return nil, ErrCaseTitleRequired
	}
	if len(params.Title) > model.MaxCaseTitleLength {
		return nil, ErrCaseTitleTooLong
	}
	if !params.Priority.IsValid() {
		params.Priority = model.CasePriorityMedium
	}

	count, err := s.cases.CountActiveByClient(ctx, pctx.GuildID, params.ClientID)
	if err != nil {
		return nil, fmt.Errorf("count client cases: %w", err)
	}
	if int(count) >= model.MaxActiveCasesPerClient {
		return nil, ErrClientCaseLimit
	}

	year := time.Now().UTC().Year()
	seq, err := s.cases.NextCaseSequence(ctx, pctx.GuildID, year)
	if err != nil {
		return nil, fmt.Errorf("next case sequence: %w", err)
	}

	c := &model.Case{
		GuildID:           pctx.GuildID,
		CaseNumber:        model.FormatCaseNumber(year, seq, params.ClientUsername),
		ClientID:          params.ClientID,
		ClientUsername:    params.ClientUsername,
		Title:             params.Title,
		Description:       params.Description,
		Status:            model.CaseStatusPending,
		Priority:          params.Priority,
		AssignedAttorneys: []string{},
		Documents:         []model.CaseDocument{},
		Notes:             []model.CaseNote{},
	}
	if err := s.cases.Add(ctx, c); err != nil {
		return nil, fmt.Errorf("create case: %w", err)
	}

	s.record(ctx, pctx, model.AuditCaseOpened, c.EntityID(), map[string]string{
		"caseNumber": c.CaseNumber,
		"client":     params.ClientID,
	})
	return c, nil
}

// Accept moves a pending case to open with the accepting lawyer as lead
// attorney
func (s *CaseService) Accept(ctx context.Context, pctx *model.PermissionContext, caseID string) (*model.Case, error) {
	c, err := s.mustFind(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.Status != model.CaseStatusPending {
		return nil, ErrCaseNotPending
	}

	updated, err := s.cases.Apply(ctx, caseID, bson.M{
		"$set":      bson.M{"status": model.CaseStatusOpen, "leadAttorneyId": pctx.UserID},
		"$addToSet": bson.M{"assignedAttorneys": pctx.UserID},
	})
	if err != nil {
		return nil, fmt.Errorf("accept case: %w", err)
	}
	if updated == nil {
		return nil, ErrCaseNotFound
	}

	s.record(ctx, pctx, model.AuditCaseAssigned, caseID, map[string]string{
		"caseNumber": c.CaseNumber,
		"lead":       pctx.UserID,
	})
	return updated, nil
}

// Decline closes a pending case without taking it on
func (s *CaseService) Decline(ctx context.Context, pctx *model.PermissionContext, caseID, reason string) (*model.Case, error) {
	c, err := s.mustFind(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.Status != model.CaseStatusPending {
		return nil, ErrCaseNotPending
	}

	updated, err := s.cases.Update(ctx, caseID, bson.M{
		"status":      model.CaseStatusClosed,
		"result":      model.CaseResultDismissed,
		"resultNotes": reason,
		"closedAt":    time.Now().UTC(),
		"closedBy":    pctx.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("decline case: %w", err)
	}
	if updated == nil {
		return nil, ErrCaseNotFound
	}

	s.record(ctx, pctx, model.AuditCaseDeclined, caseID, map[string]string{
		"caseNumber": c.CaseNumber,
		"reason":     reason,
	})
	return updated, nil
}

// AssignLead sets the lead attorney on an open case. The lead must be an
// active staff member.
func (s *CaseService) AssignLead(ctx context.Context, pctx *model.PermissionContext, caseID, leadID string) (*model.Case, error) {
	c, err := s.mustFind(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.Status != model.CaseStatusOpen {
		return nil, ErrCaseNotOpen
	}

	staff, err := s.staff.FindActiveByUser(ctx, pctx.GuildID, leadID)
	if err != nil {
		return nil, fmt.Errorf("check lead attorney: %w", err)
	}
	if staff == nil {
		return nil, ErrLeadNotStaff
	}

	updated, err := s.cases.Apply(ctx, caseID, bson.M{
		"$set":      bson.M{"leadAttorneyId": leadID},
		"$addToSet": bson.M{"assignedAttorneys": leadID},
	})
	if err != nil {
		return nil, fmt.Errorf("assign lead: %w", err)
	}
	if updated == nil {
		return nil, ErrCaseNotFound
	}

	s.record(ctx, pctx, model.AuditCaseAssigned, caseID, map[string]string{
		"caseNumber": c.CaseNumber,
		"lead":       leadID,
	})
	return updated, nil
}

// AssignAttorney adds an attorney to an open case's assigned list
func (s *CaseService) AssignAttorney(ctx context.Context, pctx *model.PermissionContext, caseID, attorneyID string) (*model.Case, error) {
	c, err := s.mustFind(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.Status != model.CaseStatusOpen {
		return nil, ErrCaseNotOpen
	}

	staff, err := s.staff.FindActiveByUser(ctx, pctx.GuildID, attorneyID)
	if err != nil {
		return nil, fmt.Errorf("check attorney: %w", err)
	}
	if staff == nil {
		return nil, ErrLeadNotStaff
	}

	updated, err := s.cases.Apply(ctx, caseID, bson.M{
		"$addToSet": bson.M{"assignedAttorneys": attorneyID},
	})
	if err != nil {
		return nil, fmt.Errorf("assign attorney: %w", err)
	}
	if updated == nil {
		return nil, ErrCaseNotFound
	}
	return updated, nil
}

// Close finishes an open case with a result. Only an assigned attorney may
// close it.
func (s *CaseService) Close(ctx context.Context, pctx *model.PermissionContext, caseID string, result model.CaseResult, notes string) (*model.Case, error) {
	c, err := s.mustFind(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.Status != model.CaseStatusOpen {
		return nil, ErrCaseNotOpen
	}
	if !c.IsAssigned(pctx.UserID) && !pctx.IsGuildOwner {
		return nil, ErrNotCaseAssignee
	}

	updated, err := s.cases.Update(ctx, caseID, bson.M{
		"status":      model.CaseStatusClosed,
		"result":      result,
		"resultNotes": notes,
		"closedAt":    time.Now().UTC(),
		"closedBy":    pctx.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("close case: %w", err)
	}
	if updated == nil {
		return nil, ErrCaseNotFound
	}

	s.record(ctx, pctx, model.AuditCaseClosed, caseID, map[string]string{
		"caseNumber": c.CaseNumber,
		"result":     string(result),
	})
	return updated, nil
}

// AddDocument attaches a document to a case
func (s *CaseService) AddDocument(ctx context.Context, pctx *model.PermissionContext, caseID, title, content string) (*model.Case, error) {
	if _, err := s.mustFind(ctx, caseID); err != nil {
		return nil, err
	}

	doc := model.CaseDocument{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedBy: pctx.UserID,
		CreatedAt: time.Now().UTC(),
	}
	updated, err := s.cases.Apply(ctx, caseID, bson.M{"$push": bson.M{"documents": doc}})
	if err != nil {
		return nil, fmt.Errorf("add document: %w", err)
	}
	if updated == nil {
		return nil, ErrCaseNotFound
	}
	return updated, nil
}

// AddNote appends a note to a case, optionally internal-only
func (s *CaseService) AddNote(ctx context.Context, pctx *model.PermissionContext, caseID, content string, internal bool) (*model.Case, error) {
	if _, err := s.mustFind(ctx, caseID); err != nil {
		return nil, err
	}

	note := model.CaseNote{
		ID:        uuid.NewString(),
		Content:   content,
		CreatedBy: pctx.UserID,
		CreatedAt: time.Now().UTC(),
		Internal:  internal,
	}
	updated, err := s.cases.Apply(ctx, caseID, bson.M{"$push": bson.M{"notes": note}})
	if err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	if updated == nil {
		return nil, ErrCaseNotFound
	}
	return updated, nil
}

// InfoByNumber returns one case by its case number, or ErrCaseNotFound
func (s *CaseService) InfoByNumber(ctx context.Context, guildID, caseNumber string) (*model.Case, error) {
	c, err := s.cases.FindByCaseNumber(ctx, guildID, caseNumber)
	if err != nil {
		return nil, fmt.Errorf("find case: %w", err)
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}
	return c, nil
}

// ListForClient returns a client's active cases
func (s *CaseService) ListForClient(ctx context.Context, guildID, clientID string) ([]*model.Case, error) {
	return s.cases.FindActiveByClient(ctx, guildID, clientID)
}

// ListByStatus returns the guild's cases in the given state
func (s *CaseService) ListByStatus(ctx context.Context, guildID string, status model.CaseStatus) ([]*model.Case, error) {
	return s.cases.FindByStatus(ctx, guildID, status)
}

func (s *CaseService) mustFind(ctx context.Context, caseID string) (*model.Case, error) {
	c, err := s.cases.FindByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("find case: %w", err)
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}
	return c, nil
}

func (s *CaseService) record(ctx context.Context, pctx *model.PermissionContext, action model.AuditAction, targetID string, details map[string]string) {
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
