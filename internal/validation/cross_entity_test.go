package validation

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/model"
)

// ============================================================================
// Mock accessors
// ============================================================================

type mockCrossCases struct {
	findOpenByLeadAttorneyFunc func(ctx context.Context, guildID, attorneyID string) ([]*model.Case, error)
	findAssignedToFunc         func(ctx context.Context, guildID, attorneyID string) ([]*model.Case, error)
	findByStatusFunc           func(ctx context.Context, guildID string, status model.CaseStatus) ([]*model.Case, error)
	clearLeadAttorneyFunc      func(ctx context.Context, caseID string) (*model.Case, error)
}

func (m *mockCrossCases) FindOpenByLeadAttorney(ctx context.Context, guildID, attorneyID string) ([]*model.Case, error) {
	if m.findOpenByLeadAttorneyFunc != nil {
		return m.findOpenByLeadAttorneyFunc(ctx, guildID, attorneyID)
	}
	return nil, nil
}

func (m *mockCrossCases) FindAssignedTo(ctx context.Context, guildID, attorneyID string) ([]*model.Case, error) {
	if m.findAssignedToFunc != nil {
		return m.findAssignedToFunc(ctx, guildID, attorneyID)
	}
	return nil, nil
}

func (m *mockCrossCases) FindByStatus(ctx context.Context, guildID string, status model.CaseStatus) ([]*model.Case, error) {
	if m.findByStatusFunc != nil {
		return m.findByStatusFunc(ctx, guildID, status)
	}
	return nil, nil
}

func (m *mockCrossCases) ClearLeadAttorney(ctx context.Context, caseID string) (*model.Case, error) {
	if m.clearLeadAttorneyFunc != nil {
		return m.clearLeadAttorneyFunc(ctx, caseID)
	}
	return nil, nil
}

type mockCrossJobs struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Job, error)
	findOpenFunc func(ctx context.Context, guildID string) ([]*model.Job, error)
	closeFunc    func(ctx context.Context, jobID, closedBy string) (*model.Job, error)
}

func (m *mockCrossJobs) FindByID(ctx context.Context, id string) (*model.Job, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockCrossJobs) FindOpen(ctx context.Context, guildID string) ([]*model.Job, error) {
	if m.findOpenFunc != nil {
		return m.findOpenFunc(ctx, guildID)
	}
	return nil, nil
}

func (m *mockCrossJobs) Close(ctx context.Context, jobID, closedBy string) (*model.Job, error) {
	if m.closeFunc != nil {
		return m.closeFunc(ctx, jobID, closedBy)
	}
	return nil, nil
}

type mockCrossApplications struct {
	findPendingByGuildFunc func(ctx context.Context, guildID string) ([]*model.Application, error)
	findPendingByJobFunc   func(ctx context.Context, guildID, jobID string) ([]*model.Application, error)
	markRejectedFunc       func(ctx context.Context, applicationID, reviewedBy, reason string) (*model.Application, error)
}

func (m *mockCrossApplications) FindPendingByGuild(ctx context.Context, guildID string) ([]*model.Application, error) {
	if m.findPendingByGuildFunc != nil {
		return m.findPendingByGuildFunc(ctx, guildID)
	}
	return nil, nil
}

func (m *mockCrossApplications) FindPendingByJob(ctx context.Context, guildID, jobID string) ([]*model.Application, error) {
	if m.findPendingByJobFunc != nil {
		return m.findPendingByJobFunc(ctx, guildID, jobID)
	}
	return nil, nil
}

func (m *mockCrossApplications) MarkRejected(ctx context.Context, applicationID, reviewedBy, reason string) (*model.Application, error) {
	if m.markRejectedFunc != nil {
		return m.markRejectedFunc(ctx, applicationID, reviewedBy, reason)
	}
	return nil, nil
}

type mockCrossStaff struct {
	findActiveByUserFunc func(ctx context.Context, guildID, userID string) (*model.Staff, error)
}

func (m *mockCrossStaff) FindActiveByUser(ctx context.Context, guildID, userID string) (*model.Staff, error) {
	if m.findActiveByUserFunc != nil {
		return m.findActiveByUserFunc(ctx, guildID, userID)
	}
	return nil, nil
}

type mockRoleChecker struct {
	existing map[string]bool
}

func (m *mockRoleChecker) RoleExists(guildID, roleID string) bool {
	return m.existing[roleID]
}

func newCrossService(cases *mockCrossCases, jobs *mockCrossJobs, apps *mockCrossApplications, staff *mockCrossStaff, roles RoleChecker) *CrossEntityService {
	if cases == nil {
		cases = &mockCrossCases{}
	}
	if jobs == nil {
		jobs = &mockCrossJobs{}
	}
	if apps == nil {
		apps = &mockCrossApplications{}
	}
	if staff == nil {
		staff = &mockCrossStaff{}
	}
	return NewCrossEntityService(cases, jobs, apps, staff, roles)
}

func caseWithNumber(number string) *model.Case {
	return &model.Case{
		Meta:       model.Meta{ID: bson.NewObjectID()},
		GuildID:    "g1",
		CaseNumber: number,
		ClientID:   "client-1",
		Status:     model.CaseStatusOpen,
	}
}

// ============================================================================
// ValidateBeforeOperation
// ============================================================================

func TestValidateBeforeOperation_StaffDeleteWithLedCases(t *testing.T) {
	t.Parallel()

	led := caseWithNumber("AA-2026-0001-client")
	led.LeadAttorneyID = "target-1"
	assigned := caseWithNumber("AA-2026-0002-client")
	assigned.AssignedAttorneys = []string{"target-1"}

	svc := newCrossService(&mockCrossCases{
		findOpenByLeadAttorneyFunc: func(ctx context.Context, guildID, attorneyID string) ([]*model.Case, error) {
			return []*model.Case{led}, nil
		},
		findAssignedToFunc: func(ctx context.Context, guildID, attorneyID string) ([]*model.Case, error) {
			return []*model.Case{led, assigned}, nil
		},
	}, nil, nil, nil, nil)

	findings := svc.ValidateBeforeOperation(context.Background(), EntityStaff, OperationDelete,
		map[string]any{"userId": "target-1"}, memberContext())

	if len(findings) != 2 {
		t.Fatalf("expected one critical and one warning, got %d findings", len(findings))
	}
	if findings[0].Severity != model.SeverityCritical || !findings[0].CanAutoRepair {
		t.Errorf("led case must be a repairable critical finding, got %+v", findings[0])
	}
	if findings[1].Severity != model.SeverityWarning {
		t.Errorf("assigned-only case must be a warning, got %+v", findings[1])
	}
}

func TestValidateBeforeOperation_StaffDeleteLookupError(t *testing.T) {
	t.Parallel()

	svc := newCrossService(&mockCrossCases{
		findOpenByLeadAttorneyFunc: func(ctx context.Context, guildID, attorneyID string) ([]*model.Case, error) {
			return nil, errors.New("timeout")
		},
	}, nil, nil, nil, nil)

	findings := svc.ValidateBeforeOperation(context.Background(), EntityStaff, OperationDelete,
		map[string]any{"userId": "target-1"}, memberContext())

	if len(findings) != 1 || findings[0].Severity != model.SeverityCritical {
		t.Fatalf("a lookup failure must block with a critical finding, got %+v", findings)
	}
}

func TestValidateBeforeOperation_JobCloseWithPendingApplications(t *testing.T) {
	t.Parallel()

	svc := newCrossService(nil, nil, &mockCrossApplications{
		findPendingByJobFunc: func(ctx context.Context, guildID, jobID string) ([]*model.Application, error) {
			return []*model.Application{
				{GuildID: guildID, JobID: jobID, ApplicantID: "a1", Status: model.ApplicationStatusPending},
			}, nil
		},
	}, nil, nil)

	findings := svc.ValidateBeforeOperation(context.Background(), EntityJob, OperationClose,
		map[string]any{"jobId": "job-1"}, memberContext())

	if len(findings) != 1 || findings[0].Severity != model.SeverityWarning {
		t.Fatalf("pending applications must warn without blocking, got %+v", findings)
	}
}

func TestValidateBeforeOperation_OpenCaseDeleteBlocks(t *testing.T) {
	t.Parallel()

	svc := newCrossService(nil, nil, nil, nil, nil)

	findings := svc.ValidateBeforeOperation(context.Background(), EntityCase, OperationDelete,
		map[string]any{"caseId": "c1", "status": string(model.CaseStatusOpen)}, memberContext())
	if len(findings) != 1 || findings[0].Severity != model.SeverityCritical {
		t.Fatalf("deleting an open case must be blocked, got %+v", findings)
	}

	findings = svc.ValidateBeforeOperation(context.Background(), EntityCase, OperationDelete,
		map[string]any{"caseId": "c1", "status": string(model.CaseStatusClosed)}, memberContext())
	if len(findings) != 0 {
		t.Errorf("deleting a closed case is clean, got %+v", findings)
	}
}

// ============================================================================
// ScanIntegrityIssues
// ============================================================================

func TestScanIntegrityIssues(t *testing.T) {
	t.Parallel()

	orphanJob := &model.Job{Meta: model.Meta{ID: bson.NewObjectID()}, GuildID: "g1", Title: "Paralegal Opening", StaffRole: model.RoleParalegal, RoleID: "deleted-role", IsOpen: true}
	healthyJob := &model.Job{Meta: model.Meta{ID: bson.NewObjectID()}, GuildID: "g1", Title: "Associate Opening", StaffRole: model.RoleJuniorAssociate, RoleID: "live-role", IsOpen: true}

	orphanApp := &model.Application{Meta: model.Meta{ID: bson.NewObjectID()}, GuildID: "g1", JobID: "gone-job", ApplicantID: "a1", Status: model.ApplicationStatusPending}
	healthyApp := &model.Application{Meta: model.Meta{ID: bson.NewObjectID()}, GuildID: "g1", JobID: healthyJob.EntityID(), ApplicantID: "a2", Status: model.ApplicationStatusPending}

	orphanCase := caseWithNumber("AA-2026-0003-client")
	orphanCase.LeadAttorneyID = "departed"

	svc := newCrossService(&mockCrossCases{
		findByStatusFunc: func(ctx context.Context, guildID string, status model.CaseStatus) ([]*model.Case, error) {
			if status == model.CaseStatusOpen {
				return []*model.Case{orphanCase}, nil
			}
			return nil, nil
		},
	}, &mockCrossJobs{
		findOpenFunc: func(ctx context.Context, guildID string) ([]*model.Job, error) {
			return []*model.Job{orphanJob, healthyJob}, nil
		},
	}, &mockCrossApplications{
		findPendingByGuildFunc: func(ctx context.Context, guildID string) ([]*model.Application, error) {
			return []*model.Application{orphanApp, healthyApp}, nil
		},
	}, &mockCrossStaff{
		findActiveByUserFunc: func(ctx context.Context, guildID, userID string) (*model.Staff, error) {
			return nil, nil // departed
		},
	}, &mockRoleChecker{existing: map[string]bool{"live-role": true}})

	findings, err := svc.ScanIntegrityIssues(context.Background(), "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings, got %d: %+v", len(findings), findings)
	}

	byType := map[string]model.IntegrityFinding{}
	for _, f := range findings {
		byType[f.EntityType] = f
		if !f.CanAutoRepair {
			t.Errorf("scan finding must be auto-repairable: %+v", f)
		}
	}
	if byType[EntityJob].Severity != model.SeverityCritical {
		t.Error("orphaned job role must be critical")
	}
	if byType["application"].Severity != model.SeverityWarning {
		t.Error("orphaned application must be a warning")
	}
	if byType[EntityCase].Severity != model.SeverityWarning {
		t.Error("orphaned case lead must be a warning")
	}
}

// ============================================================================
// RepairIntegrityIssues
// ============================================================================

func TestRepairIntegrityIssues(t *testing.T) {
	t.Parallel()

	var closedJobs, rejectedApps, clearedCases []string
	svc := newCrossService(&mockCrossCases{
		clearLeadAttorneyFunc: func(ctx context.Context, caseID string) (*model.Case, error) {
			clearedCases = append(clearedCases, caseID)
			return &model.Case{}, nil
		},
	}, &mockCrossJobs{
		closeFunc: func(ctx context.Context, jobID, closedBy string) (*model.Job, error) {
			closedJobs = append(closedJobs, jobID)
			return &model.Job{}, nil
		},
	}, &mockCrossApplications{
		markRejectedFunc: func(ctx context.Context, applicationID, reviewedBy, reason string) (*model.Application, error) {
			if applicationID == "broken" {
				return nil, errors.New("write failed")
			}
			rejectedApps = append(rejectedApps, applicationID)
			return &model.Application{}, nil
		},
	}, nil, nil)

	report := svc.RepairIntegrityIssues(context.Background(), []model.IntegrityFinding{
		{EntityType: EntityJob, EntityID: "j1", CanAutoRepair: true},
		{EntityType: "application", EntityID: "a1", CanAutoRepair: true},
		{EntityType: "application", EntityID: "broken", CanAutoRepair: true},
		{EntityType: EntityCase, EntityID: "c1", CanAutoRepair: true},
		{EntityType: EntityCase, EntityID: "c2", CanAutoRepair: false}, // not repairable
	})

	if report.Scanned != 5 {
		t.Errorf("expected 5 scanned, got %d", report.Scanned)
	}
	if report.Repaired != 3 {
		t.Errorf("expected 3 repaired, got %d", report.Repaired)
	}
	if report.Failed != 1 {
		t.Errorf("expected 1 failed, got %d", report.Failed)
	}
	if len(closedJobs) != 1 || len(rejectedApps) != 1 || len(clearedCases) != 1 {
		t.Errorf("unexpected repair actions: jobs=%v apps=%v cases=%v", closedJobs, rejectedApps, clearedCases)
	}
}

// ============================================================================
// ValidateEntity / BatchValidate
// ============================================================================

func TestValidateEntity_Staff(t *testing.T) {
	t.Parallel()

	svc := newCrossService(nil, nil, nil, nil, nil)

	good := &model.Staff{GuildID: "g1", UserID: "u1", Role: model.RoleParalegal, Status: model.StaffStatusActive}
	if findings := svc.ValidateEntity(good); len(findings) != 0 {
		t.Errorf("expected clean staff record, got %+v", findings)
	}

	bad := &model.Staff{Role: model.StaffRole("Janitor"), Status: model.StaffStatus("retired")}
	findings := svc.ValidateEntity(bad)
	if len(findings) != 4 {
		t.Errorf("expected 4 findings (guild, user, role, status), got %d", len(findings))
	}
}

func TestBatchValidate(t *testing.T) {
	t.Parallel()

	svc := newCrossService(nil, nil, nil, nil, nil)

	findings := svc.BatchValidate([]any{
		&model.Job{GuildID: "g1", Title: "Opening", StaffRole: model.RoleParalegal},
		&model.Case{GuildID: "g1", ClientID: "c1", Status: model.CaseStatusOpen}, // missing case number
		&model.GuildConfig{},                                                    // missing guild
	})
	if len(findings) != 2 {
		t.Errorf("expected 2 findings across the batch, got %d: %+v", len(findings), findings)
	}
}
