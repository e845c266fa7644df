package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/model"
)

type mockScaffolder struct {
	rolesCreated    []string
	channelsCreated []string
	rolesDeleted    []string
	channelsDeleted []string
}

func (m *mockScaffolder) EnsureRole(ctx context.Context, guildID, name string) (string, error) {
	m.rolesCreated = append(m.rolesCreated, name)
	return "role-" + name, nil
}

func (m *mockScaffolder) EnsureCategory(ctx context.Context, guildID, name string) (string, error) {
	return "category-" + name, nil
}

func (m *mockScaffolder) EnsureChannel(ctx context.Context, guildID, parentID, name string) (string, error) {
	m.channelsCreated = append(m.channelsCreated, name)
	return "channel-" + name, nil
}

func (m *mockScaffolder) DeleteRole(ctx context.Context, guildID, roleID string) error {
	m.rolesDeleted = append(m.rolesDeleted, roleID)
	return nil
}

func (m *mockScaffolder) DeleteChannel(ctx context.Context, guildID, channelID string) error {
	m.channelsDeleted = append(m.channelsDeleted, channelID)
	return nil
}

type mockConfigRepo struct {
	cfg         *model.GuildConfig
	applyFunc   func(ctx context.Context, id string, update bson.M) (*model.GuildConfig, error)
	setRoleFunc func(ctx context.Context, configID string, action model.PermissionAction, roleIDs []string) (*model.GuildConfig, error)
}

func (m *mockConfigRepo) FindByGuild(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	return m.cfg, nil
}

func (m *mockConfigRepo) EnsureDefault(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	if m.cfg == nil {
		m.cfg = model.DefaultGuildConfig(guildID)
		m.cfg.StampCreate(bson.NewObjectID(), time.Now().UTC())
	}
	return m.cfg, nil
}

func (m *mockConfigRepo) SetPermissionRoles(ctx context.Context, configID string, action model.PermissionAction, roleIDs []string) (*model.GuildConfig, error) {
	if m.setRoleFunc != nil {
		return m.setRoleFunc(ctx, configID, action, roleIDs)
	}
	m.cfg.Permissions[action] = roleIDs
	return m.cfg, nil
}

func (m *mockConfigRepo) Update(ctx context.Context, id string, partial bson.M) (*model.GuildConfig, error) {
	return m.cfg, nil
}

func (m *mockConfigRepo) Apply(ctx context.Context, id string, update bson.M) (*model.GuildConfig, error) {
	if m.applyFunc != nil {
		return m.applyFunc(ctx, id, update)
	}
	return m.cfg, nil
}

type mockWipe struct {
	wiped   []string
	deleted map[string]int64
}

func (m *mockWipe) WipeGuild(ctx context.Context, guildID string) (map[string]int64, error) {
	m.wiped = append(m.wiped, guildID)
	if m.deleted == nil {
		m.deleted = map[string]int64{"staff": 4, "cases": 2}
	}
	return m.deleted, nil
}

type mockSetupJobs struct {
	existing map[model.StaffRole]*model.Job
	added    []*model.Job
}

func (m *mockSetupJobs) FindOpenByStaffRole(ctx context.Context, guildID string, role model.StaffRole) (*model.Job, error) {
	return m.existing[role], nil
}

func (m *mockSetupJobs) Add(ctx context.Context, job *model.Job) error {
	job.StampCreate(bson.NewObjectID(), time.Now().UTC())
	m.added = append(m.added, job)
	return nil
}

func ownerCtx() *model.PermissionContext {
	return &model.PermissionContext{GuildID: "g1", UserID: "owner", IsGuildOwner: true}
}

func TestBootstrap_OwnerOnly(t *testing.T) {
	t.Parallel()

	svc := NewAnarchyServerSetupService(&mockScaffolder{}, &mockConfigRepo{}, &mockSetupJobs{}, &mockWipe{}, nil)
	_, err := svc.Bootstrap(context.Background(), actorContext("not-owner"))
	if !errors.Is(err, ErrOwnerOnly) {
		t.Errorf("expected ErrOwnerOnly, got %v", err)
	}
}

func TestBootstrap(t *testing.T) {
	t.Parallel()

	scaffold := &mockScaffolder{}
	jobs := &mockSetupJobs{existing: map[model.StaffRole]*model.Job{
		model.RoleParalegal: openJob(model.RoleParalegal), // already posted
	}}
	svc := NewAnarchyServerSetupService(scaffold, &mockConfigRepo{}, jobs, &mockWipe{}, nil)

	report, err := svc.Bootstrap(context.Background(), ownerCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One role per staff rank plus the client role.
	if len(scaffold.rolesCreated) != len(model.StaffRolesByLevel())+1 {
		t.Errorf("expected %d roles, got %v", len(model.StaffRolesByLevel())+1, scaffold.rolesCreated)
	}
	// Every staff role except the pre-existing Paralegal posting gets a job.
	if report.JobsPosted != len(model.StaffRolesByLevel())-1 {
		t.Errorf("expected %d jobs posted, got %d", len(model.StaffRolesByLevel())-1, report.JobsPosted)
	}
	for _, job := range jobs.added {
		if !job.IsOpen || len(job.Questions) == 0 {
			t.Errorf("bootstrap job must be open with questions: %+v", job)
		}
	}
}

func TestBootstrap_Idempotent(t *testing.T) {
	t.Parallel()

	scaffold := &mockScaffolder{}
	jobs := &mockSetupJobs{existing: map[model.StaffRole]*model.Job{}}
	svc := NewAnarchyServerSetupService(scaffold, &mockConfigRepo{}, jobs, &mockWipe{}, nil)

	first, err := svc.Bootstrap(context.Background(), ownerCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, job := range jobs.added {
		jobs.existing[job.StaffRole] = job
	}
	second, err := svc.Bootstrap(context.Background(), ownerCtx())
	if err != nil {
		t.Fatalf("unexpected error on rerun: %v", err)
	}
	if first.JobsPosted == 0 || second.JobsPosted != 0 {
		t.Errorf("rerun must not repost jobs: first=%d second=%d", first.JobsPosted, second.JobsPosted)
	}
}

func TestWipe_OwnerOnly(t *testing.T) {
	t.Parallel()

	svc := NewAnarchyServerSetupService(&mockScaffolder{}, &mockConfigRepo{}, &mockSetupJobs{}, &mockWipe{}, nil)
	_, err := svc.Wipe(context.Background(), actorContext("not-owner"))
	if !errors.Is(err, ErrOwnerOnly) {
		t.Errorf("expected ErrOwnerOnly, got %v", err)
	}
}

func TestWipe(t *testing.T) {
	t.Parallel()

	cfg := model.DefaultGuildConfig("g1")
	cfg.StampCreate(bson.NewObjectID(), time.Now().UTC())
	cfg.FeedbackChannelID = "channel-feedback"
	cfg.RulesChannelID = "channel-rules"
	cfg.ClientRoleID = "role-Client"

	scaffold := &mockScaffolder{}
	wipe := &mockWipe{}
	audit := &mockAudit{}
	svc := NewAnarchyServerSetupService(scaffold, &mockConfigRepo{cfg: cfg}, &mockSetupJobs{}, wipe, audit)

	report, err := svc.Wipe(context.Background(), ownerCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wipe.wiped) != 1 || wipe.wiped[0] != "g1" {
		t.Errorf("expected guild data wipe, got %v", wipe.wiped)
	}
	if report.DocumentsDeleted["staff"] != 4 {
		t.Errorf("expected deletion counts surfaced, got %v", report.DocumentsDeleted)
	}
	if len(scaffold.channelsDeleted) != 2 {
		t.Errorf("expected configured channels deleted, got %v", scaffold.channelsDeleted)
	}
	if len(scaffold.rolesDeleted) != 1 || scaffold.rolesDeleted[0] != "role-Client" {
		t.Errorf("expected client role deleted, got %v", scaffold.rolesDeleted)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.AuditServerWipe {
		t.Errorf("expected a wipe audit record, got %+v", audit.entries)
	}
}
