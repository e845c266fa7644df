package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/anarchy/associates/internal/model"
)

// ============================================================================
// Mock Readers
// ============================================================================

type mockStaffReader struct {
	findActiveByUserFunc  func(ctx context.Context, guildID, userID string) (*model.Staff, error)
	countActiveByRoleFunc func(ctx context.Context, guildID string, role model.StaffRole) (int64, error)
}

func (m *mockStaffReader) FindActiveByUser(ctx context.Context, guildID, userID string) (*model.Staff, error) {
	if m.findActiveByUserFunc != nil {
		return m.findActiveByUserFunc(ctx, guildID, userID)
	}
	return nil, nil
}

func (m *mockStaffReader) CountActiveByRole(ctx context.Context, guildID string, role model.StaffRole) (int64, error) {
	if m.countActiveByRoleFunc != nil {
		return m.countActiveByRoleFunc(ctx, guildID, role)
	}
	return 0, nil
}

type mockCaseReader struct {
	countActiveByClientFunc func(ctx context.Context, guildID, clientID string) (int64, error)
}

func (m *mockCaseReader) CountActiveByClient(ctx context.Context, guildID, clientID string) (int64, error) {
	if m.countActiveByClientFunc != nil {
		return m.countActiveByClientFunc(ctx, guildID, clientID)
	}
	return 0, nil
}

type mockConfigReader struct {
	findByGuildFunc func(ctx context.Context, guildID string) (*model.GuildConfig, error)
}

func (m *mockConfigReader) FindByGuild(ctx context.Context, guildID string) (*model.GuildConfig, error) {
	if m.findByGuildFunc != nil {
		return m.findByGuildFunc(ctx, guildID)
	}
	return nil, nil
}

func newRuleService(staff *mockStaffReader, cases *mockCaseReader, configs *mockConfigReader) *BusinessRuleService {
	if staff == nil {
		staff = &mockStaffReader{}
	}
	if cases == nil {
		cases = &mockCaseReader{}
	}
	if configs == nil {
		configs = &mockConfigReader{}
	}
	return NewBusinessRuleService(staff, cases, configs)
}

func memberContext() *model.PermissionContext {
	return &model.PermissionContext{GuildID: "g1", UserID: "u1", UserRoles: []string{"r1"}}
}

func ownerContext() *model.PermissionContext {
	return &model.PermissionContext{GuildID: "g1", UserID: "owner", IsGuildOwner: true}
}

// ============================================================================
// ValidateRoleLimit
// ============================================================================

func TestValidateRoleLimit_UnderLimit(t *testing.T) {
	t.Parallel()

	svc := newRuleService(&mockStaffReader{
		countActiveByRoleFunc: func(ctx context.Context, guildID string, role model.StaffRole) (int64, error) {
			return 4, nil
		},
	}, nil, nil)

	result := svc.ValidateRoleLimit(context.Background(), memberContext(), model.RoleJuniorAssociate)
	if !result.Valid {
		t.Fatalf("expected valid, got errors: %v", result.Errors)
	}
	if result.CurrentCount != 4 || result.MaxCount != 10 {
		t.Errorf("expected counts 4/10, got %d/%d", result.CurrentCount, result.MaxCount)
	}
}

func TestValidateRoleLimit_AtLimit_NonOwner(t *testing.T) {
	t.Parallel()

	svc := newRuleService(&mockStaffReader{
		countActiveByRoleFunc: func(ctx context.Context, guildID string, role model.StaffRole) (int64, error) {
			return 10, nil
		},
	}, nil, nil)

	result := svc.ValidateRoleLimit(context.Background(), memberContext(), model.RoleJuniorAssociate)
	if result.Valid {
		t.Fatal("expected invalid at limit")
	}
	if result.BypassAvailable {
		t.Error("non-owner must not see a bypass offer")
	}
	if len(result.Errors) == 0 {
		t.Error("expected at least one error")
	}
}

func TestValidateRoleLimit_AtLimit_GuildOwner(t *testing.T) {
	t.Parallel()

	svc := newRuleService(&mockStaffReader{
		countActiveByRoleFunc: func(ctx context.Context, guildID string, role model.StaffRole) (int64, error) {
			return 10, nil
		},
	}, nil, nil)

	result := svc.ValidateRoleLimit(context.Background(), ownerContext(), model.RoleJuniorAssociate)
	if result.Valid {
		t.Fatal("expected invalid at limit")
	}
	if !result.BypassAvailable {
		t.Error("guild owner must see a bypass offer")
	}
	if result.BypassType != model.BypassGuildOwner {
		t.Errorf("expected guild-owner bypass type, got %q", result.BypassType)
	}
	if result.CurrentCount != 10 || result.MaxCount != 10 {
		t.Errorf("expected counts 10/10, got %d/%d", result.CurrentCount, result.MaxCount)
	}
}

func TestValidateRoleLimit_NoConfiguredLimit(t *testing.T) {
	t.Parallel()

	called := false
	svc := newRuleService(&mockStaffReader{
		countActiveByRoleFunc: func(ctx context.Context, guildID string, role model.StaffRole) (int64, error) {
			called = true
			return 0, nil
		},
	}, nil, nil)

	result := svc.ValidateRoleLimit(context.Background(), memberContext(), model.StaffRole("Intern"))
	if !result.Valid {
		t.Errorf("role with no configured limit must always be valid, got %v", result.Errors)
	}
	if called {
		t.Error("no repository call expected for an unlimited role")
	}
}

func TestValidateRoleLimit_RepositoryError(t *testing.T) {
	t.Parallel()

	svc := newRuleService(&mockStaffReader{
		countActiveByRoleFunc: func(ctx context.Context, guildID string, role model.StaffRole) (int64, error) {
			return 0, errors.New("connection reset")
		},
	}, nil, nil)

	result := svc.ValidateRoleLimit(context.Background(), memberContext(), model.RoleParalegal)
	if result.Valid {
		t.Fatal("expected failure on repository error")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Failed to validate role limit" {
		t.Errorf("expected generic error, got %v", result.Errors)
	}
}

// ============================================================================
// ValidateClientCaseLimit
// ============================================================================

func TestValidateClientCaseLimit_UnderLimit(t *testing.T) {
	t.Parallel()

	svc := newRuleService(nil, &mockCaseReader{
		countActiveByClientFunc: func(ctx context.Context, guildID, clientID string) (int64, error) {
			return 2, nil
		},
	}, nil)

	result := svc.ValidateClientCaseLimit(context.Background(), memberContext(), "client-1")
	if !result.Valid || len(result.Warnings) != 0 {
		t.Errorf("expected clean pass, got valid=%v warnings=%v", result.Valid, result.Warnings)
	}
}

func TestValidateClientCaseLimit_ApproachingLimit_Warns(t *testing.T) {
	t.Parallel()

	svc := newRuleService(nil, &mockCaseReader{
		countActiveByClientFunc: func(ctx context.Context, guildID, clientID string) (int64, error) {
			return int64(model.MaxActiveCasesPerClient - 1), nil
		},
	}, nil)

	result := svc.ValidateClientCaseLimit(context.Background(), memberContext(), "client-1")
	if !result.Valid {
		t.Fatalf("approaching the limit must warn, not fail: %v", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", result.Warnings)
	}
}

func TestValidateClientCaseLimit_AtLimit_Fails(t *testing.T) {
	t.Parallel()

	svc := newRuleService(nil, &mockCaseReader{
		countActiveByClientFunc: func(ctx context.Context, guildID, clientID string) (int64, error) {
			return int64(model.MaxActiveCasesPerClient), nil
		},
	}, nil)

	result := svc.ValidateClientCaseLimit(context.Background(), memberContext(), "client-1")
	if result.Valid {
		t.Fatal("expected failure at the case limit")
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected one error, got %v", result.Errors)
	}
}

// ============================================================================
// ValidateStaffMember
// ============================================================================

func TestValidateStaffMember_Active(t *testing.T) {
	t.Parallel()

	svc := newRuleService(&mockStaffReader{
		findActiveByUserFunc: func(ctx context.Context, guildID, userID string) (*model.Staff, error) {
			return &model.Staff{GuildID: guildID, UserID: userID, Role: model.RoleParalegal, Status: model.StaffStatusActive}, nil
		},
	}, nil, nil)

	result := svc.ValidateStaffMember(context.Background(), memberContext(), "u2")
	if !result.Valid {
		t.Fatalf("expected valid, got %v", result.Errors)
	}
	if result.RoleName != string(model.RoleParalegal) {
		t.Errorf("expected role detail, got %q", result.RoleName)
	}
}

func TestValidateStaffMember_NotStaff(t *testing.T) {
	t.Parallel()

	svc := newRuleService(nil, nil, nil)

	result := svc.ValidateStaffMember(context.Background(), memberContext(), "u2")
	if result.Valid {
		t.Fatal("expected failure for non-staff target")
	}
}

// ============================================================================
// ValidatePermission
// ============================================================================

func configWith(action model.PermissionAction, roles []string, adminRoles, adminUsers []string) *mockConfigReader {
	return &mockConfigReader{
		findByGuildFunc: func(ctx context.Context, guildID string) (*model.GuildConfig, error) {
			cfg := model.DefaultGuildConfig(guildID)
			cfg.Permissions[action] = roles
			cfg.AdminRoles = adminRoles
			cfg.AdminUsers = adminUsers
			return cfg, nil
		},
	}
}

func TestValidatePermission_GuildOwnerAlwaysGranted(t *testing.T) {
	t.Parallel()

	svc := newRuleService(nil, nil, &mockConfigReader{
		findByGuildFunc: func(ctx context.Context, guildID string) (*model.GuildConfig, error) {
			return nil, errors.New("must not be called for owners")
		},
	})

	result := svc.ValidatePermission(context.Background(), ownerContext(), model.PermissionHR)
	if !result.HasPermission || !result.Valid {
		t.Fatal("guild owner must always have permission")
	}
	if len(result.GrantedPermissions) != 1 || result.GrantedPermissions[0] != "guild-owner" {
		t.Errorf("expected guild-owner grant, got %v", result.GrantedPermissions)
	}
}

func TestValidatePermission_ActionRoleGrant(t *testing.T) {
	t.Parallel()

	svc := newRuleService(nil, nil, configWith(model.PermissionHR, []string{"r1"}, nil, nil))

	result := svc.ValidatePermission(context.Background(), memberContext(), model.PermissionHR)
	if !result.HasPermission {
		t.Fatalf("expected grant via action role, got %v", result.Errors)
	}
	if result.GrantedPermissions[0] != string(model.PermissionHR) {
		t.Errorf("expected hr grant, got %v", result.GrantedPermissions)
	}
}

func TestValidatePermission_AdminRoleGrant(t *testing.T) {
	t.Parallel()

	svc := newRuleService(nil, nil, configWith(model.PermissionHR, nil, []string{"r1"}, nil))

	result := svc.ValidatePermission(context.Background(), memberContext(), model.PermissionHR)
	if !result.HasPermission {
		t.Fatalf("expected grant via admin role, got %v", result.Errors)
	}
}

func TestValidatePermission_AdminUserGrant(t *testing.T) {
	t.Parallel()

	svc := newRuleService(nil, nil, configWith(model.PermissionHR, nil, nil, []string{"u1"}))

	result := svc.ValidatePermission(context.Background(), memberContext(), model.PermissionHR)
	if !result.HasPermission {
		t.Fatalf("expected grant via admin user, got %v", result.Errors)
	}
}

func TestValidatePermission_NoGrant(t *testing.T) {
	t.Parallel()

	svc := newRuleService(nil, nil, configWith(model.PermissionHR, []string{"other-role"}, nil, nil))

	result := svc.ValidatePermission(context.Background(), memberContext(), model.PermissionHR)
	if result.HasPermission || result.Valid {
		t.Fatal("expected denial")
	}
	if result.RequiredPermission != model.PermissionHR {
		t.Errorf("expected required permission detail, got %q", result.RequiredPermission)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected one error, got %v", result.Errors)
	}
}

func TestValidatePermission_RepositoryError(t *testing.T) {
	t.Parallel()

	svc := newRuleService(nil, nil, &mockConfigReader{
		findByGuildFunc: func(ctx context.Context, guildID string) (*model.GuildConfig, error) {
			return nil, errors.New("timeout")
		},
	})

	result := svc.ValidatePermission(context.Background(), memberContext(), model.PermissionHR)
	if result.Valid {
		t.Fatal("expected failure on repository error")
	}
	if result.Errors[0] != "Failed to validate permissions" {
		t.Errorf("expected generic error, got %v", result.Errors)
	}
}

// ============================================================================
// ValidateMultiple
// ============================================================================

func TestValidateMultiple_AggregatesWithoutShortCircuit(t *testing.T) {
	t.Parallel()

	svc := newRuleService(nil, nil, nil)
	calls := 0

	result := svc.ValidateMultiple(context.Background(), []NamedRule{
		{Name: "a", Evaluate: func(ctx context.Context) model.ValidationResult {
			calls++
			return model.InvalidResult("error a")
		}},
		{Name: "b", Evaluate: func(ctx context.Context) model.ValidationResult {
			calls++
			return model.ValidationResult{Valid: true, Warnings: []string{"warning b"}}
		}},
		{Name: "c", Evaluate: func(ctx context.Context) model.ValidationResult {
			calls++
			return model.InvalidResult("error c")
		}},
	})

	if calls != 3 {
		t.Fatalf("expected all rules to run, got %d calls", calls)
	}
	if result.Valid {
		t.Fatal("expected aggregate failure")
	}
	if len(result.Errors) != 2 || result.Errors[0] != "error a" || result.Errors[1] != "error c" {
		t.Errorf("expected order-preserving error union, got %v", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected warning carried through, got %v", result.Warnings)
	}
}
