package validation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anarchy/associates/internal/model"
)

// StaffReader defines the staff lookups business rules need
type StaffReader interface {
	FindActiveByUser(ctx context.Context, guildID, userID string) (*model.Staff, error)
	CountActiveByRole(ctx context.Context, guildID string, role model.StaffRole) (int64, error)
}

// CaseReader defines the case lookups business rules need
type CaseReader interface {
	CountActiveByClient(ctx context.Context, guildID, clientID string) (int64, error)
}

// ConfigReader defines the guild config lookups business rules need
type ConfigReader interface {
	FindByGuild(ctx context.Context, guildID string) (*model.GuildConfig, error)
}

// BusinessRuleService evaluates discrete business rules against a snapshot
// of repository state. It never mutates anything.
type BusinessRuleService struct {
	staff   StaffReader
	cases   CaseReader
	configs ConfigReader
}

// NewBusinessRuleService creates a new business rule service
func NewBusinessRuleService(staff StaffReader, cases CaseReader, configs ConfigReader) *BusinessRuleService {
	return &BusinessRuleService{staff: staff, cases: cases, configs: configs}
}

// ValidateRoleLimit checks the headcount limit for hiring or promoting into
// a role. At the limit, guild owners see a bypass offer; everyone else gets
// a plain failure. Roles with no configured limit always pass.
func (s *BusinessRuleService) ValidateRoleLimit(ctx context.Context, pctx *model.PermissionContext, role model.StaffRole) model.ValidationResult {
	max := role.MaxCount()
	if max == 0 {
		return model.ValidationResult{Valid: true, RoleName: string(role)}
	}

	count, err := s.staff.CountActiveByRole(ctx, pctx.GuildID, role)
	if err != nil {
		slog.Error("role limit validation failed",
			slog.String("guild_id", pctx.GuildID),
			slog.String("role", string(role)),
			slog.String("error", err.Error()),
		)
		return model.InvalidResult("Failed to validate role limit")
	}

	result := model.ValidationResult{
		Valid:        true,
		CurrentCount: int(count),
		MaxCount:     max,
		RoleName:     string(role),
	}
	if int(count) >= max {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s is at its limit of %d member(s)", role, max))
		if pctx.IsGuildOwner {
			result.BypassAvailable = true
			result.BypassType = model.BypassGuildOwner
		}
	}
	return result
}

// ValidateClientCaseLimit checks a client's active case count. One short of
// the limit produces a warning; at or past it, an error.
func (s *BusinessRuleService) ValidateClientCaseLimit(ctx context.Context, pctx *model.PermissionContext, clientID string) model.ValidationResult {
	count, err := s.cases.CountActiveByClient(ctx, pctx.GuildID, clientID)
	if err != nil {
		slog.Error("client case limit validation failed",
			slog.String("guild_id", pctx.GuildID),
			slog.String("client_id", clientID),
			slog.String("error", err.Error()),
		)
		return model.InvalidResult("Failed to validate client case limit")
	}

	result := model.ValidationResult{
		Valid:        true,
		CurrentCount: int(count),
		MaxCount:     model.MaxActiveCasesPerClient,
	}
	switch {
	case int(count) >= model.MaxActiveCasesPerClient:
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Client has reached the maximum of %d active cases", model.MaxActiveCasesPerClient))
	case int(count) == model.MaxActiveCasesPerClient-1:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Client will reach the maximum of %d active cases with this one", model.MaxActiveCasesPerClient))
	}
	return result
}

// ValidateStaffMember checks that the target user holds an active staff
// record in the guild
func (s *BusinessRuleService) ValidateStaffMember(ctx context.Context, pctx *model.PermissionContext, userID string) model.ValidationResult {
	staff, err := s.staff.FindActiveByUser(ctx, pctx.GuildID, userID)
	if err != nil {
		slog.Error("staff member validation failed",
			slog.String("guild_id", pctx.GuildID),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return model.InvalidResult("Failed to validate staff member")
	}
	if staff == nil {
		return model.InvalidResult(fmt.Sprintf("User <@%s> is not an active staff member", userID))
	}

	return model.ValidationResult{
		Valid:    true,
		RoleName: string(staff.Role),
		Metadata: map[string]string{"staffId": staff.EntityID()},
	}
}

// ValidatePermission resolves the actor's grants for an action from the
// guild config: permissions[action] roles, admin roles, admin users, and
// the guild-owner override.
func (s *BusinessRuleService) ValidatePermission(ctx context.Context, pctx *model.PermissionContext, action model.PermissionAction) model.ValidationResult {
	result := model.ValidationResult{RequiredPermission: action}

	if pctx.IsGuildOwner {
		result.Valid = true
		result.HasPermission = true
		result.GrantedPermissions = []string{"guild-owner"}
		return result
	}

	cfg, err := s.configs.FindByGuild(ctx, pctx.GuildID)
	if err != nil {
		slog.Error("permission validation failed",
			slog.String("guild_id", pctx.GuildID),
			slog.String("action", string(action)),
			slog.String("error", err.Error()),
		)
		return model.InvalidResult("Failed to validate permissions")
	}

	var granted []string
	if cfg != nil {
		for _, userID := range cfg.AdminUsers {
			if userID == pctx.UserID {
				granted = append(granted, "admin-user")
				break
			}
		}
		if pctx.HasAnyRole(cfg.AdminRoles) {
			granted = append(granted, "admin-role")
		}
		if pctx.HasAnyRole(cfg.RolesFor(action)) {
			granted = append(granted, string(action))
		}
	}

	result.GrantedPermissions = granted
	result.HasPermission = len(granted) > 0
	result.Valid = result.HasPermission
	if !result.HasPermission {
		result.Errors = append(result.Errors,
			fmt.Sprintf("You don't have the '%s' permission required for this command", action))
	}
	return result
}

// NamedRule pairs a rule name with its evaluator for ValidateMultiple
type NamedRule struct {
	Name     string
	Evaluate func(ctx context.Context) model.ValidationResult
}

// ValidateMultiple runs every rule without short-circuiting and merges the
// results, so a caller sees all violations in one pass
func (s *BusinessRuleService) ValidateMultiple(ctx context.Context, rules []NamedRule) model.ValidationResult {
	merged := model.ValidationResult{Valid: true}
	for _, rule := range rules {
		r := rule.Evaluate(ctx)
		if !r.Valid {
			merged.Valid = false
		}
		merged.Errors = append(merged.Errors, r.Errors...)
		merged.Warnings = append(merged.Warnings, r.Warnings...)
		if r.BypassAvailable {
			merged.BypassAvailable = true
			merged.BypassType = r.BypassType
		}
	}
	return merged
}
