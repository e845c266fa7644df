package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/anarchy/associates/internal/model"
)

// StaffRepository defines the interface for staff storage
type StaffRepository interface {
	Add(ctx context.Context, staff *model.Staff) error
	FindByID(ctx context.Context, id string) (*model.Staff, error)
	FindActiveByUser(ctx context.Context, guildID, userID string) (*model.Staff, error)
	FindActiveByRole(ctx context.Context, guildID string, role model.StaffRole) ([]*model.Staff, error)
	CountActiveByRole(ctx context.Context, guildID string, role model.StaffRole) (int64, error)
	FindAllActive(ctx context.Context, guildID string) ([]*model.Staff, error)
	FindByRobloxUsername(ctx context.Context, guildID, robloxUsername string) (*model.Staff, error)
	Update(ctx context.Context, id string, partial bson.M) (*model.Staff, error)
	Apply(ctx context.Context, id string, update bson.M) (*model.Staff, error)
}

// RoleSync applies Discord role changes after a staff record transition.
// Implemented by the gateway adapter.
type RoleSync interface {
	SyncStaffRole(ctx context.Context, guildID, userID string, role model.StaffRole) error
	RemoveStaffRoles(ctx context.Context, guildID, userID string) error
}

// AuditRecorder appends audit trail entries, best effort
type AuditRecorder interface {
	Record(ctx context.Context, entry model.AuditLog)
}

// StaffService manages the firm's employment lifecycle
type StaffService struct {
	staff StaffRepository
	roles RoleSync
	audit AuditRecorder
}

// NewStaffService creates a new staff service
func NewStaffService(staff StaffRepository, roles RoleSync, audit AuditRecorder) *StaffService {
	return &StaffService{staff: staff, roles: roles, audit: audit}
}

// HireParams carries the inputs for hiring a new staff member
type HireParams struct {
	UserID         string
	RobloxUsername string
	Role           model.StaffRole
	Reason         string
}

// Hire employs a user at the given role. The caller is expected to have run
// role-limit validation first; Hire enforces the hard uniqueness rules that
// must hold regardless of bypasses.
func (s *StaffService) Hire(ctx context.Context, pctx *model.PermissionContext, params HireParams) (*model.Staff, error) {
	if !params.Role.IsValid() {
		return nil, ErrInvalidStaffRole
	}
	username := strings.TrimSpace(params.RobloxUsername)
	if username == "" {
		return nil, ErrRobloxUsernameRequired
	}

	existing, err := s.staff.FindActiveByUser(ctx, pctx.GuildID, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("check existing staff: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyStaff
	}

	taken, err := s.staff.FindByRobloxUsername(ctx, pctx.GuildID, username)
	if err != nil {
		return nil, fmt.Errorf("check roblox username: %w", err)
	}
	if taken != nil && taken.UserID != params.UserID {
		return nil, ErrRobloxUsernameTaken
	}

	now := time.Now().UTC()
	staff := &model.Staff{
		GuildID:        pctx.GuildID,
		UserID:         params.UserID,
		RobloxUsername: username,
		Role:           params.Role,
		Status:         model.StaffStatusActive,
		HiredAt:        now,
		HiredBy:        pctx.UserID,
		PromotionHistory: []model.PromotionRecord{{
			ToRole:     params.Role,
			PromotedBy: pctx.UserID,
			PromotedAt: now,
			ActionType: "hire",
			Reason:     params.Reason,
		}},
	}
	if err := s.staff.Add(ctx, staff); err != nil {
		return nil, fmt.Errorf("create staff record: %w", err)
	}

	s.syncRole(ctx, pctx.GuildID, params.UserID, params.Role)
	s.record(ctx, pctx, model.AuditStaffHired, params.UserID, map[string]string{
		"role":   string(params.Role),
		"reason": params.Reason,
	})
	return staff, nil
}

// Promote moves an active staff member to a higher role. The actor must
// strictly outrank both the target and the destination role, unless they
// are the guild owner.
func (s *StaffService) Promote(ctx context.Context, pctx *model.PermissionContext, targetUserID string, newRole model.StaffRole, reason string) (*model.Staff, error) {
	return s.transition(ctx, pctx, targetUserID, newRole, reason, true)
}

// Demote moves an active staff member to a lower role under the same
// hierarchy rules as Promote
func (s *StaffService) Demote(ctx context.Context, pctx *model.PermissionContext, targetUserID string, newRole model.StaffRole, reason string) (*model.Staff, error) {
	return s.transition(ctx, pctx, targetUserID, newRole, reason, false)
}

func (s *StaffService) transition(ctx context.Context, pctx *model.PermissionContext, targetUserID string, newRole model.StaffRole, reason string, up bool) (*model.Staff, error) {
	if targetUserID == pctx.UserID {
		return nil, ErrSelfAction
	}
	if !newRole.IsValid() {
		return nil, ErrInvalidStaffRole
	}

	target, err := s.staff.FindActiveByUser(ctx, pctx.GuildID, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("find target staff: %w", err)
	}
	if target == nil {
		return nil, ErrNotStaff
	}

	if up && !newRole.Outranks(target.Role) {
		return nil, ErrNotPromotion
	}
	if !up && !target.Role.Outranks(newRole) {
		return nil, ErrNotDemotion
	}

	if err := s.checkActorRank(ctx, pctx, target.Role, newRole); err != nil {
		return nil, err
	}

	actionType := "promotion"
	action := model.AuditStaffPromoted
	if !up {
		actionType = "demotion"
		action = model.AuditStaffDemoted
	}
	record := model.PromotionRecord{
		FromRole:   target.Role,
		ToRole:     newRole,
		PromotedBy: pctx.UserID,
		PromotedAt: time.Now().UTC(),
		ActionType: actionType,
		Reason:     reason,
	}
	updated, err := s.staff.Apply(ctx, target.EntityID(), bson.M{
		"$set":  bson.M{"role": newRole},
		"$push": bson.M{"promotionHistory": record},
	})
	if err != nil {
		return nil, fmt.Errorf("update staff role: %w", err)
	}
	if updated == nil {
		return nil, ErrStaffNotFound
	}

	s.syncRole(ctx, pctx.GuildID, targetUserID, newRole)
	s.record(ctx, pctx, action, targetUserID, map[string]string{
		"from":   string(target.Role),
		"to":     string(newRole),
		"reason": reason,
	})
	return updated, nil
}

// Fire terminates an active staff member. The caller runs the cross-entity
// check for led open cases first; Fire enforces the rank rules.
func (s *StaffService) Fire(ctx context.Context, pctx *model.PermissionContext, targetUserID, reason string) (*model.Staff, error) {
	if targetUserID == pctx.UserID {
		return nil, ErrSelfAction
	}

	target, err := s.staff.FindActiveByUser(ctx, pctx.GuildID, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("find target staff: %w", err)
	}
	if target == nil {
		return nil, ErrNotStaff
	}
	if err := s.checkActorRank(ctx, pctx, target.Role, target.Role); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := model.PromotionRecord{
		FromRole:   target.Role,
		PromotedBy: pctx.UserID,
		PromotedAt: now,
		ActionType: "fire",
		Reason:     reason,
	}
	updated, err := s.staff.Apply(ctx, target.EntityID(), bson.M{
		"$set": bson.M{
			"status":       model.StaffStatusTerminated,
			"terminatedAt": now,
			"terminatedBy": pctx.UserID,
		},
		"$push": bson.M{"promotionHistory": record},
	})
	if err != nil {
		return nil, fmt.Errorf("terminate staff: %w", err)
	}
	if updated == nil {
		return nil, ErrStaffNotFound
	}

	if s.roles != nil {
		if err := s.roles.RemoveStaffRoles(ctx, pctx.GuildID, targetUserID); err != nil {
			slog.Warn("staff role removal failed",
				slog.String("guild_id", pctx.GuildID),
				slog.String("user_id", targetUserID),
				slog.String("error", err.Error()),
			)
		}
	}
	s.record(ctx, pctx, model.AuditStaffFired, targetUserID, map[string]string{
		"role":   string(target.Role),
		"reason": reason,
	})
	return updated, nil
}

// List returns all active staff in the guild, ordered by hierarchy level
// from highest to lowest
func (s *StaffService) List(ctx context.Context, guildID string) ([]*model.Staff, error) {
	all, err := s.staff.FindAllActive(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}

	ordered := make([]*model.Staff, 0, len(all))
	for _, role := range model.StaffRolesByLevel() {
		for _, member := range all {
			if member.Role == role {
				ordered = append(ordered, member)
			}
		}
	}
	return ordered, nil
}

// Info returns the staff record for a user, active or terminated history
// included, or ErrStaffNotFound
func (s *StaffService) Info(ctx context.Context, guildID, userID string) (*model.Staff, error) {
	staff, err := s.staff.FindActiveByUser(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("find staff: %w", err)
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

// checkActorRank enforces the hierarchy gate: the acting user must be an
// active staff member who strictly outranks both the target's current role
// and the destination role. Guild owners skip the gate entirely.
func (s *StaffService) checkActorRank(ctx context.Context, pctx *model.PermissionContext, targetRole, destinationRole model.StaffRole) error {
	if pctx.IsGuildOwner {
		return nil
	}
	actor, err := s.staff.FindActiveByUser(ctx, pctx.GuildID, pctx.UserID)
	if err != nil {
		return fmt.Errorf("find acting staff: %w", err)
	}
	if actor == nil {
		return ErrNotStaff
	}
	if !actor.Role.Outranks(targetRole) || !actor.Role.Outranks(destinationRole) {
		return ErrInsufficientRank
	}
	return nil
}

func (s *StaffService) syncRole(ctx context.Context, guildID, userID string, role model.StaffRole) {
	if s.roles == nil {
		return
	}
	if err := s.roles.SyncStaffRole(ctx, guildID, userID, role); err != nil {
		slog.Warn("staff role sync failed",
			slog.String("guild_id", guildID),
			slog.String("user_id", userID),
			slog.String("role", string(role)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *StaffService) record(ctx context.Context, pctx *model.PermissionContext, action model.AuditAction, targetID string, details map[string]string) {
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
