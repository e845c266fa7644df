package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anarchy/associates/internal/model"
)

// GuildScaffolder creates and removes the Discord structures the firm
// needs. Implemented by the gateway adapter. Ensure methods are idempotent
// and return the ID of the existing or newly created object.
type GuildScaffolder interface {
	EnsureRole(ctx context.Context, guildID, name string) (string, error)
	EnsureCategory(ctx context.Context, guildID, name string) (string, error)
	EnsureChannel(ctx context.Context, guildID, parentID, name string) (string, error)
	DeleteRole(ctx context.Context, guildID, roleID string) error
	DeleteChannel(ctx context.Context, guildID, channelID string) error
}

// WipeAccess deletes all firm data for a guild except its configuration
type WipeAccess interface {
	WipeGuild(ctx context.Context, guildID string) (map[string]int64, error)
}

// SetupJobAccess posts the initial job board during bootstrap
type SetupJobAccess interface {
	FindOpenByStaffRole(ctx context.Context, guildID string, role model.StaffRole) (*model.Job, error)
	Add(ctx context.Context, job *model.Job) error
}

// AnarchyServerSetupService bootstraps a guild into a working law firm
// server and can wipe it back to a clean slate. Both operations are guild
// owner only.
type AnarchyServerSetupService struct {
	scaffold GuildScaffolder
	configs  GuildConfigRepository
	jobs     SetupJobAccess
	wipe     WipeAccess
	audit    AuditRecorder
}

// NewAnarchyServerSetupService creates a new server setup service
func NewAnarchyServerSetupService(scaffold GuildScaffolder, configs GuildConfigRepository, jobs SetupJobAccess, wipe WipeAccess, audit AuditRecorder) *AnarchyServerSetupService {
	return &AnarchyServerSetupService{
		scaffold: scaffold,
		configs:  configs,
		jobs:     jobs,
		wipe:     wipe,
		audit:    audit,
	}
}

// BootstrapReport summarizes what Bootstrap created
type BootstrapReport struct {
	RolesCreated    map[model.StaffRole]string
	ClientRoleID    string
	ChannelsCreated map[string]string
	JobsPosted      int
}

// Bootstrap ensures the guild has the firm's role ladder, channel layout,
// default configuration, and an open job posting for every staff role.
// Safe to run repeatedly.
func (s *AnarchyServerSetupService) Bootstrap(ctx context.Context, pctx *model.PermissionContext) (*BootstrapReport, error) {
	if !pctx.IsGuildOwner {
		return nil, ErrOwnerOnly
	}

	if _, err := s.configs.EnsureDefault(ctx, pctx.GuildID); err != nil {
		return nil, fmt.Errorf("ensure guild config: %w", err)
	}

	report := &BootstrapReport{
		RolesCreated:    make(map[model.StaffRole]string),
		ChannelsCreated: make(map[string]string),
	}

	roleIDs := make(map[model.StaffRole]string)
	for _, role := range model.StaffRolesByLevel() {
		id, err := s.scaffold.EnsureRole(ctx, pctx.GuildID, string(role))
		if err != nil {
			return nil, fmt.Errorf("ensure role %s: %w", role, err)
		}
		roleIDs[role] = id
		report.RolesCreated[role] = id
	}
	clientRoleID, err := s.scaffold.EnsureRole(ctx, pctx.GuildID, "Client")
	if err != nil {
		return nil, fmt.Errorf("ensure client role: %w", err)
	}
	report.ClientRoleID = clientRoleID

	firmCategory, err := s.scaffold.EnsureCategory(ctx, pctx.GuildID, "Anarchy & Associates")
	if err != nil {
		return nil, fmt.Errorf("ensure firm category: %w", err)
	}
	channels := map[string]*string{}
	settings := ChannelSettings{ClientRoleID: clientRoleID}
	channels["rules"] = &settings.RulesChannelID
	channels["feedback"] = &settings.FeedbackChannelID
	channels["retainers"] = &settings.RetainerChannelID
	channels["applications"] = &settings.ApplicationChannelID
	channels["modlog"] = &settings.ModlogChannelID
	for name, target := range channels {
		id, err := s.scaffold.EnsureChannel(ctx, pctx.GuildID, firmCategory, name)
		if err != nil {
			return nil, fmt.Errorf("ensure channel %s: %w", name, err)
		}
		*target = id
		report.ChannelsCreated[name] = id
	}

	reviewCategory, err := s.scaffold.EnsureCategory(ctx, pctx.GuildID, "Case Review")
	if err != nil {
		return nil, fmt.Errorf("ensure review category: %w", err)
	}
	archiveCategory, err := s.scaffold.EnsureCategory(ctx, pctx.GuildID, "Case Archive")
	if err != nil {
		return nil, fmt.Errorf("ensure archive category: %w", err)
	}
	settings.CaseReviewCategoryID = reviewCategory
	settings.CaseArchiveCategoryID = archiveCategory

	permissions := NewPermissionService(s.configs, s.audit)
	if _, err := permissions.SetChannels(ctx, pctx, settings); err != nil {
		return nil, err
	}

	for _, role := range model.StaffRolesByLevel() {
		open, err := s.jobs.FindOpenByStaffRole(ctx, pctx.GuildID, role)
		if err != nil {
			return nil, fmt.Errorf("check job for %s: %w", role, err)
		}
		if open != nil {
			continue
		}
		job := &model.Job{
			GuildID:     pctx.GuildID,
			Title:       fmt.Sprintf("%s Opening", role),
			Description: fmt.Sprintf("Anarchy & Associates is hiring a %s. Apply below.", role),
			StaffRole:   role,
			RoleID:      roleIDs[role],
			IsOpen:      true,
			Questions:   model.DefaultJobQuestions(),
			PostedBy:    pctx.UserID,
		}
		if err := s.jobs.Add(ctx, job); err != nil {
			return nil, fmt.Errorf("post job for %s: %w", role, err)
		}
		report.JobsPosted++
	}

	if s.audit != nil {
		s.audit.Record(ctx, model.AuditLog{
			GuildID: pctx.GuildID,
			Action:  model.AuditServerSetup,
			ActorID: pctx.UserID,
			Details: map[string]string{"jobsPosted": fmt.Sprintf("%d", report.JobsPosted)},
		})
	}
	return report, nil
}

// WipeReport summarizes what Wipe removed
type WipeReport struct {
	DocumentsDeleted map[string]int64
}

// Wipe deletes every firm collection for the guild except its
// configuration, then removes the managed Discord roles and channels.
// Discord cleanup is best effort: failures are logged and do not undo the
// data wipe.
func (s *AnarchyServerSetupService) Wipe(ctx context.Context, pctx *model.PermissionContext) (*WipeReport, error) {
	if !pctx.IsGuildOwner {
		return nil, ErrOwnerOnly
	}

	deleted, err := s.wipe.WipeGuild(ctx, pctx.GuildID)
	if err != nil {
		return nil, fmt.Errorf("wipe guild data: %w", err)
	}

	cfg, err := s.configs.FindByGuild(ctx, pctx.GuildID)
	if err == nil && cfg != nil {
		for name, channelID := range map[string]string{
			"feedback":     cfg.FeedbackChannelID,
			"retainers":    cfg.RetainerChannelID,
			"modlog":       cfg.ModlogChannelID,
			"applications": cfg.ApplicationChannelID,
			"rules":        cfg.RulesChannelID,
			"case-review":  cfg.CaseReviewCategoryID,
			"case-archive": cfg.CaseArchiveCategoryID,
		} {
			if channelID == "" {
				continue
			}
			if err := s.scaffold.DeleteChannel(ctx, pctx.GuildID, channelID); err != nil {
				slog.Warn("wipe channel delete failed",
					slog.String("guild_id", pctx.GuildID),
					slog.String("channel", name),
					slog.String("error", err.Error()),
				)
			}
		}
		if cfg.ClientRoleID != "" {
			if err := s.scaffold.DeleteRole(ctx, pctx.GuildID, cfg.ClientRoleID); err != nil {
				slog.Warn("wipe role delete failed",
					slog.String("guild_id", pctx.GuildID),
					slog.String("role_id", cfg.ClientRoleID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	if s.audit != nil {
		s.audit.Record(ctx, model.AuditLog{
			GuildID:  pctx.GuildID,
			Action:   model.AuditServerWipe,
			ActorID:  pctx.UserID,
			Severity: model.AuditSeverityCritical,
		})
	}
	return &WipeReport{DocumentsDeleted: deleted}, nil
}
