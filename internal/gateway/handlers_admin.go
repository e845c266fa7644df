package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/anarchy/associates/internal/model"
)

func (h *Handlers) PermissionsSetRoles(ctx context.Context, req *Request) error {
	action := model.PermissionAction(req.optString("action"))
	_, err := h.Permissions.SetActionRoles(ctx, &req.Permission, action,
		[]string{req.optString("discord-role")})
	if err != nil {
		return err
	}
	return req.RespondEphemeral(fmt.Sprintf("Members with <@&%s> may now use **%s** commands.",
		req.optString("discord-role"), action))
}

func (h *Handlers) PermissionsGrantAdminRole(ctx context.Context, req *Request) error {
	roleID := req.optString("discord-role")
	if _, err := h.Permissions.GrantAdminRole(ctx, &req.Permission, roleID); err != nil {
		return err
	}
	return req.RespondEphemeral(fmt.Sprintf("<@&%s> granted admin.", roleID))
}

func (h *Handlers) PermissionsRevokeAdminRole(ctx context.Context, req *Request) error {
	roleID := req.optString("discord-role")
	if _, err := h.Permissions.RevokeAdminRole(ctx, &req.Permission, roleID); err != nil {
		return err
	}
	return req.RespondEphemeral(fmt.Sprintf("<@&%s> no longer has admin.", roleID))
}

func (h *Handlers) PermissionsGrantAdminUser(ctx context.Context, req *Request) error {
	userID := req.optString("user")
	if _, err := h.Permissions.GrantAdminUser(ctx, &req.Permission, userID); err != nil {
		return err
	}
	return req.RespondEphemeral(fmt.Sprintf("<@%s> granted admin.", userID))
}

func (h *Handlers) PermissionsRevokeAdminUser(ctx context.Context, req *Request) error {
	userID := req.optString("user")
	if _, err := h.Permissions.RevokeAdminUser(ctx, &req.Permission, userID); err != nil {
		return err
	}
	return req.RespondEphemeral(fmt.Sprintf("<@%s> no longer has admin.", userID))
}

func (h *Handlers) PermissionsView(ctx context.Context, req *Request) error {
	cfg, err := h.Permissions.Config(ctx, req.Invocation.GuildID)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("**Permission Configuration**\n")
	for _, action := range model.AllPermissionActions() {
		roles := cfg.Permissions[action]
		if len(roles) == 0 {
			fmt.Fprintf(&b, "• %s: _nobody_\n", action)
			continue
		}
		mentions := make([]string, 0, len(roles))
		for _, id := range roles {
			mentions = append(mentions, "<@&"+id+">")
		}
		fmt.Fprintf(&b, "• %s: %s\n", action, strings.Join(mentions, ", "))
	}
	if len(cfg.AdminRoles) > 0 {
		mentions := make([]string, 0, len(cfg.AdminRoles))
		for _, id := range cfg.AdminRoles {
			mentions = append(mentions, "<@&"+id+">")
		}
		fmt.Fprintf(&b, "Admin roles: %s\n", strings.Join(mentions, ", "))
	}
	if len(cfg.AdminUsers) > 0 {
		mentions := make([]string, 0, len(cfg.AdminUsers))
		for _, id := range cfg.AdminUsers {
			mentions = append(mentions, "<@"+id+">")
		}
		fmt.Fprintf(&b, "Admin users: %s\n", strings.Join(mentions, ", "))
	}
	return req.RespondEphemeral(b.String())
}

func (h *Handlers) SetupBootstrap(ctx context.Context, req *Request) error {
	report, err := h.Setup.Bootstrap(ctx, &req.Permission)
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf(
		"🏛️ Anarchy & Associates is open for business.\nRoles ensured: %d\nChannels ensured: %d\nJob postings opened: %d",
		len(report.RolesCreated)+1, len(report.ChannelsCreated), report.JobsPosted))
}

func (h *Handlers) SetupWipe(ctx context.Context, req *Request) error {
	report, err := h.Setup.Wipe(ctx, &req.Permission)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("🧹 All firm data wiped.\n")
	for collection, count := range report.DocumentsDeleted {
		fmt.Fprintf(&b, "• %s: %d deleted\n", collection, count)
	}
	return req.Respond(b.String())
}

func (h *Handlers) SetupRules(ctx context.Context, req *Request) error {
	if err := h.Rules.Sync(ctx, &req.Permission); err != nil {
		return err
	}
	return req.RespondEphemeral("Server rules published.")
}

func (h *Handlers) AuditQuery(ctx context.Context, req *Request) error {
	limit := req.optInt("limit")
	if limit <= 0 {
		limit = 20
	}
	entries, err := h.Audit.Query(ctx, model.AuditQuery{
		GuildID:  req.Invocation.GuildID,
		ActorID:  req.optString("actor"),
		TargetID: req.optString("target"),
		Limit:    limit,
	})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return req.RespondEphemeral("No audit entries match.")
	}

	var b strings.Builder
	b.WriteString("**Audit Log**\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "• <t:%d:f> `%s` by <@%s>", e.Timestamp.Unix(), e.Action, e.ActorID)
		if e.TargetID != "" {
			fmt.Fprintf(&b, " on <@%s>", e.TargetID)
		}
		b.WriteString("\n")
	}
	return req.RespondEphemeral(b.String())
}

func (h *Handlers) RepairScan(ctx context.Context, req *Request) error {
	findings, err := h.CrossEntity.ScanIntegrityIssues(ctx, req.Invocation.GuildID)
	if err != nil {
		return err
	}
	if len(findings) == 0 {
		return req.RespondEphemeral("✅ No integrity issues found.")
	}
	return req.RespondEphemeral(renderFindings(findings))
}

func (h *Handlers) RepairRun(ctx context.Context, req *Request) error {
	findings, err := h.CrossEntity.ScanIntegrityIssues(ctx, req.Invocation.GuildID)
	if err != nil {
		return err
	}
	if len(findings) == 0 {
		return req.RespondEphemeral("✅ Nothing to repair.")
	}

	report := h.CrossEntity.RepairIntegrityIssues(ctx, findings)
	return req.RespondEphemeral(fmt.Sprintf(
		"Repair complete: %d scanned, %d repaired, %d failed.", report.Scanned, report.Repaired, report.Failed))
}

func renderFindings(findings []model.IntegrityFinding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Integrity Scan — %d findings**\n", len(findings))
	for _, f := range findings {
		icon := "⚠️"
		if f.Severity == model.SeverityCritical {
			icon = "🛑"
		}
		repair := ""
		if f.CanAutoRepair {
			repair = " (auto-repairable)"
		}
		fmt.Fprintf(&b, "%s %s `%s`: %s%s\n", icon, f.EntityType, f.EntityID, f.Message, repair)
	}
	return b.String()
}
