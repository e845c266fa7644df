package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/anarchy/associates/internal/model"
	"github.com/anarchy/associates/internal/service"
)

func (h *Handlers) StaffHire(ctx context.Context, req *Request) error {
	staff, err := h.Staff.Hire(ctx, &req.Permission, service.HireParams{
		UserID:         req.optString("user"),
		RobloxUsername: req.optString("roblox-username"),
		Role:           model.StaffRole(req.optString("role")),
		Reason:         req.optString("reason"),
	})
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf("Welcome aboard! <@%s> joins the firm as **%s** (Roblox: %s).",
		staff.UserID, staff.Role, staff.RobloxUsername))
}

func (h *Handlers) StaffPromote(ctx context.Context, req *Request) error {
	staff, err := h.Staff.Promote(ctx, &req.Permission,
		req.optString("user"), model.StaffRole(req.optString("role")), req.optString("reason"))
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf("<@%s> has been promoted to **%s**.", staff.UserID, staff.Role))
}

func (h *Handlers) StaffDemote(ctx context.Context, req *Request) error {
	staff, err := h.Staff.Demote(ctx, &req.Permission,
		req.optString("user"), model.StaffRole(req.optString("role")), req.optString("reason"))
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf("<@%s> has been demoted to **%s**.", staff.UserID, staff.Role))
}

func (h *Handlers) StaffFire(ctx context.Context, req *Request) error {
	staff, err := h.Staff.Fire(ctx, &req.Permission, req.optString("user"), req.optString("reason"))
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf("<@%s> has been terminated from the position of %s.", staff.UserID, staff.Role))
}

func (h *Handlers) StaffList(ctx context.Context, req *Request) error {
	members, err := h.Staff.List(ctx, req.Invocation.GuildID)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return req.RespondEphemeral("The firm has no active staff.")
	}

	var b strings.Builder
	b.WriteString("**Anarchy & Associates — Staff Roster**\n")
	current := model.StaffRole("")
	for _, m := range members {
		if m.Role != current {
			current = m.Role
			fmt.Fprintf(&b, "\n__%s__\n", current)
		}
		fmt.Fprintf(&b, "• <@%s> (%s)\n", m.UserID, m.RobloxUsername)
	}
	return req.Respond(b.String())
}

func (h *Handlers) StaffInfo(ctx context.Context, req *Request) error {
	staff, err := h.Staff.Info(ctx, req.Invocation.GuildID, req.optString("user"))
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**<@%s>** — %s\n", staff.UserID, staff.Role)
	fmt.Fprintf(&b, "Roblox: %s\nHired: %s by <@%s>\n",
		staff.RobloxUsername, staff.HiredAt.Format("2006-01-02"), staff.HiredBy)
	if len(staff.PromotionHistory) > 0 {
		b.WriteString("History:\n")
		for _, rec := range staff.PromotionHistory {
			fmt.Fprintf(&b, "• %s: %s → %s\n", rec.ActionType, rec.FromRole, rec.ToRole)
		}
	}
	return req.RespondEphemeral(b.String())
}
