package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"
)

func (h *Handlers) RetainerPropose(ctx context.Context, req *Request) error {
	retainer, err := h.Retainers.Propose(ctx, &req.Permission, req.optString("client"))
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf(
		"<@%s>, <@%s> has sent you a retainer agreement.\n\n%s\n\nSign with `/retainer sign retainer-id:%s signature:<your Roblox username>`.",
		retainer.ClientID, retainer.LawyerID, retainer.AgreementText, retainer.EntityID()))
}

func (h *Handlers) RetainerSign(ctx context.Context, req *Request) error {
	retainer, err := h.Retainers.Sign(ctx, &req.Permission,
		req.optString("retainer-id"), req.optString("signature"))
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf(
		"Retainer signed. <@%s> is now represented by <@%s>.", retainer.ClientID, retainer.LawyerID))
}

func (h *Handlers) RetainerCancel(ctx context.Context, req *Request) error {
	retainer, err := h.Retainers.Cancel(ctx, &req.Permission, req.optString("retainer-id"))
	if err != nil {
		return err
	}
	return req.RespondEphemeral(fmt.Sprintf("Retainer for <@%s> cancelled.", retainer.ClientID))
}

func (h *Handlers) RetainerList(ctx context.Context, req *Request) error {
	retainers, err := h.Retainers.ListForLawyer(ctx, req.Invocation.GuildID, req.Invocation.UserID)
	if err != nil {
		return err
	}
	if len(retainers) == 0 {
		return req.RespondEphemeral("You have no retainers.")
	}

	var b strings.Builder
	b.WriteString("**Your Retainers**\n")
	for _, r := range retainers {
		fmt.Fprintf(&b, "• `%s` <@%s> — %s\n", r.EntityID(), r.ClientID, r.Status)
	}
	return req.RespondEphemeral(b.String())
}

func (h *Handlers) FeedbackSubmit(ctx context.Context, req *Request) error {
	username := req.Invocation.UserID
	if m := req.Interaction.Member; m != nil && m.User != nil {
		username = m.User.Username
	}

	fb, err := h.Feedback.Submit(ctx, &req.Permission,
		req.optString("staff"), req.optInt("rating"), req.optString("comment"), username)
	if err != nil {
		return err
	}

	stars := strings.Repeat("⭐", fb.Rating)
	if fb.TargetStaffID == "" {
		return req.Respond(fmt.Sprintf("%s Thank you for rating the firm!", stars))
	}
	return req.Respond(fmt.Sprintf("%s Feedback recorded for <@%s>.", stars, fb.TargetStaffID))
}

func (h *Handlers) FeedbackStats(ctx context.Context, req *Request) error {
	staffID := req.optString("staff")
	stats, err := h.Feedback.StatsFor(ctx, req.Invocation.GuildID, staffID)
	if err != nil {
		return err
	}

	subject := "the firm"
	if staffID != "" {
		subject = "<@" + staffID + ">"
	}
	if stats.TotalCount == 0 {
		return req.RespondEphemeral(fmt.Sprintf("No feedback recorded for %s yet.", subject))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Feedback for %s**\nAverage: %.1f⭐ over %d ratings\n",
		subject, stats.AverageRating, stats.TotalCount)
	for rating := 5; rating >= 1; rating-- {
		fmt.Fprintf(&b, "%d⭐: %d\n", rating, stats.CountByRating[rating])
	}
	return req.RespondEphemeral(b.String())
}

func (h *Handlers) ReminderSet(ctx context.Context, req *Request) error {
	delay, err := parseDelay(req.optString("in"))
	if err != nil {
		req.RespondError("Couldn't read that delay. Use forms like 30m, 2h or 3d.")
		return nil
	}

	caseID := ""
	if number := req.optString("case-number"); number != "" {
		c, err := h.Cases.InfoByNumber(ctx, req.Invocation.GuildID, number)
		if err != nil {
			return err
		}
		caseID = c.EntityID()
	}

	reminder, err := h.Reminders.Schedule(ctx, &req.Permission,
		req.Invocation.ChannelID, req.optString("text"), time.Now().Add(delay), caseID)
	if err != nil {
		return err
	}
	return req.RespondEphemeral(fmt.Sprintf("⏰ Reminder `%s` set for <t:%d:f>.",
		reminder.EntityID(), reminder.ScheduledFor.Unix()))
}

func (h *Handlers) ReminderList(ctx context.Context, req *Request) error {
	reminders, err := h.Reminders.ListPending(ctx, &req.Permission)
	if err != nil {
		return err
	}
	if len(reminders) == 0 {
		return req.RespondEphemeral("You have no pending reminders.")
	}

	var b strings.Builder
	b.WriteString("**Pending Reminders**\n")
	for _, r := range reminders {
		fmt.Fprintf(&b, "• `%s` <t:%d:R> — %s\n", r.EntityID(), r.ScheduledFor.Unix(), r.Text)
	}
	return req.RespondEphemeral(b.String())
}

func (h *Handlers) ReminderCancel(ctx context.Context, req *Request) error {
	if err := h.Reminders.Cancel(ctx, &req.Permission, req.optString("reminder-id")); err != nil {
		return err
	}
	return req.RespondEphemeral("Reminder cancelled.")
}

// parseDelay reads delays like 30m, 2h, 3d. Plain time.ParseDuration covers
// everything but days.
func parseDelay(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if strings.HasSuffix(s, "d") {
		var days float64
		if _, err := fmt.Sscanf(s, "%fd", &days); err != nil {
			return 0, err
		}
		return time.Duration(days * 24 * float64(time.Hour)), nil
	}
	return time.ParseDuration(s)
}
