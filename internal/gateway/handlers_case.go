package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/anarchy/associates/internal/model"
	"github.com/anarchy/associates/internal/service"
)

func (h *Handlers) CaseOpen(ctx context.Context, req *Request) error {
	username := req.Invocation.UserID
	if m := req.Interaction.Member; m != nil && m.User != nil {
		username = m.User.Username
	}

	c, err := h.Cases.Open(ctx, &req.Permission, service.OpenParams{
		ClientID:       req.Invocation.UserID,
		ClientUsername: username,
		Title:          req.optString("title"),
		Description:    req.optString("description"),
		Priority:       model.CasePriority(req.optString("priority")),
	})
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf("Case **%s** filed: %s\nAn attorney will review it shortly.",
		c.CaseNumber, c.Title))
}

func (h *Handlers) CaseAccept(ctx context.Context, req *Request) error {
	c, err := h.Cases.Accept(ctx, &req.Permission, req.optString("case-id"))
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf("Case **%s** accepted. <@%s> is the lead attorney.",
		c.CaseNumber, c.LeadAttorneyID))
}

func (h *Handlers) CaseDecline(ctx context.Context, req *Request) error {
	c, err := h.Cases.Decline(ctx, &req.Permission, req.optString("case-id"), req.optString("reason"))
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf("Case **%s** declined.", c.CaseNumber))
}

func (h *Handlers) CaseAssignLead(ctx context.Context, req *Request) error {
	c, err := h.Cases.AssignLead(ctx, &req.Permission, req.optString("case-id"), req.optString("attorney"))
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf("<@%s> now leads case **%s**.", c.LeadAttorneyID, c.CaseNumber))
}

func (h *Handlers) CaseAssign(ctx context.Context, req *Request) error {
	attorneyID := req.optString("attorney")
	c, err := h.Cases.AssignAttorney(ctx, &req.Permission, req.optString("case-id"), attorneyID)
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf("<@%s> assigned to case **%s**.", attorneyID, c.CaseNumber))
}

func (h *Handlers) CaseClose(ctx context.Context, req *Request) error {
	c, err := h.Cases.Close(ctx, &req.Permission, req.optString("case-id"),
		model.CaseResult(req.optString("result")), req.optString("notes"))
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf("Case **%s** closed: **%s**.", c.CaseNumber, c.Result))
}

func (h *Handlers) CaseDoc(ctx context.Context, req *Request) error {
	c, err := h.Cases.AddDocument(ctx, &req.Permission, req.optString("case-id"),
		req.optString("title"), req.optString("content"))
	if err != nil {
		return err
	}
	return req.RespondEphemeral(fmt.Sprintf("Document added to case **%s** (%d on file).",
		c.CaseNumber, len(c.Documents)))
}

func (h *Handlers) CaseNote(ctx context.Context, req *Request) error {
	c, err := h.Cases.AddNote(ctx, &req.Permission, req.optString("case-id"),
		req.optString("content"), req.optBool("internal"))
	if err != nil {
		return err
	}
	return req.RespondEphemeral(fmt.Sprintf("Note added to case **%s**.", c.CaseNumber))
}

func (h *Handlers) CaseInfo(ctx context.Context, req *Request) error {
	c, err := h.Cases.InfoByNumber(ctx, req.Invocation.GuildID, req.optString("case-number"))
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** — %s\n", c.CaseNumber, c.Title)
	fmt.Fprintf(&b, "Client: <@%s> | Status: %s | Priority: %s\n", c.ClientID, c.Status, c.Priority)
	if c.LeadAttorneyID != "" {
		fmt.Fprintf(&b, "Lead: <@%s>\n", c.LeadAttorneyID)
	}
	if len(c.AssignedAttorneys) > 0 {
		mentions := make([]string, 0, len(c.AssignedAttorneys))
		for _, id := range c.AssignedAttorneys {
			mentions = append(mentions, "<@"+id+">")
		}
		fmt.Fprintf(&b, "Assigned: %s\n", strings.Join(mentions, ", "))
	}
	if c.Result != "" {
		fmt.Fprintf(&b, "Result: %s", c.Result)
		if c.ResultNotes != "" {
			fmt.Fprintf(&b, " — %s", c.ResultNotes)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Documents: %d | Notes: %d\n", len(c.Documents), len(c.Notes))
	return req.RespondEphemeral(b.String())
}

// CaseList shows cases by status for staff; without a status filter it
// shows the caller's own cases.
func (h *Handlers) CaseList(ctx context.Context, req *Request) error {
	var (
		cases []*model.Case
		err   error
	)
	if status := req.optString("status"); status != "" {
		cases, err = h.Cases.ListByStatus(ctx, req.Invocation.GuildID, model.CaseStatus(status))
	} else {
		cases, err = h.Cases.ListForClient(ctx, req.Invocation.GuildID, req.Invocation.UserID)
	}
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return req.RespondEphemeral("No cases found.")
	}

	var b strings.Builder
	b.WriteString("**Cases**\n")
	for _, c := range cases {
		fmt.Fprintf(&b, "• **%s** %s (%s, %s)\n", c.CaseNumber, c.Title, c.Status, c.Priority)
	}
	return req.RespondEphemeral(b.String())
}
