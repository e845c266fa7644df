package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/anarchy/associates/internal/model"
	"github.com/anarchy/associates/internal/service"
)

func (h *Handlers) JobPost(ctx context.Context, req *Request) error {
	job, err := h.Jobs.Create(ctx, &req.Permission, service.JobParams{
		Title:       req.optString("title"),
		Description: req.optString("description"),
		StaffRole:   model.StaffRole(req.optString("role")),
		RoleID:      req.optString("discord-role"),
	})
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf("📢 Now hiring: **%s** (%s). Apply with `/apply job-id:%s`.",
		job.Title, job.StaffRole, job.EntityID()))
}

func (h *Handlers) JobEdit(ctx context.Context, req *Request) error {
	jobID := req.optString("job-id")
	current, err := h.Jobs.Info(ctx, jobID)
	if err != nil {
		return err
	}

	params := service.JobParams{
		Title:       req.optString("title"),
		Description: current.Description,
		StaffRole:   current.StaffRole,
		RoleID:      current.RoleID,
	}
	if desc := req.optString("description"); desc != "" {
		params.Description = desc
	}
	job, err := h.Jobs.Update(ctx, &req.Permission, jobID, params)
	if err != nil {
		return err
	}
	return req.RespondEphemeral(fmt.Sprintf("Posting **%s** updated.", job.Title))
}

func (h *Handlers) JobClose(ctx context.Context, req *Request) error {
	job, err := h.Jobs.Close(ctx, &req.Permission, req.optString("job-id"))
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf("Posting **%s** is now closed. %d applications received, %d hired.",
		job.Title, job.ApplicationCount, job.HiredCount))
}

func (h *Handlers) JobRemove(ctx context.Context, req *Request) error {
	if err := h.Jobs.Remove(ctx, &req.Permission, req.optString("job-id")); err != nil {
		return err
	}
	return req.RespondEphemeral("Posting deleted.")
}

func (h *Handlers) JobList(ctx context.Context, req *Request) error {
	openOnly := true
	if _, set := req.Invocation.Options["open-only"]; set {
		openOnly = req.optBool("open-only")
	}
	jobs, err := h.Jobs.List(ctx, req.Invocation.GuildID, openOnly)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return req.RespondEphemeral("No job postings found.")
	}

	var b strings.Builder
	b.WriteString("**Job Postings**\n")
	for _, job := range jobs {
		state := "open"
		if !job.IsOpen {
			state = "closed"
		}
		fmt.Fprintf(&b, "• `%s` **%s** (%s, %s) — %d applications\n",
			job.EntityID(), job.Title, job.StaffRole, state, job.ApplicationCount)
	}
	return req.RespondEphemeral(b.String())
}

func (h *Handlers) JobInfo(ctx context.Context, req *Request) error {
	job, err := h.Jobs.Info(ctx, req.optString("job-id"))
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** — %s\n", job.Title, job.StaffRole)
	if job.Description != "" {
		b.WriteString(job.Description + "\n")
	}
	b.WriteString("\nQuestions:\n")
	for i, q := range job.Questions {
		marker := ""
		if q.Required {
			marker = " (required)"
		}
		fmt.Fprintf(&b, "%d. %s%s\n", i+1, q.Question, marker)
	}
	return req.RespondEphemeral(b.String())
}

// ApplySubmit pairs the pipe-separated answers with the job's questions in
// order. A modal per question would be nicer; Discord caps modals at five
// inputs, which the default question set already exceeds.
func (h *Handlers) ApplySubmit(ctx context.Context, req *Request) error {
	jobID := req.optString("job-id")
	job, err := h.Jobs.Info(ctx, jobID)
	if err != nil {
		return err
	}

	parts := strings.Split(req.optString("answers"), "|")
	answers := make([]model.ApplicationAnswer, 0, len(job.Questions))
	for i, q := range job.Questions {
		answer := ""
		if i < len(parts) {
			answer = strings.TrimSpace(parts[i])
		}
		answers = append(answers, model.ApplicationAnswer{QuestionID: q.ID, Answer: answer})
	}

	app, err := h.Applications.Submit(ctx, &req.Permission, service.SubmitParams{
		JobID:          jobID,
		RobloxUsername: req.optString("roblox-username"),
		Answers:        answers,
	})
	if err != nil {
		return err
	}
	return req.RespondEphemeral(fmt.Sprintf(
		"Application `%s` submitted for **%s**. The hiring team will review it shortly.",
		app.EntityID(), job.Title))
}

func (h *Handlers) ApplicationAccept(ctx context.Context, req *Request) error {
	staff, err := h.Applications.Accept(ctx, &req.Permission, req.optString("application-id"))
	if err != nil {
		return err
	}
	return req.Respond(fmt.Sprintf("Application accepted. <@%s> joins the firm as **%s**.",
		staff.UserID, staff.Role))
}

func (h *Handlers) ApplicationReject(ctx context.Context, req *Request) error {
	app, err := h.Applications.Reject(ctx, &req.Permission,
		req.optString("application-id"), req.optString("reason"))
	if err != nil {
		return err
	}
	return req.RespondEphemeral(fmt.Sprintf("Application from <@%s> rejected.", app.ApplicantID))
}

func (h *Handlers) ApplicationList(ctx context.Context, req *Request) error {
	apps, err := h.Applications.ListByJob(ctx, req.Invocation.GuildID, req.optString("job-id"))
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		return req.RespondEphemeral("No applications for that posting.")
	}

	var b strings.Builder
	b.WriteString("**Applications**\n")
	for _, app := range apps {
		fmt.Fprintf(&b, "• `%s` <@%s> (%s) — %s\n",
			app.EntityID(), app.ApplicantID, app.RobloxUsername, app.Status)
	}
	return req.RespondEphemeral(b.String())
}
