package gateway

import (
	"github.com/bwmarrin/discordgo"

	"github.com/anarchy/associates/internal/model"
)

func staffRoleChoices() []*discordgo.ApplicationCommandOptionChoice {
	roles := model.StaffRolesByLevel()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(roles))
	for _, role := range roles {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(role),
			Value: string(role),
		})
	}
	return choices
}

func caseResultChoices() []*discordgo.ApplicationCommandOptionChoice {
	results := []model.CaseResult{
		model.CaseResultWin,
		model.CaseResultLoss,
		model.CaseResultSettlement,
		model.CaseResultDismissed,
		model.CaseResultWithdrawn,
	}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(results))
	for _, r := range results {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(r), Value: string(r)})
	}
	return choices
}

func priorityChoices() []*discordgo.ApplicationCommandOptionChoice {
	priorities := []model.CasePriority{
		model.CasePriorityLow,
		model.CasePriorityMedium,
		model.CasePriorityHigh,
		model.CasePriorityUrgent,
	}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(priorities))
	for _, p := range priorities {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(p), Value: string(p)})
	}
	return choices
}

func permissionActionChoices() []*discordgo.ApplicationCommandOptionChoice {
	actions := model.AllPermissionActions()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(actions))
	for _, a := range actions {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(a), Value: string(a)})
	}
	return choices
}

func sub(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options:     options,
	}
}

func strOpt(name, description string, required bool, choices ...*discordgo.ApplicationCommandOptionChoice) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
		Choices:     choices,
	}
}

func userOpt(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func roleOpt(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func intOpt(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func boolOpt(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

// Commands returns every slash command the bot registers
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "staff",
			Description: "Manage firm staff",
			Options: []*discordgo.ApplicationCommandOption{
				sub("hire", "Hire a user into the firm",
					userOpt("user", "User to hire", true),
					strOpt("roblox-username", "Their Roblox username", true),
					strOpt("role", "Starting role", true, staffRoleChoices()...),
					strOpt("reason", "Reason for the hire", false),
				),
				sub("promote", "Promote a staff member",
					userOpt("user", "Staff member to promote", true),
					strOpt("role", "New role", true, staffRoleChoices()...),
					strOpt("reason", "Reason for the promotion", false),
				),
				sub("demote", "Demote a staff member",
					userOpt("user", "Staff member to demote", true),
					strOpt("role", "New role", true, staffRoleChoices()...),
					strOpt("reason", "Reason for the demotion", false),
				),
				sub("fire", "Terminate a staff member",
					userOpt("user", "Staff member to fire", true),
					strOpt("reason", "Reason for the termination", false),
				),
				sub("list", "List active staff by rank"),
				sub("info", "Show a staff member's record",
					userOpt("user", "Staff member", true),
				),
			},
		},
		{
			Name:        "job",
			Description: "Manage job postings",
			Options: []*discordgo.ApplicationCommandOption{
				sub("post", "Open a job posting for a staff role",
					strOpt("title", "Posting title", true),
					strOpt("role", "Staff role being hired for", true, staffRoleChoices()...),
					strOpt("description", "Posting description", false),
					roleOpt("discord-role", "Discord role granted on acceptance", false),
				),
				sub("edit", "Edit an open job posting",
					strOpt("job-id", "Job ID", true),
					strOpt("title", "New title", true),
					strOpt("description", "New description", false),
				),
				sub("close", "Close a job posting",
					strOpt("job-id", "Job ID", true),
				),
				sub("remove", "Delete a job posting",
					strOpt("job-id", "Job ID", true),
				),
				sub("list", "List job postings",
					boolOpt("open-only", "Only show open postings", false),
				),
				sub("info", "Show a job posting",
					strOpt("job-id", "Job ID", true),
				),
			},
		},
		{
			Name:        "case",
			Description: "Manage legal cases",
			Options: []*discordgo.ApplicationCommandOption{
				sub("open", "Request a new case",
					strOpt("title", "What the case is about", true),
					strOpt("description", "Details of the matter", false),
					strOpt("priority", "Case priority", false, priorityChoices()...),
				),
				sub("accept", "Accept a pending case and take the lead",
					strOpt("case-id", "Case ID", true),
				),
				sub("decline", "Decline a pending case",
					strOpt("case-id", "Case ID", true),
					strOpt("reason", "Why the case is declined", false),
				),
				sub("assign-lead", "Set the lead attorney",
					strOpt("case-id", "Case ID", true),
					userOpt("attorney", "Lead attorney", true),
				),
				sub("assign", "Add an attorney to the case",
					strOpt("case-id", "Case ID", true),
					userOpt("attorney", "Attorney to add", true),
				),
				sub("close", "Close a case with a result",
					strOpt("case-id", "Case ID", true),
					strOpt("result", "Outcome", true, caseResultChoices()...),
					strOpt("notes", "Closing notes", false),
				),
				sub("doc", "Attach a document to a case",
					strOpt("case-id", "Case ID", true),
					strOpt("title", "Document title", true),
					strOpt("content", "Document body", true),
				),
				sub("note", "Add a note to a case",
					strOpt("case-id", "Case ID", true),
					strOpt("content", "Note text", true),
					boolOpt("internal", "Visible to staff only", false),
				),
				sub("info", "Look up a case by number",
					strOpt("case-number", "Case number, e.g. AA-2026-0001-client", true),
				),
				sub("list", "List cases",
					strOpt("status", "Filter by status", false,
						&discordgo.ApplicationCommandOptionChoice{Name: "pending", Value: "pending"},
						&discordgo.ApplicationCommandOptionChoice{Name: "open", Value: "open"},
						&discordgo.ApplicationCommandOptionChoice{Name: "closed", Value: "closed"},
					),
				),
			},
		},
		{
			Name:        "apply",
			Description: "Apply to an open job posting",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "job-id",
					Description: "Job to apply for",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "roblox-username",
					Description: "Your Roblox username",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "answers",
					Description: "Answers, one per question, separated by |",
					Required:    true,
				},
			},
		},
		{
			Name:        "application",
			Description: "Review job applications",
			Options: []*discordgo.ApplicationCommandOption{
				sub("accept", "Accept an application and hire the applicant",
					strOpt("application-id", "Application ID", true),
				),
				sub("reject", "Reject an application",
					strOpt("application-id", "Application ID", true),
					strOpt("reason", "Why it was rejected", false),
				),
				sub("list", "List applications for a job",
					strOpt("job-id", "Job ID", true),
				),
			},
		},
		{
			Name:        "retainer",
			Description: "Manage retainer agreements",
			Options: []*discordgo.ApplicationCommandOption{
				sub("propose", "Send a retainer agreement to a client",
					userOpt("client", "Client to retain", true),
				),
				sub("sign", "Sign a retainer sent to you",
					strOpt("retainer-id", "Retainer ID", true),
					strOpt("signature", "Your Roblox username as signature", true),
				),
				sub("cancel", "Cancel a pending retainer",
					strOpt("retainer-id", "Retainer ID", true),
				),
				sub("list", "List retainers you have sent"),
			},
		},
		{
			Name:        "feedback",
			Description: "Rate the firm or a staff member",
			Options: []*discordgo.ApplicationCommandOption{
				sub("submit", "Submit a rating",
					intOpt("rating", "1 to 5 stars", true),
					strOpt("comment", "Optional comment", false),
					userOpt("staff", "Staff member; omit to rate the firm", false),
				),
				sub("stats", "Show rating statistics",
					userOpt("staff", "Staff member; omit for firm-wide", false),
				),
			},
		},
		{
			Name:        "remind",
			Description: "Personal reminders",
			Options: []*discordgo.ApplicationCommandOption{
				sub("set", "Schedule a reminder in this channel",
					strOpt("text", "What to be reminded of", true),
					strOpt("in", "When, e.g. 30m, 2h, 3d", true),
					strOpt("case-number", "Related case number", false),
				),
				sub("list", "List your pending reminders"),
				sub("cancel", "Cancel one of your reminders",
					strOpt("reminder-id", "Reminder ID", true),
				),
			},
		},
		{
			Name:        "permissions",
			Description: "Configure who can run what",
			Options: []*discordgo.ApplicationCommandOption{
				sub("set-roles", "Set the Discord roles allowed an action",
					strOpt("action", "Permission action", true, permissionActionChoices()...),
					roleOpt("discord-role", "Role to allow", true),
				),
				sub("grant-admin-role", "Grant admin to a Discord role",
					roleOpt("discord-role", "Role to grant", true),
				),
				sub("revoke-admin-role", "Revoke admin from a Discord role",
					roleOpt("discord-role", "Role to revoke", true),
				),
				sub("grant-admin-user", "Grant admin to a user",
					userOpt("user", "User to grant", true),
				),
				sub("revoke-admin-user", "Revoke admin from a user",
					userOpt("user", "User to revoke", true),
				),
				sub("view", "Show the current permission configuration"),
			},
		},
		{
			Name:        "setup",
			Description: "Server bootstrap and teardown",
			Options: []*discordgo.ApplicationCommandOption{
				sub("bootstrap", "Create the firm's roles, channels and job postings"),
				sub("wipe", "Delete all firm data and managed channels"),
				sub("rules", "Publish the server rules to the rules channel"),
			},
		},
		{
			Name:        "audit",
			Description: "Query the audit log",
			Options: []*discordgo.ApplicationCommandOption{
				sub("query", "Search recent audit entries",
					userOpt("actor", "Filter by actor", false),
					userOpt("target", "Filter by target", false),
					intOpt("limit", "Max entries (default 20)", false),
				),
			},
		},
		{
			Name:        "repair",
			Description: "Data integrity tooling",
			Options: []*discordgo.ApplicationCommandOption{
				sub("scan", "Scan for integrity issues"),
				sub("run", "Scan and auto-repair what can be repaired"),
			},
		},
	}
}

// ============================================================================
// Option accessors
// ============================================================================

func (req *Request) optString(name string) string {
	v, _ := req.Invocation.Options[name].(string)
	return v
}

// optInt tolerates both float64 (discordgo's JSON decoding) and int
func (req *Request) optInt(name string) int {
	switch v := req.Invocation.Options[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (req *Request) optBool(name string) bool {
	v, _ := req.Invocation.Options[name].(bool)
	return v
}
