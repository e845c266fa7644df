package gateway

import (
	"context"

	"github.com/anarchy/associates/internal/model"
	"github.com/anarchy/associates/internal/service"
	"github.com/anarchy/associates/internal/validation"
)

// Handlers bundles the services the command handlers call
type Handlers struct {
	Staff        *service.StaffService
	Jobs         *service.JobService
	Cases        *service.CaseService
	Applications *service.ApplicationService
	Retainers    *service.RetainerService
	Feedback     *service.FeedbackService
	Reminders    *service.ReminderService
	Permissions  *service.PermissionService
	Setup        *service.AnarchyServerSetupService
	Rules        *service.RulesChannelService
	Audit        *service.AuditService

	BusinessRules *validation.BusinessRuleService
	CrossEntity   *validation.CrossEntityService
}

// RegisterRoutes wires every command pipeline into the router. Validation
// middleware runs before each handler; owner-only commands are gated before
// validation so the error is immediate.
func (h *Handlers) RegisterRoutes(r *Router, validator *validation.CommandValidationService) {
	guild := RequireGuild()

	validate := func(cfg ValidateConfig) Middleware {
		return Validate(validator, cfg)
	}

	// ----- staff -----

	r.Register(Route{Command: "staff", Subcommand: "hire", Handler: h.StaffHire,
		Middleware: []Middleware{guild, validate(ValidateConfig{
			Permission: model.PermissionHR,
			Rules: func(req *Request) []validation.Rule {
				role := model.StaffRole(req.optString("role"))
				return []validation.Rule{h.roleLimitRule(role)}
			},
		})},
	})
	r.Register(Route{Command: "staff", Subcommand: "promote", Handler: h.StaffPromote,
		Middleware: []Middleware{guild, validate(ValidateConfig{
			Permission: model.PermissionHR,
			Rules: func(req *Request) []validation.Rule {
				role := model.StaffRole(req.optString("role"))
				return []validation.Rule{h.roleLimitRule(role)}
			},
		})},
	})
	r.Register(Route{Command: "staff", Subcommand: "demote", Handler: h.StaffDemote,
		Middleware: []Middleware{guild, validate(ValidateConfig{
			Permission: model.PermissionHR,
			Rules: func(req *Request) []validation.Rule {
				role := model.StaffRole(req.optString("role"))
				return []validation.Rule{h.roleLimitRule(role)}
			},
		})},
	})
	r.Register(Route{Command: "staff", Subcommand: "fire", Handler: h.StaffFire,
		Middleware: []Middleware{guild, validate(ValidateConfig{
			Permission: model.PermissionHR,
			CrossEntity: func(req *Request) *validation.CrossEntityCheck {
				return &validation.CrossEntityCheck{
					EntityType: validation.EntityStaff,
					Operation:  validation.OperationDelete,
					Payload:    map[string]any{"userId": req.optString("user")},
				}
			},
		})},
	})
	r.Register(Route{Command: "staff", Subcommand: "list", Handler: h.StaffList,
		Middleware: []Middleware{guild},
	})
	r.Register(Route{Command: "staff", Subcommand: "info", Handler: h.StaffInfo,
		Middleware: []Middleware{guild},
	})

	// ----- jobs -----

	hrOnly := validate(ValidateConfig{Permission: model.PermissionHR})

	r.Register(Route{Command: "job", Subcommand: "post", Handler: h.JobPost,
		Middleware: []Middleware{guild, hrOnly}})
	r.Register(Route{Command: "job", Subcommand: "edit", Handler: h.JobEdit,
		Middleware: []Middleware{guild, hrOnly}})
	r.Register(Route{Command: "job", Subcommand: "close", Handler: h.JobClose,
		Middleware: []Middleware{guild, validate(ValidateConfig{
			Permission: model.PermissionHR,
			CrossEntity: func(req *Request) *validation.CrossEntityCheck {
				return &validation.CrossEntityCheck{
					EntityType: validation.EntityJob,
					Operation:  validation.OperationClose,
					Payload:    map[string]any{"jobId": req.optString("job-id")},
				}
			},
		})},
	})
	r.Register(Route{Command: "job", Subcommand: "remove", Handler: h.JobRemove,
		Middleware: []Middleware{guild, validate(ValidateConfig{
			Permission: model.PermissionHR,
			CrossEntity: func(req *Request) *validation.CrossEntityCheck {
				return &validation.CrossEntityCheck{
					EntityType: validation.EntityJob,
					Operation:  validation.OperationDelete,
					Payload:    map[string]any{"jobId": req.optString("job-id")},
				}
			},
		})},
	})
	r.Register(Route{Command: "job", Subcommand: "list", Handler: h.JobList,
		Middleware: []Middleware{guild}})
	r.Register(Route{Command: "job", Subcommand: "info", Handler: h.JobInfo,
		Middleware: []Middleware{guild}})

	// ----- cases -----

	caseOnly := validate(ValidateConfig{Permission: model.PermissionCase})

	r.Register(Route{Command: "case", Subcommand: "open", Handler: h.CaseOpen,
		Middleware: []Middleware{guild, validate(ValidateConfig{
			Rules: func(req *Request) []validation.Rule {
				return []validation.Rule{h.clientCaseLimitRule(req.Invocation.UserID)}
			},
		})},
	})
	r.Register(Route{Command: "case", Subcommand: "accept", Handler: h.CaseAccept,
		Middleware: []Middleware{guild, validate(ValidateConfig{
			Permission: model.PermissionCase,
			Rules: func(req *Request) []validation.Rule {
				return []validation.Rule{h.staffMemberRule(req.Invocation.UserID)}
			},
		})},
	})
	r.Register(Route{Command: "case", Subcommand: "decline", Handler: h.CaseDecline,
		Middleware: []Middleware{guild, caseOnly}})
	r.Register(Route{Command: "case", Subcommand: "assign-lead", Handler: h.CaseAssignLead,
		Middleware: []Middleware{guild, caseOnly}})
	r.Register(Route{Command: "case", Subcommand: "assign", Handler: h.CaseAssign,
		Middleware: []Middleware{guild, caseOnly}})
	r.Register(Route{Command: "case", Subcommand: "close", Handler: h.CaseClose,
		Middleware: []Middleware{guild, caseOnly}})
	r.Register(Route{Command: "case", Subcommand: "doc", Handler: h.CaseDoc,
		Middleware: []Middleware{guild, caseOnly}})
	r.Register(Route{Command: "case", Subcommand: "note", Handler: h.CaseNote,
		Middleware: []Middleware{guild, caseOnly}})
	r.Register(Route{Command: "case", Subcommand: "info", Handler: h.CaseInfo,
		Middleware: []Middleware{guild}})
	r.Register(Route{Command: "case", Subcommand: "list", Handler: h.CaseList,
		Middleware: []Middleware{guild}})

	// ----- applications -----

	r.Register(Route{Command: "apply", Handler: h.ApplySubmit,
		Middleware: []Middleware{guild}})
	r.Register(Route{Command: "application", Subcommand: "accept", Handler: h.ApplicationAccept,
		Middleware: []Middleware{guild, validate(ValidateConfig{
			Permission: model.PermissionHR,
			Rules: func(req *Request) []validation.Rule {
				// Accepting hires the applicant, so the destination
				// role's headcount limit applies here too.
				return h.applicationRoleLimitRules(req)
			},
		})},
	})
	r.Register(Route{Command: "application", Subcommand: "reject", Handler: h.ApplicationReject,
		Middleware: []Middleware{guild, hrOnly}})
	r.Register(Route{Command: "application", Subcommand: "list", Handler: h.ApplicationList,
		Middleware: []Middleware{guild, hrOnly}})

	// ----- retainers -----

	retainerOnly := validate(ValidateConfig{Permission: model.PermissionRetainer})

	r.Register(Route{Command: "retainer", Subcommand: "propose", Handler: h.RetainerPropose,
		Middleware: []Middleware{guild, validate(ValidateConfig{
			Permission: model.PermissionRetainer,
			Rules: func(req *Request) []validation.Rule {
				return []validation.Rule{h.staffMemberRule(req.Invocation.UserID)}
			},
		})},
	})
	r.Register(Route{Command: "retainer", Subcommand: "sign", Handler: h.RetainerSign,
		Middleware: []Middleware{guild}})
	r.Register(Route{Command: "retainer", Subcommand: "cancel", Handler: h.RetainerCancel,
		Middleware: []Middleware{guild, retainerOnly}})
	r.Register(Route{Command: "retainer", Subcommand: "list", Handler: h.RetainerList,
		Middleware: []Middleware{guild, retainerOnly}})

	// ----- feedback, reminders -----

	r.Register(Route{Command: "feedback", Subcommand: "submit", Handler: h.FeedbackSubmit,
		Middleware: []Middleware{guild}})
	r.Register(Route{Command: "feedback", Subcommand: "stats", Handler: h.FeedbackStats,
		Middleware: []Middleware{guild}})

	r.Register(Route{Command: "remind", Subcommand: "set", Handler: h.ReminderSet,
		Middleware: []Middleware{guild}})
	r.Register(Route{Command: "remind", Subcommand: "list", Handler: h.ReminderList,
		Middleware: []Middleware{guild}})
	r.Register(Route{Command: "remind", Subcommand: "cancel", Handler: h.ReminderCancel,
		Middleware: []Middleware{guild}})

	// ----- admin -----

	configOnly := validate(ValidateConfig{Permission: model.PermissionConfig})

	r.Register(Route{Command: "permissions", Subcommand: "set-roles", Handler: h.PermissionsSetRoles,
		Middleware: []Middleware{guild, configOnly}})
	r.Register(Route{Command: "permissions", Subcommand: "grant-admin-role", Handler: h.PermissionsGrantAdminRole,
		Middleware: []Middleware{guild, configOnly}})
	r.Register(Route{Command: "permissions", Subcommand: "revoke-admin-role", Handler: h.PermissionsRevokeAdminRole,
		Middleware: []Middleware{guild, configOnly}})
	r.Register(Route{Command: "permissions", Subcommand: "grant-admin-user", Handler: h.PermissionsGrantAdminUser,
		Middleware: []Middleware{guild, configOnly}})
	r.Register(Route{Command: "permissions", Subcommand: "revoke-admin-user", Handler: h.PermissionsRevokeAdminUser,
		Middleware: []Middleware{guild, configOnly}})
	r.Register(Route{Command: "permissions", Subcommand: "view", Handler: h.PermissionsView,
		Middleware: []Middleware{guild, configOnly}})

	r.Register(Route{Command: "setup", Subcommand: "bootstrap", Handler: h.SetupBootstrap,
		Middleware: []Middleware{guild, RequireOwner()}})
	r.Register(Route{Command: "setup", Subcommand: "wipe", Handler: h.SetupWipe,
		Middleware: []Middleware{guild, RequireOwner()}})
	r.Register(Route{Command: "setup", Subcommand: "rules", Handler: h.SetupRules,
		Middleware: []Middleware{guild, configOnly}})

	r.Register(Route{Command: "audit", Subcommand: "query", Handler: h.AuditQuery,
		Middleware: []Middleware{guild, validate(ValidateConfig{Permission: model.PermissionAdmin})}})

	repairOnly := validate(ValidateConfig{Permission: model.PermissionRepair})
	r.Register(Route{Command: "repair", Subcommand: "scan", Handler: h.RepairScan,
		Middleware: []Middleware{guild, repairOnly}})
	r.Register(Route{Command: "repair", Subcommand: "run", Handler: h.RepairRun,
		Middleware: []Middleware{guild, repairOnly}})
}

// ============================================================================
// Rule builders
// ============================================================================

func (h *Handlers) roleLimitRule(role model.StaffRole) validation.Rule {
	return validation.Rule{
		Name:     "role-limit",
		Priority: 100,
		Validate: func(ctx context.Context, vctx *model.CommandValidationContext) model.ValidationResult {
			return h.BusinessRules.ValidateRoleLimit(ctx, &vctx.PermissionContext, role)
		},
	}
}

func (h *Handlers) clientCaseLimitRule(clientID string) validation.Rule {
	return validation.Rule{
		Name:     "client-case-limit",
		Priority: 100,
		Validate: func(ctx context.Context, vctx *model.CommandValidationContext) model.ValidationResult {
			return h.BusinessRules.ValidateClientCaseLimit(ctx, &vctx.PermissionContext, clientID)
		},
	}
}

func (h *Handlers) staffMemberRule(userID string) validation.Rule {
	return validation.Rule{
		Name:     "staff-member",
		Priority: 90,
		Validate: func(ctx context.Context, vctx *model.CommandValidationContext) model.ValidationResult {
			return h.BusinessRules.ValidateStaffMember(ctx, &vctx.PermissionContext, userID)
		},
	}
}

// applicationRoleLimitRules resolves the application's job to find the role
// being hired into. Resolution failures are left to the handler, which will
// report the missing application properly.
func (h *Handlers) applicationRoleLimitRules(req *Request) []validation.Rule {
	return []validation.Rule{{
		Name:     "role-limit",
		Priority: 100,
		Validate: func(ctx context.Context, vctx *model.CommandValidationContext) model.ValidationResult {
			app, err := h.Applications.Info(ctx, req.optString("application-id"))
			if err != nil || app == nil {
				return model.ValidationResult{Valid: true}
			}
			job, err := h.Jobs.Info(ctx, app.JobID)
			if err != nil || job == nil {
				return model.ValidationResult{Valid: true}
			}
			return h.BusinessRules.ValidateRoleLimit(ctx, &vctx.PermissionContext, job.StaffRole)
		},
	}}
}
