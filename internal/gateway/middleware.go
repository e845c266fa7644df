package gateway

import (
	"context"
	"strings"

	"github.com/anarchy/associates/internal/model"
	"github.com/anarchy/associates/internal/validation"
)

// ValidateConfig selects which validations guard a route. Rules and
// CrossEntity are builders so they can read the parsed invocation.
type ValidateConfig struct {
	Permission  model.PermissionAction
	Rules       func(req *Request) []validation.Rule
	CrossEntity func(req *Request) *validation.CrossEntityCheck
	Custom      func(req *Request) []validation.Rule
}

// Validate runs the command validation pipeline before the handler. A
// failing result answers the interaction itself; guild-owner bypassable
// failures get confirm/cancel buttons instead of a plain rejection.
func Validate(validator *validation.CommandValidationService, cfg ValidateConfig) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) error {
			opts := validation.ValidateOptions{
				RequiredPermission: cfg.Permission,
			}
			if cfg.Rules != nil {
				opts.BusinessRules = cfg.Rules(req)
			}
			if cfg.CrossEntity != nil {
				opts.CrossEntity = cfg.CrossEntity(req)
			}
			if cfg.Custom != nil {
				opts.CustomRules = cfg.Custom(req)
			}
			if BypassApproved(ctx) {
				opts.SkipBusinessRules = true
				opts.BypassCache = true
			}

			result := validator.ValidateCommand(ctx, req.Validation, opts)
			if !result.IsValid {
				if result.RequiresConfirmation {
					return req.RespondBypassPrompt(result)
				}
				req.RespondError(strings.Join(result.Errors, "\n"))
				return nil
			}

			req.Warnings = append(req.Warnings, result.Warnings...)
			return next(ctx, req)
		}
	}
}

// RequireGuild rejects invocations outside a guild, such as DMs
func RequireGuild() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) error {
			if req.Invocation.GuildID == "" {
				req.RespondError("This command only works inside a server.")
				return nil
			}
			return next(ctx, req)
		}
	}
}

// RequireOwner rejects anyone but the guild owner before validation runs
func RequireOwner() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) error {
			if !req.Permission.IsGuildOwner {
				req.RespondError("Only the server owner can run this command.")
				return nil
			}
			return next(ctx, req)
		}
	}
}
