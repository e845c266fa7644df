package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/anarchy/associates/internal/model"
	"github.com/anarchy/associates/internal/validation"
)

// Request carries everything a command handler needs for one interaction
type Request struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Invocation  model.Invocation
	Permission  model.PermissionContext
	Validation  *model.CommandValidationContext
	// Warnings collected by the validation middleware, surfaced alongside
	// the handler's own response.
	Warnings []string
	// followup is set on bypass replays, where the component interaction
	// was already acknowledged and only followup messages are allowed.
	followup bool
}

// Handler executes one command after its middleware pipeline passes
type Handler func(ctx context.Context, req *Request) error

// Middleware wraps a handler with a pre-execution check. Middleware run
// in registration order; the first one to answer the interaction stops
// the chain.
type Middleware func(Handler) Handler

// Route binds a command (and optional subcommand) to its pipeline
type Route struct {
	Command    string
	Subcommand string // empty matches any subcommand
	Middleware []Middleware
	Handler    Handler
}

// OwnerResolver reports guild ownership for permission contexts
type OwnerResolver interface {
	IsGuildOwner(guildID, userID string) bool
}

type bypassKey struct{}

// withBypassApproved marks a replayed invocation whose failing business
// rules were explicitly bypassed by the guild owner
func withBypassApproved(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey{}, true)
}

// BypassApproved reports whether this invocation replays a confirmed bypass
func BypassApproved(ctx context.Context) bool {
	approved, _ := ctx.Value(bypassKey{}).(bool)
	return approved
}

// Router dispatches interactions to registered command pipelines and
// drives the bypass confirmation flow.
type Router struct {
	validator *validation.CommandValidationService
	owner     OwnerResolver
	routes    map[string]Handler
	timeout   time.Duration
}

// NewRouter creates an empty command router
func NewRouter(validator *validation.CommandValidationService, owner OwnerResolver) *Router {
	return &Router{
		validator: validator,
		owner:     owner,
		routes:    make(map[string]Handler),
		timeout:   10 * time.Second,
	}
}

// Register adds a route, chaining its middleware in listed order
func (r *Router) Register(route Route) {
	handler := route.Handler
	for i := len(route.Middleware) - 1; i >= 0; i-- {
		handler = route.Middleware[i](handler)
	}
	r.routes[routeKey(route.Command, route.Subcommand)] = handler
}

func routeKey(command, subcommand string) string {
	if subcommand == "" {
		return command
	}
	return command + "/" + subcommand
}

// HandleInteraction is the discordgo handler entry point
func (r *Router) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		r.handleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		r.handleComponent(s, i)
	}
}

func (r *Router) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	req := r.buildRequest(s, i)
	handler, ok := r.lookup(req.Invocation)
	if !ok {
		slog.Warn("unknown command",
			slog.String("command", req.Invocation.CommandName),
			slog.String("subcommand", req.Invocation.SubcommandName),
		)
		return
	}

	if err := handler(ctx, req); err != nil {
		slog.Error("command failed",
			slog.String("command", req.Invocation.CommandName),
			slog.String("subcommand", req.Invocation.SubcommandName),
			slog.String("guild_id", req.Invocation.GuildID),
			slog.String("user_id", req.Invocation.UserID),
			slog.String("error", err.Error()),
		)
		req.RespondError(UserMessage(err))
	}
}

func (r *Router) lookup(inv model.Invocation) (Handler, bool) {
	if h, ok := r.routes[routeKey(inv.CommandName, inv.SubcommandName)]; ok {
		return h, true
	}
	h, ok := r.routes[inv.CommandName]
	return h, ok
}

// handleComponent drives the guild-owner bypass confirmation buttons.
// Confirm consumes the pending requests and replays the original command
// with its failing rules skipped; cancel just drops them.
func (r *Router) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if !strings.HasPrefix(customID, "bypass:") {
		return
	}

	userID := interactionUserID(i)
	if customID == "bypass:cancel" {
		r.validator.HandleBypassConfirmation(userID)
		respondUpdate(s, i, "Bypass cancelled. Nothing was changed.")
		return
	}

	requests, ok := r.validator.HandleBypassConfirmation(userID)
	if !ok {
		respondUpdate(s, i, "No pending bypass to confirm; it may have expired.")
		return
	}

	respondUpdate(s, i, "Bypass confirmed. Re-running the command.")

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	ctx = withBypassApproved(ctx)

	for _, request := range requests {
		vctx := request.Context
		inv := model.Invocation{
			GuildID:        vctx.Metadata.GuildID,
			UserID:         vctx.Metadata.UserID,
			ChannelID:      vctx.Metadata.ChannelID,
			CommandName:    vctx.CommandName,
			SubcommandName: vctx.SubcommandName,
			Options:        vctx.Options,
		}
		handler, found := r.lookup(inv)
		if !found {
			continue
		}
		r.validator.ClearValidationCache(&vctx)
		req := &Request{
			Session:     s,
			Interaction: i,
			Invocation:  inv,
			Permission:  vctx.PermissionContext,
			Validation:  &vctx,
			followup:    true,
		}
		if err := handler(ctx, req); err != nil {
			slog.Error("bypass replay failed",
				slog.String("command", inv.CommandName),
				slog.String("user_id", inv.UserID),
				slog.String("error", err.Error()),
			)
			req.RespondError(UserMessage(err))
		}
	}
}

// buildRequest normalizes the interaction into the transport-neutral
// invocation plus permission and validation contexts
func (r *Router) buildRequest(s *discordgo.Session, i *discordgo.InteractionCreate) *Request {
	data := i.ApplicationCommandData()
	subcommand, options := flattenOptions(data.Options)

	inv := model.Invocation{
		GuildID:        i.GuildID,
		UserID:         interactionUserID(i),
		ChannelID:      i.ChannelID,
		CommandName:    data.Name,
		SubcommandName: subcommand,
		Options:        options,
	}

	pctx := model.PermissionContext{
		GuildID: i.GuildID,
		UserID:  inv.UserID,
	}
	if i.Member != nil {
		pctx.UserRoles = i.Member.Roles
	}
	if r.owner != nil {
		pctx.IsGuildOwner = r.owner.IsGuildOwner(i.GuildID, inv.UserID)
	}

	vctx := validation.ExtractValidationContext(inv, pctx)
	return &Request{
		Session:     s,
		Interaction: i,
		Invocation:  inv,
		Permission:  pctx,
		Validation:  &vctx,
	}
}

// flattenOptions resolves the subcommand layer and flattens option values
// into a name→value map
func flattenOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) (string, map[string]any) {
	options := make(map[string]any)
	subcommand := ""

	for _, opt := range opts {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionSubCommand:
			subcommand = opt.Name
			for _, nested := range opt.Options {
				options[nested.Name] = nested.Value
			}
		case discordgo.ApplicationCommandOptionSubCommandGroup:
			for _, sub := range opt.Options {
				subcommand = opt.Name + " " + sub.Name
				for _, nested := range sub.Options {
					options[nested.Name] = nested.Value
				}
			}
		default:
			options[opt.Name] = opt.Value
		}
	}
	return subcommand, options
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// ============================================================================
// Responses
// ============================================================================

// Respond answers the interaction with a visible message
func (req *Request) Respond(content string) error {
	if len(req.Warnings) > 0 {
		content = content + "\n⚠️ " + strings.Join(req.Warnings, "\n⚠️ ")
	}
	return req.respond(content, false)
}

// RespondEphemeral answers the interaction visibly only to the actor
func (req *Request) RespondEphemeral(content string) error {
	if len(req.Warnings) > 0 {
		content = content + "\n⚠️ " + strings.Join(req.Warnings, "\n⚠️ ")
	}
	return req.respond(content, true)
}

// RespondError reports a failure to the actor only
func (req *Request) RespondError(content string) {
	if err := req.respond("❌ "+content, true); err != nil {
		slog.Warn("interaction error response failed", slog.String("error", err.Error()))
	}
}

func (req *Request) respond(content string, ephemeral bool) error {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	if req.followup {
		_, err := req.Session.FollowupMessageCreate(req.Interaction.Interaction, true, &discordgo.WebhookParams{
			Content: content,
			Flags:   flags,
		})
		return err
	}
	return req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: flags},
	})
}

// RespondBypassPrompt shows the failed rules with confirm/cancel buttons
// for the guild owner
func (req *Request) RespondBypassPrompt(result validation.CommandValidationResult) error {
	var b strings.Builder
	b.WriteString("The following checks failed:\n")
	for _, msg := range result.Errors {
		fmt.Fprintf(&b, "• %s\n", msg)
	}
	b.WriteString("\nAs the guild owner you may bypass them. Proceed?")

	return req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: b.String(),
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{Label: "Bypass", Style: discordgo.DangerButton, CustomID: "bypass:confirm"},
						discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: "bypass:cancel"},
					},
				},
			},
		},
	})
}

func respondUpdate(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{Content: content, Components: []discordgo.MessageComponent{}},
	})
	if err != nil {
		slog.Warn("component response failed", slog.String("error", err.Error()))
	}
}
