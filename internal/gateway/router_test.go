package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/anarchy/associates/internal/model"
	"github.com/anarchy/associates/internal/service"
)

// ============================================================================
// Option flattening
// ============================================================================

func TestFlattenOptions_Subcommand(t *testing.T) {
	t.Parallel()

	sub, opts := flattenOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		{
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Name: "hire",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Value: "user-1"},
				{Type: discordgo.ApplicationCommandOptionString, Name: "role", Value: "Paralegal"},
			},
		},
	})

	if sub != "hire" {
		t.Errorf("subcommand = %q, want %q", sub, "hire")
	}
	if opts["user"] != "user-1" || opts["role"] != "Paralegal" {
		t.Errorf("options = %v", opts)
	}
}

func TestFlattenOptions_TopLevelOptions(t *testing.T) {
	t.Parallel()

	sub, opts := flattenOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		{Type: discordgo.ApplicationCommandOptionString, Name: "job-id", Value: "abc"},
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "rating", Value: float64(5)},
	})

	if sub != "" {
		t.Errorf("subcommand = %q, want empty", sub)
	}
	if opts["job-id"] != "abc" {
		t.Errorf("job-id = %v", opts["job-id"])
	}
}

func TestFlattenOptions_SubcommandGroup(t *testing.T) {
	t.Parallel()

	sub, opts := flattenOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		{
			Type: discordgo.ApplicationCommandOptionSubCommandGroup,
			Name: "admin",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{
					Type: discordgo.ApplicationCommandOptionSubCommand,
					Name: "grant",
					Options: []*discordgo.ApplicationCommandInteractionDataOption{
						{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Value: "user-2"},
					},
				},
			},
		},
	})

	if sub != "admin grant" {
		t.Errorf("subcommand = %q, want %q", sub, "admin grant")
	}
	if opts["user"] != "user-2" {
		t.Errorf("user = %v", opts["user"])
	}
}

// ============================================================================
// Route lookup
// ============================================================================

func TestRouter_LookupPrefersSubcommandRoute(t *testing.T) {
	t.Parallel()

	r := NewRouter(nil, nil)
	hit := ""
	r.Register(Route{Command: "staff", Subcommand: "hire", Handler: func(ctx context.Context, req *Request) error {
		hit = "staff/hire"
		return nil
	}})
	r.Register(Route{Command: "apply", Handler: func(ctx context.Context, req *Request) error {
		hit = "apply"
		return nil
	}})

	h, ok := r.lookup(model.Invocation{CommandName: "staff", SubcommandName: "hire"})
	if !ok {
		t.Fatal("lookup(staff/hire) not found")
	}
	_ = h(context.Background(), nil)
	if hit != "staff/hire" {
		t.Errorf("dispatched %q, want staff/hire", hit)
	}

	h, ok = r.lookup(model.Invocation{CommandName: "apply"})
	if !ok {
		t.Fatal("lookup(apply) not found")
	}
	_ = h(context.Background(), nil)
	if hit != "apply" {
		t.Errorf("dispatched %q, want apply", hit)
	}

	if _, ok := r.lookup(model.Invocation{CommandName: "unknown"}); ok {
		t.Error("lookup(unknown) found a handler")
	}
}

func TestRouter_MiddlewareRunsInRegistrationOrder(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, req *Request) error {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	r := NewRouter(nil, nil)
	r.Register(Route{
		Command:    "staff",
		Subcommand: "hire",
		Middleware: []Middleware{tag("first"), tag("second")},
		Handler: func(ctx context.Context, req *Request) error {
			order = append(order, "handler")
			return nil
		},
	})

	h, _ := r.lookup(model.Invocation{CommandName: "staff", SubcommandName: "hire"})
	if err := h(context.Background(), nil); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	want := []string{"first", "second", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

// ============================================================================
// Bypass replay marker
// ============================================================================

func TestBypassApproved(t *testing.T) {
	t.Parallel()

	if BypassApproved(context.Background()) {
		t.Error("BypassApproved(background) = true")
	}
	if !BypassApproved(withBypassApproved(context.Background())) {
		t.Error("BypassApproved(marked context) = false")
	}
}

// ============================================================================
// Error mapping
// ============================================================================

func TestUserMessage(t *testing.T) {
	t.Parallel()

	if got := UserMessage(service.ErrAlreadyStaff); got != "User is already an active staff member." {
		t.Errorf("UserMessage(ErrAlreadyStaff) = %q", got)
	}
	if got := UserMessage(service.ErrInsufficientRank); got == "" || got[0] != 'Y' {
		t.Errorf("UserMessage(ErrInsufficientRank) = %q, want override text", got)
	}
	generic := UserMessage(context.DeadlineExceeded)
	if generic != "Something went wrong handling that command. Try again shortly." {
		t.Errorf("UserMessage(unknown) = %q", generic)
	}
}

// ============================================================================
// Delay parsing
// ============================================================================

func TestParseDelay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Duration
	}{
		{"30m", 30 * time.Minute},
		{"2h", 2 * time.Hour},
		{"3d", 72 * time.Hour},
		{"1.5h", 90 * time.Minute},
	}
	for _, tc := range cases {
		got, err := parseDelay(tc.in)
		if err != nil {
			t.Errorf("parseDelay(%q) error = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseDelay(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := parseDelay("soon"); err == nil {
		t.Error("parseDelay(soon) error = nil, want parse error")
	}
}
