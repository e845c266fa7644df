package validation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anarchy/associates/internal/model"
)

// Rule is an ad hoc validation step supplied by a command handler. Rules
// run in descending priority order and are never short-circuited.
type Rule struct {
	Name     string
	Priority int
	Validate func(ctx context.Context, vctx *model.CommandValidationContext) model.ValidationResult
}

// CrossEntityCheck requests integrity validation for a destructive operation
type CrossEntityCheck struct {
	EntityType string
	Operation  string
	Payload    map[string]any
}

// ValidateOptions selects which validations run for one command invocation
type ValidateOptions struct {
	// RequiredPermission gates the command; empty skips the permission rule.
	RequiredPermission model.PermissionAction
	// SkipPermission suppresses the permission rule even when set.
	SkipPermission bool
	// BusinessRules run unless SkipBusinessRules is set (a confirmed bypass
	// re-invokes the command with the failing rules skipped).
	BusinessRules     []Rule
	SkipBusinessRules bool
	// CrossEntity, when non-nil, runs integrity checks for destructive ops.
	CrossEntity *CrossEntityCheck
	// CustomRules always run.
	CustomRules []Rule
	// BypassCache forces re-evaluation even when a cached result exists.
	BypassCache bool
}

// CommandValidationResult is the aggregate outcome of ValidateCommand
type CommandValidationResult struct {
	IsValid              bool
	Errors               []string
	Warnings             []string
	RequiresConfirmation bool
	BypassRequests       []model.BypassRequest
}

// Bounds for the pending-bypass store and result cache
type Limits struct {
	CacheTTL         time.Duration
	CacheMaxEntries  int
	BypassTTL        time.Duration
	BypassMaxPerUser int
}

// CommandValidationService is the single entry point command handlers call
// before mutating state. One long-lived instance owns the result cache and
// the pending-bypass store; both are TTL- and size-bounded.
type CommandValidationService struct {
	rules *BusinessRuleService
	cross *CrossEntityService
	cache *resultCache

	bypassTTL        time.Duration
	bypassMaxPerUser int

	mu      sync.Mutex
	pending map[string][]model.BypassRequest // actor userID -> pending bypasses
}

// NewCommandValidationService creates a new command validation service
func NewCommandValidationService(rules *BusinessRuleService, cross *CrossEntityService, limits Limits) *CommandValidationService {
	if limits.BypassTTL <= 0 {
		limits.BypassTTL = 10 * time.Minute
	}
	if limits.BypassMaxPerUser <= 0 {
		limits.BypassMaxPerUser = 25
	}
	return &CommandValidationService{
		rules:            rules,
		cross:            cross,
		cache:            newResultCache(limits.CacheTTL, limits.CacheMaxEntries),
		bypassTTL:        limits.BypassTTL,
		bypassMaxPerUser: limits.BypassMaxPerUser,
		pending:          make(map[string][]model.BypassRequest),
	}
}

// ValidateCommand runs the selected validations and aggregates the outcome.
// Every error from every sub-validation is collected; nothing
// short-circuits, so the actor sees all problems at once. Identical
// invocations within the cache TTL are served from cache without
// re-running any evaluator.
func (s *CommandValidationService) ValidateCommand(ctx context.Context, vctx *model.CommandValidationContext, opts ValidateOptions) CommandValidationResult {
	now := time.Now().UTC()
	key := vctx.CacheKey()

	if !opts.BypassCache {
		if cached, ok := s.cache.get(key, now); ok {
			return cached
		}
	}

	var results []model.ValidationResult

	if opts.RequiredPermission != "" && !opts.SkipPermission {
		results = append(results, s.rules.ValidatePermission(ctx, &vctx.PermissionContext, opts.RequiredPermission))
	}

	if !opts.SkipBusinessRules {
		for _, rule := range sortByPriority(opts.BusinessRules) {
			results = append(results, rule.Validate(ctx, vctx))
		}
	}

	if opts.CrossEntity != nil && s.cross != nil {
		findings := s.cross.ValidateBeforeOperation(ctx, opts.CrossEntity.EntityType, opts.CrossEntity.Operation, opts.CrossEntity.Payload, &vctx.PermissionContext)
		results = append(results, resultFromFindings(findings))
	}

	for _, rule := range sortByPriority(opts.CustomRules) {
		results = append(results, rule.Validate(ctx, vctx))
	}

	aggregate := CommandValidationResult{IsValid: true}
	for _, r := range results {
		if !r.Valid {
			aggregate.IsValid = false
		}
		aggregate.Errors = append(aggregate.Errors, r.Errors...)
		aggregate.Warnings = append(aggregate.Warnings, r.Warnings...)

		if !r.Valid && r.BypassAvailable && vctx.PermissionContext.IsGuildOwner {
			req := model.BypassRequest{
				Token:     uuid.NewString(),
				Result:    r,
				Context:   *vctx,
				CreatedAt: now,
			}
			aggregate.RequiresConfirmation = true
			aggregate.BypassRequests = append(aggregate.BypassRequests, req)
			s.addPending(vctx.PermissionContext.UserID, req, now)
		}
	}

	// Results computed with evaluators skipped must never be served to an
	// ordinary invocation: the cache key encodes only the context, so a
	// rules-skipped aggregate written here would let the next identical
	// call pass with nothing evaluated.
	if !opts.SkipPermission && !opts.SkipBusinessRules && !opts.BypassCache {
		s.cache.put(key, aggregate, now)
	}
	return aggregate
}

// HandleBypassConfirmation consumes the actor's pending bypass requests.
// It returns the consumed requests and whether any existed; the caller
// replays the original command with the failing rules skipped. It never
// performs the mutation itself.
func (s *CommandValidationService) HandleBypassConfirmation(userID string) ([]model.BypassRequest, bool) {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	requests := s.pending[userID]
	delete(s.pending, userID)

	live := requests[:0]
	for _, r := range requests {
		if now.Sub(r.CreatedAt) <= s.bypassTTL {
			live = append(live, r)
		}
	}
	if len(live) == 0 {
		return nil, false
	}
	return live, true
}

// PendingBypasses returns a copy of the actor's live pending requests
// without consuming them
func (s *CommandValidationService) PendingBypasses(userID string) []model.BypassRequest {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	var live []model.BypassRequest
	for _, r := range s.pending[userID] {
		if now.Sub(r.CreatedAt) <= s.bypassTTL {
			live = append(live, r)
		}
	}
	return live
}

// ClearValidationCache removes the entry for the given context, or empties
// the whole cache when vctx is nil
func (s *CommandValidationService) ClearValidationCache(vctx *model.CommandValidationContext) {
	if vctx == nil {
		s.cache.clear()
		return
	}
	s.cache.remove(vctx.CacheKey())
}

func (s *CommandValidationService) addPending(userID string, req model.BypassRequest, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := make([]model.BypassRequest, 0, len(s.pending[userID])+1)
	for _, r := range s.pending[userID] {
		if now.Sub(r.CreatedAt) <= s.bypassTTL {
			live = append(live, r)
		}
	}
	live = append(live, req)
	if len(live) > s.bypassMaxPerUser {
		live = live[len(live)-s.bypassMaxPerUser:]
	}
	s.pending[userID] = live
}

// resultFromFindings folds integrity findings into a ValidationResult:
// critical findings block, warnings surface
func resultFromFindings(findings []model.IntegrityFinding) model.ValidationResult {
	result := model.ValidationResult{Valid: true}
	for _, f := range findings {
		switch f.Severity {
		case model.SeverityCritical:
			result.Valid = false
			result.Errors = append(result.Errors, f.Message)
		case model.SeverityWarning:
			result.Warnings = append(result.Warnings, f.Message)
		}
	}
	return result
}

func sortByPriority(rules []Rule) []Rule {
	if len(rules) < 2 {
		return rules
	}
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return sorted
}
