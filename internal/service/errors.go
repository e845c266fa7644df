package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in command handlers predictable.

// ===== Staff Errors =====
var (
	ErrStaffNotFound          = errors.New("staff member not found")
	ErrAlreadyStaff           = errors.New("user is already an active staff member")
	ErrNotStaff               = errors.New("user is not an active staff member")
	ErrRobloxUsernameTaken    = errors.New("roblox username is already registered to another staff member")
	ErrRobloxUsernameRequired = errors.New("roblox username is required")
	ErrInvalidStaffRole       = errors.New("unknown staff role")
	ErrSelfAction             = errors.New("cannot perform this action on yourself")
	ErrInsufficientRank       = errors.New("your rank is not high enough for this action")
	ErrAlreadyAtTop           = errors.New("already at the highest role")
	ErrAlreadyAtBottom        = errors.New("already at the lowest role")
	ErrNotPromotion           = errors.New("target role is not above the current role")
	ErrNotDemotion            = errors.New("target role is not below the current role")
)

// ===== Job Errors =====
var (
	ErrJobNotFound      = errors.New("job not found")
	ErrJobAlreadyOpen   = errors.New("an open job already exists for this role")
	ErrJobClosed        = errors.New("job is closed")
	ErrJobTitleRequired = errors.New("job title is required")
	ErrJobTitleTooLong  = errors.New("job title exceeds maximum length")
	ErrJobDescTooLong   = errors.New("job description exceeds maximum length")
	ErrTooManyQuestions = errors.New("too many custom questions")
)

// ===== Case Errors =====
var (
	ErrCaseNotFound      = errors.New("case not found")
	ErrCaseNotOpen       = errors.New("case is not open")
	ErrCaseNotPending    = errors.New("case is not awaiting review")
	ErrCaseTitleRequired = errors.New("case title is required")
	ErrCaseTitleTooLong  = errors.New("case title exceeds maximum length")
	ErrClientCaseLimit   = errors.New("client has reached the active case limit")
	ErrNotCaseAssignee   = errors.New("not assigned to this case")
	ErrLeadNotStaff      = errors.New("lead attorney must be an active staff member")
)

// ===== Application Errors =====
var (
	ErrApplicationNotFound   = errors.New("application not found")
	ErrApplicationNotPending = errors.New("application has already been reviewed")
	ErrDuplicateApplication  = errors.New("a pending application already exists for this job")
	ErrAnswerRequired        = errors.New("a required question was not answered")
)

// ===== Retainer Errors =====
var (
	ErrRetainerNotFound   = errors.New("retainer not found")
	ErrRetainerPending    = errors.New("client already has a pending retainer")
	ErrRetainerNotPending = errors.New("retainer is not awaiting signature")
	ErrSignatureMismatch  = errors.New("signature does not match the client's roblox username")
	ErrSignatureRequired  = errors.New("digital signature is required")
)

// ===== Feedback Errors =====
var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrFeedbackSelf   = errors.New("cannot rate yourself")
	ErrFeedbackTarget = errors.New("feedback target is not an active staff member")
)

// ===== Reminder Errors =====
var (
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrReminderTextEmpty = errors.New("reminder text is required")
	ErrReminderTooLong   = errors.New("reminder text exceeds maximum length")
	ErrReminderInPast    = errors.New("reminder time must be in the future")
	ErrReminderTooFar    = errors.New("reminder time is too far in the future")
	ErrNotReminderOwner  = errors.New("reminder belongs to another user")
)

// ===== Permission / Setup Errors =====
var (
	ErrInvalidPermissionAction = errors.New("unknown permission action")
	ErrGuildConfigNotFound     = errors.New("guild is not configured")
	ErrOwnerOnly               = errors.New("only the guild owner may perform this action")
	ErrRulesChannelNotSet      = errors.New("rules channel is not configured")
)
