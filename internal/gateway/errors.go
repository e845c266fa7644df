package gateway

import (
	"errors"

	"github.com/anarchy/associates/internal/service"
)

// userMessages overrides sentinel error text where the raw message reads
// poorly in a Discord reply. Unlisted sentinels surface their own text.
var userMessages = map[error]string{
	service.ErrInsufficientRank: "You need a higher rank than both the target and the destination role.",
	service.ErrClientCaseLimit:  "This client already has the maximum number of active cases.",
	service.ErrNotCaseAssignee:  "Only attorneys assigned to this case can close it.",
	service.ErrOwnerOnly:        "Only the server owner can run this command.",
}

var knownSentinels = []error{
	service.ErrStaffNotFound, service.ErrAlreadyStaff, service.ErrNotStaff,
	service.ErrRobloxUsernameTaken, service.ErrRobloxUsernameRequired,
	service.ErrInvalidStaffRole, service.ErrSelfAction, service.ErrInsufficientRank,
	service.ErrAlreadyAtTop, service.ErrAlreadyAtBottom,
	service.ErrNotPromotion, service.ErrNotDemotion,
	service.ErrJobNotFound, service.ErrJobAlreadyOpen, service.ErrJobClosed,
	service.ErrJobTitleRequired, service.ErrJobTitleTooLong,
	service.ErrJobDescTooLong, service.ErrTooManyQuestions,
	service.ErrCaseNotFound, service.ErrCaseNotOpen, service.ErrCaseNotPending,
	service.ErrCaseTitleRequired, service.ErrCaseTitleTooLong,
	service.ErrClientCaseLimit, service.ErrNotCaseAssignee, service.ErrLeadNotStaff,
	service.ErrApplicationNotFound, service.ErrApplicationNotPending,
	service.ErrDuplicateApplication, service.ErrAnswerRequired,
	service.ErrRetainerNotFound, service.ErrRetainerPending,
	service.ErrRetainerNotPending, service.ErrSignatureMismatch,
	service.ErrSignatureRequired,
	service.ErrInvalidRating, service.ErrFeedbackSelf, service.ErrFeedbackTarget,
	service.ErrReminderNotFound, service.ErrReminderTextEmpty,
	service.ErrReminderTooLong, service.ErrReminderInPast,
	service.ErrReminderTooFar, service.ErrNotReminderOwner,
	service.ErrInvalidPermissionAction, service.ErrGuildConfigNotFound,
	service.ErrOwnerOnly, service.ErrRulesChannelNotSet,
}

// UserMessage converts a handler error into text safe to show the actor.
// Unexpected errors get a generic message; the full error stays in the log.
func UserMessage(err error) string {
	for sentinel, msg := range userMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	for _, sentinel := range knownSentinels {
		if errors.Is(err, sentinel) {
			return capitalize(sentinel.Error()) + "."
		}
	}
	return "Something went wrong handling that command. Try again shortly."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
