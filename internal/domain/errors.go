package domain

import "errors"

// Domain errors.
var (
	ErrEventNotFound          = errors.New("event not found")
	ErrParticipationNotFound  = errors.New("participation not found")
	ErrMemberNotFound         = errors.New("member not found")
	ErrPaymentDetailsNotFound = errors.New("payment details not found")
	ErrClubInfoNotFound       = errors.New("club info not found")
	ErrAlreadyJoined          = errors.New("member already joined this event")
	ErrEventIncomplete        = errors.New("event is missing required fields")
	ErrNotAdmin               = errors.New("admin rights required")
	ErrWrongStatus            = errors.New("participation is not in the expected status")
)

// IsNotFound reports whether err is one of the entity-not-found errors.
// Scenes tear down on these: the entity vanished between steps and a retry
// cannot help.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrParticipationNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrPaymentDetailsNotFound) ||
		errors.Is(err, ErrClubInfoNotFound)
}

// ValidationError rejects malformed user input (dates, amounts). It carries
// an i18n message key so the scene can re-prompt on the same step with the
// reason.
type ValidationError struct {
	Key string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Key
}

// AsValidation unwraps a ValidationError if err contains one.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
