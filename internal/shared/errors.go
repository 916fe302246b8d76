package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Persistence errors
	ErrNotFound      = fmt.Errorf("not found")
	ErrAlreadyExists = fmt.Errorf("already exists")

	// Roster & invitation errors
	ErrActionUnavailable = fmt.Errorf("action not available")
	ErrMissingEmail      = fmt.Errorf("roster member must have an email address")
	ErrInvitationPending = fmt.Errorf("invitation already pending")
	ErrInvitationInvalid = fmt.Errorf("invalid or expired invitation")
	ErrInvalidContext    = fmt.Errorf("invalid invitation context")
	ErrNoHandler         = fmt.Errorf("no invitation handler registered")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
