package services

import "errors"

// Shared business errors mapped to HTTP statuses in the handlers layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed        = errors.New("validation failed")
	ErrTeamNameRequired        = errors.New("team name is required")
	ErrTeamCodeRequired        = errors.New("team code is required")
	ErrCheckpointNameRequired  = errors.New("checkpoint name is required")
	ErrCoordinatesOutOfRange   = errors.New("latitude/longitude out of valid range")
	ErrTimerDurationInvalid    = errors.New("timer duration must be positive")
	ErrTimerActionUnknown      = errors.New("unknown timer action")
	ErrPointsDeltaRequired     = errors.New("points value is required")
	ErrQRCodeInvalidSize       = errors.New("qr code size must be positive")
	ErrUploaderNotConfigured   = errors.New("object storage is not configured")
	ErrNoCheckpointsRegistered = errors.New("no checkpoints registered")

	// Conflicts
	ErrTeamCodeConflict  = errors.New("team code is already in use")
	ErrStaffNameConflict = errors.New("staff name is already in use")
	ErrTimerConflict     = errors.New("timer was changed by another staff member")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid name or password")
	ErrInvalidTeamCode    = errors.New("invalid team code")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors
	ErrTeamNotFound       = errors.New("team not found")
	ErrCheckpointNotFound = errors.New("checkpoint not found")
	ErrCheckinNotFound    = errors.New("checkin not found")
	ErrStaffNotFound      = errors.New("staff member not found")
)
