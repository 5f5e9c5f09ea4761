package types

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrResumeNotFound       = errors.New("resume not found")
	ErrAdminRequestNotFound = errors.New("admin request not found")

	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidScore        = errors.New("score must be between 0 and 100")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrReviewConflict      = errors.New("record changed since it was loaded")
	ErrPendingAdminRequest = errors.New("a pending admin request already exists")
	ErrReasonRequired      = errors.New("reason is required")
)

// ErrPersistence marks a store failure during a mutation. The prior state of
// the record is intact when it is returned.
var ErrPersistence = errors.New("failed to persist change")

var ErrAlreadyAdmin = errors.New("user is already an admin")
