package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure, with no infrastructure dependency. Re-granting a
// completed achievement is NOT an error; it returns an idempotent result.

var (
	// ErrUserNotFound means the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrAchievementNotFound means the achievement id is not in the catalog.
	ErrAchievementNotFound = errors.New("achievement not found in catalog")

	// ErrInvalidPoints means an experience delta was zero or negative.
	// Rejected before any mutation.
	ErrInvalidPoints = errors.New("experience points must be positive")
)
