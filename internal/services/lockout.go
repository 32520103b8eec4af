package services

import (
	"time"

	"medresearch/internal/models"
)

const (
	// MaxFailedLoginAttempts is the failure count that triggers a lock.
	MaxFailedLoginAttempts = 5
	// LockDuration is how long an account stays locked after the threshold.
	LockDuration = 30 * time.Minute
)

// IsLocked reports whether the account is locked at the given instant.
func IsLocked(u *models.User, now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// RecordFailure bumps the failure counter. Reaching the threshold imposes a
// lock and resets the counter to zero, so the first post-lock attempt starts
// counting fresh.
func RecordFailure(u *models.User, now time.Time) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= MaxFailedLoginAttempts {
		until := now.Add(LockDuration)
		u.LockUntil = &until
		u.FailedLoginAttempts = 0
	}
}

// RecordSuccess clears all failure state.
func RecordSuccess(u *models.User) {
	u.FailedLoginAttempts = 0
	u.LockUntil = nil
}
