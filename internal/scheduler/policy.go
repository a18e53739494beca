package scheduler

import "time"

// Platform posting floors, in minutes. Accounts younger than a day are
// throttled harder.
const (
	newAccountMinInterval = 120
	minInterval           = 30
	newAccountAge         = 24 * time.Hour
)

// PlatformMinIntervalMinutes returns the minimum posting interval the
// platform allows for an account created at createdAt, as of now.
func PlatformMinIntervalMinutes(createdAt, now time.Time) int {
	if now.Sub(createdAt) < newAccountAge {
		return newAccountMinInterval
	}
	return minInterval
}

// EffectiveIntervalMinutes clamps the requested interval to the floor.
func EffectiveIntervalMinutes(requested, floor int) int {
	if requested > floor {
		return requested
	}
	return floor
}
