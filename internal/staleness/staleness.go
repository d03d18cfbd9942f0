// Package staleness classifies how a claimed task stands against its allotted
// execution time. Classification is pure: it depends only on the task's
// timestamps and the caller-supplied "now", so every row in one refresh pass
// reflects the same snapshot.
package staleness

import (
	"time"

	"taskdeck/internal/model"
)

// Tier is the single presentation tier chosen for a task. Exactly one tier is
// active at a time; priority is Timeout > Warning > Critical > OK.
type Tier string

const (
	TierTimeout  Tier = "timeout"
	TierWarning  Tier = "warning"
	TierCritical Tier = "critical"
	TierOK       Tier = "ok"
)

// CriticalWindowSeconds is the absolute remaining-time threshold for the
// Critical tier. It is intentionally NOT a percentage of the task's timeout;
// the backend console has always used a flat 5-minute window.
const CriticalWindowSeconds int64 = 300

// State is derived per render and never cached; remaining time is a function
// of "now".
type State struct {
	ElapsedSeconds   int64
	RemainingSeconds int64
	IsStale          bool
	IsWarned         bool
}

// Tier selects the presentation tier for a state.
func (s State) Tier() Tier {
	switch {
	case s.IsStale:
		return TierTimeout
	case s.IsWarned:
		return TierWarning
	case s.RemainingSeconds < CriticalWindowSeconds:
		return TierCritical
	default:
		return TierOK
	}
}

// Classify computes the staleness state of a task at the given instant.
//
// A task that was never claimed has elapsed 0 and is never stale regardless of
// its timeout. The warned flag is asserted only by the backend (via
// stale_warned_at); the client does not infer it from elapsed time.
func Classify(task model.Task, now time.Time) State {
	var elapsed int64
	if task.ClaimedAt != nil {
		elapsed = int64(now.Sub(*task.ClaimedAt) / time.Second)
		if elapsed < 0 {
			elapsed = 0
		}
	}

	timeout := task.TimeoutOrDefault()
	remaining := timeout - elapsed

	return State{
		ElapsedSeconds:   elapsed,
		RemainingSeconds: remaining,
		IsStale:          remaining <= 0,
		IsWarned:         task.StaleWarnedAt != nil,
	}
}
