package staleness

import (
	"testing"
	"time"

	"taskdeck/internal/model"
)

func taskClaimedAgo(ago time.Duration, timeout int64, now time.Time) model.Task {
	claimed := now.Add(-ago)
	return model.Task{
		ID:        "task-1",
		Status:    model.TaskRunning,
		ClaimedAt: &claimed,
		Timeout:   timeout,
	}
}

func TestClassifyUnclaimed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		timeout int64
	}{
		{"default timeout", 0},
		{"short timeout", 10},
		{"negative timeout", -5},
	}
	for _, tc := range cases {
		st := Classify(model.Task{ID: "task-1", Timeout: tc.timeout}, now)
		if st.ElapsedSeconds != 0 {
			t.Fatalf("%s: expected elapsed 0, got %d", tc.name, st.ElapsedSeconds)
		}
		if st.IsStale {
			t.Fatalf("%s: unclaimed task must never be stale", tc.name)
		}
	}
}

func TestClassifyDefaultTimeout(t *testing.T) {
	now := time.Now()

	// Non-positive timeouts fall back to 3600.
	st := Classify(taskClaimedAgo(10*time.Second, 0, now), now)
	if st.RemainingSeconds != 3590 {
		t.Fatalf("expected remaining 3590, got %d", st.RemainingSeconds)
	}
	st = Classify(taskClaimedAgo(10*time.Second, -1, now), now)
	if st.RemainingSeconds != 3590 {
		t.Fatalf("expected remaining 3590 for negative timeout, got %d", st.RemainingSeconds)
	}
}

func TestClassifyStale(t *testing.T) {
	now := time.Now()
	st := Classify(taskClaimedAgo(301*time.Second, 300, now), now)
	if !st.IsStale {
		t.Fatalf("expected stale")
	}
	if st.RemainingSeconds > 0 {
		t.Fatalf("expected remaining <= 0, got %d", st.RemainingSeconds)
	}
	if st.Tier() != TierTimeout {
		t.Fatalf("expected timeout tier, got %s", st.Tier())
	}
}

func TestClassifyExactBoundary(t *testing.T) {
	now := time.Now()
	// remaining == 0 counts as stale.
	st := Classify(taskClaimedAgo(300*time.Second, 300, now), now)
	if !st.IsStale {
		t.Fatalf("expected stale at remaining == 0")
	}
}

func TestClassifyCriticalWindowIsAbsolute(t *testing.T) {
	now := time.Now()

	// timeout=300, claimed 250s ago, no warned flag => remaining 50 < 300 => critical.
	st := Classify(taskClaimedAgo(250*time.Second, 300, now), now)
	if st.IsStale {
		t.Fatalf("unexpected stale")
	}
	if st.RemainingSeconds != 50 {
		t.Fatalf("expected remaining 50, got %d", st.RemainingSeconds)
	}
	if st.Tier() != TierCritical {
		t.Fatalf("expected critical tier, got %s", st.Tier())
	}

	// The window is 300s flat, not a fraction of the timeout: a task with a
	// large timeout enters critical at the same absolute remaining time.
	st = Classify(taskClaimedAgo(7200*time.Second-299*time.Second, 7200, now), now)
	if st.Tier() != TierCritical {
		t.Fatalf("expected critical tier for large timeout, got %s", st.Tier())
	}
	st = Classify(taskClaimedAgo(7200*time.Second-301*time.Second, 7200, now), now)
	if st.Tier() != TierOK {
		t.Fatalf("expected ok tier outside window, got %s", st.Tier())
	}
}

func TestTierPriority(t *testing.T) {
	warned := time.Now().Add(-time.Minute)

	// Stale + warned: timeout wins.
	st := State{IsStale: true, IsWarned: true, RemainingSeconds: -10}
	if st.Tier() != TierTimeout {
		t.Fatalf("expected timeout to take priority, got %s", st.Tier())
	}

	// Warned but not stale: warning wins over critical.
	st = State{IsWarned: true, RemainingSeconds: 50}
	if st.Tier() != TierWarning {
		t.Fatalf("expected warning to take priority over critical, got %s", st.Tier())
	}

	// Exactly one tier for every combination.
	now := time.Now()
	tasks := []model.Task{
		{},
		taskClaimedAgo(10*time.Second, 300, now),
		taskClaimedAgo(250*time.Second, 300, now),
		taskClaimedAgo(301*time.Second, 300, now),
		func() model.Task {
			tk := taskClaimedAgo(250*time.Second, 300, now)
			tk.StaleWarnedAt = &warned
			return tk
		}(),
	}
	seen := map[Tier]bool{TierTimeout: true, TierWarning: true, TierCritical: true, TierOK: true}
	for i, tk := range tasks {
		tier := Classify(tk, now).Tier()
		if !seen[tier] {
			t.Fatalf("task %d: unknown tier %q", i, tier)
		}
	}
}

func TestClassifyWarnedIsServerAuthority(t *testing.T) {
	now := time.Now()

	// Long-elapsed but unwarned task must not locally infer a warned state.
	st := Classify(taskClaimedAgo(3000*time.Second, 3600, now), now)
	if st.IsWarned {
		t.Fatalf("client must not infer warned from elapsed time")
	}

	// Warned flag comes only from the backend.
	tk := taskClaimedAgo(10*time.Second, 3600, now)
	warned := now.Add(-5 * time.Second)
	tk.StaleWarnedAt = &warned
	st = Classify(tk, now)
	if !st.IsWarned {
		t.Fatalf("expected warned")
	}
	if st.Tier() != TierWarning {
		t.Fatalf("expected warning tier, got %s", st.Tier())
	}
}

func TestClassifyDeterministic(t *testing.T) {
	now := time.Now()
	tk := taskClaimedAgo(250*time.Second, 300, now)
	first := Classify(tk, now)
	for i := 0; i < 10; i++ {
		if got := Classify(tk, now); got != first {
			t.Fatalf("classification not stable for identical inputs: %+v vs %+v", got, first)
		}
	}
}

func TestClassifyFutureClaimClamped(t *testing.T) {
	now := time.Now()
	claimed := now.Add(30 * time.Second) // clock skew: claimed in the "future"
	st := Classify(model.Task{ClaimedAt: &claimed, Timeout: 300}, now)
	if st.ElapsedSeconds != 0 {
		t.Fatalf("expected elapsed clamped to 0, got %d", st.ElapsedSeconds)
	}
}
