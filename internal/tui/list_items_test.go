package tui

import (
	"strings"
	"testing"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/staleness"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func asciiProfile(t *testing.T) {
	t.Helper()
	old := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(old) })
}

func TestTaskItemTitle_ShowsTierForClaimedTasks(t *testing.T) {
	asciiProfile(t)

	claimed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	task := model.Task{
		ID:        "task-1",
		Status:    model.TaskRunning,
		ClaimedAt: &claimed,
		Timeout:   600,
		Payload:   "build the thing",
	}

	// Past the timeout: the row must shout.
	st := staleness.Classify(task, claimed.Add(700*time.Second))
	title := taskItem{task: task, state: st}.Title()
	if !strings.Contains(title, "TIMEOUT") {
		t.Fatalf("expected TIMEOUT in title, got %q", title)
	}

	// Inside the final window but not stale.
	st = staleness.Classify(task, claimed.Add(400*time.Second))
	title = taskItem{task: task, state: st}.Title()
	if !strings.Contains(title, "CRITICAL") {
		t.Fatalf("expected CRITICAL in title, got %q", title)
	}

	// Comfortably early: no tier text at all.
	st = staleness.Classify(task, claimed.Add(10*time.Second))
	title = taskItem{task: task, state: st}.Title()
	for _, label := range []string{"TIMEOUT", "WARNED", "CRITICAL"} {
		if strings.Contains(title, label) {
			t.Fatalf("expected no tier label for a fresh task, got %q", title)
		}
	}
}

func TestTaskItemTitle_TerminalTaskSkipsStaleness(t *testing.T) {
	asciiProfile(t)

	claimed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	task := model.Task{
		ID:        "task-2",
		Status:    model.TaskFailed,
		ClaimedAt: &claimed,
		Timeout:   60,
	}
	st := staleness.Classify(task, claimed.Add(time.Hour))
	title := taskItem{task: task, state: st}.Title()
	if strings.Contains(title, "TIMEOUT") {
		t.Fatalf("expected no staleness on a terminal task, got %q", title)
	}
}

func TestQueueItem_FilterAndTitle(t *testing.T) {
	asciiProfile(t)

	q := model.Queue{
		ID:     "q-1",
		Name:   "nightly builds",
		Status: model.QueueArchived,
		Stats:  model.QueueStats{Queued: 3, Running: 1, Claimed: 1, Failed: 2},
	}
	it := queueItem{queue: q}

	if got := it.FilterValue(); got != "nightly builds" {
		t.Fatalf("expected filter value to be the name, got %q", got)
	}
	title := it.Title()
	if !strings.Contains(title, "nightly builds") || !strings.Contains(title, "[archived]") {
		t.Fatalf("expected name and archived marker, got %q", title)
	}
	// Claimed and running are folded into one in-progress count.
	if !strings.Contains(title, "3 queued / 2 running / 2 failed") {
		t.Fatalf("expected folded counts, got %q", title)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected no-op, got %q", got)
	}
	if got := truncate("abcdefgh", 5); got != "abcd…" {
		t.Fatalf("expected ellipsis cut, got %q", got)
	}
}

func TestOneLine(t *testing.T) {
	t.Parallel()

	if got := oneLine("  first\nsecond"); got != "first" {
		t.Fatalf("expected first line, got %q", got)
	}
}
