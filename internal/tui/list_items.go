package tui

import (
	"fmt"
	"strings"

	"taskdeck/internal/model"
	"taskdeck/internal/staleness"

	"github.com/charmbracelet/bubbles/list"
)

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	// We render our own global header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("item", "items")
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("q")
	// Add Emacs-style navigation aliases (common muscle memory).
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

type queueItem struct {
	queue model.Queue
}

func (i queueItem) FilterValue() string {
	return strings.TrimSpace(i.queue.Name)
}

func (i queueItem) Title() string {
	q := i.queue
	status := ""
	if q.Status == model.QueueArchived {
		status = styleMuted().Render(" [archived]")
	} else if q.Status == model.QueuePaused {
		status = styleMuted().Render(" [paused]")
	}
	counts := fmt.Sprintf("%d queued / %d running / %d failed",
		q.Stats.Queued, q.Stats.Running+q.Stats.Claimed, q.Stats.Failed)
	return fmt.Sprintf("%s%s  %s", q.Name, status, styleMuted().Render(counts))
}

type taskItem struct {
	task  model.Task
	state staleness.State
}

func (i taskItem) FilterValue() string {
	return i.task.ID + " " + i.task.Payload
}

func (i taskItem) Title() string {
	t := i.task
	line := fmt.Sprintf("%s  %-9s", t.ID, t.Status)
	if t.ClaimedAt != nil && !t.Status.Terminal() {
		tier := i.state.Tier()
		if tier != staleness.TierOK {
			line += "  " + tierStyle(tier).Render(tierLabel(tier))
		}
		line += "  " + styleMuted().Render("elapsed "+fmtSeconds(i.state.ElapsedSeconds))
	}
	if p := oneLine(t.Payload); p != "" {
		line += "  " + styleMuted().Render(truncate(p, 48))
	}
	return line
}

func oneLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexAny(s, "\r\n"); idx >= 0 {
		s = s[:idx]
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
