package tui

import (
	"time"

	"taskdeck/internal/model"
)

type view int

const (
	viewQueues view = iota
	viewTasks
	viewConfig
)

func viewToString(v view) string {
	switch v {
	case viewQueues:
		return "queues"
	case viewTasks:
		return "tasks"
	case viewConfig:
		return "config"
	default:
		return "unknown"
	}
}

type queuesLoadedMsg struct {
	queues []model.Queue
}

// tasksLoadedMsg carries the fetch timestamp so the whole page classifies
// staleness against one instant instead of drifting row by row.
type tasksLoadedMsg struct {
	queueID string
	tasks   []model.Task
	at      time.Time
}

// configLoadedMsg carries only the documents whose fetch succeeded; the has*
// flags let the update loop keep last-known values for the pieces that failed
// instead of blanking the page.
type configLoadedMsg struct {
	config     model.Config
	hasConfig  bool
	prompts    []model.Prompt
	hasPrompts bool
	roles      []model.AgentRole
	hasRoles   bool
	errs       []string
}

type statusMsg struct {
	health *model.Health
	stats  *model.Stats
	err    string
}

type pollErrMsg struct {
	owner string
	err   error
}

type actionDoneMsg struct {
	label   string
	handled bool
	err     error
}

type noticeExpiredMsg struct{ seq int }

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirm
	modalEnqueue
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)
