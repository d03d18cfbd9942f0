package tui

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
	"taskdeck/internal/prefs"

	tea "github.com/charmbracelet/bubbletea"
)

func testConsole(t *testing.T) *console {
	t.Helper()
	client, err := api.NewClient("http://127.0.0.1:1", slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return newConsole(Options{Client: client, Log: slog.New(slog.DiscardHandler)})
}

func TestFilterQueues(t *testing.T) {
	t.Parallel()

	qs := []model.Queue{
		{ID: "q-1", Status: model.QueueActive},
		{ID: "q-2", Status: model.QueueArchived},
		{ID: "q-3", Status: model.QueuePaused},
	}

	cases := []struct {
		filter string
		want   []string
	}{
		{filter: "", want: []string{"q-1", "q-2", "q-3"}},
		{filter: "active", want: []string{"q-1", "q-3"}},
		{filter: "archived", want: []string{"q-2"}},
		{filter: "bogus", want: []string{"q-1", "q-2", "q-3"}},
	}
	for _, tc := range cases {
		got := filterQueues(qs, tc.filter)
		if len(got) != len(tc.want) {
			t.Fatalf("filter %q: expected %d queues, got %d", tc.filter, len(tc.want), len(got))
		}
		for i, q := range got {
			if q.ID != tc.want[i] {
				t.Fatalf("filter %q: expected %v at %d, got %v", tc.filter, tc.want[i], i, q.ID)
			}
		}
	}
}

func TestCycleQueueFilter(t *testing.T) {
	t.Parallel()

	// The cycle must return to "all" so no state is unreachable.
	if got := cycleQueueFilter(""); got != "active" {
		t.Fatalf("expected active after all, got %q", got)
	}
	if got := cycleQueueFilter("active"); got != "archived" {
		t.Fatalf("expected archived after active, got %q", got)
	}
	if got := cycleQueueFilter("archived"); got != "" {
		t.Fatalf("expected all after archived, got %q", got)
	}
}

func TestUpdate_EnterQueueSwitchesViewAndPollGate(t *testing.T) {
	con := testConsole(t)
	m := newAppModel(con, &prefs.Prefs{})

	m.queues = []model.Queue{{ID: "q-1", Name: "builds", Status: model.QueueActive}}
	m.refreshQueueItems()

	if !con.viewActive(ownerQueues) {
		t.Fatalf("expected queues owner active on the queues view")
	}
	if con.viewActive(ownerTasks) {
		t.Fatalf("expected tasks owner inactive on the queues view")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(appModel)

	if m.view != viewTasks {
		t.Fatalf("expected tasks view after enter, got %v", viewToString(m.view))
	}
	if m.selectedQueueID != "q-1" {
		t.Fatalf("expected selected queue q-1, got %q", m.selectedQueueID)
	}
	if con.currentQueue() != "q-1" {
		t.Fatalf("expected console queue q-1, got %q", con.currentQueue())
	}
	if !con.viewActive(ownerTasks) || con.viewActive(ownerQueues) {
		t.Fatalf("expected poll gate to follow the view change")
	}

	// Status polling is never gated on the view.
	if !con.viewActive(ownerStatus) {
		t.Fatalf("expected status owner always active")
	}
}

func TestUpdate_DropsTasksForStaleQueueSelection(t *testing.T) {
	con := testConsole(t)
	m := newAppModel(con, &prefs.Prefs{})
	m.selectedQueueID = "q-2"

	next, _ := m.Update(tasksLoadedMsg{
		queueID: "q-1",
		tasks:   []model.Task{{ID: "task-1", QueueID: "q-1"}},
		at:      time.Now(),
	})
	m = next.(appModel)

	if len(m.tasks) != 0 {
		t.Fatalf("expected a fetch for a deselected queue to be dropped")
	}
}

func TestUpdate_NoticeExpiryIgnoresSupersededSeq(t *testing.T) {
	con := testConsole(t)
	m := newAppModel(con, &prefs.Prefs{})

	_ = m.setNotice("first", false)
	firstSeq := m.noticeSeq
	_ = m.setNotice("second", false)

	next, _ := m.Update(noticeExpiredMsg{seq: firstSeq})
	m = next.(appModel)
	if m.notice != "second" {
		t.Fatalf("expected superseded expiry to keep the newer notice, got %q", m.notice)
	}

	next, _ = m.Update(noticeExpiredMsg{seq: m.noticeSeq})
	m = next.(appModel)
	if m.notice != "" {
		t.Fatalf("expected current expiry to clear the notice, got %q", m.notice)
	}
}

func TestUpdate_ConfigPartialFailureKeepsLastKnown(t *testing.T) {
	con := testConsole(t)
	m := newAppModel(con, &prefs.Prefs{})

	next, _ := m.Update(configLoadedMsg{
		config:     model.Config{"max_workers": 4},
		hasConfig:  true,
		prompts:    []model.Prompt{{ID: "p-1", Name: "triage"}},
		hasPrompts: true,
		roles:      []model.AgentRole{{ID: "r-1", Name: "builder"}},
		hasRoles:   true,
	})
	m = next.(appModel)

	// Config fetch failed, prompts came back (legitimately empty), roles
	// were not part of the message at all.
	next, _ = m.Update(configLoadedMsg{hasPrompts: true, errs: []string{"config: 502 Bad Gateway"}})
	m = next.(appModel)

	if len(m.config) != 1 {
		t.Fatalf("expected failed config fetch to keep the last-known document, got %+v", m.config)
	}
	if len(m.prompts) != 0 {
		t.Fatalf("expected successful empty prompts fetch to apply, got %+v", m.prompts)
	}
	if len(m.roles) != 1 {
		t.Fatalf("expected untouched roles to survive, got %+v", m.roles)
	}
	if len(m.configErrs) != 1 {
		t.Fatalf("expected the failure to be flagged, got %+v", m.configErrs)
	}
}

func TestTickStatus_ReportsOnStatusLineOnly(t *testing.T) {
	con := testConsole(t)

	var mu sync.Mutex
	var posted []tea.Msg
	con.setSend(func(msg tea.Msg) {
		mu.Lock()
		posted = append(posted, msg)
		mu.Unlock()
	})

	// The backend is unreachable; the failure belongs on the status line,
	// not on the scheduler's transient-notice channel as well.
	if err := con.tickStatus(); err != nil {
		t.Fatalf("expected tickStatus to swallow the error after posting, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(posted) != 1 {
		t.Fatalf("expected one status message, got %d", len(posted))
	}
	st, ok := posted[0].(statusMsg)
	if !ok {
		t.Fatalf("expected statusMsg, got %T", posted[0])
	}
	if st.err == "" {
		t.Fatalf("expected the failure on the status message")
	}
}

func TestConsole_ButtonIdentityIsStable(t *testing.T) {
	con := testConsole(t)

	a := con.taskButton("task-1", "task.claim")
	b := con.taskButton("task-1", "task.claim")
	if a != b {
		t.Fatalf("expected the same element for repeated presses")
	}

	c := con.taskButton("task-1", "task.fail")
	if c == a {
		t.Fatalf("expected distinct elements per action")
	}
	if a.Parent() != c.Parent() {
		t.Fatalf("expected both actions to share the task row")
	}
	if got := a.Lookup("task_id"); got != "task-1" {
		t.Fatalf("expected button to resolve task_id from its row, got %q", got)
	}
}

func TestConsole_RegisteredActions(t *testing.T) {
	con := testConsole(t)

	for _, name := range []string{
		"task.claim", "task.requeue", "task.rerun", "task.fail",
		"task.enqueue", "queue.archive", "queue.unarchive",
	} {
		if !con.reg.Registered(name) {
			t.Fatalf("expected %s to be registered", name)
		}
	}
}
