package tui

import (
	"fmt"
	"strings"
	"time"

	"taskdeck/internal/prefs"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Init() tea.Cmd {
	// First paint happens before the first poll tick fires; fetch eagerly.
	return tea.Batch(
		refreshCmd(m.con.refreshQueues, ownerQueues),
		refreshCmd(m.con.tickStatus, ownerStatus),
	)
}

// refreshCmd runs a console refresh off the update loop. Errors surface the
// same way poll-tick errors do.
func refreshCmd(fn func() error, owner string) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return pollErrMsg{owner: owner, err: err}
		}
		return nil
	}
}

const noticeTTL = 4 * time.Second

func (m *appModel) setNotice(text string, isErr bool) tea.Cmd {
	m.notice = text
	m.noticeErr = isErr
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{seq: seq} })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		m.resizeLists()
		return m, nil

	case queuesLoadedMsg:
		m.queues = msg.queues
		m.refreshQueueItems()
		return m, nil

	case tasksLoadedMsg:
		// A fetch for a previously-selected queue can land after the
		// operator moved on; drop it instead of painting the wrong page.
		if msg.queueID != m.selectedQueueID {
			return m, nil
		}
		m.tasks = msg.tasks
		m.tasksAt = msg.at
		m.refreshTaskItems()
		return m, nil

	case configLoadedMsg:
		// A failed piece keeps its last-known value; the page renders what
		// succeeded and flags the rest via configErrs.
		if msg.hasConfig {
			m.config = msg.config
		}
		if msg.hasPrompts {
			m.prompts = msg.prompts
		}
		if msg.hasRoles {
			m.roles = msg.roles
		}
		m.configErrs = msg.errs
		return m, nil

	case statusMsg:
		if msg.health != nil {
			m.health = msg.health
		}
		if msg.stats != nil {
			m.stats = msg.stats
		}
		m.statusErr = msg.err
		return m, nil

	case pollErrMsg:
		return m, m.setNotice(fmt.Sprintf("%s: %v", msg.owner, msg.err), true)

	case actionDoneMsg:
		if !msg.handled {
			return m, m.setNotice(msg.label+": already in flight", false)
		}
		if msg.err != nil {
			return m, m.setNotice(fmt.Sprintf("%s: %v", msg.label, msg.err), true)
		}
		// Mutations change both the task page and queue counters.
		return m, tea.Batch(
			m.setNotice(msg.label+": ok", false),
			refreshCmd(m.con.refreshTasks, ownerTasks),
			refreshCmd(m.con.refreshQueues, ownerQueues),
		)

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
			m.noticeErr = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalNone {
		return m.updateModalKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}

	switch m.view {
	case viewQueues:
		return m.updateQueuesKey(msg)
	case viewTasks:
		return m.updateTasksKey(msg)
	case viewConfig:
		return m.updateConfigKey(msg)
	}
	return m, nil
}

func (m appModel) updateQueuesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the operator types a filter, every key belongs to the list.
	if !m.queuesList.SettingFilter() {
		switch msg.String() {
		case "q":
			return m, tea.Quit

		case "enter":
			if q, ok := m.selectedQueue(); ok {
				m.selectedQueueID = q.ID
				m.selectedQueueName = q.Name
				m.tasks = nil
				m.tasksList.SetItems(nil)
				m.view = viewTasks
				m.con.setQueue(q.ID)
				m.con.setActiveView(m.view)
				return m, refreshCmd(m.con.refreshTasks, ownerTasks)
			}
			return m, nil

		case "f":
			m.prefs.QueueFilter = cycleQueueFilter(m.prefs.QueueFilter)
			// Best effort; a read-only home dir must not break the UI.
			_ = prefs.Save(m.prefs)
			m.refreshQueueItems()
			return m, m.setNotice("queue filter: "+queueFilterLabel(m.prefs.QueueFilter), false)

		case "a":
			if q, ok := m.selectedQueue(); ok {
				m.modal = modalConfirm
				m.confirmFocus = confirmFocusCancel
				m.confirmTitle = "Archive queue"
				m.confirmBody = fmt.Sprintf("Archive %q? Its tasks stop being offered to agents.", q.Name)
				m.pendingButton = m.con.queueButton(q.ID, "queue.archive")
				m.pendingLabel = "archive " + q.ID
			}
			return m, nil

		case "U":
			if q, ok := m.selectedQueue(); ok {
				btn := m.con.queueButton(q.ID, "queue.unarchive")
				return m, m.con.dispatch(btn, "unarchive "+q.ID)
			}
			return m, nil

		case "s":
			m.view = viewConfig
			m.con.setActiveView(m.view)
			return m, refreshCmd(func() error { return m.con.refreshConfig(false) }, ownerConfig)

		case "ctrl+r":
			return m, refreshCmd(m.con.refreshQueues, ownerQueues)
		}
	}

	var cmd tea.Cmd
	m.queuesList, cmd = m.queuesList.Update(msg)
	return m, cmd
}

func (m appModel) updateTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.tasksList.SettingFilter() {
		switch msg.String() {
		case "q":
			return m, tea.Quit

		case "esc", "backspace":
			m.view = viewQueues
			m.con.setActiveView(m.view)
			return m, nil

		case "c":
			if t, _, ok := m.selectedTask(); ok {
				btn := m.con.taskButton(t.ID, "task.claim")
				return m, m.con.dispatch(btn, "claim "+t.ID)
			}
			return m, nil

		case "r":
			if t, _, ok := m.selectedTask(); ok {
				btn := m.con.taskButton(t.ID, "task.rerun")
				return m, m.con.dispatch(btn, "rerun "+t.ID)
			}
			return m, nil

		case "R":
			if t, _, ok := m.selectedTask(); ok {
				btn := m.con.taskButton(t.ID, "task.requeue")
				return m, m.con.dispatch(btn, "requeue "+t.ID)
			}
			return m, nil

		case "f":
			if t, st, ok := m.selectedTask(); ok {
				btn := m.con.taskButton(t.ID, "task.fail")
				btn.SetAttr("reason", failReason(st))
				m.modal = modalConfirm
				m.confirmFocus = confirmFocusCancel
				m.confirmTitle = "Fail task"
				m.confirmBody = fmt.Sprintf("Mark %s failed?\nReason: %s", t.ID, failReason(st))
				m.pendingButton = btn
				m.pendingLabel = "fail " + t.ID
			}
			return m, nil

		case "n":
			m.modal = modalEnqueue
			m.input.SetValue("")
			m.input.Focus()
			return m, nil

		case "ctrl+r":
			return m, refreshCmd(m.con.refreshTasks, ownerTasks)
		}
	}

	var cmd tea.Cmd
	m.tasksList, cmd = m.tasksList.Update(msg)
	return m, cmd
}

func (m appModel) updateConfigKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewQueues
		m.con.setActiveView(m.view)
		return m, nil
	case "ctrl+r":
		// Manual reload drops the cached documents first, so an in-flight
		// fetch from before the reload cannot repopulate them.
		m.con.configCache.Invalidate()
		m.con.promptsCache.Invalidate()
		m.con.rolesCache.Invalidate()
		return m, refreshCmd(func() error { return m.con.refreshConfig(false) }, ownerConfig)
	}
	return m, nil
}

func (m appModel) updateModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalConfirm:
		switch msg.String() {
		case "esc", "ctrl+g":
			m.closeModal()
			return m, nil
		case "tab", "left", "right":
			if m.confirmFocus == confirmFocusConfirm {
				m.confirmFocus = confirmFocusCancel
			} else {
				m.confirmFocus = confirmFocusConfirm
			}
			return m, nil
		case "enter":
			btn, label := m.pendingButton, m.pendingLabel
			confirmed := m.confirmFocus == confirmFocusConfirm
			m.closeModal()
			if confirmed && btn != nil {
				return m, m.con.dispatch(btn, label)
			}
			return m, nil
		}
		return m, nil

	case modalEnqueue:
		switch msg.String() {
		case "esc", "ctrl+g":
			m.closeModal()
			return m, nil
		case "enter":
			payload := strings.TrimSpace(m.input.Value())
			queueID := m.selectedQueueID
			m.closeModal()
			if payload == "" || queueID == "" {
				return m, m.setNotice("enqueue: payload required", true)
			}
			btn := m.con.queueButton(queueID, "task.enqueue")
			btn.SetAttr("payload", payload)
			return m, m.con.dispatch(btn, "enqueue")
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.pendingButton = nil
	m.pendingLabel = ""
	m.input.Blur()
}
