package tui

import (
	"strings"
	"time"

	"taskdeck/internal/action"
	"taskdeck/internal/model"
	"taskdeck/internal/prefs"
	"taskdeck/internal/staleness"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
)

type appModel struct {
	con   *console
	prefs *prefs.Prefs

	width  int
	height int
	// We treat the very first WindowSizeMsg as initial sizing, not a
	// user-driven resize.
	seenWindowSize bool

	view view

	queuesList list.Model
	tasksList  list.Model

	selectedQueueID   string
	selectedQueueName string

	queues  []model.Queue
	tasks   []model.Task
	tasksAt time.Time

	config     model.Config
	prompts    []model.Prompt
	roles      []model.AgentRole
	configErrs []string

	health    *model.Health
	stats     *model.Stats
	statusErr string

	modal        modalKind
	confirmTitle string
	confirmBody  string
	confirmFocus confirmModalFocus
	// pendingButton is dispatched when the confirm modal is accepted.
	pendingButton *action.Element
	pendingLabel  string

	input textinput.Model

	notice    string
	noticeErr bool
	noticeSeq int
}

func newAppModel(con *console, p *prefs.Prefs) appModel {
	if p == nil {
		p = &prefs.Prefs{}
	}
	m := appModel{
		con:   con,
		prefs: p,
		view:  viewQueues,
	}

	m.queuesList = newList("Queues", []list.Item{})
	m.queuesList.SetDelegate(newCompactItemDelegate())

	m.tasksList = newList("Tasks", []list.Item{})
	m.tasksList.SetDelegate(newCompactItemDelegate())

	m.input = textinput.New()
	m.input.Placeholder = "Payload"
	m.input.CharLimit = 0
	m.input.Width = 56

	con.setActiveView(m.view)
	return m
}

// visibleQueues applies the persisted queue filter. Filtering is a display
// concern; m.queues always holds the full fetch.
func (m appModel) visibleQueues() []model.Queue {
	return filterQueues(m.queues, m.prefs.QueueFilter)
}

func filterQueues(qs []model.Queue, filter string) []model.Queue {
	switch filter {
	case "active":
		out := make([]model.Queue, 0, len(qs))
		for _, q := range qs {
			if q.Status != model.QueueArchived {
				out = append(out, q)
			}
		}
		return out
	case "archived":
		out := make([]model.Queue, 0, len(qs))
		for _, q := range qs {
			if q.Status == model.QueueArchived {
				out = append(out, q)
			}
		}
		return out
	default:
		return qs
	}
}

func cycleQueueFilter(cur string) string {
	switch cur {
	case "":
		return "active"
	case "active":
		return "archived"
	default:
		return ""
	}
}

func queueFilterLabel(filter string) string {
	if strings.TrimSpace(filter) == "" {
		return "all"
	}
	return filter
}

func (m *appModel) refreshQueueItems() {
	curID := ""
	if it, ok := m.queuesList.SelectedItem().(queueItem); ok {
		curID = it.queue.ID
	}
	var items []list.Item
	for _, q := range m.visibleQueues() {
		items = append(items, queueItem{queue: q})
	}
	m.queuesList.SetItems(items)
	if curID != "" {
		selectQueueByID(&m.queuesList, curID)
	}
}

// refreshTaskItems classifies every row against the single snapshot instant
// captured at fetch time, so one page never mixes clocks.
func (m *appModel) refreshTaskItems() {
	curID := ""
	if it, ok := m.tasksList.SelectedItem().(taskItem); ok {
		curID = it.task.ID
	}
	now := m.tasksAt
	if now.IsZero() {
		now = time.Now()
	}
	var items []list.Item
	for _, t := range m.tasks {
		items = append(items, taskItem{task: t, state: staleness.Classify(t, now)})
	}
	m.tasksList.SetItems(items)
	if curID != "" {
		selectTaskByID(&m.tasksList, curID)
	}
}

func selectQueueByID(l *list.Model, id string) {
	for i, it := range l.Items() {
		if q, ok := it.(queueItem); ok && q.queue.ID == id {
			l.Select(i)
			return
		}
	}
}

func selectTaskByID(l *list.Model, id string) {
	for i, it := range l.Items() {
		if t, ok := it.(taskItem); ok && t.task.ID == id {
			l.Select(i)
			return
		}
	}
}

func (m *appModel) resizeLists() {
	// Leave room for header, status line, notice and footer.
	h := m.height - 7
	if h < 8 {
		h = 8
	}
	w := m.width
	if w < 40 {
		w = 40
	}
	m.queuesList.SetSize(w, h)
	// Tasks view is split with a detail pane.
	m.tasksList.SetSize(w/2, h)
}

func (m *appModel) selectedTask() (model.Task, staleness.State, bool) {
	if it, ok := m.tasksList.SelectedItem().(taskItem); ok {
		return it.task, it.state, true
	}
	return model.Task{}, staleness.State{}, false
}

func (m *appModel) selectedQueue() (model.Queue, bool) {
	if it, ok := m.queuesList.SelectedItem().(queueItem); ok {
		return it.queue, true
	}
	return model.Queue{}, false
}
