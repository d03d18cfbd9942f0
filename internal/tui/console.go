package tui

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"taskdeck/internal/action"
	"taskdeck/internal/api"
	"taskdeck/internal/cache"
	"taskdeck/internal/guard"
	"taskdeck/internal/model"
	"taskdeck/internal/poll"
	"taskdeck/internal/staleness"

	tea "github.com/charmbracelet/bubbletea"
)

// Polling owners. Status is always live; content owners are gated on the
// view being visible when the timer fires.
const (
	ownerStatus = "status"
	ownerQueues = "page:queues"
	ownerTasks  = "page:tasks"
	ownerConfig = "page:config"
)

// console is the shared backend of the TUI: API client, action registry,
// refresh guard, caches and the polling scheduler. The bubbletea model holds
// presentation state only; everything that outlives a frame lives here.
//
// Methods on console run on scheduler or command goroutines. Results travel
// back to the update loop as messages via post; console never touches the
// model directly.
type console struct {
	client *api.Client
	log    *slog.Logger
	reg    *action.Registry
	guard  *guard.Guard
	sched  *poll.Scheduler

	configCache  *cache.Cache[model.Config]
	promptsCache *cache.Cache[[]model.Prompt]
	rolesCache   *cache.Cache[[]model.AgentRole]

	// activeView mirrors the model's current view for the poller's
	// fire-time check. Stored as int32 so ticks can read it without
	// touching the update loop.
	activeView atomic.Int32

	mu      sync.Mutex
	send    func(tea.Msg)
	queueID string
	// elements caches action buttons so the registry's busy debounce has
	// stable element identity across repeated key presses.
	elements map[string]*action.Element
	roots    map[string]*action.Element
}

func newConsole(opts Options) *console {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	c := &console{
		client:   opts.Client,
		log:      log,
		reg:      action.NewRegistry(),
		guard:    guard.New(),
		elements: map[string]*action.Element{},
		roots:    map[string]*action.Element{},
	}

	c.configCache = cache.New("config", func(ctx context.Context) (model.Config, error) {
		return c.client.GetConfig(ctx)
	})
	c.promptsCache = cache.New("prompts", func(ctx context.Context) ([]model.Prompt, error) {
		return c.client.ListPrompts(ctx)
	})
	c.rolesCache = cache.New("agent-roles", func(ctx context.Context) ([]model.AgentRole, error) {
		return c.client.ListAgentRoles(ctx)
	})

	c.sched = poll.New(c.viewActive, c.log, func(owner string, err error) {
		c.post(pollErrMsg{owner: owner, err: err})
	})

	c.registerActions()
	return c
}

func (c *console) setSend(send func(tea.Msg)) {
	c.mu.Lock()
	c.send = send
	c.mu.Unlock()
}

func (c *console) post(msg tea.Msg) {
	c.mu.Lock()
	send := c.send
	c.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (c *console) setActiveView(v view) {
	c.activeView.Store(int32(v))
}

func (c *console) viewActive(owner string) bool {
	switch owner {
	case ownerStatus:
		return true
	case ownerQueues:
		return view(c.activeView.Load()) == viewQueues
	case ownerTasks:
		return view(c.activeView.Load()) == viewTasks
	case ownerConfig:
		return view(c.activeView.Load()) == viewConfig
	default:
		return false
	}
}

func (c *console) setQueue(id string) {
	c.mu.Lock()
	c.queueID = id
	c.mu.Unlock()
}

func (c *console) currentQueue() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queueID
}

// Ticks. Each goes through the guard under the same key a manual refresh
// uses, so a slow fetch is never stacked behind another; overlapping passes
// are skipped outright.

func (c *console) tickQueues() error {
	return c.refreshQueues()
}

func (c *console) tickTasks() error {
	if c.currentQueue() == "" {
		return nil
	}
	return c.refreshTasks()
}

func (c *console) tickConfig() error {
	return c.refreshConfig(false)
}

// tickStatus reports failures on the status line only; returning them to the
// scheduler as well would raise a second, redundant transient notice.
func (c *console) tickStatus() error {
	ctx := context.Background()
	msg := statusMsg{}
	h, herr := c.client.Health(ctx)
	if herr == nil {
		msg.health = &h
	} else {
		msg.err = herr.Error()
	}
	s, serr := c.client.Stats(ctx)
	if serr == nil {
		msg.stats = &s
	} else if msg.err == "" {
		msg.err = serr.Error()
	}
	if herr != nil || serr != nil {
		c.log.Warn("status poll failed", "health_err", herr, "stats_err", serr)
	}
	c.post(msg)
	return nil
}

func (c *console) refreshQueues() error {
	_, err := c.guard.Do(ownerQueues, func() error {
		qs, err := c.client.ListQueues(context.Background())
		if err != nil {
			return err
		}
		c.post(queuesLoadedMsg{queues: qs})
		return nil
	})
	return err
}

func (c *console) refreshTasks() error {
	queueID := c.currentQueue()
	if queueID == "" {
		return nil
	}
	_, err := c.guard.Do(ownerTasks, func() error {
		ts, err := c.client.ListTasks(context.Background(), api.TaskFilter{QueueID: queueID})
		if err != nil {
			return err
		}
		c.post(tasksLoadedMsg{queueID: queueID, tasks: ts, at: time.Now()})
		return nil
	})
	return err
}

func (c *console) refreshConfig(force bool) error {
	_, err := c.guard.Do(ownerConfig, func() error {
		ctx := context.Background()
		msg := configLoadedMsg{}
		cfg, err := c.configCache.Get(ctx, force)
		if err != nil {
			msg.errs = append(msg.errs, err.Error())
		} else {
			msg.config = cfg
			msg.hasConfig = true
		}
		if ps, err := c.promptsCache.Get(ctx, force); err != nil {
			msg.errs = append(msg.errs, err.Error())
		} else {
			msg.prompts = ps
			msg.hasPrompts = true
		}
		if rs, err := c.rolesCache.Get(ctx, force); err != nil {
			msg.errs = append(msg.errs, err.Error())
		} else {
			msg.roles = rs
			msg.hasRoles = true
		}
		c.post(msg)
		return nil
	})
	return err
}

// taskButton returns the stable action element for one verb on one task row.
// The row carries the task id; the button carries only the action name, so
// handlers read context via Lookup the way the registry expects.
func (c *console) taskButton(taskID, name string) *action.Element {
	return c.button("task:"+taskID, "task_id", taskID, name)
}

func (c *console) queueButton(queueID, name string) *action.Element {
	return c.button("queue:"+queueID, "queue_id", queueID, name)
}

func (c *console) button(rowKey, idAttr, idVal, name string) *action.Element {
	c.mu.Lock()
	defer c.mu.Unlock()

	root := c.roots["content"]
	if root == nil {
		root = action.NewElement(nil, nil)
		c.roots["content"] = root
	}
	row := c.elements[rowKey]
	if row == nil {
		row = action.NewElement(root, map[string]string{idAttr: idVal})
		c.elements[rowKey] = row
	}
	key := rowKey + "\x00" + name
	btn := c.elements[key]
	if btn == nil {
		btn = action.NewElement(row, map[string]string{action.AttrAction: name})
		c.elements[key] = btn
	}
	return btn
}

// dispatch runs the registry on a command goroutine and reports the outcome
// to the update loop. Holding busy for the duration of the handler is what
// makes a double key press a no-op instead of a double mutation.
func (c *console) dispatch(btn *action.Element, label string) tea.Cmd {
	return func() tea.Msg {
		handled, err := c.reg.Dispatch(btn)
		return actionDoneMsg{label: label, handled: handled, err: err}
	}
}

func (c *console) registerActions() {
	ctx := context.Background()

	taskVerb := func(fn func(ctx context.Context, id string) (model.Task, error)) action.Handler {
		return func(el *action.Element) error {
			id, err := action.MustAttr(el, "task_id")
			if err != nil {
				return err
			}
			_, err = fn(ctx, id)
			return err
		}
	}

	c.reg.Register("task.claim", taskVerb(c.client.ClaimTask))
	c.reg.Register("task.requeue", taskVerb(c.client.RequeueTask))
	c.reg.Register("task.rerun", taskVerb(c.client.RerunTask))

	c.reg.Register("task.fail", func(el *action.Element) error {
		id, err := action.MustAttr(el, "task_id")
		if err != nil {
			return err
		}
		_, err = c.client.FailTask(ctx, id, el.Attr("reason"))
		return err
	})

	c.reg.Register("task.enqueue", func(el *action.Element) error {
		queueID, err := action.MustAttr(el, "queue_id")
		if err != nil {
			return err
		}
		_, err = c.client.EnqueueTask(ctx, api.EnqueueRequest{
			QueueID: queueID,
			Payload: el.Attr("payload"),
		})
		return err
	})

	c.reg.Register("queue.archive", func(el *action.Element) error {
		id, err := action.MustAttr(el, "queue_id")
		if err != nil {
			return err
		}
		_, err = c.client.ArchiveQueue(ctx, id)
		return err
	})

	c.reg.Register("queue.unarchive", func(el *action.Element) error {
		id, err := action.MustAttr(el, "queue_id")
		if err != nil {
			return err
		}
		_, err = c.client.UnarchiveQueue(ctx, id)
		return err
	})
}

// failReason prefills the confirm modal for timed-out tasks so the operator
// records why the task was pulled.
func failReason(st staleness.State) string {
	if st.Tier() == staleness.TierTimeout {
		return "timed out: exceeded allotted execution time"
	}
	return "failed by operator"
}
