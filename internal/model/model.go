package model

import "time"

type TaskStatus string

const (
	TaskQueued    TaskStatus = "queued"
	TaskClaimed   TaskStatus = "claimed"
	TaskRunning   TaskStatus = "running"
	TaskSucceeded TaskStatus = "succeeded"
	TaskFailed    TaskStatus = "failed"
)

// DefaultTaskTimeoutSeconds applies when a task carries no timeout (or a
// non-positive one). The backend uses the same default.
const DefaultTaskTimeoutSeconds int64 = 3600

type Task struct {
	ID        string     `json:"id"`
	QueueID   string     `json:"queue_id"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`
	// Timeout is the allotted execution time in seconds once claimed.
	Timeout       int64      `json:"timeout,omitempty"`
	StaleWarnedAt *time.Time `json:"stale_warned_at,omitempty"`

	Payload string `json:"payload,omitempty"`
	Result  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`

	AgentRole string    `json:"agent_role,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TimeoutOrDefault normalizes the configured timeout: absent or non-positive
// values fall back to DefaultTaskTimeoutSeconds.
func (t Task) TimeoutOrDefault() int64 {
	if t.Timeout > 0 {
		return t.Timeout
	}
	return DefaultTaskTimeoutSeconds
}

func (s TaskStatus) Terminal() bool {
	return s == TaskSucceeded || s == TaskFailed
}

type QueueStatus string

const (
	QueueActive   QueueStatus = "active"
	QueuePaused   QueueStatus = "paused"
	QueueArchived QueueStatus = "archived"
)

// QueueStats summarizes child task counts. The client only formats whatever
// the backend reports; it never recomputes aggregates locally.
type QueueStats struct {
	Total     int `json:"total"`
	Queued    int `json:"queued"`
	Claimed   int `json:"claimed"`
	Running   int `json:"running"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type Queue struct {
	ID           string      `json:"id"`
	SessionID    string      `json:"session_id"`
	Name         string      `json:"name"`
	Status       QueueStatus `json:"status"`
	Instructions string      `json:"instructions,omitempty"`
	Stats        QueueStats  `json:"stats"`
	CreatedAt    time.Time   `json:"created_at"`
}

type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Stream struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Config is the backend's configuration document. The console edits values
// but treats the set of keys as the backend's contract.
type Config map[string]any

type Prompt struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Body string `json:"body"`
}

type AgentRole struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Instructions string `json:"instructions,omitempty"`
}

type Health struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type Stats struct {
	Sessions     int `json:"sessions"`
	Queues       int `json:"queues"`
	TasksQueued  int `json:"tasks_queued"`
	TasksRunning int `json:"tasks_running"`
	TasksFailed  int `json:"tasks_failed"`
}
