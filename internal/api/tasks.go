package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"taskdeck/internal/model"
)

// TaskFilter narrows ListTasks. Zero values are omitted from the query.
type TaskFilter struct {
	QueueID string
	Status  model.TaskStatus
	Offset  int
	Limit   int
}

func (c *Client) ListTasks(ctx context.Context, f TaskFilter) ([]model.Task, error) {
	q := url.Values{}
	if f.QueueID != "" {
		q.Set("queue_id", f.QueueID)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	var out []model.Task
	if err := c.get(ctx, "/api/tasks", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (model.Task, error) {
	var out model.Task
	id = strings.TrimSpace(id)
	if id == "" {
		return out, errValidation("task id", "required")
	}
	if err := c.get(ctx, "/api/tasks/"+url.PathEscape(id), nil, &out); err != nil {
		return out, err
	}
	return out, nil
}

type EnqueueRequest struct {
	QueueID   string `json:"queue_id"`
	Payload   string `json:"payload"`
	Timeout   int64  `json:"timeout,omitempty"`
	AgentRole string `json:"agent_role,omitempty"`
}

func (c *Client) EnqueueTask(ctx context.Context, req EnqueueRequest) (model.Task, error) {
	var out model.Task
	if strings.TrimSpace(req.QueueID) == "" {
		return out, errValidation("queue id", "required")
	}
	if strings.TrimSpace(req.Payload) == "" {
		return out, errValidation("payload", "required")
	}
	if err := c.send(ctx, http.MethodPost, "/api/tasks", req, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Task lifecycle verbs. Each returns the updated task.

func (c *Client) ClaimTask(ctx context.Context, id string) (model.Task, error) {
	return c.taskVerb(ctx, id, "claim", nil)
}

func (c *Client) CompleteTask(ctx context.Context, id, result string) (model.Task, error) {
	return c.taskVerb(ctx, id, "complete", map[string]string{"result": result})
}

// FailTask marks a task failed. reason is surfaced in the task's error field;
// it is also the body used when auto-failing a timed-out task.
func (c *Client) FailTask(ctx context.Context, id, reason string) (model.Task, error) {
	return c.taskVerb(ctx, id, "fail", map[string]string{"reason": reason})
}

func (c *Client) RequeueTask(ctx context.Context, id string) (model.Task, error) {
	return c.taskVerb(ctx, id, "requeue", nil)
}

func (c *Client) RerunTask(ctx context.Context, id string) (model.Task, error) {
	return c.taskVerb(ctx, id, "rerun", nil)
}

func (c *Client) taskVerb(ctx context.Context, id, verb string, body any) (model.Task, error) {
	var out model.Task
	id = strings.TrimSpace(id)
	if id == "" {
		return out, errValidation("task id", "required")
	}
	err := c.send(ctx, http.MethodPost, "/api/tasks/"+url.PathEscape(id)+"/"+verb, body, &out)
	return out, err
}
