package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"taskdeck/internal/model"
)

func (c *Client) ListQueues(ctx context.Context) ([]model.Queue, error) {
	var out []model.Queue
	if err := c.get(ctx, "/api/queues", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetQueue(ctx context.Context, id string) (model.Queue, error) {
	var out model.Queue
	id = strings.TrimSpace(id)
	if id == "" {
		return out, errValidation("queue id", "required")
	}
	if err := c.get(ctx, "/api/queues/"+url.PathEscape(id), nil, &out); err != nil {
		return out, err
	}
	return out, nil
}

type CreateQueueRequest struct {
	SessionID    string `json:"session_id"`
	Name         string `json:"name"`
	Instructions string `json:"instructions,omitempty"`
}

func (c *Client) CreateQueue(ctx context.Context, req CreateQueueRequest) (model.Queue, error) {
	var out model.Queue
	if strings.TrimSpace(req.Name) == "" {
		return out, errValidation("name", "required")
	}
	if err := c.send(ctx, http.MethodPost, "/api/queues", req, &out); err != nil {
		return out, err
	}
	return out, nil
}

// ArchiveQueue and UnarchiveQueue flip the queue lifecycle; both return the
// updated queue so callers can re-render without a second read.
func (c *Client) ArchiveQueue(ctx context.Context, id string) (model.Queue, error) {
	return c.queueVerb(ctx, id, "archive")
}

func (c *Client) UnarchiveQueue(ctx context.Context, id string) (model.Queue, error) {
	return c.queueVerb(ctx, id, "unarchive")
}

func (c *Client) queueVerb(ctx context.Context, id, verb string) (model.Queue, error) {
	var out model.Queue
	id = strings.TrimSpace(id)
	if id == "" {
		return out, errValidation("queue id", "required")
	}
	err := c.send(ctx, http.MethodPost, "/api/queues/"+url.PathEscape(id)+"/"+verb, nil, &out)
	return out, err
}
