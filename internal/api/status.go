package api

import (
	"context"

	"taskdeck/internal/model"
)

// Health and Stats feed the status-indicator polling owner; they live outside
// the /api prefix.

func (c *Client) Health(ctx context.Context) (model.Health, error) {
	var out model.Health
	if err := c.get(ctx, "/health", nil, &out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var out model.Stats
	if err := c.get(ctx, "/stats", nil, &out); err != nil {
		return out, err
	}
	return out, nil
}
