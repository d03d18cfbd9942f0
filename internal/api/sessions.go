package api

import (
	"context"

	"taskdeck/internal/model"
)

func (c *Client) ListSessions(ctx context.Context) ([]model.Session, error) {
	var out []model.Session
	if err := c.get(ctx, "/api/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListStreams(ctx context.Context) ([]model.Stream, error) {
	var out []model.Stream
	if err := c.get(ctx, "/api/streams", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
