package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"taskdeck/internal/model"
)

func (c *Client) GetConfig(ctx context.Context) (model.Config, error) {
	var out model.Config
	if err := c.get(ctx, "/api/config", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateConfig(ctx context.Context, cfg model.Config) (model.Config, error) {
	if len(cfg) == 0 {
		return nil, errValidation("config", "empty document")
	}
	var out model.Config
	if err := c.send(ctx, http.MethodPut, "/api/config", cfg, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListPrompts(ctx context.Context) ([]model.Prompt, error) {
	var out []model.Prompt
	if err := c.get(ctx, "/api/prompts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePrompt(ctx context.Context, p model.Prompt) (model.Prompt, error) {
	var out model.Prompt
	if strings.TrimSpace(p.Name) == "" {
		return out, errValidation("name", "required")
	}
	if err := c.send(ctx, http.MethodPost, "/api/prompts", p, &out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Client) DeletePrompt(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errValidation("prompt id", "required")
	}
	return c.send(ctx, http.MethodDelete, "/api/prompts/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListAgentRoles(ctx context.Context) ([]model.AgentRole, error) {
	var out []model.AgentRole
	if err := c.get(ctx, "/api/agent-roles", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAgentRole(ctx context.Context, r model.AgentRole) (model.AgentRole, error) {
	var out model.AgentRole
	if strings.TrimSpace(r.Name) == "" {
		return out, errValidation("name", "required")
	}
	if err := c.send(ctx, http.MethodPost, "/api/agent-roles", r, &out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Client) DeleteAgentRole(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errValidation("role id", "required")
	}
	return c.send(ctx, http.MethodDelete, "/api/agent-roles/"+url.PathEscape(id), nil, nil)
}
