// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package litellm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// GetTeam fetches a team by ID. It returns (nil, nil) when the team does not exist.
func (c *Client) GetTeam(ctx context.Context, teamID string) (*Team, error) {
	var raw json.RawMessage
	err := c.get(ctx, "/team/info", url.Values{"team_id": {teamID}}, &raw)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeTeamInfo(raw)
}

// decodeTeamInfo accepts both the wrapped {"team_id", "team_info": {...}}
// shape of current proxies and a bare team object.
func decodeTeamInfo(raw json.RawMessage) (*Team, error) {
	var wrapped struct {
		TeamID   string          `json:"team_id"`
		TeamInfo json.RawMessage `json:"team_info"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("litellm: decoding team: %w", err)
	}

	body := raw
	if len(wrapped.TeamInfo) > 0 && string(wrapped.TeamInfo) != "null" {
		body = wrapped.TeamInfo
	}

	var team Team
	if err := json.Unmarshal(body, &team); err != nil {
		return nil, fmt.Errorf("litellm: decoding team: %w", err)
	}
	if team.TeamID == "" {
		team.TeamID = wrapped.TeamID
	}
	return &team, nil
}

// ListTeams returns every team visible to the API key.
func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/team/list", nil, &raw); err != nil {
		return nil, err
	}

	var teams []Team
	if err := json.Unmarshal(raw, &teams); err == nil {
		return teams, nil
	}

	var wrapped struct {
		Teams []Team `json:"teams"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("litellm: GET /team/list: %w: %s", ErrInvalidResponse, truncate(raw))
	}
	return wrapped.Teams, nil
}

// FindTeamByName returns the first team whose alias or legacy name equals
// name, or (nil, nil) if there is none.
func (c *Client) FindTeamByName(ctx context.Context, name string) (*Team, error) {
	teams, err := c.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		if teams[i].TeamAlias == name || teams[i].TeamName == name {
			return &teams[i], nil
		}
	}
	return nil, nil
}

// CreateTeam creates a team and returns the stored record.
func (c *Client) CreateTeam(ctx context.Context, req TeamCreateRequest) (*Team, error) {
	var team Team
	if err := c.post(ctx, "/team/new", req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// UpdateTeam updates a team and returns the stored record.
func (c *Client) UpdateTeam(ctx context.Context, req TeamUpdateRequest) (*Team, error) {
	var raw json.RawMessage
	if err := c.post(ctx, "/team/update", req, &raw); err != nil {
		return nil, err
	}
	return decodeUpdatedTeam(raw, req.TeamID)
}

// decodeUpdatedTeam handles both a bare team and the {"data": {...}} shape
// some proxy versions return from /team/update.
func decodeUpdatedTeam(raw json.RawMessage, teamID string) (*Team, error) {
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	body := raw
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Data) > 0 && string(wrapped.Data) != "null" {
		body = wrapped.Data
	}

	var team Team
	if err := json.Unmarshal(body, &team); err != nil {
		return nil, fmt.Errorf("litellm: decoding team: %w", err)
	}
	if team.TeamID == "" {
		team.TeamID = teamID
	}
	return &team, nil
}

// DeleteTeam deletes a team by ID.
func (c *Client) DeleteTeam(ctx context.Context, teamID string) error {
	body := map[string][]string{"team_ids": {teamID}}
	return c.post(ctx, "/team/delete", body, nil)
}

// truncate shortens a raw body for error messages.
func truncate(raw []byte) string {
	const limit = 200
	if len(raw) <= limit {
		return string(raw)
	}
	return string(raw[:limit]) + "..."
}
