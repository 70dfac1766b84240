// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package litellm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
)

// GetKey fetches a virtual key by its token or secret. It returns
// (nil, nil) when the key does not exist.
func (c *Client) GetKey(ctx context.Context, keyID string) (*VirtualKey, error) {
	var raw json.RawMessage
	err := c.get(ctx, "/key/info", url.Values{"key": {keyID}}, &raw)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Key  string          `json:"key"`
		Info json.RawMessage `json:"info"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("litellm: decoding key: %w", err)
	}

	body := raw
	if len(wrapped.Info) > 0 && string(wrapped.Info) != "null" {
		body = wrapped.Info
	}
	var key VirtualKey
	if err := json.Unmarshal(body, &key); err != nil {
		return nil, fmt.Errorf("litellm: decoding key: %w", err)
	}
	if key.ID() == "" {
		key.Key = wrapped.Key
	}
	if key.ID() == "" {
		key.Key = keyID
	}
	return &key, nil
}

// ListKeys returns every virtual key visible to the API key. Entries the
// proxy reports as bare token strings are skipped.
func (c *Client) ListKeys(ctx context.Context) ([]VirtualKey, error) {
	var raw json.RawMessage
	query := url.Values{"return_full_object": {"true"}}
	if err := c.get(ctx, "/key/list", query, &raw); err != nil {
		return nil, err
	}

	entries, err := keyListEntries(raw)
	if err != nil {
		return nil, err
	}

	keys := make([]VirtualKey, 0, len(entries))
	for _, entry := range entries {
		entry = bytes.TrimSpace(entry)
		if len(entry) == 0 || entry[0] != '{' {
			continue
		}
		var key VirtualKey
		if err := json.Unmarshal(entry, &key); err != nil {
			slog.Debug("skipping undecodable key entry", "error", err)
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// keyListEntries accepts a bare list or a {"keys": [...]} envelope and
// rejects anything else.
func keyListEntries(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("litellm: GET /key/list: %w: empty body", ErrInvalidResponse)
	}

	switch trimmed[0] {
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("litellm: GET /key/list: %w", err)
		}
		return entries, nil
	case '{':
		var wrapped struct {
			Keys []json.RawMessage `json:"keys"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("litellm: GET /key/list: %w", err)
		}
		return wrapped.Keys, nil
	default:
		return nil, fmt.Errorf("litellm: GET /key/list: %w: %s", ErrInvalidResponse, truncate(trimmed))
	}
}

// FindKeyByAlias returns the first key whose alias or key_name equals
// alias, or (nil, nil) if there is none.
func (c *Client) FindKeyByAlias(ctx context.Context, alias string) (*VirtualKey, error) {
	keys, err := c.ListKeys(ctx)
	if err != nil {
		return nil, err
	}
	for i := range keys {
		if keys[i].KeyAlias == alias || keys[i].KeyName == alias {
			return &keys[i], nil
		}
	}
	return nil, nil
}

// GenerateKey creates a virtual key. The returned record carries the secret
// in Key; the proxy never returns it again.
func (c *Client) GenerateKey(ctx context.Context, req KeyGenerateRequest) (*VirtualKey, error) {
	var key VirtualKey
	if err := c.post(ctx, "/key/generate", req, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// UpdateKey updates a virtual key identified by req.Key.
func (c *Client) UpdateKey(ctx context.Context, req KeyUpdateRequest) (*VirtualKey, error) {
	var key VirtualKey
	if err := c.post(ctx, "/key/update", req, &key); err != nil {
		return nil, err
	}
	if key.ID() == "" {
		key.Key = req.Key
	}
	return &key, nil
}

// DeleteKey deletes a virtual key by token or secret.
func (c *Client) DeleteKey(ctx context.Context, keyID string) error {
	body := map[string][]string{"keys": {keyID}}
	return c.post(ctx, "/key/delete", body, nil)
}
