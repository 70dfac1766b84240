// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

// Package reconcile maps declared LiteLLM resources onto the proxy with
// idempotent present/absent semantics: read the desired spec, fetch the
// current record, diff, then create, update or delete.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fdaforno/litellmctl/internal/litellm"
	"github.com/fdaforno/litellmctl/internal/metrics"
)

// State is the declared lifecycle of a resource.
type State string

// Supported states.
const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
)

// ParseState parses s case-insensitively. The empty string means present.
func ParseState(s string) (State, error) {
	switch State(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatePresent:
		return StatePresent, nil
	case StateAbsent:
		return StateAbsent, nil
	default:
		return "", fmt.Errorf("%w: state must be %q or %q, got %q", ErrInvalidSpec, StatePresent, StateAbsent, s)
	}
}

// effective returns the state with the default applied. Invalid values are
// rejected by Validate before any reconciler reads them.
func (s State) effective() State {
	st, err := ParseState(string(s))
	if err != nil {
		return s
	}
	return st
}

// Kind identifies a resource type.
type Kind string

// Resource kinds, in dependency order.
const (
	KindTeam       Kind = "team"
	KindVirtualKey Kind = "virtual_key"
	KindModel      Kind = "model"
	KindEndpoint   Kind = "endpoint"
)

// Kinds lists every kind in the order resources are created.
var Kinds = []Kind{KindTeam, KindVirtualKey, KindModel, KindEndpoint}

// Label returns a capitalized human-readable name for messages.
func (k Kind) Label() string {
	switch k {
	case KindTeam:
		return "Team"
	case KindVirtualKey:
		return "Virtual key"
	case KindModel:
		return "Model"
	case KindEndpoint:
		return "Endpoint"
	default:
		return string(k)
	}
}

// Action is what a reconciliation did, or would do in check mode.
type Action string

// Actions.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionNone   Action = "none"
)

// Errors returned by reconcilers.
var (
	// ErrInvalidSpec wraps every validation failure.
	ErrInvalidSpec = errors.New("invalid resource spec")

	// ErrTeamNotFound is returned when a key references an unknown team alias.
	ErrTeamNotFound = errors.New("team not found")
)

// Options control a reconciliation.
type Options struct {
	// CheckMode computes the plan without issuing any write.
	CheckMode bool
}

// Change is one field that differs between current and desired state.
type Change struct {
	Field  string `json:"field" yaml:"field"`
	Before any    `json:"before" yaml:"before"`
	After  any    `json:"after" yaml:"after"`
}

// Result describes the outcome of reconciling one resource.
type Result struct {
	Kind    Kind     `json:"kind" yaml:"kind"`
	Name    string   `json:"name" yaml:"name"`
	Action  Action   `json:"action" yaml:"action"`
	Changed bool     `json:"changed" yaml:"changed"`
	Message string   `json:"message" yaml:"message"`
	Changes []Change `json:"changes,omitempty" yaml:"changes,omitempty"`

	// Object is the remote record after the operation: the created or
	// updated record, the unchanged record, or the record that was deleted.
	// In check mode it is the current record, nil for a planned create.
	Object any `json:"object,omitempty" yaml:"object,omitempty"`
}

// API is the part of the LiteLLM client the reconcilers use.
type API interface {
	GetTeam(ctx context.Context, teamID string) (*litellm.Team, error)
	FindTeamByName(ctx context.Context, name string) (*litellm.Team, error)
	CreateTeam(ctx context.Context, req litellm.TeamCreateRequest) (*litellm.Team, error)
	UpdateTeam(ctx context.Context, req litellm.TeamUpdateRequest) (*litellm.Team, error)
	DeleteTeam(ctx context.Context, teamID string) error

	GetKey(ctx context.Context, keyID string) (*litellm.VirtualKey, error)
	FindKeyByAlias(ctx context.Context, alias string) (*litellm.VirtualKey, error)
	GenerateKey(ctx context.Context, req litellm.KeyGenerateRequest) (*litellm.VirtualKey, error)
	UpdateKey(ctx context.Context, req litellm.KeyUpdateRequest) (*litellm.VirtualKey, error)
	DeleteKey(ctx context.Context, keyID string) error

	GetModel(ctx context.Context, name string) (*litellm.Model, error)
	CreateModel(ctx context.Context, req litellm.ModelRequest) (*litellm.Model, error)
	UpdateModel(ctx context.Context, id string, req litellm.ModelRequest) (*litellm.Model, error)
	DeleteModel(ctx context.Context, id string) error

	GetEndpoint(ctx context.Context, name string) (*litellm.Endpoint, error)
	CreateEndpoint(ctx context.Context, req litellm.EndpointRequest) (*litellm.Endpoint, error)
	UpdateEndpoint(ctx context.Context, current *litellm.Endpoint, req litellm.EndpointRequest) (*litellm.Endpoint, error)
}

var _ API = (*litellm.Client)(nil)

func newResult(kind Kind, name string) *Result {
	return &Result{Kind: kind, Name: name, Action: ActionNone}
}

// planned fills in a changing action. In check mode the message says what
// would happen; otherwise the caller performs the write and calls done.
func (r *Result) planned(action Action, opts Options) *Result {
	r.Action = action
	r.Changed = true
	r.Message = r.message(opts.CheckMode)
	return r
}

// unchanged marks a no-op with the given message.
func (r *Result) unchanged(msg string) *Result {
	r.Action = ActionNone
	r.Changed = false
	r.Message = msg
	return r
}

func (r *Result) message(check bool) string {
	subject := fmt.Sprintf("%s '%s'", r.Kind.Label(), r.Name)
	verb := map[Action]string{
		ActionCreate: "created",
		ActionUpdate: "updated",
		ActionDelete: "deleted",
	}[r.Action]
	if check {
		return fmt.Sprintf("%s would be %s", subject, verb)
	}
	return fmt.Sprintf("%s %s successfully", subject, verb)
}

// observe records the outcome of a reconciler in the metrics registry.
func observe(kind Kind, res *Result, err error) {
	action := "error"
	if res != nil {
		action = string(res.Action)
	}
	metrics.ObserveReconcile(string(kind), action, err)
}

// Reconcile dispatches to the reconciler for the concrete spec type.
func Reconcile(ctx context.Context, api API, spec Spec, opts Options) (*Result, error) {
	switch s := spec.(type) {
	case TeamSpec:
		return ReconcileTeam(ctx, api, s, opts)
	case *TeamSpec:
		return ReconcileTeam(ctx, api, *s, opts)
	case KeySpec:
		return ReconcileKey(ctx, api, s, opts)
	case *KeySpec:
		return ReconcileKey(ctx, api, *s, opts)
	case ModelSpec:
		return ReconcileModel(ctx, api, s, opts)
	case *ModelSpec:
		return ReconcileModel(ctx, api, *s, opts)
	case EndpointSpec:
		return ReconcileEndpoint(ctx, api, s, opts)
	case *EndpointSpec:
		return ReconcileEndpoint(ctx, api, *s, opts)
	default:
		return nil, fmt.Errorf("%w: unsupported spec type %T", ErrInvalidSpec, spec)
	}
}
