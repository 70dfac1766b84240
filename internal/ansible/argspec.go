// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package ansible

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Type is an Ansible argument type.
type Type string

// Argument types.
const (
	TypeStr   Type = "str"
	TypeBool  Type = "bool"
	TypeInt   Type = "int"
	TypeFloat Type = "float"
	TypeList  Type = "list"
	TypeDict  Type = "dict"
)

// NoLogPlaceholder replaces no_log values in the echoed invocation.
const NoLogPlaceholder = "VALUE_SPECIFIED_IN_NO_LOG_PARAMETER"

// Param describes one module argument.
type Param struct {
	Type     Type
	Required bool
	Default  any
	Choices  []string
	NoLog    bool
	Elements Type // element type for lists
}

// RequiredIf requires Requires when Key equals Value.
type RequiredIf struct {
	Key      string
	Value    string
	Requires []string
}

// ArgumentSpec describes every argument a module accepts.
type ArgumentSpec struct {
	Params     map[string]Param
	RequiredIf []RequiredIf
}

// Params are validated module arguments keyed by name. Every declared
// parameter is present; unset ones hold nil unless they have a default.
type Params map[string]any

// Validate checks raw against the spec, applies defaults, coerces types and
// returns every problem at once, in the wording Ansible users recognize.
func (s ArgumentSpec) Validate(module string, raw map[string]any) (Params, error) {
	var errs []string

	var unknown []string
	for k := range raw {
		if _, ok := s.Params[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		errs = append(errs, fmt.Sprintf("Unsupported parameters for (%s) module: %s. Supported parameters include: %s.",
			module, strings.Join(unknown, ", "), strings.Join(s.names(), ", ")))
	}

	out := make(Params, len(s.Params))
	var missing []string
	for _, name := range s.names() {
		p := s.Params[name]
		v, ok := raw[name]
		if !ok || v == nil {
			if p.Required {
				missing = append(missing, name)
			}
			out[name] = p.Default
			continue
		}
		cv, err := coerce(p.Type, p.Elements, v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("argument '%s' is of type %s and we were unable to convert to %s: %v", name, typeName(v), p.Type, err))
			continue
		}
		if len(p.Choices) > 0 {
			if s, _ := cv.(string); !contains(p.Choices, s) {
				errs = append(errs, fmt.Sprintf("value of %s must be one of: %s, got: %v", name, strings.Join(p.Choices, ", "), cv))
				continue
			}
		}
		out[name] = cv
	}
	if len(missing) > 0 {
		errs = append(errs, "missing required arguments: "+strings.Join(missing, ", "))
	}

	for _, ri := range s.RequiredIf {
		if fmt.Sprint(out[ri.Key]) != ri.Value {
			continue
		}
		var absent []string
		for _, r := range ri.Requires {
			if isEmpty(out[r]) {
				absent = append(absent, r)
			}
		}
		if len(absent) > 0 {
			errs = append(errs, fmt.Sprintf("%s is %s but all of the following are missing: %s", ri.Key, ri.Value, strings.Join(absent, ", ")))
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return out, nil
}

// Sanitized returns params with no_log values masked, for echoing back as
// invocation.module_args.
func (s ArgumentSpec) Sanitized(params Params) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		if s.Params[k].NoLog && !isEmpty(v) {
			out[k] = NoLogPlaceholder
			continue
		}
		out[k] = v
	}
	return out
}

// Secrets returns the values of every no_log parameter that is set.
func (s ArgumentSpec) Secrets(params Params) []string {
	var out []string
	for _, name := range s.names() {
		if v, ok := params[name].(string); ok && s.Params[name].NoLog && v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s ArgumentSpec) names() []string {
	names := make([]string, 0, len(s.Params))
	for k := range s.Params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String returns a string parameter, or "".
func (p Params) String(name string) string {
	s, _ := p[name].(string)
	return s
}

// Bool returns a bool parameter, or false.
func (p Params) Bool(name string) bool {
	b, _ := p[name].(bool)
	return b
}

// Float returns a float parameter, or nil when unset.
func (p Params) Float(name string) *float64 {
	if f, ok := p[name].(float64); ok {
		return &f
	}
	return nil
}

// Int64 returns an int parameter, or nil when unset.
func (p Params) Int64(name string) *int64 {
	if n, ok := p[name].(int64); ok {
		return &n
	}
	return nil
}

// Int returns an int parameter as *int, or nil when unset.
func (p Params) Int(name string) *int {
	if n, ok := p[name].(int64); ok {
		v := int(n)
		return &v
	}
	return nil
}

// Strings returns a list parameter, or nil.
func (p Params) Strings(name string) []string {
	items, _ := p[name].([]any)
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, fmt.Sprint(it))
	}
	return out
}

// Dict returns a dict parameter, or nil.
func (p Params) Dict(name string) map[string]any {
	m, _ := p[name].(map[string]any)
	return m
}

func coerce(t, elements Type, v any) (any, error) {
	switch t {
	case TypeStr, "":
		return toStr(v)
	case TypeBool:
		return toBool(v)
	case TypeInt:
		return toInt(v)
	case TypeFloat:
		return toFloat(v)
	case TypeList:
		items, err := toList(v)
		if err != nil || elements == "" {
			return items, err
		}
		for i, it := range items {
			cv, err := coerce(elements, "", it)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			items[i] = cv
		}
		return items, nil
	case TypeDict:
		return toDict(v)
	default:
		return nil, fmt.Errorf("unsupported argument type %q", t)
	}
}

func toStr(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case map[string]any, []any:
		return "", fmt.Errorf("cannot convert %s to str", typeName(v))
	default:
		return fmt.Sprint(x), nil
	}
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case float64:
		switch x {
		case 1:
			return true, nil
		case 0:
			return false, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "yes", "on", "1", "true", "t", "y":
			return true, nil
		case "no", "off", "0", "false", "f", "n":
			return false, nil
		}
	}
	return false, fmt.Errorf("%v is not a valid boolean", v)
}

func toInt(v any) (int64, error) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%v is not an integer", x)
		}
		// float64(math.MaxInt64) rounds up to 2^63.
		if x >= math.MaxInt64 || x < math.MinInt64 {
			return 0, fmt.Errorf("%v is out of range for an integer", x)
		}
		return int64(x), nil
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	}
	return 0, fmt.Errorf("%v is not an integer", v)
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	}
	return 0, fmt.Errorf("%v is not a float", v)
}

// toList accepts a JSON list or a comma-separated string.
func toList(v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return append([]any(nil), x...), nil
	case string:
		if strings.TrimSpace(x) == "" {
			return []any{}, nil
		}
		parts := strings.Split(x, ",")
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%v is not a list", v)
}

// toDict accepts a JSON object or a string holding one.
func toDict(v any) (map[string]any, error) {
	switch x := v.(type) {
	case map[string]any:
		return x, nil
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(x), &m); err != nil {
			return nil, fmt.Errorf("dictionary requested, could not parse JSON: %w", err)
		}
		return m, nil
	}
	return nil, fmt.Errorf("%v is not a dict", v)
}

func typeName(v any) string {
	switch v.(type) {
	case string:
		return "str"
	case bool:
		return "bool"
	case float64:
		return "float"
	case []any:
		return "list"
	case map[string]any:
		return "dict"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	default:
		return false
	}
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
