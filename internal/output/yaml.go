// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"gopkg.in/yaml.v3"
)

func init() {
	RegisterFormatter(NewYAMLFormatter())
}

// YAMLFormatter writes values as YAML. Values are first converted through
// their JSON form so field names match the json output and the API.
type YAMLFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*YAMLFormatter)(nil)

// NewYAMLFormatter returns a new YAMLFormatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Name returns the format name.
func (f *YAMLFormatter) Name() string {
	return "yaml"
}

// Format writes v as a single YAML document.
func (f *YAMLFormatter) Format(v any, w io.Writer) error {
	generic, err := toGeneric(emptyIfNil(v))
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return enc.Close()
}

// toGeneric converts v into maps, slices and scalars via encoding/json.
func toGeneric(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return out, nil
}

// emptyIfNil turns nil slices into empty ones so listings render as [].
func emptyIfNil(v any) any {
	if v == nil {
		return v
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return reflect.MakeSlice(rv.Type(), 0, 0).Interface()
	}
	return v
}
