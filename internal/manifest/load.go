// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/fdaforno/litellmctl/internal/testable"
)

// FS is the file system used for loading manifests.
// Override in tests with a testable.MockFileSystem.
var FS testable.FileSystem = testable.DefaultFS

// LookupEnv resolves ${VAR} references. Tests may replace it.
var LookupEnv = os.LookupEnv

// Format is a manifest encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	default:
		return "", false
	}
}

// Load reads and merges the manifests at paths. A directory contributes
// its *.yaml, *.yml and *.toml files in lexical order; subdirectories are
// not read.
func Load(paths ...string) (*Manifest, error) {
	if len(paths) == 0 {
		return nil, errors.New("no manifest paths given")
	}

	merged := &Manifest{}
	for _, p := range paths {
		files, err := expandPath(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			m, err := LoadFile(f)
			if err != nil {
				return nil, err
			}
			merged.Merge(m)
		}
	}
	return merged, nil
}

func expandPath(path string) ([]string, error) {
	info, err := FS.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = FS.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == path {
				return nil
			}
			return fs.SkipDir
		}
		if _, ok := FormatForPath(p); ok {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading manifest directory %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("manifest directory %s contains no .yaml, .yml or .toml files", path)
	}
	sort.Strings(files)
	return files, nil
}

// LoadFile reads one manifest file.
func LoadFile(path string) (*Manifest, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, fmt.Errorf("manifest %s: unsupported extension (want .yaml, .yml or .toml)", path)
	}
	data, err := FS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	m, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes data and then expands ${VAR} references in its string
// values. Unknown fields are rejected.
func Parse(data []byte, format Format) (*Manifest, error) {
	var (
		m   *Manifest
		err error
	)
	switch format {
	case FormatYAML:
		m, err = parseYAML(data)
	case FormatTOML:
		m, err = parseTOML(string(data))
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := expandManifest(m); err != nil {
		return nil, err
	}
	return m, nil
}

// parseYAML decodes every document of a multi-document stream.
func parseYAML(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	merged := &Manifest{}
	for doc := 1; ; doc++ {
		var m Manifest
		err := dec.Decode(&m)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", doc, err)
		}
		merged.Merge(&m)
	}
	return merged, nil
}

func parseTOML(data string) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(data, &m)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown fields: %s", strings.Join(keys, ", "))
	}
	return &m, nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnv replaces ${VAR} with the value of VAR. Every unset variable is
// reported in the error.
func ExpandEnv(s string) (string, error) {
	var missing []string
	out := expand(s, &missing)
	if err := missingError(missing); err != nil {
		return "", err
	}
	return out, nil
}

func expand(s string, missing *[]string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := envRef.FindStringSubmatch(ref)[1]
		v, ok := LookupEnv(name)
		if !ok {
			*missing = append(*missing, name)
			return ref
		}
		return v
	})
}

func missingError(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	names := dedupe(missing)
	sort.Strings(names)
	return fmt.Errorf("environment variables not set: %s", strings.Join(names, ", "))
}

// expandManifest expands references in every string field and every string
// inside free-form maps such as litellm_params and metadata. Keys and
// non-string scalars are left alone.
func expandManifest(m *Manifest) error {
	var missing []string
	expandValue(reflect.ValueOf(m), &missing)
	return missingError(missing)
}

func expandValue(v reflect.Value, missing *[]string) {
	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			expandValue(v.Elem(), missing)
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				expandValue(v.Field(i), missing)
			}
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			expandValue(v.Index(i), missing)
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(expand(v.String(), missing))
		}
	case reflect.Map:
		if v.Type().Elem().Kind() != reflect.Interface {
			return
		}
		iter := v.MapRange()
		for iter.Next() {
			if out := expandAny(iter.Value().Interface(), missing); out != nil {
				v.SetMapIndex(iter.Key(), reflect.ValueOf(out))
			}
		}
	}
}

// expandAny handles the decoded shapes of free-form YAML and TOML values.
func expandAny(x any, missing *[]string) any {
	switch t := x.(type) {
	case string:
		return expand(t, missing)
	case map[string]any:
		for k, v := range t {
			t[k] = expandAny(v, missing)
		}
	case []any:
		for i := range t {
			t[i] = expandAny(t[i], missing)
		}
	case []map[string]any:
		for _, m := range t {
			expandAny(m, missing)
		}
	}
	return x
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
