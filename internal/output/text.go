// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fdaforno/litellmctl/internal/litellm"
	"github.com/fdaforno/litellmctl/internal/pipeline"
	"github.com/fdaforno/litellmctl/internal/reconcile"
	"github.com/fdaforno/litellmctl/internal/redact"
	"github.com/fdaforno/litellmctl/internal/state"
)

func init() {
	RegisterFormatter(NewTextFormatter())
}

// TextFormatter renders human-readable tables and summaries. Colors follow
// fatih/color, which disables itself when stdout is not a terminal.
type TextFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*TextFormatter)(nil)

// NewTextFormatter returns a new TextFormatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the known result types; anything else is written as YAML.
func (f *TextFormatter) Format(v any, w io.Writer) error {
	switch x := v.(type) {
	case *pipeline.Report:
		return formatReport(x, w)
	case *reconcile.Result:
		return formatResult(x, w)
	case []litellm.Team:
		return formatTeams(x, w)
	case []litellm.VirtualKey:
		return formatKeys(x, w)
	case []litellm.Model:
		return formatModels(x, w)
	case []litellm.Endpoint:
		return formatEndpoints(x, w)
	case *state.Overview:
		return formatOverview(x, w)
	default:
		return NewYAMLFormatter().Format(v, w)
	}
}

func formatResult(r *reconcile.Result, w io.Writer) error {
	if _, err := fmt.Fprintln(w, r.Message); err != nil {
		return err
	}
	return formatChanges(r.Changes, "  ", w)
}

func formatChanges(changes []reconcile.Change, indent string, w io.Writer) error {
	for _, c := range changes {
		_, err := fmt.Fprintf(w, "%s%s %s: %s -> %s\n", indent, colorYellow.Sprint("~"), c.Field, brief(c.Before), brief(c.After))
		if err != nil {
			return err
		}
	}
	return nil
}

func formatReport(r *pipeline.Report, w io.Writer) error {
	t := NewTable(
		Column{Header: "KIND"},
		Column{Header: "NAME"},
		Column{Header: "ACTION", Color: ColorAction},
		Column{Header: "DETAIL"},
	)
	for _, o := range r.Outcomes {
		detail := ""
		switch {
		case o.Failed():
			detail = o.Error
		case o.Result != nil && len(o.Result.Changes) > 0:
			fields := make([]string, len(o.Result.Changes))
			for i, c := range o.Result.Changes {
				fields[i] = c.Field
			}
			detail = strings.Join(fields, ", ")
		case o.Result != nil:
			detail = o.Result.Message
		}
		t.AddRow(string(o.Kind), o.Name, o.Action(), detail)
	}
	if t.Len() > 0 {
		if err := t.Render(w); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	s := r.Summary()
	title := "Apply complete:"
	verbs := [3]string{"created", "updated", "deleted"}
	if r.CheckMode {
		title = "Plan:"
		verbs = [3]string{"to create", "to update", "to delete"}
	}
	_, err := fmt.Fprintf(w, "%s %d %s, %d %s, %d %s, %d unchanged, %s failed (run %s, %s)\n",
		colorBold.Sprint(title),
		s.Created, verbs[0], s.Updated, verbs[1], s.Deleted, verbs[2],
		s.Unchanged, colorCount(s.Failed), r.RunID, r.Duration.Round(time.Millisecond))
	return err
}

func formatTeams(teams []litellm.Team, w io.Writer) error {
	t := NewTable(
		Column{Header: "TEAM ID"},
		Column{Header: "ALIAS"},
		Column{Header: "MODELS"},
		Column{Header: "MAX BUDGET", Align: AlignRight},
		Column{Header: "SPEND", Align: AlignRight},
	)
	for _, tm := range teams {
		t.AddRow(tm.TeamID, tm.Name(), strings.Join(tm.Models, ","), floatPtr(tm.MaxBudget), formatFloat(tm.Spend))
	}
	return renderOrEmpty(t, "teams", w)
}

func formatKeys(keys []litellm.VirtualKey, w io.Writer) error {
	t := NewTable(
		Column{Header: "TOKEN"},
		Column{Header: "ALIAS"},
		Column{Header: "TEAM ID"},
		Column{Header: "MODELS"},
		Column{Header: "MAX BUDGET", Align: AlignRight},
		Column{Header: "EXPIRES"},
	)
	for _, k := range keys {
		t.AddRow(redact.MaskKey(k.ID()), k.Name(), k.TeamID, strings.Join(k.Models, ","), floatPtr(k.MaxBudget), k.Expires)
	}
	return renderOrEmpty(t, "virtual keys", w)
}

func formatModels(models []litellm.Model, w io.Writer) error {
	t := NewTable(Cols("MODEL NAME", "ID", "PROVIDER", "MODEL", "SOURCE")...)
	for _, m := range models {
		target, _ := m.LiteLLMParams["model"].(string)
		source := "config"
		if m.DBManaged() {
			source = "db"
		}
		t.AddRow(m.ModelName, m.ID(), litellm.ProviderOf(m.LiteLLMParams), target, source)
	}
	return renderOrEmpty(t, "models", w)
}

func formatEndpoints(endpoints []litellm.Endpoint, w io.Writer) error {
	t := NewTable(Cols("ENDPOINT", "PROVIDER", "API BASE", "API VERSION", "MODEL ID")...)
	for _, e := range endpoints {
		t.AddRow(e.EndpointName, e.Provider, e.APIBase, e.APIVersion, e.ModelID)
	}
	return renderOrEmpty(t, "endpoints", w)
}

func formatOverview(o *state.Overview, w io.Writer) error {
	t := NewTable(
		Column{Header: "RUN ID"},
		Column{Header: "TIME"},
		Column{Header: "MODE"},
		Column{Header: "CREATED", Align: AlignRight},
		Column{Header: "UPDATED", Align: AlignRight},
		Column{Header: "DELETED", Align: AlignRight},
		Column{Header: "UNCHANGED", Align: AlignRight},
		Column{Header: "FAILED", Align: AlignRight},
		Column{Header: "API URL"},
	)
	for _, e := range o.Entries {
		mode := "apply"
		if e.CheckMode {
			mode = "plan"
		}
		s := e.Summary
		t.AddRow(e.RunID, e.Timestamp.Local().Format(time.DateTime), mode,
			itoa(s.Created), itoa(s.Updated), itoa(s.Deleted), itoa(s.Unchanged), itoa(s.Failed), e.APIURL)
	}
	if err := renderOrEmpty(t, "apply runs", w); err != nil {
		return err
	}
	if o.Trends == nil {
		return nil
	}
	_, err := fmt.Fprintf(w, "\n%s drift %s (%d -> %d), failures %s (%d -> %d) over %d runs\n",
		colorBold.Sprint("Trend:"),
		ColorDirection(string(o.Trends.Drift.Direction)), o.Trends.Drift.Previous, o.Trends.Drift.Current,
		ColorDirection(string(o.Trends.Failures.Direction)), o.Trends.Failures.Previous, o.Trends.Failures.Current,
		o.Trends.DataPoints)
	return err
}

func renderOrEmpty(t *Table, what string, w io.Writer) error {
	if t.Len() == 0 {
		_, err := fmt.Fprintf(w, "No %s found.\n", what)
		return err
	}
	return t.Render(w)
}

// brief renders a change value on one line.
func brief(v any) string {
	switch x := v.(type) {
	case nil:
		return "(unset)"
	case string:
		return strconv.Quote(x)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	}
}

func floatPtr(f *float64) string {
	if f == nil {
		return "-"
	}
	return formatFloat(*f)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
