// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package output

import (
	"github.com/fatih/color"

	"github.com/fdaforno/litellmctl/internal/reconcile"
	"github.com/fdaforno/litellmctl/internal/state"
)

// Shared color printers.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBold   = color.New(color.Bold)
)

// actionFailed labels outcomes that ended in an error.
const actionFailed = "failed"

// ColorAction colors an action label.
func ColorAction(val string) string {
	switch val {
	case string(reconcile.ActionCreate):
		return colorGreen.Sprint(val)
	case string(reconcile.ActionUpdate):
		return colorYellow.Sprint(val)
	case string(reconcile.ActionDelete), actionFailed:
		return colorRed.Sprint(val)
	default:
		return val
	}
}

// ColorDirection colors trend direction labels.
func ColorDirection(val string) string {
	switch state.Direction(val) {
	case state.Improving:
		return colorGreen.Sprint(val)
	case state.Degrading:
		return colorRed.Sprint(val)
	default:
		return val
	}
}

// colorCount colors a failure count: 0 is green, >0 is red.
func colorCount(n int) string {
	s := itoa(n)
	if n == 0 {
		return colorGreen.Sprint(s)
	}
	return colorRed.Sprint(s)
}
