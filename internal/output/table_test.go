// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_AlignmentAndPadding(t *testing.T) {
	noColor(t)
	tbl := NewTable(Column{Header: "NAME"}, Column{Header: "N", Align: AlignRight})
	tbl.AddRow("a", "1")
	tbl.AddRow("longer", "100", "ignored")
	tbl.AddRow("short")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))
	assert.Equal(t, "NAME      N\n"+
		"a         1\n"+
		"longer  100\n"+
		"short\n", buf.String())
	assert.Equal(t, 3, tbl.Len())
}

func TestTable_ColorFuncDoesNotAffectWidth(t *testing.T) {
	noColor(t)
	tbl := NewTable(Column{Header: "A", Color: func(s string) string { return "<" + s + ">" }}, Column{Header: "B"})
	tbl.AddRow("x", "y")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))
	assert.Equal(t, "A  B\n<x>  y\n", buf.String())
}

func TestTable_NoColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTable().Render(&buf))
	assert.Empty(t, buf.String())
}

func TestColorAction_Plain(t *testing.T) {
	noColor(t)
	for _, a := range []string{"create", "update", "delete", "failed", "none"} {
		assert.Equal(t, a, ColorAction(a))
	}
}
