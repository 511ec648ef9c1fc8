package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLines(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "day7.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetLineContext(t *testing.T) {
	path := writeLines(t, "l1\nl2\nl3\nl4\nl5\nl6\nl7\n")

	ctx := GetLineContext(path, 4)
	assert.Empty(t, ctx.ErrorMsg)
	assert.Equal(t, []string{"l2", "l3"}, ctx.Before)
	assert.Equal(t, "l4", ctx.Target)
	assert.Equal(t, []string{"l5", "l6"}, ctx.After)
	assert.Equal(t, 4, ctx.LineNumber)
}

func TestGetLineContext_Edges(t *testing.T) {
	path := writeLines(t, "l1\nl2\nl3\n")

	first := GetLineContext(path, 1)
	assert.Empty(t, first.Before)
	assert.Equal(t, "l1", first.Target)
	assert.Equal(t, []string{"l2", "l3"}, first.After)

	last := GetLineContext(path, 3)
	assert.Equal(t, []string{"l1", "l2"}, last.Before)
	assert.Equal(t, "l3", last.Target)
	assert.Empty(t, last.After)
}

func TestGetLineContext_Errors(t *testing.T) {
	path := writeLines(t, "l1\nl2\n")

	assert.Equal(t, "Line 5 out of range (file has 2 lines)", GetLineContext(path, 5).ErrorMsg)
	assert.Equal(t, "Line 0 out of range (file has 2 lines)", GetLineContext(path, 0).ErrorMsg)

	missing := GetLineContext(filepath.Join(t.TempDir(), "nope.txt"), 1)
	assert.Contains(t, missing.ErrorMsg, "Could not read file")
}
