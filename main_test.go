package main

import (
	"bytes"
	"errors"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chenkai036/aoc/internal/model"
	"github.com/chenkai036/aoc/internal/tui"
)

const examplePath = "testdata/example.txt"

func runArgs(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Answers(t *testing.T) {
	code, stdout, stderr := runArgs(t, "-i", examplePath)

	assert.Equal(t, 0, code)
	assert.Equal(t, "part1 = 95437\npart2 = 24933642\n", stdout)
	assert.Empty(t, stderr)
}

func TestRun_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("$ cd /\n$ pwd\n"), 0o644))

	code, stdout, stderr := runArgs(t, "--input", path)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(stderr, "day7: "))
	assert.Contains(t, stderr, "line 2")
	assert.Equal(t, 1, strings.Count(stderr, "\n"))
}

func TestRun_SizeOverflow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.txt")
	require.NoError(t, os.WriteFile(path, []byte("$ cd /\n$ ls\n18446744073709551615 a\n1 b\n"), 0o644))

	for _, mode := range [][]string{nil, {"--json"}, {"-r"}} {
		code, stdout, stderr := runArgs(t, append([]string{"-i", path}, mode...)...)

		assert.Equal(t, 1, code, mode)
		assert.Empty(t, stdout, mode)
		assert.Equal(t, "day7: sum file sizes: size overflow\n", stderr, mode)
	}
}

func TestRun_MissingInput(t *testing.T) {
	code, stdout, stderr := runArgs(t, "-i", filepath.Join(t.TempDir(), "missing.txt"))

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "open transcript")
}

func TestRun_JSON(t *testing.T) {
	code, stdout, _ := runArgs(t, "-i", examplePath, "--json")
	require.Equal(t, 0, code)

	var result model.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, model.Answers{Part1: 95437, Part2: 24933642}, result.Answers)
	assert.Equal(t, "/d/", result.DeletePath)
}

func TestRun_YAML(t *testing.T) {
	code, stdout, _ := runArgs(t, "-i", examplePath, "-y")
	require.Equal(t, 0, code)

	var result model.Result
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, uint64(48381165), result.Used)
	assert.Contains(t, stdout, "part1: 95437")
}

func TestRun_Report(t *testing.T) {
	code, stdout, _ := runArgs(t, "-i", examplePath, "-r")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "part2 = 24933642  (delete /d/)")

	out := filepath.Join(t.TempDir(), "report.txt")
	code, stdout, _ = runArgs(t, "-i", examplePath, "-r", "-o", out, "--log-level", "error")
	require.Equal(t, 0, code)
	assert.Equal(t, "Report saved to "+out+"\n", stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "part1 = 95437")
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runArgs(t, "-V")

	assert.Equal(t, 0, code)
	assert.Equal(t, "day7 version "+model.Version+"\n", stdout)
}

func TestRun_Help(t *testing.T) {
	code, stdout, stderr := runArgs(t, "--help")

	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Usage: day7 [options]")
	assert.Contains(t, stderr, "--input")
}

func TestRun_BadFlag(t *testing.T) {
	code, _, stderr := runArgs(t, "--no-such-flag")

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "no-such-flag")
}

func TestTuiExitCode(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 0, tuiExitCode(tui.InitialModel(examplePath), nil, &stderr))
	assert.Empty(t, stderr.String())

	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("$ cd /\n$ pwd\n"), 0o644))
	m := tui.InitialModel(path)
	next, _ := m.Update(tui.LoadCmd(path, m.Logger)())
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	assert.Equal(t, 1, tuiExitCode(next, nil, &stderr))
	assert.True(t, strings.HasPrefix(stderr.String(), "day7: "))
	assert.Contains(t, stderr.String(), "line 2")
	assert.Equal(t, 1, strings.Count(stderr.String(), "\n"))

	stderr.Reset()
	assert.Equal(t, 1, tuiExitCode(nil, errors.New("no tty"), &stderr))
	assert.Equal(t, "day7: no tty\n", stderr.String())
}

func TestRun_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.txt")
	require.NoError(t, os.WriteFile(path, []byte("$ ls\n10 a\n$ ls\n20 a\n"), 0o644))
	logFile := filepath.Join(t.TempDir(), "day7.log")

	code, stdout, stderr := runArgs(t, "-i", path, "--log-file", logFile, "--log-format", "json")
	require.Equal(t, 0, code)
	assert.Equal(t, "part1 = 10\npart2 = 0\n", stdout)
	assert.Empty(t, stderr)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"path":"/a"`)
	assert.NotContains(t, string(data), "replay command")

	verboseLog := filepath.Join(t.TempDir(), "verbose.log")
	code, _, _ = runArgs(t, "-i", path, "--log-file", verboseLog, "-v")
	require.Equal(t, 0, code)
	data, err = os.ReadFile(verboseLog)
	require.NoError(t, err)
	assert.Contains(t, string(data), "replay command")
}
