package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chenkai036/aoc/internal/model"
	"github.com/chenkai036/aoc/internal/query"
	"github.com/chenkai036/aoc/internal/session"
)

const example = `$ cd /
$ ls
dir a
14848514 b.txt
8504156 c.dat
dir d
$ cd a
$ ls
dir e
29116 f
2557 g
62596 h.lst
$ cd e
$ ls
584 i
$ cd ..
$ cd ..
$ cd d
$ ls
4060174 j
8033020 d.log
5626152 d.ext
7214296 k
`

func loaded(t *testing.T) AppModel {
	t.Helper()
	state, err := session.Replay(strings.NewReader(example))
	require.NoError(t, err)
	result, err := query.Summarize(state.FS)
	require.NoError(t, err)

	m := InitialModel("input/day7.txt")
	return send(m, tea.WindowSizeMsg{Width: 120, Height: 40}, MsgResultReady(result))
}

func send(m AppModel, msgs ...tea.Msg) AppModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(AppModel)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestUpdate_Loaded(t *testing.T) {
	m := loaded(t)

	assert.False(t, m.Loading)
	require.NotNil(t, m.Current())
	assert.Equal(t, "/", m.Current().Path)
	assert.Equal(t, []int{0, 1, 2, 3}, m.FilteredIndices)
	assert.Equal(t, "/a/", m.Selected().Path)
}

func TestUpdate_Navigate(t *testing.T) {
	m := loaded(t)

	m = send(m, key("enter"))
	assert.Equal(t, "/a/", m.Current().Path)
	assert.Equal(t, "/a/e/", m.Selected().Path)

	m = send(m, key("down"), key("down"))
	assert.Equal(t, "/a/g", m.Selected().Path)

	// Files cannot be opened.
	m = send(m, key("enter"))
	assert.Equal(t, "/a/", m.Current().Path)

	m = send(m, key("backspace"))
	assert.Equal(t, "/", m.Current().Path)
	assert.Equal(t, "/a/", m.Selected().Path, "selection returns to the directory we left")

	// The root has no parent.
	m = send(m, key("h"))
	assert.Equal(t, "/", m.Current().Path)
}

func TestUpdate_SelectionBounds(t *testing.T) {
	m := loaded(t)

	m = send(m, key("up"))
	assert.Equal(t, 0, m.SelectedIdx)

	m = send(m, key("G"))
	assert.Equal(t, 3, m.SelectedIdx)
	m = send(m, key("j"))
	assert.Equal(t, 3, m.SelectedIdx)

	m = send(m, key("g"))
	assert.Equal(t, 0, m.SelectedIdx)
}

func TestUpdate_Filter(t *testing.T) {
	m := loaded(t)

	m = send(m, key("/"))
	assert.True(t, m.InputMode)

	m = send(m, key("c"))
	assert.True(t, m.FilterActive)
	require.Equal(t, []int{3}, m.FilteredIndices)
	assert.Equal(t, "/c.dat", m.Selected().Path)

	m = send(m, key("enter"))
	assert.False(t, m.InputMode)
	assert.True(t, m.FilterActive)

	m = send(m, key("esc"))
	assert.False(t, m.FilterActive)
	assert.Len(t, m.FilteredIndices, 4)
}

func TestUpdate_FilterNoMatch(t *testing.T) {
	m := loaded(t)

	m = send(m, key("/"), key("z"))
	assert.Empty(t, m.FilteredIndices)
	assert.Nil(t, m.Selected())
	assert.Contains(t, m.View(), "(empty)")
}

func TestUpdate_ToggleSmallAndHelp(t *testing.T) {
	m := loaded(t)
	require.True(t, m.HighlightSmall)

	m = send(m, key("s"))
	assert.False(t, m.HighlightSmall)

	m = send(m, key("?"))
	assert.True(t, m.ShowHelp)
	assert.Contains(t, m.View(), "filter by name prefix")

	m = send(m, key("j"))
	assert.Equal(t, 0, m.SelectedIdx, "keys are ignored while help is shown")

	m = send(m, key("esc"))
	assert.False(t, m.ShowHelp)
}

func TestUpdate_Quit(t *testing.T) {
	m := loaded(t)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUpdate_Error(t *testing.T) {
	m := send(InitialModel("x"), MsgError{Err: errors.New("boom")})

	assert.False(t, m.Loading)
	assert.Contains(t, m.View(), "Error: boom")
}

func TestView(t *testing.T) {
	m := loaded(t)

	assert.Contains(t, InitialModel("input/day7.txt").View(), "Replaying input/day7.txt")

	view := m.View()
	assert.Contains(t, view, "part1 = 95437")
	assert.Contains(t, view, "part2 = 24933642")
	assert.Contains(t, view, "b.txt")
	assert.Contains(t, view, "Path: /a/")
}

func TestDetailsText(t *testing.T) {
	m := loaded(t)

	details := m.detailsText()
	assert.Contains(t, details, "Kind: directory")
	assert.Contains(t, details, "Contains: 1 directories, 3 files")
	assert.Contains(t, details, model.IconSmall+" Counted by part 1")

	m = send(m, key("j"))
	assert.Contains(t, m.detailsText(), model.IconDelete+" Smallest directory that frees 8.4 MB")
}

func TestLoadCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day7.txt")
	require.NoError(t, os.WriteFile(path, []byte(example), 0o644))

	msg := LoadCmd(path, zap.NewNop())()
	ready, ok := msg.(MsgResultReady)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, uint64(95437), ready.Answers.Part1)

	msg = LoadCmd(filepath.Join(t.TempDir(), "missing.txt"), nil)()
	failed, ok := msg.(MsgError)
	require.True(t, ok, "got %T", msg)
	assert.ErrorIs(t, failed.Err, os.ErrNotExist)
}

func TestLoadCmd_LogsToModelLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day7.txt")
	require.NoError(t, os.WriteFile(path, []byte("$ ls\n10 a\n$ ls\n20 a\n"), 0o644))

	core, logs := observer.New(zapcore.WarnLevel)
	m := InitialModel(path)
	m.Logger = zap.New(core)

	msg := LoadCmd(m.InputPath, m.Logger)()
	ready, ok := msg.(MsgResultReady)
	require.True(t, ok, "got %T", msg)
	assert.Len(t, ready.Conflicts, 1)
	assert.Equal(t, 1, logs.Len())
}

func TestUpdate_ErrorSurvivesQuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("$ cd /\n$ pwd\n"), 0o644))

	m := InitialModel(path)
	m = send(m, LoadCmd(path, m.Logger)())

	next, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	final := next.(AppModel)
	require.Error(t, final.Err)
	var perr *session.ParseError
	assert.True(t, errors.As(final.Err, &perr))
}
