package tui

import (
	"github.com/chenkai036/aoc/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	InputPath string
	Result    model.Result
	Loading   bool
	Err       error
	Logger    *zap.Logger // replay logs; must not write to the terminal

	// Navigation: root first, current directory last
	Trail       []*model.TreeNode
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg

	// View Modes
	HighlightSmall bool
	ShowHelp       bool

	// Filter State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int // Indices into the current directory's children
	FilterActive    bool

	// Components
	DetailsViewport viewport.Model
}

// InitialModel returns the initial state for browsing the transcript at
// inputPath.
func InitialModel(inputPath string) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Name..."
	ti.CharLimit = 50
	ti.Width = 20

	return AppModel{
		InputPath:      inputPath,
		Loading:        true,
		InputBuffer:    ti,
		HighlightSmall: true,
		Logger:         zap.NewNop(),
	}
}

// Current returns the directory being browsed.
func (m AppModel) Current() *model.TreeNode {
	if len(m.Trail) == 0 {
		return nil
	}
	return m.Trail[len(m.Trail)-1]
}

// Selected returns the highlighted child of the current directory.
func (m AppModel) Selected() *model.TreeNode {
	cur := m.Current()
	if cur == nil || m.SelectedIdx >= len(m.FilteredIndices) {
		return nil
	}
	return cur.Children[m.FilteredIndices[m.SelectedIdx]]
}
