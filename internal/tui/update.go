package tui

import (
	"fmt"
	"strings"

	"github.com/chenkai036/aoc/internal/model"
	"github.com/chenkai036/aoc/internal/query"
	"github.com/chenkai036/aoc/internal/session"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// MsgResultReady indicates that the transcript has been replayed and solved.
type MsgResultReady model.Result

// MsgError indicates that loading failed.
type MsgError struct {
	Err error
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = msg.Width / 2
		m.DetailsViewport.Height = msg.Height - 8 // title, footer and borders
		return m, nil

	case MsgResultReady:
		m.Loading = false
		m.Result = model.Result(msg)
		m.Trail = []*model.TreeNode{m.Result.Root}
		m.resetListing()
		return m, nil

	case MsgError:
		m.Err = msg.Err
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.applyFilter()
				return m, nil
			case tea.KeyEsc:
				m.clearFilter()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		if m.ShowHelp {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "?":
				m.ShowHelp = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.FilterActive {
				m.clearFilter()
			}
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.refreshDetails()
			}
		case "down", "j":
			if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
				m.refreshDetails()
			}
		case "g", "home":
			m.SelectedIdx = 0
			m.refreshDetails()
		case "G", "end":
			if len(m.FilteredIndices) > 0 {
				m.SelectedIdx = len(m.FilteredIndices) - 1
			}
			m.refreshDetails()
		case "enter", "l", "right":
			if sel := m.Selected(); sel != nil && sel.IsDir {
				m.Trail = append(m.Trail, sel)
				m.resetListing()
			}
		case "backspace", "h", "left":
			if len(m.Trail) > 1 {
				from := m.Current()
				m.Trail = m.Trail[:len(m.Trail)-1]
				m.resetListing()
				m.selectNode(from)
			}
		case "s":
			m.HighlightSmall = !m.HighlightSmall
		case "?":
			m.ShowHelp = true
		case "/":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue("")
			return m, textinput.Blink
		}
	}

	return m, cmd
}

// resetListing shows every child of the current directory.
func (m *AppModel) resetListing() {
	m.FilterActive = false
	m.InputBuffer.SetValue("")
	m.SelectedIdx = 0
	m.FilteredIndices = nil
	if cur := m.Current(); cur != nil {
		m.FilteredIndices = make([]int, len(cur.Children))
		for i := range cur.Children {
			m.FilteredIndices[i] = i
		}
	}
	m.refreshDetails()
}

func (m *AppModel) clearFilter() {
	m.InputMode = false
	m.InputBuffer.Blur()
	m.resetListing()
}

// applyFilter keeps the children whose name starts with the typed text.
func (m *AppModel) applyFilter() {
	term := strings.ToLower(m.InputBuffer.Value())
	cur := m.Current()
	if term == "" || cur == nil {
		selected := m.Selected()
		m.resetListing()
		m.selectNode(selected)
		return
	}

	m.FilterActive = true
	var result []int
	for i, child := range cur.Children {
		if strings.HasPrefix(strings.ToLower(child.Name), term) {
			result = append(result, i)
		}
	}
	m.FilteredIndices = result

	if m.SelectedIdx >= len(m.FilteredIndices) {
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = len(m.FilteredIndices) - 1
		} else {
			m.SelectedIdx = 0
		}
	}
	m.refreshDetails()
}

func (m *AppModel) selectNode(node *model.TreeNode) {
	if node == nil {
		return
	}
	cur := m.Current()
	for i, idx := range m.FilteredIndices {
		if cur.Children[idx] == node {
			m.SelectedIdx = i
			break
		}
	}
	m.refreshDetails()
}

func (m *AppModel) refreshDetails() {
	m.DetailsViewport.SetContent(m.detailsText())
	m.DetailsViewport.GotoTop()
}

func (m AppModel) detailsText() string {
	node := m.Selected()
	if node == nil {
		return "Nothing selected."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Path: %s\n", node.Path)
	if node.IsDir {
		dirs, files := 0, 0
		for _, child := range node.Children {
			if child.IsDir {
				dirs++
			} else {
				files++
			}
		}
		fmt.Fprintf(&b, "Kind: directory\n")
		fmt.Fprintf(&b, "Size: %d (%s)\n", node.Size, humanize.Bytes(node.Size))
		fmt.Fprintf(&b, "Contains: %d directories, %d files\n", dirs, files)
		if node.Small {
			fmt.Fprintf(&b, "\n%s Counted by part 1 (at most %s)\n", model.IconSmall, humanize.Comma(int64(query.SmallDirLimit)))
		}
		if node.Path == m.Result.DeletePath {
			fmt.Fprintf(&b, "\n%s Smallest directory that frees %s\n", model.IconDelete, humanize.Bytes(m.Result.Needed))
		}
	} else {
		fmt.Fprintf(&b, "Kind: file\n")
		fmt.Fprintf(&b, "Size: %d (%s)\n", node.Size, humanize.Bytes(node.Size))
		for _, c := range m.Result.Conflicts {
			if c.Path == node.Path {
				fmt.Fprintf(&b, "\n%s Listed again with size %d (ignored)\n", model.IconConflict, c.Ignored)
			}
		}
	}
	return b.String()
}

// LoadCmd replays and solves the transcript in the background.
func LoadCmd(path string, logger *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		state, err := session.ReplayFile(path, session.WithLogger(logger))
		if err != nil {
			return MsgError{Err: err}
		}
		result, err := query.Summarize(state.FS)
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgResultReady(result)
	}
}
