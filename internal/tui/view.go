package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/chenkai036/aoc/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	smallStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("81")) // Sky Blue
	deleteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // Orange

	borderColor = lipgloss.Color("63")
	activeColor = lipgloss.Color("205")
)

const helpText = `Keys

  up/k, down/j     move selection
  g, G             first / last entry
  enter/l/right    open directory
  backspace/h/left go to parent directory
  /                filter by name prefix (enter keeps it, esc clears)
  s                toggle highlighting of small directories
  ?                toggle this help
  q                quit

Markers

  ` + model.IconSmall + `  directory counted by part 1
  ` + model.IconDelete + `  directory chosen by part 2
  ` + model.IconConflict + `  file listed twice with different sizes`

func (m AppModel) View() string {
	if m.Loading {
		return fmt.Sprintf("\n  Replaying %s... please wait.\n", m.InputPath)
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}
	if m.ShowHelp {
		return m.renderHelpDialog()
	}

	width := m.WindowSize.Width
	height := m.WindowSize.Height

	netWidth := width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth

	boxHeight := height - 6
	if boxHeight < 6 {
		boxHeight = 6
	}
	interiorHeight := boxHeight - 2

	cur := m.Current()
	title := titleStyle.Render("day7 " + cur.Path)

	// LEFT PANEL: children of the current directory
	var leftView strings.Builder
	leftView.WriteString(headerStyle.Render(fmt.Sprintf("%s  %s", cur.Name, humanize.Bytes(cur.Size))))
	leftView.WriteString("\n\n")

	visibleItems := interiorHeight - 2
	if visibleItems < 1 {
		visibleItems = 1
	}
	startIdx := 0
	endIdx := len(m.FilteredIndices)
	if len(m.FilteredIndices) > visibleItems {
		if m.SelectedIdx >= visibleItems/2 {
			startIdx = m.SelectedIdx - (visibleItems / 2)
		}
		if startIdx+visibleItems > len(m.FilteredIndices) {
			startIdx = len(m.FilteredIndices) - visibleItems
		}
		endIdx = startIdx + visibleItems
	}

	if len(m.FilteredIndices) == 0 {
		leftView.WriteString(dimStyle.Render("(empty)"))
	}
	for i := startIdx; i < endIdx; i++ {
		node := cur.Children[m.FilteredIndices[i]]
		leftView.WriteString(m.renderEntry(node, i == m.SelectedIdx, leftWidth-2))
		leftView.WriteString("\n")
	}

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(activeColor).
		Render(strings.TrimSuffix(leftView.String(), "\n"))

	// RIGHT PANEL: details of the selection
	m.DetailsViewport.Width = rightWidth - 2
	m.DetailsViewport.Height = interiorHeight - 2
	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(headerStyle.Render("Details") + "\n\n" + m.DetailsViewport.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, title, body, m.renderFooter())
}

func (m AppModel) renderEntry(node *model.TreeNode, selected bool, width int) string {
	icon := model.IconFile
	marker := ""
	if node.IsDir {
		icon = model.IconDir
		if node.Small && m.HighlightSmall {
			marker = " " + model.IconSmall
		}
		if node.Path == m.Result.DeletePath {
			marker += " " + model.IconDelete
		}
	} else {
		for _, c := range m.Result.Conflicts {
			if c.Path == node.Path {
				marker = " " + model.IconConflict
			}
		}
	}

	line := fmt.Sprintf("%s %-20s %10s%s", icon, node.Name, humanize.Bytes(node.Size), marker)
	if runes := []rune(line); width > 5 && len(runes) > width {
		line = string(runes[:width-3]) + "..."
	}

	switch {
	case selected:
		return selectedStyle.Render(line)
	case node.IsDir && node.Path == m.Result.DeletePath:
		return deleteStyle.Render(line)
	case node.IsDir && node.Small && m.HighlightSmall:
		return smallStyle.Render(line)
	default:
		return normalStyle.Render(line)
	}
}

func (m AppModel) renderFooter() string {
	if m.InputMode {
		return " Filter: " + m.InputBuffer.View()
	}
	answers := fmt.Sprintf(" part1 = %d  part2 = %d", m.Result.Answers.Part1, m.Result.Answers.Part2)
	keys := "  |  enter open  backspace up  / filter  s small  ? help  q quit"
	if m.FilterActive {
		keys = fmt.Sprintf("  |  filter %q (esc clears)", m.InputBuffer.Value())
	}
	return dimStyle.Render(answers + keys)
}

func (m AppModel) renderHelpDialog() string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return helpText
	}

	dialog := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render(helpText)

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, LoadCmd(m.InputPath, m.Logger))
}
