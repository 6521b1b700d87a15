// Package tui is a terminal renderer for a single hot-seat game.
package tui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jaminalder/time-travel-tic-tac-toe/internal/domain"
)

var (
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	cursorStyle    = cellStyle.Reverse(true)
	highlightStyle = cellStyle.Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220"))
	currentStyle   = lipgloss.NewStyle().Bold(true)
	statusStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	helpStyle      = lipgloss.NewStyle().Faint(true).MarginTop(1)
)

// Model holds the current game and the board cursor. Each intent replaces
// the game value.
type Model struct {
	game   domain.Game
	cursor int
	log    *slog.Logger
}

// New returns a model starting from g.
func New(g domain.Game, log *slog.Logger) Model {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return Model{game: g, cursor: 4, log: log.With("component", "tui")}
}

// Game returns the game currently shown.
func (m Model) Game() domain.Game { return m.game }

// Cursor returns the board index under the cursor.
func (m Model) Cursor() int { return m.cursor }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch s := key.String(); s {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor >= 3 {
			m.cursor -= 3
		}
	case "down", "j":
		if m.cursor < 6 {
			m.cursor += 3
		}
	case "left", "h":
		if m.cursor%3 > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor%3 < 2 {
			m.cursor++
		}
	case "enter", " ":
		m = m.place(m.cursor)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.cursor = int(s[0] - '1')
		m = m.place(m.cursor)
	case "[":
		m = m.jump(m.game.Step() - 1)
	case "]":
		m = m.jump(m.game.Step() + 1)
	case "s":
		m.game = m.game.ToggleSort()
		m.log.Debug("sort toggled", "ascending", m.game.SortAscending())
	}
	return m, nil
}

func (m Model) place(idx int) Model {
	next := m.game.PlaceMark(idx)
	if next.Len() == m.game.Len() && next.Step() == m.game.Step() {
		m.log.Debug("placement ignored", "cell", idx)
		return m
	}
	m.game = next
	m.log.Debug("mark placed", "cell", idx, "step", next.Step())
	return m
}

func (m Model) jump(step int) Model {
	m.game = m.game.JumpTo(step)
	m.log.Debug("jumped", "step", m.game.Step())
	return m
}

func (m Model) View() string {
	vm := m.game.View()

	var b strings.Builder
	b.WriteString(statusStyle.Render(vm.Status))
	b.WriteString("\n")

	for r := 0; r < 3; r++ {
		cells := make([]string, 3)
		for c := 0; c < 3; c++ {
			i := r*3 + c
			sym := vm.Board[i].String()
			if sym == "" {
				sym = "·"
			}
			style := cellStyle
			switch {
			case i == m.cursor:
				style = cursorStyle
			case vm.Highlight[i]:
				style = highlightStyle
			}
			cells[c] = style.Render(sym)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, mv := range vm.Moves {
		line := fmt.Sprintf("%2d. %s", mv.Step, mv.Label)
		if mv.Current {
			line = currentStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(helpStyle.Render("arrows/hjkl move • enter/1-9 place • [ ] history • s sort • q quit"))
	b.WriteString("\n")
	return b.String()
}
