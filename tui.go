// SPDX-FileCopyrightText: 2025 夕月霞
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"board-scope/ingest"
)

// Render cadence target. Best-effort: the actual rate is bounded by what
// the terminal can draw, never by ingestion.
const renderInterval = time.Millisecond

// Character grid size of the board panel.
const (
	boardCols = 31
	boardRows = 13
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	axisStyle   = lipgloss.NewStyle().Faint(true)
	trailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	totalStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	// F1..F4 cell colors, matching the firmware docs' sensor legend.
	forceColors = [4]lipgloss.Color{"9", "10", "12", "13"}
)

type renderTickMsg time.Time

type loopFailedMsg struct{ err error }

func renderTick() tea.Cmd {
	return tea.Every(renderInterval, func(t time.Time) tea.Msg {
		return renderTickMsg(t)
	})
}

type boardModel struct {
	cfg     Config
	state   *ingest.VisualizationState
	loop    *ingest.PollLoop
	loopErr error
}

func newBoardModel(cfg Config, state *ingest.VisualizationState, loop *ingest.PollLoop) boardModel {
	return boardModel{cfg: cfg, state: state, loop: loop}
}

func (m boardModel) Init() tea.Cmd {
	return renderTick()
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case renderTickMsg:
		return m, renderTick()
	case loopFailedMsg:
		m.loopErr = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m boardModel) View() string {
	sample, trail, hasData := m.state.Snapshot()

	board := m.renderBoard(sample, trail)
	forces := m.renderForces(sample)
	panels := lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", forces)

	status := fmt.Sprintf("port %s @ %d baud", m.cfg.Port, m.cfg.BaudRate)
	if !hasData {
		status += "  waiting for data..."
	}
	if dropped := m.loop.Malformed(); dropped > 0 {
		status += fmt.Sprintf("  malformed: %d", dropped)
	}
	lines := []string{panels, statusStyle.Render(status + "  q: quit")}
	if m.loopErr != nil {
		lines = append(lines, errorStyle.Render("ingestion stopped: "+m.loopErr.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// boardCell maps a COP position in cm to a character cell. Origin is the
// board center, positive Y up, row 0 at the top. Off-board positions clamp
// to the nearest edge.
func boardCell(x, y float64, cols, rows int, widthCm, heightCm float64) (col, row int) {
	col = int(math.Round((x + widthCm/2) / widthCm * float64(cols-1)))
	row = int(math.Round((heightCm/2 - y) / heightCm * float64(rows-1)))
	col = min(max(col, 0), cols-1)
	row = min(max(row, 0), rows-1)
	return col, row
}

func (m boardModel) renderBoard(sample ingest.Sample, trail []ingest.Position) string {
	grid := make([][]rune, boardRows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", boardCols))
	}
	for c := range boardCols {
		grid[boardRows/2][c] = '╌'
	}
	for r := range boardRows {
		grid[r][boardCols/2] = '┆'
	}
	grid[boardRows/2][boardCols/2] = '+'

	for _, pos := range trail {
		col, row := boardCell(pos.X, pos.Y, boardCols, boardRows, m.cfg.BoardWidthCm, m.cfg.BoardHeightCm)
		grid[row][col] = '·'
	}
	// Current position last, so it wins over its own trail.
	col, row := boardCell(sample.CopX, sample.CopY, boardCols, boardRows, m.cfg.BoardWidthCm, m.cfg.BoardHeightCm)
	grid[row][col] = '●'

	var b strings.Builder
	for r := range grid {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, ch := range grid[r] {
			switch ch {
			case '●':
				b.WriteString(markerStyle.Render("●"))
			case '·':
				b.WriteString(trailStyle.Render("·"))
			case ' ':
				b.WriteByte(' ')
			default:
				b.WriteString(axisStyle.Render(string(ch)))
			}
		}
	}

	caption := fmt.Sprintf("COP: (%.1f, %.1f) cm", sample.CopX, sample.CopY)
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Center of Pressure"),
		boardStyle.Render(b.String()),
		caption,
	)
}

func (m boardModel) renderForces(sample ingest.Sample) string {
	shares := ingest.ForceShares(sample)
	values := [4]float64{sample.F1, sample.F2, sample.F3, sample.F4}

	cell := func(i int) string {
		style := lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(forceColors[i]).
			Width(12).
			Align(lipgloss.Center)
		return style.Render(fmt.Sprintf("F%d\n%.1f Kg\n%.1f%%", i+1, values[i], shares[i]))
	}

	// 2x2 layout per the firmware docs: F2 top-left, F1 top-right,
	// F3 bottom-left, F4 bottom-right.
	top := lipgloss.JoinHorizontal(lipgloss.Top, cell(1), cell(0))
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, cell(2), cell(3))
	total := totalStyle.Render(fmt.Sprintf("Total: %.1f Kg", sample.F1+sample.F2+sample.F3+sample.F4))

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Force Sensors"),
		top,
		bottom,
		total,
	)
}
