// Live capture view rendered with bubbletea
package capture

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"posdata/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// rowMsg carries a captured position row.
type rowMsg struct{ telemetry.PositionRow }

// sessionMsg carries a session state update.
type sessionMsg struct{ telemetry.SessionStateRow }

const maxLogLines = 200

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	borderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// TUIWriter renders the running capture using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
// The session ID is picked up from the first state row.
func NewTUIWriter(printerID, outputPath string) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(printerID, outputPath)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements RowWriter.
func (w *TUIWriter) Write(row telemetry.PositionRow) error {
	w.program.Send(rowMsg{row})
	return nil
}

// WriteState implements StateWriter.
func (w *TUIWriter) WriteState(row telemetry.SessionStateRow) error {
	w.program.Send(sessionMsg{row})
	return nil
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	printerID  string
	outputPath string

	positions table.Model
	vp        viewport.Model
	logs      []string
	latest    telemetry.PositionRow
	hasRow    bool
	state     telemetry.SessionStateRow
	width     int
	height    int
	ready     bool
}

func newTUIModel(printerID, outputPath string) tuiModel {
	cols := []table.Column{
		{Title: "axis", Width: 10},
		{Title: "value", Width: 14},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(6))
	return tuiModel{
		printerID:  printerID,
		outputPath: outputPath,
		positions:  t,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - 14
		if vpHeight < 3 {
			vpHeight = 3
		}
		m.vp = viewport.New(msg.Width-4, vpHeight)
		m.vp.SetContent(wordwrap.String(joinLines(m.logs), m.vp.Width))
		m.vp.GotoBottom()
		m.ready = true
	case rowMsg:
		m.latest = msg.PositionRow
		m.hasRow = true
		m.positions.SetRows([]table.Row{
			{"x", fmt.Sprintf("%.3f", msg.X)},
			{"y", fmt.Sprintf("%.3f", msg.Y)},
			{"z", fmt.Sprintf("%.3f", msg.Z)},
			{"e", fmt.Sprintf("%.3f", msg.E)},
			{"velocity", fmt.Sprintf("%.1f", msg.Velocity)},
			{"elapsed", fmt.Sprintf("%.1fs", msg.PrintTime)},
		})
		line := fmt.Sprintf("[%s] x=%.3f y=%.3f z=%.3f e=%.3f v=%.1f t=%.1fs",
			msg.Timestamp.Format(time.RFC3339), msg.X, msg.Y, msg.Z, msg.E, msg.Velocity, msg.PrintTime)
		m.logs = append(m.logs, line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		if m.ready {
			m.vp.SetContent(wordwrap.String(joinLines(m.logs), m.vp.Width))
			m.vp.GotoBottom()
		}
	case sessionMsg:
		m.state = msg.SessionStateRow
	}

	var cmd tea.Cmd
	m.positions, cmd = m.positions.Update(msg)
	return m, cmd
}

func (m tuiModel) View() string {
	stateStyle := idleStyle
	if m.state.JobState == "printing" || m.state.JobState == "paused" {
		stateStyle = activeStyle
	}
	header := headerStyle.Render("posdata capture") + "\n" +
		labelStyle.Render("printer: ") + m.printerID +
		labelStyle.Render("  session: ") + orDash(m.state.SessionID) +
		labelStyle.Render("  output: ") + m.outputPath + "\n" +
		labelStyle.Render("job: ") + stateStyle.Render(orDash(m.state.JobState)) +
		labelStyle.Render("  file: ") + orDash(m.latest.Filename) +
		labelStyle.Render("  rows: ") + fmt.Sprintf("%d", m.state.RowsWritten) +
		labelStyle.Render("  skipped: ") + fmt.Sprintf("%d", m.state.Skipped)

	body := borderStyle.Render(m.positions.View())
	logView := ""
	if m.ready {
		logView = borderStyle.Render(m.vp.View())
	}
	footer := labelStyle.Render("q to quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, body, logView, footer)
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
