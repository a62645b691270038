package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/fsweep/fsweep/internal/sweep"
)

//nolint:gochecknoglobals
var (
	// titleStyle defines the style for a panel's title.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5A7D2A"))

	// borderStyle defines the style for a panel's borders.
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5A7D2A"))

	// infoStyle defines the style for a panel's text.
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	// helpStyle defines the style for the help panel's text.
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(0, 1)
)

// maxLogLines caps the retained log scrollback.
const maxLogLines = 100

// SweepProgressMsg is a [tea.Msg] containing [sweep.Progress] information.
type SweepProgressMsg struct {
	t    time.Time
	data sweep.Progress
}

// TeaModel is the principal [tea.Model] for the command-line user interface.
type TeaModel struct {
	width  int
	height int

	cancel context.CancelFunc

	uiHandler *Handler
	sweeper   progressSource

	fullWidthWithBorders int

	sweepData sweep.Progress

	sweepSpinner spinner.Model
	logsViewport viewport.Model
	logs         []string

	ready bool
}

// NewTeaModel returns an initial new [TeaModel].
//
//nolint:mnd
func NewTeaModel(uiHandler *Handler, sweeper progressSource, cancel context.CancelFunc) TeaModel {
	sweepSpinner := spinner.New(
		spinner.WithSpinner(spinner.Dot),
	)

	logsViewport := viewport.New(80, 20)

	return TeaModel{
		uiHandler:    uiHandler,
		sweeper:      sweeper,
		sweepSpinner: sweepSpinner,
		sweepData:    sweep.Progress{},
		logsViewport: logsViewport,
		logs:         make([]string, 0, maxLogLines),
		cancel:       cancel,
		ready:        false,
	}
}

// Init initializes the model within a [tea.Program].
func (m TeaModel) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.sweepSpinner.Tick,
		updateSweepProgress(m.sweeper),
	)
}

// updateSweepProgress produces a [tea.Cmd] for later scheduling in a
// [tea.Program]. When executed, a [SweepProgressMsg] with the sweeper's
// [sweep.Progress] is returned.
func updateSweepProgress(sweeper progressSource) tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { //nolint:mnd
		return SweepProgressMsg{
			t:    t,
			data: sweeper.Progress(),
		}
	})
}

// Update is the principal message handling method of the model.
// It sets the internal state of the model, for later rendering.
//
//nolint:mnd,ireturn
func (m TeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()

			return m, tea.Quit
		case "q":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.fullWidthWithBorders = m.width - 2

		// The sweep panel is fixed-height; logs take the remainder.
		upperHeight := 8
		viewportHeight := m.height - upperHeight - 5

		m.logsViewport.Width = m.fullWidthWithBorders
		m.logsViewport.Height = viewportHeight

		if len(m.logs) > 0 {
			m.logsViewport.SetContent(m.renderLogs())
			m.logsViewport.GotoBottom()
		}

		if !m.ready {
			m.ready = true
			m.uiHandler.Ready.Store(true)
		}

	case SweepProgressMsg:
		m.sweepData = msg.data

		// Queue the next update.
		cmds = append(cmds, updateSweepProgress(m.sweeper))

	case LogMsg:
		if len(m.logs) >= maxLogLines {
			m.logs = m.logs[1:]
		}
		m.logs = append(m.logs, string(msg))

		m.logsViewport.SetContent(m.renderLogs())
		m.logsViewport.GotoBottom()

	case spinner.TickMsg:
		m.sweepSpinner, cmd = m.sweepSpinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Handle viewport updates.
	m.logsViewport, cmd = m.logsViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// renderLogs renders the retained log lines for the logs viewport.
func (m TeaModel) renderLogs() string {
	return lipgloss.NewStyle().
		Width(m.logsViewport.Width).
		Render(strings.TrimSuffix(strings.Join(m.logs, ""), "\n"))
}

// View is the principal rendering function of the model.
func (m TeaModel) View() string {
	if !m.ready {
		return "Loading the GUI..."
	}

	var s strings.Builder

	sweepSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(m.formatSweepView())

	logsSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				titleStyle.Width(m.fullWidthWithBorders).Render("Process Information"),
				lipgloss.NewStyle().Width(m.fullWidthWithBorders).Render(m.logsViewport.View()),
			),
		)

	helpSection := helpStyle.
		Width(m.fullWidthWithBorders).
		Render("q: quit gui • ctrl+c: quit program")

	s.WriteString(lipgloss.JoinVertical(
		lipgloss.Left,
		sweepSection,
		logsSection,
		helpSection,
	))

	return s.String()
}

// formatSweepView is a helper function for rendering the sweep panel.
func (m TeaModel) formatSweepView() string {
	progress := m.sweepData

	status := m.sweepSpinner.View() + " Sweeping..."
	if progress.HasFinished {
		status = "Finished."
	}

	var elapsed time.Duration
	if !progress.StartTime.IsZero() {
		end := time.Now()
		if progress.HasFinished {
			end = progress.FinishTime
		}
		elapsed = end.Sub(progress.StartTime).Round(time.Second)
	}

	details := fmt.Sprintf(
		"Directories: Found=%s, Removed=%s, Skipped=%s\n"+
			"Current: %s\n"+
			"Time: Started=%s, Elapsed=%v\n",
		humanize.Comma(int64(progress.FoundDirs)),
		humanize.Comma(int64(progress.RemovedDirs)),
		humanize.Comma(int64(progress.SkippedDirs)),
		progress.CurrentPath,
		progress.StartTime.Format("15:04:05"),
		elapsed,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Width(m.fullWidthWithBorders).Render("Empty-Directory Sweep"),
		"", // Empty line for spacing.
		status,
		"", // Empty line for spacing.
		infoStyle.Width(m.fullWidthWithBorders).Render(details),
	)
}
