package ui

import (
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/osmonitor/internal/model"
)

// Source is what the TUI needs from the poller.
type Source interface {
	Snapshot() model.Snapshot
	Wake() error
	Sleep() error
}

// Model renders live snapshots from the poller.
type Model struct {
	src    Source
	prefs  Prefs
	latest model.Snapshot
	asleep bool
	width  int
	height int
}

func New(src Source, prefs Prefs) *Model {
	return &Model{
		src:    src,
		prefs:  prefs,
		latest: src.Snapshot(),
		width:  120,
		height: 40,
	}
}

// Messages
type tickMsg struct{}

func tickCmd() tea.Cmd { return tea.Tick(time.Second/5, func(time.Time) tea.Msg { return tickMsg{} }) }

func (m *Model) Init() tea.Cmd { return tickCmd() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.toggle()
		}
	case tickMsg:
		m.latest = m.src.Snapshot()
		return m, tickCmd()
	}
	return m, nil
}

// toggle is the screen-off/screen-on switch.
func (m *Model) toggle() {
	var err error
	if m.asleep {
		err = m.src.Wake()
	} else {
		err = m.src.Sleep()
	}
	if err != nil {
		log.Printf("warning: toggle polling: %v", err)
		return
	}
	m.asleep = !m.asleep
}

// Styles
var (
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	gaugeFill   = "█"
	gaugeEmpty  = "░"
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1).
			MarginRight(1)
	meterColors = map[int]lipgloss.Color{1: "42", 2: "39"}
)

func (m *Model) titleStyle() lipgloss.Style {
	st := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	if m.prefs.OnTop {
		st = st.Reverse(true)
	}
	return st
}

func (m *Model) textStyle() lipgloss.Style {
	st := lipgloss.NewStyle()
	if m.prefs.FontColor != "" {
		st = st.Foreground(lipgloss.Color(m.prefs.FontColor))
	}
	return st
}

func (m *Model) View() string {
	v := Render(m.latest, m.prefs)
	text := m.textStyle()
	meter := lipgloss.NewStyle().Foreground(meterColors[m.prefs.IconColor])

	status := "polling"
	if m.asleep {
		status = "asleep (s to wake)"
	}
	updated := "waiting for first cycle"
	if !m.latest.UpdatedAt.IsZero() {
		updated = m.latest.UpdatedAt.Format("Mon Jan 2 15:04:05 MST 2006")
	}
	header := m.titleStyle().Render("OS Monitor") + "  " +
		subtleStyle.Render(fmt.Sprintf("%s | %s | level %d", updated, status, v.IconLevel))

	cpuCard := card("CPU", text.Render(v.CPU)+"\n"+meter.Render(gaugeBar(v.CPUBar*100, 28)))
	memCard := card("Memory", text.Render(v.Memory)+"\n"+meter.Render(gaugeBar(v.MemBar*100, 28)))
	battCard := card("Battery", text.Render(v.Battery)+"\n"+meter.Render(gaugeBar(v.BattBar*100, 28)))

	rows := make([]string, 0, len(v.Top))
	for _, line := range v.Top {
		rows = append(rows, text.Render(truncate(line, 48)))
	}
	topCard := card("Top CPU", strings.Join(rows, "\n"))

	line1 := lipgloss.JoinHorizontal(lipgloss.Top, cpuCard, memCard, battCard)
	footer := subtleStyle.Render(fmt.Sprintf("skipped %d | cycles %d | s sleep/wake  q quit", m.latest.Skipped, m.latest.Cycles))

	return lipgloss.JoinVertical(lipgloss.Left, header, line1, topCard, footer)
}

// Helpers
func gaugeBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int((pct / 100) * float64(width))
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %5.1f%%",
		strings.Repeat(gaugeFill, filled),
		strings.Repeat(gaugeEmpty, width-filled),
		pct)
}

func card(title, body string) string {
	titleStr := labelStyle.Render(title)
	content := titleStr + "\n" + body
	return cardStyle.Render(content)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// RunTUI starts the Bubble Tea program.
func RunTUI(src Source, prefs Prefs) error {
	prog := tea.NewProgram(New(src, prefs), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
