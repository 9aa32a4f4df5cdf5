// Package viz renders a running world in the terminal. Bodies are drawn on
// a side-view (XY) grid while the simulation ticks at a fixed frame rate.
//
// Key bindings:
//
//	Space - pause/resume
//	R     - reset to the initial scenario
//	Q     - quit
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/kinet/internal/config"
	"github.com/san-kum/kinet/internal/rigid"
	"github.com/san-kum/kinet/internal/sim"
)

const (
	canvasWidth  = 64
	canvasHeight = 24

	// World-space window mapped onto the canvas.
	xMin, xMax = float32(-10), float32(10)
	yMin, yMax = float32(0), float32(12)
)

type TickMsg time.Time

// Model owns one world for the lifetime of the view and rebuilds it on
// reset.
type Model struct {
	cfg     *config.Config
	world   *rigid.World
	handles []rigid.Handle
	fps     int
	t       float32
	steps   int
	running bool
	err     error
}

func NewModel(cfg *config.Config, fps int) (Model, error) {
	if fps <= 0 {
		fps = 30
	}
	w, handles, err := sim.Build(cfg)
	if err != nil {
		return Model{}, err
	}
	return Model{
		cfg:     cfg,
		world:   w,
		handles: handles,
		fps:     fps,
		running: true,
	}, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.world.Destroy()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.running && m.err == nil && m.steps < m.cfg.Steps {
			if err := m.world.Step(m.cfg.Dt); err != nil {
				m.err = err
				m.running = false
			} else {
				m.t += m.cfg.Dt
				m.steps++
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) reset() {
	m.world.Destroy()
	w, handles, err := sim.Build(m.cfg)
	if err != nil {
		m.err = err
		return
	}
	m.world = w
	m.handles = handles
	m.t = 0
	m.steps = 0
	m.err = nil
	m.running = true
}

func (m Model) View() string {
	grid := make([][]rune, canvasHeight)
	for i := range grid {
		grid[i] = make([]rune, canvasWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	visible := 0
	for _, h := range m.handles {
		p, err := m.world.Position(h)
		if err != nil {
			continue
		}
		cx := int(float32(canvasWidth-1) * (p.X - xMin) / (xMax - xMin))
		cy := int(float32(canvasHeight-1) * (p.Y - yMin) / (yMax - yMin))
		cy = canvasHeight - 1 - cy
		if cx >= 0 && cx < canvasWidth && cy >= 0 && cy < canvasHeight {
			grid[cy][cx] = '●'
			visible++
		}
	}

	var canvas strings.Builder
	for _, row := range grid {
		canvas.WriteString(bodyStyle.Render(string(row)))
		canvas.WriteByte('\n')
	}
	canvas.WriteString(groundStyle.Render(strings.Repeat("─", canvasWidth)))

	var stats strings.Builder
	stats.WriteString(headerStyle.Render(m.cfg.Scenario))
	stats.WriteByte('\n')
	writeStat(&stats, "time", fmt.Sprintf("%.2fs", m.t))
	writeStat(&stats, "step", fmt.Sprintf("%d/%d", m.steps, m.cfg.Steps))
	writeStat(&stats, "bodies", fmt.Sprintf("%d (%d on screen)", m.world.BodyCount(), visible))
	writeStat(&stats, "pairs", fmt.Sprintf("%d", m.world.BroadphasePairs()))
	if !m.running && m.err == nil {
		writeStat(&stats, "state", "paused")
	}
	if m.err != nil {
		stats.WriteByte('\n')
		stats.WriteString(errStyle.Render(m.err.Error()))
	}

	view := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(canvas.String()),
		statsStyle.Render(stats.String()),
	)
	return view + helpStyle.Render("\nspace pause · r reset · q quit")
}

func writeStat(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label))
	b.WriteString(valueStyle.Render(value))
	b.WriteByte('\n')
}
