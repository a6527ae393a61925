// Package viz renders the particle table in the terminal, live through
// bubbletea or as a one-shot braille frame.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/grav2d/internal/body"
	"github.com/san-kum/grav2d/internal/metrics"
	"github.com/san-kum/grav2d/internal/sim"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
	stepsPerFrame   = 2
)

type TickMsg time.Time

// Model owns a particle table and the buffers behind the live view.
type Model struct {
	table   *sim.Table
	dt      float64
	t       float64
	steps   int
	resets  int
	running bool
	showG   bool
	trail   bool

	view   Viewport
	canvas *Canvas

	resetFn func() []body.Particle
	energy  []float64
	status  string
}

// NewModel wires a table into the live view. resetFn rebuilds the initial
// conditions when the run destabilizes or the user asks for a reset.
func NewModel(table *sim.Table, dt float64, resetFn func() []body.Particle) Model {
	return Model{
		table:   table,
		dt:      dt,
		running: true,
		view:    Viewport{Scale: 4},
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		resetFn: resetFn,
		energy:  make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.view.Scale *= 1.25
		case "-":
			m.view.Scale /= 1.25
		case "left":
			m.view.Center.X -= 4 / m.view.Scale
		case "right":
			m.view.Center.X += 4 / m.view.Scale
		case "up":
			m.view.Center.Y += 4 / m.view.Scale
		case "down":
			m.view.Center.Y -= 4 / m.view.Scale
		case "g":
			m.showG = !m.showG
		case "t":
			m.trail = !m.trail
			if !m.trail {
				m.canvas.Clear()
			}
		}
		return m, nil

	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < stepsPerFrame; i++ {
		err := m.table.Step(m.dt)
		if err != nil {
			m.status = err.Error()
			if m.resetFn != nil {
				m.reset()
				m.resets++
			}
			return
		}
		m.t += m.dt
		m.steps++
	}
	m.status = ""
	if m.showG {
		e := metrics.TotalEnergy(m.table.Particles, m.table.Params().G)
		m.energy = append(m.energy, e)
		if len(m.energy) > historyCapacity {
			m.energy = m.energy[1:]
		}
	}
}

func (m *Model) reset() {
	if m.resetFn == nil {
		return
	}
	m.table.Reset(m.resetFn())
	m.t = 0
	m.steps = 0
	m.energy = m.energy[:0]
}

func (m Model) View() string {
	if !m.trail {
		m.canvas.Clear()
	}
	m.view.Plot(m.canvas, m.table.Particles)

	stats := []string{
		headerStyle.Render("grav2d"),
		statLine("time", fmt.Sprintf("%.2f", m.t)),
		statLine("steps", fmt.Sprintf("%d", m.steps)),
		statLine("particles", fmt.Sprintf("%d", m.table.Len())),
		statLine("zoom", fmt.Sprintf("%.2f", m.view.Scale)),
	}
	if m.resets > 0 {
		stats = append(stats, statLine("resets", fmt.Sprintf("%d", m.resets)))
	}
	if !m.running {
		stats = append(stats, pausedStyle.Render("paused"))
	}
	if m.status != "" {
		stats = append(stats, pausedStyle.Render(m.status))
	}
	if m.showG && len(m.energy) >= 2 {
		graph := asciigraph.Plot(m.energy,
			asciigraph.Height(6), asciigraph.Width(34),
			asciigraph.Caption("total energy"))
		stats = append(stats, graphStyle.Render(graph))
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(strings.Join(stats, "\n")),
	)
	help := helpStyle.Render("space pause · r reset · +/- zoom · arrows pan · t trail · g energy · q quit")
	return main + "\n" + help
}

func statLine(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}
