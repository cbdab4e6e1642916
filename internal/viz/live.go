package viz

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/raster"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	width      = 80
	height     = 24
	statsWidth = 45
	maxSpeed   = 64
	secPerDay  = 86400.0
)

type TickMsg time.Time

type reloadMsg struct {
	cfg *config.Config
	err error
}

// Model is the bubbletea model of the live orbit view: a braille canvas
// on the left and a stats panel on the right.
type Model struct {
	cfg     *config.Config
	sim     *sim.Simulator
	energy  *metrics.EnergyDrift
	canvas  *Canvas
	keys    KeyMap
	watcher *ConfigWatcher

	width, height int
	running       bool
	speed         int
	status        string
	err           error
	showHelp      bool

	recorder *export.GIFRecorder
	saved    string
	now      func() time.Time
}

// NewModel builds the simulation described by cfg. When w is not nil the
// model reloads cfg from w.Path whenever the file changes.
func NewModel(cfg *config.Config, w *ConfigWatcher) (Model, error) {
	m := Model{
		cfg:     cfg,
		canvas:  NewCanvas(width, height),
		keys:    DefaultKeyMap(),
		watcher: w,
		width:   width,
		height:  height,
		running: true,
		speed:   1,
		now:     time.Now,
	}
	if err := m.build(cfg); err != nil {
		return Model{}, err
	}
	return m, nil
}

// build replaces the simulator with a fresh one from cfg, fitted to the
// canvas. A recording in progress starts over with the new system.
func (m *Model) build(cfg *config.Config) error {
	s, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}
	energy := metrics.NewEnergyDrift(s.Gravity())
	energy.Observe(s.Bodies(), 0)
	s.AddMetric(energy)

	m.cfg, m.sim, m.energy, m.err = cfg, s, energy, nil
	if m.recorder != nil {
		m.recorder.Reset()
	}
	m.fit()
	m.sim.Draw(m.canvas)
	return nil
}

// fit scales the projection so the outermost body stays on the canvas and
// shrinks the disks by the same ratio as the viewport.
func (m *Model) fit() {
	cw, ch := m.canvas.Size()
	m.sim.SetProjection(raster.FitProjection(physics.MaxDistance(m.sim.Bodies()), cw, ch))
	if m.cfg.Height > 0 {
		m.sim.SetRadiusScale(float64(ch) / float64(m.cfg.Height))
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(m.cfg.FPS), m.waitForReload())
}

func tick(fps int) tea.Cmd {
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) waitForReload() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	w := m.watcher
	return func() tea.Msg {
		if _, ok := <-w.Changes; !ok {
			return nil
		}
		cfg, err := config.Load(w.Path)
		return reloadMsg{cfg: cfg, err: err}
	}
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		m.advance()
		return m, tick(m.cfg.FPS)
	case reloadMsg:
		m.reload(msg)
		return m, m.waitForReload()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopRecording()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.running = !m.running
	case key.Matches(msg, m.keys.Reset):
		m.reset()
	case key.Matches(msg, m.keys.Trails):
		m.sim.SetTrails(!m.sim.Trails())
	case key.Matches(msg, m.keys.Faster):
		m.speed = min(m.speed*2, maxSpeed)
	case key.Matches(msg, m.keys.Slower):
		m.speed = max(m.speed/2, 1)
	case key.Matches(msg, m.keys.Record):
		if m.recorder != nil {
			m.stopRecording()
		} else {
			m.startRecording()
		}
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// advance runs speed ticks and redraws. A failed tick pauses the view
// and leaves the error on screen.
func (m *Model) advance() {
	if m.running && m.err == nil {
		for i := 0; i < m.speed; i++ {
			if err := m.sim.Step(); err != nil {
				m.err = err
				m.running = false
				break
			}
		}
	}
	m.sim.Draw(m.canvas)
	if m.recorder != nil {
		m.sim.Draw(m.recorder)
		if err := m.recorder.Present(); err != nil {
			m.status = err.Error()
		}
	}
}

func (m *Model) resize(w, h int) {
	cw := max(w-statsWidth-6, 20)
	ch := max(h-3, 10)
	if cw == m.width && ch == m.height {
		return
	}
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
	m.fit()
	if m.recorder != nil {
		m.stopRecording()
	}
}

func (m *Model) reset() {
	if err := m.build(m.cfg); err != nil {
		m.err = err
		return
	}
	m.status = "reset"
}

func (m *Model) reload(msg reloadMsg) {
	if msg.err != nil {
		m.status = "reload failed: " + msg.err.Error()
		return
	}
	if err := m.build(msg.cfg); err != nil {
		m.status = "reload failed: " + err.Error()
		return
	}
	m.status = "config reloaded"
}

func (m *Model) startRecording() {
	cw, ch := m.canvas.Size()
	rec, err := export.NewGIFRecorder(cw, ch, m.cfg.FPS)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.recorder = rec
	m.status = "recording"
}

func (m *Model) stopRecording() {
	if m.recorder == nil {
		return
	}
	rec := m.recorder
	m.recorder = nil
	if rec.Frames() == 0 {
		m.status = "recording discarded"
		return
	}
	name := fmt.Sprintf("orbitsim-%d.gif", m.now().Unix())
	if err := rec.Save(name); err != nil {
		m.status = err.Error()
		return
	}
	m.saved = name
	m.status = fmt.Sprintf("saved %s (%d frames)", name, rec.Frames())
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.Render())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(m.stats()))
	if m.showHelp {
		return m.helpView() + "\n\n" + mainView
	}
	return mainView
}

func (m Model) stats() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("ORBITSIM") + "\n")
	s.WriteString(m.statusLine() + "\n\n")

	s.WriteString(labelStyle.Render("Day") + valueStyle.Render(fmt.Sprintf("%.1f", m.sim.Time()/secPerDay)) + "\n")
	s.WriteString(labelStyle.Render("Ticks") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Tick())) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("x%d", m.speed)) + "\n")
	s.WriteString(labelStyle.Render("Drift") + valueStyle.Render(fmt.Sprintf("%.2e", m.energy.Value())) + "\n")

	if hist := m.energy.History(); len(hist) > 1 {
		pct := make([]float64, len(hist))
		for i, v := range hist {
			pct[i] = v * 100
		}
		chart := asciigraph.Plot(pct, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Precision(4), asciigraph.Caption("energy drift %"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\nBODIES\n")
	for _, b := range m.sim.Bodies() {
		name := lipgloss.NewStyle().Foreground(hexColor(b.Color)).Width(12).Render(b.Name)
		s.WriteString(name + valueStyle.Render(fmt.Sprintf("%6.3f AU %7.2f km/s", b.Distance()/physics.AU, b.Speed()/1000)) + "\n")
	}

	var hints []string
	for _, k := range m.keys.ShortHelp() {
		hints = append(hints, k.Help().Key+":"+k.Help().Desc)
	}
	s.WriteString(helpStyle.Render(strings.Join(hints, "  ")))
	return s.String()
}

func (m Model) statusLine() string {
	switch {
	case m.err != nil:
		return errorStyle.Render(m.err.Error())
	case m.recorder != nil:
		return recordingStyle.Render(fmt.Sprintf("REC %d", m.recorder.Frames()))
	case !m.running:
		return pausedStyle.Render("PAUSED")
	case m.status != "":
		return runningStyle.Render("RUNNING") + "  " + labelStyle.UnsetWidth().Render(m.status)
	}
	return runningStyle.Render("RUNNING")
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("KEYBOARD SHORTCUTS") + "\n")
	for _, k := range m.keys.ShortHelp() {
		b.WriteString(fmt.Sprintf("  %-8s %s\n", k.Help().Key, k.Help().Desc))
	}
	return helpBoxStyle.Render(b.String())
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
