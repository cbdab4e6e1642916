package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/orbitsim/internal/config"
)

type pickerKeys struct {
	Up, Down, Enter, Quit key.Binding
}

var menuKeys = pickerKeys{
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Enter: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "start")),
	Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Picker lists the presets and hands over to the live view once one is
// chosen.
type Picker struct {
	presets []string
	cursor  int
	live    *Model
	width   int
	height  int
	err     error
}

func NewPicker() Picker {
	return Picker{presets: config.ListPresets()}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, menuKeys.Quit):
			return p, tea.Quit
		case key.Matches(msg, menuKeys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, menuKeys.Down):
			if p.cursor < len(p.presets)-1 {
				p.cursor++
			}
		case key.Matches(msg, menuKeys.Enter):
			return p.start()
		}
	}
	return p, nil
}

func (p Picker) start() (tea.Model, tea.Cmd) {
	m, err := NewModel(config.GetPreset(p.presets[p.cursor]), nil)
	if err != nil {
		p.err = err
		return p, nil
	}
	if p.width > 0 {
		m.resize(p.width, p.height)
	}
	p.live = &m
	return p, m.Init()
}

func (p Picker) View() string {
	if p.live != nil {
		return p.live.View()
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("ORBITSIM") + "\n")
	for i, name := range p.presets {
		line := fmt.Sprintf("%-8s %s", name, dimStyle.Render(config.DescribePreset(name)))
		if i == p.cursor {
			b.WriteString(cursorStyle.Render("> ") + itemStyle.Render(line) + "\n")
		} else {
			b.WriteString("  " + dimStyle.Render(line) + "\n")
		}
	}
	if p.err != nil {
		b.WriteString("\n" + errorStyle.Render(p.err.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render("↑↓ select  enter start  q quit"))
	return b.String()
}
