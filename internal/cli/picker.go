package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"steamfetch/internal/catalog"
)

const pickerPageSize = 10

var (
	pickerTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	pickerMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	pickerSelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
)

type pickerModel struct {
	filter    textinput.Model
	apps      []catalog.App
	filtered  []catalog.App
	cursor    int
	offset    int
	choice    *catalog.App
	cancelled bool
}

func newPickerModel(apps []catalog.App) pickerModel {
	ti := textinput.New()
	ti.Placeholder = "type to narrow down"
	ti.Prompt = "🔍 "
	ti.Focus()
	return pickerModel{
		filter:   ti,
		apps:     apps,
		filtered: apps,
	}
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if m.cursor < len(m.filtered) {
				app := m.filtered[m.cursor]
				m.choice = &app
			}
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			m.clampOffset()
			return m, nil
		case "down":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			m.clampOffset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refilter()
	return m, cmd
}

func (m *pickerModel) refilter() {
	needle := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if needle == "" {
		m.filtered = m.apps
	} else {
		filtered := make([]catalog.App, 0, len(m.apps))
		for _, app := range m.apps {
			if strings.Contains(strings.ToLower(app.Name), needle) {
				filtered = append(filtered, app)
			}
		}
		m.filtered = filtered
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = 0
		m.offset = 0
	}
	m.clampOffset()
}

func (m *pickerModel) clampOffset() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+pickerPageSize {
		m.offset = m.cursor - pickerPageSize + 1
	}
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render(fmt.Sprintf("select a game (%d matches)", len(m.filtered))))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	end := m.offset + pickerPageSize
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	for i := m.offset; i < end; i++ {
		app := m.filtered[i]
		line := fmt.Sprintf("%s (AppID: %d)", app.Name, app.AppID)
		if i == m.cursor {
			line = pickerSelStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.filtered) == 0 {
		b.WriteString(pickerMutedStyle.Render("  no matches"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(pickerMutedStyle.Render("↑/↓ move · enter select · esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// pickApp runs the interactive picker; ok is false when the user cancelled.
func pickApp(apps []catalog.App) (catalog.App, bool, error) {
	p := tea.NewProgram(newPickerModel(apps))
	finalModel, err := p.Run()
	if err != nil {
		return catalog.App{}, false, err
	}
	m, ok := finalModel.(pickerModel)
	if !ok || m.cancelled || m.choice == nil {
		return catalog.App{}, false, nil
	}
	return *m.choice, true, nil
}
