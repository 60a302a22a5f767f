package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pithecene-io/braket-devices/properties"
)

// Default size before the first WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// InspectModel is a Bubble Tea model for one device view. The content
// scrolls when it is taller than the terminal.
type InspectModel struct {
	viewport viewport.Model
	quitting bool
}

// NewInspectModel creates a new inspect model.
func NewInspectModel(v properties.View) InspectModel {
	vp := viewport.New(defaultWidth, defaultHeight-2)
	vp.SetContent(renderInspect(v))
	return InspectModel{viewport: vp}
}

// Init implements tea.Model.
func (m InspectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *InspectModel) resize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
}

// View implements tea.Model.
func (m InspectModel) View() string {
	if m.quitting {
		return ""
	}
	help := HelpStyle.Render("↑/↓ scroll • q quit")
	return m.viewport.View() + "\n" + help
}

func renderInspect(v properties.View) string {
	var b strings.Builder
	s := v.Summary
	b.WriteString(TitleStyle.Render(s.DeviceName))
	b.WriteString("\n")

	writeRow(&b, "ARN", ValueStyle.Render(s.DeviceArn))
	writeRow(&b, "Provider", ValueStyle.Render(s.ProviderName))
	writeRow(&b, "Type", ValueStyle.Render(string(s.DeviceType)))
	writeRow(&b, "Status", StatusStyle(string(s.DeviceStatus)).Render(string(s.DeviceStatus)))
	if s.QubitCount != nil {
		writeRow(&b, "Qubits", ValueStyle.Render(fmt.Sprintf("%d", *s.QubitCount)))
	}

	writeTitle(&b, "Queue")
	if len(v.Queue) == 0 {
		b.WriteString(MutedStyle.Render("  not reported") + "\n")
	}
	for _, q := range v.Queue {
		writeRow(&b, q.Label, ValueStyle.Render(fmt.Sprintf("%d", q.Value)))
	}

	if !v.PropertiesAvailable {
		writeTitle(&b, "Properties")
		b.WriteString(MutedStyle.Render("  not available") + "\n")
		return BoxStyle.Render(b.String())
	}

	if v.Hardware != nil {
		writeRows(&b, "Hardware", v.Hardware.Rows())
	}
	if v.Operational != nil {
		writeRows(&b, "Operational", v.Operational.Rows())
	}

	writeTitle(&b, "Performance")
	if !v.PerformanceApplicable {
		b.WriteString(MutedStyle.Render("  not applicable") + "\n")
	}
	for _, m := range v.Performance {
		writeRow(&b, m.Label, ValueStyle.Render(m.Value))
	}

	if len(v.SupportedGates) > 0 {
		writeTitle(&b, "Supported Gates")
		for _, g := range v.SupportedGates {
			name := g.Name
			if g.Native {
				name = SuccessStyle.Render(name + " *")
			}
			b.WriteString(fmt.Sprintf("  • %s %s\n", name, MutedStyle.Render(g.Description)))
		}
	}
	if len(v.ResultTypes) > 0 {
		writeTitle(&b, "Result Types")
		for _, rt := range v.ResultTypes {
			b.WriteString(fmt.Sprintf("  • %s\n", ValueStyle.Render(rt.Name)))
		}
	}

	return BoxStyle.Render(b.String())
}

func writeTitle(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(TitleStyle.UnsetMarginBottom().Render(title))
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, label, value string) {
	b.WriteString(fmt.Sprintf("  %s %s\n", LabelStyle.Render(fmt.Sprintf("%-26s", label+":")), value))
}

func writeRows(b *strings.Builder, title string, rows []properties.Row) {
	writeTitle(b, title)
	if len(rows) == 0 {
		b.WriteString(MutedStyle.Render("  not reported") + "\n")
	}
	for _, r := range rows {
		writeRow(b, r.Label, ValueStyle.Render(r.Value))
	}
}

// RunInspectTUI runs the inspect TUI.
func RunInspectTUI(v properties.View) error {
	p := tea.NewProgram(NewInspectModel(v), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderInspectStatic renders a device view without full TUI (for fallback).
func RenderInspectStatic(v properties.View) string {
	return lipgloss.NewStyle().Padding(1, 2).Render(renderInspect(v))
}
