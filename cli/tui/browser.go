package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pithecene-io/braket-devices/braket"
	"github.com/pithecene-io/braket-devices/catalog"
	"github.com/pithecene-io/braket-devices/log"
	"github.com/pithecene-io/braket-devices/properties"
	"github.com/pithecene-io/braket-devices/types"
)

// BrowserSource is what the device browser reads from. The board starts
// with the catalog entries in LOADING state and is filled in by the
// registry listing.
type BrowserSource struct {
	Registry braket.Registry
	Board    *catalog.Board
	Filter   catalog.Filter
	Logger   *log.Logger
}

// listMsg carries the result of one listing request.
type listMsg struct {
	seq  uint64
	list braket.DeviceList
	err  error
}

// detailMsg carries the result of one detail request.
type detailMsg struct {
	seq  uint64
	arn  string
	view properties.View
	err  error
}

// BrowserModel is a Bubble Tea model listing devices. Rows appear at once
// from the catalog and statuses resolve when the listing arrives; a device
// opens in an inspect view.
type BrowserModel struct {
	ctx     context.Context
	src     BrowserSource
	rows    []types.DeviceSummary
	cursor  int
	spinner spinner.Model

	detailSeq *catalog.Tracker
	loading   string // ARN of the detail being fetched
	detail    *InspectModel
	detailErr error

	width    int
	height   int
	quitting bool
}

// NewBrowserModel creates a browser. A nil board starts from the seed
// catalog.
func NewBrowserModel(ctx context.Context, src BrowserSource) BrowserModel {
	if src.Board == nil {
		src.Board = catalog.NewBoard(catalog.Seed())
	}
	m := BrowserModel{
		ctx:       ctx,
		src:       src,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(WarningStyle)),
		detailSeq: &catalog.Tracker{},
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.rows = src.Filter.Apply(src.Board.Rows())
	return m
}

// Init implements tea.Model.
func (m BrowserModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchList())
}

// fetchList starts a listing request tagged with a new board sequence.
func (m BrowserModel) fetchList() tea.Cmd {
	seq := m.src.Board.Begin()
	ctx, registry := m.ctx, m.src.Registry
	return func() tea.Msg {
		list, err := registry.ListDevices(ctx)
		return listMsg{seq: seq, list: list, err: err}
	}
}

// fetchDetail starts a detail request. Only the latest one is shown.
func (m BrowserModel) fetchDetail(arn string) tea.Cmd {
	seq := m.detailSeq.Next()
	ctx, registry, logger := m.ctx, m.src.Registry, m.src.Logger
	return func() tea.Msg {
		detail, err := registry.GetDevice(ctx, arn)
		if err != nil {
			return detailMsg{seq: seq, arn: arn, err: err}
		}
		return detailMsg{seq: seq, arn: arn, view: properties.BuildView(detail, logger)}
	}
}

// Update implements tea.Model.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.detail != nil {
			m.detail.resize(msg.Width, msg.Height)
		}
		return m, nil

	case listMsg:
		if msg.err != nil {
			m.src.Board.Fail(msg.seq, msg.err)
		} else {
			m.src.Board.Apply(msg.seq, msg.list)
		}
		m.rows = m.src.Filter.Apply(m.src.Board.Rows())
		m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
		return m, nil

	case detailMsg:
		if !m.detailSeq.IsLatest(msg.seq) || m.loading != msg.arn {
			return m, nil
		}
		m.loading = ""
		if msg.err != nil {
			m.detailErr = msg.err
			return m, nil
		}
		d := NewInspectModel(msg.view)
		d.resize(m.width, m.height)
		m.detail = &d
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.detail != nil {
		var cmd tea.Cmd
		m.detail.viewport, cmd = m.detail.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m BrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Back):
		m.detail = nil
		m.detailErr = nil
		m.loading = ""
		m.detailSeq.Next() // drop any detail still in flight
		return m, nil
	}

	if m.detail != nil {
		var cmd tea.Cmd
		m.detail.viewport, cmd = m.detail.viewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Refresh):
		return m, m.fetchList()
	case key.Matches(msg, keys.Open):
		if len(m.rows) == 0 {
			return m, nil
		}
		arn := m.rows[m.cursor].DeviceArn
		m.loading = arn
		m.detailErr = nil
		return m, m.fetchDetail(arn)
	}
	return m, nil
}

// View implements tea.Model.
func (m BrowserModel) View() string {
	if m.quitting {
		return ""
	}
	if m.detail != nil {
		return m.detail.viewport.View() + "\n" + HelpStyle.Render("↑/↓ scroll • esc back • q quit")
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Amazon Braket Devices"))
	b.WriteString("\n")
	b.WriteString(m.renderCounts())
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(MutedStyle.Render("No devices match the filter."))
		b.WriteString("\n")
	}
	for i, r := range m.rows {
		b.WriteString(m.renderRow(i, r))
		b.WriteString("\n")
	}

	if m.src.Board.Pending() {
		b.WriteString("\n" + m.spinner.View() + " Loading statuses...\n")
	}
	if err := m.src.Board.Err(); err != nil {
		b.WriteString("\n" + ErrorStyle.Render("Failed to list devices: "+err.Error()) + "\n")
	}
	for _, w := range m.src.Board.Warnings() {
		b.WriteString("\n" + WarningStyle.Render("Warning: "+w))
	}
	if m.loading != "" {
		b.WriteString("\n" + m.spinner.View() + " Loading " + m.loading + "\n")
	}
	if m.detailErr != nil {
		b.WriteString("\n" + ErrorStyle.Render("Failed to load device: "+m.detailErr.Error()) + "\n")
	}

	b.WriteString(HelpStyle.Render("↑/↓ move • enter inspect • r refresh • q quit"))
	return b.String()
}

func (m BrowserModel) renderRow(i int, r types.DeviceSummary) string {
	qubits := "-"
	if r.QubitCount != nil {
		qubits = fmt.Sprintf("%d", *r.QubitCount)
	}
	line := fmt.Sprintf("%-24s %-16s %-10s %6s  ", r.DeviceName, r.ProviderName, r.DeviceType, qubits)
	status := StatusStyle(string(r.DeviceStatus)).Render(string(r.DeviceStatus))
	if i == m.cursor {
		return SelectedStyle.Render("> "+line) + status
	}
	return "  " + line + status
}

func (m BrowserModel) renderCounts() string {
	counts := make(map[types.DeviceStatus]int)
	for _, r := range m.rows {
		counts[r.DeviceStatus]++
	}
	order := []types.DeviceStatus{
		types.DeviceStatusOnline,
		types.DeviceStatusOffline,
		types.DeviceStatusLoading,
		types.DeviceStatusUnknown,
	}
	boxes := make([]string, 0, len(order))
	for _, s := range order {
		label := StatusStyle(string(s)).Render(string(s))
		boxes = append(boxes, StatBoxStyle.Render(fmt.Sprintf("%s\n%d", label, counts[s])))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// keyMap defines key bindings.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Back    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "inspect"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// RunBrowserTUI runs the device browser.
func RunBrowserTUI(ctx context.Context, src BrowserSource) error {
	p := tea.NewProgram(NewBrowserModel(ctx, src), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
