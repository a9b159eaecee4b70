package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/victoragudo/hotel-management-system/console/internal/application/usecase"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/apierr"
	"github.com/victoragudo/hotel-management-system/console/internal/notify"
)

// PaneChangedMsg reports that the cached page under a pane changed.
type PaneChangedMsg struct {
	Resource string
}

type ToastMsg struct {
	Toast notify.Toast
}

// NavigateMsg selects the pane whose list route is Path.
type NavigateMsg struct {
	Path string
}

type deleteDoneMsg struct {
	Resource string
	ID       string
	Err      error
}

type focus int

const (
	focusList focus = iota
	focusSidebar
)

type Options struct {
	Profile usecase.Profile
	// Panes in sidebar order; resources of the profile without a pane are not shown.
	Panes   []Pane
	Changes <-chan string
	Toasts  <-chan notify.Toast
	Theme   Theme
}

// sidebarEntry is a group heading when resource is "".
type sidebarEntry struct {
	group    string
	resource string
}

// Model is the root Bubble Tea model of the console.
type Model struct {
	ctx     context.Context
	profile string
	shell   Shell
	keys    keyMap
	help    help.Model
	groups  []Group
	panes   map[string]Pane
	active  string
	focus   focus
	width   int
	height  int

	sideCursor int
	rowCursor  int

	changes <-chan string
	toasts  <-chan notify.Toast
	toast   *notify.Toast
}

func NewModel(ctx context.Context, opts Options) Model {
	panes := make(map[string]Pane, len(opts.Panes))
	for _, pane := range opts.Panes {
		panes[pane.Resource().Name] = pane
	}

	var groups []Group
	for _, g := range Groups(opts.Profile) {
		var resources []usecase.Resource
		for _, r := range g.Resources {
			if _, ok := panes[r.Name]; ok {
				resources = append(resources, r)
			}
		}
		if len(resources) > 0 {
			groups = append(groups, Group{Name: g.Name, Resources: resources})
		}
	}

	m := Model{
		ctx:     ctx,
		profile: opts.Profile.Name,
		shell:   Shell{Theme: opts.Theme},
		keys:    defaultKeyMap(),
		help:    help.New(),
		groups:  groups,
		panes:   panes,
		changes: opts.Changes,
		toasts:  opts.Toasts,
	}
	if m.shell.Theme == "" {
		m.shell.Theme = ThemeDark
	}
	if len(groups) > 0 {
		m.active = groups[0].Resources[0].Name
		m.shell.OpenSubmenu = groups[0].Name
	}
	return m
}

func (m Model) Shell() Shell { return m.shell }

// Active is the resource shown in the list pane.
func (m Model) Active() string { return m.active }

func (m Model) Init() tea.Cmd {
	if pane := m.pane(); pane != nil {
		pane.Mount(m.ctx)
	}
	return tea.Batch(m.listenChanges(), m.listenToasts())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ToggleSidebarMsg, ToggleSubmenuMsg, ToggleThemeMsg:
		m.shell = m.shell.Apply(msg)
		if m.shell.SidebarCollapsed {
			m.focus = focusList
		}
		m.sideCursor = min(m.sideCursor, max(len(m.sidebarEntries())-1, 0))
		return m, nil

	case PaneChangedMsg:
		m.clampRowCursor()
		return m, m.listenChanges()

	case ToastMsg:
		toast := msg.Toast
		m.toast = &toast
		return m, m.listenToasts()

	case NavigateMsg:
		for _, g := range m.groups {
			for _, r := range g.Resources {
				if r.ListPath == msg.Path {
					m = m.activate(r.Name)
				}
			}
		}
		return m, nil

	case deleteDoneMsg:
		m.clampRowCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if pane := m.pane(); pane != nil {
			pane.Unmount()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Sidebar):
		return m.Update(ToggleSidebarMsg{})

	case key.Matches(msg, m.keys.Theme):
		return m.Update(ToggleThemeMsg{})

	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusList && !m.shell.SidebarCollapsed {
			m.focus = focusSidebar
		} else {
			m.focus = focusList
		}
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.sidebarEntries()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.sideCursor > 0 {
			m.sideCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.sideCursor < len(entries)-1 {
			m.sideCursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.sideCursor >= len(entries) {
			return m, nil
		}
		entry := entries[m.sideCursor]
		if entry.resource == "" {
			return m.Update(ToggleSubmenuMsg{Name: entry.group})
		}
		m = m.activate(entry.resource)
		m.focus = focusList
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pane := m.pane()
	if pane == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.rowCursor > 0 {
			m.rowCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.rowCursor < len(pane.View().Rows)-1 {
			m.rowCursor++
		}
	case key.Matches(msg, m.keys.Next):
		if pane.Next(m.ctx) {
			m.rowCursor = 0
		}
	case key.Matches(msg, m.keys.Previous):
		if pane.Previous(m.ctx) {
			m.rowCursor = 0
		}
	case key.Matches(msg, m.keys.Refresh):
		pane.Refresh()
	case key.Matches(msg, m.keys.Delete):
		rows := pane.View().Rows
		if !pane.Resource().Deletable || m.rowCursor >= len(rows) {
			return m, nil
		}
		ctx, resource, id := m.ctx, m.active, rows[m.rowCursor].ID
		return m, func() tea.Msg {
			return deleteDoneMsg{Resource: resource, ID: id, Err: pane.Delete(ctx, id)}
		}
	}
	return m, nil
}

func (m Model) activate(name string) Model {
	if name == m.active {
		return m
	}
	next, ok := m.panes[name]
	if !ok {
		return m
	}
	if current := m.pane(); current != nil {
		current.Unmount()
	}
	next.Mount(m.ctx)
	m.active = name
	m.rowCursor = 0
	return m
}

func (m Model) pane() Pane {
	return m.panes[m.active]
}

func (m *Model) clampRowCursor() {
	pane := m.pane()
	if pane == nil {
		return
	}
	rows := len(pane.View().Rows)
	if m.rowCursor >= rows {
		m.rowCursor = max(rows-1, 0)
	}
}

func (m Model) sidebarEntries() []sidebarEntry {
	var entries []sidebarEntry
	for _, g := range m.groups {
		entries = append(entries, sidebarEntry{group: g.Name})
		if m.shell.OpenSubmenu != g.Name {
			continue
		}
		for _, r := range g.Resources {
			entries = append(entries, sidebarEntry{group: g.Name, resource: r.Name})
		}
	}
	return entries
}

func (m Model) listenChanges() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		resource, ok := <-changes
		if !ok {
			return nil
		}
		return PaneChangedMsg{Resource: resource}
	}
}

func (m Model) listenToasts() tea.Cmd {
	if m.toasts == nil {
		return nil
	}
	toasts := m.toasts
	return func() tea.Msg {
		toast, ok := <-toasts
		if !ok {
			return nil
		}
		return ToastMsg{Toast: toast}
	}
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	s := stylesFor(m.shell.Theme)

	mainWidth := m.width - 2
	var columns []string
	if !m.shell.SidebarCollapsed {
		sidebar := s.Sidebar
		if m.focus == focusSidebar {
			sidebar = sidebar.BorderForeground(s.FocusedBorder)
		}
		columns = append(columns, sidebar.Width(sidebarWidth-2).Render(m.viewSidebar(s)))
		mainWidth -= sidebarWidth
	}

	main := s.Main
	if m.focus == focusList {
		main = main.BorderForeground(s.FocusedBorder)
	}
	columns = append(columns, main.Width(max(mainWidth, 20)).Render(m.viewList(s)))

	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.viewFooter(s))
}

func (m Model) viewSidebar(s styles) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Console · "+m.profile) + "\n\n")

	for i, entry := range m.sidebarEntries() {
		var line string
		switch {
		case entry.resource == "" && m.shell.OpenSubmenu == entry.group:
			line = s.Group.Render("▾ " + entry.group)
		case entry.resource == "":
			line = s.Group.Render("▸ " + entry.group)
		case entry.resource == m.active:
			line = s.ActiveItem.Render(title(entry.resource))
		default:
			line = s.Item.Render(title(entry.resource))
		}
		if m.focus == focusSidebar && i == m.sideCursor {
			line = s.Cursor.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) viewList(s styles) string {
	pane := m.pane()
	if pane == nil {
		return s.Status.Render("No resources for this profile.")
	}
	view := pane.View()

	var b strings.Builder
	b.WriteString(s.Title.Render(title(m.active)))
	if view.Total != nil {
		b.WriteString(s.Status.Render(fmt.Sprintf("  %d total", *view.Total)))
	}
	b.WriteString("\n")

	switch {
	case view.Loading:
		b.WriteString(s.Status.Render("Loading...") + "\n")
	case view.Err != nil && len(view.Rows) == 0:
		b.WriteString(s.Error.Render(apierr.UserMessage(view.Err)) + "\n")
	case view.Refreshing:
		b.WriteString(s.Status.Render("Refreshing...") + "\n")
	case view.Deleting:
		b.WriteString(s.Status.Render("Deleting...") + "\n")
	case view.Stale:
		b.WriteString(s.Status.Render("Showing cached data") + "\n")
	default:
		b.WriteString("\n")
	}

	headers := make([]string, 0, len(view.Columns))
	for _, c := range view.Columns {
		headers = append(headers, fit(c.Title, c.Width))
	}
	b.WriteString(s.Header.Render(strings.Join(headers, " ")) + "\n")

	if len(view.Rows) == 0 && !view.Loading && view.Err == nil {
		b.WriteString(s.Status.Render("Nothing here yet.") + "\n")
	}
	for i, row := range view.Rows {
		cells := make([]string, 0, len(row.Cells))
		for j, cell := range row.Cells {
			width := 12
			if j < len(view.Columns) {
				width = view.Columns[j].Width
			}
			cells = append(cells, fit(cell, width))
		}
		line := strings.Join(cells, " ")
		if m.focus == focusList && i == m.rowCursor {
			b.WriteString(s.SelectedRow.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(s.Cell.Render("  "+line) + "\n")
		}
	}

	var paging []string
	if view.HasPrevious {
		paging = append(paging, "p previous")
	}
	if view.HasNext {
		paging = append(paging, "n next")
	}
	if len(paging) > 0 {
		b.WriteString("\n" + s.Status.Render(strings.Join(paging, " · ")))
	}
	return b.String()
}

func (m Model) viewFooter(s styles) string {
	var lines []string
	if m.toast != nil {
		lines = append(lines, s.toast(m.toast.Kind).Render(m.toast.Message))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

// title turns a resource name such as "hotel-types" into "Hotel types".
func title(name string) string {
	if name == "" {
		return ""
	}
	words := strings.ReplaceAll(name, "-", " ")
	return strings.ToUpper(words[:1]) + words[1:]
}

// fit pads or truncates s to exactly width runes.
func fit(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}
