package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

// sidebarWidth is the width of the expanded sidebar including its border.
const sidebarWidth = 26

type palette struct {
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Border  lipgloss.Color
}

var palettes = map[Theme]palette{
	ThemeDark: {
		Accent:  lipgloss.Color("12"),
		Muted:   lipgloss.Color("245"),
		Text:    lipgloss.Color("252"),
		Success: lipgloss.Color("10"),
		Error:   lipgloss.Color("9"),
		Border:  lipgloss.Color("238"),
	},
	ThemeLight: {
		Accent:  lipgloss.Color("4"),
		Muted:   lipgloss.Color("243"),
		Text:    lipgloss.Color("235"),
		Success: lipgloss.Color("2"),
		Error:   lipgloss.Color("1"),
		Border:  lipgloss.Color("250"),
	},
}

type styles struct {
	Sidebar       lipgloss.Style
	Main          lipgloss.Style
	FocusedBorder lipgloss.Color
	Group         lipgloss.Style
	Item          lipgloss.Style
	ActiveItem    lipgloss.Style
	Cursor        lipgloss.Style
	Title         lipgloss.Style
	Header        lipgloss.Style
	Cell          lipgloss.Style
	SelectedRow   lipgloss.Style
	Status        lipgloss.Style
	Error         lipgloss.Style
	ToastSuccess  lipgloss.Style
	ToastError    lipgloss.Style
}

func stylesFor(theme Theme) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[ThemeDark]
	}

	border := lipgloss.NormalBorder()
	return styles{
		Sidebar:       lipgloss.NewStyle().Border(border).BorderForeground(p.Border).Padding(0, 1),
		Main:          lipgloss.NewStyle().Border(border).BorderForeground(p.Border).Padding(0, 1),
		FocusedBorder: p.Accent,
		Group:         lipgloss.NewStyle().Foreground(p.Muted).Bold(true),
		Item:          lipgloss.NewStyle().Foreground(p.Text).PaddingLeft(2),
		ActiveItem:    lipgloss.NewStyle().Foreground(p.Accent).Bold(true).PaddingLeft(2),
		Cursor:        lipgloss.NewStyle().Reverse(true),
		Title:         lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Header:        lipgloss.NewStyle().Foreground(p.Muted).Underline(true),
		Cell:          lipgloss.NewStyle().Foreground(p.Text),
		SelectedRow:   lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Status:        lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		Error:         lipgloss.NewStyle().Foreground(p.Error),
		ToastSuccess:  lipgloss.NewStyle().Foreground(p.Success),
		ToastError:    lipgloss.NewStyle().Foreground(p.Error).Bold(true),
	}
}

func (s styles) toast(kind ports.NotifyKind) lipgloss.Style {
	if kind == ports.NotifyError {
		return s.ToastError
	}
	return s.ToastSuccess
}
