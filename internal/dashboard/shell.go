// Package dashboard is the terminal console: a sidebar of the profile's resources and a list pane
// backed by the shared query cache.
package dashboard

import "github.com/victoragudo/hotel-management-system/console/internal/application/usecase"

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func ParseTheme(raw string) Theme {
	if raw == string(ThemeLight) {
		return ThemeLight
	}
	return ThemeDark
}

// Shell is the layout state of the console. It changes only through Apply.
type Shell struct {
	SidebarCollapsed bool
	// OpenSubmenu is the expanded sidebar group, "" when all are closed.
	OpenSubmenu string
	Theme       Theme
}

type ToggleSidebarMsg struct{}

// ToggleSubmenuMsg opens Name, or closes it when it is already open. Only one group is open at a time.
type ToggleSubmenuMsg struct {
	Name string
}

type ToggleThemeMsg struct{}

// Apply returns the shell after msg. Messages that are not shell events leave it unchanged.
func (s Shell) Apply(msg any) Shell {
	switch msg := msg.(type) {
	case ToggleSidebarMsg:
		s.SidebarCollapsed = !s.SidebarCollapsed
	case ToggleSubmenuMsg:
		if s.OpenSubmenu == msg.Name {
			s.OpenSubmenu = ""
		} else {
			s.OpenSubmenu = msg.Name
		}
	case ToggleThemeMsg:
		if s.Theme == ThemeLight {
			s.Theme = ThemeDark
		} else {
			s.Theme = ThemeLight
		}
	}
	return s
}

// Group is one collapsible sidebar section.
type Group struct {
	Name      string
	Resources []usecase.Resource
}

// Groups splits a profile into Catalog, Lookups and Operations, dropping empty sections.
func Groups(profile usecase.Profile) []Group {
	catalog := Group{Name: "Catalog"}
	lookups := Group{Name: "Lookups"}
	operations := Group{Name: "Operations"}

	for _, resource := range profile.Resources {
		switch {
		case resource.Lookup:
			lookups.Resources = append(lookups.Resources, resource)
		case resource.Creatable:
			catalog.Resources = append(catalog.Resources, resource)
		default:
			operations.Resources = append(operations.Resources, resource)
		}
	}

	var out []Group
	for _, g := range []Group{catalog, lookups, operations} {
		if len(g.Resources) > 0 {
			out = append(out, g)
		}
	}
	return out
}
