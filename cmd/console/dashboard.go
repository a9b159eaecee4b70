package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/victoragudo/hotel-management-system/console/internal/dashboard"
	"github.com/victoragudo/hotel-management-system/console/internal/navigation"
)

type DashboardCmd struct {
	Theme   string `help:"Color theme." enum:"dark,light" default:"dark"`
	LogFile string `help:"Where to write logs while the dashboard owns the terminal." default:"console.log" type:"path"`
}

func (d *DashboardCmd) Run(globals *Globals) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("dashboard: requires a terminal (TTY), use list or show instead")
	}

	logFile, err := os.OpenFile(d.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("dashboard: failed to open log file: %w", err)
	}
	defer func() {
		_ = logFile.Close()
	}()

	app, err := NewApplication(globals, logFile)
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	defer app.Close()
	if len(app.resources) == 0 {
		return fmt.Errorf("dashboard: the %s console has no resources", app.profile.Name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var program *tea.Program
	app.deps.Navigator = navigation.NewHistory(app.resources[0].resource.ListPath, func(path string) {
		if program != nil {
			program.Send(dashboard.NavigateMsg{Path: path})
		}
	})

	changes := make(chan string, 64)
	changed := func(resource string) {
		select {
		case changes <- resource:
		default:
		}
	}
	panes := make([]dashboard.Pane, 0, len(app.resources))
	for _, b := range app.resources {
		panes = append(panes, b.pane(app.deps, app.config.Cache.PageSize, changed))
	}

	app.startInvalidationListener(ctx)
	stopPrefetch := app.schedulePrefetch(ctx, app.config.Cache.PrefetchInterval)
	defer stopPrefetch()

	model := dashboard.NewModel(ctx, dashboard.Options{
		Profile: app.profile,
		Panes:   panes,
		Changes: changes,
		Toasts:  app.toasts.Events(),
		Theme:   dashboard.ParseTheme(d.Theme),
	})

	app.logger.Info("Starting dashboard", "profile", app.profile.Name, "origin", app.deps.Origin, "resources", len(panes))
	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
