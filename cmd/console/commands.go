package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/victoragudo/hotel-management-system/console/internal/application/usecase"
	"github.com/victoragudo/hotel-management-system/console/internal/dashboard"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/apierr"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
)

const settleInterval = 50 * time.Millisecond

type ListCmd struct {
	Resource string        `arg:"" help:"Resource name, e.g. hotels, hotel-types or bookings."`
	Page     int           `help:"Page number, starting at 1." default:"1"`
	Limit    int           `help:"Page size. Defaults to the configured page size."`
	Timeout  time.Duration `help:"Give up after this long." default:"30s"`
}

func (c *ListCmd) Run(globals *Globals) error {
	app, err := NewApplication(globals, os.Stderr)
	if err != nil {
		return err
	}
	defer app.Close()

	b, err := app.resource(c.Resource)
	if err != nil {
		return err
	}
	limit := c.Limit
	if limit <= 0 {
		limit = app.config.Cache.PageSize
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	changes := make(chan string, 1)
	pane := b.pane(app.deps, limit, func(resource string) {
		select {
		case changes <- resource:
		default:
		}
	})
	pane.Mount(ctx)
	defer pane.Unmount()

	view, err := waitSettled(ctx, pane, changes)
	for page := 1; err == nil && page < c.Page; page++ {
		if !pane.Next(ctx) {
			return fmt.Errorf("%s has no page %d", c.Resource, c.Page)
		}
		view, err = waitSettled(ctx, pane, changes)
	}
	if err != nil {
		return fmt.Errorf("timed out listing %s: %w", c.Resource, err)
	}
	if view.Err != nil {
		return fmt.Errorf("failed to list %s: %s", c.Resource, apierr.UserMessage(view.Err))
	}

	fmt.Println(renderTable(view))
	fmt.Println(pageSummary(c.Page, view))
	return nil
}

// waitSettled blocks until the pane has neither a first load nor a background refetch in flight.
func waitSettled(ctx context.Context, pane dashboard.Pane, changes <-chan string) (dashboard.PaneView, error) {
	ticker := time.NewTicker(settleInterval)
	defer ticker.Stop()
	for {
		view := pane.View()
		if !view.Loading && !view.Refreshing {
			return view, nil
		}
		select {
		case <-ctx.Done():
			return view, ctx.Err()
		case <-changes:
		case <-ticker.C:
		}
	}
}

func renderTable(view dashboard.PaneView) string {
	headers := []string{"ID"}
	for _, column := range view.Columns {
		headers = append(headers, column.Title)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for _, row := range view.Rows {
		t.Row(append([]string{row.ID}, row.Cells...)...)
	}
	return t.Render()
}

func pageSummary(page int, view dashboard.PaneView) string {
	parts := []string{fmt.Sprintf("page %d", page)}
	if view.Total != nil {
		parts = append(parts, fmt.Sprintf("%d total", *view.Total))
	}
	if view.HasPrevious {
		parts = append(parts, "--page "+fmt.Sprint(page-1)+" for previous")
	}
	if view.HasNext {
		parts = append(parts, "--page "+fmt.Sprint(page+1)+" for next")
	}
	return strings.Join(parts, " · ")
}

type ShowCmd struct {
	Resource string        `arg:"" help:"Resource name."`
	ID       string        `arg:"" help:"Record id."`
	Timeout  time.Duration `help:"Give up after this long." default:"30s"`
}

func (c *ShowCmd) Run(globals *Globals) error {
	app, err := NewApplication(globals, os.Stderr)
	if err != nil {
		return err
	}
	defer app.Close()

	b, err := app.resource(c.Resource)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	item, err := b.show(ctx, app.deps, c.ID)
	if err != nil {
		return fmt.Errorf("failed to load %s %s: %s", b.resource.Label, c.ID, apierr.UserMessage(err))
	}

	out, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

type DeleteCmd struct {
	Resource string        `arg:"" help:"Resource name."`
	ID       string        `arg:"" help:"Record id."`
	Timeout  time.Duration `help:"Give up after this long." default:"30s"`
}

func (c *DeleteCmd) Run(globals *Globals) error {
	app, err := NewApplication(globals, os.Stderr)
	if err != nil {
		return err
	}
	defer app.Close()

	b, err := app.resource(c.Resource)
	if err != nil {
		return err
	}
	if !b.resource.Deletable {
		return usecase.ErrNotDeletable
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	if err := b.remove(ctx, app.deps, c.ID); err != nil {
		return errors.New(apierr.UserMessage(err))
	}
	printLatestToast(app)
	return nil
}

type CreateHotelTypeCmd struct {
	Name        string        `help:"Hotel type name." required:""`
	Description string        `help:"Optional description."`
	Timeout     time.Duration `help:"Give up after this long." default:"30s"`
}

func (c *CreateHotelTypeCmd) Run(globals *Globals) error {
	app, err := NewApplication(globals, os.Stderr)
	if err != nil {
		return err
	}
	defer app.Close()

	if app.hotelTypes == nil {
		return fmt.Errorf("the %s console does not manage hotel types", app.profile.Name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	page := usecase.NewCreatePage[record.HotelType, record.HotelTypeInput](app.deps, usecase.HotelTypes, app.hotelTypes, record.HotelTypeInput{})
	err = page.Edit(func(input *record.HotelTypeInput) {
		input.Name = c.Name
		input.Description = c.Description
	})
	if err != nil {
		return err
	}

	created, err := page.Submit(ctx)
	if err != nil {
		return errors.New(describeSubmitError(err))
	}
	printLatestToast(app)
	fmt.Printf("%s\t%s\n", created.ID, created.Name)
	return nil
}

// describeSubmitError lists every field error, sorted by field, or falls back to the user message.
func describeSubmitError(err error) string {
	fields := map[string]string{}

	var validationErr *apierr.ValidationError
	var rejection *apierr.ServerRejection
	switch {
	case errors.As(err, &validationErr):
		fields = validationErr.Fields
	case errors.As(err, &rejection) && len(rejection.FieldErrors) > 0:
		for name, messages := range rejection.FieldErrors {
			fields[name] = strings.Join(messages, " ")
		}
	default:
		return apierr.UserMessage(err)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, name+": "+fields[name])
	}
	return strings.Join(lines, "\n")
}

func printLatestToast(app *Application) {
	if toast, ok := app.toasts.Latest(); ok {
		fmt.Println(toast.Message)
	}
}
