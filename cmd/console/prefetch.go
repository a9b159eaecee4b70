package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jasonlvhit/gocron"
)

type PrefetchCmd struct {
	Every   time.Duration `help:"Keep running and prefetch on this interval (e.g. 10m). Runs once when zero."`
	Timeout time.Duration `help:"Give up on a single run after this long." default:"1m"`
}

func (c *PrefetchCmd) Run(globals *Globals) error {
	app, err := NewApplication(globals, os.Stdout)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if c.Every <= 0 {
		runCtx, runCancel := context.WithTimeout(ctx, c.Timeout)
		defer runCancel()
		if err := app.prefetcher().Run(runCtx); err != nil {
			return err
		}
		fmt.Printf("%d queries cached\n", app.cache.Len())
		return nil
	}

	figure.NewFigure("CONSOLE", "", true).Print()
	fmt.Println("")

	app.startInvalidationListener(ctx)
	stop := app.schedulePrefetch(ctx, c.Every)
	defer stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.logger.Info("Shutting down prefetcher")
	return nil
}

// schedulePrefetch runs the prefetcher now and then on every interval until the returned stop
// function is called. Intervals under a second run once only.
func (app *Application) schedulePrefetch(ctx context.Context, interval time.Duration) func() {
	run := func() {
		if err := app.prefetcher().Run(ctx); err != nil {
			app.logger.Warn("Scheduled prefetch failed", "error", err)
		}
	}
	go run()

	seconds := uint64(interval / time.Second)
	if seconds == 0 {
		return func() {}
	}

	scheduler := gocron.NewScheduler()
	if err := scheduler.Every(seconds).Seconds().Do(run); err != nil {
		app.logger.Error("Failed to setup prefetch schedule", "error", err)
		return func() {}
	}
	stopped := scheduler.Start()
	app.logger.Info("Prefetch scheduled", "interval", interval, "lookups", len(app.profile.Lookups()))

	return func() {
		scheduler.Clear()
		close(stopped)
	}
}
