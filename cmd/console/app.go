package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/victoragudo/hotel-management-system/console/internal/application/usecase"
	"github.com/victoragudo/hotel-management-system/console/internal/dashboard"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/adapter"
	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/config"
	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/queue"
	"github.com/victoragudo/hotel-management-system/console/internal/notify"
	"github.com/victoragudo/hotel-management-system/console/internal/ports"
	"github.com/victoragudo/hotel-management-system/console/internal/querycache"
	"github.com/victoragudo/hotel-management-system/console/pkg/logger"
)

// Application holds everything a console command shares: one query cache, one client per API
// domain and the optional redis and RabbitMQ plumbing.
type Application struct {
	config  *config.ConsoleConfig
	profile usecase.Profile
	logger  *slog.Logger

	cache      *querycache.Client
	toasts     *notify.Queue
	deps       usecase.Deps
	resources  []binding
	// hotelTypes backs create-hotel-type; nil when the profile has no hotel types.
	hotelTypes *adapter.ResourceClient[record.HotelType, record.HotelTypeInput]
	closers    []io.Closer
}

func NewApplication(globals *Globals, logWriter io.Writer) (*Application, error) {
	cfg, err := config.LoadConsoleConfig(globals.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if globals.Profile != "" {
		cfg.Profile = globals.Profile
	}
	if globals.Token != "" {
		cfg.API.Token = globals.Token
	}

	profile, ok := usecase.ProfileByName(cfg.Profile)
	if !ok {
		return nil, fmt.Errorf("unknown console profile: %q", cfg.Profile)
	}

	level := cfg.Logging.Level
	if globals.Debug {
		level = "debug"
	}
	applicationLogger := logger.SetupLoggerWithWriter(level, logWriter)

	app := &Application{
		config:  cfg,
		profile: profile,
		logger:  applicationLogger,
		toasts:  notify.NewQueue(50),
	}

	cacheOptions := []querycache.Option{
		querycache.WithLogger(applicationLogger),
		querycache.WithJanitorInterval(cfg.Cache.JanitorInterval),
		querycache.WithDefaults(querycache.Options{
			StaleTime: cfg.Cache.StaleTime,
			GCTime:    cfg.Cache.GCTime,
			Retry:     cfg.Cache.Retry,
			NoRetry:   cfg.Cache.Retry == 0,
		}),
	}

	var locks ports.LockPort
	if cfg.Redis.Enabled {
		applicationLogger.Info("Connecting to Redis", "address", cfg.Redis.Address())
		snapshots := adapter.NewRedisSnapshotAdapter(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.Database, cfg.Redis.KeyPrefix, cfg.Redis.SnapshotTTL)
		cacheOptions = append(cacheOptions, querycache.WithSnapshotStore(snapshots))
		locks = adapter.NewRedisLockAdapter(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.Database, cfg.Redis.KeyPrefix+"lease:")
		app.closers = append(app.closers, snapshots, locks)
	}
	app.cache = querycache.New(cacheOptions...)

	var events ports.EventPublisher
	if cfg.RabbitMQ.Enabled {
		publisher, err := queue.DialPublisher(app.rabbitMQConfig(), applicationLogger)
		if err != nil {
			applicationLogger.Warn("Invalidation bus unavailable, continuing without it", "error", err)
		} else {
			events = publisher
			app.closers = append(app.closers, publisher)
		}
	}

	origin := cfg.Origin
	if origin == "" {
		origin = uuid.NewString()
	}

	app.deps = usecase.Deps{
		Cache:     app.cache,
		Validator: adapter.NewStructValidator(),
		Notifier:  notify.Tee{app.toasts, notify.NewLogNotifier(applicationLogger)},
		Events:    events,
		Locks:     locks,
		Origin:    origin,
		Logger:    applicationLogger,
	}

	app.resources = app.bindResources()
	return app, nil
}

// bindResources builds one REST adapter per API domain and a typed client per resource of the profile.
func (app *Application) bindResources() []binding {
	hotels := app.newAPIAdapter("hotels")
	bookings := app.newAPIAdapter("bookings")

	hotelTypes := adapter.NewResourceClient[record.HotelType, record.HotelTypeInput](hotels, "hotel-types")
	if _, ok := app.profile.Resource(usecase.HotelTypes.Name); ok {
		app.hotelTypes = hotelTypes
	}

	all := []binding{
		bind(usecase.Hotels, adapter.NewResourceClient[record.Hotel, record.HotelInput](hotels, "hotels"), dashboard.HotelColumns),
		bind(usecase.HotelTypes, hotelTypes, dashboard.HotelTypeColumns),
		bind(usecase.Rooms, adapter.NewResourceClient[record.Room, record.RoomInput](hotels, "rooms"), dashboard.RoomColumns),
		bind(usecase.RoomTypes, adapter.NewResourceClient[record.RoomType, record.RoomTypeInput](hotels, "room-types"), dashboard.RoomTypeColumns),
		bind(usecase.Facilities, adapter.NewResourceClient[record.Facility, record.FacilityInput](hotels, "facilities"), dashboard.FacilityColumns),
		bind(usecase.Amenities, adapter.NewResourceClient[record.Amenity, record.AmenityInput](hotels, "amenities"), dashboard.AmenityColumns),
		bind(usecase.Bookings, adapter.NewResourceClient[record.Booking, record.BookingInput](bookings, "bookings"), dashboard.BookingColumns),
	}

	var out []binding
	for _, b := range all {
		if _, ok := app.profile.Resource(b.resource.Name); ok {
			out = append(out, b)
		}
	}
	return out
}

func (app *Application) newAPIAdapter(name string) *adapter.RESTAPIAdapter {
	cfg := app.config.API

	var tokens adapter.TokenSource
	if cfg.Token != "" {
		tokens = adapter.NewJWTTokenSource(cfg.Token)
	}

	maxFailures := uint32(cfg.CircuitBreaker.MaxFailures)
	return adapter.NewRESTAPIAdapter(&adapter.APIConfig{
		Name:          name,
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.Timeout,
		RateLimit:     cfg.RateLimit,
		BurstLimit:    cfg.BurstLimit,
		MaxRetries:    cfg.MaxRetries,
		RetryInterval: cfg.RetryInterval,
		CircuitBreaker: &adapter.CircuitBreakerConfig{
			Timeout: cfg.CircuitBreaker.ResetTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return maxFailures > 0 && counts.ConsecutiveFailures >= maxFailures
			},
		},
		Tokens: tokens,
		Logger: app.logger,
	})
}

func (app *Application) rabbitMQConfig() *queue.RabbitMQConfig {
	cfg := app.config.RabbitMQ
	rabbitConfig := queue.NewRabbitMQConfig(cfg.Host, cfg.Username, cfg.Password, cfg.Exchange, cfg.Port, cfg.PrefetchCount, cfg.MaxRetryAttempts)
	rabbitConfig.QueueName = cfg.Queue
	return rabbitConfig
}

// startInvalidationListener consumes invalidations from other consoles until ctx ends. It is a no-op
// when the bus is disabled.
func (app *Application) startInvalidationListener(ctx context.Context) {
	if !app.config.RabbitMQ.Enabled {
		return
	}

	consumer := queue.NewRabbitMQConsumer(app.rabbitMQConfig(), app.logger)
	app.closers = append(app.closers, consumer)

	handler := usecase.NewInvalidationHandler(app.deps, app.profile)
	listener := queue.NewInvalidationListener(consumer, handler, app.logger, 5*time.Second)
	go func() {
		if err := listener.Run(ctx); err != nil {
			app.logger.Error("Invalidation listener stopped", "error", err)
		}
	}()
}

func (app *Application) resource(name string) (binding, error) {
	for _, b := range app.resources {
		if b.resource.Name == name {
			return b, nil
		}
	}
	return binding{}, fmt.Errorf("resource %q is not part of the %s console", name, app.profile.Name)
}

func (app *Application) prefetcher() *usecase.Prefetcher {
	var tasks []usecase.PrefetchTask
	for _, b := range app.resources {
		if b.resource.Lookup {
			tasks = append(tasks, b.prefetch(app.deps, app.config.Cache.PageSize))
		}
	}
	return usecase.NewPrefetcher(app.deps, app.config.Cache.PrefetchConcurrency, tasks...)
}

func (app *Application) Close() {
	app.cache.Close()
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Warn("Error closing resource", "error", err)
		}
	}
}
