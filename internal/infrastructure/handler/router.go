package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/repository"
	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

type RouterOptions struct {
	Stores    *repository.Stores
	Validator ports.Validator
	Logger    *slog.Logger
	// Auth protects /v1 when set.
	Auth *JWTManager
	// RateLimiter throttles every route when set.
	RateLimiter *RateLimiter
}

// NewRouter serves the v1 collections and /health.
func NewRouter(opts RouterOptions) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = notFound(opts.Logger)
	router.MethodNotAllowedHandler = methodNotAllowed(opts.Logger)

	api := router.PathPrefix("/v1").Subrouter()
	if opts.Auth != nil {
		api.Use(AuthMiddleware(opts.Auth, opts.Logger))
	}

	stores := opts.Stores
	NewResourceHandler(Resource[record.Hotel]{
		Name:      "hotels",
		Creatable: true,
	}, stores.Hotels, opts.Validator, opts.Logger).Register(api)

	NewResourceHandler(Resource[record.HotelType]{
		Name:            "hotel-types",
		Creatable:       true,
		ConflictField:   "name",
		ConflictMessage: "Hotel type with this name already exists.",
		BeforeDelete:    hotelTypeInUse(stores.Hotels),
	}, stores.HotelTypes, opts.Validator, opts.Logger).Register(api)

	NewResourceHandler(Resource[record.Room]{
		Name:            "rooms",
		Creatable:       true,
		ConflictField:   "number",
		ConflictMessage: "Room with this number already exists in this hotel.",
	}, stores.Rooms, opts.Validator, opts.Logger).Register(api)

	NewResourceHandler(Resource[record.RoomType]{
		Name:            "room-types",
		Creatable:       true,
		ConflictField:   "name",
		ConflictMessage: "Room type with this name already exists.",
	}, stores.RoomTypes, opts.Validator, opts.Logger).Register(api)

	NewResourceHandler(Resource[record.Facility]{
		Name:      "facilities",
		Creatable: true,
	}, stores.Facilities, opts.Validator, opts.Logger).Register(api)

	NewResourceHandler(Resource[record.Amenity]{
		Name:      "amenities",
		Creatable: true,
	}, stores.Amenities, opts.Validator, opts.Logger).Register(api)

	NewResourceHandler(Resource[record.Booking]{
		Name:         "bookings",
		BeforeDelete: bookingDeletable,
	}, stores.Bookings, opts.Validator, opts.Logger).Register(api)

	router.HandleFunc("/health", HealthCheck(opts.Logger)).Methods(http.MethodGet)

	if opts.RateLimiter != nil {
		router.Use(opts.RateLimiter.Middleware())
	}
	router.Use(LoggingMiddleware(opts.Logger))

	return router
}

func bookingDeletable(_ context.Context, booking record.Booking) error {
	if booking.Status == record.BookingStatusCheckedIn {
		return &Rejection{StatusCode: http.StatusConflict, Message: "Checked-in bookings cannot be deleted."}
	}
	return nil
}

func hotelTypeInUse(hotels repository.Store[record.Hotel, record.HotelInput]) func(context.Context, record.HotelType) error {
	return func(ctx context.Context, hotelType record.HotelType) error {
		items, _, err := hotels.List(ctx, repository.ListParams{})
		if err != nil {
			return err
		}

		inUse := 0
		for _, hotel := range items {
			if hotel.HotelTypeID == hotelType.ID {
				inUse++
			}
		}
		if inUse > 0 {
			return &Rejection{
				StatusCode: http.StatusConflict,
				Message:    fmt.Sprintf("Hotel type is used by %d hotel(s) and cannot be deleted.", inUse),
			}
		}
		return nil
	}
}

// PrintRoutes writes the registered routes to stdout.
func PrintRoutes(router *mux.Router, logger *slog.Logger) {
	fmt.Println("API Routes Overview")
	fmt.Println("═══════════════════════════════════════════════════════════════")

	var routes []string
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}

		methods, err := route.GetMethods()
		if err != nil {
			return nil
		}

		routeDesc := fmt.Sprintf("  %-8s %s", strings.Join(methods, ", "), pathTemplate)
		switch {
		case pathTemplate == "/health":
			routeDesc += " - Health check endpoint"
		case strings.HasSuffix(pathTemplate, "{id}/"):
			routeDesc += " - Single record"
		default:
			routeDesc += " - Collection"
		}

		routes = append(routes, routeDesc)
		return nil
	})
	if err != nil {
		logger.Error("Error walking routes", "error", err)
		return
	}

	for _, route := range routes {
		fmt.Println(route)
	}

	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("Total registered routes: %d\n", len(routes))
}
