package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/apierr"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/repository"
	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Record is a served record that can hand back its writable fields, so PATCH can merge a partial body
// over the stored values.
type Record[I any] interface {
	record.Identifiable
	Input() I
}

// Rejection is a refusal raised by a resource rule, rendered as {"detail": Message}.
type Rejection struct {
	StatusCode int
	Message    string
}

func (r *Rejection) Error() string { return r.Message }

// Resource describes one v1 collection.
type Resource[T any] struct {
	Name      string
	Creatable bool
	// ConflictField and ConflictMessage render repository.ErrConflict as a field error.
	ConflictField   string
	ConflictMessage string
	// BeforeDelete may refuse a delete with a *Rejection.
	BeforeDelete func(ctx context.Context, item T) error
}

type ResourceHandler[T Record[I], I any] struct {
	resource  Resource[T]
	store     repository.Store[T, I]
	validator ports.Validator
	logger    *slog.Logger
}

func NewResourceHandler[T Record[I], I any](resource Resource[T], store repository.Store[T, I], validator ports.Validator, logger *slog.Logger) *ResourceHandler[T, I] {
	return &ResourceHandler[T, I]{
		resource:  resource,
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// Register mounts the collection under /<name>/ on router.
func (h *ResourceHandler[T, I]) Register(router *mux.Router) {
	collection := "/" + h.resource.Name + "/"
	item := collection + "{id}/"

	router.HandleFunc(collection, h.List).Methods(http.MethodGet)
	if h.resource.Creatable {
		router.HandleFunc(collection, h.Create).Methods(http.MethodPost)
	}
	router.HandleFunc(item, h.Get).Methods(http.MethodGet)
	router.HandleFunc(item, h.Update).Methods(http.MethodPatch)
	router.HandleFunc(item, h.Delete).Methods(http.MethodDelete)
}

func (h *ResourceHandler[T, I]) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, fields := parsePaging(r.URL.Query())
	if len(fields) > 0 {
		writeFieldErrors(w, h.logger, fields)
		return
	}

	items, total, err := h.store.List(r.Context(), repository.ListParams{Limit: limit, Offset: offset})
	if err != nil {
		h.logger.Error("Failed to list records", "resource", h.resource.Name, "error", err)
		writeDetail(w, h.logger, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	page := record.Page[T]{Results: items, Count: &total}
	if offset+limit < total {
		next := pageURL(r, limit, offset+limit)
		page.Next = &next
	}
	if offset > 0 {
		previous := pageURL(r, limit, max(offset-limit, 0))
		page.Previous = &previous
	}
	writeJSON(w, h.logger, page, http.StatusOK)
}

func (h *ResourceHandler[T, I]) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, h.logger, item, http.StatusOK)
}

func (h *ResourceHandler[T, I]) Create(w http.ResponseWriter, r *http.Request) {
	var input I
	if !h.decode(w, r, &input) {
		return
	}

	item, err := h.store.Create(r.Context(), input)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.logger.Info("Record created", "resource", h.resource.Name, "id", item.Identifier())
	writeJSON(w, h.logger, item, http.StatusCreated)
}

// Update applies a partial body: fields absent from the payload keep their stored values.
func (h *ResourceHandler[T, I]) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	current, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	input := current.Input()
	if !h.decode(w, r, &input) {
		return
	}

	item, err := h.store.Update(r.Context(), id, input)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.logger.Info("Record updated", "resource", h.resource.Name, "id", id)
	writeJSON(w, h.logger, item, http.StatusOK)
}

func (h *ResourceHandler[T, I]) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if h.resource.BeforeDelete != nil {
		item, err := h.store.Get(r.Context(), id)
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		if err := h.resource.BeforeDelete(r.Context(), item); err != nil {
			h.writeStoreError(w, err)
			return
		}
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.logger.Info("Record deleted", "resource", h.resource.Name, "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// decode reads the JSON body into out and validates it. It writes the error response itself and
// reports whether the handler may continue.
func (h *ResourceHandler[T, I]) decode(w http.ResponseWriter, r *http.Request, out *I) bool {
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(out); err != nil {
			writeDetail(w, h.logger, fmt.Sprintf("JSON parse error - %s", err.Error()), http.StatusBadRequest)
			return false
		}
	}

	if err := h.validator.Validate(*out); err != nil {
		var validationErr *apierr.ValidationError
		if errors.As(err, &validationErr) {
			fields := make(map[string][]string, len(validationErr.Fields))
			for name, message := range validationErr.Fields {
				fields[name] = []string{message}
			}
			writeFieldErrors(w, h.logger, fields)
			return false
		}
		h.logger.Error("Failed to validate payload", "resource", h.resource.Name, "error", err)
		writeDetail(w, h.logger, "A server error occurred.", http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *ResourceHandler[T, I]) writeStoreError(w http.ResponseWriter, err error) {
	var rejection *Rejection
	switch {
	case errors.As(err, &rejection):
		writeDetail(w, h.logger, rejection.Message, rejection.StatusCode)
	case errors.Is(err, repository.ErrNotFound):
		writeDetail(w, h.logger, "Not found.", http.StatusNotFound)
	case errors.Is(err, repository.ErrConflict):
		field, message := h.resource.ConflictField, h.resource.ConflictMessage
		if field == "" {
			field = "non_field_errors"
		}
		if message == "" {
			message = "A record with these values already exists."
		}
		writeFieldErrors(w, h.logger, map[string][]string{field: {message}})
	default:
		h.logger.Error("Store operation failed", "resource", h.resource.Name, "error", err)
		writeDetail(w, h.logger, "A server error occurred.", http.StatusInternalServerError)
	}
}

func parsePaging(query url.Values) (limit, offset int, fields map[string][]string) {
	limit, offset = DefaultLimit, 0
	fields = map[string][]string{}

	if raw := query.Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			fields["limit"] = []string{"Ensure this value is a positive integer."}
		} else {
			limit = min(value, MaxLimit)
		}
	}

	if raw := query.Get("offset"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			fields["offset"] = []string{"Ensure this value is greater than or equal to 0."}
		} else {
			offset = value
		}
	}
	return limit, offset, fields
}

// pageURL builds the absolute link to another page of the same list, keeping the other query
// parameters. A zero offset is left out.
func pageURL(r *http.Request, limit, offset int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}

	query := r.URL.Query()
	query.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	} else {
		query.Del("offset")
	}

	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: query.Encode()}
	return u.String()
}
