package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/apierr"
	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/adapter"
	"github.com/victoragudo/hotel-management-system/console/internal/infrastructure/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, opts RouterOptions) (*httptest.Server, *repository.Stores) {
	t.Helper()
	if opts.Stores == nil {
		opts.Stores = repository.NewMemoryStores()
		require.NoError(t, repository.Seed(context.Background(), opts.Stores, 15))
	}
	if opts.Validator == nil {
		opts.Validator = adapter.NewStructValidator()
	}
	opts.Logger = discardLogger()

	server := httptest.NewServer(NewRouter(opts))
	t.Cleanup(server.Close)
	return server, opts.Stores
}

func call(t *testing.T, method, url, body string, headers ...string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decodePage[T any](t *testing.T, data []byte) record.Page[T] {
	t.Helper()
	var page record.Page[T]
	require.NoError(t, json.Unmarshal(data, &page))
	return page
}

func TestResourceHandler_ListPaging(t *testing.T) {
	server, _ := newTestServer(t, RouterOptions{})

	status, data := call(t, http.MethodGet, server.URL+"/v1/bookings/", "")
	require.Equal(t, http.StatusOK, status)
	first := decodePage[record.Booking](t, data)
	assert.Len(t, first.Results, 10)
	require.NotNil(t, first.Count)
	assert.Equal(t, 15, *first.Count)
	assert.Nil(t, first.Previous)
	require.NotNil(t, first.Next)
	assert.Equal(t, server.URL+"/v1/bookings/?limit=10&offset=10", *first.Next)

	status, data = call(t, http.MethodGet, *first.Next, "")
	require.Equal(t, http.StatusOK, status)
	second := decodePage[record.Booking](t, data)
	assert.Len(t, second.Results, 5)
	assert.Nil(t, second.Next)
	require.NotNil(t, second.Previous)
	assert.Equal(t, server.URL+"/v1/bookings/?limit=10", *second.Previous)
	assert.NotEqual(t, first.Results[0].ID, second.Results[0].ID)

	status, data = call(t, http.MethodGet, server.URL+"/v1/bookings/?limit=500", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodePage[record.Booking](t, data).Results, 15)

	status, data = call(t, http.MethodGet, server.URL+"/v1/bookings/?limit=abc&offset=-1", "")
	require.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{
		"limit": ["Ensure this value is a positive integer."],
		"offset": ["Ensure this value is greater than or equal to 0."]
	}`, string(data))
}

func TestResourceHandler_Create(t *testing.T) {
	server, _ := newTestServer(t, RouterOptions{})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing name",
			body:       `{"description":"No name"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"name":["This field is required."]}`,
		},
		{
			name:       "duplicate name",
			body:       `{"name":"Resort"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"name":["Hotel type with this name already exists."]}`,
		},
		{
			name:       "malformed body",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := call(t, http.MethodPost, server.URL+"/v1/hotel-types/", tt.body)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, string(data))
			}
		})
	}

	t.Run("read-only fields are ignored", func(t *testing.T) {
		status, data := call(t, http.MethodPost, server.URL+"/v1/hotel-types/", `{"id":"forged","name":"Villa","hotel_count":9}`)
		require.Equal(t, http.StatusCreated, status)

		var created record.HotelType
		require.NoError(t, json.Unmarshal(data, &created))
		assert.NotEqual(t, "forged", created.ID)
		assert.Equal(t, "Villa", created.Name)
		assert.Zero(t, created.HotelCount)
	})
}

func TestResourceHandler_UpdateAndDelete(t *testing.T) {
	server, stores := newTestServer(t, RouterOptions{})
	ctx := context.Background()

	items, _, err := stores.Amenities.List(ctx, repository.ListParams{Limit: 1})
	require.NoError(t, err)
	amenity := items[0]
	itemURL := server.URL + "/v1/amenities/" + amenity.ID + "/"

	status, data := call(t, http.MethodPatch, itemURL, `{"description":"Served until 11"}`)
	require.Equal(t, http.StatusOK, status)
	var updated record.Amenity
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.Equal(t, amenity.Name, updated.Name, "absent fields keep their value")
	assert.Equal(t, "Served until 11", updated.Description)

	status, _ = call(t, http.MethodDelete, itemURL, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, data = call(t, http.MethodGet, itemURL, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"detail":"Not found."}`, string(data))

	status, _ = call(t, http.MethodDelete, itemURL, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestResourceHandler_Bookings(t *testing.T) {
	server, stores := newTestServer(t, RouterOptions{})
	ctx := context.Background()

	status, data := call(t, http.MethodPost, server.URL+"/v1/bookings/", `{"guest_name":"Ana"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.JSONEq(t, `{"detail":"Method \"POST\" not allowed."}`, string(data))

	items, _, err := stores.Bookings.List(ctx, repository.ListParams{Limit: 2})
	require.NoError(t, err)

	checkedIn := items[0]
	status, _ = call(t, http.MethodPatch, server.URL+"/v1/bookings/"+checkedIn.ID+"/", `{"status":"checked_in"}`)
	require.Equal(t, http.StatusOK, status)

	status, data = call(t, http.MethodDelete, server.URL+"/v1/bookings/"+checkedIn.ID+"/", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.JSONEq(t, `{"detail":"Checked-in bookings cannot be deleted."}`, string(data))

	status, data = call(t, http.MethodPatch, server.URL+"/v1/bookings/"+items[1].ID+"/", `{"status":"lost"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(data), `"status"`)

	status, _ = call(t, http.MethodDelete, server.URL+"/v1/bookings/"+items[1].ID+"/", "")
	assert.Equal(t, http.StatusNoContent, status)
}

func TestResourceHandler_HotelTypeInUse(t *testing.T) {
	server, stores := newTestServer(t, RouterOptions{})
	hotels, _, err := stores.Hotels.List(context.Background(), repository.ListParams{})
	require.NoError(t, err)
	require.NotEmpty(t, hotels)

	status, data := call(t, http.MethodDelete, server.URL+"/v1/hotel-types/"+hotels[0].HotelTypeID+"/", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(data), "cannot be deleted")
}

func TestAuthMiddleware(t *testing.T) {
	manager := NewJWTManager("test-secret", "hotel-devapi", time.Hour)
	server, _ := newTestServer(t, RouterOptions{Auth: manager})

	token, err := manager.GenerateToken("admin", "admin")
	require.NoError(t, err)
	foreign, err := NewJWTManager("other-secret", "hotel-devapi", time.Hour).GenerateToken("admin", "admin")
	require.NoError(t, err)

	tests := []struct {
		name       string
		headers    []string
		wantStatus int
	}{
		{name: "no header", wantStatus: http.StatusUnauthorized},
		{name: "not a bearer header", headers: []string{"Authorization", "Token " + token}, wantStatus: http.StatusUnauthorized},
		{name: "foreign signature", headers: []string{"Authorization", "Bearer " + foreign}, wantStatus: http.StatusUnauthorized},
		{name: "valid token", headers: []string{"Authorization", "Bearer " + token}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := call(t, http.MethodGet, server.URL+"/v1/hotels/", "", tt.headers...)
			assert.Equal(t, tt.wantStatus, status)
		})
	}

	status, _ := call(t, http.MethodGet, server.URL+"/health", "")
	assert.Equal(t, http.StatusOK, status, "health needs no token")
}

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret", "hotel-devapi", time.Hour)
	token, err := manager.GenerateToken("vendor-7", "vendor")
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "vendor-7", claims.Username)
	assert.Equal(t, "vendor", claims.Role)
	assert.Equal(t, "vendor-7", claims.Subject)

	expired, err := NewJWTManager("test-secret", "hotel-devapi", -time.Minute).GenerateToken("vendor-7", "vendor")
	require.NoError(t, err)
	_, err = manager.ValidateToken(expired)
	assert.Error(t, err)

	_, err = NewJWTManager("test-secret", "someone-else", time.Hour).ValidateToken(token)
	assert.Error(t, err)

	_, err = ExtractToken("")
	assert.Error(t, err)
	extracted, err := ExtractToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, token, extracted)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2, time.Minute, discardLogger())
	server, _ := newTestServer(t, RouterOptions{RateLimiter: limiter})

	for range 2 {
		status, _ := call(t, http.MethodGet, server.URL+"/health", "", "X-Forwarded-For", "10.0.0.1")
		require.Equal(t, http.StatusOK, status)
	}

	status, data := call(t, http.MethodGet, server.URL+"/health", "", "X-Forwarded-For", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.JSONEq(t, `{"detail":"Request was throttled."}`, string(data))

	status, _ = call(t, http.MethodGet, server.URL+"/health", "", "X-Forwarded-For", "10.0.0.2, 10.0.0.1")
	assert.Equal(t, http.StatusOK, status, "buckets are per client")
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	router := NewRouter(RouterOptions{
		Stores:    repository.NewMemoryStores(),
		Validator: adapter.NewStructValidator(),
		Logger:    logger,
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/hotels/", nil)
	req.Header.Set(requestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))
	assert.Contains(t, logs.String(), `"request_id":"req-42"`)
	assert.Contains(t, logs.String(), `"status_code":200`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/hotels/", nil))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

// The console's own client against the devapi: the wire contract both sides agree on.
func TestResourceClientAgainstDevAPI(t *testing.T) {
	server, _ := newTestServer(t, RouterOptions{})
	transport := adapter.NewRESTAPIAdapter(&adapter.APIConfig{
		Name:          "hotels",
		BaseURL:       server.URL + "/",
		Timeout:       2 * time.Second,
		RateLimit:     1000,
		BurstLimit:    100,
		RetryInterval: time.Millisecond,
		Logger:        discardLogger(),
	})
	client := adapter.NewResourceClient[record.HotelType, record.HotelTypeInput](transport, "hotel-types")
	ctx := context.Background()

	created, err := client.Create(ctx, record.HotelTypeInput{Name: "Aparthotel"})
	require.NoError(t, err)

	page, err := client.List(ctx, nil)
	require.NoError(t, err)
	count := 0
	for _, item := range page.Results {
		if item.ID == created.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)

	_, err = client.Create(ctx, record.HotelTypeInput{Name: "Aparthotel"})
	var rejection *apierr.ServerRejection
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, http.StatusBadRequest, rejection.StatusCode)
	assert.Equal(t, []string{"Hotel type with this name already exists."}, rejection.FieldErrors["name"])

	require.NoError(t, client.Delete(ctx, created.ID))
	_, err = client.Get(ctx, created.ID)
	require.True(t, errors.As(err, &rejection))
	assert.True(t, rejection.NotFound())
}
