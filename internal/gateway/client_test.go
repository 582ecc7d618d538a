package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labdesks/deskbook/internal/models"
)

func testSession() models.Session {
	return models.Session{
		Username:  "alice",
		Token:     "tok-123",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestFetchDesks(t *testing.T) {
	var gotAuth, gotDay string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/desks", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotDay = r.URL.Query().Get("day")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"row":0,"col":0,"desk_type":"tesisti","label":"D11","booking_am":"bob"},
			{"id":2,"row":0,"col":1,"desk_type":"bloccata","label":"D12"}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, false).WithSession(testSession())
	desks, err := client.FetchDesks(context.Background(), "2025-03-14")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "2025-03-14", gotDay)
	require.Len(t, desks, 2)
	assert.Equal(t, "D11", desks[0].Label)
	require.NotNil(t, desks[0].BookingAM)
	assert.Equal(t, "bob", *desks[0].BookingAM)
	assert.Equal(t, models.DeskTypeBlocked, desks[1].DeskType)
}

func TestFetchDesks_NoSessionOmitsBearerHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 0, false).FetchDesks(context.Background(), "2025-03-14")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestCreateBooking(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/bookings", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.BookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 1, req.DeskID)
		assert.True(t, req.AM)
		assert.True(t, req.PM)

		_ = json.NewEncoder(w).Encode([]models.Booking{
			{ID: 10, DeskID: 1, Day: req.Day, Slot: models.SlotAM, BookedBy: req.BookedBy},
			{ID: 11, DeskID: 1, Day: req.Day, Slot: models.SlotPM, BookedBy: req.BookedBy},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, false).WithSession(testSession())
	created, err := client.CreateBooking(context.Background(), models.BookingRequest{
		DeskID: 1, Day: "2025-03-14", BookedBy: "alice", AM: true, PM: true,
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, models.SlotAM, created[0].Slot)
	assert.Equal(t, models.SlotPM, created[1].Slot)
}

func TestCreateBooking_Conflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail":"Conflict: desk already booked for AM."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, false).WithSession(testSession())
	_, err := client.CreateBooking(context.Background(), models.BookingRequest{
		DeskID: 1, Day: "2025-03-14", BookedBy: "alice", AM: true,
	})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindConflict, apiErr.Kind)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Conflict: desk already booked for AM.", apiErr.Message)
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		code int
		want Kind
	}{
		{http.StatusBadRequest, KindBadRequest},
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusNotFound, KindNotFound},
		{http.StatusConflict, KindConflict},
		{http.StatusInternalServerError, KindUnknown},
		{http.StatusBadGateway, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer server.Close()

			_, err := NewClient(server.URL, 0, false).FetchDesks(context.Background(), "2025-03-14")
			require.Error(t, err)
			assert.Equal(t, tt.want, ErrKind(err))
		})
	}
}

func TestStatusError_FallsBackToStatusText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	err := NewClient(server.URL, 0, false).Health(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Not Found", apiErr.Message)
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	_, err := NewClient(server.URL, time.Second, false).FetchDesks(context.Background(), "2025-03-14")
	require.Error(t, err)
	assert.Equal(t, KindTransport, ErrKind(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.StatusCode)
}

func TestLogin(t *testing.T) {
	expires := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)

		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "alice", creds.Username)

		_ = json.NewEncoder(w).Encode(models.Session{
			Username: "alice", Token: "tok-abc", ExpiresAt: expires,
		})
	}))
	defer server.Close()

	session, err := NewClient(server.URL, 0, false).Login(context.Background(), models.Credentials{
		Username: "alice", Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, "tok-abc", session.Token)
	assert.True(t, expires.Equal(session.ExpiresAt))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid credentials"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 0, false).Login(context.Background(), models.Credentials{
		Username: "alice", Password: "wrong",
	})
	assert.Equal(t, KindUnauthorized, ErrKind(err))
}

func TestCancelBooking(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/bookings/42", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["booked_by"])

		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, false).WithSession(testSession())
	require.NoError(t, client.CancelBooking(context.Background(), 42, "alice"))
}

func TestWithSession_DoesNotMutateReceiver(t *testing.T) {
	base := NewClient("http://example.invalid", 0, false)
	authed := base.WithSession(testSession())

	assert.Nil(t, base.Session())
	require.NotNil(t, authed.Session())
	assert.Equal(t, "alice", authed.Session().Username)
}

func TestErrKind_NonAPIError(t *testing.T) {
	assert.Equal(t, KindUnknown, ErrKind(assert.AnError))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("Please enter a name.")
	assert.Equal(t, KindValidation, err.Kind)
	assert.Zero(t, err.StatusCode)
	assert.Equal(t, "validation: Please enter a name.", err.Error())
}
