package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labdesks/deskbook/internal/models"
)

const defaultTimeout = 15 * time.Second

// Client talks JSON over HTTP to the lab desk booking service. The zero
// value is not usable; construct with NewClient. A Client without a session
// can only call the auth and health endpoints; WithSession derives the
// per-session gateway used for everything else.
type Client struct {
	baseURL string
	client  *http.Client
	session *models.Session
}

// NewClient creates an unauthenticated API client. The timeout bounds every
// request including the cold-backend wake-up case; zero selects the default.
func NewClient(baseURL string, timeout time.Duration, insecure bool) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := http.DefaultTransport
	if insecure {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// WithSession returns a copy of the client that attaches the session's
// bearer token to every request. The receiver is not modified.
func (c *Client) WithSession(session models.Session) *Client {
	clone := *c
	clone.session = &session
	return &clone
}

// Session returns the session bound to this client, or nil.
func (c *Client) Session() *models.Session {
	return c.session
}

// Login exchanges credentials for a bearer token session.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	var session models.Session
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &session)
	return session, err
}

// Signup registers a new account and returns its first session.
func (c *Client) Signup(ctx context.Context, creds models.Credentials) (models.Session, error) {
	var session models.Session
	err := c.do(ctx, http.MethodPost, "/auth/signup", nil, creds, &session)
	return session, err
}

// Logout revokes the current session token on the service.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// Health checks service reachability.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// FetchDesks returns the full desk grid with per-day status. Order is
// row-major and position-significant for grid layout.
func (c *Client) FetchDesks(ctx context.Context, day string) ([]models.Desk, error) {
	var desks []models.Desk
	query := url.Values{"day": {day}}
	if err := c.do(ctx, http.MethodGet, "/desks", query, nil, &desks); err != nil {
		return nil, err
	}
	return desks, nil
}

// ListBookings returns every booking for the given day.
func (c *Client) ListBookings(ctx context.Context, day string) ([]models.Booking, error) {
	var bookings []models.Booking
	query := url.Values{"day": {day}}
	if err := c.do(ctx, http.MethodGet, "/bookings", query, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBooking submits a booking request. The service creates one booking
// per enabled slot and answers 409 when any slot is already taken.
func (c *Client) CreateBooking(ctx context.Context, req models.BookingRequest) ([]models.Booking, error) {
	var created []models.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", nil, req, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// CancelBooking deletes a booking owned by the requesting user.
func (c *Client) CancelBooking(ctx context.Context, bookingID int, bookedBy string) error {
	path := fmt.Sprintf("/bookings/%d", bookingID)
	body := map[string]string{"booked_by": bookedBy}
	return c.do(ctx, http.MethodDelete, path, nil, body, nil)
}

// errorBody matches the service's error payload shape.
type errorBody struct {
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return &APIError{Kind: KindUnknown, Message: fmt.Sprintf("failed to marshal payload: %v", err)}
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return &APIError{Kind: KindUnknown, Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil && c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return newTransportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var detail errorBody
		_ = json.NewDecoder(resp.Body).Decode(&detail)
		return newStatusError(resp.StatusCode, detail.Detail)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Kind: KindUnknown, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return nil
}
