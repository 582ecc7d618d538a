package models

import "time"

// Booking slots. The service stores one booking row per half day.
const (
	SlotAM = "AM"
	SlotPM = "PM"
)

// DayFormat is the wire format for calendar days.
const DayFormat = "2006-01-02"

// Booking is one half-day reservation as returned by the service.
type Booking struct {
	ID       int    `json:"id"`
	DeskID   int    `json:"desk_id"`
	Day      string `json:"day"`
	Slot     string `json:"slot"`
	BookedBy string `json:"booked_by"`
}

// BookingRequest is the payload for POST /bookings. The service creates one
// Booking per enabled slot and rejects the request on conflict.
type BookingRequest struct {
	DeskID   int    `json:"desk_id"`
	Day      string `json:"day"`
	BookedBy string `json:"booked_by"`
	AM       bool   `json:"am"`
	PM       bool   `json:"pm"`
}

// Credentials are the inputs to the auth endpoints.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the result of a successful login or signup. The token is an
// opaque bearer token; ExpiresAt comes from the service.
type Session struct {
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session token is past its expiry at the given
// instant. Sessions with a zero expiry never expire client-side.
func (s *Session) Expired(at time.Time) bool {
	return !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(at)
}
