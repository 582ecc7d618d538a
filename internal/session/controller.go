package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/labdesks/deskbook/internal/gateway"
	"github.com/labdesks/deskbook/internal/logger"
	"github.com/labdesks/deskbook/internal/models"
	"github.com/labdesks/deskbook/internal/store"
)

// State is the controller's snapshot handed to readers. Slices are copies;
// the UI never sees controller-owned memory.
type State struct {
	Day          string
	Loading      bool
	Desks        []models.Desk
	ErrorMessage string
	SnackMessage string
	Mine         []models.Booking
	// Stale marks a grid served from the snapshot cache after a transport
	// failure.
	Stale bool
}

// Controller owns the session state and mediates refresh and booking
// operations against the gateway. Overlapping operations are permitted; the
// last one to complete wins the state snapshot. State is always re-derived
// from the service on refresh, so no merge logic exists.
type Controller struct {
	Logger  *logger.Logger
	Gateway gateway.DeskGateway
	Cache   store.Store // optional; nil disables snapshot caching

	mu    sync.Mutex
	state State
}

// NewController creates a controller for the given day. An empty day selects
// today.
func NewController(log *logger.Logger, gw gateway.DeskGateway, cache store.Store, day string) *Controller {
	if log == nil {
		log = logger.New()
	}
	if day == "" {
		day = time.Now().Format(models.DayFormat)
	}
	return &Controller{
		Logger:  log,
		Gateway: gw,
		Cache:   cache,
		state:   State{Day: day},
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.state
	snap.Desks = append([]models.Desk(nil), c.state.Desks...)
	snap.Mine = append([]models.Booking(nil), c.state.Mine...)
	return snap
}

// ConsumeSnack returns the pending one-shot message and clears it.
func (c *Controller) ConsumeSnack() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := c.state.SnackMessage
	c.state.SnackMessage = ""
	return msg
}

// SetDay replaces the selected day, clears any prior error and performs a
// full refresh.
func (c *Controller) SetDay(ctx context.Context, day string) error {
	c.mu.Lock()
	c.state.Day = day
	c.state.ErrorMessage = ""
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// NextDay advances the selected day by one and refreshes.
func (c *Controller) NextDay(ctx context.Context) error {
	return c.shiftDay(ctx, 1)
}

// PrevDay moves the selected day back by one and refreshes.
func (c *Controller) PrevDay(ctx context.Context) error {
	return c.shiftDay(ctx, -1)
}

func (c *Controller) shiftDay(ctx context.Context, days int) error {
	c.mu.Lock()
	day := c.state.Day
	c.mu.Unlock()

	t, err := time.Parse(models.DayFormat, day)
	if err != nil {
		return gateway.NewValidationError("invalid day: " + day)
	}
	return c.SetDay(ctx, t.AddDate(0, 0, days).Format(models.DayFormat))
}

// Refresh re-fetches the desk grid for the selected day. The loading flag is
// cleared on every path. On failure the previous desk list is retained; a
// transport failure additionally falls back to the snapshot cache when one
// is configured.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	day := c.state.Day
	c.state.Loading = true
	c.state.ErrorMessage = ""
	c.mu.Unlock()

	c.Logger.Info("Refreshing desk grid", logger.Action("refresh"), logger.Day(day))

	desks, err := c.Gateway.FetchDesks(ctx, day)
	if err != nil {
		c.Logger.Error("Failed to fetch desks", logger.Day(day), logger.Kind(gateway.ErrKind(err).String()), logger.Error(err))
		c.failRefresh(day, err)
		return err
	}

	c.mu.Lock()
	c.state.Loading = false
	c.state.Desks = desks
	c.state.Stale = false
	c.mu.Unlock()

	c.Logger.Info("Desk grid loaded", logger.Action("refresh"), logger.Day(day), logger.Count(len(desks)))
	c.cacheGrid(day, desks)
	return nil
}

func (c *Controller) failRefresh(day string, err error) {
	var cached []models.Desk
	if gateway.ErrKind(err) == gateway.KindTransport && c.Cache != nil {
		grid, fetchedAt, cacheErr := c.Cache.GetGrid(day)
		if cacheErr != nil {
			c.Logger.Warn("Snapshot cache read failed", logger.Day(day), logger.Error(cacheErr))
		} else if grid != nil {
			c.Logger.Info("Serving cached desk grid",
				logger.Action("refresh"),
				logger.Day(day),
				logger.Reason("transport_failure"),
				logger.F("FETCHED_AT", fetchedAt.Format(time.RFC3339)))
			cached = grid
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false
	c.state.ErrorMessage = messageFor(err)
	if cached != nil {
		c.state.Desks = cached
		c.state.Stale = true
	}
}

func (c *Controller) cacheGrid(day string, desks []models.Desk) {
	if c.Cache == nil {
		return
	}
	if err := c.Cache.SaveGrid(day, desks); err != nil {
		c.Logger.Warn("Snapshot cache write failed", logger.Day(day), logger.Error(err))
	}
}

// Book validates the input locally, submits the booking and refreshes once
// on success so the displayed availability reflects the server's view. The
// controller never mutates desk state optimistically.
func (c *Controller) Book(ctx context.Context, deskID int, name string, am, pm bool) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return c.rejectBooking("Please enter a name.")
	}
	if !am && !pm {
		return c.rejectBooking("Select AM and/or PM.")
	}

	c.mu.Lock()
	day := c.state.Day
	c.state.Loading = true
	c.mu.Unlock()

	c.Logger.Info("Submitting booking",
		logger.Action("book"),
		logger.Desk(deskID),
		logger.Day(day),
		logger.User(trimmed),
		logger.F("AM", am),
		logger.F("PM", pm))

	created, err := c.Gateway.CreateBooking(ctx, models.BookingRequest{
		DeskID:   deskID,
		Day:      day,
		BookedBy: trimmed,
		AM:       am,
		PM:       pm,
	})
	if err != nil {
		c.Logger.Error("Booking failed",
			logger.Desk(deskID),
			logger.Day(day),
			logger.Kind(gateway.ErrKind(err).String()),
			logger.Error(err))
		c.mu.Lock()
		c.state.Loading = false
		c.state.SnackMessage = messageFor(err)
		c.mu.Unlock()
		return err
	}

	c.Logger.Info("Booking created",
		logger.Action("book"),
		logger.Desk(deskID),
		logger.Day(day),
		logger.Count(len(created)))

	c.mu.Lock()
	c.state.Loading = false
	c.state.SnackMessage = "Booked successfully."
	c.mu.Unlock()

	return c.Refresh(ctx)
}

func (c *Controller) rejectBooking(msg string) error {
	c.mu.Lock()
	c.state.SnackMessage = msg
	c.mu.Unlock()
	return gateway.NewValidationError(msg)
}

// LoadMine fetches the day's bookings and keeps only those booked by the
// given user (exact match after trimming the input). A blank username is a
// no-op.
func (c *Controller) LoadMine(ctx context.Context, username, day string) error {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return nil
	}

	bookings, err := c.Gateway.ListBookings(ctx, day)
	if err != nil {
		c.Logger.Error("Failed to fetch bookings", logger.Day(day), logger.Error(err))
		c.mu.Lock()
		c.state.ErrorMessage = messageFor(err)
		c.mu.Unlock()
		return err
	}

	var mine []models.Booking
	for _, b := range bookings {
		if b.BookedBy == trimmed {
			mine = append(mine, b)
		}
	}

	c.Logger.Info("User bookings loaded", logger.User(trimmed), logger.Day(day), logger.Count(len(mine)))

	c.mu.Lock()
	c.state.Mine = mine
	c.mu.Unlock()
	return nil
}

// Cancel deletes a booking owned by the user and refreshes once.
func (c *Controller) Cancel(ctx context.Context, bookingID int, username string) error {
	if err := c.Gateway.CancelBooking(ctx, bookingID, username); err != nil {
		c.Logger.Error("Cancel failed",
			logger.F("BOOKING", bookingID),
			logger.Kind(gateway.ErrKind(err).String()),
			logger.Error(err))
		c.mu.Lock()
		c.state.SnackMessage = messageFor(err)
		c.mu.Unlock()
		return err
	}

	c.Logger.Info("Booking cancelled", logger.Action("cancel"), logger.F("BOOKING", bookingID), logger.User(username))

	c.mu.Lock()
	c.state.SnackMessage = "Booking cancelled."
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// messageFor maps a gateway failure to the user-facing message.
func messageFor(err error) string {
	switch gateway.ErrKind(err) {
	case gateway.KindConflict:
		return "Conflict: desk already booked or you already have a booking for this slot."
	case gateway.KindBadRequest:
		return "Invalid request."
	case gateway.KindUnauthorized:
		return "Session expired. Please log in again."
	case gateway.KindNotFound:
		return "Not found."
	case gateway.KindTransport:
		return "Network error."
	case gateway.KindValidation:
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) {
			return apiErr.Message
		}
	}
	return err.Error()
}
