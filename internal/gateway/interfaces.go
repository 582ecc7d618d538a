package gateway

import (
	"context"

	"github.com/labdesks/deskbook/internal/models"
)

// DeskGateway abstracts the booking service operations consumed by the
// session controller, for testability.
type DeskGateway interface {
	FetchDesks(ctx context.Context, day string) ([]models.Desk, error)
	ListBookings(ctx context.Context, day string) ([]models.Booking, error)
	CreateBooking(ctx context.Context, req models.BookingRequest) ([]models.Booking, error)
	CancelBooking(ctx context.Context, bookingID int, bookedBy string) error
}

// Authenticator abstracts the auth endpoints, for testability.
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (models.Session, error)
	Signup(ctx context.Context, creds models.Credentials) (models.Session, error)
	Logout(ctx context.Context) error
}
