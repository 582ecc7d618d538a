package store

import (
	"time"

	"github.com/labdesks/deskbook/internal/models"
)

// Store defines the interface for the local desk-grid snapshot cache.
// A snapshot is the last successfully fetched grid for a day; it is served
// as stale fallback when the service is unreachable.
type Store interface {
	SaveGrid(day string, desks []models.Desk) error
	// GetGrid returns the cached grid for a day along with its fetch time.
	// A missing day returns (nil, zero time, nil).
	GetGrid(day string) ([]models.Desk, time.Time, error)
	// PruneBefore drops snapshots for days older than the given day and
	// returns how many were removed.
	PruneBefore(day string) (int, error)

	Close() error
}
