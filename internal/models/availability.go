package models

// Availability classifies how a desk may be presented and interacted with.
type Availability int

const (
	// Hidden desks occupy a grid slot but are never rendered or clickable.
	Hidden Availability = iota
	// Informational desks open a read-only detail view.
	Informational
	// Free thesis desks have both half-day slots open.
	Free
	// Partial thesis desks have exactly one half-day slot open.
	Partial
)

// String returns the availability name for logs and errors.
func (a Availability) String() string {
	switch a {
	case Hidden:
		return "hidden"
	case Informational:
		return "informational"
	case Free:
		return "free"
	case Partial:
		return "partial"
	}
	return "unknown"
}

// Bookable reports whether a booking dialog makes sense for this class.
func (a Availability) Bookable() bool {
	return a == Free || a == Partial
}

// Classify maps a desk to its availability. Pure and total: unknown desk
// types degrade to Informational rather than pretending to be bookable.
func Classify(d *Desk) Availability {
	switch d.DeskType {
	case DeskTypeBlocked:
		return Hidden
	case DeskTypeStaff:
		return Informational
	case DeskTypeThesis:
		switch {
		case d.BookingAM == nil && d.BookingPM == nil:
			return Free
		case d.FullyBooked():
			return Informational
		default:
			return Partial
		}
	}
	return Informational
}
