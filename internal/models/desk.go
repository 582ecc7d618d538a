package models

// Desk type tags as reported by the booking service. The Italian literals
// are part of the wire contract.
const (
	DeskTypeThesis  = "tesisti"
	DeskTypeStaff   = "staff"
	DeskTypeBlocked = "bloccata"
)

// Desk is one unit of the lab grid as returned by GET /desks. Staff fields
// and thesis fields are mutually exclusive; absent slots are nil.
type Desk struct {
	ID       int    `json:"id"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	DeskType string `json:"desk_type"`
	Label    string `json:"label"`

	// Staff desks only.
	HolderName       *string `json:"holder_name,omitempty"`
	CurrentOccupant  *string `json:"current_occupant,omitempty"`
	HolderAway       bool    `json:"holder_away,omitempty"`
	AwayStart        *string `json:"away_start,omitempty"`
	AwayEnd          *string `json:"away_end,omitempty"`
	AwayTempOccupant *string `json:"away_temp_occupant,omitempty"`

	// Thesis desks only: booker names for the requested day.
	BookingAM *string `json:"booking_am,omitempty"`
	BookingPM *string `json:"booking_pm,omitempty"`
}

// FullyBooked reports whether both half-day slots are taken.
func (d *Desk) FullyBooked() bool {
	return d.BookingAM != nil && d.BookingPM != nil
}

// SlotFree reports whether the given slot is unbooked on this desk.
func (d *Desk) SlotFree(slot string) bool {
	switch slot {
	case SlotAM:
		return d.BookingAM == nil
	case SlotPM:
		return d.BookingPM == nil
	}
	return false
}

// Occupant resolves who sits at a staff desk on the requested day:
// the temporary occupant while the holder is away, otherwise the holder.
// Empty string when nothing is known.
func (d *Desk) Occupant() string {
	if d.CurrentOccupant != nil {
		return *d.CurrentOccupant
	}
	if d.HolderName != nil {
		return *d.HolderName
	}
	return ""
}
