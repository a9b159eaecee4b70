package record

import "time"

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusCheckedOut BookingStatus = "checked_out"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// Booking is created by guests on the public site; consoles only list, patch and delete them.
type Booking struct {
	ID         string        `json:"id"`
	Reference  string        `json:"reference"`
	HotelID    string        `json:"hotel_id"`
	RoomID     string        `json:"room_id"`
	GuestName  string        `json:"guest_name"`
	GuestEmail string        `json:"guest_email"`
	CheckIn    time.Time     `json:"check_in"`
	CheckOut   time.Time     `json:"check_out"`
	Status     BookingStatus `json:"status"`
	Notes      string        `json:"notes"`
	Nights     int           `json:"nights"`
	TotalPrice float64       `json:"total_price"`
	CreatedAt  time.Time     `json:"created_at"`
}

type BookingInput struct {
	Status    BookingStatus `json:"status" validate:"required,oneof=pending confirmed checked_in checked_out cancelled"`
	GuestName string        `json:"guest_name" validate:"required,max=255"`
	Notes     string        `json:"notes" validate:"max=1000"`
}

func (b Booking) Identifier() string { return b.ID }

func (b Booking) Input() BookingInput {
	return BookingInput{Status: b.Status, GuestName: b.GuestName, Notes: b.Notes}
}
