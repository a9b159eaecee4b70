package record

import "time"

type Room struct {
	ID            string    `json:"id"`
	HotelID       string    `json:"hotel_id"`
	RoomTypeID    string    `json:"room_type_id"`
	Number        string    `json:"number"`
	Floor         int       `json:"floor"`
	PricePerNight float64   `json:"price_per_night"`
	Capacity      int       `json:"capacity"`
	IsAvailable   bool      `json:"is_available"`
	BookingCount  int       `json:"booking_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type RoomInput struct {
	HotelID       string  `json:"hotel_id" validate:"required"`
	RoomTypeID    string  `json:"room_type_id" validate:"required"`
	Number        string  `json:"number" validate:"required,max=20"`
	Floor         int     `json:"floor" validate:"min=0,max=200"`
	PricePerNight float64 `json:"price_per_night" validate:"gt=0"`
	Capacity      int     `json:"capacity" validate:"min=1,max=20"`
	IsAvailable   bool    `json:"is_available"`
}

func (r Room) Identifier() string { return r.ID }

func (r Room) Input() RoomInput {
	return RoomInput{
		HotelID:       r.HotelID,
		RoomTypeID:    r.RoomTypeID,
		Number:        r.Number,
		Floor:         r.Floor,
		PricePerNight: r.PricePerNight,
		Capacity:      r.Capacity,
		IsAvailable:   r.IsAvailable,
	}
}

type RoomType struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	MaxOccupancy int       `json:"max_occupancy"`
	RoomCount    int       `json:"room_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type RoomTypeInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Description  string `json:"description" validate:"max=500"`
	MaxOccupancy int    `json:"max_occupancy" validate:"min=1,max=20"`
}

func (r RoomType) Identifier() string { return r.ID }

func (r RoomType) Input() RoomTypeInput {
	return RoomTypeInput{Name: r.Name, Description: r.Description, MaxOccupancy: r.MaxOccupancy}
}
