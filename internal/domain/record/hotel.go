package record

import "time"

type Hotel struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HotelTypeID string    `json:"hotel_type_id"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	StarRating  int       `json:"star_rating"`
	Rating      float64   `json:"rating"`
	RoomCount   int       `json:"room_count"`
	AmenityIDs  []string  `json:"amenity_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type HotelInput struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description" validate:"max=2000"`
	HotelTypeID string   `json:"hotel_type_id" validate:"required"`
	City        string   `json:"city" validate:"required,max=100"`
	Country     string   `json:"country" validate:"required,len=2,alpha"`
	StarRating  int      `json:"star_rating" validate:"min=1,max=5"`
	AmenityIDs  []string `json:"amenity_ids" validate:"dive,required"`
}

func (h Hotel) Identifier() string { return h.ID }

func (h Hotel) Input() HotelInput {
	return HotelInput{
		Name:        h.Name,
		Description: h.Description,
		HotelTypeID: h.HotelTypeID,
		City:        h.City,
		Country:     h.Country,
		StarRating:  h.StarRating,
		AmenityIDs:  append([]string(nil), h.AmenityIDs...),
	}
}

// HotelType is a lookup record. HotelCount is computed by the server.
type HotelType struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HotelCount  int       `json:"hotel_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type HotelTypeInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (h HotelType) Identifier() string { return h.ID }

func (h HotelType) Input() HotelTypeInput {
	return HotelTypeInput{Name: h.Name, Description: h.Description}
}
