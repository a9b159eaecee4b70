package record

import "time"

type Facility struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

type FacilityInput struct {
	Name string `json:"name" validate:"required,max=100"`
	Icon string `json:"icon" validate:"required,facility_icon"`
}

func (f Facility) Identifier() string { return f.ID }

func (f Facility) Input() FacilityInput {
	return FacilityInput{Name: f.Name, Icon: f.Icon}
}

// IconTag resolves the free-form icon string to the closed variant.
func (f Facility) IconTag() Icon { return ParseIcon(f.Icon) }

type Amenity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type AmenityInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (a Amenity) Identifier() string { return a.ID }

func (a Amenity) Input() AmenityInput {
	return AmenityInput{Name: a.Name, Description: a.Description}
}
