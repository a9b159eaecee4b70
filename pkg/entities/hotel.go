package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type HotelData struct {
	ID string `gorm:"primaryKey;type:varchar(36)"`

	HotelTypeID string `gorm:"not null;type:varchar(36);index:idx_hotels_hotel_type_id"`

	Name        string         `gorm:"not null;type:varchar(255)"`
	Description string         `gorm:"type:text"`
	City        string         `gorm:"type:varchar(100)"`
	Country     string         `gorm:"type:varchar(2)"`
	StarRating  int32          `gorm:"type:smallint"`
	Rating      float64        `gorm:"type:decimal(3,2)"`
	Amenities   datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (h *HotelData) BeforeCreate(_ *gorm.DB) (err error) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	h.CreatedAt = time.Now()
	h.UpdatedAt = time.Now()
	return
}

func (h *HotelData) BeforeUpdate(_ *gorm.DB) (err error) {
	h.UpdatedAt = time.Now()
	return
}

func (h *HotelData) TableName() string {
	return "hotels"
}

func (h *HotelData) SetAmenities(amenityIDs []string) error {
	if len(amenityIDs) == 0 {
		h.Amenities = datatypes.JSON("[]")
		return nil
	}
	data, err := json.Marshal(amenityIDs)
	if err != nil {
		return err
	}
	h.Amenities = data
	return nil
}

func (h *HotelData) AmenityIDs() []string {
	var ids []string
	if len(h.Amenities) == 0 {
		return ids
	}
	_ = json.Unmarshal(h.Amenities, &ids)
	return ids
}

type HotelTypeData struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)"`
	Name        string         `gorm:"not null;type:varchar(100);uniqueIndex:idx_hotel_types_name"`
	Description string         `gorm:"type:varchar(500)"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (h *HotelTypeData) BeforeCreate(_ *gorm.DB) (err error) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	h.CreatedAt = time.Now()
	h.UpdatedAt = time.Now()
	return
}

func (h *HotelTypeData) TableName() string {
	return "hotel_types"
}
