package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingData struct {
	ID         string         `gorm:"primaryKey;type:varchar(36)"`
	Reference  string         `gorm:"not null;type:varchar(20);uniqueIndex:idx_bookings_reference"`
	HotelID    string         `gorm:"not null;type:varchar(36);index:idx_bookings_hotel_id"`
	RoomID     string         `gorm:"not null;type:varchar(36)"`
	GuestName  string         `gorm:"not null;type:varchar(255)"`
	GuestEmail string         `gorm:"type:varchar(255)"`
	CheckIn    time.Time      `gorm:"not null"`
	CheckOut   time.Time      `gorm:"not null"`
	Status     string         `gorm:"type:varchar(20);default:pending;index:idx_bookings_status"`
	Notes      string         `gorm:"type:text"`
	TotalPrice float64        `gorm:"type:decimal(10,2)"`
	CreatedAt  time.Time      `gorm:"not null"`
	UpdatedAt  time.Time      `gorm:"not null"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (b *BookingData) BeforeCreate(_ *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Reference == "" {
		b.Reference = fmt.Sprintf("BK-%s", strings.ToUpper(b.ID[:8]))
	}
	if b.Status == "" {
		b.Status = "pending"
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()
	return
}

func (b *BookingData) BeforeUpdate(_ *gorm.DB) (err error) {
	b.UpdatedAt = time.Now()
	return
}

func (b *BookingData) TableName() string {
	return "bookings"
}

// Nights is the number of nights between check-in and check-out.
func (b *BookingData) Nights() int {
	nights := int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
	if nights < 0 {
		return 0
	}
	return nights
}

// All lists every model the devapi migrates.
func All() []any {
	return []any{
		&HotelTypeData{},
		&HotelData{},
		&RoomTypeData{},
		&RoomData{},
		&FacilityData{},
		&AmenityData{},
		&BookingData{},
	}
}
