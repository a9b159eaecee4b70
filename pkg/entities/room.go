package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomData struct {
	ID            string         `gorm:"primaryKey;type:varchar(36)"`
	HotelID       string         `gorm:"not null;type:varchar(36);index:idx_rooms_hotel_id"`
	RoomTypeID    string         `gorm:"not null;type:varchar(36)"`
	Number        string         `gorm:"not null;type:varchar(20)"`
	Floor         int32          `gorm:"type:smallint"`
	PricePerNight float64        `gorm:"type:decimal(10,2)"`
	Capacity      int32          `gorm:"type:smallint"`
	IsAvailable   bool           `gorm:"type:boolean;default:true"`
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (r *RoomData) BeforeCreate(_ *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	return
}

func (r *RoomData) BeforeUpdate(_ *gorm.DB) (err error) {
	r.UpdatedAt = time.Now()
	return
}

func (r *RoomData) TableName() string {
	return "rooms"
}

type RoomTypeData struct {
	ID           string         `gorm:"primaryKey;type:varchar(36)"`
	Name         string         `gorm:"not null;type:varchar(100);uniqueIndex:idx_room_types_name"`
	Description  string         `gorm:"type:varchar(500)"`
	MaxOccupancy int32          `gorm:"type:smallint"`
	CreatedAt    time.Time      `gorm:"not null"`
	UpdatedAt    time.Time      `gorm:"not null"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (r *RoomTypeData) BeforeCreate(_ *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	return
}

func (r *RoomTypeData) TableName() string {
	return "room_types"
}
