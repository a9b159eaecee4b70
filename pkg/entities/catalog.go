package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FacilityData struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)"`
	Name      string         `gorm:"not null;type:varchar(100)"`
	Icon      string         `gorm:"not null;type:varchar(50)"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (f *FacilityData) BeforeCreate(_ *gorm.DB) (err error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	f.CreatedAt = time.Now()
	f.UpdatedAt = time.Now()
	return
}

func (f *FacilityData) TableName() string {
	return "facilities"
}

type AmenityData struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)"`
	Name        string         `gorm:"not null;type:varchar(100)"`
	Description string         `gorm:"type:varchar(500)"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (a *AmenityData) BeforeCreate(_ *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	return
}

func (a *AmenityData) TableName() string {
	return "amenities"
}
