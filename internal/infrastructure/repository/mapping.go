package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
	"github.com/victoragudo/hotel-management-system/console/pkg/entities"
)

// Stores is the full set of collections the devapi serves.
type Stores struct {
	Hotels     Store[record.Hotel, record.HotelInput]
	HotelTypes Store[record.HotelType, record.HotelTypeInput]
	Rooms      Store[record.Room, record.RoomInput]
	RoomTypes  Store[record.RoomType, record.RoomTypeInput]
	Facilities Store[record.Facility, record.FacilityInput]
	Amenities  Store[record.Amenity, record.AmenityInput]
	Bookings   Store[record.Booking, record.BookingInput]
}

func NewMemoryStores() *Stores {
	return &Stores{
		Hotels:     NewMemoryStore(HotelMapping),
		HotelTypes: NewMemoryStore(HotelTypeMapping),
		Rooms:      NewMemoryStore(RoomMapping),
		RoomTypes:  NewMemoryStore(RoomTypeMapping),
		Facilities: NewMemoryStore(FacilityMapping),
		Amenities:  NewMemoryStore(AmenityMapping),
		Bookings:   NewMemoryStore(BookingMapping),
	}
}

func NewGormStores(db *gorm.DB) *Stores {
	return &Stores{
		Hotels:     NewGormStore(db, HotelMapping),
		HotelTypes: NewGormStore(db, HotelTypeMapping),
		Rooms:      NewGormStore(db, RoomMapping),
		RoomTypes:  NewGormStore(db, RoomTypeMapping),
		Facilities: NewGormStore(db, FacilityMapping),
		Amenities:  NewGormStore(db, AmenityMapping),
		Bookings:   NewGormStore(db, BookingMapping),
	}
}

var HotelMapping = Mapping[entities.HotelData, record.Hotel, record.HotelInput]{
	ToRecord: func(row *entities.HotelData) record.Hotel {
		return record.Hotel{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			HotelTypeID: row.HotelTypeID,
			City:        row.City,
			Country:     row.Country,
			StarRating:  int(row.StarRating),
			Rating:      row.Rating,
			AmenityIDs:  row.AmenityIDs(),
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		}
	},
	FromRecord: func(item record.Hotel) *entities.HotelData {
		row := &entities.HotelData{
			ID:          item.ID,
			HotelTypeID: item.HotelTypeID,
			Name:        item.Name,
			Description: item.Description,
			City:        item.City,
			Country:     item.Country,
			StarRating:  int32(item.StarRating),
			Rating:      item.Rating,
		}
		_ = row.SetAmenities(item.AmenityIDs)
		return row
	},
	Apply: func(row *entities.HotelData, input record.HotelInput) {
		row.Name = input.Name
		row.Description = input.Description
		row.HotelTypeID = input.HotelTypeID
		row.City = input.City
		row.Country = strings.ToUpper(input.Country)
		row.StarRating = int32(input.StarRating)
		_ = row.SetAmenities(input.AmenityIDs)
	},
	ID: func(row *entities.HotelData) string { return row.ID },
}

var HotelTypeMapping = Mapping[entities.HotelTypeData, record.HotelType, record.HotelTypeInput]{
	ToRecord: func(row *entities.HotelTypeData) record.HotelType {
		return record.HotelType{ID: row.ID, Name: row.Name, Description: row.Description, CreatedAt: row.CreatedAt}
	},
	FromRecord: func(item record.HotelType) *entities.HotelTypeData {
		return &entities.HotelTypeData{ID: item.ID, Name: item.Name, Description: item.Description}
	},
	Apply: func(row *entities.HotelTypeData, input record.HotelTypeInput) {
		row.Name = input.Name
		row.Description = input.Description
	},
	ID:     func(row *entities.HotelTypeData) string { return row.ID },
	Unique: func(row *entities.HotelTypeData) string { return strings.ToLower(row.Name) },
}

var RoomMapping = Mapping[entities.RoomData, record.Room, record.RoomInput]{
	ToRecord: func(row *entities.RoomData) record.Room {
		return record.Room{
			ID:            row.ID,
			HotelID:       row.HotelID,
			RoomTypeID:    row.RoomTypeID,
			Number:        row.Number,
			Floor:         int(row.Floor),
			PricePerNight: row.PricePerNight,
			Capacity:      int(row.Capacity),
			IsAvailable:   row.IsAvailable,
			CreatedAt:     row.CreatedAt,
		}
	},
	FromRecord: func(item record.Room) *entities.RoomData {
		return &entities.RoomData{
			ID:            item.ID,
			HotelID:       item.HotelID,
			RoomTypeID:    item.RoomTypeID,
			Number:        item.Number,
			Floor:         int32(item.Floor),
			PricePerNight: item.PricePerNight,
			Capacity:      int32(item.Capacity),
			IsAvailable:   item.IsAvailable,
		}
	},
	Apply: func(row *entities.RoomData, input record.RoomInput) {
		row.HotelID = input.HotelID
		row.RoomTypeID = input.RoomTypeID
		row.Number = input.Number
		row.Floor = int32(input.Floor)
		row.PricePerNight = input.PricePerNight
		row.Capacity = int32(input.Capacity)
		row.IsAvailable = input.IsAvailable
	},
	ID: func(row *entities.RoomData) string { return row.ID },
	Unique: func(row *entities.RoomData) string {
		return row.HotelID + "/" + row.Number
	},
}

var RoomTypeMapping = Mapping[entities.RoomTypeData, record.RoomType, record.RoomTypeInput]{
	ToRecord: func(row *entities.RoomTypeData) record.RoomType {
		return record.RoomType{
			ID:           row.ID,
			Name:         row.Name,
			Description:  row.Description,
			MaxOccupancy: int(row.MaxOccupancy),
			CreatedAt:    row.CreatedAt,
		}
	},
	FromRecord: func(item record.RoomType) *entities.RoomTypeData {
		return &entities.RoomTypeData{ID: item.ID, Name: item.Name, Description: item.Description, MaxOccupancy: int32(item.MaxOccupancy)}
	},
	Apply: func(row *entities.RoomTypeData, input record.RoomTypeInput) {
		row.Name = input.Name
		row.Description = input.Description
		row.MaxOccupancy = int32(input.MaxOccupancy)
	},
	ID:     func(row *entities.RoomTypeData) string { return row.ID },
	Unique: func(row *entities.RoomTypeData) string { return strings.ToLower(row.Name) },
}

var FacilityMapping = Mapping[entities.FacilityData, record.Facility, record.FacilityInput]{
	ToRecord: func(row *entities.FacilityData) record.Facility {
		return record.Facility{ID: row.ID, Name: row.Name, Icon: row.Icon, CreatedAt: row.CreatedAt}
	},
	FromRecord: func(item record.Facility) *entities.FacilityData {
		return &entities.FacilityData{ID: item.ID, Name: item.Name, Icon: item.Icon}
	},
	Apply: func(row *entities.FacilityData, input record.FacilityInput) {
		row.Name = input.Name
		row.Icon = input.Icon
	},
	ID: func(row *entities.FacilityData) string { return row.ID },
}

var AmenityMapping = Mapping[entities.AmenityData, record.Amenity, record.AmenityInput]{
	ToRecord: func(row *entities.AmenityData) record.Amenity {
		return record.Amenity{ID: row.ID, Name: row.Name, Description: row.Description, CreatedAt: row.CreatedAt}
	},
	FromRecord: func(item record.Amenity) *entities.AmenityData {
		return &entities.AmenityData{ID: item.ID, Name: item.Name, Description: item.Description}
	},
	Apply: func(row *entities.AmenityData, input record.AmenityInput) {
		row.Name = input.Name
		row.Description = input.Description
	},
	ID: func(row *entities.AmenityData) string { return row.ID },
}

var BookingMapping = Mapping[entities.BookingData, record.Booking, record.BookingInput]{
	ToRecord: func(row *entities.BookingData) record.Booking {
		return record.Booking{
			ID:         row.ID,
			Reference:  row.Reference,
			HotelID:    row.HotelID,
			RoomID:     row.RoomID,
			GuestName:  row.GuestName,
			GuestEmail: row.GuestEmail,
			CheckIn:    row.CheckIn,
			CheckOut:   row.CheckOut,
			Status:     record.BookingStatus(row.Status),
			Notes:      row.Notes,
			Nights:     row.Nights(),
			TotalPrice: row.TotalPrice,
			CreatedAt:  row.CreatedAt,
		}
	},
	FromRecord: func(item record.Booking) *entities.BookingData {
		return &entities.BookingData{
			ID:         item.ID,
			Reference:  item.Reference,
			HotelID:    item.HotelID,
			RoomID:     item.RoomID,
			GuestName:  item.GuestName,
			GuestEmail: item.GuestEmail,
			CheckIn:    item.CheckIn,
			CheckOut:   item.CheckOut,
			Status:     string(item.Status),
			Notes:      item.Notes,
			TotalPrice: item.TotalPrice,
		}
	},
	Apply: func(row *entities.BookingData, input record.BookingInput) {
		row.Status = string(input.Status)
		row.GuestName = input.GuestName
		row.Notes = input.Notes
	},
	ID: func(row *entities.BookingData) string { return row.ID },
}
