package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
)

// Seed fills empty stores with a small catalog and a page-and-a-half of bookings.
func Seed(ctx context.Context, stores *Stores, bookings int) error {
	if _, total, err := stores.HotelTypes.List(ctx, ListParams{Limit: 1}); err != nil {
		return err
	} else if total > 0 {
		return nil
	}

	var typeIDs []string
	for _, input := range []record.HotelTypeInput{
		{Name: "Resort", Description: "Full service leisure property"},
		{Name: "Boutique", Description: "Small design hotel"},
		{Name: "Hostel", Description: "Shared rooms and common areas"},
	} {
		item, err := stores.HotelTypes.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("seed hotel type %s: %w", input.Name, err)
		}
		typeIDs = append(typeIDs, item.ID)
	}

	var amenityIDs []string
	for _, input := range []record.AmenityInput{
		{Name: "Breakfast", Description: "Buffet breakfast included"},
		{Name: "Airport shuttle"},
		{Name: "Late checkout"},
	} {
		item, err := stores.Amenities.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("seed amenity %s: %w", input.Name, err)
		}
		amenityIDs = append(amenityIDs, item.ID)
	}

	for _, input := range []record.FacilityInput{
		{Name: "Wi-Fi", Icon: string(record.IconWifi)},
		{Name: "Pool", Icon: string(record.IconPool)},
		{Name: "Parking", Icon: string(record.IconParking)},
		{Name: "Gym", Icon: string(record.IconGym)},
	} {
		if _, err := stores.Facilities.Create(ctx, input); err != nil {
			return fmt.Errorf("seed facility %s: %w", input.Name, err)
		}
	}

	roomType, err := stores.RoomTypes.Create(ctx, record.RoomTypeInput{Name: "Double", MaxOccupancy: 2})
	if err != nil {
		return fmt.Errorf("seed room type: %w", err)
	}

	hotel, err := stores.Hotels.Create(ctx, record.HotelInput{
		Name:        "Hotel Mirador",
		HotelTypeID: typeIDs[0],
		City:        "Valencia",
		Country:     "ES",
		StarRating:  4,
		AmenityIDs:  amenityIDs[:2],
	})
	if err != nil {
		return fmt.Errorf("seed hotel: %w", err)
	}

	room, err := stores.Rooms.Create(ctx, record.RoomInput{
		HotelID:       hotel.ID,
		RoomTypeID:    roomType.ID,
		Number:        "101",
		Floor:         1,
		PricePerNight: 120,
		Capacity:      2,
		IsAvailable:   true,
	})
	if err != nil {
		return fmt.Errorf("seed room: %w", err)
	}

	checkIn := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 1; i <= bookings; i++ {
		nights := 1 + i%4
		_, err := stores.Bookings.Insert(ctx, record.Booking{
			HotelID:    hotel.ID,
			RoomID:     room.ID,
			GuestName:  fmt.Sprintf("Guest %d", i),
			GuestEmail: fmt.Sprintf("guest%d@example.com", i),
			CheckIn:    checkIn.AddDate(0, 0, i),
			CheckOut:   checkIn.AddDate(0, 0, i+nights),
			Status:     record.BookingStatusConfirmed,
			TotalPrice: float64(nights) * room.PricePerNight,
		})
		if err != nil {
			return fmt.Errorf("seed booking %d: %w", i, err)
		}
	}
	return nil
}
