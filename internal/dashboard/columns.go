package dashboard

import (
	"fmt"
	"strconv"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/record"
)

var HotelColumns = Columns[record.Hotel]{
	Headers: []Column{{"Name", 28}, {"City", 16}, {"Country", 8}, {"Stars", 6}, {"Rating", 6}},
	Cells: func(h record.Hotel) []string {
		return []string{h.Name, h.City, h.Country, strconv.Itoa(h.StarRating), fmt.Sprintf("%.1f", h.Rating)}
	},
}

var HotelTypeColumns = Columns[record.HotelType]{
	Headers: []Column{{"Name", 20}, {"Hotels", 7}, {"Description", 36}},
	Cells: func(t record.HotelType) []string {
		return []string{t.Name, strconv.Itoa(t.HotelCount), t.Description}
	},
}

var RoomColumns = Columns[record.Room]{
	Headers: []Column{{"Number", 8}, {"Floor", 6}, {"Capacity", 9}, {"Price", 10}, {"Available", 10}},
	Cells: func(r record.Room) []string {
		available := "no"
		if r.IsAvailable {
			available = "yes"
		}
		return []string{r.Number, strconv.Itoa(r.Floor), strconv.Itoa(r.Capacity), fmt.Sprintf("%.2f", r.PricePerNight), available}
	},
}

var RoomTypeColumns = Columns[record.RoomType]{
	Headers: []Column{{"Name", 20}, {"Max occupancy", 14}, {"Description", 30}},
	Cells: func(t record.RoomType) []string {
		return []string{t.Name, strconv.Itoa(t.MaxOccupancy), t.Description}
	},
}

var FacilityColumns = Columns[record.Facility]{
	Headers: []Column{{"", 2}, {"Name", 24}, {"Icon", 18}},
	Cells: func(f record.Facility) []string {
		icon := f.IconTag()
		return []string{icon.Glyph(), f.Name, string(icon)}
	},
}

var AmenityColumns = Columns[record.Amenity]{
	Headers: []Column{{"Name", 22}, {"Description", 40}},
	Cells: func(a record.Amenity) []string {
		return []string{a.Name, a.Description}
	},
}

var BookingColumns = Columns[record.Booking]{
	Headers: []Column{{"Reference", 12}, {"Guest", 20}, {"Check-in", 11}, {"Nights", 7}, {"Status", 12}},
	Cells: func(b record.Booking) []string {
		checkIn := ""
		if !b.CheckIn.IsZero() {
			checkIn = b.CheckIn.Format("2006-01-02")
		}
		return []string{b.Reference, b.GuestName, checkIn, strconv.Itoa(b.Nights), string(b.Status)}
	},
}
