package usecase

import (
	"time"

	"github.com/victoragudo/hotel-management-system/console/internal/application/pagination"
	"github.com/victoragudo/hotel-management-system/console/internal/querycache"
)

const (
	volatileStaleTime = 5 * time.Minute
	catalogStaleTime  = 10 * time.Minute
	lookupStaleTime   = 15 * time.Minute
)

// Resource describes one REST collection as the consoles see it: its cache keys, its list route and
// what may be done with it.
type Resource struct {
	Name      string
	Label     string
	DetailKey string
	ListPath  string
	StaleTime time.Duration
	Lookup    bool
	// Cursor lists follow the server's next/previous links instead of computing offsets.
	Cursor    bool
	Creatable bool
	Editable  bool
	Deletable bool
}

// Pager returns a fresh pager of the paging family the collection uses.
func (r Resource) Pager(limit int) pagination.Pager {
	if r.Cursor {
		return pagination.NewCursorPager(limit)
	}
	return pagination.NewOffsetPager(limit)
}

// ListPrefix addresses every cached page of the collection.
func (r Resource) ListPrefix() querycache.Key {
	return querycache.Key{r.Name}
}

func (r Resource) DetailKeyFor(id string) querycache.Key {
	return querycache.Key{r.DetailKey, id}
}

func (r Resource) DetailPath(id string) string {
	return r.ListPath + "/" + id
}

var (
	Hotels = Resource{
		Name: "hotels", Label: "Hotel", DetailKey: "hotelDetail", ListPath: "/hotels",
		StaleTime: catalogStaleTime, Cursor: true, Creatable: true, Editable: true, Deletable: true,
	}
	HotelTypes = Resource{
		Name: "hotel-types", Label: "Hotel type", DetailKey: "hotelTypeDetail", ListPath: "/hotel-types",
		StaleTime: lookupStaleTime, Lookup: true, Creatable: true, Editable: true, Deletable: true,
	}
	Rooms = Resource{
		Name: "rooms", Label: "Room", DetailKey: "roomDetail", ListPath: "/rooms",
		StaleTime: catalogStaleTime, Cursor: true, Creatable: true, Editable: true, Deletable: true,
	}
	RoomTypes = Resource{
		Name: "room-types", Label: "Room type", DetailKey: "roomTypeDetail", ListPath: "/room-types",
		StaleTime: lookupStaleTime, Lookup: true, Creatable: true, Editable: true, Deletable: true,
	}
	Facilities = Resource{
		Name: "facilities", Label: "Facility", DetailKey: "facilityDetail", ListPath: "/facilities",
		StaleTime: lookupStaleTime, Lookup: true, Creatable: true, Editable: true, Deletable: true,
	}
	Amenities = Resource{
		Name: "amenities", Label: "Amenity", DetailKey: "amenityDetail", ListPath: "/amenities",
		StaleTime: lookupStaleTime, Lookup: true, Creatable: true, Editable: true, Deletable: true,
	}
	Bookings = Resource{
		Name: "bookings", Label: "Booking", DetailKey: "bookingDetail", ListPath: "/bookings",
		StaleTime: volatileStaleTime, Editable: true, Deletable: true,
	}
)

// Profile is the set of resources one console manages.
type Profile struct {
	Name      string
	Resources []Resource
}

func AdminProfile() Profile {
	return Profile{
		Name:      "admin",
		Resources: []Resource{Hotels, HotelTypes, Rooms, RoomTypes, Facilities, Amenities, Bookings},
	}
}

func VendorProfile() Profile {
	return Profile{
		Name:      "vendor",
		Resources: []Resource{Hotels, Rooms, Bookings},
	}
}

func ProfileByName(name string) (Profile, bool) {
	switch name {
	case "admin":
		return AdminProfile(), true
	case "vendor":
		return VendorProfile(), true
	}
	return Profile{}, false
}

func (p Profile) Resource(name string) (Resource, bool) {
	for _, r := range p.Resources {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

func (p Profile) Lookups() []Resource {
	var out []Resource
	for _, r := range p.Resources {
		if r.Lookup {
			out = append(out, r)
		}
	}
	return out
}
