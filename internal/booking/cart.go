package booking

import (
	"errors"
	"fmt"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
)

var (
	// ErrUnknownDestination is returned for a destination index outside the package
	ErrUnknownDestination = errors.New("unknown destination")
	// ErrUnknownRoom is returned for a room kind that is not one of the five offerings
	ErrUnknownRoom = errors.New("unknown room type")
	// ErrRoomUnavailable is returned when an unavailable offer is toggled
	ErrRoomUnavailable = errors.New("room type is not available")
)

// Cart is the set of rooms picked on one package detail page visit.
// Entries keep the order in which they were selected.
type Cart struct {
	Rooms []models.SelectedRoom
}

func (c Cart) index(destination int, kind models.RoomKind) int {
	for i, room := range c.Rooms {
		if room.DestinationIndex == destination && room.RoomType == kind {
			return i
		}
	}
	return -1
}

// IsSelected reports whether the room is currently in the cart
func (c Cart) IsSelected(destination int, kind models.RoomKind) bool {
	return c.index(destination, kind) >= 0
}

// Toggle selects the room, or deselects it when it is already selected.
// Only available offers of pkg can be selected; deselecting always works.
func (c Cart) Toggle(pkg models.Package, destination int, kind models.RoomKind) (Cart, error) {
	if i := c.index(destination, kind); i >= 0 {
		rooms := make([]models.SelectedRoom, 0, len(c.Rooms)-1)
		rooms = append(rooms, c.Rooms[:i]...)
		rooms = append(rooms, c.Rooms[i+1:]...)
		if len(rooms) == 0 {
			rooms = nil
		}
		return Cart{Rooms: rooms}, nil
	}

	if destination < 0 || destination >= len(pkg.Destinations) {
		return c, fmt.Errorf("%w: %d", ErrUnknownDestination, destination)
	}
	offer, ok := pkg.Destinations[destination].RoomTypes.Offer(kind)
	if !ok {
		return c, fmt.Errorf("%w: %s", ErrUnknownRoom, kind)
	}
	if !offer.Available {
		return c, fmt.Errorf("%w: %s", ErrRoomUnavailable, kind)
	}

	rooms := make([]models.SelectedRoom, len(c.Rooms), len(c.Rooms)+1)
	copy(rooms, c.Rooms)
	rooms = append(rooms, models.SelectedRoom{
		DestinationIndex: destination,
		RoomType:         kind,
		Quantity:         1,
		Price:            offer.Price,
	})
	return Cart{Rooms: rooms}, nil
}

// Total sums the selected prices; a free package always totals 0
func (c Cart) Total(pkg models.Package) float64 {
	if pkg.IsFree {
		return 0
	}
	total := 0.0
	for _, room := range c.Rooms {
		total += room.Price * float64(room.Quantity)
	}
	return total
}

// IsEmpty reports whether no room is selected
func (c Cart) IsEmpty() bool {
	return len(c.Rooms) == 0
}
