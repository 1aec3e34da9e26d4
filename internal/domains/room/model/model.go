package model

import (
	"errors"
	"slices"
)

const (
	EntityName = "room"

	RoomTypeSingle = "Single"
	RoomTypeDouble = "Double"
	RoomTypeSuite  = "Suite"

	// MaxPersonsPerRoom bounds the primary guest plus additional guests per booked room.
	MaxPersonsPerRoom = 3
)

var ErrUnknownRoomType = errors.New("unknown room type")

// Room is one entry of the inventory catalog. DailyRate is in whole rupees.
type Room struct {
	Type       string
	TotalUnits int
	DailyRate  int64
}

var catalog = []Room{
	{Type: RoomTypeSingle, TotalUnits: 10, DailyRate: 800},
	{Type: RoomTypeDouble, TotalUnits: 5, DailyRate: 1200},
	{Type: RoomTypeSuite, TotalUnits: 3, DailyRate: 1800},
}

// Catalog returns a copy of the inventory in display order.
func Catalog() []Room {
	return slices.Clone(catalog)
}

func Find(roomType string) (Room, error) {
	idx := slices.IndexFunc(catalog, func(room Room) bool {
		return room.Type == roomType
	})

	if idx == -1 {
		return Room{}, ErrUnknownRoomType
	}

	return catalog[idx], nil
}

func TotalUnits(roomType string) (int, error) {
	room, err := Find(roomType)
	if err != nil {
		return 0, err
	}

	return room.TotalUnits, nil
}

func DailyRate(roomType string) (int64, error) {
	room, err := Find(roomType)
	if err != nil {
		return 0, err
	}

	return room.DailyRate, nil
}

// FacilityCapacity is the sum of every room type's units.
func FacilityCapacity() int {
	total := 0
	for _, room := range catalog {
		total += room.TotalUnits
	}

	return total
}

// Types lists the catalog room type names.
func Types() []string {
	types := make([]string, len(catalog))
	for i, room := range catalog {
		types[i] = room.Type
	}

	return types
}
