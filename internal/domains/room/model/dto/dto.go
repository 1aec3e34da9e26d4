package dto

import (
	"fmt"
	"guesthouse/internal/domains/room/model"
)

type RoomResponse struct {
	Type       string `json:"type"`
	TotalUnits int    `json:"total_units"`
	DailyRate  int64  `json:"daily_rate"`
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.Type = model.Type
	r.TotalUnits = model.TotalUnits
	r.DailyRate = model.DailyRate
}

type GetRoomsResponse struct {
	Rooms            []RoomResponse `json:"rooms"`
	FacilityCapacity int            `json:"facility_capacity"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room) {
	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
		r.FacilityCapacity += mod.TotalUnits
	}
}

type CheckAvailabilityRequest struct {
	RoomType     string `json:"room_type"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
}

type CheckAvailabilityResponse struct {
	RoomType       string `json:"room_type"`
	AvailableRooms int    `json:"available_rooms"`
	Message        string `json:"message"`
}

// FromAvailability fills the response and its human readable message.
func (r *CheckAvailabilityResponse) FromAvailability(roomType string, available int) {
	r.RoomType = roomType
	r.AvailableRooms = available

	if available > 0 {
		r.Message = fmt.Sprintf("%d %s room(s) available", available, roomType)

		return
	}

	r.Message = fmt.Sprintf("No %s rooms available in selected dates", roomType)
}
