package model_test

import (
	"guesthouse/internal/domains/room/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalUnits(t *testing.T) {
	tests := []struct {
		roomType string
		want     int
		wantErr  error
	}{
		{roomType: model.RoomTypeSingle, want: 10},
		{roomType: model.RoomTypeDouble, want: 5},
		{roomType: model.RoomTypeSuite, want: 3},
		{roomType: "Penthouse", wantErr: model.ErrUnknownRoomType},
		{roomType: "single", wantErr: model.ErrUnknownRoomType},
	}

	for _, tt := range tests {
		t.Run(tt.roomType, func(t *testing.T) {
			got, err := model.TotalUnits(tt.roomType)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDailyRate(t *testing.T) {
	rates := map[string]int64{
		model.RoomTypeSingle: 800,
		model.RoomTypeDouble: 1200,
		model.RoomTypeSuite:  1800,
	}

	for roomType, want := range rates {
		got, err := model.DailyRate(roomType)
		assert.NoError(t, err)
		assert.Equal(t, want, got, roomType)
	}

	_, err := model.DailyRate("")
	assert.ErrorIs(t, err, model.ErrUnknownRoomType)
}

func TestFacilityCapacity(t *testing.T) {
	assert.Equal(t, 18, model.FacilityCapacity())
}

func TestCatalogIsACopy(t *testing.T) {
	rooms := model.Catalog()
	rooms[0].TotalUnits = 99

	units, err := model.TotalUnits(model.RoomTypeSingle)
	assert.NoError(t, err)
	assert.Equal(t, 10, units)
	assert.Equal(t, []string{"Single", "Double", "Suite"}, model.Types())
}
