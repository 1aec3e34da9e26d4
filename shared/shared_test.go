package shared_test

import (
	"context"
	"errors"
	"guesthouse/shared"
	cacheMocks "guesthouse/shared/cache/mocks"
	"guesthouse/shared/constant"
	"guesthouse/shared/dto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total returns 1", total: 0, limit: 10, expected: 1},
		{name: "zero limit returns 1", total: 100, limit: 0, expected: 1},
		{name: "negative limit returns 1", total: 100, limit: -5, expected: 1},
		{name: "exact division", total: 100, limit: 10, expected: 10},
		{name: "division with remainder", total: 101, limit: 10, expected: 11},
		{name: "limit greater than total", total: 5, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type approval struct {
		BookingID  string `db:"booking_id"`
		RoomNumber string `db:"room_number"`
		Status     string `db:"status"`
		Reason     string `db:"decline_reason"`
		Transient  string
	}

	tests := []struct {
		name     string
		data     approval
		username string
		expected map[string]any
	}{
		{
			name: "populated fields are kept",
			data: approval{
				BookingID:  "K3Z9QX1A",
				RoomNumber: "101",
				Status:     "approved",
				Transient:  "ignored",
			},
			username: "admin-id",
			expected: map[string]any{
				"booking_id":  "K3Z9QX1A",
				"room_number": "101",
				"status":      "approved",
			},
		},
		{
			name:     "zero struct only carries metadata",
			data:     approval{},
			username: "admin-id",
			expected: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.TransformFields(tt.data, tt.username)

			_, isTime := result[constant.FieldModifiedAt].(time.Time)
			assert.True(t, isTime)
			assert.Equal(t, tt.username, result[constant.FieldModifiedBy])

			delete(result, constant.FieldModifiedAt)
			delete(result, constant.FieldModifiedBy)

			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID("temp-1", "temp_id", "room_bookings")

	expected := dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    "temp_id",
				Value:    "temp-1",
				Operator: dto.FilterOperatorEq,
				Table:    "room_bookings",
			},
		},
	}

	assert.Equal(t, expected, result)

	where, args := result.GetWhereClause()
	assert.Equal(t, "(room_bookings.temp_id = :temp_id)", where)
	assert.Equal(t, "temp-1", args["temp_id"])
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "booking:get:abc", shared.BuildCacheKey("booking:get", "abc"))
	assert.Equal(t, "limiter:10.0.0.1:curl", shared.BuildCacheKey("limiter", "10.0.0.1", "", "curl"))
	assert.Equal(t, "booking:gets", shared.BuildCacheKey("booking:gets"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	pending := dto.FilterGroup{Filters: []any{dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorEq}}}
	approved := dto.FilterGroup{Filters: []any{dto.Filter{Field: "status", Value: "approved", Operator: dto.FilterOperatorEq}}}

	first := shared.BuildCacheKeyWithQuery("booking:gets", params, pending)
	again := shared.BuildCacheKeyWithQuery("booking:gets", params, pending)
	other := shared.BuildCacheKeyWithQuery("booking:gets", params, approved)

	assert.True(t, strings.HasPrefix(first, "booking:gets:"))
	assert.Equal(t, first, again)
	assert.NotEqual(t, first, other)
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "booking:gets:*").Return(nil)
	shared.InvalidateCaches(context.Background(), mockCache, "booking:gets")

	mockCache.EXPECT().Clear(gomock.Any(), "booking:count:*").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), mockCache, "booking:count")
}
