package dto

import (
	"guesthouse/internal/domains/report/model"
	"guesthouse/shared/daterange"
	"time"
)

type SummaryResponse struct {
	ReferenceDate string         `json:"reference_date"`
	Daily         map[string]int `json:"daily"`
	Weekly        map[string]int `json:"weekly"`
	Monthly       map[string]int `json:"monthly"`
}

func (r *SummaryResponse) FromModel(summary model.Summary, reference time.Time) {
	r.ReferenceDate = daterange.Format(reference)
	r.Daily = summary.Daily
	r.Weekly = summary.Weekly
	r.Monthly = summary.Monthly
}

type DashboardResponse struct {
	ReferenceDate    string `json:"reference_date"`
	TotalBookings    int    `json:"total_bookings"`
	PendingBookings  int    `json:"pending_bookings"`
	DeclinedBookings int    `json:"declined_bookings"`
	AvailableRooms   int    `json:"available_rooms"`
	OnlinePayments   int    `json:"online_payments"`
	CashPayments     int    `json:"cash_payments"`
	FacilityCapacity int    `json:"facility_capacity"`
}

func (r *DashboardResponse) FromModel(stats model.Stats, reference time.Time, capacity int) {
	r.ReferenceDate = daterange.Format(reference)
	r.TotalBookings = stats.TotalBookings
	r.PendingBookings = stats.PendingBookings
	r.DeclinedBookings = stats.DeclinedBookings
	r.AvailableRooms = stats.AvailableRooms
	r.OnlinePayments = stats.OnlinePayments
	r.CashPayments = stats.CashPayments
	r.FacilityCapacity = capacity
}
