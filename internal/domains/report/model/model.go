package model

import (
	"fmt"
	"guesthouse/shared/daterange"
	"time"
)

// Summary holds booked room counts per period key.
type Summary struct {
	Daily   map[string]int
	Weekly  map[string]int
	Monthly map[string]int
}

func NewSummary() Summary {
	return Summary{
		Daily:   map[string]int{},
		Weekly:  map[string]int{},
		Monthly: map[string]int{},
	}
}

// Add books rooms on day in all three buckets.
func (s Summary) Add(day time.Time, rooms int) {
	s.Daily[DailyKey(day)] += rooms
	s.Weekly[WeeklyKey(day)] += rooms
	s.Monthly[MonthlyKey(day)] += rooms
}

func DailyKey(day time.Time) string {
	return daterange.Format(day)
}

// WeeklyKey uses the month-relative week index, e.g. 2025-W1 for 1-7 November.
func WeeklyKey(day time.Time) string {
	return fmt.Sprintf("%d-W%d", day.Year(), daterange.WeekOfMonth(day))
}

func MonthlyKey(day time.Time) string {
	return fmt.Sprintf("%d-%02d", day.Year(), int(day.Month()))
}

type Stats struct {
	TotalBookings    int
	PendingBookings  int
	DeclinedBookings int
	AvailableRooms   int
	OnlinePayments   int
	CashPayments     int
}
