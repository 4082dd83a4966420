package catalog

import (
	"sort"
	"time"
)

// Cities is the fixed set of bookable cities.
var Cities = []string{"Chennai", "Hyderabad", "Kolkata", "Mumbai", "Delhi"}

// slots maps city -> date -> available times. Compiled in and immutable;
// a missing city or date key means zero availability.
var slots = map[string]map[string][]string{
	"Chennai": {
		"2025-04-01": {"10:00", "14:00", "16:00"},
		"2025-04-03": {"11:00", "15:00"},
	},
	"Hyderabad": {
		"2025-04-02": {"09:00", "13:00"},
		"2025-04-04": {"10:30", "14:30"},
	},
	"Kolkata": {}, // no slots available
	"Mumbai": {
		"2025-04-05": {"12:00", "15:00"},
	},
	"Delhi": {
		"2025-04-06": {"09:30", "13:30"},
		"2025-04-07": {"11:00", "16:00"},
	},
}

// ValidCity reports whether name is one of the bookable cities.
func ValidCity(name string) bool {
	for _, c := range Cities {
		if c == name {
			return true
		}
	}
	return false
}

// Dates returns the dates with availability for a city, sorted ascending.
// Unknown cities yield an empty list.
func Dates(city string) []string {
	dates := make([]string, 0, len(slots[city]))
	for d := range slots[city] {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Times returns the available times for a city on a date.
func Times(city, date string) []string {
	times := slots[city][date]
	out := make([]string, len(times))
	copy(out, times)
	return out
}

// HasSlot reports whether the exact city/date/time combination is offered.
func HasSlot(city, date, timeSlot string) bool {
	for _, t := range slots[city][date] {
		if t == timeSlot {
			return true
		}
	}
	return false
}

// CalendarDates returns every day of April 2025, the booking window shown
// to clients.
func CalendarDates() []string {
	start := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		dates = append(dates, start.AddDate(0, 0, i).Format("2006-01-02"))
	}
	return dates
}
