// Package schedule decides whether the store is open from its weekly hours.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cardapio/internal/model"
)

// dayNames is indexed by time.Weekday.
var dayNames = [7]string{"Domingo", "Segunda", "Terca", "Quarta", "Quinta", "Sexta", "Sabado"}

// DayName returns the schedule name used for a weekday.
func DayName(d time.Weekday) string {
	return dayNames[d]
}

// DayNames returns the weekday names starting on Sunday.
func DayNames() []string {
	return dayNames[:]
}

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}

	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	return h*60 + m, nil
}

// Today returns the entry for now's weekday, or nil.
func Today(hours []model.StoreHour, now time.Time) *model.StoreHour {
	name := DayName(now.Weekday())
	for i := range hours {
		if hours[i].Day == name {
			return &hours[i]
		}
	}
	return nil
}

// IsOpenAt reports whether entry covers now. A missing or closed entry is
// never open. The window is inclusive on both ends and does not wrap past
// midnight, so a close time earlier than the open time never matches.
func IsOpenAt(entry *model.StoreHour, now time.Time) bool {
	if entry == nil || entry.Closed {
		return false
	}

	open, err := ParseClock(entry.Open)
	if err != nil {
		return false
	}
	closeAt, err := ParseClock(entry.Close)
	if err != nil {
		return false
	}

	current := now.Hour()*60 + now.Minute()
	return current >= open && current <= closeAt
}

// IsOpen reports whether the store is open at now. now must already be in
// the store's location.
func IsOpen(hours []model.StoreHour, now time.Time) bool {
	return IsOpenAt(Today(hours, now), now)
}

// Validate checks day names, duplicates and clock formats.
func Validate(hours []model.StoreHour) error {
	seen := make(map[string]bool, len(hours))
	for i, h := range hours {
		if !knownDay(h.Day) {
			return fmt.Errorf("hours[%d]: unknown day %q (expected one of %s)", i, h.Day, strings.Join(DayNames(), ", "))
		}
		if seen[h.Day] {
			return fmt.Errorf("hours[%d]: duplicate day %q", i, h.Day)
		}
		seen[h.Day] = true

		// Closed days may leave both times blank.
		if h.Closed && strings.TrimSpace(h.Open) == "" && strings.TrimSpace(h.Close) == "" {
			continue
		}

		if _, err := ParseClock(h.Open); err != nil {
			return fmt.Errorf("hours[%d]: open: %w", i, err)
		}
		if _, err := ParseClock(h.Close); err != nil {
			return fmt.Errorf("hours[%d]: close: %w", i, err)
		}
	}
	return nil
}

func knownDay(day string) bool {
	for _, name := range dayNames {
		if name == day {
			return true
		}
	}
	return false
}
