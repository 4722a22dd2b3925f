// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package timesheet

import "time"

// # Edit Window

// DefaultEditDays is the number of days after the entry date during which an
// entry stays editable. Together with the entry date itself this gives an
// 8 calendar day window.
const DefaultEditDays = 7

const day = 24 * time.Hour

// EditWindow decides whether an entry date is still mutable.
//
// Both the entry date and "now" are reduced to calendar days, so the time of
// day never matters. "Today" is evaluated in Location.
type EditWindow struct {
	Days     int
	Location *time.Location
	Now      func() time.Time
}

// NewEditWindow builds a window with the given length and timezone.
func NewEditWindow(days int, location *time.Location) EditWindow {
	return EditWindow{Days: days, Location: location, Now: time.Now}
}

// DefaultEditWindow is the 7 day window evaluated in UTC against the wall clock.
func DefaultEditWindow() EditWindow {
	return NewEditWindow(DefaultEditDays, time.UTC)
}

// Today returns the current calendar day.
func (w EditWindow) Today() time.Time {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	location := w.Location
	if location == nil {
		location = time.UTC
	}
	return CalendarDay(now().In(location))
}

// Cutoff returns the oldest entry date that is still editable.
func (w EditWindow) Cutoff() time.Time {
	return w.Today().AddDate(0, 0, -w.Days)
}

// CanEdit reports whether an entry dated entryDate may still be changed.
// Future dates are editable.
func (w EditWindow) CanEdit(entryDate time.Time) bool {
	return w.daysSince(entryDate) <= w.Days
}

// DaysUntilLocked returns how many calendar days remain before the entry locks.
// An entry dated today has Days+1, the last editable day has 1 and a locked
// entry has 0. The result is never negative.
func (w EditWindow) DaysUntilLocked(entryDate time.Time) int {
	return max(0, w.Days+1-w.daysSince(entryDate))
}

func (w EditWindow) daysSince(entryDate time.Time) int {
	return int(w.Today().Sub(CalendarDay(entryDate)) / day)
}

// CalendarDay strips the time of day and returns the date as UTC midnight.
//
// The date is read in t's own location, so a DATE column scanned by pgx and a
// date parsed from YYYY-MM-DD land on the same value.
func CalendarDay(t time.Time) time.Time {
	year, month, dayOfMonth := t.Date()
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// CanEditEntry applies the default window to the wall clock in UTC.
func CanEditEntry(entryDate time.Time) bool {
	return DefaultEditWindow().CanEdit(entryDate)
}

// DaysUntilLocked applies the default window to the wall clock in UTC.
func DaysUntilLocked(entryDate time.Time) int {
	return DefaultEditWindow().DaysUntilLocked(entryDate)
}
