// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/internal/dashboard"
	"github.com/taibuivan/timekeep/internal/timesheet"
)

type stubSource struct {
	window  timesheet.EditWindow
	entries []*timesheet.Entry
	err     error
}

func (s stubSource) Recent(ctx context.Context, actor access.ManagerAccess) ([]timesheet.EntryView, error) {
	if s.err != nil {
		return nil, s.err
	}
	views := make([]timesheet.EntryView, 0, len(s.entries))
	for _, entry := range s.entries {
		views = append(views, s.window.View(entry))
	}
	return views, nil
}

func (s stubSource) Window() timesheet.EditWindow { return s.window }

/*
TestSummary verifies totals and the count of entries locking tomorrow.
*/
func TestSummary(t *testing.T) {
	today := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	source := stubSource{
		window: timesheet.EditWindow{Days: 7, Location: time.UTC, Now: func() time.Time { return today.Add(9 * time.Hour) }},
		entries: []*timesheet.Entry{
			{ID: "a", EntryDate: today, Hours: decimal.RequireFromString("7.5")},
			{ID: "b", EntryDate: today.AddDate(0, 0, -7), Hours: decimal.RequireFromString("8")},
			{ID: "c", EntryDate: today.AddDate(0, 0, -7), Hours: decimal.RequireFromString("0.25")},
		},
	}

	summary, err := dashboard.NewService(source).Summary(context.Background(), access.NewManagerAccess("u", access.RoleStaff))
	require.NoError(t, err)

	assert.Equal(t, "2026-03-05", summary.From)
	assert.Equal(t, "2026-03-12", summary.To)
	assert.True(t, decimal.RequireFromString("15.75").Equal(summary.TotalHours))
	assert.Equal(t, 2, summary.LockingTomorrow)
	assert.Len(t, summary.Entries, 3)
}

func TestSummary_PropagatesErrors(t *testing.T) {
	source := stubSource{window: timesheet.DefaultEditWindow(), err: errors.New("db down")}

	_, err := dashboard.NewService(source).Summary(context.Background(), access.NewManagerAccess("u", access.RoleStaff))
	assert.EqualError(t, err, "db down")
}
