// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/timekeep/internal/platform/validate"
	"github.com/taibuivan/timekeep/internal/timesheet"
)

type windowReport struct {
	EntryDate       string `json:"entry_date" yaml:"entry_date"`
	Today           string `json:"today" yaml:"today"`
	Cutoff          string `json:"cutoff" yaml:"cutoff"`
	CanEdit         bool   `json:"can_edit" yaml:"can_edit"`
	DaysUntilLocked int    `json:"days_until_locked" yaml:"days_until_locked"`
}

func entryCmd(render func(any) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Evaluate timesheet entry rules",
	}

	cmd.AddCommand(entryWindowCmd(render))

	return cmd
}

func entryWindowCmd(render func(any) error) *cobra.Command {
	var date, today, timezone string
	var days int

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Show whether an entry date is still editable",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return fmt.Errorf("invalid --days %d: must not be negative", days)
			}

			entryDate, err := time.Parse(validate.DateLayout, date)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", date, err)
			}

			location, err := time.LoadLocation(timezone)
			if err != nil {
				return fmt.Errorf("invalid --timezone %q: %w", timezone, err)
			}

			window := timesheet.NewEditWindow(days, location)
			if today != "" {
				fixed, err := time.ParseInLocation(validate.DateLayout, today, location)
				if err != nil {
					return fmt.Errorf("invalid --today %q: %w", today, err)
				}
				window.Now = func() time.Time { return fixed }
			}

			return render(windowReport{
				EntryDate:       entryDate.Format(validate.DateLayout),
				Today:           window.Today().Format(validate.DateLayout),
				Cutoff:          window.Cutoff().Format(validate.DateLayout),
				CanEdit:         window.CanEdit(entryDate),
				DaysUntilLocked: window.DaysUntilLocked(entryDate),
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Entry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&today, "today", "", "Evaluate as if today were this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&timezone, "timezone", "UTC", "IANA timezone that decides today")
	cmd.Flags().IntVar(&days, "days", timesheet.DefaultEditDays, "Edit window length in days")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}
