// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package team

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/internal/platform/database/schema"
	"github.com/taibuivan/timekeep/internal/platform/dberr"
	"github.com/taibuivan/timekeep/internal/platform/postgres"
)

// PostgresStore implements [Store] by joining profiles with their entries.
type PostgresStore struct {
	db postgres.DB
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db postgres.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

/*
Activity aggregates hours and distinct logged days per profile.

Profiles without entries in the range are still returned with zero totals.
*/
func (store *PostgresStore) Activity(ctx context.Context, scope Scope, from, to time.Time) ([]MemberActivity, error) {
	profile, entry := schema.UserProfile, schema.TimesheetEntry

	col := func(alias, column string) string { return alias + "." + column }

	stmt := postgres.SQL.
		Select(
			col("p", profile.ID),
			col("p", profile.DisplayName),
			col("p", profile.Role),
			fmt.Sprintf("COALESCE(SUM(%s), 0)", col("e", entry.Hours)),
			fmt.Sprintf("COUNT(DISTINCT %s)", col("e", entry.EntryDate)),
		).
		From(profile.Table+" p").
		LeftJoin(
			fmt.Sprintf("%s e ON %s = %s AND %s >= ? AND %s <= ?",
				entry.Table, col("e", entry.UserID), col("p", profile.ID),
				col("e", entry.EntryDate), col("e", entry.EntryDate)),
			from, to,
		).
		GroupBy(col("p", profile.ID), col("p", profile.DisplayName), col("p", profile.Role)).
		OrderBy(col("p", profile.DisplayName), col("p", profile.ID))

	if scope.DepartmentID != "" {
		stmt = stmt.Where(sq.Eq{col("p", profile.DepartmentID): scope.DepartmentID})
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build_team_activity: %w", err)
	}

	rows, err := store.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "team_activity")
	}
	defer rows.Close()

	var members []MemberActivity
	for rows.Next() {
		var member MemberActivity
		var role string
		if err := rows.Scan(&member.UserID, &member.DisplayName, &role, &member.HoursLogged, &member.DaysLogged); err != nil {
			return nil, dberr.Wrap(err, "scan_team_activity")
		}
		member.Role = access.Role(role)
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_team_activity")
	}
	return members, nil
}
