// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package timesheet

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/taibuivan/timekeep/internal/platform/database/schema"
	"github.com/taibuivan/timekeep/internal/platform/dberr"
	"github.com/taibuivan/timekeep/internal/platform/postgres"
	"github.com/taibuivan/timekeep/pkg/pagination"
)

// PostgresRepository implements [Repository] on the timesheet.entry table.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var entryTable = schema.TimesheetEntry

func (repository *PostgresRepository) Create(ctx context.Context, entry *Entry) error {
	query, args, err := postgres.SQL.
		Insert(entryTable.Table).
		Columns(entryTable.Columns()...).
		Values(
			entry.ID, entry.UserID, entry.ClientID, entry.ProjectID, entry.JobID, entry.ServiceID, entry.TaskID,
			entry.EntryDate, entry.Hours, entry.Notes, entry.CreatedAt, entry.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build_create_entry: %w", err)
	}

	if _, err := repository.db.Exec(ctx, query, args...); err != nil {
		return dberr.Wrap(err, "create_entry")
	}
	return nil
}

func (repository *PostgresRepository) Update(ctx context.Context, entry *Entry) error {
	query, args, err := postgres.SQL.
		Update(entryTable.Table).
		SetMap(map[string]any{
			entryTable.ClientID:  entry.ClientID,
			entryTable.ProjectID: entry.ProjectID,
			entryTable.JobID:     entry.JobID,
			entryTable.ServiceID: entry.ServiceID,
			entryTable.TaskID:    entry.TaskID,
			entryTable.EntryDate: entry.EntryDate,
			entryTable.Hours:     entry.Hours,
			entryTable.Notes:     entry.Notes,
			entryTable.UpdatedAt: entry.UpdatedAt,
		}).
		Where(sq.Eq{entryTable.ID: entry.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build_update_entry: %w", err)
	}

	tag, err := repository.db.Exec(ctx, query, args...)
	if err != nil {
		return dberr.Wrap(err, "update_entry")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, entryTable.Table, entryTable.ID)

	tag, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_entry")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) GetByID(ctx context.Context, id string) (*Entry, error) {
	query, args, err := postgres.SQL.
		Select(entryTable.Columns()...).
		From(entryTable.Table).
		Where(sq.Eq{entryTable.ID: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build_get_entry: %w", err)
	}

	entry := &Entry{}
	if err := scanEntry(repository.db.QueryRow(ctx, query, args...), entry); err != nil {
		return nil, dberr.Wrap(err, "get_entry_by_id")
	}
	return entry, nil
}

func (repository *PostgresRepository) List(ctx context.Context, filter Filter, page pagination.Params) ([]*Entry, int, error) {
	countQuery, countArgs, err := applyEntryFilter(postgres.SQL.Select("count(*)").From(entryTable.Table), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build_count_entries: %w", err)
	}

	var total int
	if err := repository.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_entries")
	}

	entries := make([]*Entry, 0, page.Limit)
	if total == 0 {
		return entries, 0, nil
	}

	stmt := applyEntryFilter(postgres.SQL.Select(entryTable.Columns()...).From(entryTable.Table), filter).
		OrderBy(entryTable.EntryDate+" DESC", entryTable.CreatedAt+" DESC", entryTable.ID).
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset()))

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build_list_entries: %w", err)
	}

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_entries")
	}
	defer rows.Close()

	for rows.Next() {
		entry := &Entry{}
		if err := scanEntry(rows, entry); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_entry")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_entries")
	}

	return entries, total, nil
}

func applyEntryFilter(stmt sq.SelectBuilder, filter Filter) sq.SelectBuilder {
	if filter.UserID != "" {
		stmt = stmt.Where(sq.Eq{entryTable.UserID: filter.UserID})
	}
	if filter.ProjectID != "" {
		stmt = stmt.Where(sq.Eq{entryTable.ProjectID: filter.ProjectID})
	}
	if filter.From != nil {
		stmt = stmt.Where(sq.GtOrEq{entryTable.EntryDate: *filter.From})
	}
	if filter.To != nil {
		stmt = stmt.Where(sq.LtOrEq{entryTable.EntryDate: *filter.To})
	}
	return stmt
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner, entry *Entry) error {
	if err := row.Scan(
		&entry.ID, &entry.UserID, &entry.ClientID, &entry.ProjectID, &entry.JobID, &entry.ServiceID, &entry.TaskID,
		&entry.EntryDate, &entry.Hours, &entry.Notes, &entry.CreatedAt, &entry.UpdatedAt,
	); err != nil {
		return err
	}
	entry.EntryDate = CalendarDay(entry.EntryDate)
	return nil
}
