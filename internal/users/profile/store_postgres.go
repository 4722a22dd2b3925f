// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/timekeep/internal/access"
	"github.com/taibuivan/timekeep/internal/platform/database/schema"
	"github.com/taibuivan/timekeep/internal/platform/dberr"
	"github.com/taibuivan/timekeep/internal/platform/postgres"
	"github.com/taibuivan/timekeep/pkg/pagination"
	"github.com/taibuivan/timekeep/pkg/pointer"
)

// PostgresRepository implements [Repository], [access.RoleLookup] and
// [access.DepartmentLookup] on the users.profile table.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	profileTable    = schema.UserProfile
	departmentTable = schema.UserDepartment
)

/*
FindByID retrieves a profile from the users.profile table.

Returns:
  - *Profile: Hydrated profile
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		profileTable.ID, profileTable.Email, profileTable.DisplayName, profileTable.Role,
		profileTable.DepartmentID, profileTable.CreatedAt, profileTable.UpdatedAt,
		profileTable.Table, profileTable.ID,
	)

	profile := &Profile{}
	if err := scanProfile(repository.db.QueryRow(ctx, query, id), profile); err != nil {
		return nil, dberr.Wrap(err, "find_profile_by_id")
	}
	return profile, nil
}

/*
List returns one page of profiles, optionally restricted to a role or department.
*/
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, page pagination.Params) ([]*Profile, int, error) {
	countQuery, countArgs, err := applyProfileFilter(postgres.SQL.Select("count(*)").From(profileTable.Table), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build_count_profiles: %w", err)
	}

	var total int
	if err := repository.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_profiles")
	}

	profiles := make([]*Profile, 0, page.Limit)
	if total == 0 {
		return profiles, 0, nil
	}

	query, args, err := applyProfileFilter(postgres.SQL.Select(profileTable.Columns()...).From(profileTable.Table), filter).
		OrderBy(profileTable.DisplayName, profileTable.Email).
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build_list_profiles: %w", err)
	}

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_profiles")
	}
	defer rows.Close()

	for rows.Next() {
		profile := &Profile{}
		if err := scanProfile(rows, profile); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_profile")
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_profiles")
	}

	return profiles, total, nil
}

/*
UpdateRole stores a new role and bumps the update timestamp.
*/
func (repository *PostgresRepository) UpdateRole(ctx context.Context, id string, role access.Role) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3`,
		profileTable.Table, profileTable.Role, profileTable.UpdatedAt, profileTable.ID)

	tag, err := repository.db.Exec(ctx, query, string(role), time.Now().UTC(), id)
	if err != nil {
		return dberr.Wrap(err, "update_profile_role")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
ListDepartments returns all departments joined with their member counts.
*/
func (repository *PostgresRepository) ListDepartments(ctx context.Context) ([]*Department, error) {
	d, p := departmentTable, profileTable
	query, args, err := postgres.SQL.
		Select("d."+d.ID, "d."+d.Name, "d."+d.CreatedAt, "COUNT(p."+p.ID+")").
		From(d.Table + " d").
		LeftJoin(fmt.Sprintf("%s p ON p.%s = d.%s", p.Table, p.DepartmentID, d.ID)).
		GroupBy("d."+d.ID, "d."+d.Name, "d."+d.CreatedAt).
		OrderBy("d." + d.Name).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build_list_departments: %w", err)
	}

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_departments")
	}
	defer rows.Close()

	departments := make([]*Department, 0)
	for rows.Next() {
		department := &Department{}
		if err := rows.Scan(&department.ID, &department.Name, &department.CreatedAt, &department.Members); err != nil {
			return nil, dberr.Wrap(err, "scan_department")
		}
		departments = append(departments, department)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_departments")
	}
	return departments, nil
}

// # Access Lookups

// RoleByID implements [access.RoleLookup].
func (repository *PostgresRepository) RoleByID(ctx context.Context, userID string) (access.Role, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, profileTable.Role, profileTable.Table, profileTable.ID)

	var raw string
	if err := repository.db.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", access.ErrProfileNotFound
		}
		return "", fmt.Errorf("role_by_id: %w", err)
	}
	return access.Role(raw), nil
}

// DepartmentByID implements [access.DepartmentLookup]. A profile without a department yields "".
func (repository *PostgresRepository) DepartmentByID(ctx context.Context, userID string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, profileTable.DepartmentID, profileTable.Table, profileTable.ID)

	var departmentID *string
	if err := repository.db.QueryRow(ctx, query, userID).Scan(&departmentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", access.ErrProfileNotFound
		}
		return "", fmt.Errorf("department_by_id: %w", err)
	}
	return pointer.Val(departmentID), nil
}

func applyProfileFilter(stmt sq.SelectBuilder, filter Filter) sq.SelectBuilder {
	if filter.Role != "" {
		stmt = stmt.Where(sq.Eq{profileTable.Role: string(filter.Role)})
	}
	if filter.DepartmentID != "" {
		stmt = stmt.Where(sq.Eq{profileTable.DepartmentID: filter.DepartmentID})
	}
	return stmt
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner, profile *Profile) error {
	var role string
	if err := row.Scan(
		&profile.ID, &profile.Email, &profile.DisplayName, &role,
		&profile.DepartmentID, &profile.CreatedAt, &profile.UpdatedAt,
	); err != nil {
		return err
	}
	profile.Role = access.Role(role)
	return nil
}
