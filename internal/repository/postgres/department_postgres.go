package postgres

import (
	"context"
	"database/sql"
	"errors"

	"arkive/internal/model"
	"arkive/internal/repository"
)

// DepartmentPostgres is a PostgreSQL implementation of repository.DepartmentRepository.
type DepartmentPostgres struct {
	db *sql.DB
}

// NewDepartmentPostgres creates a new DepartmentPostgres repository.
func NewDepartmentPostgres(db *sql.DB) *DepartmentPostgres {
	return &DepartmentPostgres{db: db}
}

var _ repository.DepartmentRepository = (*DepartmentPostgres)(nil)

// FindByName fetches a department by name, case-insensitively.
func (r *DepartmentPostgres) FindByName(ctx context.Context, name string) (*model.Department, error) {
	const q = `
		SELECT id, name
		FROM departments
		WHERE lower(name) = lower($1)
	`
	var d model.Department
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&d.ID, &d.Name); err != nil {
		return nil, err
	}
	return &d, nil
}

// Insert stores a new department. The unique index on lower(name) absorbs
// concurrent inserts of the same name: the loser sees sql.ErrNoRows and must
// re-read the row the winner created.
func (r *DepartmentPostgres) Insert(ctx context.Context, name string) (*model.Department, error) {
	const q = `
		INSERT INTO departments (name)
		VALUES ($1)
		ON CONFLICT ((lower(name))) DO NOTHING
		RETURNING id, name
	`
	var d model.Department
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&d.ID, &d.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &d, nil
}

// List returns all departments ordered by name.
func (r *DepartmentPostgres) List(ctx context.Context) ([]model.Department, error) {
	const q = `
		SELECT id, name
		FROM departments
		ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Department, 0)
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
