package postgres

import (
	"context"
	"database/sql"

	"arkive/internal/model"
	"arkive/internal/repository"
)

// FolderPostgres is a PostgreSQL implementation of repository.FolderRepository.
type FolderPostgres struct {
	db *sql.DB
}

// NewFolderPostgres creates a new FolderPostgres repository.
func NewFolderPostgres(db *sql.DB) *FolderPostgres {
	return &FolderPostgres{db: db}
}

var _ repository.FolderRepository = (*FolderPostgres)(nil)

// folderSelect hydrates each folder together with its department names; rows
// are grouped back into folders in scanFolders.
const folderSelect = `
	SELECT f.id, f.title, f.created_at, f.updated_at, dept.name
	FROM folders f
	LEFT JOIN folder_departments fd ON fd.folder_id = f.id
	LEFT JOIN departments dept ON dept.id = fd.department_id`

const folderOrder = `
	ORDER BY f.created_at DESC, f.id DESC, fd.position ASC`

// Create inserts the folder row and its association rows in one transaction.
func (r *FolderPostgres) Create(ctx context.Context, f *model.Folder, departmentIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO folders (id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.ExecContext(ctx, q, f.ID, f.Title, f.CreatedAt, f.UpdatedAt); err != nil {
		return err
	}
	if err := insertFolderDepartments(ctx, tx, f.ID, departmentIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites the folder's scalar columns.
func (r *FolderPostgres) Update(ctx context.Context, f *model.Folder) error {
	const q = `
		UPDATE folders
		SET title = $1, updated_at = $2
		WHERE id = $3
	`
	res, err := r.db.ExecContext(ctx, q, f.Title, f.UpdatedAt, f.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ReplaceDepartments swaps the folder's full association set.
func (r *FolderPostgres) ReplaceDepartments(ctx context.Context, folderID string, departmentIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM folder_departments WHERE folder_id = $1`, folderID); err != nil {
		return err
	}
	if err := insertFolderDepartments(ctx, tx, folderID, departmentIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes the folder row; association rows are removed by the
// ON DELETE CASCADE constraint.
func (r *FolderPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM folders WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindByID fetches a single folder with its department names.
func (r *FolderPostgres) FindByID(ctx context.Context, id string) (*model.Folder, error) {
	rows, err := r.db.QueryContext(ctx, folderSelect+` WHERE f.id = $1`+folderOrder, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	folders, err := scanFolders(rows)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, sql.ErrNoRows
	}
	return &folders[0], nil
}

// Exists reports whether the folder id resolves to a row.
func (r *FolderPostgres) Exists(ctx context.Context, id string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM folders WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// List returns all folders, most recently created first.
func (r *FolderPostgres) List(ctx context.Context) ([]model.Folder, error) {
	rows, err := r.db.QueryContext(ctx, folderSelect+folderOrder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFolders(rows)
}

// ListByDepartments returns folders associated with any of the given
// department names, case-insensitively.
func (r *FolderPostgres) ListByDepartments(ctx context.Context, names []string) ([]model.Folder, error) {
	if len(names) == 0 {
		return []model.Folder{}, nil
	}

	clause, args := lowerInClause("p.name", names, 1)
	q := folderSelect + `
	WHERE f.id IN (
		SELECT fd2.folder_id
		FROM folder_departments fd2
		JOIN departments p ON p.id = fd2.department_id
		WHERE ` + clause + `
	)` + folderOrder

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFolders(rows)
}

func insertFolderDepartments(ctx context.Context, tx *sql.Tx, folderID string, departmentIDs []string) error {
	const q = `
		INSERT INTO folder_departments (folder_id, department_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	for i, depID := range dedup(departmentIDs) {
		if _, err := tx.ExecContext(ctx, q, folderID, depID, i); err != nil {
			return err
		}
	}
	return nil
}

// scanFolders groups joined rows back into folders, preserving row order.
func scanFolders(rows *sql.Rows) ([]model.Folder, error) {
	out := make([]model.Folder, 0)
	idx := make(map[string]int)

	for rows.Next() {
		var f model.Folder
		var dept sql.NullString
		if err := rows.Scan(&f.ID, &f.Title, &f.CreatedAt, &f.UpdatedAt, &dept); err != nil {
			return nil, err
		}
		if i, ok := idx[f.ID]; ok {
			if dept.Valid {
				out[i].Departments = append(out[i].Departments, dept.String)
			}
			continue
		}
		f.Departments = []string{}
		if dept.Valid {
			f.Departments = append(f.Departments, dept.String)
		}
		idx[f.ID] = len(out)
		out = append(out, f)
	}
	return out, rows.Err()
}
