package postgres

import (
	"context"
	"database/sql"

	"arkive/internal/model"
	"arkive/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// documentSelect hydrates each document together with its department names;
// rows are grouped back into documents in scanDocuments.
const documentSelect = `
	SELECT d.id, d.title, d.category, d.folder_id, d.owner_id, d.owner_name,
	       d.storage_key, d.created_at, d.updated_at, dept.name
	FROM documents d
	LEFT JOIN document_departments dd ON dd.document_id = d.id
	LEFT JOIN departments dept ON dept.id = dd.department_id`

const documentOrder = `
	ORDER BY d.created_at DESC, d.id DESC, dd.position ASC`

// Create inserts the document row and its association rows in one transaction.
func (r *DocumentPostgres) Create(ctx context.Context, d *model.Document, departmentIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO documents (id, title, category, folder_id, owner_id, owner_name, storage_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.ExecContext(ctx, q,
		d.ID,
		d.Title,
		nullIfEmpty(d.Category),
		d.FolderID,
		nullIfEmpty(d.OwnerID),
		nullIfEmpty(d.OwnerName),
		d.StorageKey,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if err := insertDocumentDepartments(ctx, tx, d.ID, departmentIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites the document's scalar columns.
func (r *DocumentPostgres) Update(ctx context.Context, d *model.Document) error {
	const q = `
		UPDATE documents
		SET title = $1, category = $2, folder_id = $3, owner_id = $4,
		    owner_name = $5, storage_key = $6, updated_at = $7
		WHERE id = $8
	`
	res, err := r.db.ExecContext(ctx, q,
		d.Title,
		nullIfEmpty(d.Category),
		d.FolderID,
		nullIfEmpty(d.OwnerID),
		nullIfEmpty(d.OwnerName),
		d.StorageKey,
		d.UpdatedAt,
		d.ID,
	)
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

// ReplaceDepartments swaps the document's full association set.
func (r *DocumentPostgres) ReplaceDepartments(ctx context.Context, documentID string, departmentIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_departments WHERE document_id = $1`, documentID); err != nil {
		return err
	}
	if err := insertDocumentDepartments(ctx, tx, documentID, departmentIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes the document row; association rows are removed by the
// ON DELETE CASCADE constraint.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
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

// FindByID fetches a single document with its department names.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	rows, err := r.db.QueryContext(ctx, documentSelect+` WHERE d.id = $1`+documentOrder, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs, err := scanDocuments(rows)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, sql.ErrNoRows
	}
	return &docs[0], nil
}

// List returns all documents, most recently created first.
func (r *DocumentPostgres) List(ctx context.Context) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, documentSelect+documentOrder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// ListByFolder returns the documents filed under the folder.
func (r *DocumentPostgres) ListByFolder(ctx context.Context, folderID string) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, documentSelect+` WHERE d.folder_id = $1`+documentOrder, folderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// ListByPrimaryDepartment matches the legacy singular department field: the
// association row at position zero.
func (r *DocumentPostgres) ListByPrimaryDepartment(ctx context.Context, name string) ([]model.Document, error) {
	q := documentSelect + `
	WHERE d.id IN (
		SELECT dd2.document_id
		FROM document_departments dd2
		JOIN departments p ON p.id = dd2.department_id
		WHERE dd2.position = 0 AND lower(p.name) = lower($1)
	)` + documentOrder

	rows, err := r.db.QueryContext(ctx, q, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// ListByDepartments returns documents associated with any of the given
// department names, case-insensitively.
func (r *DocumentPostgres) ListByDepartments(ctx context.Context, names []string) ([]model.Document, error) {
	return r.Filter(ctx, names, false)
}

// ListByCategory returns documents with the exact category.
func (r *DocumentPostgres) ListByCategory(ctx context.Context, category string) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, documentSelect+` WHERE d.category = $1`+documentOrder, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// Filter intersects department membership with, optionally, the "has no
// folder" predicate.
func (r *DocumentPostgres) Filter(ctx context.Context, names []string, excludeFiled bool) ([]model.Document, error) {
	if len(names) == 0 {
		return []model.Document{}, nil
	}

	clause, args := lowerInClause("p.name", names, 1)
	q := documentSelect + `
	WHERE d.id IN (
		SELECT dd2.document_id
		FROM document_departments dd2
		JOIN departments p ON p.id = dd2.department_id
		WHERE ` + clause + `
	)`
	if excludeFiled {
		q += ` AND d.folder_id IS NULL`
	}
	q += documentOrder

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func insertDocumentDepartments(ctx context.Context, tx *sql.Tx, documentID string, departmentIDs []string) error {
	const q = `
		INSERT INTO document_departments (document_id, department_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	for i, depID := range dedup(departmentIDs) {
		if _, err := tx.ExecContext(ctx, q, documentID, depID, i); err != nil {
			return err
		}
	}
	return nil
}

// scanDocuments groups joined rows back into documents, preserving row order.
func scanDocuments(rows *sql.Rows) ([]model.Document, error) {
	out := make([]model.Document, 0)
	idx := make(map[string]int)

	for rows.Next() {
		var d model.Document
		var category, ownerID, ownerName, folderID, dept sql.NullString
		err := rows.Scan(
			&d.ID,
			&d.Title,
			&category,
			&folderID,
			&ownerID,
			&ownerName,
			&d.StorageKey,
			&d.CreatedAt,
			&d.UpdatedAt,
			&dept,
		)
		if err != nil {
			return nil, err
		}
		if i, ok := idx[d.ID]; ok {
			if dept.Valid {
				out[i].Departments = append(out[i].Departments, dept.String)
			}
			continue
		}
		d.Category = category.String
		d.OwnerID = ownerID.String
		d.OwnerName = ownerName.String
		if folderID.Valid {
			v := folderID.String
			d.FolderID = &v
		}
		d.Departments = []string{}
		if dept.Valid {
			d.Departments = append(d.Departments, dept.String)
		}
		idx[d.ID] = len(out)
		out = append(out, d)
	}
	return out, rows.Err()
}
