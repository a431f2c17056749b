// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory
// and use SQL queries only — no business logic here.
package repository

import (
	"context"

	"arkive/internal/model"
)

// DepartmentRepository defines persistence for department entities.
// Name matching is case-insensitive; the table carries a unique index on
// lower(name) so concurrent inserts of the same name collapse to one row.
type DepartmentRepository interface {
	// FindByName returns the department matching name case-insensitively,
	// or sql.ErrNoRows when absent.
	FindByName(ctx context.Context, name string) (*model.Department, error)

	// Insert stores a new department. On a unique-constraint conflict it
	// returns sql.ErrNoRows so the caller can re-read the winning row.
	Insert(ctx context.Context, name string) (*model.Department, error)

	// List returns all departments ordered by name.
	List(ctx context.Context) ([]model.Department, error)
}

// FolderRepository defines persistence for folders and their department
// associations.
type FolderRepository interface {
	// Create inserts a folder row plus its association rows in one
	// transaction. Duplicate department ids in the input are collapsed.
	Create(ctx context.Context, f *model.Folder, departmentIDs []string) error

	// Update rewrites the folder's scalar columns. Returns sql.ErrNoRows
	// when the id does not exist.
	Update(ctx context.Context, f *model.Folder) error

	// ReplaceDepartments swaps the folder's full association set.
	ReplaceDepartments(ctx context.Context, folderID string, departmentIDs []string) error

	// Delete removes the folder row (association rows cascade). Returns
	// sql.ErrNoRows when the id does not exist.
	Delete(ctx context.Context, id string) error

	// FindByID returns the folder with its department names hydrated, or
	// sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id string) (*model.Folder, error)

	// Exists reports whether the folder id resolves to a row.
	Exists(ctx context.Context, id string) (bool, error)

	// List returns all folders, most recently created first.
	List(ctx context.Context) ([]model.Folder, error)

	// ListByDepartments returns folders associated with any of the given
	// department names (case-insensitive), most recently created first.
	ListByDepartments(ctx context.Context, names []string) ([]model.Folder, error)
}

// DocumentRepository defines persistence for documents and their department
// associations.
type DocumentRepository interface {
	// Create inserts a document row plus its association rows in one
	// transaction. Duplicate department ids in the input are collapsed.
	Create(ctx context.Context, d *model.Document, departmentIDs []string) error

	// Update rewrites the document's scalar columns. Returns sql.ErrNoRows
	// when the id does not exist.
	Update(ctx context.Context, d *model.Document) error

	// ReplaceDepartments swaps the document's full association set.
	ReplaceDepartments(ctx context.Context, documentID string, departmentIDs []string) error

	// Delete removes the document row. Returns sql.ErrNoRows when the id
	// does not exist.
	Delete(ctx context.Context, id string) error

	// FindByID returns the document with its department names hydrated, or
	// sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns all documents, most recently created first.
	List(ctx context.Context) ([]model.Document, error)

	// ListByFolder returns the documents filed under the folder.
	ListByFolder(ctx context.Context, folderID string) ([]model.Document, error)

	// ListByPrimaryDepartment matches the legacy singular department field,
	// i.e. the first element of the association set (case-insensitive).
	ListByPrimaryDepartment(ctx context.Context, name string) ([]model.Document, error)

	// ListByDepartments returns documents associated with any of the given
	// department names (case-insensitive).
	ListByDepartments(ctx context.Context, names []string) ([]model.Document, error)

	// ListByCategory returns documents with the exact category.
	ListByCategory(ctx context.Context, category string) ([]model.Document, error)

	// Filter intersects department membership with, optionally, the
	// "has no folder" predicate.
	Filter(ctx context.Context, names []string, excludeFiled bool) ([]model.Document, error)
}
