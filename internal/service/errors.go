package service

import "errors"

// Sentinel errors shared by the document, folder, and department services.
// Handlers translate these into the response envelope; anything else is an
// internal or upstream failure.
var (
	ErrIDRequired = errors.New("id is required")

	ErrDocumentNotFound = errors.New("document not found")
	ErrFolderNotFound   = errors.New("folder not found")

	ErrTitleRequired          = errors.New("title must not be empty")
	ErrDepartmentsRequired    = errors.New("at least one department is required")
	ErrDepartmentNameRequired = errors.New("department name must not be empty")
	ErrEmptyFile              = errors.New("file cannot be empty")

	// ErrNoFileAttached is returned when a download is requested for a
	// document whose storage key is the no-file sentinel.
	ErrNoFileAttached = errors.New("no file attached to this document")

	// ErrFileMissing is returned when document metadata references a blob
	// the store no longer has. The inconsistency is surfaced, not hidden.
	ErrFileMissing = errors.New("file missing from storage")
)
