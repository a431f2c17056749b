package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"arkive/internal/model"
	"arkive/internal/repository"
	"arkive/internal/storage"
)

// presignExpiry bounds how long a direct download link stays valid.
const presignExpiry = 15 * time.Minute

// CreateDocumentInput carries the fields accepted when creating a document.
// File is optional: documents may exist purely as metadata/links. When File is
// nil and URL is blank, the storage key is set to the no-file sentinel.
type CreateDocumentInput struct {
	Title       string
	Category    string
	Department  string // legacy singular fallback, used when Departments is empty
	Departments []string
	FolderID    *string
	OwnerID     string
	OwnerName   string
	URL         string

	File        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// UpdateDocumentInput carries the patch applied to an existing document.
// FolderID nil means detach: an update without a folder id clears the folder
// association rather than leaving it unchanged. A non-empty Departments list
// fully replaces the association set. Owner fields and URL apply only when
// non-blank; URL updates never re-upload bytes.
type UpdateDocumentInput struct {
	Title       string
	Category    string
	Departments []string
	FolderID    *string
	OwnerID     string
	OwnerName   string
	URL         string
}

// DocumentService defines the use cases for handling documents. Writes that
// touch both the relational store and the blob store run as two-step sagas:
// upload-before-persist on create with a compensating delete, and
// best-effort blob cleanup on delete that never blocks metadata removal.
type DocumentService interface {
	Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error)
	Update(ctx context.Context, id string, in UpdateDocumentInput) (*model.Document, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.Document, error)

	// Download returns the attached file as a stream plus its object info
	// (size, content type, original filename for the disposition header).
	Download(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error)

	// PresignedURL returns a time-bounded direct link to the attached file.
	PresignedURL(ctx context.Context, id string) (string, error)

	List(ctx context.Context) ([]model.Document, error)
	ListByFolder(ctx context.Context, folderID string) ([]model.Document, error)
	ListByDepartment(ctx context.Context, name string) ([]model.Document, error)
	ListByDepartments(ctx context.Context, names []string) ([]model.Document, error)
	ListByCategory(ctx context.Context, category string) ([]model.Document, error)

	// Filter intersects department membership with, when excludeFiled is
	// set, the "has no folder" predicate. An empty department list yields
	// an empty result, never an error.
	Filter(ctx context.Context, departments []string, excludeFiled bool) ([]model.Document, error)
}

type documentService struct {
	store       storage.BlobStore
	docs        repository.DocumentRepository
	folders     repository.FolderRepository
	departments DepartmentService
	log         *zap.Logger
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	store storage.BlobStore,
	docs repository.DocumentRepository,
	folders repository.FolderRepository,
	departments DepartmentService,
	log *zap.Logger,
) DocumentService {
	return &documentService{
		store:       store,
		docs:        docs,
		folders:     folders,
		departments: departments,
		log:         log,
	}
}

func (s *documentService) Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	names := in.Departments
	if len(names) == 0 && in.Department != "" {
		names = []string{in.Department}
	}
	departments, err := s.departments.FindOrCreateMany(ctx, names)
	if err != nil {
		return nil, err
	}

	if in.FolderID != nil {
		exists, err := s.folders.Exists(ctx, *in.FolderID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrFolderNotFound
		}
	}

	// Upload before persist: metadata must never reference a blob that was
	// not stored.
	storageKey := model.NoFileKey
	uploaded := false
	if in.File != nil {
		if in.Size == 0 {
			return nil, ErrEmptyFile
		}
		key, err := s.store.Upload(ctx, in.File, in.Filename, in.ContentType, in.Size)
		if err != nil {
			if errors.Is(err, storage.ErrEmptyObject) {
				return nil, ErrEmptyFile
			}
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
		storageKey = key
		uploaded = true
	} else if in.URL != "" {
		storageKey = in.URL
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:          uuid.NewString(),
		Title:       title,
		Category:    in.Category,
		Departments: departmentNames(departments),
		FolderID:    in.FolderID,
		OwnerID:     in.OwnerID,
		OwnerName:   in.OwnerName,
		StorageKey:  storageKey,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.docs.Create(ctx, doc, departmentIDs(departments)); err != nil {
		if uploaded {
			// Compensating step: the metadata write failed, so remove the
			// object that was just stored.
			if delErr := s.store.Delete(ctx, storageKey); delErr != nil {
				return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
			}
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, id string, in UpdateDocumentInput) (*model.Document, error) {
	doc, err := s.findDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	// Folder reassignment: a supplied folder id is validated before it
	// replaces the current one; a missing folder id detaches the document.
	if in.FolderID != nil {
		if doc.FolderID == nil || *doc.FolderID != *in.FolderID {
			exists, err := s.folders.Exists(ctx, *in.FolderID)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, ErrFolderNotFound
			}
		}
		doc.FolderID = in.FolderID
	} else {
		doc.FolderID = nil
	}

	doc.Title = in.Title
	doc.Category = in.Category

	if len(in.Departments) > 0 {
		departments, err := s.departments.FindOrCreateMany(ctx, in.Departments)
		if err != nil {
			return nil, err
		}
		if err := s.docs.ReplaceDepartments(ctx, doc.ID, departmentIDs(departments)); err != nil {
			return nil, err
		}
		doc.Departments = departmentNames(departments)
	}

	if in.OwnerID != "" {
		doc.OwnerID = in.OwnerID
	}
	if in.OwnerName != "" {
		doc.OwnerName = in.OwnerName
	}
	if in.URL != "" {
		doc.StorageKey = in.URL
	}

	doc.UpdatedAt = time.Now().UTC()
	if err := s.docs.Update(ctx, doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Delete removes the document's metadata unconditionally. Blob removal is
// best-effort: a failure is logged and swallowed, trading possible orphaned
// blobs for metadata consistency.
func (s *documentService) Delete(ctx context.Context, id string) error {
	doc, err := s.findDocument(ctx, id)
	if err != nil {
		return err
	}

	if doc.HasFile() {
		if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
			s.log.Warn("could not delete file from storage",
				zap.String("document_id", doc.ID),
				zap.String("storage_key", doc.StorageKey),
				zap.Error(err),
			)
		}
	}

	if err := s.docs.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDocumentNotFound
		}
		return err
	}
	return nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	return s.findDocument(ctx, id)
}

func (s *documentService) Download(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	doc, err := s.findDocument(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	if !doc.HasFile() {
		return nil, storage.ObjectInfo{}, ErrNoFileAttached
	}

	rc, info, err := s.store.Get(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectInfo{}, ErrFileMissing
		}
		return nil, storage.ObjectInfo{}, fmt.Errorf("download from storage: %w", err)
	}
	return rc, info, nil
}

func (s *documentService) PresignedURL(ctx context.Context, id string) (string, error) {
	doc, err := s.findDocument(ctx, id)
	if err != nil {
		return "", err
	}
	if !doc.HasFile() {
		return "", ErrNoFileAttached
	}

	u, err := s.store.PresignGet(ctx, doc.StorageKey, presignExpiry)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", ErrFileMissing
		}
		return "", fmt.Errorf("presign storage url: %w", err)
	}
	return u, nil
}

func (s *documentService) List(ctx context.Context) ([]model.Document, error) {
	return s.docs.List(ctx)
}

func (s *documentService) ListByFolder(ctx context.Context, folderID string) ([]model.Document, error) {
	exists, err := s.folders.Exists(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrFolderNotFound
	}
	return s.docs.ListByFolder(ctx, folderID)
}

func (s *documentService) ListByDepartment(ctx context.Context, name string) ([]model.Document, error) {
	return s.docs.ListByPrimaryDepartment(ctx, name)
}

func (s *documentService) ListByDepartments(ctx context.Context, names []string) ([]model.Document, error) {
	if len(names) == 0 {
		return []model.Document{}, nil
	}
	return s.docs.ListByDepartments(ctx, names)
}

func (s *documentService) ListByCategory(ctx context.Context, category string) ([]model.Document, error) {
	return s.docs.ListByCategory(ctx, category)
}

func (s *documentService) Filter(ctx context.Context, departments []string, excludeFiled bool) ([]model.Document, error) {
	if len(departments) == 0 {
		return []model.Document{}, nil
	}
	return s.docs.Filter(ctx, departments, excludeFiled)
}

func (s *documentService) findDocument(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

func departmentNames(departments []model.Department) []string {
	names := make([]string, 0, len(departments))
	for _, d := range departments {
		names = append(names, d.Name)
	}
	return names
}

func departmentIDs(departments []model.Department) []string {
	ids := make([]string, 0, len(departments))
	for _, d := range departments {
		ids = append(ids, d.ID)
	}
	return ids
}
