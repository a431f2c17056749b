package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"arkive/internal/model"
	"arkive/internal/repository"
)

// CreateFolderInput carries the fields accepted when creating a folder.
// At least one department is required; Department is the legacy singular
// fallback used when Departments is empty.
type CreateFolderInput struct {
	Title       string
	Department  string
	Departments []string
}

// UpdateFolderInput carries the partial update applied to a folder. A nil
// Departments leaves the set unchanged; a non-nil value fully replaces it,
// including replacement with the empty set. Creation rejects an empty set but
// update does not; the asymmetry is inherited behavior pending product
// confirmation.
type UpdateFolderInput struct {
	Title       string
	Departments *[]string
}

// FolderService manages folders and owns the cascading delete of their
// contents: removing a folder removes every document filed under it, blob
// cleanup included, through the document service rather than a storage-engine
// cascade.
type FolderService interface {
	Create(ctx context.Context, in CreateFolderInput) (*model.Folder, error)
	Update(ctx context.Context, id string, in UpdateFolderInput) (*model.Folder, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.Folder, error)
	List(ctx context.Context) ([]model.Folder, error)
	ListByDepartment(ctx context.Context, name string) ([]model.Folder, error)
	ListByDepartments(ctx context.Context, names []string) ([]model.Folder, error)
}

type folderService struct {
	folders     repository.FolderRepository
	docs        repository.DocumentRepository
	departments DepartmentService
	documents   DocumentService
	log         *zap.Logger
}

// NewFolderService constructs a new FolderService.
func NewFolderService(
	folders repository.FolderRepository,
	docs repository.DocumentRepository,
	departments DepartmentService,
	documents DocumentService,
	log *zap.Logger,
) FolderService {
	return &folderService{
		folders:     folders,
		docs:        docs,
		departments: departments,
		documents:   documents,
		log:         log,
	}
}

func (s *folderService) Create(ctx context.Context, in CreateFolderInput) (*model.Folder, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	names := in.Departments
	if len(names) == 0 && strings.TrimSpace(in.Department) != "" {
		names = []string{in.Department}
	}
	if len(names) == 0 {
		return nil, ErrDepartmentsRequired
	}

	departments, err := s.departments.FindOrCreateMany(ctx, names)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	folder := &model.Folder{
		ID:          uuid.NewString(),
		Title:       title,
		Departments: departmentNames(departments),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.folders.Create(ctx, folder, departmentIDs(departments)); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *folderService) Update(ctx context.Context, id string, in UpdateFolderInput) (*model.Folder, error) {
	folder, err := s.findFolder(ctx, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		folder.Title = title
	}

	if in.Departments != nil {
		departments, err := s.departments.FindOrCreateMany(ctx, *in.Departments)
		if err != nil {
			return nil, err
		}
		if err := s.folders.ReplaceDepartments(ctx, folder.ID, departmentIDs(departments)); err != nil {
			return nil, err
		}
		folder.Departments = departmentNames(departments)
	}

	folder.UpdatedAt = time.Now().UTC()
	if err := s.folders.Update(ctx, folder); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}
	return folder, nil
}

// Delete removes the folder and fans out to delete each contained document
// through the document service, so every document's blob cleanup runs.
func (s *folderService) Delete(ctx context.Context, id string) error {
	folder, err := s.findFolder(ctx, id)
	if err != nil {
		return err
	}

	docs, err := s.docs.ListByFolder(ctx, folder.ID)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := s.documents.Delete(ctx, doc.ID); err != nil && !errors.Is(err, ErrDocumentNotFound) {
			return err
		}
	}
	s.log.Info("deleted folder contents",
		zap.String("folder_id", folder.ID),
		zap.Int("documents", len(docs)),
	)

	if err := s.folders.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrFolderNotFound
		}
		return err
	}
	return nil
}

func (s *folderService) Get(ctx context.Context, id string) (*model.Folder, error) {
	return s.findFolder(ctx, id)
}

func (s *folderService) List(ctx context.Context) ([]model.Folder, error) {
	return s.folders.List(ctx)
}

func (s *folderService) ListByDepartment(ctx context.Context, name string) ([]model.Folder, error) {
	if strings.TrimSpace(name) == "" {
		return []model.Folder{}, nil
	}
	return s.folders.ListByDepartments(ctx, []string{name})
}

func (s *folderService) ListByDepartments(ctx context.Context, names []string) ([]model.Folder, error) {
	if len(names) == 0 {
		return []model.Folder{}, nil
	}
	return s.folders.ListByDepartments(ctx, names)
}

func (s *folderService) findFolder(ctx context.Context, id string) (*model.Folder, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	folder, err := s.folders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}
	return folder, nil
}
