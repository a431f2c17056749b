package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"arkive/internal/model"
	repoMocks "arkive/internal/repository/mocks"
)

// stubDocumentService lives here rather than in the mocks package to keep the
// folder tests inside the service package.
type stubDocumentService struct {
	mock.Mock
	DocumentService
}

func (s *stubDocumentService) Delete(ctx context.Context, id string) error {
	args := s.Called(ctx, id)
	return args.Error(0)
}

type folderServiceMocks struct {
	folders   *repoMocks.MockFolderRepository
	docs      *repoMocks.MockDocumentRepository
	deptRepo  *repoMocks.MockDepartmentRepository
	documents *stubDocumentService
}

func newFolderService(t *testing.T) (FolderService, *folderServiceMocks) {
	t.Helper()
	m := &folderServiceMocks{
		folders:   new(repoMocks.MockFolderRepository),
		docs:      new(repoMocks.MockDocumentRepository),
		deptRepo:  new(repoMocks.MockDepartmentRepository),
		documents: new(stubDocumentService),
	}
	svc := NewFolderService(m.folders, m.docs, NewDepartmentService(m.deptRepo), m.documents, zap.NewNop())
	return svc, m
}

func TestFolderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, m := newFolderService(t)

		m.deptRepo.On("FindByName", ctx, "Finance").
			Return(&model.Department{ID: "dep-1", Name: "Finance"}, nil)
		m.folders.On("Create", ctx, mock.MatchedBy(func(f *model.Folder) bool {
			return f.ID != "" && f.Title == "Invoices"
		}), []string{"dep-1"}).Return(nil)

		folder, err := svc.Create(ctx, CreateFolderInput{
			Title:       "Invoices",
			Departments: []string{"Finance"},
		})

		assert.NoError(t, err)
		assert.Equal(t, []string{"Finance"}, folder.Departments)
		m.folders.AssertExpectations(t)
	})

	t.Run("legacy singular department fallback", func(t *testing.T) {
		svc, m := newFolderService(t)

		m.deptRepo.On("FindByName", ctx, "Ops").
			Return(&model.Department{ID: "dep-3", Name: "Ops"}, nil)
		m.folders.On("Create", ctx, mock.Anything, []string{"dep-3"}).Return(nil)

		folder, err := svc.Create(ctx, CreateFolderInput{Title: "Runbooks", Department: "Ops"})

		assert.NoError(t, err)
		assert.Equal(t, "Ops", folder.PrimaryDepartment())
	})

	t.Run("blank title rejected", func(t *testing.T) {
		svc, _ := newFolderService(t)

		_, err := svc.Create(ctx, CreateFolderInput{Title: " ", Departments: []string{"Ops"}})

		assert.ErrorIs(t, err, ErrTitleRequired)
	})

	t.Run("missing departments rejected", func(t *testing.T) {
		svc, m := newFolderService(t)

		_, err := svc.Create(ctx, CreateFolderInput{Title: "Invoices"})

		assert.ErrorIs(t, err, ErrDepartmentsRequired)
		m.folders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFolderService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("nil departments leave the set unchanged", func(t *testing.T) {
		svc, m := newFolderService(t)

		m.folders.On("FindByID", ctx, "f-1").Return(&model.Folder{
			ID:          "f-1",
			Title:       "Old",
			Departments: []string{"Finance"},
		}, nil)
		m.folders.On("Update", ctx, mock.MatchedBy(func(f *model.Folder) bool {
			return f.Title == "New"
		})).Return(nil)

		folder, err := svc.Update(ctx, "f-1", UpdateFolderInput{Title: "New"})

		assert.NoError(t, err)
		assert.Equal(t, []string{"Finance"}, folder.Departments)
		m.folders.AssertNotCalled(t, "ReplaceDepartments", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("explicit empty list clears the set", func(t *testing.T) {
		svc, m := newFolderService(t)
		empty := []string{}

		m.folders.On("FindByID", ctx, "f-1").Return(&model.Folder{
			ID:          "f-1",
			Title:       "Old",
			Departments: []string{"Finance"},
		}, nil)
		m.folders.On("ReplaceDepartments", ctx, "f-1", []string{}).Return(nil)
		m.folders.On("Update", ctx, mock.Anything).Return(nil)

		folder, err := svc.Update(ctx, "f-1", UpdateFolderInput{Departments: &empty})

		assert.NoError(t, err)
		assert.Empty(t, folder.Departments)
		m.folders.AssertExpectations(t)
	})

	t.Run("blank title keeps the old one", func(t *testing.T) {
		svc, m := newFolderService(t)

		m.folders.On("FindByID", ctx, "f-1").Return(&model.Folder{
			ID:    "f-1",
			Title: "Old",
		}, nil)
		m.folders.On("Update", ctx, mock.MatchedBy(func(f *model.Folder) bool {
			return f.Title == "Old"
		})).Return(nil)

		_, err := svc.Update(ctx, "f-1", UpdateFolderInput{})

		assert.NoError(t, err)
		m.folders.AssertExpectations(t)
	})

	t.Run("unknown folder", func(t *testing.T) {
		svc, m := newFolderService(t)

		m.folders.On("FindByID", ctx, "f-404").Return(nil, sql.ErrNoRows)

		_, err := svc.Update(ctx, "f-404", UpdateFolderInput{Title: "New"})

		assert.ErrorIs(t, err, ErrFolderNotFound)
	})
}

func TestFolderService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes contained documents first", func(t *testing.T) {
		svc, m := newFolderService(t)

		m.folders.On("FindByID", ctx, "f-1").Return(&model.Folder{ID: "f-1"}, nil)
		m.docs.On("ListByFolder", ctx, "f-1").Return([]model.Document{
			{ID: "doc-1"},
			{ID: "doc-2"},
		}, nil)
		m.documents.On("Delete", ctx, "doc-1").Return(nil)
		m.documents.On("Delete", ctx, "doc-2").Return(nil)
		m.folders.On("Delete", ctx, "f-1").Return(nil)

		assert.NoError(t, svc.Delete(ctx, "f-1"))
		m.documents.AssertExpectations(t)
		m.folders.AssertExpectations(t)
	})

	t.Run("already removed documents are skipped", func(t *testing.T) {
		svc, m := newFolderService(t)

		m.folders.On("FindByID", ctx, "f-1").Return(&model.Folder{ID: "f-1"}, nil)
		m.docs.On("ListByFolder", ctx, "f-1").Return([]model.Document{{ID: "doc-1"}}, nil)
		m.documents.On("Delete", ctx, "doc-1").Return(ErrDocumentNotFound)
		m.folders.On("Delete", ctx, "f-1").Return(nil)

		assert.NoError(t, svc.Delete(ctx, "f-1"))
	})

	t.Run("document deletion failure aborts the cascade", func(t *testing.T) {
		svc, m := newFolderService(t)

		m.folders.On("FindByID", ctx, "f-1").Return(&model.Folder{ID: "f-1"}, nil)
		m.docs.On("ListByFolder", ctx, "f-1").Return([]model.Document{{ID: "doc-1"}}, nil)
		m.documents.On("Delete", ctx, "doc-1").Return(errors.New("db down"))

		assert.Error(t, svc.Delete(ctx, "f-1"))
		m.folders.AssertNotCalled(t, "Delete", ctx, "f-1")
	})

	t.Run("unknown folder", func(t *testing.T) {
		svc, m := newFolderService(t)

		m.folders.On("FindByID", ctx, "f-404").Return(nil, sql.ErrNoRows)

		assert.ErrorIs(t, svc.Delete(ctx, "f-404"), ErrFolderNotFound)
		m.docs.AssertNotCalled(t, "ListByFolder", mock.Anything, mock.Anything)
	})
}

func TestFolderService_ListByDepartment(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates with a single name", func(t *testing.T) {
		svc, m := newFolderService(t)

		m.folders.On("ListByDepartments", ctx, []string{"Finance"}).
			Return([]model.Folder{{ID: "f-1"}}, nil)

		folders, err := svc.ListByDepartment(ctx, "Finance")

		assert.NoError(t, err)
		assert.Len(t, folders, 1)
	})

	t.Run("blank name yields empty result", func(t *testing.T) {
		svc, m := newFolderService(t)

		folders, err := svc.ListByDepartment(ctx, "  ")

		assert.NoError(t, err)
		assert.Empty(t, folders)
		m.folders.AssertNotCalled(t, "ListByDepartments", mock.Anything, mock.Anything)
	})
}
