package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"arkive/internal/model"
)

var documentCols = []string{
	"id", "title", "category", "folder_id", "owner_id", "owner_name",
	"storage_key", "created_at", "updated_at", "name",
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	folderID := "f-1"
	doc := &model.Document{
		ID:         "doc-1",
		Title:      "Q3 Report",
		Category:   "reports",
		FolderID:   &folderID,
		OwnerID:    "u-1",
		OwnerName:  "Alice",
		StorageKey: "3f0e-report.pdf",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	t.Run("inserts document and associations", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO documents").
			WithArgs(doc.ID, doc.Title, doc.Category, doc.FolderID, doc.OwnerID, doc.OwnerName,
				doc.StorageKey, doc.CreatedAt, doc.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO document_departments").
			WithArgs("doc-1", "dep-1", 0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Create(ctx, doc, []string{"dep-1"})

		assert.NoError(t, err)
	})

	t.Run("empty optional fields become null", func(t *testing.T) {
		bare := &model.Document{
			ID:         "doc-2",
			Title:      "Bare",
			StorageKey: model.NoFileKey,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO documents").
			WithArgs(bare.ID, bare.Title, nil, nil, nil, nil,
				bare.StorageKey, bare.CreatedAt, bare.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Create(ctx, bare, nil)

		assert.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("groups joined department rows", func(t *testing.T) {
		rows := sqlmock.NewRows(documentCols).
			AddRow("doc-1", "Q3 Report", "reports", "f-1", "u-1", "Alice", "key.pdf", now, now, "Finance").
			AddRow("doc-1", "Q3 Report", "reports", "f-1", "u-1", "Alice", "key.pdf", now, now, "Legal")

		mock.ExpectQuery("SELECT d.id, d.title").
			WithArgs("doc-1").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "doc-1")

		assert.NoError(t, err)
		assert.Equal(t, []string{"Finance", "Legal"}, doc.Departments)
		assert.NotNil(t, doc.FolderID)
		assert.Equal(t, "f-1", *doc.FolderID)
	})

	t.Run("null folder id stays nil", func(t *testing.T) {
		rows := sqlmock.NewRows(documentCols).
			AddRow("doc-2", "Loose", nil, nil, nil, nil, "no-file-attached", now, now, nil)

		mock.ExpectQuery("SELECT d.id, d.title").
			WithArgs("doc-2").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "doc-2")

		assert.NoError(t, err)
		assert.Nil(t, doc.FolderID)
		assert.Empty(t, doc.Departments)
		assert.False(t, doc.HasFile())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT d.id, d.title").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(documentCols))

		doc, err := repo.FindByID(ctx, "missing")

		assert.Nil(t, doc)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("missing row maps to no rows", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents").
			WithArgs("New", nil, nil, nil, nil, "no-file-attached", now, "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, &model.Document{
			ID:         "missing",
			Title:      "New",
			StorageKey: model.NoFileKey,
			UpdatedAt:  now,
		})

		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Filter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("membership only", func(t *testing.T) {
		rows := sqlmock.NewRows(documentCols).
			AddRow("doc-1", "Q3 Report", nil, "f-1", nil, nil, "key.pdf", now, now, "Finance")

		mock.ExpectQuery(`SELECT d.id, d.title(.+)WHERE d.id IN`).
			WithArgs("finance").
			WillReturnRows(rows)

		docs, err := repo.Filter(ctx, []string{"Finance"}, false)

		assert.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("excluding filed documents adds the folder predicate", func(t *testing.T) {
		rows := sqlmock.NewRows(documentCols).
			AddRow("doc-2", "Loose", nil, nil, nil, nil, "key2.pdf", now, now, "Finance")

		mock.ExpectQuery(`WHERE d.id IN (.+) AND d.folder_id IS NULL`).
			WithArgs("finance").
			WillReturnRows(rows)

		docs, err := repo.Filter(ctx, []string{"Finance"}, true)

		assert.NoError(t, err)
		assert.Len(t, docs, 1)
		assert.Nil(t, docs[0].FolderID)
	})

	t.Run("empty names short-circuits", func(t *testing.T) {
		docs, err := repo.Filter(ctx, nil, true)

		assert.NoError(t, err)
		assert.Empty(t, docs)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLowerInClause(t *testing.T) {
	clause, args := lowerInClause("p.name", []string{"Finance", "LEGAL"}, 3)

	assert.Equal(t, "lower(p.name) IN ($3,$4)", clause)
	assert.Equal(t, []any{"finance", "legal"}, args)
}

func TestDedup(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, dedup([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, dedup(nil))
}
