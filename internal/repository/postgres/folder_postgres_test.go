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

func TestFolderPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFolderPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	folder := &model.Folder{
		ID:        "f-1",
		Title:     "Invoices",
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Run("inserts folder and associations in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO folders").
			WithArgs(folder.ID, folder.Title, folder.CreatedAt, folder.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO folder_departments").
			WithArgs("f-1", "dep-1", 0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO folder_departments").
			WithArgs("f-1", "dep-2", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Create(ctx, folder, []string{"dep-1", "dep-2"})

		assert.NoError(t, err)
	})

	t.Run("duplicate department ids are collapsed", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO folders").
			WithArgs(folder.ID, folder.Title, folder.CreatedAt, folder.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO folder_departments").
			WithArgs("f-1", "dep-1", 0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Create(ctx, folder, []string{"dep-1", "dep-1"})

		assert.NoError(t, err)
	})

	t.Run("association failure rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO folders").
			WithArgs(folder.ID, folder.Title, folder.CreatedAt, folder.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO folder_departments").
			WithArgs("f-1", "dep-1", 0).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		err := repo.Create(ctx, folder, []string{"dep-1"})

		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFolderPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFolderPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	cols := []string{"id", "title", "created_at", "updated_at", "name"}

	t.Run("groups joined department rows", func(t *testing.T) {
		rows := sqlmock.NewRows(cols).
			AddRow("f-1", "Invoices", now, now, "Finance").
			AddRow("f-1", "Invoices", now, now, "Legal")

		mock.ExpectQuery("SELECT f.id, f.title").
			WithArgs("f-1").
			WillReturnRows(rows)

		folder, err := repo.FindByID(ctx, "f-1")

		assert.NoError(t, err)
		assert.Equal(t, []string{"Finance", "Legal"}, folder.Departments)
	})

	t.Run("folder without departments", func(t *testing.T) {
		rows := sqlmock.NewRows(cols).
			AddRow("f-2", "Empty", now, now, nil)

		mock.ExpectQuery("SELECT f.id, f.title").
			WithArgs("f-2").
			WillReturnRows(rows)

		folder, err := repo.FindByID(ctx, "f-2")

		assert.NoError(t, err)
		assert.Empty(t, folder.Departments)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT f.id, f.title").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(cols))

		folder, err := repo.FindByID(ctx, "missing")

		assert.Nil(t, folder)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFolderPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFolderPostgres(db)
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM folders WHERE id").
			WithArgs("f-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "f-1"))
	})

	t.Run("missing row maps to no rows", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM folders WHERE id").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, "missing"), sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFolderPostgres_ListByDepartments(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFolderPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("lowercases the arguments", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "title", "created_at", "updated_at", "name"}).
			AddRow("f-1", "Invoices", now, now, "Finance")

		mock.ExpectQuery("SELECT f.id, f.title").
			WithArgs("finance", "legal").
			WillReturnRows(rows)

		folders, err := repo.ListByDepartments(ctx, []string{"Finance", "LEGAL"})

		assert.NoError(t, err)
		assert.Len(t, folders, 1)
	})

	t.Run("empty names short-circuits", func(t *testing.T) {
		folders, err := repo.ListByDepartments(ctx, nil)

		assert.NoError(t, err)
		assert.Empty(t, folders)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
