package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"arkive/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. The auth
// handler guards the /api group; probe, metrics and documentation endpoints
// stay open.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	docSvc service.DocumentService,
	folderSvc service.FolderService,
	deptSvc service.DepartmentService,
	auth fiber.Handler,
) {
	// Health endpoint: checks DB connectivity only.
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return fail(c, fiber.StatusServiceUnavailable, "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe.
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	api := app.Group("/api", auth)

	documents := api.Group("/documents")
	documents.Get("/", ListDocuments(docSvc))
	documents.Post("/", CreateDocument(docSvc))
	documents.Get("/filter", FilterDocuments(docSvc))
	documents.Post("/filter", FilterDocuments(docSvc))
	documents.Get("/departments", ListDocumentsByDepartments(docSvc))
	documents.Get("/department/:name", ListDocumentsByDepartment(docSvc))
	documents.Get("/category/:category", ListDocumentsByCategory(docSvc))
	documents.Get("/folder/:folderId", ListDocumentsByFolder(docSvc))
	documents.Get("/download/:id", DownloadDocument(docSvc))
	documents.Get("/url/:id", DocumentURL(docSvc))
	documents.Get("/:id", GetDocument(docSvc))
	documents.Put("/:id", UpdateDocument(docSvc))
	documents.Delete("/:id", DeleteDocument(docSvc))

	folders := api.Group("/folders")
	folders.Get("/", ListFolders(folderSvc))
	folders.Post("/", CreateFolder(folderSvc))
	folders.Get("/departments", ListFoldersByDepartments(folderSvc))
	folders.Get("/department/:name", ListFoldersByDepartment(folderSvc))
	folders.Get("/:id", GetFolder(folderSvc))
	folders.Put("/:id", UpdateFolder(folderSvc))
	folders.Delete("/:id", DeleteFolder(folderSvc))

	api.Get("/departments", ListDepartments(deptSvc))
}
