package handler

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"arkive/internal/service"
)

type updateDocumentRequest struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Department  string   `json:"department"`
	Departments []string `json:"departments"`
	FolderID    *string  `json:"folderId"`
	OwnerID     string   `json:"ownerId"`
	OwnerName   string   `json:"ownerName"`
	URL         string   `json:"url"`
}

type filterDocumentsRequest struct {
	Departments []string `json:"departments"`
	NoFolderID  bool     `json:"noFolderId"`
}

// ListDocuments handles GET /api/documents.
//
// @Summary List documents
// @Tags documents
// @Produce json
// @Success 200 {object} handler.Response
// @Router /api/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "documents retrieved", docs)
	}
}

// GetDocument handles GET /api/documents/:id.
//
// @Summary Get a document by id
// @Tags documents
// @Produce json
// @Param id path string true "document id"
// @Success 200 {object} handler.Response
// @Failure 404 {object} handler.Response
// @Router /api/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "document retrieved", doc)
	}
}

// CreateDocument handles POST /api/documents (multipart/form-data). The file
// part is optional: a document may carry an external url or no file at all.
//
// @Summary Create a document
// @Tags documents
// @Accept mpfd
// @Produce json
// @Param title formData string true "title"
// @Param category formData string false "category"
// @Param departments formData []string false "department names"
// @Param folderId formData string false "folder id"
// @Param file formData file false "attached file"
// @Success 201 {object} handler.Response
// @Failure 400 {object} handler.Response
// @Router /api/documents [post]
func CreateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := service.CreateDocumentInput{
			Title:       c.FormValue("title"),
			Category:    c.FormValue("category"),
			Department:  c.FormValue("department"),
			Departments: formNames(c, "departments"),
			OwnerID:     c.FormValue("ownerId"),
			OwnerName:   c.FormValue("ownerName"),
			URL:         c.FormValue("url"),
		}
		if v := c.FormValue("folderId"); v != "" {
			in.FolderID = &v
		}

		fh, err := c.FormFile("file")
		if err == nil && fh != nil {
			f, err := fh.Open()
			if err != nil {
				return fail(c, fiber.StatusBadRequest, "cannot open uploaded file")
			}
			defer f.Close()

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			in.File = f
			in.Filename = fh.Filename
			in.ContentType = ct
			in.Size = fh.Size
		}

		doc, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeCreateError(c, err)
		}
		return ok(c, fiber.StatusCreated, "document created", doc)
	}
}

// UpdateDocument handles PUT /api/documents/:id. Omitting folderId detaches
// the document from its folder.
//
// @Summary Update a document
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "document id"
// @Success 200 {object} handler.Response
// @Failure 400 {object} handler.Response
// @Failure 404 {object} handler.Response
// @Router /api/documents/{id} [put]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "invalid request body")
		}

		names := req.Departments
		if len(names) == 0 && req.Department != "" {
			names = []string{req.Department}
		}

		doc, err := svc.Update(c.UserContext(), c.Params("id"), service.UpdateDocumentInput{
			Title:       req.Title,
			Category:    req.Category,
			Departments: names,
			FolderID:    req.FolderID,
			OwnerID:     req.OwnerID,
			OwnerName:   req.OwnerName,
			URL:         req.URL,
		})
		if err != nil {
			return writeCreateError(c, err)
		}
		return ok(c, fiber.StatusOK, "document updated", doc)
	}
}

// DeleteDocument handles DELETE /api/documents/:id.
//
// @Summary Delete a document
// @Tags documents
// @Produce json
// @Param id path string true "document id"
// @Success 200 {object} handler.Response
// @Failure 404 {object} handler.Response
// @Router /api/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "document deleted", nil)
	}
}

// DownloadDocument handles GET /api/documents/download/:id, streaming the
// attached file with a content-disposition header carrying the original
// filename.
//
// @Summary Download a document's file
// @Tags documents
// @Produce octet-stream
// @Param id path string true "document id"
// @Success 200 {file} file
// @Failure 404 {object} handler.Response
// @Router /api/documents/download/{id} [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := svc.Download(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}

		filename := info.OriginalFilename
		if filename == "" {
			filename = info.Key
		}
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		if info.Size > 0 {
			return c.SendStream(rc, int(info.Size))
		}
		return c.SendStream(rc)
	}
}

// DocumentURL handles GET /api/documents/url/:id, returning a time-bounded
// direct link to the attached file.
//
// @Summary Get a presigned url for a document's file
// @Tags documents
// @Produce json
// @Param id path string true "document id"
// @Success 200 {object} handler.Response
// @Failure 404 {object} handler.Response
// @Router /api/documents/url/{id} [get]
func DocumentURL(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.PresignedURL(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "url generated", fiber.Map{"url": u})
	}
}

// ListDocumentsByFolder handles GET /api/documents/folder/:folderId.
func ListDocumentsByFolder(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.ListByFolder(c.UserContext(), c.Params("folderId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "documents retrieved", docs)
	}
}

// ListDocumentsByDepartment handles GET /api/documents/department/:name,
// matching on the primary department only.
func ListDocumentsByDepartment(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.ListByDepartment(c.UserContext(), c.Params("name"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "documents retrieved", docs)
	}
}

// ListDocumentsByDepartments handles GET /api/documents/departments,
// matching any membership in the given department names.
func ListDocumentsByDepartments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.ListByDepartments(c.UserContext(), queryNames(c, "departments"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "documents retrieved", docs)
	}
}

// ListDocumentsByCategory handles GET /api/documents/category/:category.
func ListDocumentsByCategory(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.ListByCategory(c.UserContext(), c.Params("category"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "documents retrieved", docs)
	}
}

// FilterDocuments handles POST /api/documents/filter with a JSON body, and
// GET /api/documents/filter with query parameters. An empty department list
// yields an empty result.
//
// @Summary Filter documents by departments and folder presence
// @Tags documents
// @Accept json
// @Produce json
// @Success 200 {object} handler.Response
// @Router /api/documents/filter [post]
func FilterDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req filterDocumentsRequest
		if c.Method() == fiber.MethodPost {
			if err := c.BodyParser(&req); err != nil {
				return fail(c, fiber.StatusBadRequest, "invalid request body")
			}
		} else {
			req.Departments = queryNames(c, "departments")
			req.NoFolderID = c.QueryBool("noFolderId")
		}

		docs, err := svc.Filter(c.UserContext(), req.Departments, req.NoFolderID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "documents retrieved", docs)
	}
}

// queryNames reads a repeatable query parameter, also splitting
// comma-separated values, and drops blanks.
func queryNames(c *fiber.Ctx, key string) []string {
	raw := c.Context().QueryArgs().PeekMulti(key)
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		values = append(values, string(v))
	}
	return splitNames(values)
}

// formNames reads a repeatable multipart/urlencoded form field the same way.
func formNames(c *fiber.Ctx, key string) []string {
	form, err := c.MultipartForm()
	if err == nil && form != nil && len(form.Value[key]) > 0 {
		return splitNames(form.Value[key])
	}
	if v := c.FormValue(key); v != "" {
		return splitNames([]string{v})
	}
	return nil
}

func splitNames(values []string) []string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				names = append(names, part)
			}
		}
	}
	return names
}
