package handler

import (
	"github.com/gofiber/fiber/v2"

	"arkive/internal/service"
)

type createFolderRequest struct {
	Title       string   `json:"title"`
	Department  string   `json:"department"`
	Departments []string `json:"departments"`
}

// updateFolderRequest distinguishes an absent departments field from an
// explicit empty list: only a present field replaces the association set.
type updateFolderRequest struct {
	Title       string    `json:"title"`
	Departments *[]string `json:"departments"`
}

// ListFolders handles GET /api/folders.
//
// @Summary List folders
// @Tags folders
// @Produce json
// @Success 200 {object} handler.Response
// @Router /api/folders [get]
func ListFolders(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		folders, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "folders retrieved", folders)
	}
}

// GetFolder handles GET /api/folders/:id.
//
// @Summary Get a folder by id
// @Tags folders
// @Produce json
// @Param id path string true "folder id"
// @Success 200 {object} handler.Response
// @Failure 404 {object} handler.Response
// @Router /api/folders/{id} [get]
func GetFolder(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		folder, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "folder retrieved", folder)
	}
}

// CreateFolder handles POST /api/folders.
//
// @Summary Create a folder
// @Tags folders
// @Accept json
// @Produce json
// @Success 201 {object} handler.Response
// @Failure 400 {object} handler.Response
// @Router /api/folders [post]
func CreateFolder(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createFolderRequest
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "invalid request body")
		}

		folder, err := svc.Create(c.UserContext(), service.CreateFolderInput{
			Title:       req.Title,
			Department:  req.Department,
			Departments: req.Departments,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusCreated, "folder created", folder)
	}
}

// UpdateFolder handles PUT /api/folders/:id.
//
// @Summary Update a folder
// @Tags folders
// @Accept json
// @Produce json
// @Param id path string true "folder id"
// @Success 200 {object} handler.Response
// @Failure 404 {object} handler.Response
// @Router /api/folders/{id} [put]
func UpdateFolder(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateFolderRequest
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "invalid request body")
		}

		folder, err := svc.Update(c.UserContext(), c.Params("id"), service.UpdateFolderInput{
			Title:       req.Title,
			Departments: req.Departments,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "folder updated", folder)
	}
}

// DeleteFolder handles DELETE /api/folders/:id, deleting the folder's
// documents first.
//
// @Summary Delete a folder and its documents
// @Tags folders
// @Produce json
// @Param id path string true "folder id"
// @Success 200 {object} handler.Response
// @Failure 404 {object} handler.Response
// @Router /api/folders/{id} [delete]
func DeleteFolder(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "folder deleted", nil)
	}
}

// ListFoldersByDepartment handles GET /api/folders/department/:name.
func ListFoldersByDepartment(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		folders, err := svc.ListByDepartment(c.UserContext(), c.Params("name"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "folders retrieved", folders)
	}
}

// ListFoldersByDepartments handles GET /api/folders/departments.
func ListFoldersByDepartments(svc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		folders, err := svc.ListByDepartments(c.UserContext(), queryNames(c, "departments"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "folders retrieved", folders)
	}
}
