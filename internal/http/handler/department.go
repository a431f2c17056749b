package handler

import (
	"github.com/gofiber/fiber/v2"

	"arkive/internal/service"
)

// ListDepartments handles GET /api/departments.
//
// @Summary List departments
// @Tags departments
// @Produce json
// @Success 200 {object} handler.Response
// @Router /api/departments [get]
func ListDepartments(svc service.DepartmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		departments, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return ok(c, fiber.StatusOK, "departments retrieved", departments)
	}
}
