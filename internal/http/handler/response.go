package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"arkive/internal/service"
)

// Response is the uniform envelope returned by every JSON endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func ok(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Success: true, Message: message, Data: data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: false, Message: message, Data: nil})
}

// writeServiceError translates service sentinel errors into the envelope with
// an HTTP status class: 404 for missing resources, 400 for invalid arguments,
// 500 for upstream/internal failures. Internal details never leak into the
// message.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound),
		errors.Is(err, service.ErrFolderNotFound),
		errors.Is(err, service.ErrNoFileAttached),
		errors.Is(err, service.ErrFileMissing):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrIDRequired),
		errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrDepartmentsRequired),
		errors.Is(err, service.ErrDepartmentNameRequired),
		errors.Is(err, service.ErrEmptyFile):
		return fail(c, fiber.StatusBadRequest, err.Error())
	default:
		return fail(c, fiber.StatusInternalServerError, "internal server error")
	}
}

// writeCreateError is writeServiceError with one twist: during create/update a
// missing folder is the caller's mistake, not a missing resource, so it maps
// to 400.
func writeCreateError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrFolderNotFound) {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	return writeServiceError(c, err)
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses for anything handlers did not translate themselves.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return fail(c, status, "bad request")
		case fiber.StatusNotFound:
			return fail(c, status, "resource not found")
		case fiber.StatusMethodNotAllowed:
			return fail(c, status, "method not allowed")
		default:
			return fail(c, status, "internal server error")
		}
	}
}
