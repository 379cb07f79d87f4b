package server

import (
	"errors"
	"log/slog"

	"blog/internal/middleware"
	"blog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error returned by a handler as an HTML error page.
func (s *Server) ErrorHandler(c *fiber.Ctx, err error) error {
	status := models.HTTPStatus(err)
	message := models.PublicMessage(err)

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code == fiber.StatusNotFound {
		message = "Page not found."
	}

	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.Int("status", status),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	renderErr := c.Status(status).Render("error", fiber.Map{
		"Title":   message,
		"Status":  status,
		"Message": message,
	})
	if renderErr != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "failed to render error page", slog.String("error", renderErr.Error()))
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(status).SendString(message)
	}
	return nil
}
