package server

import (
	"errors"
	"math"
	"strconv"

	"blog/internal/flash"
	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/repository"
	"blog/internal/service"
	"blog/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// parseID reads the {id} route segment. The router already restricts it to
// digits; values that overflow uint cannot name a stored post.
func parseID(c *fiber.Ctx) (uint, error) {
	n, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || n == 0 || n > math.MaxUint {
		return 0, models.NewPostNotFoundError(0)
	}
	return uint(n), nil
}

// repos binds the repositories to the request transaction.
func (s *Server) repos(c *fiber.Ctx) *repository.Repositories {
	return repository.New(middleware.Tx(c, s.db))
}

func (s *Server) postSvc(c *fiber.Ctx) *service.PostService {
	r := s.repos(c)
	return service.NewPostService(r.Posts, r.Authors)
}

func (s *Server) commentSvc(c *fiber.Ctx) *service.CommentService {
	return service.NewCommentService(s.repos(c).Comments)
}

func (s *Server) authorSvc(c *fiber.Ctx) *service.AuthorService {
	return service.NewAuthorService(s.repos(c).Authors)
}

// render writes a page with the visitor's pending notices.
func (s *Server) render(c *fiber.Ctx, status int, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Flashes"] = flash.Consume(c, s.flashStore)
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = validation.FieldErrors(nil)
	}
	return c.Status(status).Render(view, data)
}

// asFieldErrors reports whether err carries form validation errors.
func asFieldErrors(err error) (validation.FieldErrors, bool) {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func redirectToPost(c *fiber.Ctx, id uint) error {
	return c.Redirect("/post/"+strconv.FormatUint(uint64(id), 10), fiber.StatusSeeOther)
}
