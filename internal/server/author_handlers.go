package server

import "github.com/gofiber/fiber/v2"

// ListAuthors renders every author ordered by last name.
func (s *Server) ListAuthors(c *fiber.Ctx) error {
	authors, err := s.authorSvc(c).ListAuthors(c.UserContext())
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "author/list", fiber.Map{
		"Title":   "Authors",
		"Authors": authors,
	})
}
