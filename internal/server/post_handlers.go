package server

import (
	"fmt"
	"time"

	"blog/internal/flash"
	"blog/internal/models"
	"blog/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ListPosts renders every post, newest first.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := s.postSvc(c).ListPosts(c.UserContext())
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "post/list", fiber.Map{
		"Title": "Posts",
		"Posts": posts,
	})
}

// ShowPost renders one post with its comments and an empty comment form.
func (s *Server) ShowPost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	post, err := s.postSvc(c).GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	return s.renderShow(c, fiber.StatusOK, post, validation.CommentForm{}, nil)
}

// AddComment attaches a comment to the post and redirects back to it.
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	post, err := s.postSvc(c).GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}

	var form validation.CommentForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed form submission.")
	}

	if _, err := s.commentSvc(c).CreateComment(c.UserContext(), post, form); err != nil {
		if fe, ok := asFieldErrors(err); ok {
			return s.renderShow(c, fiber.StatusUnprocessableEntity, post, form, fe)
		}
		return err
	}

	flash.Add(c, flash.LevelSuccess, "Comment added.")
	return redirectToPost(c, post.ID)
}

func (s *Server) renderShow(c *fiber.Ctx, status int, post *models.Post, form validation.CommentForm, errs validation.FieldErrors) error {
	return s.render(c, status, "post/show", fiber.Map{
		"Title":  post.Title,
		"Post":   post,
		"Form":   form,
		"Errors": errs,
	})
}

// NewPostForm renders an empty creation form.
func (s *Server) NewPostForm(c *fiber.Ctx) error {
	form := validation.PostForm{
		PublishedAt: time.Now().UTC().Format(validation.PublishedAtLayouts[0]),
	}
	return s.renderPostForm(c, fiber.StatusOK, nil, form, nil)
}

// CreatePost inserts a post and redirects to it.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var form validation.PostForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed form submission.")
	}

	post, err := s.postSvc(c).CreatePost(c.UserContext(), form)
	if err != nil {
		if fe, ok := asFieldErrors(err); ok {
			return s.renderPostForm(c, fiber.StatusUnprocessableEntity, nil, form, fe)
		}
		return err
	}

	flash.Add(c, flash.LevelSuccess, "Post created.")
	return redirectToPost(c, post.ID)
}

// EditPostForm renders the edit form pre-filled from the stored post.
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	post, err := s.postSvc(c).GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	return s.renderPostForm(c, fiber.StatusOK, post, validation.PostFormFromModel(post), nil)
}

// UpdatePost binds the submitted fields onto the post and redirects to it.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var form validation.PostForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed form submission.")
	}

	post, err := s.postSvc(c).UpdatePost(c.UserContext(), id, form)
	if err != nil {
		if fe, ok := asFieldErrors(err); ok && post != nil {
			return s.renderPostForm(c, fiber.StatusUnprocessableEntity, post, form, fe)
		}
		return err
	}

	flash.Add(c, flash.LevelSuccess, "Post updated.")
	return redirectToPost(c, post.ID)
}

// DeletePost removes the post with its comments and redirects to the list.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	removed, err := s.postSvc(c).DeletePost(c.UserContext(), id)
	if err != nil {
		return err
	}

	flash.Add(c, flash.LevelSuccess, "Post deleted.")
	if removed > 0 {
		flash.Add(c, flash.LevelWarning, fmt.Sprintf("%d %s removed with it.", removed, commentsWord(removed)))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// renderPostForm renders the create form when post is nil, the edit form otherwise.
func (s *Server) renderPostForm(c *fiber.Ctx, status int, post *models.Post, form validation.PostForm, errs validation.FieldErrors) error {
	authors, err := s.authorSvc(c).ListAuthors(c.UserContext())
	if err != nil {
		return err
	}

	data := fiber.Map{
		"Form":    form,
		"Errors":  errs,
		"Authors": authors,
	}
	if post == nil {
		data["Title"] = "New post"
		data["Action"] = "/post/create"
		data["Creating"] = true
		data["Submit"] = "Create"
		return s.render(c, status, "post/create", data)
	}

	data["Title"] = "Edit " + post.Title
	data["Action"] = fmt.Sprintf("/post/update/%d", post.ID)
	data["Post"] = post
	data["Submit"] = "Save"
	return s.render(c, status, "post/update", data)
}

func commentsWord(n int64) string {
	if n == 1 {
		return "comment"
	}
	return "comments"
}
