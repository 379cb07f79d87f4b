package validation

import (
	"strconv"
	"strings"
	"time"

	"blog/internal/models"
)

// PostForm is the submitted create/edit post form.
type PostForm struct {
	Title       string `form:"title"`
	Body        string `form:"body"`
	PublishedAt string `form:"published_at"`
	AuthorID    string `form:"author_id"`
	Image       string `form:"image"`
}

// PostInput is a validated PostForm.
type PostInput struct {
	Title       string
	Body        string
	PublishedAt time.Time
	AuthorID    *uint
	Image       string
}

// PostFormFromModel pre-fills the edit form from a stored post.
func PostFormFromModel(p *models.Post) PostForm {
	form := PostForm{
		Title:       p.Title,
		Body:        p.Body,
		PublishedAt: p.PublishedAt.UTC().Format(PublishedAtLayouts[0]),
		Image:       p.Image,
	}
	if p.AuthorID != nil {
		form.AuthorID = strconv.FormatUint(uint64(*p.AuthorID), 10)
	}
	return form
}

// Validate checks the form. published_at is only checked on creation; edits
// never change it.
func (f *PostForm) Validate(creating bool) (*PostInput, FieldErrors) {
	errs := FieldErrors{}
	in := &PostInput{
		Title: strings.TrimSpace(f.Title),
		Body:  strings.TrimSpace(f.Body),
		Image: strings.TrimSpace(f.Image),
	}

	if required(errs, "title", in.Title) {
		maxLength(errs, "title", in.Title, MaxTitleLength)
	}
	required(errs, "body", in.Body)

	if creating && required(errs, "published_at", f.PublishedAt) {
		t, err := ParsePublishedAt(f.PublishedAt)
		if err != nil {
			errs.Add("published_at", "Please enter a valid date and time.")
		} else {
			in.PublishedAt = t
		}
	}

	authorID, err := ParseAuthorID(f.AuthorID)
	if err != nil {
		errs.Add("author_id", "Please choose a valid author.")
	} else {
		in.AuthorID = authorID
	}

	if in.Image != "" {
		maxLength(errs, "image", in.Image, MaxImageLength)
		if !validImageURL(in.Image) {
			errs.Add("image", "This value is not a valid URL.")
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return in, nil
}

// Apply copies the editable fields onto p. PublishedAt is left alone.
func (in *PostInput) Apply(p *models.Post) {
	p.Title = in.Title
	p.Body = in.Body
	p.Image = in.Image
	p.AuthorID = in.AuthorID
	p.Author = nil
}
