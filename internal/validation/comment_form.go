package validation

import "strings"

// CommentForm is the comment form on the post detail page.
type CommentForm struct {
	Username string `form:"username"`
	Body     string `form:"body"`
}

// Validate trims and checks the form in place.
func (f *CommentForm) Validate() FieldErrors {
	errs := FieldErrors{}
	f.Username = strings.TrimSpace(f.Username)
	f.Body = strings.TrimSpace(f.Body)

	if required(errs, "username", f.Username) {
		maxLength(errs, "username", f.Username, MaxUsernameLength)
	}
	required(errs, "body", f.Body)

	if len(errs) > 0 {
		return errs
	}
	return nil
}
