// Package validation maps submitted blog forms onto field-level errors.
package validation

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength    = 255
	MaxImageLength    = 255
	MaxUsernameLength = 100
)

// PublishedAtLayouts are the accepted published_at formats, tried in order.
var PublishedAtLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FieldErrors maps a form field name to its error message.
type FieldErrors map[string]string

func (e FieldErrors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// OrNil returns nil when there are no errors so callers can return it as an error.
func (e FieldErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func required(errs FieldErrors, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, "This value should not be blank.")
		return false
	}
	return true
}

func maxLength(errs FieldErrors, field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		errs.Add(field, fmt.Sprintf("This value is too long. It should have %d characters or less.", max))
	}
}

// ParsePublishedAt parses value with the first matching layout, in UTC.
func ParsePublishedAt(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range PublishedAtLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// ParseAuthorID parses an optional author id; an empty value means no author.
func ParseAuthorID(value string) (*uint, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil || n == 0 || n > uint64(^uint(0)) {
		return nil, fmt.Errorf("invalid author id %q", value)
	}
	id := uint(n)
	return &id, nil
}

func validImageURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
