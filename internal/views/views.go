// Package views renders the blog's HTML pages with the Fiber html template
// engine. Templates and the stylesheet are embedded in the binary.
package views

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Layout wraps every page; pages are injected with {{embed}}.
const Layout = "layout"

var functions = map[string]interface{}{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006, 15:04")
	},
	"formatDatePtr": func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006, 15:04")
	},
	"fieldError": func(errs map[string]string, field string) string {
		return errs[field]
	},
	"pluralize": func(n int, singular, plural string) string {
		if n == 1 {
			return singular
		}
		return plural
	},
	"excerpt": func(s string, max int) string {
		runes := []rune(s)
		if len(runes) <= max {
			return s
		}
		return strings.TrimSpace(string(runes[:max])) + "…"
	},
}

// New returns an engine over the embedded templates. Pages are named by their
// path without extension, e.g. "post/show"; partials live under "partials/".
func New() *html.Engine {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFuncMap(functions)
	return engine
}

// Static returns the embedded stylesheet directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
