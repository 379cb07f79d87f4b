// Package flash implements one-time notices that survive a redirect.
//
// Handlers queue notices with Add during a request. Once the request finished
// without error (and its transaction committed), Middleware moves them into a
// Store keyed by the visitor's session cookie. The next page render drains them,
// so each notice is shown exactly once.
package flash

import (
	"context"
	"log/slog"
	"time"

	"blog/internal/middleware"
	"blog/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Level is the severity of a notice, also used as its CSS class.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a single message shown once to a visitor.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Store persists notices per session until they are drained.
type Store interface {
	Push(ctx context.Context, session string, notices ...Notice) error
	Drain(ctx context.Context, session string) ([]Notice, error)
}

const (
	pendingLocalsKey = "flash.pending"
	sessionLocalsKey = "flash.session"
)

// Config configures Middleware.
type Config struct {
	Store      Store
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Add queues a notice to be persisted when the current request succeeds.
func Add(c *fiber.Ctx, level Level, message string) {
	pending, _ := c.Locals(pendingLocalsKey).([]Notice)
	c.Locals(pendingLocalsKey, append(pending, Notice{Level: level, Message: message}))
}

// Pending returns the notices queued during the current request.
func Pending(c *fiber.Ctx) []Notice {
	pending, _ := c.Locals(pendingLocalsKey).([]Notice)
	return pending
}

// SessionID returns the visitor session assigned by Middleware.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionLocalsKey).(string)
	return id
}

// Consume drains the stored notices for the current session. Failures are
// logged and yield no notices; a missing notice never breaks a page.
func Consume(c *fiber.Ctx, store Store) []Notice {
	session := SessionID(c)
	if session == "" || store == nil {
		return nil
	}
	notices, err := store.Drain(c.UserContext(), session)
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to drain flash notices", slog.String("error", err.Error()))
		return nil
	}
	return notices
}

// Middleware assigns a session cookie and persists notices queued by handlers.
func Middleware(cfg Config) fiber.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = "blog_session"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}

	return func(c *fiber.Ctx) error {
		session := c.Cookies(cfg.CookieName)
		if _, err := uuid.Parse(session); err != nil {
			session = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     cfg.CookieName,
				Value:    session,
				Path:     "/",
				HTTPOnly: true,
				Secure:   cfg.Secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(sessionLocalsKey, session)
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.SessionIDKey, session))

		err := c.Next()
		if err != nil || c.Response().StatusCode() >= fiber.StatusInternalServerError {
			return err
		}

		pending := Pending(c)
		if len(pending) == 0 || cfg.Store == nil {
			return nil
		}
		if pushErr := cfg.Store.Push(c.UserContext(), session, pending...); pushErr != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to persist flash notices",
				slog.Int("count", len(pending)),
				slog.String("error", pushErr.Error()),
			)
			return nil
		}
		for _, n := range pending {
			observability.FlashNotices.WithLabelValues(string(n.Level)).Inc()
		}
		return nil
	}
}
