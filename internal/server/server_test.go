package server

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"blog/internal/config"
	"blog/internal/database"
	"blog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	cfg := &config.Config{
		Port:             "0",
		Env:              "test",
		DBDriver:         config.DriverSQLite,
		DBSQLitePath:     filepath.Join(t.TempDir(), "blog.db"),
		DBSchemaMode:     string(database.SchemaModeHybrid),
		SessionCookie:    "blog_session",
		FlashTTLSeconds:  60,
		CommentRateLimit: 5,
	}

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)
	return s, db
}

type client struct {
	t      *testing.T
	s      *Server
	cookie *http.Cookie
}

func (c *client) do(req *http.Request) (*http.Response, string) {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp, err := c.s.App().Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == "blog_session" {
			c.cookie = ck
		}
	}
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	_ = resp.Body.Close()
	return resp, string(body)
}

func (c *client) get(path string) (*http.Response, string) {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func insertPost(t *testing.T, db *gorm.DB, title string, publishedAt time.Time) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Body: "body of " + title, PublishedAt: publishedAt}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestListPosts_NewestFirst(t *testing.T) {
	s, db := newTestServer(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	insertPost(t, db, "Older post", base)
	insertPost(t, db, "Newer post", base.Add(time.Hour))

	c := &client{t: t, s: s}
	resp, body := c.get("/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	newer := strings.Index(body, "Newer post")
	older := strings.Index(body, "Older post")
	require.NotEqual(t, -1, newer)
	require.NotEqual(t, -1, older)
	assert.Less(t, newer, older)
}

func TestListPosts_Empty(t *testing.T) {
	s, _ := newTestServer(t)
	c := &client{t: t, s: s}

	resp, body := c.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No posts yet.")
}

func TestCreatePost(t *testing.T) {
	s, db := newTestServer(t)
	c := &client{t: t, s: s}

	resp, body := c.get("/post/create")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `action="/post/create"`)

	resp, _ = c.post("/post/create", url.Values{
		"title":        {"Hello"},
		"body":         {"First words."},
		"published_at": {"2024-05-01T12:00"},
		"image":        {"https://example.com/a.png"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var post models.Post
	require.NoError(t, db.First(&post).Error)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), post.PublishedAt.UTC())
	assert.Nil(t, post.UpdatedAt)
	assert.Equal(t, fmt.Sprintf("/post/%d", post.ID), resp.Header.Get("Location"))

	_, body = c.get(resp.Header.Get("Location"))
	assert.Contains(t, body, "Post created.")
	assert.Contains(t, body, "First words.")

	_, body = c.get(resp.Header.Get("Location"))
	assert.NotContains(t, body, "Post created.")
}

func TestCreatePost_InvalidFormReRenders(t *testing.T) {
	s, db := newTestServer(t)
	c := &client{t: t, s: s}

	resp, body := c.post("/post/create", url.Values{
		"title":        {""},
		"body":         {"kept body"},
		"published_at": {"not a date"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "field-error")
	assert.Contains(t, body, "kept body")

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreatePost_UnknownAuthor(t *testing.T) {
	s, db := newTestServer(t)
	c := &client{t: t, s: s}

	resp, _ := c.post("/post/create", url.Values{
		"title":        {"Hello"},
		"body":         {"Body"},
		"published_at": {"2024-05-01T12:00"},
		"author_id":    {"42"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestShowPost_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	c := &client{t: t, s: s}

	resp, body := c.get("/post/999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Post not found.")

	for _, path := range []string{"/post/abc", "/post/update/x1", "/post/delete/-1"} {
		resp, body = c.get(path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Contains(t, body, "Page not found.", path)
	}

	resp, _ = c.get("/post/0")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddComment(t *testing.T) {
	s, db := newTestServer(t)
	post := insertPost(t, db, "Commented", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, db.Model(post).Update("nb_likes", 7).Error)
	c := &client{t: t, s: s}
	path := fmt.Sprintf("/post/%d", post.ID)

	resp, _ := c.post(path, url.Values{"username": {"  ana "}, "body": {"Nice post"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, path, resp.Header.Get("Location"))

	var comments []models.Comment
	require.NoError(t, db.Where("post_id = ?", post.ID).Find(&comments).Error)
	require.Len(t, comments, 1)
	assert.Equal(t, "ana", comments[0].Username)
	assert.False(t, comments[0].CreatedAt.IsZero())

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, "Commented", stored.Title)
	assert.Equal(t, "body of Commented", stored.Body)
	assert.Equal(t, 7, stored.NbLikes)
	assert.Equal(t, post.PublishedAt, stored.PublishedAt.UTC())
	assert.Nil(t, stored.UpdatedAt)

	_, body := c.get(path)
	assert.Contains(t, body, "Comment added.")
	assert.Contains(t, body, "Nice post")
}

func TestAddComment_Invalid(t *testing.T) {
	s, db := newTestServer(t)
	post := insertPost(t, db, "Commented", time.Now().UTC())
	c := &client{t: t, s: s}

	resp, body := c.post(fmt.Sprintf("/post/%d", post.ID), url.Values{"username": {"ana"}, "body": {"   "}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "field-error")
	assert.Contains(t, body, `value="ana"`)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddComment_UnknownPost(t *testing.T) {
	s, _ := newTestServer(t)
	c := &client{t: t, s: s}

	resp, body := c.post("/post/12", url.Values{"username": {"ana"}, "body": {"hi"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Post not found.")
}

func TestUpdatePost(t *testing.T) {
	s, db := newTestServer(t)
	published := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	post := insertPost(t, db, "Before", published)
	c := &client{t: t, s: s}

	resp, body := c.get(fmt.Sprintf("/post/update/%d", post.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="Before"`)

	resp, _ = c.post(fmt.Sprintf("/post/update/%d", post.ID), url.Values{
		"title":        {"After"},
		"body":         {"new body"},
		"published_at": {"2030-01-01T00:00"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, "After", stored.Title)
	assert.Equal(t, "new body", stored.Body)
	assert.Equal(t, published, stored.PublishedAt.UTC())
	require.NotNil(t, stored.UpdatedAt)
	assert.False(t, stored.UpdatedAt.Before(stored.PublishedAt))

	_, body = c.get(resp.Header.Get("Location"))
	assert.Contains(t, body, "Post updated.")
}

func TestUpdatePost_Invalid(t *testing.T) {
	s, db := newTestServer(t)
	post := insertPost(t, db, "Before", time.Now().UTC())
	c := &client{t: t, s: s}

	resp, _ := c.post(fmt.Sprintf("/post/update/%d", post.ID), url.Values{
		"title": {strings.Repeat("x", 256)},
		"body":  {"b"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, "Before", stored.Title)
	assert.Nil(t, stored.UpdatedAt)
}

func TestUpdatePost_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	c := &client{t: t, s: s}

	resp, _ := c.post("/post/update/77", url.Values{"title": {"t"}, "body": {"b"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeletePost(t *testing.T) {
	s, db := newTestServer(t)
	post := insertPost(t, db, "Doomed", time.Now().UTC())
	for _, u := range []string{"a", "b"} {
		require.NoError(t, db.Create(&models.Comment{Username: u, Body: "hi", PostID: post.ID}).Error)
	}
	c := &client{t: t, s: s}

	resp, _ := c.get(fmt.Sprintf("/post/delete/%d", post.ID))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var posts, comments int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Zero(t, posts)
	assert.Zero(t, comments)

	_, body := c.get("/")
	assert.Contains(t, body, "Post deleted.")
	assert.Contains(t, body, "2 comments removed with it.")

	resp, body = c.get(fmt.Sprintf("/post/%d", post.ID))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Post not found.")

	resp, _ = c.get(fmt.Sprintf("/post/delete/%d", post.ID))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListAuthors_SortedByLastname(t *testing.T) {
	s, db := newTestServer(t)
	require.NoError(t, db.Create(&models.Author{Firstname: "Zoe", Lastname: "Young"}).Error)
	require.NoError(t, db.Create(&models.Author{Firstname: "Adam", Lastname: "Brown"}).Error)
	c := &client{t: t, s: s}

	resp, body := c.get("/author/list")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	brown := strings.Index(body, "Brown")
	young := strings.Index(body, "Young")
	require.NotEqual(t, -1, brown)
	require.NotEqual(t, -1, young)
	assert.Less(t, brown, young)
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t)
	c := &client{t: t, s: s}

	resp, body := c.get("/health/live")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"up"`)

	resp, body = c.get("/health/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"redis":"disabled"`)
	assert.Contains(t, body, `"database":"healthy"`)
}

func TestMetricsAndStatic(t *testing.T) {
	s, _ := newTestServer(t)
	c := &client{t: t, s: s}
	c.get("/")

	resp, body := c.get("/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "# HELP")

	resp, _ = c.get("/static/app.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
