package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"portfolio/internal/core/blog"
	"portfolio/internal/core/github"
	"portfolio/internal/i18n"
)

// Handlers provides the HTTP handlers for the portfolio pages.
type Handlers struct {
	templates *Templates
	repos     github.Service
	prefs     *PreferenceStore
}

// NewHandlers creates a new Handlers instance with the provided dependencies.
func NewHandlers(templates *Templates, repos github.Service, prefs *PreferenceStore) *Handlers {
	return &Handlers{
		templates: templates,
		repos:     repos,
		prefs:     prefs,
	}
}

// PageData is shared by every page
type PageData struct {
	Lang  string
	Theme string
	Path  string
	Title string
}

// ProjectsPageData holds data for the projects page
type ProjectsPageData struct {
	Projects *github.ReposResponse
	PageData
	Unavailable bool
}

// BlogPageData holds data for the blog index
type BlogPageData struct {
	Tag   string
	Posts []*blog.Post
	Tags  []string
	PageData
}

// BlogPostPageData holds data for a single post
type BlogPostPageData struct {
	Post *blog.Post
	PageData
}

func (h *Handlers) page(r *http.Request, titleKey string) PageData {
	prefs := h.prefs.Load(r)
	lang := i18n.Resolve(r, prefs.Lang)
	return PageData{
		Lang:  lang,
		Theme: prefs.Theme,
		Path:  r.URL.Path,
		Title: i18n.T(lang, titleKey),
	}
}

func (h *Handlers) render(w http.ResponseWriter, status int, name string, data interface{}) {
	if err := h.templates.Render(w, status, name, data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// HomeHandler renders the landing page
// GET /
func (h *Handlers) HomeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.render(w, http.StatusOK, "home.html", h.page(r, "nav_home"))
}

// ProjectsHandler renders the repository listing from the cache.
// An unavailable cache renders an explicit error state instead of failing the page.
// GET /projects
func (h *Handlers) ProjectsHandler(w http.ResponseWriter, r *http.Request) {
	data := ProjectsPageData{PageData: h.page(r, "projects_title")}

	projects, err := h.repos.ReposView(r.Context())
	if err != nil {
		slog.Warn("projects page: repositories unavailable", "error", err)
		data.Unavailable = true
		h.render(w, http.StatusServiceUnavailable, "projects.html", data)
		return
	}

	data.Projects = projects
	h.render(w, http.StatusOK, "projects.html", data)
}

// BlogHandler renders the blog index, optionally filtered by ?tag=
// GET /blog
func (h *Handlers) BlogHandler(w http.ResponseWriter, r *http.Request) {
	data := BlogPageData{
		PageData: h.page(r, "blog_title"),
		Tags:     blog.AllTags(),
		Tag:      strings.TrimSpace(r.URL.Query().Get("tag")),
	}

	if data.Tag != "" {
		data.Posts = blog.FilterByTag(data.Tag)
	} else {
		data.Posts = blog.All()
	}

	h.render(w, http.StatusOK, "blog.html", data)
}

// BlogPostHandler renders one post
// GET /blog/{slug}
func (h *Handlers) BlogPostHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post := blog.FindBySlug(slug)

	data := BlogPostPageData{PageData: h.page(r, "blog_title"), Post: post}
	if post == nil {
		slog.Debug("blog post not found", "slug", slug)
		h.render(w, http.StatusNotFound, "blog_post.html", data)
		return
	}

	data.Title = post.Title.For(data.Lang)
	h.render(w, http.StatusOK, "blog_post.html", data)
}

// PreferencesHandler stores theme and language and redirects back
// POST /preferences
func (h *Handlers) PreferencesHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.Warn("preferences: failed to parse form", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	current := h.prefs.Load(r)
	next := Preferences{Theme: current.Theme, Lang: current.Lang}
	if theme := r.PostFormValue("theme"); theme != "" {
		next.Theme = theme
	}
	if lang := r.PostFormValue("lang"); lang != "" {
		next.Lang = lang
	}

	if err := h.prefs.Save(w, r, next); err != nil {
		slog.Error("preferences: failed to save cookie", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, safeReturnPath(r.PostFormValue("return")), http.StatusSeeOther)
}

// safeReturnPath only allows local absolute paths, so the form cannot redirect off-site
func safeReturnPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return u.RequestURI()
}
