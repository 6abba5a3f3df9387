package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"fitclub/internal/adapters/http/middleware"
	"fitclub/internal/domain/form"
	"fitclub/internal/domain/money"
	"fitclub/internal/lib/sl"
)

//go:embed templates/*.html content/*.md static/*
var assets embed.FS

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error",
		"request_id", chimw.GetReqID(r.Context()),
		"path", r.URL.Path,
		sl.Err(err),
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// wantsJSON reports whether the client asked for a JSON reply.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// renderJSON writes v with the given status through chi's render package.
func renderJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func markdownHTML(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// contentPage loads an embedded markdown document by base name.
func contentPage(name string) (template.HTML, error) {
	md, err := assets.ReadFile("content/" + name + ".md")
	if err != nil {
		return "", err
	}
	return markdownHTML(string(md)), nil
}

// addFlash queues a message, logging instead of failing the request when the session cannot be saved.
func addFlash(w http.ResponseWriter, r *http.Request, level, text string) {
	if err := middleware.AddFlash(w, r, level, text); err != nil {
		slog.Error("flash_failed", "request_id", chimw.GetReqID(r.Context()), sl.Err(err))
	}
}

// flashFormErrors queues one "Label: message" error per field error, prefixed when prefix is set.
func flashFormErrors(w http.ResponseWriter, r *http.Request, prefix string, errs form.Errors) {
	for _, e := range errs {
		label := e.Label
		if label == "" {
			label = e.Field
		}
		addFlash(w, r, middleware.FlashError, prefix+label+": "+e.Message)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(form.DateLayout)
}

// dict builds a map from alternating keys and values, for passing several values to a sub-template.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

// renderTemplate renders templateName inside the layout.
// Queued flashes are consumed here, so they show exactly once.
func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess := middleware.CurrentSession(r.Context())
	flashes := middleware.PopFlashes(w, r)

	funcMap := template.FuncMap{
		"isLoggedIn":      func() bool { return sess.IsAuthenticated() },
		"currentUsername": func() string { return sess.Username },
		"hasPlanAccess":   func() bool { return sess.Flags.HasPlanAccess() },
		"hasAdminAccess":  func() bool { return sess.Flags.AdminAccess },
		"flashes":         func() []middleware.Flash { return flashes },
		"csrfField":       func() template.HTML { return csrf.TemplateField(r) },
		"renderMarkdown":  markdownHTML,
		"formatDate":      formatDate,
		"formatExpiry": func(t *time.Time) string {
			if t == nil {
				return "None"
			}
			return formatDate(*t)
		},
		"money":       func(d decimal.Decimal) string { return money.Format(d) },
		"fieldErrors": func(errs form.Errors, field string) []string { return errs.For(field) },
		"dict":        dict,
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(assets, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
