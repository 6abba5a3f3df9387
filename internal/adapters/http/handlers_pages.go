package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"fitclub/internal/adapters/http/middleware"
	"fitclub/internal/domain/diet"
	"fitclub/internal/lib/sl"
)

const healthTimeout = 2 * time.Second

// Event is one entry on the events page.
type Event struct {
	Slug  string
	Title string
	When  string
}

// events lists what the events page advertises. Registration only echoes the slug.
var events = []Event{
	{Slug: "bootcamp", Title: "Saturday Bootcamp", When: "Every Saturday, 8am"},
	{Slug: "yoga", Title: "Sunrise Yoga", When: "Weekdays, 6am"},
	{Slug: "powerlifting", Title: "Powerlifting Meet", When: "First Sunday of the month"},
}

// renderContent shows an embedded markdown document inside the layout.
func renderContent(w http.ResponseWriter, r *http.Request, title, name string, extra map[string]any) {
	body, err := contentPage(name)
	if err != nil {
		internalError(w, r, err)
		return
	}
	data := map[string]any{"Title": title, "Body": body}
	for k, v := range extra {
		data[k] = v
	}
	renderTemplate(w, r, "content.html", data)
}

// handleHome renders the landing page.
func handleHome(w http.ResponseWriter, r *http.Request) {
	renderContent(w, r, "FitClub", "home", nil)
}

// handleAbout renders the about page.
func handleAbout(w http.ResponseWriter, r *http.Request) {
	renderContent(w, r, "About us", "about", nil)
}

// handleEvents renders the events page.
func handleEvents(w http.ResponseWriter, r *http.Request) {
	renderContent(w, r, "Events", "events", map[string]any{"Events": events})
}

// handleEventRegister echoes the chosen event. Nothing is stored.
// A missing parameter shows "unknown"; an empty one is echoed as is.
func handleEventRegister(w http.ResponseWriter, r *http.Request) {
	event := "unknown"
	if q := r.URL.Query(); q.Has("event") {
		event = q.Get("event")
	}
	perfCollector.CountEvent("event_register_viewed")
	renderTemplate(w, r, "event_register.html", map[string]any{"Event": event})
}

// handleDietSelection handles GET (age form) and POST (route by age) for /diet/.
func handleDietSelection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		renderTemplate(w, r, "diet_selection.html", map[string]any{"Buckets": diet.Buckets, "Age": ""})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		age := r.PostFormValue("age")
		bucket, err := diet.Route(age)
		if err != nil {
			addFlash(w, r, middleware.FlashError, err.Error())
			renderTemplate(w, r, "diet_selection.html", map[string]any{
				"Buckets": diet.Buckets,
				"Age":     age,
			})
			return
		}
		http.Redirect(w, r, bucket.Path(), http.StatusFound)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleDietBucket renders one of the three static diet plans.
func handleDietBucket(w http.ResponseWriter, r *http.Request) {
	bucket, ok := diet.BucketBySlug(r.PathValue("bucket"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	renderContent(w, r, bucket.Title, "diet-"+bucket.Slug, nil)
}

// handleHealthz reports whether the database answers.
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	if healthCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := healthCheck(ctx); err != nil {
			slog.Error("health_check_failed", sl.Err(err))
			renderJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	renderJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
