package web

import (
	"io/fs"
	"net/http"

	"fitclub/internal/adapters/http/middleware"
)

// registerRoutes maps every page to its handler. Paths keep their trailing slash.
func registerRoutes(mux *http.ServeMux, metrics http.Handler) {
	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		panic("web: static assets: " + err.Error())
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /healthz", handleHealthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	// Public pages
	mux.HandleFunc("GET /{$}", handleHome)
	mux.HandleFunc("GET /about/{$}", handleAbout)
	mux.HandleFunc("GET /events/{$}", handleEvents)
	mux.HandleFunc("GET /events/register/{$}", handleEventRegister)
	mux.HandleFunc("/diet/{$}", handleDietSelection)
	mux.HandleFunc("GET /diet/{bucket}/{$}", handleDietBucket)

	// Registration and login
	mux.HandleFunc("/register/{$}", handleRegister)
	mux.HandleFunc("/free-trial-register/{$}", handleRegister)
	mux.HandleFunc("/login/{$}", handleLogin)
	mux.HandleFunc("GET /logout/{$}", handleLogout)

	// Members
	mux.Handle("GET /dashboard/{$}", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("/member/{id}/{$}", middleware.RequireAuth(http.HandlerFunc(handleMemberDetail)))

	// Password-gated pages
	mux.HandleFunc("/plans/{$}", handlePlans)
	mux.HandleFunc("/admin-dashboard/{$}", handleAdminDashboard)
}
