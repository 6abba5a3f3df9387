package web

import (
	"context"
	"crypto/rand"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/middleware"

	"fitclub/internal/adapters/email"
	"fitclub/internal/adapters/http/middleware"
	"fitclub/internal/adapters/http/perf"
	accountStore "fitclub/internal/adapters/storage/account"
	memberStore "fitclub/internal/adapters/storage/member"
	paymentStore "fitclub/internal/adapters/storage/payment"
	planStore "fitclub/internal/adapters/storage/plan"
	trialStore "fitclub/internal/adapters/storage/trial"
	"fitclub/internal/domain/access"
	"fitclub/internal/domain/payment"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	MemberStore  memberStore.Store
	PlanStore    planStore.Store
	PaymentStore paymentStore.Store
	TrialStore   trialStore.Store
}

// Options carries everything NewMux needs besides the stores.
type Options struct {
	Gate        *access.Gate
	Policy      payment.RenewalPolicy
	DefaultPlan string

	Sessions middleware.SessionStore
	Cookie   middleware.CookieOptions
	CSRFKey  []byte // 32 bytes; a random key is generated when empty

	RateLimit   float64 // requests per second per IP
	RateBurst   int
	SlowRequest time.Duration

	Collector *perf.Collector
	Metrics   http.Handler                    // served at /metrics when non-nil
	Health    func(ctx context.Context) error // backs /healthz; nil always reports ok
	Mailer    email.Sender                    // nil skips welcome emails
}

// Global stores instance (set by NewMux)
var stores *Stores

// Access gate holding the tier passwords
var gate *access.Gate

// Membership settings
var renewalPolicy payment.RenewalPolicy
var defaultPlanName string

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance
var emailSender email.Sender

var healthCheck func(ctx context.Context) error

// configure installs the package globals used by handlers.
func configure(s *Stores, opts Options) {
	stores = s
	gate = opts.Gate
	if gate == nil {
		gate = access.NewGate(access.DefaultSecrets())
	}
	renewalPolicy = opts.Policy
	defaultPlanName = opts.DefaultPlan
	perfCollector = opts.Collector
	emailSender = opts.Mailer
	healthCheck = opts.Health
}

// NewMux wires HTTP handlers for the app.
// PRE: s holds every store; opts.Sessions is non-nil
// POST: Returns the fully wrapped handler
func NewMux(s *Stores, opts Options) http.Handler {
	configure(s, opts)

	mux := http.NewServeMux()
	registerRoutes(mux, opts.Metrics)

	csrfKey := opts.CSRFKey
	if len(csrfKey) == 0 {
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			panic("web: generate CSRF key: " + err.Error())
		}
		slog.Warn("csrf_key_generated", "detail", "forms will not survive a restart; set FITCLUB_CSRF_KEY")
	}

	limiter := middleware.NewRateLimiter(opts.RateLimit, opts.RateBurst)

	// Timing wraps the mux directly so it can read the matched pattern.
	return middleware.Chain(mux,
		middleware.Timing(opts.Collector, opts.SlowRequest),
		middleware.Auth(opts.Sessions, opts.Cookie),
		middleware.CSRF(csrfKey, middleware.CSRFOptions{Secure: opts.Cookie.Secure}),
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter),
		chimw.RealIP,
		chimw.RequestID,
		chimw.Recoverer,
	)
}
