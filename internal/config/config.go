// Package config loads fitclub settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"fitclub/internal/domain/payment"
)

// PathEnv names the variable holding an optional config file path.
const PathEnv = "FITCLUB_CONFIG"

// Session backends.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Config is the full process configuration.
type Config struct {
	Env    string `yaml:"env" env:"FITCLUB_ENV" env-default:"development"`
	DBPath string `yaml:"db_path" env:"FITCLUB_DB_PATH" env-default:"fitclub.db"`
	Seed   bool   `yaml:"seed" env:"FITCLUB_SEED" env-default:"false"`

	HTTPServer `yaml:"http_server"`
	Access     `yaml:"access"`
	Membership `yaml:"membership"`
	Session    `yaml:"session"`
	Email      `yaml:"email"`
	Perf       `yaml:"perf"`
}

// HTTPServer configures the listener and middleware.
type HTTPServer struct {
	Addr          string        `yaml:"addr" env:"FITCLUB_ADDR" env-default:":8080"`
	ReadTimeout   time.Duration `yaml:"read_timeout" env:"FITCLUB_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout  time.Duration `yaml:"write_timeout" env:"FITCLUB_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout   time.Duration `yaml:"idle_timeout" env:"FITCLUB_IDLE_TIMEOUT" env-default:"60s"`
	CSRFKey       string        `yaml:"csrf_key" env:"FITCLUB_CSRF_KEY" env-description:"32-byte key; random per process when empty"`
	RateLimit     float64       `yaml:"rate_limit" env:"FITCLUB_RATE_LIMIT" env-default:"5"`
	RateBurst     int           `yaml:"rate_burst" env:"FITCLUB_RATE_BURST" env-default:"10"`
	SecureCookies bool          `yaml:"secure_cookies" env:"FITCLUB_SECURE_COOKIES" env-default:"false"`
}

// Access holds the shared secrets of the two privilege tiers.
type Access struct {
	PlanPassword  string `yaml:"plan_password" env:"FITCLUB_PLAN_PASSWORD" env-default:"member121"`
	AdminPassword string `yaml:"admin_password" env:"FITCLUB_ADMIN_PASSWORD" env-default:"admin121"`
}

// Membership tunes lifecycle rules.
type Membership struct {
	RenewalPolicy string `yaml:"renewal_policy" env:"FITCLUB_RENEWAL_POLICY" env-default:"any_status"`
	DefaultPlan   string `yaml:"default_plan" env:"FITCLUB_DEFAULT_PLAN" env-default:"Special plan"`
}

// Session selects and configures the session backend.
type Session struct {
	Backend       string        `yaml:"backend" env:"FITCLUB_SESSION_BACKEND" env-default:"memory"`
	TTL           time.Duration `yaml:"ttl" env:"FITCLUB_SESSION_TTL" env-default:"24h"`
	RedisAddr     string        `yaml:"redis_addr" env:"FITCLUB_REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string        `yaml:"redis_password" env:"FITCLUB_REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"FITCLUB_REDIS_DB" env-default:"0"`
}

// Email configures outbound mail. An empty ResendKey selects the noop sender.
type Email struct {
	ResendKey string `yaml:"resend_key" env:"FITCLUB_RESEND_KEY"`
	From      string `yaml:"from" env:"FITCLUB_EMAIL_FROM" env-default:"FitClub <noreply@fitclub.local>"`
	ReplyTo   string `yaml:"reply_to" env:"FITCLUB_EMAIL_REPLY_TO"`
}

// Perf sets the slow thresholds for logging.
type Perf struct {
	SlowQuery   time.Duration `yaml:"slow_query" env:"FITCLUB_SLOW_QUERY" env-default:"50ms"`
	SlowRequest time.Duration `yaml:"slow_request" env:"FITCLUB_SLOW_REQUEST" env-default:"500ms"`
}

// IsProduction reports whether Env is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Policy returns the parsed renewal policy. Load has already validated it.
func (c *Config) Policy() payment.RenewalPolicy {
	p, _ := payment.ParseRenewalPolicy(c.RenewalPolicy)
	return p
}

// Load reads path (when non-empty) and then the environment.
// PRE: path is empty or names a readable YAML file
// POST: Returns a validated Config or an error
func Load(path string) (*Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad loads from the file named by FITCLUB_CONFIG (if any) and exits on failure.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv(PathEnv))
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}
	return cfg
}

func (c *Config) validate() error {
	if _, err := payment.ParseRenewalPolicy(c.RenewalPolicy); err != nil {
		return fmt.Errorf("renewal_policy %q: %w", c.RenewalPolicy, err)
	}
	if c.Backend != SessionMemory && c.Backend != SessionRedis {
		return fmt.Errorf("session backend %q: must be %s or %s", c.Backend, SessionMemory, SessionRedis)
	}
	if c.PlanPassword == "" || c.AdminPassword == "" {
		return fmt.Errorf("access passwords cannot be empty")
	}
	if c.CSRFKey != "" && len(c.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be 32 bytes, got %d", len(c.CSRFKey))
	}
	return nil
}
