// Package config loads process-wide configuration from the environment.
// Values are fixed at startup and never mutated at runtime.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Gateway holds the API gateway configuration.
type Gateway struct {
	Port int    `env:"GATEWAY_PORT,default=9000"`
	Env  string `env:"APP_ENV,default=development"`

	UserServiceURL         string `env:"USER_SERVICE_URL,default=http://localhost:8001"`
	ProductServiceURL      string `env:"PRODUCT_SERVICE_URL,default=http://localhost:8002"`
	OrderServiceURL        string `env:"ORDER_SERVICE_URL,default=http://localhost:8003"`
	NotificationServiceURL string `env:"NOTIFICATION_SERVICE_URL,default=http://localhost:8004"`

	ProxyTimeout    time.Duration `env:"PROXY_TIMEOUT,default=30s"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW,default=60s"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX,default=200"`

	// Comma-separated origin allow-list. Empty allows all origins.
	CORSOrigins string `env:"CORS_ORIGINS,default="`

	// Optional YAML file overriding the built-in route table.
	RoutesFile string `env:"GATEWAY_ROUTES_FILE,default="`
}

// CORSOriginList splits the configured allow-list into origins.
func (g *Gateway) CORSOriginList() []string {
	var origins []string
	for _, o := range strings.Split(g.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Identity holds the identity service configuration.
type Identity struct {
	Port      int           `env:"IDENTITY_PORT,default=8001"`
	Env       string        `env:"APP_ENV,default=development"`
	JWTSecret string        `env:"JWT_SECRET,default=dev-secret-change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,default=24h"`
}

// Service holds the configuration shared by the catalog, orders and
// notifier services.
type Service struct {
	Port int    `env:"SERVICE_PORT,default=8002"`
	Env  string `env:"APP_ENV,default=development"`

	// Base URL of the identity service for token validation.
	UserServiceURL string `env:"USER_SERVICE_URL,default=http://localhost:8001"`

	// Base URL the orders service uses for inventory reservation. Points at
	// the gateway so the reservation call passes through the same auth gate.
	ProductServiceURL string `env:"PRODUCT_SERVICE_URL,default=http://localhost:9000/products"`

	// Base URL of the notification service.
	NotificationServiceURL string `env:"NOTIFICATION_SERVICE_URL,default=http://localhost:8004"`

	ClientTimeout time.Duration `env:"CLIENT_TIMEOUT,default=5s"`
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT,default=5s"`
}

// LoadGateway reads gateway configuration, honoring an optional .env file.
func LoadGateway() (*Gateway, error) {
	_ = godotenv.Load()
	var cfg Gateway
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode gateway config: %w", err)
	}
	return &cfg, nil
}

// LoadIdentity reads identity service configuration.
func LoadIdentity() (*Identity, error) {
	_ = godotenv.Load()
	var cfg Identity
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode identity config: %w", err)
	}
	return &cfg, nil
}

// LoadService reads backend service configuration.
func LoadService() (*Service, error) {
	_ = godotenv.Load()
	var cfg Service
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode service config: %w", err)
	}
	return &cfg, nil
}
