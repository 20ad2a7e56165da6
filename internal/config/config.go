package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Cookie names shared with the browser client.
const (
	TokenCookieName   = "token"
	ConsentCookieName = "consented"
)

type Config struct {
	Server   ServerConfig
	Backends BackendConfig
	Auth     AuthConfig
	OAuth    OAuthConfig
	Mail     MailConfig
	Bank     BankConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	Scheme       string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Version      string
}

// BackendConfig holds the resolved URIs of the services the gateway fronts.
// All URIs are built once at startup; components never consult the
// environment themselves.
type BackendConfig struct {
	TransactionsURI string
	UserserviceURI  string
	BalancesURI     string
	HistoryURI      string
	StatementURI    string
	LoginURI        string
	ContactsURI     string
	Timeout         time.Duration
	SettleDelay     time.Duration
}

type AuthConfig struct {
	PublicKey *rsa.PublicKey
}

// OAuthConfig is the static allow-list for the consent relay. Both values
// empty means the OAuth flow is disabled.
type OAuthConfig struct {
	RegisteredClientID string
	AllowedRedirectURI string
}

type MailConfig struct {
	Server   string
	Port     int
	Sender   string
	Password string
	UseTLS   bool
}

type BankConfig struct {
	Name            string
	LocalRoutingNum string
}

// Load reads the gateway configuration from the environment. Missing
// required integration settings (backend addresses, public key, local
// routing number) are fatal: the gateway cannot serve anything without them.
func Load() *Config {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Environment:  getEnv("APP_ENV", "development"),
			Scheme:       getEnv("SCHEME", "http"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			Version:      getEnv("VERSION", "dev"),
		},
		OAuth: OAuthConfig{
			RegisteredClientID: os.Getenv("REGISTERED_OAUTH_CLIENT_ID"),
			AllowedRedirectURI: os.Getenv("ALLOWED_OAUTH_REDIRECT_URI"),
		},
		Mail: MailConfig{
			Server:   os.Getenv("MAIL_SERVER"),
			Port:     getIntEnv("MAIL_PORT", 587),
			Sender:   os.Getenv("MAIL_DEFAULT_SENDER"),
			Password: os.Getenv("EMAIL_PASSWORD"),
			UseTLS:   getBoolEnv("MAIL_USE_TLS", false),
		},
		Bank: BankConfig{
			Name:            getEnv("BANK_NAME", "Bank of Anthos"),
			LocalRoutingNum: requireEnv("LOCAL_ROUTING_NUM"),
		},
	}

	config.Backends = loadBackendConfig()

	publicKey, err := loadPublicKey()
	if err != nil {
		log.Fatal("Failed to load token verification key:", err)
	}
	config.Auth.PublicKey = publicKey

	return config
}

func loadBackendConfig() BackendConfig {
	transactionsAddr := requireEnv("TRANSACTIONS_API_ADDR")
	userserviceAddr := requireEnv("USERSERVICE_API_ADDR")
	balancesAddr := requireEnv("BALANCES_API_ADDR")
	historyAddr := requireEnv("HISTORY_API_ADDR")
	contactsAddr := requireEnv("CONTACTS_API_ADDR")

	return BackendConfig{
		TransactionsURI: fmt.Sprintf("http://%s/transactions", transactionsAddr),
		UserserviceURI:  fmt.Sprintf("http://%s/users", userserviceAddr),
		BalancesURI:     fmt.Sprintf("http://%s/balances", balancesAddr),
		HistoryURI:      fmt.Sprintf("http://%s/transactions", historyAddr),
		StatementURI:    fmt.Sprintf("http://%s/statement", historyAddr),
		LoginURI:        fmt.Sprintf("http://%s/login", userserviceAddr),
		ContactsURI:     fmt.Sprintf("http://%s/contacts", contactsAddr),
		Timeout:         getDurationEnv("BACKEND_TIMEOUT", 4*time.Second),
		SettleDelay:     getDurationEnv("SETTLE_DELAY", 250*time.Millisecond),
	}
}

// OAuthEnabled reports whether the consent relay is configured.
func (c *Config) OAuthEnabled() bool {
	return c.OAuth.RegisteredClientID != "" && c.OAuth.AllowedRedirectURI != ""
}

// Configured reports whether every required mail setting is present.
// The statement e-mail feature is disabled, not fatal, when it returns false.
func (c *MailConfig) Configured() bool {
	return c.Server != "" && c.Sender != "" && c.Password != "" && c.Port > 0
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func requireEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Required environment variable %s is not set", key)
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// loadPublicKey loads the identity authority's RSA public key.
// Priority order:
// 1. PUB_KEY_PATH pointing at a PEM file (deployment standard)
// 2. PUB_KEY with inline PEM content (tests, local development)
func loadPublicKey() (*rsa.PublicKey, error) {
	if path := os.Getenv("PUB_KEY_PATH"); path != "" {
		pemData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read public key file: %w", err)
		}
		return ParseRSAPublicKey(pemData)
	}

	if inline := os.Getenv("PUB_KEY"); inline != "" {
		return ParseRSAPublicKey([]byte(inline))
	}

	return nil, errors.New("PUB_KEY_PATH or PUB_KEY must be set")
}

// ParseRSAPublicKey parses an RSA public key from PEM format
func ParseRSAPublicKey(pemData []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the key")
	}

	publicKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		// Fallback: PKCS1 format support for keys produced by older tooling
		rsaKey, pkcs1Err := x509.ParsePKCS1PublicKey(block.Bytes)
		if pkcs1Err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
		return rsaKey, nil
	}

	rsaPublicKey, ok := publicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}

	return rsaPublicKey, nil
}
