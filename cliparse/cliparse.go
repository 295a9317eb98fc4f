package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	SessionSecret string
	AdminKey      string
	DevLogin      bool
}

type ClientConfig struct {
	APIURL  string
	Session string
}

// ParseFlags validates server flags, falling back to the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	fs := flag.NewFlagSet("aspc-vote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&envFile, "env", ".env", "Optional dotenv file")
	fs.BoolVar(&cfg.DevLogin, "dev-login", false, "Enable POST /api/auth/dev-login")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session signing secret (prefer env)")
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Admin API key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 5000 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "postgres"
		}
	}
	if cfg.DatabaseType != "postgres" && cfg.DatabaseType != "sqlite" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if !cfg.DevLogin && os.Getenv("DEV_LOGIN") == "true" {
		cfg.DevLogin = true
	}

	// Secrets - session secret MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	// Admin key is optional; admin routes reject everything without it
	if cfg.AdminKey == "" {
		cfg.AdminKey = os.Getenv("ADMIN_KEY")
	}

	return cfg, nil
}

// ParseClientFlags configures the terminal ballot client
func ParseClientFlags(args []string) (ClientConfig, error) {
	var cfg ClientConfig
	var envFile string

	fs := flag.NewFlagSet("ballot", flag.ContinueOnError)
	fs.StringVar(&cfg.APIURL, "api", "", "Voting API base URL")
	fs.StringVar(&cfg.Session, "session", "", "Session cookie value")
	fs.StringVar(&envFile, "env", ".env", "Optional dotenv file")

	if err := fs.Parse(args); err != nil {
		return ClientConfig{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return ClientConfig{}, err
	}

	if cfg.APIURL == "" {
		cfg.APIURL = os.Getenv("VOTE_API_URL")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "http://localhost:5000"
	}

	if cfg.Session == "" {
		cfg.Session = os.Getenv("VOTE_SESSION")
	}
	if cfg.Session == "" {
		return ClientConfig{}, errors.New("session required (use -session or VOTE_SESSION env)")
	}

	return cfg, nil
}

// loadEnvFile reads a dotenv file if it exists. Variables already set in
// the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
