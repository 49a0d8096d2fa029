package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Klinik  KlinikConfig
	Clinic  ClinicConfig
	Print   PrintConfig
	Sheets  SheetsConfig
	Jobs    JobsConfig
	MongoDB MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level   string
	Console bool
}

// KlinikConfig points at the clinic backend store that owns every record.
type KlinikConfig struct {
	ServerURL string
	Timeout   time.Duration
	// ServiceToken is only used by background jobs; interactive requests
	// forward the caller's own session token.
	ServiceToken string
}

// ClinicConfig is printed in the header of every document.
type ClinicConfig struct {
	Name     string
	Address  string
	Phone    string
	LogoURL  string
	Timezone string
}

// PrintConfig controls the headless browser used for printing.
type PrintConfig struct {
	AssetDelay time.Duration
	RemoteURL  string
	NoSandbox  bool
	Timeout    time.Duration
}

// SheetsConfig contains configuration required to export reports to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether a spreadsheet export target is configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// JobsConfig holds scheduler-related settings.
type JobsConfig struct {
	PeriodCheckCron string
	SnapshotCron    string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	klinikTimeout, err := getDurationWithDefault("KLINIK_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	assetDelay, err := getDurationWithDefault("PRINT_ASSET_DELAY", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	printTimeout, err := getDurationWithDefault("PRINT_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins: splitList(getenvWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		Log: LogConfig{
			Level:   getenvWithDefault("LOG_LEVEL", "info"),
			Console: getenvBool("LOG_CONSOLE"),
		},
		Klinik: KlinikConfig{
			ServerURL:    strings.TrimSuffix(os.Getenv("KLINIK_SERVER_URL"), "/"),
			Timeout:      klinikTimeout,
			ServiceToken: os.Getenv("KLINIK_SERVICE_TOKEN"),
		},
		Clinic: ClinicConfig{
			Name:     getenvWithDefault("CLINIC_NAME", "Klinik Gigi"),
			Address:  os.Getenv("CLINIC_ADDRESS"),
			Phone:    os.Getenv("CLINIC_PHONE"),
			LogoURL:  os.Getenv("CLINIC_LOGO_URL"),
			Timezone: getenvWithDefault("TIMEZONE", "Asia/Jakarta"),
		},
		Print: PrintConfig{
			AssetDelay: assetDelay,
			RemoteURL:  os.Getenv("CHROME_REMOTE_URL"),
			NoSandbox:  getenvBool("CHROME_NO_SANDBOX"),
			Timeout:    printTimeout,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
		},
		Jobs: JobsConfig{
			PeriodCheckCron: getenvWithDefault("PERIOD_CHECK_CRON", "5 0 1 * *"),
			SnapshotCron:    getenvWithDefault("SNAPSHOT_CRON", "30 0 1 * *"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "klinik"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Klinik.ServerURL == "" {
		return errors.New("KLINIK_SERVER_URL must be provided")
	}
	if !strings.HasPrefix(c.Klinik.ServerURL, "http://") && !strings.HasPrefix(c.Klinik.ServerURL, "https://") {
		return fmt.Errorf("KLINIK_SERVER_URL must be an http(s) url, got %q", c.Klinik.ServerURL)
	}

	if c.Clinic.Name == "" {
		return errors.New("CLINIC_NAME must not be empty")
	}

	if _, err := time.LoadLocation(c.Clinic.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if c.Print.AssetDelay < 0 {
		return errors.New("PRINT_ASSET_DELAY must not be negative")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_EXPORT_ID must be provided together")
	}

	if c.Jobs.PeriodCheckCron == "" {
		return errors.New("PERIOD_CHECK_CRON must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	return nil
}

// Location returns the clinic time zone. Validate guarantees it parses.
func (c ClinicConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func getenvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
