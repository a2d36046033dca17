package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultJWTSecret = "change-me-memberhub-secret"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageLocal = "local"
	StorageGCS   = "gcs"
)

type Config struct {
	App struct {
		Env         string `envconfig:"APP_ENV" default:"development"`
		Port        string `envconfig:"PORT" default:"8088"`
		FrontendURL string `envconfig:"APP_FRONTEND_URL" default:"http://localhost:3000"`
		PublicURL   string `envconfig:"APP_PUBLIC_URL" default:"http://localhost:8088"`
	}
	DB struct {
		Driver   string `envconfig:"DB_DRIVER" default:"postgres"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     string `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:"password"`
		Name     string `envconfig:"DB_NAME" default:"memberhub"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
		Path     string `envconfig:"DB_PATH" default:"memberhub.db"`
	}
	JWT struct {
		Secret        string `envconfig:"JWT_SECRET" default:"change-me-memberhub-secret"`
		ExpiryMinutes int    `envconfig:"JWT_EXPIRY_MINUTES" default:"1440"`
	}
	Auth struct {
		BcryptCost int `envconfig:"AUTH_BCRYPT_COST" default:"12"`
	}
	Storage struct {
		Backend         string `envconfig:"STORAGE_BACKEND" default:"local"`
		UploadDir       string `envconfig:"STORAGE_UPLOAD_DIR" default:"./public/uploads"`
		Bucket          string `envconfig:"STORAGE_BUCKET"`
		CredentialsFile string `envconfig:"STORAGE_CREDENTIALS_FILE"`
		MaxUploadMB     int64  `envconfig:"STORAGE_MAX_UPLOAD_MB" default:"10"`
	}
	Google struct {
		ClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
		ClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
		RedirectURL  string `envconfig:"GOOGLE_REDIRECT_URL"`
		CalendarID   string `envconfig:"GOOGLE_CALENDAR_ID" default:"primary"`
	}
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// CalendarConfigured reports whether Google OAuth credentials are present.
func (c *Config) CalendarConfigured() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != "" && c.Google.RedirectURL != ""
}

// Global DB instance, set by Initialize.
var DB *gorm.DB

var appConfig *Config
var once sync.Once

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, relying on system environment variables")
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	appConfig = cfg
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	switch c.Storage.Backend {
	case StorageLocal:
	case StorageGCS:
		if c.Storage.Bucket == "" {
			return errors.New("STORAGE_BUCKET is required when STORAGE_BACKEND=gcs")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.Storage.Backend)
	}
	if c.JWT.ExpiryMinutes <= 0 {
		return fmt.Errorf("invalid JWT_EXPIRY_MINUTES: %d", c.JWT.ExpiryMinutes)
	}
	if c.JWT.Secret == "" || c.JWT.Secret == defaultJWTSecret {
		if c.IsProduction() {
			return errors.New("JWT_SECRET must be set in production")
		}
		slog.Warn("using the default JWT secret, set JWT_SECRET for real deployments")
	}
	if c.DB.Password == "password" && c.IsProduction() {
		slog.Warn("using the default DB password in production, set DB_PASSWORD")
	}
	return nil
}

// OpenDatabase connects to the configured driver. Constraint errors are translated into
// gorm sentinel errors so callers can rely on gorm.ErrDuplicatedKey.
func OpenDatabase(cfg *Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{TranslateError: true}
	if cfg.App.Env == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DB.Path)
	default:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DB.Host,
			cfg.DB.User,
			cfg.DB.Password,
			cfg.DB.Name,
			cfg.DB.Port,
			cfg.DB.SSLMode,
		)
		dialector = postgres.Open(dsn)
	}

	gormDB, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = gormDB
	slog.Info("connected to database", "driver", cfg.DB.Driver)
	return gormDB, nil
}

// Initialize loads the configuration and connects to the database once.
func Initialize() error {
	var loadErr error
	once.Do(func() {
		loadedCfg, err := LoadConfig()
		if err != nil {
			loadErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		if _, err := OpenDatabase(loadedCfg); err != nil {
			loadErr = fmt.Errorf("failed to connect to database during initialization: %w", err)
		}
	})
	return loadErr
}

// GetConfig returns the loaded configuration. It panics when Initialize has not run.
func GetConfig() *Config {
	if appConfig == nil {
		panic("configuration not loaded, call config.Initialize first")
	}
	return appConfig
}
