package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	Booking BookingConfig
	Store   StoreConfig
	Redis   RedisConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Tokyo"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Accept-Language,X-Tenant-ID"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

type BookingConfig struct {
	HorizonDays     int    `envconfig:"BOOKING_HORIZON_DAYS" default:"30"`
	SlotStepMinutes int    `envconfig:"BOOKING_SLOT_STEP_MINUTES" default:"15"`
	DefaultTimezone string `envconfig:"BOOKING_DEFAULT_TIMEZONE" default:"UTC"`
	MaxTxRetries    int    `envconfig:"BOOKING_MAX_TX_RETRIES" default:"3"`
}

// StoreConfig selects the calendar store. "memory" keeps everything in process
// and is meant for local runs and tests.
type StoreConfig struct {
	Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
}

// RedisConfig enables the reference-data cache when Addr is set.
type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL time.Duration `envconfig:"REDIS_CACHE_TTL" default:"60s"`
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

func (c BookingConfig) SlotStep() time.Duration {
	if c.SlotStepMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.SlotStepMinutes) * time.Minute
}

func (c BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate reports settings the engine cannot start with. DB credentials are
// only required for the postgres store.
func (c Config) Validate() error {
	var problems []error

	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.DB.User == "" || c.DB.Password == "" || c.DB.DBName == "" {
			problems = append(problems, errors.New("DB_USER, DB_PASSWORD and DB_NAME are required for the postgres store"))
		}
	case StoreDriverMemory:
	default:
		problems = append(problems, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	if c.Booking.HorizonDays <= 0 {
		problems = append(problems, fmt.Errorf("BOOKING_HORIZON_DAYS must be positive, got %d", c.Booking.HorizonDays))
	}
	if c.Booking.SlotStepMinutes <= 0 || c.Booking.SlotStepMinutes > 24*60 {
		problems = append(problems, fmt.Errorf("BOOKING_SLOT_STEP_MINUTES must be within 1..1440, got %d", c.Booking.SlotStepMinutes))
	}
	if c.Booking.MaxTxRetries < 0 {
		problems = append(problems, fmt.Errorf("BOOKING_MAX_TX_RETRIES must not be negative, got %d", c.Booking.MaxTxRetries))
	}
	if _, err := time.LoadLocation(c.Booking.DefaultTimezone); err != nil {
		problems = append(problems, fmt.Errorf("BOOKING_DEFAULT_TIMEZONE: %w", err))
	}
	if c.Redis.Enabled() && c.Redis.CacheTTL <= 0 {
		problems = append(problems, errors.New("REDIS_CACHE_TTL must be positive when REDIS_ADDR is set"))
	}
	if len(c.CORS.AllowOrigins) == 0 {
		problems = append(problems, errors.New("CORS_ALLOW_ORIGINS must list at least one origin"))
	}

	return errors.Join(problems...)
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Tokyo",
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		Booking: BookingConfig{
			HorizonDays:     30,
			SlotStepMinutes: 15,
			DefaultTimezone: "UTC",
			MaxTxRetries:    3,
		},
		Store: StoreConfig{
			Driver: StoreDriverPostgres,
		},
	}
}
