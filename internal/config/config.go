// internal/config/config.go
package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Source kinds.
const (
	SourceSheets = "sheets"
	SourceDrive  = "drive"
	SourceObject = "object"
	SourceFile   = "file"
)

type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Source  SourceConfig
	Sheets  SheetsConfig
	Drive   DriveConfig
	Storage StorageConfig
	App     AppConfig
	Cache   CacheConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SourceConfig selects where the inventory and master grids come from.
// The meaning of InventoryPath/MasterPath depends on Kind: a local file
// for "file", an object key for "object". FallbackFile is used when the
// configured remote source has no credentials.
type SourceConfig struct {
	Kind          string
	InventoryPath string
	MasterPath    string
	FallbackFile  string
	FetchTimeout  time.Duration
}

type SheetsConfig struct {
	SpreadsheetID   string
	InventoryRange  string
	MasterRange     string
	APIKey          string
	CredentialsFile string
	CredentialsJSON string
}

type DriveConfig struct {
	InventoryFileID string
	MasterFileID    string
	CredentialsFile string
	CredentialsJSON string
	PollInterval    time.Duration
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	UseSSL    bool
	LocalDir  string
}

type AppConfig struct {
	DownloadDir  string
	ForecastDays int
	RankingLimit int
	Timezone     string
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

// HasSheetsCredentials reports whether any Sheets auth is configured.
func (c SheetsConfig) HasSheetsCredentials() bool {
	return c.APIKey != "" || c.CredentialsFile != "" || c.CredentialsJSON != ""
}

// HasCredentials reports whether a Drive service account is configured.
func (c DriveConfig) HasCredentials() bool {
	return c.CredentialsFile != "" || c.CredentialsJSON != ""
}

// Location resolves the configured timezone, falling back to local time.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", c.Timezone).Msg("invalid timezone, using local time")
		return time.Local
	}
	return loc
}

var (
	once     sync.Once
	instance *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("SOURCE_KIND", SourceFile)
	v.SetDefault("SOURCE_INVENTORY_PATH", "./data/inventory.csv")
	v.SetDefault("SOURCE_MASTER_PATH", "")
	v.SetDefault("SOURCE_FALLBACK_FILE", "")
	v.SetDefault("SOURCE_FETCH_TIMEOUT_SECONDS", 30)
	v.SetDefault("SHEETS_INVENTORY_RANGE", "Invetory Daily!A1:ZZ1000")
	v.SetDefault("SHEETS_MASTER_RANGE", "")
	v.SetDefault("DRIVE_POLL_INTERVAL_SECONDS", 0)
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_USE_SSL", true)
	v.SetDefault("APP_DOWNLOAD_DIR", "./data/downloads")
	v.SetDefault("APP_FORECAST_DAYS", 30)
	v.SetDefault("APP_RANKING_LIMIT", 5)
	v.SetDefault("APP_TIMEZONE", "")
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)
}

// Load reads .env and the environment once and returns the shared config.
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		instance = FromViper(viper.GetViper())
	})

	return instance
}

// FromViper builds a config from v after registering defaults and
// environment lookup on it.
func FromViper(v *viper.Viper) *Config {
	setDefaults(v)
	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: splitList(v.GetStringSlice("SERVER_ALLOWED_ORIGINS")),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Source: SourceConfig{
			Kind:          strings.ToLower(strings.TrimSpace(v.GetString("SOURCE_KIND"))),
			InventoryPath: v.GetString("SOURCE_INVENTORY_PATH"),
			MasterPath:    v.GetString("SOURCE_MASTER_PATH"),
			FallbackFile:  v.GetString("SOURCE_FALLBACK_FILE"),
			FetchTimeout:  seconds(v.GetInt("SOURCE_FETCH_TIMEOUT_SECONDS")),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   v.GetString("SHEETS_SPREADSHEET_ID"),
			InventoryRange:  v.GetString("SHEETS_INVENTORY_RANGE"),
			MasterRange:     v.GetString("SHEETS_MASTER_RANGE"),
			APIKey:          v.GetString("SHEETS_API_KEY"),
			CredentialsFile: v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
			CredentialsJSON: v.GetString("GOOGLE_CREDENTIALS_JSON"),
		},
		Drive: DriveConfig{
			InventoryFileID: v.GetString("DRIVE_INVENTORY_FILE_ID"),
			MasterFileID:    v.GetString("DRIVE_MASTER_FILE_ID"),
			CredentialsFile: v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
			CredentialsJSON: v.GetString("GOOGLE_CREDENTIALS_JSON"),
			PollInterval:    seconds(v.GetInt("DRIVE_POLL_INTERVAL_SECONDS")),
		},
		Storage: StorageConfig{
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Region:    v.GetString("STORAGE_REGION"),
			Prefix:    v.GetString("STORAGE_PREFIX"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
			LocalDir:  v.GetString("STORAGE_LOCAL_DIR"),
		},
		App: AppConfig{
			DownloadDir:  v.GetString("APP_DOWNLOAD_DIR"),
			ForecastDays: v.GetInt("APP_FORECAST_DAYS"),
			RankingLimit: v.GetInt("APP_RANKING_LIMIT"),
			Timezone:     v.GetString("APP_TIMEZONE"),
		},
		Cache: CacheConfig{
			Enabled:             v.GetBool("CACHE_ENABLED"),
			RedisURL:            v.GetString("REDIS_URL"),
			RedisHost:           v.GetString("REDIS_HOST"),
			RedisPort:           v.GetString("REDIS_PORT"),
			RedisPassword:       v.GetString("REDIS_PASSWORD"),
			RedisDB:             v.GetInt("REDIS_DB"),
			DashboardTTLSeconds: v.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
		},
	}
}

// EnsureDir creates dir if it does not exist.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// splitList accepts both repeated values and a single comma separated
// environment value.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
