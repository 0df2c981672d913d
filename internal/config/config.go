package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultBucketName is the bucket charts and exports are mirrored to when
// nothing else is configured.
const DefaultBucketName = "z-sports-history"

var (
	ErrMissingAPIKey    = errors.New("config: intervals.api_key (INTERVALS_API_KEY) is required")
	ErrMissingAthleteID = errors.New("config: intervals.athlete_id (INTERVALS_ATHLETE_ID) is required")
	ErrMissingStorage   = errors.New("config: hetzner.url, hetzner.access_key and hetzner.secret_key are required")
	ErrMissingJWTSecret = errors.New("config: jwt.secret (JWT_SECRET) is required")
)

// Config holds all configuration for the toolkit.
// The values are read by Viper from an optional config file, a .env file
// and environment variables.
type Config struct {
	Intervals IntervalsConfig `mapstructure:"intervals"`
	Hetzner   S3Config        `mapstructure:"hetzner"`
	Paths     PathsConfig     `mapstructure:"paths"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Admin     AdminConfig     `mapstructure:"admin"`
}

type IntervalsConfig struct {
	APIKey    string `mapstructure:"api_key"`
	AthleteID string `mapstructure:"athlete_id"`
	BaseURL   string `mapstructure:"base_url"`
}

// S3Config describes the S3-compatible object storage (Hetzner).
// Env names: HETZNER_URL, HETZNER_ACCESS_KEY, HETZNER_SECRET_KEY, ...
type S3Config struct {
	URL        string `mapstructure:"url"`
	Region     string `mapstructure:"region"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	BucketName string `mapstructure:"bucket_name"`
}

type PathsConfig struct {
	DataRoot string `mapstructure:"data_root"`
	PlotRoot string `mapstructure:"plot_root"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
	File  string `mapstructure:"file"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// AllowedOrigins may be a comma separated list in SERVER_ALLOWED_ORIGINS.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// AdminConfig is the single account allowed to call the protected API routes.
type AdminConfig struct {
	Email        string `mapstructure:"email"`
	PasswordHash string `mapstructure:"password_hash"`
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in path is loaded into the process environment first; values
// already present in the environment win.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// intervals.api_key -> INTERVALS_API_KEY
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	return
}

// setDefaults registers every key. AutomaticEnv only resolves keys viper
// already knows about when unmarshalling, so empty defaults are set too.
func setDefaults(v *viper.Viper) {
	v.SetDefault("intervals.api_key", "")
	v.SetDefault("intervals.athlete_id", "")
	v.SetDefault("intervals.base_url", "https://intervals.icu/api/v1")

	v.SetDefault("hetzner.url", "")
	v.SetDefault("hetzner.region", "eu-central")
	v.SetDefault("hetzner.access_key", "")
	v.SetDefault("hetzner.secret_key", "")
	v.SetDefault("hetzner.bucket_name", DefaultBucketName)

	v.SetDefault("paths.data_root", "data")
	v.SetDefault("paths.plot_root", "plots")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")

	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "sports_history")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")

	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password_hash", "")
}

// ValidateIntervals checks what the activity API client needs.
func (c Config) ValidateIntervals() error {
	if c.Intervals.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Intervals.AthleteID == "" {
		return ErrMissingAthleteID
	}
	return nil
}

// ValidateStorage checks what the object storage client needs.
func (c Config) ValidateStorage() error {
	if c.Hetzner.URL == "" || c.Hetzner.AccessKey == "" || c.Hetzner.SecretKey == "" {
		return ErrMissingStorage
	}
	return nil
}

// ValidateServer checks what the HTTP API needs on top of storage.
func (c Config) ValidateServer() error {
	if c.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}
	return c.ValidateStorage()
}
