package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	go_ora "github.com/sijms/go-ora/v2"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
	DriverOracle   = "oracle"
)

type Config struct {
	DB      DBConfig
	Server  ServerConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Logger  LoggerConfig
	Content ContentConfig
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type DBConfig struct {
	Driver       string
	Path         string // sqlite3 only
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	MaxOpenConns int
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type ContentConfig struct {
	ChaptersPath string
	SeedPath     string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 20)
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "madrasa.db")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.access_token_ttl", "15m")
	v.SetDefault("jwt.refresh_token_ttl", "168h")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("content.chapters_path", "configs/chapters.yaml")
	v.SetDefault("content.seed_path", "configs/seed_data/lessons.yaml")
}

// LoadConfig reads config.yaml and applies APP_-prefixed environment overrides.
// A missing config file is not an error; defaults and the environment still apply.
func LoadConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DB: DBConfig{
			Driver:       v.GetString("db.driver"),
			Path:         v.GetString("db.path"),
			Host:         v.GetString("db.host"),
			Port:         v.GetInt("db.port"),
			User:         v.GetString("db.user"),
			Password:     v.GetString("db.password"),
			DBName:       v.GetString("db.name"),
			MaxOpenConns: v.GetInt("db.max_open_conns"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey:       v.GetString("jwt.secret_key"),
			AccessTokenTTL:  v.GetDuration("jwt.access_token_ttl"),
			RefreshTokenTTL: v.GetDuration("jwt.refresh_token_ttl"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Content: ContentConfig{
			ChaptersPath: v.GetString("content.chapters_path"),
			SeedPath:     v.GetString("content.seed_path"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			return errors.New("db.path is required for the sqlite3 driver")
		}
	case DriverPostgres, DriverOracle:
		if c.DB.Host == "" || c.DB.DBName == "" {
			return fmt.Errorf("db.host and db.name are required for the %s driver", c.DB.Driver)
		}
	default:
		return fmt.Errorf("unsupported db.driver %q (want %s, %s or %s)", c.DB.Driver, DriverSQLite, DriverPostgres, DriverOracle)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	return nil
}

// GetDSN builds the data source name for the configured driver.
func (c *Config) GetDSN() string {
	switch c.DB.Driver {
	case DriverOracle:
		return go_ora.BuildUrl(c.DB.Host, c.DB.Port, c.DB.DBName, c.DB.User, c.DB.Password, nil)
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.DB.User, c.DB.Password),
			Host:     fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
			Path:     "/" + c.DB.DBName,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	default:
		return c.DB.Path
	}
}
