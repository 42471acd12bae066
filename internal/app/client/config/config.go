package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress   = "localhost:8080"
	defaultEnv             = "local"
	defaultConfigDir       = ".clubmembers"
	defaultSyncInterval    = 30
	defaultPushConcurrency = 4
	defaultHTTPTimeout     = 30

	dataFile    = "members.db"
	sessionFile = "session.json"
	logFile     = "client.log"
)

type Config struct {
	Env             string        `mapstructure:"app_env"`
	ServerAddress   string        `mapstructure:"server_address"`
	EnableTLS       bool          `mapstructure:"enable_tls"`
	CACertPath      string        `mapstructure:"ca_cert_path"`
	ConfigDir       string        `mapstructure:"config_dir"`
	SessionPath     string        `mapstructure:"session_path"`
	DataPath        string        `mapstructure:"data_path"`
	LogFile         string        `mapstructure:"log_file"`
	SyncInterval    time.Duration `mapstructure:"-"`
	PushConcurrency int           `mapstructure:"push_concurrency"`
	HTTPTimeout     time.Duration `mapstructure:"-"`
}

// MustLoad загружает конфигурацию клиента и паникует при ошибке
func MustLoad(configFile string) *Config {
	cfg, err := Load(configFile)
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

// Load читает .env, необязательный файл конфигурации (yaml/json/toml) и окружение.
// Переменные окружения важнее файла.
func Load(configFile string) (*Config, error) {
	loadDotEnv()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	v.SetDefault("ENABLE_TLS", false)
	v.SetDefault("CONFIG_DIR", defaultConfigDir)
	v.SetDefault("SYNC_INTERVAL_SECONDS", defaultSyncInterval)
	v.SetDefault("PUSH_CONCURRENCY", defaultPushConcurrency)
	v.SetDefault("HTTP_TIMEOUT_SECONDS", defaultHTTPTimeout)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	configDir, err := resolveConfigDir(v.GetString("CONFIG_DIR"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:             v.GetString("APP_ENV"),
		ServerAddress:   v.GetString("SERVER_ADDRESS"),
		EnableTLS:       v.GetBool("ENABLE_TLS"),
		CACertPath:      v.GetString("CA_CERT_PATH"),
		ConfigDir:       configDir,
		SessionPath:     inDir(configDir, v.GetString("SESSION_PATH"), sessionFile),
		DataPath:        inDir(configDir, v.GetString("DATA_PATH"), dataFile),
		LogFile:         inDir(configDir, v.GetString("LOG_FILE"), logFile),
		SyncInterval:    time.Duration(v.GetInt("SYNC_INTERVAL_SECONDS")) * time.Second,
		PushConcurrency: v.GetInt("PUSH_CONCURRENCY"),
		HTTPTimeout:     time.Duration(v.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv() {
	// .env ищется в текущей и родительской директории
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				fmt.Fprintf(os.Stderr, "Ошибка загрузки .env файла: %v\n", err)
			}
			return
		}
	}
}

func resolveConfigDir(dir string) (string, error) {
	if dir == defaultConfigDir {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		dir = filepath.Join(homeDir, dir)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// inDir возвращает value, а если оно пустое, то def внутри dir.
func inDir(dir, value, def string) string {
	if value != "" {
		return value
	}
	return filepath.Join(dir, def)
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return errors.New("server_address не может быть пустым")
	}
	if c.SyncInterval <= 0 {
		return errors.New("sync_interval_seconds должен быть положительным")
	}
	if c.PushConcurrency <= 0 {
		return errors.New("push_concurrency должен быть положительным")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("http_timeout_seconds должен быть положительным")
	}
	return nil
}

// BaseURL адрес сервера со схемой
func (c *Config) BaseURL() string {
	scheme := "http"
	if c.EnableTLS {
		scheme = "https"
	}
	return scheme + "://" + c.ServerAddress
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
