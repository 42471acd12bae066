package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath = ".env"

	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultRunAddress    = ":8080"
	defaultMigrations    = "migrations"
	defaultSigningSecret = "dev-signing-secret"
)

type Config struct {
	Env    string
	DB     DB
	Server Server
	Auth   Auth
}

type DB struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type Server struct {
	RunAddress      string        `env:"RUN_ADDRESS"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

type Auth struct {
	SigningSecret string        `env:"SIGNING_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL"`
}

// MustLoad читает конфигурацию из окружения (и .env, если он есть).
func MustLoad() *Config {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("failed to load %s: %v", envPath, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", EnvLocal)
	v.SetDefault("RUN_ADDRESS", defaultRunAddress)
	v.SetDefault("MIGRATIONS_PATH", defaultMigrations)
	v.SetDefault("SIGNING_SECRET", defaultSigningSecret)
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)

	cfg := load(v)
	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}

	return cfg
}

func load(v *viper.Viper) *Config {
	return &Config{
		Env: v.GetString("APP_ENV"),
		DB: DB{
			DatabaseURI: v.GetString("DATABASE_URI"),
			Migrations:  v.GetString("MIGRATIONS_PATH"),
		},
		Server: Server{
			RunAddress:      v.GetString("RUN_ADDRESS"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Auth: Auth{
			SigningSecret: v.GetString("SIGNING_SECRET"),
			SessionTTL:    v.GetDuration("SESSION_TTL"),
		},
	}
}

func (c *Config) validate() error {
	if c.DB.DatabaseURI == "" {
		return fmt.Errorf("DATABASE_URI is required")
	}
	if c.Env == EnvProd && c.Auth.SigningSecret == defaultSigningSecret {
		return fmt.Errorf("SIGNING_SECRET must be set in prod")
	}
	return nil
}

func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}
