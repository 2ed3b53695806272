package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultSecret = "heybuddy-dev-secret"
)

type Config struct {
	Env    string
	DB     db
	Server server
	Auth   auth
}

type db struct {
	DatabaseURI string
	Migrations  string
}

type server struct {
	RunAddress string
}

type auth struct {
	Secret   string
	TokenTTL time.Duration
}

func MustLoad() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", EnvLocal)
	viper.SetDefault("RUN_ADDRESS", ":8080")
	viper.SetDefault("MIGRATIONS_PATH", "migrations")
	viper.SetDefault("TOKEN_TTL_HOURS", 24)

	secret := viper.GetString("SECRET")
	if secret == "" {
		secret = defaultSecret
	}

	return &Config{
		Env: viper.GetString("APP_ENV"),
		DB: db{
			DatabaseURI: viper.GetString("DATABASE_URI"),
			Migrations:  viper.GetString("MIGRATIONS_PATH"),
		},
		Server: server{RunAddress: viper.GetString("RUN_ADDRESS")},
		Auth: auth{
			Secret:   secret,
			TokenTTL: time.Duration(viper.GetInt("TOKEN_TTL_HOURS")) * time.Hour,
		},
	}
}
