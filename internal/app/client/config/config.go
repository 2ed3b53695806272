package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress = "http://localhost:8080"
	defaultEnv           = "local"
	defaultConfigDir     = ".heybuddy"
	defaultKeyFile       = ".secret.key"
)

type Config struct {
	Env            string `mapstructure:"app_env"`
	ServerAddress  string `mapstructure:"server_address"`
	ConfigDir      string `mapstructure:"config_dir"`
	DataPath       string `mapstructure:"data_path"`
	KeyPath        string `mapstructure:"key_path"`
	TokenPath      string `mapstructure:"token_path"`
	OfflineMode    bool   `mapstructure:"offline_mode"`
	RetryLimit     int    `mapstructure:"sync_retry_limit"`
	AttemptSeconds int    `mapstructure:"sync_attempt_seconds"`
	ProbeSeconds   int    `mapstructure:"probe_interval_seconds"`
}

// MustLoad reads the client configuration from the environment (with an
// optional .env file) and panics on an invalid result.
func MustLoad() *Config {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("failed to load .env file: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("OFFLINE_MODE", false)
	viper.SetDefault("SYNC_RETRY_LIMIT", 3)
	viper.SetDefault("SYNC_ATTEMPT_SECONDS", 10)
	viper.SetDefault("PROBE_INTERVAL_SECONDS", 30)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("failed to create config directory: %v\n", err)
	}

	keyPath := viper.GetString("KEY_PATH")
	if keyPath == "" {
		keyPath = filepath.Join(configDir, defaultKeyFile)
	}

	dataPath := viper.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(configDir, "heybuddy.db")
	}

	config := &Config{
		Env:            viper.GetString("APP_ENV"),
		ServerAddress:  viper.GetString("SERVER_ADDRESS"),
		ConfigDir:      configDir,
		DataPath:       dataPath,
		KeyPath:        keyPath,
		TokenPath:      filepath.Join(configDir, "token"),
		OfflineMode:    viper.GetBool("OFFLINE_MODE"),
		RetryLimit:     viper.GetInt("SYNC_RETRY_LIMIT"),
		AttemptSeconds: viper.GetInt("SYNC_ATTEMPT_SECONDS"),
		ProbeSeconds:   viper.GetInt("PROBE_INTERVAL_SECONDS"),
	}

	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	return config
}

func (c *Config) validate() error {
	if c.ServerAddress == "" && !c.OfflineMode {
		return fmt.Errorf("server_address must not be empty unless offline_mode is set")
	}
	if c.DataPath == "" {
		return fmt.Errorf("data_path must not be empty")
	}
	if c.RetryLimit < 1 {
		return fmt.Errorf("sync_retry_limit must be at least 1")
	}
	return nil
}

func (c *Config) AttemptTimeout() time.Duration {
	return time.Duration(c.AttemptSeconds) * time.Second
}

func (c *Config) ProbeInterval() time.Duration {
	return time.Duration(c.ProbeSeconds) * time.Second
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
