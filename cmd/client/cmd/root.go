package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"heybuddy/cmd/client/cmd/types"
	"heybuddy/internal/app/client"
	"heybuddy/internal/app/client/config"
)

var (
	cfgFile   string
	cfg       *config.Config
	app       *client.App
	serverURL string
	offline   bool
)

var rootCmd = &cobra.Command{
	Use:   "heybuddy",
	Short: "HeyBuddy - local-first notes, tasks and schedules",
	Long: `HeyBuddy keeps your notes, tasks, schedule events and voice
transcripts on your own machine and syncs them to a server when one is
reachable. Every change is written locally first; offline changes are queued
and replayed automatically on reconnect.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	defer func() {
		if app != nil {
			app.Close()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}
	if offline {
		cfg.OfflineMode = true
	}

	app, err = client.New(cfg, nil)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	app.Start(cmd.Context())
	cmd.SetContext(types.WithApp(cmd.Context(), app))
	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		viper.AddConfigPath(filepath.Join(home, ".heybuddy"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return config.MustLoad(), nil
}

func init() {
	cobra.OnInitialize()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "HeyBuddy server URL")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "run without a server")
}
