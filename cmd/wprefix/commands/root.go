package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wprefix/internal/config"
	"wprefix/internal/icon"
	"wprefix/internal/infrastructure/logging"
	"wprefix/internal/platform"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "wprefix",
		Short: "wprefix - switch windows by typing part of their title",
		Long: `wprefix lists the top-level application windows, one per application,
and switches to a window picked by number or narrowed down by typing part of
its title.

The GUI switcher is the program at the repository root; these commands
query and drive the same window list from a terminal.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}

	// Set by loadConfig for every command
	cfg    *config.Config
	logger logging.Logger

	// newWindowAPI is replaced in tests
	newWindowAPI = platform.NewWindowAPI
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().String("env", "", "environment (development, production, test)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	viper.BindPFlag("environment", rootCmd.PersistentFlags().Lookup("env"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func loadConfig(cmd *cobra.Command, args []string) error {
	env := viper.GetString("environment")
	if env == "" {
		env = os.Getenv(config.EnvPrefix + "_ENVIRONMENT")
	}

	loaded, err := config.Load(cfgFile, env)
	if err != nil {
		return err
	}
	if viper.IsSet("log_level") && viper.GetString("log_level") != "" {
		loaded.LogLevel = viper.GetString("log_level")
		if err := loaded.Validate(); err != nil {
			return err
		}
	}

	cfg = loaded
	logger = logging.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.PrettyLogs)
	return nil
}

// newIconManager creates the icon manager the commands share.
func newIconManager(api platform.WindowAPI) (*icon.Manager, error) {
	return icon.NewManager(api, icon.Options{
		Timeout:          cfg.IconTimeout,
		CompactThreshold: cfg.CompactThreshold,
		FallbackSize:     cfg.FallbackIconSize,
	}, logger)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
