// Package cmd implements the framelabel command line.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/framelabel/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "framelabel",
	Short: "Manual labeling of image sequences",
	Long: `framelabel steps through the frames of each subject in a batch and records,
per subject, the frame at which it metamorphosed and the frame at which it was
last alive. Labels are kept in a CSV table that is rewritten after every commit.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/framelabel/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/framelabel")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("FRAMELABEL")
	// Replace dots with underscores for nested keys in env vars
	// e.g., FRAMELABEL_PATHS_BASE_DIR for paths.base_dir
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// loadConfig returns the validated configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// resultsPath returns the --results flag of cmd, or the configured path.
func resultsPath(cmd *cobra.Command, cfg *config.Config) string {
	if f := cmd.Flags().Lookup("results"); f != nil && f.Changed {
		return f.Value.String()
	}
	return cfg.Paths.ResolveResultsFile()
}
