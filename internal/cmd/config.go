package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/framelabel/internal/config"
	"github.com/Iron-Ham/framelabel/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify framelabel configuration",
	Long: `View or modify framelabel configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  framelabel config set paths.base_dir ~/experiments/data_raw
  framelabel config set playback.auto_advance_interval_ms 150
  framelabel config set frames.extensions .jpg,.png

Valid keys:
  paths.base_dir                    - Folder containing the batch folders
  paths.results_file                - CSV label table
  paths.log_dir                     - Log directory
  frames.extensions                 - Comma-separated frame file extensions
  playback.auto_advance_interval_ms - Auto-advance step period in milliseconds
  playback.feedback_timeout_ms      - Feedback display time in milliseconds
  display.grayscale                 - Start in grayscale (true/false)
  display.preview                   - Render frames in the terminal (true/false)
  display.max_preview_width         - Preview width cap in cells (0 = none)
  watch.enabled                     - Refresh listings on disk changes (true/false)
  logging.enabled                   - Write a log file (true/false)
  logging.level                     - debug, info, warn or error`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/framelabel/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// configKeyTypes lists the keys accepted by config set.
var configKeyTypes = map[string]string{
	"paths.base_dir":                    "string",
	"paths.results_file":                "string",
	"paths.log_dir":                     "string",
	"frames.extensions":                 "list",
	"playback.auto_advance_interval_ms": "int",
	"playback.feedback_timeout_ms":      "int",
	"display.grayscale":                 "bool",
	"display.preview":                   "bool",
	"display.max_preview_width":         "int",
	"watch.enabled":                     "bool",
	"logging.enabled":                   "bool",
	"logging.level":                     "string",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := config.Get()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// parseConfigValue converts value to the type of key. Rejected values are
// validation errors matching errors.ErrInvalidInput.
func parseConfigValue(key, value string) (any, error) {
	keyType, ok := configKeyTypes[key]
	if !ok {
		return nil, errors.NewValidationError("unknown configuration key; run 'framelabel config set --help' to see valid keys").
			WithField(key)
	}
	invalid := func(message string) error {
		return errors.NewValidationError(message).WithField(key).WithValue(value)
	}

	switch keyType {
	case "bool":
		if value != "true" && value != "false" {
			return nil, invalid("expected true or false")
		}
		return value == "true", nil
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return nil, invalid("expected integer")
		}
		if intVal < 0 {
			return nil, invalid("must be non-negative")
		}
		return intVal, nil
	case "list":
		var items []string
		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			return nil, invalid("expected a comma-separated list")
		}
		return items, nil
	default:
		if key == "logging.level" && !slices.Contains(config.ValidLogLevels(), strings.ToLower(value)) {
			return nil, invalid("must be one of: " + strings.Join(config.ValidLogLevels(), ", "))
		}
		return value, nil
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	typedValue, err := parseConfigValue(key, args[1])
	if err != nil {
		return err
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set(key, typedValue)

	configFile := config.ConfigFile()
	if viper.ConfigFileUsed() != "" {
		configFile = viper.ConfigFileUsed()
	}
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

// defaultConfigContent is the commented config written by config init.
const defaultConfigContent = `# framelabel configuration

paths:
  # Folder containing one sub-folder per batch
  base_dir: data_raw
  # CSV label table, rewritten after every commit
  results_file: results.csv
  # Log directory (empty = <config dir>/logs)
  log_dir: ""

frames:
  # Frame file extensions, matched case-insensitively
  extensions:
    - .jpg

playback:
  # Delay between auto-advance steps
  auto_advance_interval_ms: 200
  # How long "saved" messages stay on screen
  feedback_timeout_ms: 1000

display:
  # Start with grayscale contrast stretching
  grayscale: false
  # Render the current frame in the terminal
  preview: true
  # Preview width cap in terminal cells (0 = no cap)
  max_preview_width: 100

watch:
  # Refresh batch, subject and frame listings when files change
  enabled: true

logging:
  enabled: true
  # debug, info, warn or error
  level: info
  max_size_mb: 10
  max_backups: 3
  compress: false
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'framelabel config set' to modify values", configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize framelabel's behavior.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. $HOME/.config/framelabel/config.yaml\n")
	fmt.Fprintf(out, "  3. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: FRAMELABEL_* (e.g., FRAMELABEL_PATHS_BASE_DIR)")
	return nil
}
