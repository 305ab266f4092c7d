package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/newschat/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var writeConfig bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration newschat runs with, after merging defaults, the
config file, NEWSCHAT_* environment variables and flags.

With --write the output is saved as the config file, unless one exists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return &internal.ConfigError{Key: "config", Err: err}
		}

		if !writeConfig {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}

		path := configPath
		if path == "" {
			path = statePaths.ConfigFile
		}
		if _, err := os.Stat(path); err == nil {
			return &internal.ConfigError{Key: path, Err: errors.New("file exists, not overwriting")}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		internal.PrintSuccess(cmd.OutOrStdout(), "Config written to "+path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&writeConfig, "write", false, "Save the effective configuration as the config file")
}
