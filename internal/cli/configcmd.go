package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ngmaloney/october-cli/internal/config"
	"github.com/spf13/cobra"
)

// Placeholders written by "config init" when no value is configured yet.
const (
	placeholderKey    = "your-api-key"
	placeholderSecret = "your-base64-api-secret"
)

func (a *app) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Inspect or create the config file",
		Annotations: map[string]string{skipConfig: "true"},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  exactArgs(0),
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintln(a.out, a.resolvedConfigPath())
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file from the current settings",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.resolvedConfigPath()
			switch _, err := os.Stat(path); {
			case err == nil && !force:
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			case err != nil && !errors.Is(err, fs.ErrNotExist):
				return err
			}

			cfg, err := config.LoadOptional(path, cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.APIKey == "" {
				cfg.APIKey = placeholderKey
			}
			if cfg.APISecret == "" {
				cfg.APISecret = placeholderSecret
			}
			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("writing config file %s: %w", path, err)
			}
			a.info("Wrote config to %s", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.AddCommand(initCmd)

	return cmd
}

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        exactArgs(0),
		Annotations: map[string]string{skipConfig: "true"},
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(a.out, "october-cli %s (commit %s, built %s)\n", a.build.Version, a.build.Commit, a.build.Date)
		},
	}
}

func (a *app) resolvedConfigPath() string {
	if a.configPath != "" {
		return config.ExpandTilde(a.configPath)
	}
	return config.FilePath()
}
