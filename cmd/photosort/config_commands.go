package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"photosort/internal/config"
	"photosort/internal/preflight"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set geocoding.enabled and api_key (or export GOOGLE_MAPS_API_KEY) to name folders by place.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			if !ctx.configExists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			rows := [][]string{
				{"Scan order", cfg.Scan.Order},
				{"Extensions", strings.Join(cfg.Scan.Extensions, " ")},
				{"Tolerance", strconv.FormatFloat(cfg.Grouping.Tolerance, 'f', -1, 64)},
				{"Precision", strconv.Itoa(cfg.Grouping.Precision)},
				{"Verify order", yesNo(cfg.Grouping.VerifyOrder)},
				{"Metadata backend", cfg.Metadata.Backend},
				{"Geocoding", yesNo(cfg.Geocoding.Enabled)},
				{"Geocode provider", cfg.Geocoding.Provider},
				{"Geocode cache", cfg.Geocoding.CachePath},
			}
			fmt.Fprintln(out, renderTable("", []string{"Setting", "Value"}, rows, nil))
			color := shouldColorize(out)
			for _, r := range preflight.CheckMetadataBackend(cfg) {
				fmt.Fprintln(out, renderCheckLine(r, color))
			}
			if cfg.Geocoding.Enabled {
				fmt.Fprintln(out, renderCheckLine(preflight.CheckGeocoding(cfg), color))
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
