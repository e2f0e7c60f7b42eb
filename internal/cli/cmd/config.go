package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bnema/buildsel/internal/cli/styles"
	"github.com/bnema/buildsel/internal/config"
)

var configPathOnly bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Display the config file path and the effective settings, after
environment overrides (BUILDSEL_*) and the --server flag.`,
	RunE: runConfig,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the config file",
	Long: `Print the JSON schema of config.toml, for editor completion and validation.

The schema is also written next to the config file on first run.`,
	RunE: runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSchemaCmd)
	configCmd.Flags().BoolVar(&configPathOnly, "path", false, "print only the config file path")
}

func runConfig(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	out := cmd.OutOrStdout()
	renderer := styles.NewConfigRenderer(app.Theme)

	configFile, err := config.GetConfigFile()
	if err != nil {
		fmt.Fprintln(out, renderer.RenderError(err))
		return nil
	}
	if configPathOnly {
		fmt.Fprintln(out, configFile)
		return nil
	}

	if _, statErr := os.Stat(configFile); os.IsNotExist(statErr) {
		fmt.Fprintln(out, renderer.RenderNoConfigFile(configFile))
		return nil
	}

	fmt.Fprintln(out, renderer.RenderConfigInfo(configFile, configEntries(app.Config)))
	return nil
}

func configEntries(cfg *config.Config) []styles.ConfigEntry {
	return []styles.ConfigEntry{
		{Key: "server.base_url", Value: cfg.Server.BaseURL},
		{Key: "server.timeout", Value: cfg.Server.Timeout.String()},
		{Key: "server.client_path", Value: cfg.Server.ClientPath},
		{Key: "polling.interval", Value: cfg.Polling.Interval.String()},
		{Key: "polling.timeout", Value: cfg.Polling.Timeout.String()},
		{Key: "polling.fetch_cooldown", Value: cfg.Polling.FetchCooldown.String()},
		{Key: "console.page_size", Value: strconv.Itoa(cfg.Console.PageSize)},
		{Key: "console.search_debounce", Value: cfg.Console.SearchDebounce.String()},
		{Key: "console.toast_duration", Value: cfg.Console.ToastDuration.String()},
		{Key: "console.open_client", Value: strconv.FormatBool(cfg.Console.OpenClient)},
		{Key: "console.open_delay", Value: cfg.Console.OpenDelay.String()},
		{Key: "logging.level", Value: cfg.Logging.Level},
		{Key: "logging.format", Value: cfg.Logging.Format},
		{Key: "logging.log_dir", Value: cfg.Logging.LogDir},
		{Key: "logging.enable_file_log", Value: strconv.FormatBool(cfg.Logging.EnableFileLog)},
		{Key: "metrics.enabled", Value: strconv.FormatBool(cfg.Metrics.Enabled)},
		{Key: "metrics.listen_addr", Value: cfg.Metrics.ListenAddr},
		{Key: "appearance.color_scheme", Value: cfg.Appearance.ColorScheme},
		{Key: "appearance.date_format", Value: cfg.Appearance.DateFormat},
	}
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	data, err := config.Schema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
