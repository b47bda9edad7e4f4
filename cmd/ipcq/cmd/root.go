package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/ipcq/internal/api"
	"github.com/tormodhaugland/ipcq/internal/config"
)

var (
	cfgFile   string
	jsonOut   bool
	serverURL string
	apiKey    string
)

var rootCmd = &cobra.Command{
	Use:   "ipcq",
	Short: "Search and manage illustrated parts catalogs",
	Long: `ipcq is a client for an IPC query server: full-text and part-number
search over indexed parts catalogs, a directory browser for the PDF
library, uploads with background indexing, and page rendering.

Running 'ipcq' without arguments launches the TUI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tuiCmd.RunE(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/ipcq/config.json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for write operations (overrides config)")
}

// loadConfig merges the config file with command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	return cfg, nil
}

func newClient(cfg *config.Config) *api.Client {
	client := api.New(cfg.ServerURL, cfg.Timeout())
	if cfg.APIKey != "" {
		client.SetAPIKey(cfg.APIKey)
	}
	return client
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
