package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health and capabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)
		ctx := context.Background()

		h, err := client.Health(ctx)
		if err != nil {
			return fmt.Errorf("server unreachable at %s: %w", cfg.ServerURL, err)
		}

		caps, capsErr := client.Capabilities(ctx)

		if jsonOut {
			return printJSON(map[string]any{"health": h, "capabilities": caps})
		}

		fmt.Printf("server:   %s\n", cfg.ServerURL)
		fmt.Printf("status:   %s\n", h.Status)
		if h.Version != "" {
			fmt.Printf("version:  %s\n", h.Version)
		}
		for k, v := range h.Database {
			fmt.Printf("db %-8s %v\n", k+":", v)
		}
		if capsErr == nil {
			fmt.Printf("imports:  %v\n", caps.ImportEnabled)
			fmt.Printf("scans:    %v\n", caps.ScanEnabled)
			if caps.WriteAuthMode != "" {
				fmt.Printf("auth:     %s\n", caps.WriteAuthMode)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
