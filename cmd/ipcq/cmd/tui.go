package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tormodhaugland/ipcq/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return tui.Run(cfg)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
