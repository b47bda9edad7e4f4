package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/ipcq/internal/catalog"
)

var moveCmd = &cobra.Command{
	Use:   "move <path> <target-dir>",
	Short: "Move a document to another directory",
	Long: `Moves a document. Use "/" or "" as the target to move it to the
library root.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := catalog.Normalize(args[0])
		targetDir := catalog.Normalize(args[1])

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)

		result, err := client.MoveDoc(context.Background(), path, targetDir)
		if err != nil {
			return fmt.Errorf("move failed: %w", err)
		}

		if jsonOut {
			return printJSON(result)
		}
		fmt.Printf("%s -> %s\n", result.OldPath, result.NewPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
