package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/ipcq/internal/catalog"
)

var renameCmd = &cobra.Command{
	Use:   "rename <path> <new-name>",
	Short: "Rename a document in place",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := catalog.Normalize(args[0])
		newName := strings.TrimSpace(args[1])
		if newName == "" {
			return fmt.Errorf("new name must not be empty")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)

		result, err := client.RenameDoc(context.Background(), path, newName)
		if err != nil {
			return fmt.Errorf("rename failed: %w", err)
		}

		if jsonOut {
			return printJSON(result)
		}
		fmt.Printf("%s -> %s\n", result.OldPath, result.NewPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
