package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <name>",
	Short: "Create a folder under the library root",
	Long: `Creates a folder. The server only allows folders directly under the
root; nested folders appear when a scan finds them on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("folder name must not be empty")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)

		result, err := client.CreateFolder(context.Background(), "", name)
		if err != nil {
			return fmt.Errorf("creating folder: %w", err)
		}

		if jsonOut {
			return printJSON(result)
		}
		fmt.Printf("created %s\n", result.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mkdirCmd)
}
