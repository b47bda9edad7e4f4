package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/ipcq/internal/api"
	"github.com/tormodhaugland/ipcq/internal/catalog"
)

var treeDepth int

var treeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: "Show the document directory tree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)

		path := ""
		if len(args) > 0 {
			path = catalog.Normalize(args[0])
		}

		ctx := context.Background()
		if jsonOut {
			node, err := client.DocsTree(ctx, path)
			if err != nil {
				return fmt.Errorf("fetching tree: %w", err)
			}
			return printJSON(node)
		}
		return printTree(ctx, client, path, 0)
	},
}

func printTree(ctx context.Context, client *api.Client, path string, depth int) error {
	node, err := client.DocsTree(ctx, path)
	if err != nil {
		return fmt.Errorf("fetching tree at %q: %w", path, err)
	}

	indent := strings.Repeat("  ", depth)
	for _, d := range node.Directories {
		fmt.Printf("%s%s/\n", indent, d.Name)
		if depth+1 < treeDepth {
			if err := printTree(ctx, client, d.Path, depth+1); err != nil {
				return err
			}
		}
	}
	for _, f := range node.Files {
		marker := ""
		if !f.Indexed {
			marker = "  (not indexed)"
		}
		fmt.Printf("%s%s%s\n", indent, f.Name, marker)
	}
	return nil
}

func init() {
	treeCmd.Flags().IntVar(&treeDepth, "depth", 1, "directory levels to descend")
	rootCmd.AddCommand(treeCmd)
}
