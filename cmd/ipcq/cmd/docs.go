package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List all indexed documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)

		docs, err := client.Docs(context.Background())
		if err != nil {
			return fmt.Errorf("listing documents: %w", err)
		}

		if jsonOut {
			return printJSON(docs)
		}

		for _, d := range docs {
			path := d.RelativePath
			if path == "" {
				path = d.PDFName
			}
			fmt.Printf("%6d  %s\n", d.ID, path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
