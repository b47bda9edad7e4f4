package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var pdfOut string

var pdfCmd = &cobra.Command{
	Use:   "pdf <pdf-name>",
	Short: "Download a PDF from the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)

		body, size, err := client.FetchPDF(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("fetching %s: %w", args[0], err)
		}
		defer body.Close()

		out := pdfOut
		if out == "" {
			out = args[0]
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()

		n, err := io.Copy(f, body)
		if err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		if size > 0 && n != size {
			return fmt.Errorf("short download: %d of %d bytes", n, size)
		}
		fmt.Printf("wrote %s (%d bytes)\n", out, n)
		return nil
	},
}

func init() {
	pdfCmd.Flags().StringVarP(&pdfOut, "out", "o", "", "output file (default: the PDF name)")
	rootCmd.AddCommand(pdfCmd)
}
