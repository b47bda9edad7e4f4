package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/ipcq/internal/render"
)

var (
	pageScale   float64
	pageOut     string
	pageNoCache bool
)

var pageCmd = &cobra.Command{
	Use:   "page <pdf-name> <page>",
	Short: "Render a catalog page to PNG",
	Long: `Fetches the rasterized PNG for one PDF page. Rendered pages are
cached locally; --no-cache forces a fresh render.

  ipcq page wing.pdf 12 --scale 2 -o wing-p12.png`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pdfName := args[0]
		pageNum, err := strconv.Atoi(args[1])
		if err != nil || pageNum < 1 {
			return fmt.Errorf("invalid page number: %s", args[1])
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)
		cache := render.New(client, cfg.PageCacheDir())
		ctx := context.Background()

		if pageNoCache {
			if err := cache.Evict(pdfName, pageNum, pageScale); err != nil {
				return fmt.Errorf("evicting cached page: %w", err)
			}
		}

		data, err := cache.Page(ctx, pdfName, pageNum, pageScale)
		if err != nil {
			return fmt.Errorf("rendering page: %w", err)
		}

		out := pageOut
		if out == "" {
			out = fmt.Sprintf("%s-p%d.png", render.SafePDFName(pdfName), pageNum)
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", out, len(data))
		return nil
	},
}

func init() {
	pageCmd.Flags().Float64Var(&pageScale, "scale", 1.5, "render scale (server clamps to 1.0-4.0)")
	pageCmd.Flags().StringVarP(&pageOut, "out", "o", "", "output file (default <pdf>-p<page>.png)")
	pageCmd.Flags().BoolVar(&pageNoCache, "no-cache", false, "bypass the local page cache")
	rootCmd.AddCommand(pageCmd)
}
