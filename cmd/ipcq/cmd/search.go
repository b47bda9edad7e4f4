package cmd

import (
	"context"
	"fmt"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/tormodhaugland/ipcq/internal/api"
	"github.com/tormodhaugland/ipcq/internal/history"
	"github.com/tormodhaugland/ipcq/internal/ipc"
)

var (
	searchMatch    string
	searchSort     string
	searchPage     int
	searchPageSize int
	searchNotes    bool
	searchPDF      string
	searchDir      string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search parts by number or name",
	Long: `Searches the parts index. With --match=all (the default) the server
chooses part-number ranking automatically when the query looks like a
part number, e.g.:

  ipcq search MS20470AD4
  ipcq search "hex bolt" --match=term
  ipcq search 65-123 --pdf wing.pdf --page 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)

		q := api.SearchQuery{
			Query:        args[0],
			Match:        searchMatch,
			Sort:         searchSort,
			Page:         ipc.ClampPage(searchPage),
			PageSize:     ipc.ClampPageSize(ipc.PositiveInt(searchPageSize, cfg.PageSize)),
			IncludeNotes: searchNotes,
			SourcePDF:    searchPDF,
			SourceDir:    searchDir,
		}

		resp, err := client.Search(context.Background(), q)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if hist, err := history.Open(cfg.HistoryPath()); err == nil {
			if q.Page == 1 {
				hist.AddSearch(q.Query, q.Match, resp.Total)
			}
			hist.Close()
		}

		if jsonOut {
			return printJSON(resp)
		}

		out := termenv.NewOutput(cmd.OutOrStdout())
		mark := func(s string) string {
			return out.String(s).Bold().Foreground(out.Color("11")).String()
		}

		fmt.Printf("%d results (page %d/%d, %d ms)\n\n",
			resp.Total, resp.Page, ipc.TotalPages(resp.Total, resp.PageSize), resp.ElapsedMS)
		for _, r := range resp.Results {
			pn := ipc.PartNumber(r.PartNumberCanonical, r.PartNumberExtracted, r.PartNumberCell)
			fig := ipc.FigItemDisplay(r.FigItem, "", r.NotIllustrated != 0)
			fmt.Printf("%8d  %-24s %-8s %s\n",
				r.ID, ipc.Highlight(pn, resp.Query, mark), fig,
				ipc.Highlight(r.NomenclaturePreview, resp.Query, mark))
			fmt.Printf("          %s p.%d %s\n", r.SourcePDF, r.PageNum, r.FigureCode)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchMatch, "match", "all", "match mode: all, pn or term")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "sort order")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "result page")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", 0, "results per page (default from config)")
	searchCmd.Flags().BoolVar(&searchNotes, "notes", false, "include note rows")
	searchCmd.Flags().StringVar(&searchPDF, "pdf", "", "restrict to one source PDF")
	searchCmd.Flags().StringVar(&searchDir, "dir", "", "restrict to one source directory")
	rootCmd.AddCommand(searchCmd)
}
