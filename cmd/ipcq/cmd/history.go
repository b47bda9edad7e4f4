package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/ipcq/internal/history"
	"github.com/tormodhaugland/ipcq/internal/ipc"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := history.Open(cfg.HistoryPath())
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer db.Close()

		if historyClear {
			if err := db.ClearSearches(); err != nil {
				return err
			}
			fmt.Println("history cleared")
			return nil
		}

		entries, err := db.RecentSearches(historyLimit)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(entries)
		}
		for _, e := range entries {
			fmt.Printf("%-30s %-5s %5d  %s\n",
				e.Query, e.MatchMode, e.ResultCount, e.SearchedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "List bookmarked parts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := history.Open(cfg.HistoryPath())
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer db.Close()

		favs, err := db.Favorites()
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(favs)
		}
		for _, f := range favs {
			fmt.Printf("%8d  %-24s %-32s %s\n", f.PartID, f.PartNumber, f.Description, f.PDFName)
		}
		return nil
	},
}

var favAddCmd = &cobra.Command{
	Use:   "add <part-id>",
	Short: "Bookmark a part",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid part id %q", args[0])
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)
		detail, err := client.Part(context.Background(), id)
		if err != nil {
			return err
		}
		db, err := history.Open(cfg.HistoryPath())
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer db.Close()

		part := detail.Part
		pn := ipc.PartNumber(part.PartNumberCanonical, part.PartNumberExtracted, part.PartNumberCell)
		desc := part.NomenclatureClean
		if desc == "" {
			desc = part.Nomenclature
		}
		if err := db.AddFavorite(id, pn, desc, part.SourcePDF); err != nil {
			return err
		}
		fmt.Printf("bookmarked %d  %s\n", id, pn)
		return nil
	},
}

var favRmCmd = &cobra.Command{
	Use:   "rm <part-id>",
	Short: "Remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid part id %q", args[0])
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := history.Open(cfg.HistoryPath())
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer db.Close()

		if err := db.RemoveFavorite(id); err != nil {
			return err
		}
		fmt.Printf("removed bookmark %d\n", id)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to show")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "clear the search history")
	favCmd.AddCommand(favAddCmd, favRmCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(favCmd)
}
