package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/ipcq/internal/api"
	"github.com/tormodhaugland/ipcq/internal/ipc"
)

var partCmd = &cobra.Command{
	Use:   "part <id>",
	Short: "Show the full record for one part",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid part id: %s", args[0])
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)

		detail, err := client.Part(context.Background(), id)
		if err != nil {
			if api.IsNotFound(err) {
				return fmt.Errorf("part %d not found", id)
			}
			return fmt.Errorf("fetching part: %w", err)
		}

		if jsonOut {
			return printJSON(detail)
		}

		p := detail.Part
		pn := ipc.PartNumber(p.PartNumberCanonical, p.PartNumberExtracted, p.PartNumberCell)
		fmt.Printf("%s\n", pn)
		fmt.Printf("  Name:         %s\n", p.Nomenclature)
		fmt.Printf("  Source:       %s p.%d\n", p.SourcePDF, p.PageNum)
		if p.FigureCode != "" {
			fmt.Printf("  Figure:       %s %s\n", p.FigureCode, p.FigureLabel)
		}
		if fig := ipc.FigItemDisplay(p.FigItem, "", p.NotIllustrated != 0); fig != "" {
			fmt.Printf("  Fig item:     %s\n", fig)
		}
		if p.Effectivity != "" {
			fmt.Printf("  Effectivity:  %s\n", p.Effectivity)
		}
		if p.UnitsPerAssy != "" {
			fmt.Printf("  Units/assy:   %s\n", p.UnitsPerAssy)
		}
		for _, n := range p.AttachedNotes {
			fmt.Printf("  Note:         %s\n", n.Text)
		}
		if len(detail.Aliases) > 0 {
			fmt.Println("  Aliases:")
			for _, a := range detail.Aliases {
				fmt.Printf("    %s (%s)\n", a.AliasValue, a.AliasType)
			}
		}
		if len(detail.Xrefs) > 0 {
			fmt.Println("  Cross references:")
			for _, x := range detail.Xrefs {
				fmt.Printf("    %s -> %s\n", x.Kind, x.Target)
			}
		}
		if len(detail.Hierarchy.Ancestors) > 0 {
			fmt.Println("  Assembly path:")
			for i, a := range detail.Hierarchy.Ancestors {
				fmt.Printf("    %*s%s  %s\n", i*2, "", a.PartNumber, a.Nomenclature)
			}
		}
		if len(detail.Hierarchy.Children) > 0 {
			fmt.Println("  Children:")
			for _, c := range detail.Hierarchy.Children {
				fmt.Printf("    %s  %s\n", c.PartNumber, c.Nomenclature)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(partCmd)
}
