package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/ipcq/internal/catalog"
)

var rmForce bool

var rmCmd = &cobra.Command{
	Use:   "rm <path> [path ...]",
	Short: "Delete documents from the library",
	Long: `Deletes documents by relative path. Partial failure is reported
per path: a CONFLICT means the name is ambiguous and the server lists
the candidate paths to use instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seen := map[string]struct{}{}
		var paths []string
		for _, a := range args {
			p := catalog.Normalize(a)
			if p == "" {
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			paths = append(paths, p)
		}
		if len(paths) == 0 {
			return fmt.Errorf("no valid paths given")
		}

		if !rmForce {
			fmt.Printf("Delete %d document(s)? [y/N] ", len(paths))
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Println("aborted")
				return nil
			}
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)

		result, err := client.BatchDelete(context.Background(), paths)
		if err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}

		if jsonOut {
			return printJSON(result)
		}

		fmt.Printf("deleted %d/%d\n", result.Deleted, result.Total)
		for _, item := range result.Results {
			if item.OK {
				continue
			}
			fmt.Fprintf(os.Stderr, "%s: %s", item.Path, item.Error)
			if item.ErrorCode == "CONFLICT" && item.Details != nil && len(item.Details.Candidates) > 0 {
				fmt.Fprintf(os.Stderr, " (candidates: %s)", strings.Join(item.Details.Candidates, ", "))
			}
			fmt.Fprintln(os.Stderr)
		}
		if result.Failed > 0 {
			return fmt.Errorf("%d deletion(s) failed", result.Failed)
		}
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "skip confirmation")
	rootCmd.AddCommand(rmCmd)
}
