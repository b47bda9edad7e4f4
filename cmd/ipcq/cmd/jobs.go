package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var jobsLimit int

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List recent import jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)

		jobs, err := client.ImportJobs(context.Background(), jobsLimit)
		if err != nil {
			return fmt.Errorf("listing jobs: %w", err)
		}

		if jsonOut {
			return printJSON(jobs)
		}

		for _, j := range jobs {
			name := j.RelativePath
			if name == "" {
				name = j.Filename
			}
			line := fmt.Sprintf("%-36s %-8s %s", j.JobID, j.Status, name)
			if j.Error != "" {
				line += "  " + j.Error
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	jobsCmd.Flags().IntVar(&jobsLimit, "limit", 20, "maximum jobs to list")
	rootCmd.AddCommand(jobsCmd)
}
