package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/ipcq/internal/api"
	"github.com/tormodhaugland/ipcq/internal/catalog"
)

var scanWait bool

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Rescan a library directory for new or changed PDFs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)
		ctx := context.Background()

		caps, err := client.Capabilities(ctx)
		if err == nil && !caps.ScanEnabled {
			reason := caps.ScanReason
			if reason == "" {
				reason = "scans are disabled on this server"
			}
			return fmt.Errorf("%s", reason)
		}

		path := ""
		if len(args) > 0 {
			path = catalog.Normalize(args[0])
		}

		job, err := client.SubmitScan(ctx, path)
		if err != nil {
			return fmt.Errorf("submitting scan: %w", err)
		}
		if job.JobID == "" {
			return fmt.Errorf("server did not return a job id")
		}
		fmt.Printf("scan job %s\n", job.JobID)

		if !scanWait {
			return nil
		}

		tracker := catalog.NewJobTracker(client)
		tracker.StartScanJob(job.JobID, path)
		tracker.Run(ctx)

		for _, j := range tracker.Jobs() {
			if j.Status == api.JobFailed {
				return fmt.Errorf("scan failed: %s", j.Error)
			}
		}
		fmt.Println("scan complete")
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanWait, "wait", true, "wait for the scan to finish")
	rootCmd.AddCommand(scanCmd)
}
