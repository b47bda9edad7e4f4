package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tormodhaugland/ipcq/internal/api"
	"github.com/tormodhaugland/ipcq/internal/catalog"
)

var (
	uploadDir  string
	uploadWait bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf> [more.pdf ...]",
	Short: "Upload PDFs for indexing",
	Long: `Uploads one or more local PDFs. Each upload starts a background
indexing job on the server; with --wait the command polls until every
job finishes and reports the outcome.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)
		ctx := context.Background()

		caps, err := client.Capabilities(ctx)
		if err == nil && !caps.ImportEnabled {
			reason := caps.ImportReason
			if reason == "" {
				reason = "imports are disabled on this server"
			}
			return fmt.Errorf("%s", reason)
		}

		tracker := catalog.NewJobTracker(client)
		targetDir := catalog.Normalize(uploadDir)

		failed := 0
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				failed++
				continue
			}
			info, err := f.Stat()
			if err != nil {
				f.Close()
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				failed++
				continue
			}
			job, err := client.Upload(ctx, filepath.Base(path), targetDir, f, info.Size())
			f.Close()
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				failed++
				continue
			}
			fmt.Printf("%s: job %s\n", filepath.Base(path), job.JobID)
			tracker.StartImportJob(job.JobID, filepath.Base(path))
		}

		if failed == len(args) {
			return fmt.Errorf("all uploads failed")
		}
		if !uploadWait || !tracker.Active() {
			return nil
		}

		tracker.Run(ctx)
		jobFailed := false
		for _, j := range tracker.Jobs() {
			switch j.Status {
			case api.JobSuccess:
				fmt.Printf("%s: done\n", j.PathText)
			case api.JobFailed:
				jobFailed = true
				fmt.Fprintf(os.Stderr, "%s: failed: %s\n", j.PathText, j.Error)
			}
		}
		if jobFailed || failed > 0 {
			return fmt.Errorf("some uploads did not complete")
		}
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadDir, "dir", "", "target directory on the server")
	uploadCmd.Flags().BoolVar(&uploadWait, "wait", true, "wait for indexing to finish")
	rootCmd.AddCommand(uploadCmd)
}
