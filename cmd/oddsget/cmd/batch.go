package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/keibalab/oddsget/internal/scrape"
)

var (
	batchURLFile string
	batchOutDir  string
	batchIndent  int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Fetch many races from a URL list file",
	Long: `Batch reads race page URLs from a text file (one per line, "#" comments
and blank lines skipped) and scrapes them in order. Each race gets its own
directory under the batch output directory, named after its race id, with
the JSON document and the per-bet-type CSV files inside.

A race that fails to scrape is logged and skipped; the batch continues.

Example:
  oddsget batch --url-file races.txt --batch-output-dir out/batch`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchURLFile, "url-file", "f", "",
		"File with one race page URL per line (required)")
	batchCmd.MarkFlagRequired("url-file")

	batchCmd.Flags().StringVar(&batchOutDir, "batch-output-dir", "",
		"Root directory for per-race output (default from config)")
	batchCmd.Flags().IntVar(&batchIndent, "indent", -1,
		"JSON indent width (default from config)")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	urls, err := scrape.ReadURLFile(batchURLFile)
	if err != nil {
		return err
	}

	outDir := batchOutDir
	if outDir == "" {
		outDir = cfg.Output.BatchDir
	}
	indent := batchIndent
	if indent < 0 {
		indent = cfg.Output.JSONIndent
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn("Received shutdown signal - finishing current race")
		cancel()
	}()

	log.Infow("Starting batch run", "urls", len(urls), "output", outDir)

	scraper := scrape.New(cfg, log)
	results, err := scraper.RunBatch(ctx, urls, outDir, indent)
	if err != nil {
		return fmt.Errorf("batch run aborted: %w", err)
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			cmd.Printf("FAILED  %s: %v\n", result.URL, result.Err)
			continue
		}
		cmd.Printf("Saved   %s -> %s\n", result.URL, result.Dir)
	}
	cmd.Printf("\n%d races saved, %d failed\n", len(results)-failed, failed)

	if failed == len(results) {
		return fmt.Errorf("every race in the batch failed")
	}
	return nil
}
