package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/keibalab/oddsget/internal/export"
	"github.com/keibalab/oddsget/internal/render"
	"github.com/keibalab/oddsget/internal/scrape"
)

var (
	fetchURL    string
	fetchOutput string
	fetchCSVDir string
	fetchIndent int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch one race's entries and odds",
	Long: `Fetch downloads the race page behind --url, collects the odds for every
bet type and writes the result as a JSON document (and optionally one CSV
file per bet type).

Example:
  oddsget fetch --url "https://race.netkeiba.com/race/shutuba.html?race_id=202605010101" --output race_data.json --csv-dir out/csv`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchURL, "url", "u", "",
		"Race page URL (required)")
	fetchCmd.MarkFlagRequired("url")

	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "",
		"JSON output path (default from config)")
	fetchCmd.Flags().StringVar(&fetchCSVDir, "csv-dir", "",
		"Directory for per-bet-type CSV files (default from config; empty skips CSV)")
	fetchCmd.Flags().IntVar(&fetchIndent, "indent", -1,
		"JSON indent width (default from config)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	jsonPath := fetchOutput
	if jsonPath == "" {
		jsonPath = cfg.Output.JSONPath
	}
	csvDir := fetchCSVDir
	if csvDir == "" {
		csvDir = cfg.Output.CSVDir
	}
	indent := fetchIndent
	if indent < 0 {
		indent = cfg.Output.JSONIndent
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn("Received shutdown signal")
		cancel()
	}()

	scraper := scrape.New(cfg, log)
	rec, err := scraper.Scrape(ctx, fetchURL)
	if err != nil {
		return fmt.Errorf("failed to scrape race: %w", err)
	}

	if err := export.WriteJSON(jsonPath, rec, indent); err != nil {
		return err
	}
	cmd.Printf("Saved JSON: %s\n", jsonPath)

	if csvDir != "" {
		paths, err := export.WriteCSVFiles(csvDir, rec)
		if err != nil {
			return err
		}
		cmd.Printf("Saved %d CSV files under %s\n", len(paths), csvDir)
	}

	cmd.Printf("\nRace %s (%s)\n", rec.RaceName, rec.RaceID)
	cmd.Print(render.StatusTable(rec, true))
	return nil
}
