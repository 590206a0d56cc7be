package scrape

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/keibalab/oddsget/internal/config"
	"github.com/keibalab/oddsget/internal/export"
	"github.com/keibalab/oddsget/internal/race"
)

// batchJSONName is the JSON file written into each race's batch directory.
const batchJSONName = "race_data.json"

// BatchResult reports the outcome for one URL of a batch run.
type BatchResult struct {
	URL      string
	RaceID   string
	Dir      string
	JSONPath string
	Record   *race.RaceRecord
	Err      error
}

// ReadURLFile loads race URLs from a text file, one per line. Blank lines
// and lines starting with "#" are skipped. An empty effective list is a
// configuration error.
func ReadURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}
	if len(urls) == 0 {
		return nil, config.ValidationError{
			Field:   "url_file",
			Message: "no race URLs in " + path,
		}
	}
	return urls, nil
}

// RunBatch scrapes every URL in order and writes each race's output into its
// own directory under outDir: the JSON document plus a csv/ subdirectory with
// the per-bet-type files. A URL whose scrape fails is recorded and skipped;
// only a cancelled context aborts the run.
func (s *Scraper) RunBatch(ctx context.Context, urls []string, outDir string, indent int) ([]BatchResult, error) {
	layout := export.NewBatchLayout(outDir)

	results := make([]BatchResult, 0, len(urls))
	for i, raceURL := range urls {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := BatchResult{URL: raceURL}
		rec, err := s.Scrape(ctx, raceURL)
		if err != nil {
			s.log.WithURL(raceURL).Errorw("race scrape failed, skipping", "error", err)
			result.Err = err
			results = append(results, result)
			continue
		}

		result.RaceID = rec.RaceID
		result.Record = rec

		dir, err := layout.RaceDir(rec.RaceID, i)
		if err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}
		result.Dir = dir

		jsonPath := filepath.Join(dir, batchJSONName)
		if err := export.WriteJSON(jsonPath, rec, indent); err != nil {
			s.log.WithRace(rec.RaceID).Errorw("failed to write race JSON", "error", err)
			result.Err = err
			results = append(results, result)
			continue
		}
		result.JSONPath = jsonPath

		if _, err := export.WriteCSVFiles(filepath.Join(dir, "csv"), rec); err != nil {
			s.log.WithRace(rec.RaceID).Errorw("failed to write race CSV files", "error", err)
			result.Err = err
		}
		results = append(results, result)
	}
	return results, nil
}
