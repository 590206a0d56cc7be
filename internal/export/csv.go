package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/keibalab/oddsget/internal/nameutil"
	"github.com/keibalab/oddsget/internal/race"
)

// WriteCSVFiles writes one CSV file per bet type into dir, named after the
// bet type's file alias. A bet type with zero rows still gets a header-only
// file so downstream consumers see the full set. Returns the written paths
// in bet-type order.
func WriteCSVFiles(dir string, rec *race.RaceRecord) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create CSV directory: %w", err)
	}

	var paths []string
	for _, bt := range race.AllBetTypes() {
		path := filepath.Join(dir, nameutil.SafeFileName(bt.FileAlias())+".csv")
		if err := writeCSV(path, bt, rec.Odds[bt]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSV(path string, bt race.BetType, rows []race.OddsRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"combination", "odds"}
	if bt.Legs() == 1 {
		header = []string{"combination", "horse_name", "odds"}
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{row.Combination, row.Odds}
		if bt.Legs() == 1 {
			record = []string{row.Combination, row.HorseName, row.Odds}
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}
	return f.Close()
}
