package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keibalab/oddsget/internal/config"
)

func writeURLFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadURLFile(t *testing.T) {
	path := writeURLFile(t, `# race list
https://race.example.com/race/shutuba.html?race_id=2026P0010109

https://race.example.com/race/shutuba.html?race_id=202605010101
# trailing comment
`)

	urls, err := ReadURLFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://race.example.com/race/shutuba.html?race_id=2026P0010109",
		"https://race.example.com/race/shutuba.html?race_id=202605010101",
	}, urls)
}

func TestReadURLFile_Empty(t *testing.T) {
	path := writeURLFile(t, "# only comments\n\n")

	_, err := ReadURLFile(path)
	require.Error(t, err)

	var verr config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "url_file", verr.Field)
}

func TestReadURLFile_Missing(t *testing.T) {
	_, err := ReadURLFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open URL file")
}

// batchHandler serves a race with three runners whose trifecta odds are
// spread over the pivot pages.
func batchHandler(rawURL string) (string, error) {
	trifectaByPivot := map[string][][2]string{
		"1": {{"1-2-3", "1,914.6"}},
		"2": {{"1-2-3", "1,914.6"}, {"2-1-3", "2,005.0"}},
		"3": {{"2-1-3", "2,005.0"}, {"3-1-2", "3,010.2"}},
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	switch {
	case strings.Contains(u.Path, "shutuba"):
		return racePageContent, nil
	case strings.Contains(u.Path, "api_get_jra_odds"):
		return `{"status":"NG","reason":"オッズ情報はありません"}`, nil
	case strings.Contains(u.Path, "odds"):
		if q.Get("type") == "b8" {
			return cartPage("8", trifectaByPivot[q.Get("jiku")]), nil
		}
		return emptyCartPage(), nil
	}
	return "", errors.New("unexpected url " + rawURL)
}

func TestRunBatch_TrifectaMerge(t *testing.T) {
	s, _ := newTestScraper(batchHandler)
	outDir := t.TempDir()

	raceURL := "https://race.example.com/race/shutuba.html?race_id=2026P0010109"
	results, err := s.RunBatch(context.Background(), []string{raceURL}, outDir, 2)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	assert.Equal(t, "2026P0010109", results[0].RaceID)
	assert.Equal(t, filepath.Join(outDir, "2026P0010109"), results[0].Dir)

	data, err := os.ReadFile(results[0].JSONPath)
	require.NoError(t, err)

	var doc struct {
		RaceID   string                         `json:"race_id"`
		RaceDate string                         `json:"race_date"`
		Odds     map[string][]map[string]string `json:"odds"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "2026P0010109", doc.RaceID)
	assert.Equal(t, "", doc.RaceDate)

	trifecta := doc.Odds["三連単"]
	require.Len(t, trifecta, 3)
	assert.Equal(t, "1-2-3", trifecta[0]["combination"])
	assert.Equal(t, "1914.6", trifecta[0]["odds"])
	assert.Equal(t, "2-1-3", trifecta[1]["combination"])
	assert.Equal(t, "2005.0", trifecta[1]["odds"])
	assert.Equal(t, "3-1-2", trifecta[2]["combination"])
	assert.Equal(t, "3010.2", trifecta[2]["odds"])

	csvData, err := os.ReadFile(filepath.Join(results[0].Dir, "csv", "trifecta.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "1-2-3,1914.6")

	winData, err := os.ReadFile(filepath.Join(results[0].Dir, "csv", "win.csv"))
	require.NoError(t, err)
	assert.Equal(t, "combination,horse_name,odds\n", string(winData))
}

func TestRunBatch_DuplicateRaceIDs(t *testing.T) {
	s, _ := newTestScraper(batchHandler)
	outDir := t.TempDir()

	raceURL := "https://race.example.com/race/shutuba.html?race_id=2026P0010109"
	results, err := s.RunBatch(context.Background(), []string{raceURL, raceURL}, outDir, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join(outDir, "2026P0010109"), results[0].Dir)
	assert.Equal(t, filepath.Join(outDir, "2026P0010109_02"), results[1].Dir)

	for _, result := range results {
		require.NoError(t, result.Err)
		_, err := os.Stat(result.JSONPath)
		assert.NoError(t, err)
	}
}

func TestRunBatch_SkipsFailedRaces(t *testing.T) {
	handler := func(rawURL string) (string, error) {
		if strings.Contains(rawURL, "race_id=broken") {
			return "", errors.New("connection reset")
		}
		return batchHandler(rawURL)
	}

	s, _ := newTestScraper(handler)
	outDir := t.TempDir()

	urls := []string{
		"https://race.example.com/race/shutuba.html?race_id=broken",
		"https://race.example.com/race/shutuba.html?race_id=2026P0010109",
	}
	results, err := s.RunBatch(context.Background(), urls, outDir, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Error(t, results[0].Err)
	assert.Empty(t, results[0].Dir)

	require.NoError(t, results[1].Err)
	assert.Equal(t, filepath.Join(outDir, "2026P0010109"), results[1].Dir)
}

func TestRunBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, _ := newTestScraper(batchHandler)
	_, err := s.RunBatch(ctx, []string{"https://race.example.com/race/shutuba.html?race_id=1"}, t.TempDir(), 0)
	assert.ErrorIs(t, err, context.Canceled)
}
