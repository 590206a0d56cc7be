package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keibalab/oddsget/internal/race"
)

func sampleRecord() *race.RaceRecord {
	rec := race.NewRecord("https://race.example.com/race/shutuba.html?race_id=202605010101", "202605010101")
	rec.RaceName = "example stakes"

	entry := race.NewEntryRow()
	entry.Set("馬番", "1")
	entry.Set("馬名", "アルファホース")
	rec.Entries = []*race.EntryRow{entry}

	rec.Odds[race.Win] = []race.OddsRow{
		{Combination: "1", HorseName: "アルファホース", Odds: "2.4"},
	}
	rec.Odds[race.Trifecta] = []race.OddsRow{
		{Combination: "1-2-3", Odds: "1914.6"},
	}
	rec.OddsStatus[race.Win] = race.OddsStatus{Status: race.StatusOK, Rows: 1}
	rec.OddsStatus[race.Trifecta] = race.OddsStatus{Status: race.StatusOK, Rows: 1}
	rec.OddsLinks.Set("単勝", "https://race.example.com/odds/index.html?type=b1&race_id=202605010101")

	return rec
}

func TestEncodeRecord_FieldOrder(t *testing.T) {
	data, err := EncodeRecord(sampleRecord(), 0)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasSuffix(text, "\n"))

	fields := []string{
		`"race_url"`, `"race_id"`, `"race_name"`, `"race_date"`,
		`"entries"`, `"odds"`, `"odds_status"`, `"odds_links"`,
	}
	last := -1
	for _, field := range fields {
		idx := strings.Index(text, field)
		require.GreaterOrEqual(t, idx, 0, field)
		assert.Greater(t, idx, last, field)
		last = idx
	}
}

func TestEncodeRecord_BetTypeOrder(t *testing.T) {
	data, err := EncodeRecord(sampleRecord(), 0)
	require.NoError(t, err)

	text := string(data)
	last := -1
	for _, bt := range race.AllBetTypes() {
		idx := strings.Index(text, `"`+bt.String()+`"`)
		require.GreaterOrEqual(t, idx, 0, bt.String())
		assert.Greater(t, idx, last, bt.String())
		last = idx
	}
}

func TestEncodeRecord_RoundTrip(t *testing.T) {
	data, err := EncodeRecord(sampleRecord(), 2)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "202605010101", doc["race_id"])
	assert.Equal(t, "2026-05-01", doc["race_date"])
	assert.Equal(t, "example stakes", doc["race_name"])

	odds, ok := doc["odds"].(map[string]any)
	require.True(t, ok)
	require.Len(t, odds, 8)
	winRows, ok := odds["単勝"].([]any)
	require.True(t, ok)
	require.Len(t, winRows, 1)
	row := winRows[0].(map[string]any)
	assert.Equal(t, "1", row["combination"])
	assert.Equal(t, "アルファホース", row["horse_name"])
	assert.Equal(t, "2.4", row["odds"])

	emptyRows, ok := odds["馬連"].([]any)
	require.True(t, ok)
	assert.Empty(t, emptyRows)

	links, ok := doc["odds_links"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, links, "単勝")

	entries, ok := doc["entries"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
}

func TestEncodeRecord_Indent(t *testing.T) {
	compact, err := EncodeRecord(sampleRecord(), 0)
	require.NoError(t, err)
	assert.NotContains(t, strings.TrimSuffix(string(compact), "\n"), "\n")

	indented, err := EncodeRecord(sampleRecord(), 2)
	require.NoError(t, err)
	assert.Contains(t, string(indented), "\n  \"race_id\"")
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "race_data.json")

	require.NoError(t, WriteJSON(path, sampleRecord(), 2))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "202605010101", doc["race_id"])
}

func TestWriteJSON_Overwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "race_data.json")
	require.NoError(t, os.WriteFile(path, []byte("old content"), 0o644))

	require.NoError(t, WriteJSON(path, sampleRecord(), 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "old content")
}
