// Package export writes assembled race records to disk as JSON and CSV and
// lays out batch output directories.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/keibalab/oddsget/internal/race"
)

// objectBuilder assembles a JSON object with a fixed field order. Go maps
// marshal with sorted keys, which would scramble the bet-type order in the
// odds and status objects.
type objectBuilder struct {
	buf bytes.Buffer
	n   int
	err error
}

func (b *objectBuilder) field(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("failed to encode field %s: %w", key, err)
		return
	}
	b.rawField(key, raw)
}

func (b *objectBuilder) rawField(key string, raw []byte) {
	if b.err != nil {
		return
	}
	if b.n == 0 {
		b.buf.WriteByte('{')
	} else {
		b.buf.WriteByte(',')
	}
	keyRaw, _ := json.Marshal(key)
	b.buf.Write(keyRaw)
	b.buf.WriteByte(':')
	b.buf.Write(raw)
	b.n++
}

func (b *objectBuilder) bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.n == 0 {
		return []byte("{}"), nil
	}
	b.buf.WriteByte('}')
	return b.buf.Bytes(), nil
}

// EncodeRecord renders the record as a JSON document with a stable field
// order and display-tag odds keys. indent is the indent width in spaces; zero
// or negative yields compact output. The document ends with a newline.
func EncodeRecord(rec *race.RaceRecord, indent int) ([]byte, error) {
	root := &objectBuilder{}
	root.field("race_url", rec.RaceURL)
	root.field("race_id", rec.RaceID)
	root.field("race_name", rec.RaceName)
	root.field("race_date", rec.RaceDate)
	root.field("entries", rec.Entries)

	odds := &objectBuilder{}
	statuses := &objectBuilder{}
	for _, bt := range race.AllBetTypes() {
		rows := rec.Odds[bt]
		if rows == nil {
			rows = []race.OddsRow{}
		}
		odds.field(bt.String(), rows)
		if status, ok := rec.OddsStatus[bt]; ok {
			statuses.field(bt.String(), status)
		}
	}

	oddsRaw, err := odds.bytes()
	if err != nil {
		return nil, err
	}
	root.rawField("odds", oddsRaw)

	statusRaw, err := statuses.bytes()
	if err != nil {
		return nil, err
	}
	root.rawField("odds_status", statusRaw)

	root.field("odds_links", rec.OddsLinks)

	compact, err := root.bytes()
	if err != nil {
		return nil, err
	}

	if indent > 0 {
		var out bytes.Buffer
		if err := json.Indent(&out, compact, "", strings.Repeat(" ", indent)); err != nil {
			return nil, fmt.Errorf("failed to indent JSON: %w", err)
		}
		out.WriteByte('\n')
		return out.Bytes(), nil
	}
	return append(compact, '\n'), nil
}

// WriteJSON writes the record to path, creating parent directories and
// replacing any existing file.
func WriteJSON(path string, rec *race.RaceRecord, indent int) error {
	data, err := EncodeRecord(rec, indent)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}
