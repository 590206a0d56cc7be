// Package race contains the shared race data model used across the fetch,
// parse, collect and export layers.
package race

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/elliotchance/orderedmap/v2"
)

// OddsRow is one odds table row. Combination holds the runner numbers joined
// by "-" (a bare runner number for Win/Place). Odds is kept as the site's
// string with thousands separators stripped; placeholders such as "---" for
// withdrawn combinations survive untouched.
type OddsRow struct {
	Combination string `json:"combination"`
	HorseName   string `json:"horse_name,omitempty"`
	Odds        string `json:"odds"`
}

// Odds availability verdicts for a bet type.
const (
	StatusOK          = "ok"
	StatusMissing     = "missing"
	StatusUnavailable = "unavailable"
	StatusError       = "error"
)

// OddsStatus records how the odds collection for one bet type went.
type OddsStatus struct {
	Status    string `json:"status"`
	Rows      int    `json:"rows"`
	Message   string `json:"message"`
	SourceURL string `json:"source_url,omitempty"`
}

// RaceRecord is the assembled result of scraping one race. It is built once
// per fetch and not mutated afterwards; the caller owns it for export.
type RaceRecord struct {
	RaceURL    string
	RaceID     string
	RaceName   string
	RaceDate   string
	Entries    []*EntryRow
	Odds       map[BetType][]OddsRow
	OddsStatus map[BetType]OddsStatus
	OddsLinks  *LinkSet
}

// NewRecord creates a RaceRecord with empty odds tables for every bet type.
func NewRecord(raceURL, raceID string) *RaceRecord {
	rec := &RaceRecord{
		RaceURL:    raceURL,
		RaceID:     raceID,
		RaceDate:   DateFromID(raceID),
		Odds:       make(map[BetType][]OddsRow, len(AllBetTypes())),
		OddsStatus: make(map[BetType]OddsStatus, len(AllBetTypes())),
		OddsLinks:  NewLinkSet(),
	}
	for _, bt := range AllBetTypes() {
		rec.Odds[bt] = []OddsRow{}
	}
	return rec
}

// RunnerNumbers returns the distinct horse numbers from the entry rows in
// source order, normalized to no leading zeros.
func (r *RaceRecord) RunnerNumbers() []string {
	var numbers []string
	seen := make(map[string]bool)
	for _, row := range r.Entries {
		n := row.HorseNumber()
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
	}
	return numbers
}

// EntryRow is one row of the race entry table: an insertion-ordered mapping
// from column key to cell text. Columns are positionally named (col_N) when
// the source table has no usable header.
type EntryRow struct {
	keys   []string
	values map[string]string
}

// NewEntryRow creates an empty EntryRow.
func NewEntryRow() *EntryRow {
	return &EntryRow{values: make(map[string]string)}
}

// Set stores a column value, appending the key on first use.
func (r *EntryRow) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns a column value.
func (r *EntryRow) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the column keys in insertion order.
func (r *EntryRow) Keys() []string {
	return r.keys
}

// Len returns the number of columns.
func (r *EntryRow) Len() int {
	return len(r.keys)
}

// Field returns the trimmed value of the column whose key matches name once
// spaces are removed; the site pads some header cells. Returns "" when no
// column matches.
func (r *EntryRow) Field(name string) string {
	for _, key := range r.keys {
		if strings.ReplaceAll(key, " ", "") == name {
			return strings.TrimSpace(r.values[key])
		}
	}
	return ""
}

// HorseNumber returns the row's runner number without leading zeros, or ""
// when no candidate column holds a number.
func (r *EntryRow) HorseNumber() string {
	for _, key := range []string{"馬番", "col_2", "col_1"} {
		if v := r.Field(key); isDigits(v) {
			n, _ := strconv.Atoi(v)
			return strconv.Itoa(n)
		}
	}
	return ""
}

// HorseName returns the row's horse name, or "".
func (r *EntryRow) HorseName() string {
	for _, key := range []string{"馬名", "col_4", "col_3"} {
		if v := r.Field(key); v != "" {
			return v
		}
	}
	return ""
}

// MarshalJSON encodes the row as a JSON object preserving column order.
func (r *EntryRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// LinkSet is an insertion-ordered label → URL mapping for the odds pages
// visited while assembling a record.
type LinkSet struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewLinkSet creates an empty LinkSet.
func NewLinkSet() *LinkSet {
	return &LinkSet{m: orderedmap.NewOrderedMap[string, string]()}
}

// Set records a link under the given label, keeping the first insertion
// position on overwrite.
func (s *LinkSet) Set(label, url string) {
	s.m.Set(label, url)
}

// SetDefault records a link only when the label is not present yet.
func (s *LinkSet) SetDefault(label, url string) {
	if _, ok := s.m.Get(label); !ok {
		s.m.Set(label, url)
	}
}

// Get returns the link recorded under the label.
func (s *LinkSet) Get(label string) (string, bool) {
	return s.m.Get(label)
}

// Labels returns the labels in insertion order.
func (s *LinkSet) Labels() []string {
	return s.m.Keys()
}

// Len returns the number of recorded links.
func (s *LinkSet) Len() int {
	return s.m.Len()
}

// MarshalJSON encodes the set as a JSON object preserving insertion order.
func (s *LinkSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range s.m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		value, _ := s.m.Get(label)
		v, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DateFromID derives the race date (YYYY-MM-DD) from the leading digits of a
// race identifier, returning "" when the id does not start with a plausible
// YYYYMMDD sequence.
func DateFromID(raceID string) string {
	var digits []rune
	for _, r := range raceID {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 8 {
		return ""
	}
	t, err := time.Parse("20060102", string(digits[:8]))
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// FutureRaceHint returns an operator hint when the race date lies after now,
// or "" otherwise.
func FutureRaceHint(raceDate string, now time.Time) string {
	if raceDate == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", raceDate)
	if err != nil {
		return ""
	}
	if t.After(now.Truncate(24 * time.Hour)) {
		return "race_date=" + raceDate + " は未来日付"
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
