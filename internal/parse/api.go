package parse

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/keibalab/oddsget/internal/race"
)

// OddsFromAPI extracts odds rows for one bet type from a JRA odds API JSON
// payload. The API returns odds keyed by runner number (single-leg types) or
// by concatenated two-digit legs (multi-leg types); JSON object order carries
// no meaning, so rows are sorted by runner number or combination to keep the
// output deterministic. Entries supply the horse names for single-leg rows.
// An empty result means the API has no odds for this bet type yet.
func OddsFromAPI(payload string, betType race.BetType, entries []*race.EntryRow) ([]race.OddsRow, error) {
	var root map[string]any
	if err := json.Unmarshal([]byte(payload), &root); err != nil {
		return nil, &ParseError{Stage: "api", Message: "invalid JSON payload: " + err.Error()}
	}

	typed := typedOdds(root, betType)
	if len(typed) == 0 {
		return []race.OddsRow{}, nil
	}

	if betType.Legs() == 1 {
		return singleLegAPIRows(typed, betType, entries), nil
	}
	return multiLegAPIRows(typed, betType), nil
}

// APIReason returns the payload's reason (or status) field when the payload
// carries no odds for the bet type, and "" otherwise. Used to explain missing
// odds to the operator.
func APIReason(payload string, betType race.BetType) string {
	var root map[string]any
	if err := json.Unmarshal([]byte(payload), &root); err != nil {
		return ""
	}

	if len(typedOdds(root, betType)) > 0 {
		return ""
	}
	if reason := anyToString(root["reason"]); reason != "" {
		return reason
	}
	return anyToString(root["status"])
}

// typedOdds navigates to data.odds[<apiType>], tolerating any missing or
// mistyped level.
func typedOdds(root map[string]any, betType race.BetType) map[string]any {
	data, ok := root["data"].(map[string]any)
	if !ok {
		return nil
	}
	odds, ok := data["odds"].(map[string]any)
	if !ok {
		return nil
	}
	typed, ok := odds[betType.APIType()].(map[string]any)
	if !ok {
		return nil
	}
	return typed
}

func singleLegAPIRows(typed map[string]any, betType race.BetType, entries []*race.EntryRow) []race.OddsRow {
	nameByNumber := make(map[string]string)
	for _, row := range entries {
		if n := row.HorseNumber(); n != "" {
			nameByNumber[n] = row.HorseName()
		}
	}

	rows := []race.OddsRow{}
	for key, raw := range typed {
		values, ok := raw.([]any)
		if !ok || len(values) == 0 {
			continue
		}
		number := key
		if isDigits(key) {
			number = stripLeadingZeros(key)
		}
		rows = append(rows, race.OddsRow{
			Combination: number,
			HorseName:   nameByNumber[number],
			Odds:        NormalizeOdds(rangeOdds(values, betType == race.Place)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return numberOrLast(rows[i].Combination) < numberOrLast(rows[j].Combination)
	})
	return rows
}

func multiLegAPIRows(typed map[string]any, betType race.BetType) []race.OddsRow {
	legs := betType.Legs()

	rows := []race.OddsRow{}
	for key, raw := range typed {
		values, ok := raw.([]any)
		if !ok || len(values) == 0 {
			continue
		}
		combo, ok := splitComboKey(key, legs)
		if !ok {
			continue
		}
		rows = append(rows, race.OddsRow{
			Combination: combo,
			Odds:        NormalizeOdds(rangeOdds(values, betType == race.Wide)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return comboLess(rows[i].Combination, rows[j].Combination)
	})
	return rows
}

// splitComboKey converts a concatenated two-digit combination key ("010203")
// into its dash-joined form ("1-2-3").
func splitComboKey(key string, legs int) (string, bool) {
	if len(key) != legs*2 || !isDigits(key) {
		return "", false
	}
	parts := make([]string, 0, legs)
	for i := 0; i < len(key); i += 2 {
		parts = append(parts, stripLeadingZeros(key[i:i+2]))
	}
	return strings.Join(parts, "-"), true
}

// rangeOdds renders the first odds value, extended to a "low - high" range
// when the type carries one (place and wide odds) and the second value is
// meaningful.
func rangeOdds(values []any, ranged bool) string {
	first := strings.TrimSpace(anyToString(values[0]))
	if !ranged || len(values) < 2 {
		return first
	}
	second := strings.TrimSpace(anyToString(values[1]))
	if second == "" || second == "0" {
		return first
	}
	return first + " - " + second
}

// anyToString renders a decoded JSON scalar as the site would print it.
func anyToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return ""
	}
}

// numberOrLast parses a runner number for sorting, sending non-numeric values
// to the end.
func numberOrLast(s string) int {
	if !isDigits(s) {
		return 1 << 30
	}
	n, _ := strconv.Atoi(s)
	return n
}
