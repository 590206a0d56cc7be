package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/keibalab/oddsget/internal/race"
)

var oddsRangePattern = regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?\s*-\s*[0-9]+(?:\.[0-9]+)?$`)

// oddsAvailable reports whether an odds value carries a usable price: a
// number or a "low - high" range. Withdrawn-combination placeholders such as
// "---.-" and empty cells do not count.
func oddsAvailable(value string) bool {
	text := strings.TrimSpace(value)
	if text == "" {
		return false
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return true
	}
	return oddsRangePattern.MatchString(text)
}

func anyOddsAvailable(rows []race.OddsRow) bool {
	for _, row := range rows {
		if oddsAvailable(row.Odds) {
			return true
		}
	}
	return false
}

// buildStatus classifies one bet type's collection outcome. Rows with at
// least one usable price mean ok. Rows that are all placeholders mean the
// odds are not on sale yet, so "unavailable". With no rows at all, a
// collection error is reported as "error"; an API reason as "unavailable";
// plain absence as "missing". Messages are written for the operator in the
// site's language, with a hint when the race date is still in the future.
func (s *Scraper) buildStatus(rec *race.RaceRecord, bt race.BetType, rows []race.OddsRow, apiReason string, err error) race.OddsStatus {
	sourceURL, _ := rec.OddsLinks.Get(bt.String())

	if len(rows) > 0 && anyOddsAvailable(rows) {
		return race.OddsStatus{
			Status:    race.StatusOK,
			Rows:      len(rows),
			SourceURL: sourceURL,
		}
	}

	var message string
	var status string
	switch {
	case len(rows) > 0:
		status = race.StatusUnavailable
		message = bt.String() + "は発売前または未更新の可能性があります"
	case err != nil:
		status = race.StatusError
		message = bt.String() + "のオッズを取得できませんでした: " + err.Error()
	case apiReason != "":
		status = race.StatusUnavailable
		message = bt.String() + "のオッズを取得できませんでした"
	default:
		status = race.StatusMissing
		message = bt.String() + "のオッズを取得できませんでした"
	}

	if apiReason != "" && err == nil {
		message += " (" + apiReason + ")"
	}
	if hint := race.FutureRaceHint(rec.RaceDate, s.now()); hint != "" {
		message += " " + hint
	}

	return race.OddsStatus{
		Status:    status,
		Rows:      len(rows),
		Message:   message,
		SourceURL: sourceURL,
	}
}
