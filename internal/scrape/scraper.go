// Package scrape drives the collection of a race record: the entry table
// from the race page, then odds for every bet type with a fallback chain of
// odds API, standard odds page and overseas odds page.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/keibalab/oddsget/internal/collect"
	"github.com/keibalab/oddsget/internal/config"
	"github.com/keibalab/oddsget/internal/fetch"
	"github.com/keibalab/oddsget/internal/logger"
	"github.com/keibalab/oddsget/internal/parse"
	"github.com/keibalab/oddsget/internal/race"
)

// Scraper collects one race's entries and odds.
type Scraper struct {
	cfg       *config.Config
	client    fetch.Client
	collector *collect.Collector
	log       *logger.Logger
	now       func() time.Time
}

// New creates a Scraper with an HTTP client built from the configuration.
func New(cfg *config.Config, log *logger.Logger) *Scraper {
	return NewWithClient(cfg, fetch.NewHTTPClient(&cfg.Scraper), log)
}

// NewWithClient creates a Scraper on an existing page fetcher.
func NewWithClient(cfg *config.Config, client fetch.Client, log *logger.Logger) *Scraper {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Scraper{
		cfg:       cfg,
		client:    client,
		collector: collect.New(client, log),
		log:       log,
		now:       time.Now,
	}
}

// Scrape fetches the race page and every bet type's odds, returning the
// assembled record. Only a failure on the race page itself is fatal; a bet
// type whose odds cannot be collected gets an error status and empty rows.
func (s *Scraper) Scrape(ctx context.Context, raceURL string) (*race.RaceRecord, error) {
	log := s.log.WithURL(raceURL)
	log.Infow("scraping race page")

	content, err := s.client.Fetch(ctx, raceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch race page: %w", err)
	}

	page, err := parse.ParseRacePage(content, raceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse race page: %w", err)
	}

	rec := race.NewRecord(raceURL, page.RaceID)
	rec.RaceName = page.RaceName
	rec.Entries = page.Entries
	rec.OddsLinks = page.OddsLinks

	log = log.WithRace(rec.RaceID)
	log.Infow("race page parsed",
		"race_name", rec.RaceName, "entries", len(rec.Entries), "links", rec.OddsLinks.Len())

	for _, bt := range race.AllBetTypes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.scrapeBetType(ctx, rec, bt)
	}
	return rec, nil
}

// scrapeBetType fills rec.Odds[bt] and its status, never failing the race.
func (s *Scraper) scrapeBetType(ctx context.Context, rec *race.RaceRecord, bt race.BetType) {
	log := s.log.WithRace(rec.RaceID).WithBetType(bt.String())

	pageURL := s.oddsPageURL(rec.RaceID, bt)
	rec.OddsLinks.SetDefault(bt.String(), pageURL)

	rows, apiReason, ok := s.tryAPI(ctx, rec, bt, log)
	if ok {
		rec.Odds[bt] = rows
		rec.OddsStatus[bt] = s.buildStatus(rec, bt, rows, "", nil)
		log.Infow("odds collected from api", "rows", len(rows))
		return
	}

	rows, pageErr := s.scrapePage(ctx, rec, bt, pageURL)
	if pageErr == nil && len(rows) > 0 {
		rec.Odds[bt] = rows
		rec.OddsStatus[bt] = s.buildStatus(rec, bt, rows, apiReason, nil)
		log.Infow("odds collected from page", "rows", len(rows))
		return
	}
	if pageErr != nil {
		log.Warnw("odds page failed, trying overseas page", "url", pageURL, "error", pageErr)
	}

	abroadURL := s.abroadPageURL(rec.RaceID, bt)
	abroadRows, abroadErr := s.scrapeAbroad(ctx, rec, bt, abroadURL)
	if abroadErr == nil && len(abroadRows) > 0 {
		rec.OddsLinks.Set(bt.String()+"_fallback", abroadURL)
		rec.Odds[bt] = abroadRows
		rec.OddsStatus[bt] = s.buildStatus(rec, bt, abroadRows, apiReason, nil)
		log.Infow("odds collected from overseas page", "rows", len(abroadRows))
		return
	}

	finalErr := pageErr
	if finalErr == nil {
		finalErr = abroadErr
	}
	rec.Odds[bt] = []race.OddsRow{}
	rec.OddsStatus[bt] = s.buildStatus(rec, bt, nil, apiReason, finalErr)
	log.Warnw("no odds collected", "status", rec.OddsStatus[bt].Status,
		"message", rec.OddsStatus[bt].Message)
}

// tryAPI asks the odds API for the bet type. It reports ok only when the API
// returned at least one row; otherwise the API's reason string is passed back
// for the status message.
func (s *Scraper) tryAPI(ctx context.Context, rec *race.RaceRecord, bt race.BetType, log *logger.Logger) ([]race.OddsRow, string, bool) {
	if s.cfg.Scraper.APIURL == "" || rec.RaceID == "" {
		return nil, "", false
	}

	apiURL := s.apiURL(rec.RaceID, bt)
	payload, err := s.client.Fetch(ctx, apiURL)
	if err != nil {
		log.Debugw("odds api fetch failed", "url", apiURL, "error", err)
		return nil, "", false
	}

	rows, err := parse.OddsFromAPI(payload, bt, rec.Entries)
	if err != nil {
		log.Debugw("odds api payload unusable", "url", apiURL, "error", err)
		return nil, "", false
	}
	if len(rows) == 0 {
		return nil, parse.APIReason(payload, bt), false
	}
	rec.OddsLinks.Set(bt.String()+"_api", apiURL)
	return rows, "", true
}

// scrapePage collects odds from the standard odds page, dispatching on the
// bet type's page shape.
func (s *Scraper) scrapePage(ctx context.Context, rec *race.RaceRecord, bt race.BetType, pageURL string) ([]race.OddsRow, error) {
	if bt.PivotScanned() {
		pivots, err := s.pivots(ctx, rec, pageURL)
		if err != nil {
			return nil, err
		}
		return s.collector.Collect(ctx, pageURL, bt, pivots, rec.OddsLinks, "")
	}

	content, err := s.client.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	if bt == race.Win || bt == race.Place {
		return s.winPlaceRows(content, bt)
	}
	return parse.CartItemOdds(content, bt)
}

// winPlaceRows reads the combined win/place page, falling back to positional
// extraction when the headings are missing.
func (s *Scraper) winPlaceRows(content string, bt race.BetType) ([]race.OddsRow, error) {
	byType, err := parse.HeadingOdds(content)
	if err != nil {
		return nil, err
	}
	if rows := byType[bt]; len(rows) > 0 {
		return rows, nil
	}

	byType, err = parse.WinPlacePositional(content)
	if err != nil {
		return nil, err
	}
	return byType[bt], nil
}

// scrapeAbroad collects odds from the overseas odds page. Trio and trifecta
// get the same pivot scan as the primary page, with the visited URLs recorded
// under "fallback_<tag>_jiku_<pivot>"; the other bet types read the page's
// heading-labelled tables.
func (s *Scraper) scrapeAbroad(ctx context.Context, rec *race.RaceRecord, bt race.BetType, abroadURL string) ([]race.OddsRow, error) {
	if bt.PivotScanned() {
		pivots, err := s.pivots(ctx, rec, abroadURL)
		if err != nil {
			return nil, err
		}
		return s.collector.Collect(ctx, abroadURL, bt, pivots, rec.OddsLinks, "fallback_"+bt.String())
	}

	content, err := s.client.Fetch(ctx, abroadURL)
	if err != nil {
		return nil, err
	}

	byType, err := parse.HeadingOdds(content)
	if err != nil {
		return nil, err
	}
	if rows := byType[bt]; len(rows) > 0 {
		return rows, nil
	}

	if bt == race.Win || bt == race.Place {
		positional, err := parse.WinPlacePositional(content)
		if err != nil {
			return nil, err
		}
		return positional[bt], nil
	}
	return parse.CartItemOdds(content, bt)
}

// pivots returns the runner numbers to scan, preferring the entry table and
// falling back to the pivot selector on the odds page itself.
func (s *Scraper) pivots(ctx context.Context, rec *race.RaceRecord, pageURL string) ([]string, error) {
	if numbers := rec.RunnerNumbers(); len(numbers) > 0 {
		return numbers, nil
	}

	content, err := s.client.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return parse.PivotValues(content), nil
}

func (s *Scraper) oddsPageURL(raceID string, bt race.BetType) string {
	return fmt.Sprintf("%s/odds/index.html?type=%s&race_id=%s",
		s.cfg.Scraper.BaseURL, bt.PageType(), url.QueryEscape(raceID))
}

func (s *Scraper) abroadPageURL(raceID string, bt race.BetType) string {
	return fmt.Sprintf("%s/odds/abroad.html?type=%s&race_id=%s",
		s.cfg.Scraper.BaseURL, bt.PageType(), url.QueryEscape(raceID))
}

func (s *Scraper) apiURL(raceID string, bt race.BetType) string {
	params := url.Values{}
	params.Set("pid", "api_get_jra_odds")
	params.Set("input", "UTF-8")
	params.Set("output", "json")
	params.Set("race_id", raceID)
	params.Set("type", bt.APIType())
	params.Set("action", "init")
	params.Set("sort", "odds")
	params.Set("compress", "0")
	return s.cfg.Scraper.APIURL + "?" + params.Encode()
}
