// Package collect gathers the full odds table for pivot-paginated bet types.
// The trio and trifecta odds pages only show combinations containing one
// pivoted runner, so the whole table has to be assembled by scanning every
// pivot and merging the partial results.
package collect

import (
	"context"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/keibalab/oddsget/internal/fetch"
	"github.com/keibalab/oddsget/internal/logger"
	"github.com/keibalab/oddsget/internal/parse"
	"github.com/keibalab/oddsget/internal/race"
)

// PageParser extracts odds rows for one bet type from fetched page content.
type PageParser func(content string, betType race.BetType) ([]race.OddsRow, error)

// Collector merges per-pivot odds pages into one deduplicated table.
type Collector struct {
	client fetch.Client
	parser PageParser
	log    *logger.Logger
}

// New creates a Collector backed by the cart-item page parser.
func New(client fetch.Client, log *logger.Logger) *Collector {
	return NewWithParser(client, parse.CartItemOdds, log)
}

// NewWithParser creates a Collector with a custom page parser.
func NewWithParser(client fetch.Client, parser PageParser, log *logger.Logger) *Collector {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Collector{client: client, parser: parser, log: log}
}

// Collect fetches the odds page once per pivot and merges the rows. A
// combination keeps the odds value from the pivot it was first seen on, and
// the merged rows stay in first-discovery order. When links is non-nil every
// visited URL is recorded under "<linkTag>_jiku_<pivot>"; an empty linkTag
// defaults to the bet type's display tag. A pivot that fails to fetch or
// parse is logged and skipped; only a cancelled context aborts the scan.
func (c *Collector) Collect(ctx context.Context, pageURL string, betType race.BetType, pivots []string, links *race.LinkSet, linkTag string) ([]race.OddsRow, error) {
	if linkTag == "" {
		linkTag = betType.String()
	}
	log := c.log.WithBetType(betType.String())
	seen := orderedmap.NewOrderedMap[string, race.OddsRow]()

	for _, pivot := range pivots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pivotURL := pageURL + "&jiku=" + pivot
		if links != nil {
			links.Set(linkTag+"_jiku_"+pivot, pivotURL)
		}

		content, err := c.client.Fetch(ctx, pivotURL)
		if err != nil {
			log.Warnw("pivot page fetch failed", "pivot", pivot, "url", pivotURL, "error", err)
			continue
		}

		rows, err := c.parser(content, betType)
		if err != nil {
			log.Warnw("pivot page parse failed", "pivot", pivot, "url", pivotURL, "error", err)
			continue
		}

		for _, row := range rows {
			if _, ok := seen.Get(row.Combination); !ok {
				seen.Set(row.Combination, row)
			}
		}
		log.Debugw("pivot page merged", "pivot", pivot, "rows", len(rows), "total", seen.Len())
	}

	merged := make([]race.OddsRow, 0, seen.Len())
	for _, combo := range seen.Keys() {
		row, _ := seen.Get(combo)
		merged = append(merged, row)
	}
	return merged, nil
}
