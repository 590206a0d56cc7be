package parse

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/keibalab/oddsget/internal/race"
)

// RacePage is the result of parsing a race page: the identifier, the display
// name, the entry table and the odds links discovered in the page body.
type RacePage struct {
	RaceID    string
	RaceName  string
	Entries   []*race.EntryRow
	OddsLinks *race.LinkSet
}

// RaceIDFromURL extracts the race identifier from the URL's race_id query
// parameter. The id deliberately never comes from the page body, keeping it
// robust to body-parsing failures.
func RaceIDFromURL(raceURL string) string {
	u, err := url.Parse(raceURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("race_id")
}

// ParseRacePage extracts the race name, entry rows and odds links from a race
// page. It fails with a ParseError when the entry table is absent.
func ParseRacePage(content, raceURL string) (*RacePage, error) {
	doc, err := newDocument(content)
	if err != nil {
		return nil, err
	}

	page := &RacePage{
		RaceID:    RaceIDFromURL(raceURL),
		RaceName:  extractRaceName(doc),
		OddsLinks: discoverOddsLinks(doc, raceURL),
	}

	table := findTableByKeyword(doc, "馬名")
	if table == nil {
		table = findLargestTable(doc)
	}
	if table == nil {
		return nil, &ParseError{
			Stage:   "entries",
			Message: fmt.Sprintf("no entry table found (race not found or page shape changed): %s", raceURL),
		}
	}
	page.Entries = parseTable(table)

	return page, nil
}

// extractRaceName returns the first non-empty of h1, .RaceName, .RaceData01
// and title.
func extractRaceName(doc *goquery.Document) string {
	for _, sel := range []string{"h1", ".RaceName", ".RaceData01", "title"} {
		if text := cellText(doc.Find(sel).First()); text != "" {
			return text
		}
	}
	return ""
}

// discoverOddsLinks scans the page anchors for per-bet-type odds links,
// resolved against the page URL. The last matching anchor wins per tag.
func discoverOddsLinks(doc *goquery.Document, baseURL string) *race.LinkSet {
	links := race.NewLinkSet()
	base, err := url.Parse(baseURL)
	if err != nil {
		return links
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		text := cellText(a)
		if href == "" && text == "" {
			return
		}
		resolved := ""
		for _, bt := range race.AllBetTypes() {
			tag := bt.String()
			if !containsTag(text, tag) && !containsTag(href, tag) {
				continue
			}
			if resolved == "" {
				ref, err := url.Parse(href)
				if err != nil {
					return
				}
				resolved = base.ResolveReference(ref).String()
			}
			links.Set(tag, resolved)
		}
	})

	return links
}

func containsTag(s, tag string) bool {
	return s != "" && strings.Contains(s, tag)
}

// findTableByKeyword returns the first table whose text contains the keyword.
func findTableByKeyword(doc *goquery.Document, keyword string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		if strings.Contains(t.Text(), keyword) {
			found = t
			return false
		}
		return true
	})
	return found
}

// findLargestTable returns the table with the most rows.
func findLargestTable(doc *goquery.Document) *goquery.Selection {
	var best *goquery.Selection
	bestRows := -1
	doc.Find("table").Each(func(_ int, t *goquery.Selection) {
		if rows := t.Find("tr").Length(); rows > bestRows {
			best = t
			bestRows = rows
		}
	})
	return best
}

// parseTable converts a table into ordered rows. The first row's th cells
// name the columns (falling back to thead) when their count matches the data
// cells; otherwise columns get positional col_N keys.
func parseTable(table *goquery.Selection) []*race.EntryRow {
	trs := table.Find("tr")
	if trs.Length() == 0 {
		return []*race.EntryRow{}
	}

	var headers []string
	trs.First().Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, cellText(th))
	})
	if len(headers) == 0 {
		table.Find("thead tr").First().Find("th").Each(func(_ int, th *goquery.Selection) {
			headers = append(headers, cellText(th))
		})
	}

	rows := []*race.EntryRow{}
	trs.Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		var values []string
		cells.Each(func(_ int, td *goquery.Selection) {
			values = append(values, cellText(td))
		})

		row := race.NewEntryRow()
		if len(headers) > 0 && len(headers) == len(values) {
			for i, h := range headers {
				row.Set(h, values[i])
			}
		} else {
			for i, v := range values {
				row.Set(fmt.Sprintf("col_%d", i+1), v)
			}
		}
		rows = append(rows, row)
	})

	return rows
}
