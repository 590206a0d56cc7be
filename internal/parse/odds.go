package parse

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/keibalab/oddsget/internal/race"
)

var cartNumberPattern = regexp.MustCompile(`_(\d+)`)

// CartItemOdds extracts combination odds from td[cart-item] cells in page
// order. Cells repeated under the same cart-item key are emitted once (first
// occurrence). A page without any table at all fails with a ParseError; a
// table with zero offered combinations yields an empty, valid result.
func CartItemOdds(content string, betType race.BetType) ([]race.OddsRow, error) {
	doc, err := newDocument(content)
	if err != nil {
		return nil, err
	}
	if doc.Find("table").Length() == 0 {
		return nil, &ParseError{
			Stage:   "odds",
			Message: "no odds table in page content for " + betType.String(),
		}
	}

	legs := betType.Legs()
	rows := []race.OddsRow{}
	seen := make(map[string]bool)

	doc.Find("td[cart-item]").Each(func(_ int, cell *goquery.Selection) {
		cartItem, _ := cell.Attr("cart-item")
		if cartItem == "" || seen[cartItem] {
			return
		}

		matches := cartNumberPattern.FindAllStringSubmatch(cartItem, -1)
		if len(matches) < legs {
			return
		}
		numbers := make([]string, 0, legs)
		for _, m := range matches[len(matches)-legs:] {
			numbers = append(numbers, stripLeadingZeros(m[1]))
		}

		odds := cellText(cell.Find("span#odds").First())
		if odds == "" {
			odds = cellText(cell)
		}

		seen[cartItem] = true
		rows = append(rows, race.OddsRow{
			Combination: strings.Join(numbers, "-"),
			Odds:        NormalizeOdds(odds),
		})
	})

	return rows, nil
}

// HeadingOdds extracts odds tables keyed by the bet-type tag found in the
// nearest preceding h1..h4 heading. Combined tables (win+place, quinella+wide)
// are split into their two bet types.
func HeadingOdds(content string) (map[race.BetType][]race.OddsRow, error) {
	doc, err := newDocument(content)
	if err != nil {
		return nil, err
	}

	result := make(map[race.BetType][]race.OddsRow)

	doc.Find("h1, h2, h3, h4").Each(func(_ int, heading *goquery.Selection) {
		title := strings.ReplaceAll(cellText(heading), "３", "3")

		table := followingTable(heading)
		if table == nil {
			return
		}
		rows := parseTable(table)
		if len(rows) == 0 {
			return
		}

		switch {
		case strings.Contains(title, "単勝") && strings.Contains(title, "複勝"):
			win, place := splitWinPlace(rows)
			setIfAny(result, race.Win, win)
			setIfAny(result, race.Place, place)
		case strings.Contains(title, "馬連") && strings.Contains(title, "ワイド"):
			quinella, wide := splitQuinellaWide(rows)
			setIfAny(result, race.Quinella, quinella)
			setIfAny(result, race.Wide, wide)
		case strings.Contains(title, "枠連"):
			setIfAny(result, race.BracketQuinella, pairRows(rows, "オッズ"))
		case strings.Contains(title, "馬単"):
			setIfAny(result, race.Exacta, pairRows(rows, "オッズ"))
		case strings.Contains(title, "3連複"):
			setIfAny(result, race.Trio, pairRows(rows, "オッズ"))
		case strings.Contains(title, "3連単"):
			setIfAny(result, race.Trifecta, pairRows(rows, "オッズ"))
		}
	})

	return result, nil
}

func setIfAny(result map[race.BetType][]race.OddsRow, bt race.BetType, rows []race.OddsRow) {
	if len(rows) > 0 {
		if _, exists := result[bt]; !exists {
			result[bt] = rows
		}
	}
}

// followingTable finds the table that belongs to a heading: the next sibling
// table, or the first table inside any following sibling, climbing to the
// parent when the heading is wrapped.
func followingTable(s *goquery.Selection) *goquery.Selection {
	for cur := s; cur.Length() > 0; cur = cur.Parent() {
		if t := cur.NextAllFiltered("table").First(); t.Length() > 0 {
			return t
		}
		if t := cur.NextAll().Find("table").First(); t.Length() > 0 {
			return t
		}
	}
	return nil
}

// splitWinPlace splits a combined win/place table into the two bet types'
// rows, one of each per runner.
func splitWinPlace(rows []*race.EntryRow) (win, place []race.OddsRow) {
	for _, row := range rows {
		number := row.Field("馬番")
		if isDigits(number) {
			number = stripLeadingZeros(number)
		}
		name := row.Field("馬名")

		winOdds := row.Field("単勝オッズ")
		if winOdds == "" {
			winOdds = row.Field("単勝")
		}
		placeOdds := row.Field("複勝オッズ")
		if placeOdds == "" {
			placeOdds = row.Field("複勝")
		}

		win = append(win, race.OddsRow{
			Combination: number,
			HorseName:   name,
			Odds:        NormalizeOdds(winOdds),
		})
		place = append(place, race.OddsRow{
			Combination: number,
			HorseName:   name,
			Odds:        NormalizeOdds(placeOdds),
		})
	}
	return win, place
}

// splitQuinellaWide splits a combined quinella/wide table on its two odds
// columns.
func splitQuinellaWide(rows []*race.EntryRow) (quinella, wide []race.OddsRow) {
	for _, row := range rows {
		combo := row.Field("組み合わせ")
		if combo == "" {
			combo = row.Field("組合せ")
		}

		wideOdds := row.Field("ワイド・オッズ")
		if wideOdds == "" {
			wideOdds = row.Field("ワイド")
		}

		quinella = append(quinella, race.OddsRow{
			Combination: combo,
			Odds:        NormalizeOdds(row.Field("オッズ")),
		})
		wide = append(wide, race.OddsRow{
			Combination: combo,
			Odds:        NormalizeOdds(wideOdds),
		})
	}
	return quinella, wide
}

// pairRows converts generic table rows into combination odds rows.
func pairRows(rows []*race.EntryRow, oddsKey string) []race.OddsRow {
	var out []race.OddsRow
	for _, row := range rows {
		combo := row.Field("組み合わせ")
		if combo == "" {
			combo = row.Field("組合せ")
		}
		if combo == "" {
			continue
		}
		out = append(out, race.OddsRow{
			Combination: combo,
			Odds:        NormalizeOdds(row.Field(oddsKey)),
		})
	}
	return out
}

// WinPlacePositional extracts win and place odds from the first two tables of
// a page by cell position, for pages without usable headings.
func WinPlacePositional(content string) (map[race.BetType][]race.OddsRow, error) {
	doc, err := newDocument(content)
	if err != nil {
		return nil, err
	}

	result := map[race.BetType][]race.OddsRow{
		race.Win:   {},
		race.Place: {},
	}

	tables := doc.Find("table")
	if tables.Length() < 2 {
		return result, nil
	}

	parse := func(table *goquery.Selection) []race.OddsRow {
		rows := []race.OddsRow{}
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("td").Each(func(_ int, td *goquery.Selection) {
				cells = append(cells, cellText(td))
			})
			if len(cells) < 3 {
				return
			}
			horseNo := strings.TrimSpace(cells[1])
			if !isDigits(horseNo) {
				horseNo = ""
				for _, c := range cells {
					if isDigits(strings.TrimSpace(c)) {
						horseNo = strings.TrimSpace(c)
						break
					}
				}
			}
			if horseNo == "" {
				return
			}
			rows = append(rows, race.OddsRow{
				Combination: stripLeadingZeros(horseNo),
				HorseName:   strings.TrimSpace(cells[len(cells)-2]),
				Odds:        NormalizeOdds(cells[len(cells)-1]),
			})
		})
		return rows
	}

	result[race.Win] = parse(tables.Eq(0))
	result[race.Place] = parse(tables.Eq(1))
	return result, nil
}

// PivotValues returns the distinct numeric option values on an odds page, in
// document order. These are the pivot runner numbers the site offers for a
// pivot-scanned bet type.
func PivotValues(content string) []string {
	doc, err := newDocument(content)
	if err != nil {
		return nil
	}

	var values []string
	seen := make(map[string]bool)
	doc.Find("option[value]").Each(func(_ int, opt *goquery.Selection) {
		value, _ := opt.Attr("value")
		value = strings.TrimSpace(value)
		if isDigits(value) && !seen[value] {
			seen[value] = true
			values = append(values, value)
		}
	})
	return values
}
