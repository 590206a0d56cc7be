// Package render prints the odds-status summary table shown after a fetch.
package render

import (
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/keibalab/oddsget/internal/race"
)

var statusColors = map[string]color.Color{
	race.StatusOK:          color.Green,
	race.StatusMissing:     color.Yellow,
	race.StatusUnavailable: color.Yellow,
	race.StatusError:       color.Red,
}

// StatusTable renders one line per bet type with its collection status, row
// count and message. Columns are aligned by display width so the Japanese
// bet-type tags line up. When colored is true the status cell is colorized
// by verdict.
func StatusTable(rec *race.RaceRecord, colored bool) string {
	header := []string{"TYPE", "STATUS", "ROWS", "MESSAGE"}
	rows := [][]string{}
	for _, bt := range race.AllBetTypes() {
		status := rec.OddsStatus[bt]
		rows = append(rows, []string{
			bt.String(),
			status.Status,
			strconv.Itoa(status.Rows),
			status.Message,
		})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, statusCell bool) {
		for i, cell := range cells {
			padded := cell + strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell))
			if i == len(cells)-1 {
				padded = cell
			}
			if colored && statusCell && i == 1 {
				if c, ok := statusColors[cell]; ok {
					padded = c.Render(padded)
				}
			}
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(padded)
		}
		b.WriteString("\n")
	}

	writeRow(header, false)
	for _, row := range rows {
		writeRow(row, true)
	}
	return b.String()
}
