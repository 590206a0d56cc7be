// Package parse extracts race entries and odds tables from fetched page
// content. All parsers are pure functions over the content string so they can
// be exercised with fixtures, decoupled from the page fetcher.
package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseError reports that an expected structure was missing from the page
// content: the page shape changed, the race does not exist, or the response
// was truncated. It is reported, never retried.
type ParseError struct {
	Stage   string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Stage, e.Message)
}

// NormalizeOdds strips thousands separators and surrounding whitespace from
// an odds value. The value stays a string: placeholders such as "---" for
// withdrawn combinations must survive, and float parsing would invite
// locale and precision trouble.
// Example: "1,042.6" -> "1042.6"
func NormalizeOdds(value string) string {
	return strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
}

// newDocument parses page content into a goquery document.
func newDocument(content string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &ParseError{Stage: "document", Message: err.Error()}
	}
	return doc, nil
}

// cellText returns the selection's text with runs of whitespace collapsed to
// single spaces, matching how the site pads its table cells.
func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// isDigits reports whether s is a non-empty ASCII digit string.
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

// stripLeadingZeros normalizes a digit string ("07" -> "7").
func stripLeadingZeros(s string) string {
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	return strconv.Itoa(n)
}

// comboSortKey converts "1-2-3" into its numeric legs for ordering.
func comboSortKey(combo string) []int {
	var key []int
	for _, part := range strings.Split(combo, "-") {
		if isDigits(part) {
			n, _ := strconv.Atoi(part)
			key = append(key, n)
		}
	}
	return key
}

// comboLess orders combinations by their numeric legs.
func comboLess(a, b string) bool {
	ka, kb := comboSortKey(a), comboSortKey(b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		if ka[i] != kb[i] {
			return ka[i] < kb[i]
		}
	}
	return len(ka) < len(kb)
}
