package advisor

import (
	"regexp"
	"strings"
)

// B3 tickers are four letters naming the company plus one or two digits
// naming the listing (PETR4, TAEE11).
var tickerPattern = regexp.MustCompile(`\b[A-Z]{4}[0-9]{1,2}\b`)

// ExtractTickers scans the user message for B3 ticker mentions.
// Returns deduplicated uppercase tickers in order of appearance.
func ExtractTickers(text string) []string {
	matches := tickerPattern.FindAllString(strings.ToUpper(text), -1)

	seen := make(map[string]bool)
	var result []string
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			result = append(result, m)
		}
	}
	return result
}
