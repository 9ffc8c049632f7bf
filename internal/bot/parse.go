package bot

import (
	"strconv"
	"strings"
)

// ParseCurrency extracts the cookie count from the counter text, which
// reads like "1,234 cookies" or "1,234\ncookies". The count is the
// first whitespace-separated field with thousands separators removed.
// Returns false when the field is not a plain non-negative integer
// (the game switches to "1.5 million" style text at large counts).
func ParseCurrency(text string) (int64, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, false
	}
	return parseGroupedInt(fields[0])
}

// ParsePrice extracts the price from an upgrade's display text.
// Upgrades render as multi-line blocks with the price on the last line.
func ParsePrice(text string) (int64, bool) {
	lines := strings.Split(text, "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	return parseGroupedInt(last)
}

func parseGroupedInt(token string) (int64, bool) {
	token = strings.ReplaceAll(token, ",", "")
	if token == "" {
		return 0, false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
