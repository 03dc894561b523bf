package receipt

import (
	"strings"
	"time"
)

// Timestamp layouts rendered by the verification portal. The primary form
// carries a period after the year ("21.07.2025. 14:03:57"); a few receipts
// omit it.
const (
	timestampLayout         = "02.01.2006. 15:04:05"
	timestampLayoutNoPeriod = "02.01.2006 15:04:05"
)

// ParseTimestamp parses the fixed Serbian receipt timestamp format.
func ParseTimestamp(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	ts, err := time.Parse(timestampLayout, text)
	if err == nil {
		return ts, nil
	}
	return time.Parse(timestampLayoutNoPeriod, text)
}
