package timeline

import (
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var local = message.NewPrinter(language.English)

func roundDuration(d time.Duration) time.Duration {
	switch {
	case d < time.Millisecond:
		return d
	case d < time.Second:
		return d.Round(time.Microsecond)
	default:
		return d.Round(time.Millisecond)
	}
}

// trimMiddle shortens s to at most n runes by replacing its middle with an ellipsis.
func trimMiddle(s string, n int) string {
	if utf8.RuneCountInString(s) <= n || n < 1 {
		return s
	}
	r := []rune(s)
	left := n / 2
	right := n - left - 1
	return string(r[:left]) + "…" + string(r[len(r)-right:])
}
