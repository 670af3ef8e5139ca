package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Abbreviation derives the tracking prefix from a filament type name, e.g.
// "PLA+" -> "PLA", "Silk PLA" -> "SILK".
func Abbreviation(filamentType string) string {
	var b strings.Builder
	for _, r := range filamentType {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	letters := b.String()
	if letters == "" {
		letters = strings.ToUpper(strings.TrimSpace(filamentType))
	}
	if len(letters) > 4 {
		letters = letters[:4]
	}
	return letters
}

// NextTrackingID returns prefix followed by one more than the highest number
// already used with that prefix. Numbers are zero padded to two digits
// until 100.
func NextTrackingID(prefix string, existing []string) string {
	max := 0
	for _, id := range existing {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		n, err := strconv.Atoi(id[len(prefix):])
		if err != nil || n < 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	next := max + 1
	if next < 100 {
		return fmt.Sprintf("%s%02d", prefix, next)
	}
	return fmt.Sprintf("%s%03d", prefix, next)
}
