package discover

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// splitName splits a full name on whitespace: the first token becomes the
// first name, the remainder the last name. Names that do not yield two
// non-empty parts are rejected; a single token is not enough identity to
// store an owner against.
func splitName(full string) (first, last string, ok bool) {
	fields := strings.Fields(full)
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], strings.Join(fields[1:], " "), true
}

// keyFolder strips combining marks so accented and unaccented spellings of
// the same name collide on one key.
var keyFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// nameKey produces the dedup key for an owner: lowercased, diacritic-folded
// "first-last".
func nameKey(first, last string) string {
	folded, _, err := transform.String(keyFolder, first+"-"+last)
	if err != nil {
		folded = first + "-" + last
	}
	return strings.ToLower(folded)
}
