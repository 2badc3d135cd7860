package country

import "strings"

// regionalIndicatorA is the code point of REGIONAL INDICATOR SYMBOL LETTER A.
const regionalIndicatorA = 0x1F1E6

// WhiteFlag is shown when a country code is too short to encode.
const WhiteFlag = "\U0001F3F3\uFE0F"

// Flag returns the flag emoji for a country code by mapping its first two
// letters into the regional indicator block. Three-letter codes only use
// their first two letters. Codes shorter than two characters yield WhiteFlag.
// Codes containing non-letters produce a glyph pair that renders as nothing
// meaningful.
func Flag(code string) string {
	letters := []rune(strings.ToUpper(strings.TrimSpace(code)))
	if len(letters) < 2 {
		return WhiteFlag
	}

	return string([]rune{
		letters[0] - 'A' + regionalIndicatorA,
		letters[1] - 'A' + regionalIndicatorA,
	})
}

// NormalizeCode upper-cases a scraped country code and returns it only if it
// is two or three ASCII letters. Anything else yields the empty string.
func NormalizeCode(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) < 2 || len(code) > 3 {
		return ""
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return code
}
