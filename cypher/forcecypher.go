package cypher

import "strings"

const forceCypherPragma = "/*+ NEO4J FORCE_CYPHER */"

// DetectForceCypher reports whether src carries the force-cypher pragma
// outside of any quoted span. Quote tracking treats single, double, and
// backtick quotes as independent spans; a pragma occurrence inside any of
// them does not count, per any occurrence outside matched quoted spans
// counting as the pragma.
func DetectForceCypher(src string) bool {
	var inQuote byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		if inQuote != 0 {
			if c == inQuote {
				inQuote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			inQuote = c
		default:
			if c == '/' && strings.HasPrefix(src[i:], forceCypherPragma) {
				return true
			}
		}
	}
	return false
}

// ApplyForceCypher returns (src, true) verbatim when src carries the
// force-cypher pragma outside quotes, signalling that translation must be
// bypassed entirely.
func ApplyForceCypher(src string) (string, bool) {
	if DetectForceCypher(src) {
		return src, true
	}
	return "", false
}
