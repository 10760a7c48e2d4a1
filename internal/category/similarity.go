package category

import (
	"sort"
	"strings"
)

// Portuguese filler words that carry no signal for matching.
var stopwords = map[string]struct{}{
	"de": {}, "da": {}, "do": {}, "das": {}, "dos": {}, "e": {}, "em": {},
	"no": {}, "na": {}, "com": {}, "ltda": {}, "sa": {}, "me": {}, "br": {},
	"parc": {}, "parcela": {},
}

// Similarity scores two lowercased descriptions: 1.0 for an exact match,
// 0.8 for substring containment, 0.6 plus a proportional bonus for shared
// significant tokens, 0 otherwise.
func Similarity(a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	ta := significantTokens(a)
	tb := significantTokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	set := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		set[t] = struct{}{}
	}
	for _, t := range tb {
		if _, ok := set[t]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}

	max := len(ta)
	if len(tb) > max {
		max = len(tb)
	}
	return 0.6 + 0.2*float64(shared)/float64(max)
}

// significantTokens keeps tokens of three or more characters that are not
// stopwords and not pure digits.
func significantTokens(s string) []string {
	var out []string
	for _, tok := range strings.Fields(s) {
		if len(tok) < 3 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if isDigits(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
