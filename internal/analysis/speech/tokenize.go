package speech

import (
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\w\s]`)

// Tokenize lower-cases s, turns every non-word, non-space character into a
// space and splits on whitespace runs. Empty tokens never appear.
func Tokenize(s string) []string {
	clean := nonWord.ReplaceAllString(strings.ToLower(s), " ")
	return strings.Fields(clean)
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Jaccard returns 100 * |A∩B| / |A∪B| over the token sets of a and b,
// or 0 when both are empty.
func Jaccard(a, b string) float64 {
	return jaccardSets(wordSet(Tokenize(a)), wordSet(Tokenize(b)))
}

func jaccardSets(a, b map[string]struct{}) float64 {
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union) * 100
}
