package canonical

import (
	"regexp"
	"strings"
)

// stopwords are organizational suffixes and generic nouns dropped from
// merchant text so rule patterns survive formatting noise. Dotted variants
// ("inc.") are covered because the punctuation pass runs first.
var stopwords = map[string]bool{
	"inc": true, "llc": true, "co": true, "corp": true, "ltd": true,
	"the": true, "store": true, "stores": true, "company": true, "companies": true,
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeMerchant lowercases the description, collapses non-alphanumeric
// runs into single spaces, drops stopword tokens, and trims the result.
func NormalizeMerchant(text string) string {
	t := nonAlnum.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(t)
	kept := fields[:0]
	for _, w := range fields {
		if !stopwords[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
