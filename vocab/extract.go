package vocab

import "strings"

// Stop words filtered out of candidate phrases. The base set matches common
// English function words; the extras are fillers that show up constantly in
// patient descriptions and never name a symptom.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
	"also": true, "ever": true, "really": true, "quite": true, "just": true,
	"like": true, "ive": true, "im": true, "dont": true, "cant": true,
	"wont": true, "morning": true, "today": true, "yesterday": true,
	"recently": true,
}

// Bigrams that pass the per-token filter but are still pure filler.
var stopPhrases = map[string]bool{
	"have been": true, "has been": true, "had been": true,
	"been feeling": true, "been having": true,
	"there is": true, "there are": true,
	"in my": true, "on my": true, "for me": true,
}

// ExtractCandidatePhrases turns a raw patient description into candidate
// symptom phrases: stopword-filtered unigrams and bigrams over the
// normalized text, deduplicated in order of first appearance. Extraction is
// deliberately noisy; downstream canonicalization decides what to keep.
func ExtractCandidatePhrases(text string) []string {
	tokens := strings.Fields(NormalizeText(text))

	seen := make(map[string]bool)
	phrases := make([]string, 0, len(tokens))

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			phrases = append(phrases, p)
		}
	}

	for i, tok := range tokens {
		if stopWords[tok] || len(tok) <= 3 {
			continue
		}
		add(tok)

		if i < len(tokens)-1 {
			next := tokens[i+1]
			bigram := tok + " " + next
			if stopWords[next] || stopPhrases[bigram] {
				continue
			}
			add(bigram)
		}
	}

	return phrases
}
