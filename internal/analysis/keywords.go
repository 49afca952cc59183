package analysis

import (
	"sort"
	"strings"
	"unicode"
)

// KeywordExtractor performs lexical analysis on document text:
// normalization, stop-word removal and keyword extraction.
type KeywordExtractor struct {
	stopWords map[string]bool
	minLength int
}

// NewKeywordExtractor creates a new keyword extractor
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{
		stopWords: defaultStopWords(),
		minLength: 3,
	}
}

// Tokenize lower-cases text, splits on non-alphanumeric boundaries and
// drops stop words and tokens shorter than the minimum length.
// Token order follows the input text; duplicates are preserved.
func (ke *KeywordExtractor) Tokenize(text string) []string {
	text = strings.ToLower(text)

	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	result := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) >= ke.minLength && !ke.stopWords[word] {
			result = append(result, word)
		}
	}

	return result
}

// ExtractKeywords returns the unique keywords of a text, sorted so the
// same input always yields the same slice. Empty or whitespace-only
// text yields an empty set.
func (ke *KeywordExtractor) ExtractKeywords(text string) []string {
	tokens := ke.Tokenize(text)
	return UniqueTokens(tokens)
}

// UniqueTokens deduplicates a token list into a sorted keyword set.
func UniqueTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	result := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !seen[tok] {
			seen[tok] = true
			result = append(result, tok)
		}
	}
	sort.Strings(result)
	return result
}

func defaultStopWords() map[string]bool {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
		"has", "have", "he", "in", "is", "it", "its", "of", "on", "or",
		"she", "that", "the", "they", "this", "to", "was", "were", "will",
		"with", "you", "your", "we", "our", "their", "them", "there", "these",
		"those", "been", "being", "had", "having", "do", "does", "did", "doing",
		"would", "could", "should", "may", "might", "must", "can", "cannot",
		"about", "above", "after", "again", "against", "all", "am", "any",
		"because", "before", "below", "between", "both", "but", "during",
		"each", "few", "further", "here", "how", "if", "into", "just", "more",
		"most", "no", "nor", "not", "now", "only", "other", "out", "own",
		"same", "so", "some", "such", "than", "then", "through", "too", "under",
		"until", "up", "very", "what", "when", "where", "which", "while", "who",
		"whom", "why", "also", "however", "therefore", "thus", "hence", "yet",
	}

	result := make(map[string]bool)
	for _, w := range words {
		result[w] = true
	}
	return result
}
