package sentiment

import (
	"strings"

	"github.com/pscheid92/sentilog/internal/lexicon"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Tokenize splits text into case-folded words. Any rune that is not a letter, mark or number
// separates tokens, so "it's" yields "it" and "s". Empty tokens are never produced.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(norm.NFC.String(text), isSeparator)
	if len(fields) == 0 {
		return nil
	}

	// A Caser keeps state and must not be shared between goroutines.
	fold := cases.Fold()
	tokens := make([]string, len(fields))
	for i, f := range fields {
		tokens[i] = fold.String(f)
	}
	return tokens
}

func isSeparator(r rune) bool {
	return !lexicon.IsWordRune(r)
}
