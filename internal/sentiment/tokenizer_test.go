package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize_SplitsOnPunctuationAndWhitespace(t *testing.T) {
	assert.Equal(t, []string{"i", "love", "this", "it", "s", "amazing"}, Tokenize("I love this, it's amazing!"))
}

func TestTokenize_CaseFolds(t *testing.T) {
	assert.Equal(t, []string{"good", "good", "good"}, Tokenize("GOOD Good good"))
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   \t\n"))
	assert.Empty(t, Tokenize("?!... --- ,,,"))
}

func TestTokenize_KeepsDigits(t *testing.T) {
	assert.Equal(t, []string{"top", "10", "list"}, Tokenize("top-10 list"))
}

func TestTokenize_UnicodeLetters(t *testing.T) {
	assert.Equal(t, []string{"schön", "grösse"}, Tokenize("Schön, GRÖßE"))
}

func TestTokenize_ComposesCombiningMarks(t *testing.T) {
	assert.Equal(t, []string{"café"}, Tokenize("CAFÉ"))
}

func TestTokenize_NeverEmptyTokens(t *testing.T) {
	for _, token := range Tokenize("  a,,b  ..c  ") {
		assert.NotEmpty(t, token)
	}
}
