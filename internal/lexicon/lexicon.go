// Package lexicon holds the immutable word-weight table used for scoring.
//
// A Lexicon is assembled once at startup by merging a base table with an override table and
// is passed by reference to the scorer. There is no mutation API.
package lexicon

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/pscheid92/sentilog/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Table is a raw word -> weight mapping as supplied by configuration.
type Table map[string]int

// Entry is one effective word weight after merging.
type Entry struct {
	Word   string `json:"word" yaml:"word"`
	Weight int    `json:"weight" yaml:"weight"`
}

type Lexicon struct {
	weights map[string]int
}

// New merges base and override into a Lexicon. Keys are normalized before insertion and the
// override weight wins for any word present in both tables.
//
// Within a single table, keys that normalize to the same word must carry the same weight;
// conflicting duplicates are reported as a *domain.ConfigError.
func New(base, override Table) (*Lexicon, error) {
	b, err := normalizeTable("base", base)
	if err != nil {
		return nil, err
	}
	o, err := normalizeTable("override", override)
	if err != nil {
		return nil, err
	}

	weights := make(map[string]int, len(b)+len(o))
	for w, v := range b {
		weights[w] = v
	}
	for w, v := range o {
		weights[w] = v
	}
	return &Lexicon{weights: weights}, nil
}

// Weight returns the effective weight of word, or 0 when the word is unknown.
func (l *Lexicon) Weight(word string) int {
	return l.weights[Normalize(word)]
}

// Lookup returns the weight of an already normalized token.
func (l *Lexicon) Lookup(token string) (int, bool) {
	w, ok := l.weights[token]
	return w, ok
}

// Len returns the number of distinct words.
func (l *Lexicon) Len() int {
	return len(l.weights)
}

// Entries returns a sorted copy of all effective entries.
func (l *Lexicon) Entries() []Entry {
	entries := make([]Entry, 0, len(l.weights))
	for w, v := range l.weights {
		entries = append(entries, Entry{Word: w, Weight: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Word < entries[j].Word })
	return entries
}

// Normalize brings a word into the canonical form used for lookups: trimmed, NFC-composed
// and case-folded.
func Normalize(word string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(word)))
}

// IsWordRune reports whether r belongs inside a token. Every other rune separates tokens.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

func normalizeTable(source string, t Table) (map[string]int, error) {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]int, len(t))
	origin := make(map[string]string, len(t))
	for _, k := range keys {
		weight := t[k]
		word := Normalize(k)
		if word == "" {
			return nil, &domain.ConfigError{Source: source, Word: k, Reason: "empty word"}
		}
		if strings.IndexFunc(word, func(r rune) bool { return !IsWordRune(r) }) >= 0 {
			return nil, &domain.ConfigError{Source: source, Word: k, Reason: "word contains separator characters and can never match a token"}
		}
		if prev, exists := out[word]; exists && prev != weight {
			return nil, &domain.ConfigError{
				Source: source,
				Word:   k,
				Reason: fmt.Sprintf("conflicts with %q: weights %d and %d normalize to the same word %q", origin[word], prev, weight, word),
			}
		}
		out[word] = weight
		origin[word] = k
	}
	return out, nil
}
