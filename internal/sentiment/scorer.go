package sentiment

import (
	"github.com/pscheid92/sentilog/internal/domain"
	"github.com/pscheid92/sentilog/internal/lexicon"
)

// Result is the outcome of scoring one text.
type Result struct {
	Sentiment       domain.Sentiment `json:"sentiment"`
	Score           int              `json:"score"`
	MatchedPositive []string         `json:"matched_positive"`
	MatchedNegative []string         `json:"matched_negative"`
}

// Scorer applies a lexicon to text. The lexicon is read-only, so one Scorer can serve any number
// of goroutines.
type Scorer struct {
	lex *lexicon.Lexicon
}

func NewScorer(lex *lexicon.Lexicon) *Scorer {
	return &Scorer{lex: lex}
}

// Score sums the weights of every token in text, counting repeats. Words with a positive or
// negative weight are reported once each, in order of first occurrence. Text without tokens
// scores 0 and is neutral; rejecting blank input is up to the caller.
func (s *Scorer) Score(text string) Result {
	res := Result{
		MatchedPositive: []string{},
		MatchedNegative: []string{},
	}
	seen := make(map[string]struct{})

	for _, token := range Tokenize(text) {
		weight, ok := s.lex.Lookup(token)
		if !ok || weight == 0 {
			continue
		}
		res.Score += weight

		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		if weight > 0 {
			res.MatchedPositive = append(res.MatchedPositive, token)
		} else {
			res.MatchedNegative = append(res.MatchedNegative, token)
		}
	}

	res.Sentiment = domain.Classify(res.Score)
	return res
}
