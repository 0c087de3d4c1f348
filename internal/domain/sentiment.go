package domain

import "fmt"

// Sentiment is the three-way classification of a scored text.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"

	// NoSentiment is reported as the most common class of an empty history.
	NoSentiment Sentiment = "none"
)

// Sentiments lists the classes in tie-break precedence order.
var Sentiments = []Sentiment{Positive, Negative, Neutral}

// Classify derives the sentiment class from the sign of a score.
func Classify(score int) Sentiment {
	switch {
	case score > 0:
		return Positive
	case score < 0:
		return Negative
	default:
		return Neutral
	}
}

// ParseSentiment converts a stored value back into a Sentiment.
func ParseSentiment(s string) (Sentiment, error) {
	switch Sentiment(s) {
	case Positive, Negative, Neutral:
		return Sentiment(s), nil
	default:
		return "", fmt.Errorf("unknown sentiment %q", s)
	}
}
