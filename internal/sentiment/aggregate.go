package sentiment

import "github.com/pscheid92/sentilog/internal/domain"

// Aggregate counts records per sentiment and picks the most common class. Ties resolve in the
// order positive, negative, neutral. An empty history has MostCommon set to domain.NoSentiment.
func Aggregate(records []domain.AnalysisRecord) domain.Distribution {
	dist := domain.Distribution{
		Counts: make(map[domain.Sentiment]int, len(domain.Sentiments)),
		Total:  len(records),
	}
	for _, s := range domain.Sentiments {
		dist.Counts[s] = 0
	}
	for _, r := range records {
		dist.Counts[r.Sentiment]++
	}

	dist.MostCommon = domain.NoSentiment
	if dist.Total == 0 {
		return dist
	}

	best := -1
	for _, s := range domain.Sentiments {
		if dist.Counts[s] > best {
			best = dist.Counts[s]
			dist.MostCommon = s
		}
	}
	return dist
}
