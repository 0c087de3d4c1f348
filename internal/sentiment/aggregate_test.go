package sentiment

import (
	"testing"

	"github.com/pscheid92/sentilog/internal/domain"
	"github.com/stretchr/testify/assert"
)

func records(sentiments ...domain.Sentiment) []domain.AnalysisRecord {
	out := make([]domain.AnalysisRecord, len(sentiments))
	for i, s := range sentiments {
		out[i] = domain.AnalysisRecord{ID: int64(i + 1), Sentiment: s}
	}
	return out
}

func TestAggregate_Empty(t *testing.T) {
	dist := Aggregate(nil)

	assert.Equal(t, 0, dist.Total)
	assert.Equal(t, domain.NoSentiment, dist.MostCommon)
	assert.Equal(t, map[domain.Sentiment]int{domain.Positive: 0, domain.Negative: 0, domain.Neutral: 0}, dist.Counts)
}

func TestAggregate_Counts(t *testing.T) {
	dist := Aggregate(records(domain.Positive, domain.Negative, domain.Positive, domain.Neutral))

	assert.Equal(t, 4, dist.Total)
	assert.Equal(t, 2, dist.Counts[domain.Positive])
	assert.Equal(t, 1, dist.Counts[domain.Negative])
	assert.Equal(t, 1, dist.Counts[domain.Neutral])
	assert.Equal(t, domain.Positive, dist.MostCommon)
}

func TestAggregate_AbsentClassesAreZero(t *testing.T) {
	dist := Aggregate(records(domain.Negative))

	assert.Equal(t, 0, dist.Counts[domain.Positive])
	assert.Equal(t, 0, dist.Counts[domain.Neutral])
	assert.Len(t, dist.Counts, 3)
	assert.Equal(t, domain.Negative, dist.MostCommon)
}

func TestAggregate_TieBreak(t *testing.T) {
	assert.Equal(t, domain.Positive, Aggregate(records(domain.Negative, domain.Positive)).MostCommon)
	assert.Equal(t, domain.Negative, Aggregate(records(domain.Neutral, domain.Negative)).MostCommon)
	assert.Equal(t, domain.Positive, Aggregate(records(domain.Neutral, domain.Negative, domain.Positive)).MostCommon)
}

func TestAggregate_MajorityBeatsPrecedence(t *testing.T) {
	dist := Aggregate(records(domain.Neutral, domain.Neutral, domain.Positive))
	assert.Equal(t, domain.Neutral, dist.MostCommon)
}

func TestAggregate_TotalEqualsCountSum(t *testing.T) {
	dist := Aggregate(records(domain.Positive, domain.Neutral, domain.Neutral, domain.Negative, domain.Positive))

	sum := 0
	for _, n := range dist.Counts {
		sum += n
	}
	assert.Equal(t, dist.Total, sum)
}
