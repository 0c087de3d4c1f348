// Package sentiment implements lexicon scoring and history aggregation.
//
// Tokenize splits text into normalized words, Scorer sums their lexicon weights and classifies
// the sign, and Aggregate reduces stored records to a Distribution. Everything here is pure and
// safe for concurrent use; persistence lives behind domain.RecordStore.
package sentiment
