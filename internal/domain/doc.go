// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (sentiment.go, record.go, stats.go, errors.go) hold shared types and the
// storage contracts the adapters implement. No implementation code beyond small value helpers.
package domain
