// Package app provides the application service layer.
//
// Service runs the use cases: Analyze (validate, score, persist), History (list and aggregate)
// and Stats (cached aggregate). It depends on domain interfaces and the pure sentiment package,
// never on a concrete storage engine.
package app
