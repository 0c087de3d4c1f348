package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when the text to analyze is missing or blank.
var ErrEmptyInput = errors.New("text is required")

// StorageErrorKind discriminates storage failures without inspecting messages.
type StorageErrorKind string

const (
	StorageDuplicateKey StorageErrorKind = "duplicate_key"
	StorageUnavailable  StorageErrorKind = "unavailable"
	StorageOther        StorageErrorKind = "other"
)

// StorageError reports a failed read or write in a RecordStore.
type StorageError struct {
	Op   string
	Kind StorageErrorKind
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// UnsavedAnalysisError reports a text that was scored but could not be persisted.
// No id was issued for it.
type UnsavedAnalysisError struct {
	Sentiment Sentiment
	Score     int
	Err       error
}

func (e *UnsavedAnalysisError) Error() string {
	return fmt.Sprintf("analysis scored %s (%d) but not saved: %v", e.Sentiment, e.Score, e.Err)
}

func (e *UnsavedAnalysisError) Unwrap() error {
	return e.Err
}

// ConfigError reports a malformed or conflicting lexicon configuration.
type ConfigError struct {
	Source string
	Word   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "lexicon config"
	if e.Source != "" {
		msg += " " + e.Source
	}
	if e.Word != "" {
		msg += fmt.Sprintf(": word %q", e.Word)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsStorageKind reports whether err carries a StorageError of the given kind.
func IsStorageKind(err error, kind StorageErrorKind) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Kind == kind
}
