// Package diagnostics enumerates the non-fatal issues the pipeline can
// report about a document, without altering the Shape/Document output
// contract (spec §6, §7). It plays the same collector role as the
// teacher's importer.ImportResult{Errors, Warnings []string}
// (piwi3910/SlabCut/internal/importer), generalized to a typed enum
// because downstream orchestration branches on specific kinds (e.g. the
// reparse policy) rather than just displaying strings.
package diagnostics

import "fmt"

// Kind is one of the fixed diagnostic categories the engine reports.
type Kind int

const (
	NoClosedEntity Kind = iota
	AutoClosedOpenPolylines
	ReparsedAsRawLineArc
	UsedHullFallback
	DenseFastPathTaken
)

func (k Kind) String() string {
	switch k {
	case NoClosedEntity:
		return "NoClosedEntity"
	case AutoClosedOpenPolylines:
		return "AutoClosedOpenPolylines"
	case ReparsedAsRawLineArc:
		return "ReparsedAsRawLineArc"
	case UsedHullFallback:
		return "UsedHullFallback"
	case DenseFastPathTaken:
		return "DenseFastPathTaken"
	default:
		return "Unknown"
	}
}

// Entry pairs a Kind with a human-readable detail message.
type Entry struct {
	Kind    Kind
	Message string
}

// Log accumulates diagnostic entries for one pipeline run.
type Log struct {
	Entries []Entry
}

// Add records an entry of the given kind.
func (l *Log) Add(kind Kind, format string, args ...any) {
	l.Entries = append(l.Entries, Entry{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether the log contains at least one entry of kind.
func (l *Log) Has(kind Kind) bool {
	for _, e := range l.Entries {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// EmptyDocument is the sole propagated failure mode (spec §7): zero
// valid contours, or width/height <= epsilon.
type EmptyDocument struct {
	Reason string
}

func (e *EmptyDocument) Error() string {
	return fmt.Sprintf("empty document: %s", e.Reason)
}
