// Package diagnostics provides the append-only diagnostic sink shared by the
// parsing, transformation and serialization stages.
package diagnostics

import (
	"fmt"
	"sync"
)

// Severity represents the severity of a diagnostic
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the display name of the severity
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Well-known diagnostic codes emitted by the conversion pipeline.
const (
	CodeStructuralParseFailed    = "XMC0001"
	CodeSemanticParseFailed      = "XMC0002"
	CodeEnrichmentMismatch       = "XMC0003"
	CodeTypeMappingNotFound      = "XMC0101"
	CodePropertyMappingNotFound  = "XMC0102"
	CodeEventMappingNotFound     = "XMC0103"
	CodeManualReviewRequired     = "XMC0104"
	CodeNamespaceMappingNotFound = "XMC0105"
	CodeSerializationFailed      = "XMC0201"
)

// Diagnostic represents one reported issue
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	FilePath string
	Line     int
	Column   int
}

// String returns a human readable representation of the diagnostic
func (d *Diagnostic) String() string {
	if d.FilePath != "" && d.Line > 0 {
		return fmt.Sprintf("%s %s: %s (%s:%d:%d)", d.Severity, d.Code, d.Message, d.FilePath, d.Line, d.Column)
	}
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
}

// Sink is an append-only collector of diagnostics. It is safe for concurrent
// use so that batch conversions can share one sink across documents.
type Sink struct {
	mu    sync.Mutex
	items []*Diagnostic
}

// NewSink creates a new Sink
func NewSink() *Sink {
	return &Sink{}
}

// AddError appends an error diagnostic
func (s *Sink) AddError(code, message, filePath string, line, column int) {
	s.add(SeverityError, code, message, filePath, line, column)
}

// AddWarning appends a warning diagnostic
func (s *Sink) AddWarning(code, message, filePath string, line, column int) {
	s.add(SeverityWarning, code, message, filePath, line, column)
}

// AddInfo appends an info diagnostic
func (s *Sink) AddInfo(code, message, filePath string, line, column int) {
	s.add(SeverityInfo, code, message, filePath, line, column)
}

func (s *Sink) add(severity Severity, code, message, filePath string, line, column int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, &Diagnostic{
		Severity: severity,
		Code:     code,
		Message:  message,
		FilePath: filePath,
		Line:     line,
		Column:   column,
	})
}

// All returns a snapshot of every diagnostic in insertion order
func (s *Sink) All() []*Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Diagnostic, len(s.items))
	copy(out, s.items)
	return out
}

// BySeverity returns diagnostics of the given severity in insertion order
func (s *Sink) BySeverity(severity Severity) []*Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Diagnostic
	for _, d := range s.items {
		if d.Severity == severity {
			out = append(out, d)
		}
	}
	return out
}

// ByFile returns diagnostics recorded against the given file path
func (s *Sink) ByFile(filePath string) []*Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Diagnostic
	for _, d := range s.items {
		if d.FilePath == filePath {
			out = append(out, d)
		}
	}
	return out
}

// Errors returns all error diagnostics
func (s *Sink) Errors() []*Diagnostic {
	return s.BySeverity(SeverityError)
}

// Warnings returns all warning diagnostics
func (s *Sink) Warnings() []*Diagnostic {
	return s.BySeverity(SeverityWarning)
}

// HasErrors reports whether at least one error has been recorded
func (s *Sink) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Merge appends every diagnostic from another sink
func (s *Sink) Merge(other *Sink) {
	for _, d := range other.All() {
		s.add(d.Severity, d.Code, d.Message, d.FilePath, d.Line, d.Column)
	}
}

// Len returns the number of recorded diagnostics
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
