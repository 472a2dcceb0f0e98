package xaml

import (
	"log/slog"

	"xmc-go/packages/converter/diagnostics"
	"xmc-go/packages/converter/ml_parser"
	"xmc-go/packages/converter/util"
	"xmc-go/packages/converter/xaml/semantic"
)

// ParsePhase identifies the phase the hybrid parse is in
type ParsePhase int

const (
	PhaseIdle ParsePhase = iota
	PhaseStructuralParsing
	PhaseSemanticParsing
	PhaseMerging
	PhaseDone
	// PhaseStructuralOnly is the degraded terminal phase: the structural
	// pass succeeded but the semantic pass did not, so the document carries
	// formatting but no resolved type information.
	PhaseStructuralOnly
)

// String returns a display name for the phase
func (p ParsePhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStructuralParsing:
		return "structural-parsing"
	case PhaseSemanticParsing:
		return "semantic-parsing"
	case PhaseMerging:
		return "merging"
	case PhaseDone:
		return "done"
	case PhaseStructuralOnly:
		return "structural-only"
	}
	return "unknown"
}

// ParseResult is the outcome of one hybrid parse. Diagnostics is always
// non-nil, even when the structural pass failed and Document is nil, so
// callers can report why a parse produced nothing.
type ParseResult struct {
	Document    *Document
	Phase       ParsePhase
	Diagnostics *diagnostics.Sink
}

// HybridParser runs the structural and semantic passes over the same source
// and merges them into one enriched document. The structural pass is
// authoritative: if it fails there is no document. The semantic pass is
// best-effort: its failure degrades the result to structural-only.
type HybridParser struct {
	registry *semantic.Registry
	logger   *slog.Logger
	phase    ParsePhase
}

// NewHybridParser creates a parser resolving against registry. A nil logger
// uses the default.
func NewHybridParser(registry *semantic.Registry, logger *slog.Logger) *HybridParser {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = semantic.DefaultRegistry()
	}
	return &HybridParser{registry: registry, logger: logger, phase: PhaseIdle}
}

// Phase returns the current parse phase
func (h *HybridParser) Phase() ParsePhase {
	return h.phase
}

// Parse parses source through both passes. A nil document on the result
// means the structural pass failed fatally; the result's sink then carries
// the errors that explain why.
func (h *HybridParser) Parse(source, url string) *ParseResult {
	h.phase = PhaseStructuralParsing
	h.logger.Debug("structural parse", "url", url)

	xmlParser := ml_parser.NewXmlParser()
	tree := xmlParser.Parse(source, url)
	doc := NewStructuralConverter(source, url).Convert(tree)

	if doc.Root == nil || hasFatalErrors(tree) {
		h.phase = PhaseDone
		if doc.Root == nil && !doc.Diagnostics.HasErrors() {
			doc.Diagnostics.AddError(diagnostics.CodeStructuralParseFailed,
				"no root element", url, 0, 0)
		}
		h.logger.Warn("structural parse failed", "url", url, "errors", doc.Diagnostics.Errors())
		return &ParseResult{Document: nil, Phase: PhaseDone, Diagnostics: doc.Diagnostics}
	}

	h.phase = PhaseSemanticParsing
	graph, err := semantic.NewParser(h.registry).Parse(source, url)
	if err != nil {
		h.logger.Warn("semantic parse failed, continuing structural-only", "url", url, "error", err)
		doc.Diagnostics.AddWarning(diagnostics.CodeSemanticParseFailed, err.Error(), url, 0, 0)
		h.phase = PhaseStructuralOnly
		return &ParseResult{Document: doc, Phase: PhaseStructuralOnly, Diagnostics: doc.Diagnostics}
	}

	h.phase = PhaseMerging
	NewSemanticConverter(h.registry).Enrich(doc, graph)

	h.phase = PhaseDone
	return &ParseResult{Document: doc, Phase: PhaseDone, Diagnostics: doc.Diagnostics}
}

// ParseBatch parses several sources, keyed by url. Failed documents appear
// as nil entries so callers can report per-file outcomes.
func (h *HybridParser) ParseBatch(sources map[string]string) map[string]*ParseResult {
	results := make(map[string]*ParseResult, len(sources))
	for url, source := range sources {
		results[url] = h.Parse(source, url)
	}
	return results
}

func hasFatalErrors(tree *ml_parser.ParseTreeResult) bool {
	for _, err := range tree.Errors {
		if err.Level == util.ParseErrorLevelError {
			return true
		}
	}
	return false
}
