package xaml

import (
	"regexp"
	"strings"

	"xmc-go/packages/converter/util"
)

// WhitespaceExtractor recovers exact whitespace around structural nodes
// directly from the source text and the position index. It does not rely on
// the structural parser's own whitespace fidelity.
//
// Extraction never fails: any internal error yields empty hints, because a
// lost formatting hint is preferable to an aborted transformation.
type WhitespaceExtractor struct {
	source string
	index  *util.PositionIndex
}

// NewWhitespaceExtractor creates a new WhitespaceExtractor over the index
func NewWhitespaceExtractor(index *util.PositionIndex) *WhitespaceExtractor {
	return &WhitespaceExtractor{
		source: index.Source(),
		index:  index,
	}
}

// Index returns the underlying position index
func (w *WhitespaceExtractor) Index() *util.PositionIndex {
	return w.index
}

// LeadingWhitespace scans backward from pos to the previous non-whitespace
// character and returns the intervening text, normalized so that a run
// spanning multiple line breaks keeps only the final line break and its
// trailing indentation. The normalization stops blank lines from
// accumulating over repeated round-trips.
func (w *WhitespaceExtractor) LeadingWhitespace(pos int) string {
	if pos < 0 || pos > len(w.source) {
		return ""
	}
	start := pos
	for start > 0 && isSpaceByte(w.source[start-1]) {
		start--
	}
	return NormalizeLeadingWhitespace(w.source[start:pos])
}

// TrailingWhitespace scans forward from pos and returns the whitespace run
// unnormalized
func (w *WhitespaceExtractor) TrailingWhitespace(pos int) string {
	if pos < 0 || pos >= len(w.source) {
		return ""
	}
	end := pos
	for end < len(w.source) && isSpaceByte(w.source[end]) {
		end++
	}
	return w.source[pos:end]
}

// AttributeLeadingWhitespace locates the attribute by name inside the
// element's opening-tag substring and returns the whitespace immediately
// preceding it. preserveLineBreak reports whether that whitespace contains a
// line break, i.e. the attribute sat on its own line.
func (w *WhitespaceExtractor) AttributeLeadingWhitespace(attributeName string, openTagStart, openTagEnd int) (ws string, preserveLineBreak bool) {
	if openTagStart < 0 || openTagEnd > len(w.source) || openTagStart >= openTagEnd {
		return "", false
	}
	openTag := w.source[openTagStart:openTagEnd]

	// The leading (^|\s) group keeps the name from matching inside a longer
	// attribute name.
	re, err := regexp.Compile(`(^|\s)` + regexp.QuoteMeta(attributeName) + `\s*=`)
	if err != nil {
		return "", false
	}
	loc := re.FindStringSubmatchIndex(openTag)
	if loc == nil {
		return "", false
	}

	end := loc[3]
	start := end
	for start > 0 && isSpaceByte(openTag[start-1]) {
		start--
	}
	ws = openTag[start:end]
	return ws, strings.ContainsAny(ws, "\r\n")
}

// NormalizeLeadingWhitespace collapses a whitespace run spanning multiple
// line breaks down to its final line break plus trailing indentation. The
// operation is idempotent: normalizing an already-normalized value is a
// no-op.
func NormalizeLeadingWhitespace(ws string) string {
	breaks := strings.Count(ws, "\n") + strings.Count(ws, "\r") - strings.Count(ws, "\r\n")
	if breaks <= 1 {
		return ws
	}
	last := strings.LastIndexAny(ws, "\r\n")
	// Step back over a "\r\n" pair so the break is kept whole.
	if last > 0 && ws[last] == '\n' && ws[last-1] == '\r' {
		last--
	}
	return ws[last:]
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
