package util

// PositionIndex precomputes line-start offsets over raw source text so that
// 1-based line/column locations reported by a structural parse can be
// converted back to absolute character offsets.
//
// All three line-separator conventions are recognized: "\n", "\r\n" and a
// bare "\r", each counted as exactly one line break.
type PositionIndex struct {
	source     string
	lineStarts []int
}

// NewPositionIndex creates a new PositionIndex over source
func NewPositionIndex(source string) *PositionIndex {
	lineStarts := []int{0}
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '\n':
			lineStarts = append(lineStarts, i+1)
		case '\r':
			if i+1 < len(source) && source[i+1] == '\n' {
				i++
			}
			lineStarts = append(lineStarts, i+1)
		}
	}
	return &PositionIndex{
		source:     source,
		lineStarts: lineStarts,
	}
}

// Source returns the raw text the index was built over
func (p *PositionIndex) Source() string {
	return p.source
}

// LineCount returns the number of lines in the source
func (p *PositionIndex) LineCount() int {
	return len(p.lineStarts)
}

// LineStart returns the absolute offset of the first character of the given
// 1-based line, or -1 when the line does not exist
func (p *PositionIndex) LineStart(line int) int {
	if line < 1 || line > len(p.lineStarts) {
		return -1
	}
	return p.lineStarts[line-1]
}

// LocationOf converts an absolute character offset back into a 1-based
// line/column pair
func (p *PositionIndex) LocationOf(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	lo, hi := 0, len(p.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if p.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - p.lineStarts[lo] + 1
}

// CharacterPosition converts a 1-based line/column position into an absolute
// character offset.
//
// The returned offset is lineStart + column - 2. The extra -1 beyond the
// usual 1-based column compensation exists because the structural parser
// reports an element's column at the first character of the tag name rather
// than at the opening "<". This correction is part of the contract: callers
// that need the "<" itself pass the parser-reported column unchanged.
func (p *PositionIndex) CharacterPosition(line, column int) int {
	start := p.LineStart(line)
	if start < 0 {
		return -1
	}
	pos := start + column - 2
	if pos < 0 {
		return 0
	}
	if pos > len(p.source) {
		return len(p.source)
	}
	return pos
}
