package xaml

import (
	"strings"
	"testing"

	"xmc-go/packages/converter/util"
)

func extractorFor(source string) *WhitespaceExtractor {
	return NewWhitespaceExtractor(util.NewPositionIndex(source))
}

func TestWhitespaceExtractor(t *testing.T) {
	t.Run("should extract leading whitespace up to the previous content", func(t *testing.T) {
		source := "<a>\n    <b/>\n</a>"
		w := extractorFor(source)
		if got := w.LeadingWhitespace(strings.Index(source, "<b")); got != "\n    " {
			t.Errorf("Expected newline plus indent, got %q", got)
		}
	})

	t.Run("should collapse runs spanning blank lines to the final break", func(t *testing.T) {
		source := "<a>\n\n\n    <b/>\n</a>"
		w := extractorFor(source)
		if got := w.LeadingWhitespace(strings.Index(source, "<b")); got != "\n    " {
			t.Errorf("Expected collapsed whitespace, got %q", got)
		}
	})

	t.Run("should extract trailing whitespace unnormalized", func(t *testing.T) {
		source := "<a><b/>\n\n</a>"
		w := extractorFor(source)
		if got := w.TrailingWhitespace(strings.Index(source, "\n")); got != "\n\n" {
			t.Errorf("Expected raw trailing run, got %q", got)
		}
	})

	t.Run("should locate attribute whitespace inside the open tag", func(t *testing.T) {
		source := "<Window Title=\"T\"\n        Width=\"100\">"
		w := extractorFor(source)
		ws, lineBreak := w.AttributeLeadingWhitespace("Title", 0, len(source))
		if ws != " " || lineBreak {
			t.Errorf("Expected single space, got %q (break=%v)", ws, lineBreak)
		}
		ws, lineBreak = w.AttributeLeadingWhitespace("Width", 0, len(source))
		if ws != "\n        " || !lineBreak {
			t.Errorf("Expected newline indent, got %q (break=%v)", ws, lineBreak)
		}
	})

	t.Run("should not match an attribute name inside a longer name", func(t *testing.T) {
		source := "<a WindowTitle=\"x\" Title=\"y\">"
		w := extractorFor(source)
		ws, _ := w.AttributeLeadingWhitespace("Title", 0, len(source))
		if ws != " " {
			t.Errorf("Expected the standalone Title match, got %q", ws)
		}
	})

	t.Run("should return empty hints for out-of-range positions", func(t *testing.T) {
		w := extractorFor("<a/>")
		if got := w.LeadingWhitespace(-5); got != "" {
			t.Errorf("Expected empty, got %q", got)
		}
		if got := w.TrailingWhitespace(99); got != "" {
			t.Errorf("Expected empty, got %q", got)
		}
	})
}

func TestNormalizeLeadingWhitespace(t *testing.T) {
	t.Run("should keep single-break runs untouched", func(t *testing.T) {
		for _, ws := range []string{"", " ", "\n    ", "\r\n\t"} {
			if got := NormalizeLeadingWhitespace(ws); got != ws {
				t.Errorf("Expected %q unchanged, got %q", ws, got)
			}
		}
	})

	t.Run("should keep only the final break of a multi-break run", func(t *testing.T) {
		if got := NormalizeLeadingWhitespace("\n\n\n  "); got != "\n  " {
			t.Errorf("Expected final break plus indent, got %q", got)
		}
		if got := NormalizeLeadingWhitespace(" \r\n \r\n    "); got != "\r\n    " {
			t.Errorf("Expected final CRLF plus indent, got %q", got)
		}
	})

	t.Run("should be idempotent", func(t *testing.T) {
		for _, ws := range []string{"\n\n  ", "\r\n\r\n\t", " \n \n "} {
			once := NormalizeLeadingWhitespace(ws)
			twice := NormalizeLeadingWhitespace(once)
			if once != twice {
				t.Errorf("Not idempotent for %q: %q then %q", ws, once, twice)
			}
		}
	})
}
