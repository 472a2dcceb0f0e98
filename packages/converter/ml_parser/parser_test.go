package ml_parser

import (
	"strings"
	"testing"
)

func parseNodes(t *testing.T, source string) *ParseTreeResult {
	t.Helper()
	return NewXmlParser().Parse(source, "test.xaml")
}

func firstElement(t *testing.T, result *ParseTreeResult) *Element {
	t.Helper()
	for _, node := range result.RootNodes {
		if el, ok := node.(*Element); ok {
			return el
		}
	}
	t.Fatal("no element in root nodes")
	return nil
}

func TestTreeBuilder(t *testing.T) {
	t.Run("should build nested elements", func(t *testing.T) {
		result := parseNodes(t, "<a><b><c/></b></a>")
		if len(result.Errors) != 0 {
			t.Fatalf("Unexpected errors: %v", result.Errors)
		}
		a := firstElement(t, result)
		if a.Name != "a" || len(a.Children) != 1 {
			t.Fatalf("Expected a with one child, got %s with %d", a.Name, len(a.Children))
		}
		b := a.Children[0].(*Element)
		if b.Name != "b" || len(b.Children) != 1 {
			t.Fatalf("Expected b with one child, got %s with %d", b.Name, len(b.Children))
		}
		c := b.Children[0].(*Element)
		if c.Name != "c" || !c.IsSelfClosing {
			t.Errorf("Expected self-closing c, got %s", c.Name)
		}
	})

	t.Run("should parse attributes with prefixes and values", func(t *testing.T) {
		result := parseNodes(t, `<a x:b="1" c="2"/>`)
		el := firstElement(t, result)
		if len(el.Attrs) != 2 {
			t.Fatalf("Expected 2 attributes, got %d", len(el.Attrs))
		}
		if el.Attrs[0].FullName() != "x:b" || el.Attrs[0].Value != "1" {
			t.Errorf("Unexpected first attribute: %s=%s", el.Attrs[0].FullName(), el.Attrs[0].Value)
		}
		if el.Attrs[1].Name != "c" || el.Attrs[1].Value != "2" {
			t.Errorf("Unexpected second attribute: %s=%s", el.Attrs[1].Name, el.Attrs[1].Value)
		}
	})

	t.Run("should keep text and comments in document order", func(t *testing.T) {
		result := parseNodes(t, "<a>one<!--note-->two</a>")
		el := firstElement(t, result)
		if len(el.Children) != 3 {
			t.Fatalf("Expected 3 children, got %d", len(el.Children))
		}
		if _, ok := el.Children[1].(*Comment); !ok {
			t.Errorf("Expected comment in the middle, got %T", el.Children[1])
		}
	})

	t.Run("should parse the xml declaration", func(t *testing.T) {
		result := parseNodes(t, `<?xml version="1.0" encoding="utf-8"?><a/>`)
		decl, ok := result.RootNodes[0].(*Declaration)
		if !ok {
			t.Fatalf("Expected declaration, got %T", result.RootNodes[0])
		}
		if decl.Target != "xml" || !strings.Contains(decl.Body, "version") {
			t.Errorf("Unexpected declaration: %s %s", decl.Target, decl.Body)
		}
	})

	t.Run("should report an error for an unterminated open tag", func(t *testing.T) {
		result := parseNodes(t, "<Window>\n  <Button\n</Window>")
		found := false
		for _, err := range result.Errors {
			if strings.Contains(err.Msg, "not terminated") {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected a not-terminated error, got %v", result.Errors)
		}
	})

	t.Run("should report an error for a mismatched close tag", func(t *testing.T) {
		result := parseNodes(t, "<a><b></a>")
		if len(result.Errors) == 0 {
			t.Fatal("Expected errors")
		}
	})

	t.Run("should report unclosed tags at EOF", func(t *testing.T) {
		result := parseNodes(t, "<a><b>")
		found := false
		for _, err := range result.Errors {
			if strings.Contains(err.Msg, "Unclosed tag") {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected an unclosed-tag error, got %v", result.Errors)
		}
	})

	t.Run("should record the end source span of a closed element", func(t *testing.T) {
		source := "<a>text</a>"
		result := parseNodes(t, source)
		el := firstElement(t, result)
		if el.EndSourceSpan == nil {
			t.Fatal("Expected an end source span")
		}
		if el.SourceSpan().End.Offset != len(source) {
			t.Errorf("Expected span end %d, got %d", len(source), el.SourceSpan().End.Offset)
		}
	})
}
