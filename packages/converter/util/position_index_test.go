package util

import (
	"strings"
	"testing"
)

func TestPositionIndex(t *testing.T) {
	t.Run("should record line starts for LF sources", func(t *testing.T) {
		index := NewPositionIndex("ab\ncd\nef")
		if index.LineCount() != 3 {
			t.Errorf("Expected 3 lines, got %d", index.LineCount())
		}
		for line, want := range map[int]int{1: 0, 2: 3, 3: 6} {
			if got := index.LineStart(line); got != want {
				t.Errorf("LineStart(%d): expected %d, got %d", line, want, got)
			}
		}
		if got := index.LineStart(0); got != -1 {
			t.Errorf("LineStart(0): expected -1, got %d", got)
		}
	})

	t.Run("should handle CRLF and bare CR line endings", func(t *testing.T) {
		index := NewPositionIndex("ab\r\ncd\ref")
		if index.LineCount() != 3 {
			t.Errorf("Expected 3 lines, got %d", index.LineCount())
		}
		if got := index.LineStart(2); got != 4 {
			t.Errorf("LineStart(2): expected 4, got %d", got)
		}
		if got := index.LineStart(3); got != 7 {
			t.Errorf("LineStart(3): expected 7, got %d", got)
		}
	})

	t.Run("should compute character positions with the column adjustment", func(t *testing.T) {
		source := "<a>\n  <b/>\n</a>"
		index := NewPositionIndex(source)
		// Reported position of <b is line 2, column pointing at the name,
		// which is one past the angle bracket.
		pos := index.CharacterPosition(2, 4)
		if source[pos] != '<' {
			t.Errorf("Expected position of '<', got %q at %d", source[pos], pos)
		}
		if pos != 6 {
			t.Errorf("Expected offset 6, got %d", pos)
		}
	})

	t.Run("should reject missing lines and clamp columns", func(t *testing.T) {
		index := NewPositionIndex("hello")
		if pos := index.CharacterPosition(99, 1); pos != -1 {
			t.Errorf("Expected -1 for missing line, got %d", pos)
		}
		if pos := index.CharacterPosition(1, 0); pos != 0 {
			t.Errorf("Expected clamp to 0, got %d", pos)
		}
		if pos := index.CharacterPosition(1, 99); pos != len("hello") {
			t.Errorf("Expected clamp to source length, got %d", pos)
		}
	})

	t.Run("should map offsets back to line and column", func(t *testing.T) {
		source := "first\nsecond\nthird"
		index := NewPositionIndex(source)
		line, col := index.LocationOf(strings.Index(source, "second"))
		if line != 2 || col != 1 {
			t.Errorf("Expected 2:1, got %d:%d", line, col)
		}
		line, col = index.LocationOf(strings.Index(source, "ird"))
		if line != 3 || col != 3 {
			t.Errorf("Expected 3:3, got %d:%d", line, col)
		}
	})
}
