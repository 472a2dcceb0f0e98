package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("should resolve registered types", func(t *testing.T) {
		r := DefaultRegistry()
		info, ok := r.Resolve("Button")
		require.True(t, ok)
		assert.Equal(t, "Button", info.Name)
		assert.NotEmpty(t, info.BaseType)
	})

	t.Run("should resolve properties through the base chain", func(t *testing.T) {
		r := DefaultRegistry()
		// Visibility is declared on UIElement, not on Button itself.
		info, ok := r.ResolveProperty("Button", "Visibility")
		require.True(t, ok)
		assert.Equal(t, "UIElement", info.OwnerType)
	})

	t.Run("should resolve attached properties on their owner", func(t *testing.T) {
		r := DefaultRegistry()
		info, ok := r.ResolveProperty("Grid", "Row")
		require.True(t, ok)
		assert.True(t, info.Attached)
	})

	t.Run("should not resolve unknown types or properties", func(t *testing.T) {
		r := DefaultRegistry()
		_, ok := r.Resolve("NoSuchType")
		assert.False(t, ok)
		_, ok = r.ResolveProperty("Button", "NoSuchProperty")
		assert.False(t, ok)
	})

	t.Run("should survive a base-type cycle", func(t *testing.T) {
		r := NewRegistry()
		r.Add(&TypeInfo{Name: "A", BaseType: "B"})
		r.Add(&TypeInfo{Name: "B", BaseType: "A"})
		_, ok := r.ResolveProperty("A", "X")
		assert.False(t, ok)
	})

	t.Run("should recognize events through the base chain", func(t *testing.T) {
		r := DefaultRegistry()
		assert.True(t, r.IsEvent("Button", "Click"))
		assert.False(t, r.IsEvent("Button", "Content"))
	})
}

func TestParseRegistry(t *testing.T) {
	t.Run("should layer external types over the defaults", func(t *testing.T) {
		data := []byte(`
types:
  - name: MyControl
    base: Control
    contentProperty: Body
    events: [Activated]
    properties:
      - name: Body
        type: object
      - name: Pinned
        type: bool
        attached: true
`)
		r, err := ParseRegistry(data)
		require.NoError(t, err)

		info, ok := r.Resolve("MyControl")
		require.True(t, ok)
		assert.Equal(t, "Body", info.ContentProperty)
		assert.True(t, r.IsEvent("MyControl", "Activated"))

		// Inherited via the declared base.
		_, ok = r.ResolveProperty("MyControl", "Visibility")
		assert.True(t, ok)

		// Defaults still present.
		_, ok = r.Resolve("Button")
		assert.True(t, ok)
	})

	t.Run("should reject malformed yaml", func(t *testing.T) {
		_, err := ParseRegistry([]byte("types: ["))
		assert.Error(t, err)
	})
}
