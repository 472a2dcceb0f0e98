package mappings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibilityToBoolean(t *testing.T) {
	convert, ok := LookupValueConverter(ConverterVisibilityToBoolean)
	require.True(t, ok)

	cases := []struct {
		name       string
		in, out    string
		recognized bool
	}{
		{"visible becomes true", "Visible", "True", true},
		{"collapsed becomes false", "Collapsed", "False", true},
		{"hidden becomes false", "Hidden", "False", true},
		{"matching is case-insensitive", "VISIBLE", "True", true},
		{"surrounding whitespace is ignored", "  Collapsed ", "False", true},
		{"unrecognized values pass through", "Maybe", "Maybe", false},
	}
	for _, tc := range cases {
		t.Run("should convert: "+tc.name, func(t *testing.T) {
			out, recognized := convert(tc.in)
			assert.Equal(t, tc.out, out)
			assert.Equal(t, tc.recognized, recognized)
		})
	}
}

func TestRegisterValueConverter(t *testing.T) {
	t.Run("should expose registered converters by tag", func(t *testing.T) {
		RegisterValueConverter("test-upper", func(v string) (string, bool) {
			return v + "!", true
		})
		convert, ok := LookupValueConverter("test-upper")
		require.True(t, ok)
		out, _ := convert("hi")
		assert.Equal(t, "hi!", out)
	})

	t.Run("should miss unknown tags", func(t *testing.T) {
		_, ok := LookupValueConverter("no-such-converter")
		assert.False(t, ok)
	})
}
