package mappings

import "strings"

// ValueConverter rewrites a property value during translation. The second
// return reports whether the input was recognized; unrecognized values are
// left alone by the caller.
type ValueConverter func(value string) (string, bool)

// ConverterVisibilityToBoolean is the tag of the built-in converter turning
// three-state visibility values into booleans.
const ConverterVisibilityToBoolean = "visibility-to-boolean"

var valueConverters = map[string]ValueConverter{
	ConverterVisibilityToBoolean: convertVisibilityToBoolean,
}

// RegisterValueConverter registers a converter under a tag, replacing any
// existing registration
func RegisterValueConverter(tag string, converter ValueConverter) {
	valueConverters[tag] = converter
}

// LookupValueConverter returns the converter registered under tag
func LookupValueConverter(tag string) (ValueConverter, bool) {
	c, ok := valueConverters[tag]
	return c, ok
}

// convertVisibilityToBoolean collapses the three-state visibility enum into
// a boolean: Visible is true, Collapsed and Hidden are false. The hidden
// state's reserve-space behavior has no boolean equivalent and is dropped.
func convertVisibilityToBoolean(value string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "visible":
		return "True", true
	case "collapsed", "hidden":
		return "False", true
	}
	return value, false
}
