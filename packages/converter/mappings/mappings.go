// Package mappings holds the framework translation tables consumed by the
// transformation rules: which source namespace, type, property or event maps
// to which target construct, plus the value-conversion tags that go with
// them. The tables are data, not behavior; rules decide how to apply them.
package mappings

// NamespaceMapping maps a source namespace URI to its target equivalent
type NamespaceMapping struct {
	SourceURI string `yaml:"source"`
	TargetURI string `yaml:"target"`
	Note      string `yaml:"note,omitempty"`
}

// TypeMapping maps a source type name to its target equivalent
type TypeMapping struct {
	SourceType string `yaml:"source"`
	TargetType string `yaml:"target"`
	Note       string `yaml:"note,omitempty"`

	// RequiresManualReview marks translations that are close but not
	// behaviorally identical; the conversion proceeds and a review
	// diagnostic is attached.
	RequiresManualReview bool `yaml:"requiresManualReview,omitempty"`
}

// PropertyMapping maps a source property to its target equivalent. An empty
// SourceOwner applies to the property name on any type.
type PropertyMapping struct {
	SourceOwner    string `yaml:"owner,omitempty"`
	SourceProperty string `yaml:"source"`
	TargetProperty string `yaml:"target"`

	// ValueConversion names a registered value converter applied to the
	// property value, e.g. visibility values becoming booleans.
	ValueConversion string `yaml:"valueConversion,omitempty"`

	// TypeChanged marks mappings where the property type differs between
	// frameworks even though the value text may carry over.
	TypeChanged bool   `yaml:"typeChanged,omitempty"`
	Note        string `yaml:"note,omitempty"`

	RequiresManualReview bool `yaml:"requiresManualReview,omitempty"`
}

// EventMapping maps a source event to its target equivalent. An empty
// SourceOwner applies to the event name on any type.
type EventMapping struct {
	SourceOwner string `yaml:"owner,omitempty"`
	SourceEvent string `yaml:"source"`
	TargetEvent string `yaml:"target"`
	Note        string `yaml:"note,omitempty"`
}

// Repository is the lookup contract the rule engine depends on. Property and
// event lookups try the owner-specific entry first and fall back to the
// ownerless entry.
type Repository interface {
	FindNamespaceMapping(uri string) (*NamespaceMapping, bool)
	FindTypeMapping(typeName string) (*TypeMapping, bool)
	FindPropertyMapping(owner, property string) (*PropertyMapping, bool)
	FindEventMapping(owner, event string) (*EventMapping, bool)
}
