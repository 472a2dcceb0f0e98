package xaml

import (
	"fmt"
	"strings"

	"xmc-go/packages/converter/xaml/semantic"
)

// ExtensionParameter is one named parameter of a markup extension. Parameter
// order is preserved for re-serialization.
type ExtensionParameter struct {
	Name   string
	Value  string
	Nested *MarkupExtension
}

// Clone returns a deep copy of the parameter
func (p *ExtensionParameter) Clone() *ExtensionParameter {
	c := &ExtensionParameter{Name: p.Name, Value: p.Value}
	if p.Nested != nil {
		c.Nested = p.Nested.Clone()
	}
	return c
}

// BindingInfo is the specialized payload for binding extensions
type BindingInfo struct {
	Path         string
	ElementName  string
	Mode         string
	StringFormat string
}

// ResourceInfo is the specialized payload for resource-lookup extensions
type ResourceInfo struct {
	Key     string
	Dynamic bool
}

// TypeReferenceInfo is the specialized payload for type-reference extensions
type TypeReferenceInfo struct {
	TypeName string
}

// StaticMemberInfo is the specialized payload for static-member extensions
type StaticMemberInfo struct {
	OwnerType string
	Member    string
}

// MarkupExtension represents a parsed "{Name ...}" value. At most one of the
// specialized payloads (Binding, Resource, TypeRef, StaticRef) is set,
// selected by the extension name.
type MarkupExtension struct {
	Name       string
	Positional string
	Parameters []*ExtensionParameter

	Binding   *BindingInfo
	Resource  *ResourceInfo
	TypeRef   *TypeReferenceInfo
	StaticRef *StaticMemberInfo

	// ResolvedType is the semantic type of the extension wrapper, filled
	// during enrichment. Nil when the extension type is unknown.
	ResolvedType *semantic.TypeInfo
}

// FindParameter returns the named parameter, or nil
func (m *MarkupExtension) FindParameter(name string) *ExtensionParameter {
	for _, p := range m.Parameters {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Clone returns a deep copy of the markup extension
func (m *MarkupExtension) Clone() *MarkupExtension {
	c := &MarkupExtension{
		Name:         m.Name,
		Positional:   m.Positional,
		ResolvedType: m.ResolvedType,
	}
	for _, p := range m.Parameters {
		c.Parameters = append(c.Parameters, p.Clone())
	}
	if m.Binding != nil {
		b := *m.Binding
		c.Binding = &b
	}
	if m.Resource != nil {
		r := *m.Resource
		c.Resource = &r
	}
	if m.TypeRef != nil {
		t := *m.TypeRef
		c.TypeRef = &t
	}
	if m.StaticRef != nil {
		s := *m.StaticRef
		c.StaticRef = &s
	}
	return c
}

// String reconstructs the bracketed source form of the extension
func (m *MarkupExtension) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	sb.WriteString(m.Name)
	first := true
	writeSep := func() {
		if first {
			sb.WriteString(" ")
			first = false
		} else {
			sb.WriteString(", ")
		}
	}
	if m.Positional != "" {
		writeSep()
		sb.WriteString(m.Positional)
	}
	for _, p := range m.Parameters {
		writeSep()
		if p.Name == "" && p.Nested != nil {
			sb.WriteString(p.Nested.String())
			continue
		}
		sb.WriteString(p.Name)
		sb.WriteString("=")
		if p.Nested != nil {
			sb.WriteString(p.Nested.String())
		} else {
			sb.WriteString(p.Value)
		}
	}
	sb.WriteString("}")
	return sb.String()
}

// IsMarkupExtensionLiteral reports whether a string value is markup-extension
// syntax: delimited by "{" and "}" and not the "{}" escape sequence.
func IsMarkupExtensionLiteral(value string) bool {
	return len(value) >= 2 &&
		strings.HasPrefix(value, "{") &&
		strings.HasSuffix(value, "}") &&
		!strings.HasPrefix(value, "{}")
}

// extension-name suffix dropped during payload resolution, e.g.
// "x:StaticExtension" and "x:Static" are the same extension.
const extensionNameSuffix = "Extension"

// ParseMarkupExtension parses a "{Name param...}" literal into a
// MarkupExtension. Nested extensions in parameter values are parsed
// recursively; commas inside nested braces or quoted segments do not split
// parameters.
func ParseMarkupExtension(value string) (*MarkupExtension, error) {
	if !IsMarkupExtensionLiteral(value) {
		return nil, fmt.Errorf("not a markup extension literal: %q", value)
	}
	p := &extensionParser{input: value}
	ext, err := p.parseExtension()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.pos < len(p.input) {
		return nil, fmt.Errorf("unexpected trailing content %q in markup extension", p.input[p.pos:])
	}
	return ext, nil
}

// extensionParser is a small recursive-descent parser over one extension
// literal. String splitting is not enough here: parameter values may contain
// nested "{...}" extensions, quoted segments and escaped braces.
type extensionParser struct {
	input string
	pos   int
}

func (p *extensionParser) parseExtension() (*MarkupExtension, error) {
	if !p.consume('{') {
		return nil, fmt.Errorf("expected '{' at position %d in %q", p.pos, p.input)
	}
	p.skipWhitespace()
	name := p.readUntilAny(" \t\r\n}")
	if name == "" {
		return nil, fmt.Errorf("missing extension name in %q", p.input)
	}
	ext := &MarkupExtension{Name: name}

	p.skipWhitespace()
	for p.pos < len(p.input) && p.peek() != '}' {
		segment, nested, err := p.readArgument()
		if err != nil {
			return nil, err
		}
		if eq := indexOfTopLevelEquals(segment); eq >= 0 && nested == nil {
			param := &ExtensionParameter{
				Name:  strings.TrimSpace(segment[:eq]),
				Value: strings.TrimSpace(segment[eq+1:]),
			}
			if IsMarkupExtensionLiteral(param.Value) {
				inner, err := ParseMarkupExtension(param.Value)
				if err == nil {
					param.Nested = inner
					param.Value = ""
				}
			}
			ext.Parameters = append(ext.Parameters, param)
		} else if eq >= 0 && nested != nil {
			ext.Parameters = append(ext.Parameters, &ExtensionParameter{
				Name:   strings.TrimSpace(segment[:eq]),
				Nested: nested,
			})
		} else if nested != nil {
			// A positional nested extension, kept as an unnamed parameter.
			if strings.TrimSpace(segment) != "" {
				return nil, fmt.Errorf("unexpected %q before nested extension in %q",
					strings.TrimSpace(segment), p.input)
			}
			ext.Parameters = append(ext.Parameters, &ExtensionParameter{Nested: nested})
		} else {
			ext.Positional = strings.TrimSpace(segment)
		}
		p.skipWhitespace()
		if !p.consume(',') {
			break
		}
		p.skipWhitespace()
	}

	if !p.consume('}') {
		return nil, fmt.Errorf("unterminated markup extension %q", p.input)
	}
	resolvePayload(ext)
	return ext, nil
}

// readArgument reads one comma-separated argument. When the argument's value
// is a nested extension the parsed extension is returned alongside the
// segment text up to and including the '='.
func (p *extensionParser) readArgument() (string, *MarkupExtension, error) {
	var sb strings.Builder
	for p.pos < len(p.input) {
		ch := p.peek()
		switch ch {
		case ',', '}':
			return sb.String(), nil, nil
		case '{':
			// A nested extension; everything before it must have been the
			// "Name=" part of the argument.
			nested, err := p.parseExtension()
			if err != nil {
				return "", nil, err
			}
			return sb.String(), nested, nil
		case '\'', '"':
			quoted, err := p.readQuoted(ch)
			if err != nil {
				return "", nil, err
			}
			sb.WriteString(quoted)
		case '\\':
			sb.WriteByte(ch)
			p.pos++
			if p.pos < len(p.input) {
				sb.WriteByte(p.peek())
				p.pos++
			}
		default:
			sb.WriteByte(ch)
			p.pos++
		}
	}
	return "", nil, fmt.Errorf("unterminated markup extension %q", p.input)
}

// readQuoted reads a quoted segment including its quotes. Braces inside
// quotes are plain characters.
func (p *extensionParser) readQuoted(quote byte) (string, error) {
	var sb strings.Builder
	sb.WriteByte(quote)
	p.pos++
	for p.pos < len(p.input) {
		ch := p.peek()
		sb.WriteByte(ch)
		p.pos++
		if ch == quote {
			return sb.String(), nil
		}
	}
	return "", fmt.Errorf("unterminated quoted segment in %q", p.input)
}

func (p *extensionParser) peek() byte {
	return p.input[p.pos]
}

func (p *extensionParser) consume(ch byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == ch {
		p.pos++
		return true
	}
	return false
}

func (p *extensionParser) skipWhitespace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *extensionParser) readUntilAny(stop string) string {
	start := p.pos
	for p.pos < len(p.input) && !strings.ContainsRune(stop, rune(p.input[p.pos])) {
		p.pos++
	}
	return p.input[start:p.pos]
}

// indexOfTopLevelEquals returns the index of the first '=' outside quoted
// segments, or -1
func indexOfTopLevelEquals(s string) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '=':
			return i
		}
	}
	return -1
}

// resolvePayload populates the specialized payload selected by the extension
// name. The name is taken with and without the "Extension" suffix.
func resolvePayload(ext *MarkupExtension) {
	name := ext.Name
	if idx := strings.Index(name, ":"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.TrimSuffix(name, extensionNameSuffix)

	switch name {
	case "Binding", "TemplateBinding", "MultiBinding":
		b := &BindingInfo{Path: ext.Positional}
		if p := ext.FindParameter("Path"); p != nil {
			b.Path = p.Value
		}
		if p := ext.FindParameter("ElementName"); p != nil {
			b.ElementName = p.Value
		}
		if p := ext.FindParameter("Mode"); p != nil {
			b.Mode = p.Value
		}
		if p := ext.FindParameter("StringFormat"); p != nil {
			b.StringFormat = p.Value
		}
		ext.Binding = b
	case "StaticResource":
		ext.Resource = &ResourceInfo{Key: resourceKey(ext), Dynamic: false}
	case "DynamicResource":
		ext.Resource = &ResourceInfo{Key: resourceKey(ext), Dynamic: true}
	case "Type":
		t := &TypeReferenceInfo{TypeName: ext.Positional}
		if p := ext.FindParameter("TypeName"); p != nil {
			t.TypeName = p.Value
		}
		ext.TypeRef = t
	case "Static":
		member := ext.Positional
		if p := ext.FindParameter("Member"); p != nil {
			member = p.Value
		}
		s := &StaticMemberInfo{Member: member}
		if dot := strings.LastIndex(member, "."); dot >= 0 {
			s.OwnerType = member[:dot]
			s.Member = member[dot+1:]
		}
		ext.StaticRef = s
	}
}

func resourceKey(ext *MarkupExtension) string {
	if p := ext.FindParameter("ResourceKey"); p != nil {
		return p.Value
	}
	return ext.Positional
}
