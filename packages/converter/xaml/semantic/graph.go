package semantic

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"xmc-go/packages/converter/util"
)

// ObjectNode is one node of the semantic object graph: an instantiated
// markup type with its resolved TypeInfo (nil when the type could not be
// resolved), its member assignments and its child objects.
type ObjectNode struct {
	TypeName string
	Prefix   string
	Type     *TypeInfo
	Members  []*MemberNode
	Children []*ObjectNode
	Text     string
	Line     int
	Column   int
}

// IsExtension reports whether this object node is a markup extension
// wrapper, detected by the fixed "Extension" type-name suffix
func (o *ObjectNode) IsExtension() bool {
	return strings.HasSuffix(o.TypeName, "Extension")
}

// MemberNode is one property-value assignment in the object graph
type MemberNode struct {
	Name      string
	OwnerType string
	Property  *PropertyInfo
	Value     string
	Object    *ObjectNode
	Line      int
	Column    int
}

// Parser builds the semantic object graph from markup text, resolving types
// and property owners against a Registry
type Parser struct {
	registry *Registry
}

// NewParser creates a new semantic Parser
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Registry returns the registry the parser resolves against
func (p *Parser) Registry() *Registry {
	return p.registry
}

const xamlDirectiveNamespace = "http://schemas.microsoft.com/winfx/2006/xaml"

// Parse decodes source into an object graph. A decoding failure is returned
// as an error; unresolvable types are not errors, they yield nodes with a
// nil Type.
func (p *Parser) Parse(source, url string) (*ObjectNode, error) {
	decoder := xml.NewDecoder(strings.NewReader(source))
	index := util.NewPositionIndex(source)

	var root *ObjectNode
	var stack []*ObjectNode
	// memberStack tracks open property-element members parallel to stack
	// depth, nil for plain object elements.
	var memberStack []*MemberNode

	for {
		offset := decoder.InputOffset()
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("semantic parse of %s: %w", url, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			line, col := index.LocationOf(int(offset))
			local := t.Name.Local
			if dot := strings.Index(local, "."); dot >= 0 && len(stack) > 0 {
				// Property-element syntax: this element is a member of the
				// enclosing object, not an object itself.
				owner := local[:dot]
				member := &MemberNode{
					Name:      local[dot+1:],
					OwnerType: owner,
					Line:      line,
					Column:    col,
				}
				if info, ok := p.registry.ResolveProperty(owner, member.Name); ok {
					member.Property = info
				}
				parent := stack[len(stack)-1]
				parent.Members = append(parent.Members, member)
				stack = append(stack, nil)
				memberStack = append(memberStack, member)
				continue
			}

			obj := &ObjectNode{
				TypeName: local,
				Line:     line,
				Column:   col,
			}
			if info, ok := p.registry.Resolve(local); ok {
				obj.Type = info
			}
			p.convertAttributes(obj, t.Attr)

			if len(stack) == 0 {
				root = obj
			} else if stack[len(stack)-1] == nil {
				// Direct value of an open property element.
				memberStack[len(memberStack)-1].Object = obj
			} else {
				stack[len(stack)-1].Children = append(stack[len(stack)-1].Children, obj)
			}
			stack = append(stack, obj)
			memberStack = append(memberStack, nil)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
				memberStack = memberStack[:len(memberStack)-1]
			}

		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" || len(stack) == 0 {
				continue
			}
			if top := stack[len(stack)-1]; top != nil {
				top.Text = text
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("semantic parse of %s: no root element", url)
	}
	return root, nil
}

func (p *Parser) convertAttributes(obj *ObjectNode, attrs []xml.Attr) {
	for _, attr := range attrs {
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
			continue
		}
		if attr.Name.Space == xamlDirectiveNamespace {
			// Directives are structural, not properties; nothing to resolve.
			continue
		}

		member := &MemberNode{
			Name:  attr.Name.Local,
			Value: attr.Value,
			Line:  obj.Line,
		}
		if dot := strings.Index(attr.Name.Local, "."); dot >= 0 {
			member.OwnerType = attr.Name.Local[:dot]
			member.Name = attr.Name.Local[dot+1:]
		}

		ownerType := member.OwnerType
		if ownerType == "" {
			ownerType = obj.TypeName
		}
		if info, ok := p.registry.ResolveProperty(ownerType, member.Name); ok {
			member.Property = info
		}

		if extName := extensionTypeName(attr.Value); extName != "" {
			wrapper := &ObjectNode{TypeName: extName}
			if info, ok := p.registry.Resolve(extName); ok {
				wrapper.Type = info
			}
			member.Object = wrapper
		}

		obj.Members = append(obj.Members, member)
	}
}

// extensionTypeName returns the semantic wrapper type name for a markup
// extension literal, e.g. "{Binding Path}" yields "BindingExtension", or ""
// when the value is not extension syntax
func extensionTypeName(value string) string {
	if len(value) < 2 || value[0] != '{' || strings.HasPrefix(value, "{}") || !strings.HasSuffix(value, "}") {
		return ""
	}
	inner := value[1 : len(value)-1]
	name := inner
	if idx := strings.IndexAny(inner, " \t\r\n}"); idx >= 0 {
		name = inner[:idx]
	}
	if idx := strings.Index(name, ":"); idx >= 0 {
		name = name[idx+1:]
	}
	if name == "" {
		return ""
	}
	if !strings.HasSuffix(name, "Extension") {
		name += "Extension"
	}
	return name
}
