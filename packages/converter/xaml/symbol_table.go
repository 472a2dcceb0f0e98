package xaml

// SymbolTable is the per-document index of named elements, namespace
// prefixes and type usage sites.
//
// The table is populated once during structural conversion and read by later
// passes. It is a derived index: transformation rules mutate the tree, not
// the table, so after transformation it must be treated as a snapshot of the
// pre-transformation state.
type SymbolTable struct {
	namedElements map[string]*Element
	prefixes      map[string]string
	typeUsages    map[string][]*Element
}

// NewSymbolTable creates a new empty SymbolTable
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		namedElements: map[string]*Element{},
		prefixes:      map[string]string{},
		typeUsages:    map[string][]*Element{},
	}
}

// RegisterNamedElement records an element under its x:Name directive value
func (s *SymbolTable) RegisterNamedElement(name string, el *Element) {
	if name == "" {
		return
	}
	s.namedElements[name] = el
}

// RegisterPrefix records a namespace prefix declaration
func (s *SymbolTable) RegisterPrefix(prefix, uri string) {
	s.prefixes[prefix] = uri
}

// RegisterTypeUsage records one usage site of a type name
func (s *SymbolTable) RegisterTypeUsage(typeName string, el *Element) {
	if typeName == "" {
		return
	}
	s.typeUsages[typeName] = append(s.typeUsages[typeName], el)
}

// LookupNamedElement returns the element registered under name, or nil
func (s *SymbolTable) LookupNamedElement(name string) *Element {
	return s.namedElements[name]
}

// LookupPrefix returns the namespace URI declared for prefix
func (s *SymbolTable) LookupPrefix(prefix string) (string, bool) {
	uri, ok := s.prefixes[prefix]
	return uri, ok
}

// UsagesOf returns every usage site recorded for a type name
func (s *SymbolTable) UsagesOf(typeName string) []*Element {
	return s.typeUsages[typeName]
}

// NamedElementCount returns the number of registered named elements
func (s *SymbolTable) NamedElementCount() int {
	return len(s.namedElements)
}
