package mappings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type propertyKey struct {
	owner    string
	property string
}

type eventKey struct {
	owner string
	event string
}

// StaticRepository is an in-memory Repository backed by maps. Lookups are
// read-only after construction, so it is safe for concurrent use.
type StaticRepository struct {
	namespaces map[string]*NamespaceMapping
	types      map[string]*TypeMapping
	properties map[propertyKey]*PropertyMapping
	events     map[eventKey]*EventMapping
}

// NewStaticRepository creates an empty repository
func NewStaticRepository() *StaticRepository {
	return &StaticRepository{
		namespaces: map[string]*NamespaceMapping{},
		types:      map[string]*TypeMapping{},
		properties: map[propertyKey]*PropertyMapping{},
		events:     map[eventKey]*EventMapping{},
	}
}

// AddNamespace registers a namespace mapping
func (r *StaticRepository) AddNamespace(m *NamespaceMapping) {
	r.namespaces[m.SourceURI] = m
}

// AddType registers a type mapping
func (r *StaticRepository) AddType(m *TypeMapping) {
	r.types[m.SourceType] = m
}

// AddProperty registers a property mapping
func (r *StaticRepository) AddProperty(m *PropertyMapping) {
	r.properties[propertyKey{m.SourceOwner, m.SourceProperty}] = m
}

// AddEvent registers an event mapping
func (r *StaticRepository) AddEvent(m *EventMapping) {
	r.events[eventKey{m.SourceOwner, m.SourceEvent}] = m
}

// FindNamespaceMapping returns the mapping for a source namespace URI
func (r *StaticRepository) FindNamespaceMapping(uri string) (*NamespaceMapping, bool) {
	m, ok := r.namespaces[uri]
	return m, ok
}

// FindTypeMapping returns the mapping for a source type name
func (r *StaticRepository) FindTypeMapping(typeName string) (*TypeMapping, bool) {
	m, ok := r.types[typeName]
	return m, ok
}

// FindPropertyMapping returns the mapping for a property, preferring the
// owner-specific entry over the ownerless one
func (r *StaticRepository) FindPropertyMapping(owner, property string) (*PropertyMapping, bool) {
	if m, ok := r.properties[propertyKey{owner, property}]; ok {
		return m, true
	}
	m, ok := r.properties[propertyKey{"", property}]
	return m, ok
}

// FindEventMapping returns the mapping for an event, preferring the
// owner-specific entry over the ownerless one
func (r *StaticRepository) FindEventMapping(owner, event string) (*EventMapping, bool) {
	if m, ok := r.events[eventKey{owner, event}]; ok {
		return m, true
	}
	m, ok := r.events[eventKey{"", event}]
	return m, ok
}

// mappingFile is the YAML document shape of an external mapping table
type mappingFile struct {
	Namespaces []*NamespaceMapping `yaml:"namespaces"`
	Types      []*TypeMapping      `yaml:"types"`
	Properties []*PropertyMapping  `yaml:"properties"`
	Events     []*EventMapping     `yaml:"events"`
}

// ParseRepository builds a repository from YAML mapping data layered on top
// of base: entries in data win over entries in base. A nil base starts from
// an empty repository.
func ParseRepository(data []byte, base *StaticRepository) (*StaticRepository, error) {
	var file mappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse mapping file: %w", err)
	}

	repo := NewStaticRepository()
	if base != nil {
		for k, v := range base.namespaces {
			repo.namespaces[k] = v
		}
		for k, v := range base.types {
			repo.types[k] = v
		}
		for k, v := range base.properties {
			repo.properties[k] = v
		}
		for k, v := range base.events {
			repo.events[k] = v
		}
	}

	for _, m := range file.Namespaces {
		repo.AddNamespace(m)
	}
	for _, m := range file.Types {
		repo.AddType(m)
	}
	for _, m := range file.Properties {
		repo.AddProperty(m)
	}
	for _, m := range file.Events {
		repo.AddEvent(m)
	}
	return repo, nil
}

// LoadRepository reads a YAML mapping file layered on top of base
func LoadRepository(path string, base *StaticRepository) (*StaticRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}
	return ParseRepository(data, base)
}
