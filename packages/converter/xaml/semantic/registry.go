// Package semantic implements the type-resolving second parse of a XAML
// document: a type registry describing the source framework's types and an
// object/property-value graph built from the markup with types and property
// owners resolved against that registry.
package semantic

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TypeInfo describes one resolvable markup type
type TypeInfo struct {
	Name            string
	Namespace       string
	BaseType        string
	ContentProperty string
	Properties      map[string]*PropertyInfo
	Events          map[string]bool
}

// PropertyInfo describes one resolvable property and its owner
type PropertyInfo struct {
	Name         string
	OwnerType    string
	PropertyType string
	Attached     bool
}

// Registry resolves type names to TypeInfo. Lookups walk the base-type chain
// for property resolution. The registry is read-only after construction and
// safe for concurrent reads.
type Registry struct {
	types map[string]*TypeInfo
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{types: map[string]*TypeInfo{}}
}

// Add registers a type
func (r *Registry) Add(t *TypeInfo) {
	if t.Properties == nil {
		t.Properties = map[string]*PropertyInfo{}
	}
	if t.Events == nil {
		t.Events = map[string]bool{}
	}
	r.types[t.Name] = t
}

// Resolve returns the TypeInfo registered for name
func (r *Registry) Resolve(name string) (*TypeInfo, bool) {
	t, ok := r.types[name]
	return t, ok
}

// ResolveProperty resolves a property against a type, walking base types
func (r *Registry) ResolveProperty(typeName, propertyName string) (*PropertyInfo, bool) {
	seen := map[string]bool{}
	for typeName != "" && !seen[typeName] {
		seen[typeName] = true
		t, ok := r.types[typeName]
		if !ok {
			return nil, false
		}
		if p, ok := t.Properties[propertyName]; ok {
			return p, true
		}
		typeName = t.BaseType
	}
	return nil, false
}

// IsEvent reports whether name is a known event of the type or its bases
func (r *Registry) IsEvent(typeName, name string) bool {
	seen := map[string]bool{}
	for typeName != "" && !seen[typeName] {
		seen[typeName] = true
		t, ok := r.types[typeName]
		if !ok {
			return false
		}
		if t.Events[name] {
			return true
		}
		typeName = t.BaseType
	}
	return false
}

// registryFile is the YAML shape of an external type registry document
type registryFile struct {
	Types []struct {
		Name            string   `yaml:"name"`
		Namespace       string   `yaml:"namespace"`
		Base            string   `yaml:"base"`
		ContentProperty string   `yaml:"contentProperty"`
		Events          []string `yaml:"events"`
		Properties      []struct {
			Name     string `yaml:"name"`
			Type     string `yaml:"type"`
			Attached bool   `yaml:"attached"`
		} `yaml:"properties"`
	} `yaml:"types"`
}

// LoadRegistry loads a type registry from a YAML file, layered on top of the
// built-in defaults
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading type registry: %w", err)
	}
	return ParseRegistry(data)
}

// ParseRegistry parses YAML type registry content layered on top of the
// built-in defaults
func ParseRegistry(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing type registry: %w", err)
	}
	r := DefaultRegistry()
	for _, t := range file.Types {
		info := &TypeInfo{
			Name:            t.Name,
			Namespace:       t.Namespace,
			BaseType:        t.Base,
			ContentProperty: t.ContentProperty,
			Properties:      map[string]*PropertyInfo{},
			Events:          map[string]bool{},
		}
		for _, p := range t.Properties {
			info.Properties[p.Name] = &PropertyInfo{
				Name:         p.Name,
				OwnerType:    t.Name,
				PropertyType: p.Type,
				Attached:     p.Attached,
			}
		}
		for _, e := range t.Events {
			info.Events[e] = true
		}
		r.Add(info)
	}
	return r, nil
}

// DefaultRegistry returns a registry preloaded with the common WPF types the
// converter understands without an external registry file
func DefaultRegistry() *Registry {
	r := NewRegistry()

	wpfNS := "http://schemas.microsoft.com/winfx/2006/xaml/presentation"
	add := func(name, base, contentProperty string, props []string, events ...string) {
		info := &TypeInfo{
			Name:            name,
			Namespace:       wpfNS,
			BaseType:        base,
			ContentProperty: contentProperty,
			Properties:      map[string]*PropertyInfo{},
			Events:          map[string]bool{},
		}
		for _, p := range props {
			info.Properties[p] = &PropertyInfo{Name: p, OwnerType: name, PropertyType: "string"}
		}
		for _, e := range events {
			info.Events[e] = true
		}
		r.Add(info)
	}

	add("UIElement", "", "", []string{"Visibility", "Opacity", "IsEnabled", "Focusable"})
	add("FrameworkElement", "UIElement", "", []string{
		"Width", "Height", "MinWidth", "MinHeight", "MaxWidth", "MaxHeight",
		"Margin", "HorizontalAlignment", "VerticalAlignment", "Tag", "ToolTip",
		"DataContext", "Style", "Resources",
	}, "Loaded", "Unloaded", "SizeChanged")
	add("Control", "FrameworkElement", "", []string{
		"Background", "Foreground", "BorderBrush", "BorderThickness",
		"FontFamily", "FontSize", "FontWeight", "Padding", "Template",
	})
	add("ContentControl", "Control", "Content", []string{"Content", "ContentTemplate"})
	add("Window", "ContentControl", "Content", []string{
		"Title", "WindowStartupLocation", "SizeToContent", "ResizeMode",
		"ShowInTaskbar", "Topmost", "Icon",
	}, "Closing", "Closed", "Activated", "Deactivated")
	add("UserControl", "ContentControl", "Content", nil)
	add("Page", "ContentControl", "Content", nil)
	add("Button", "ContentControl", "Content", []string{"Command", "CommandParameter", "IsDefault", "IsCancel"}, "Click")
	add("CheckBox", "ContentControl", "Content", []string{"IsChecked", "IsThreeState"}, "Checked", "Unchecked")
	add("RadioButton", "ContentControl", "Content", []string{"IsChecked", "GroupName"}, "Checked", "Unchecked")
	add("Label", "ContentControl", "Content", []string{"Target"})
	add("TextBlock", "FrameworkElement", "Text", []string{
		"Text", "TextWrapping", "TextTrimming", "TextAlignment", "FontFamily",
		"FontSize", "FontWeight", "Foreground", "Background", "Padding",
	})
	add("TextBox", "Control", "Text", []string{
		"Text", "MaxLength", "IsReadOnly", "AcceptsReturn", "TextWrapping",
	}, "TextChanged")
	add("Panel", "FrameworkElement", "Children", []string{"Background"})
	add("StackPanel", "Panel", "Children", []string{"Orientation", "Spacing"})
	add("WrapPanel", "Panel", "Children", []string{"Orientation", "ItemWidth", "ItemHeight"})
	add("DockPanel", "Panel", "Children", []string{"LastChildFill"})
	add("Canvas", "Panel", "Children", nil)
	add("Border", "FrameworkElement", "Child", []string{
		"Child", "Background", "BorderBrush", "BorderThickness", "CornerRadius", "Padding",
	})

	grid := &TypeInfo{
		Name:            "Grid",
		Namespace:       wpfNS,
		BaseType:        "Panel",
		ContentProperty: "Children",
		Properties: map[string]*PropertyInfo{
			"RowDefinitions":    {Name: "RowDefinitions", OwnerType: "Grid", PropertyType: "RowDefinitionCollection"},
			"ColumnDefinitions": {Name: "ColumnDefinitions", OwnerType: "Grid", PropertyType: "ColumnDefinitionCollection"},
			"ShowGridLines":     {Name: "ShowGridLines", OwnerType: "Grid", PropertyType: "bool"},
			"Row":               {Name: "Row", OwnerType: "Grid", PropertyType: "int", Attached: true},
			"Column":            {Name: "Column", OwnerType: "Grid", PropertyType: "int", Attached: true},
			"RowSpan":           {Name: "RowSpan", OwnerType: "Grid", PropertyType: "int", Attached: true},
			"ColumnSpan":        {Name: "ColumnSpan", OwnerType: "Grid", PropertyType: "int", Attached: true},
		},
		Events: map[string]bool{},
	}
	r.Add(grid)
	add("RowDefinition", "", "", []string{"Height", "MinHeight", "MaxHeight"})
	add("ColumnDefinition", "", "", []string{"Width", "MinWidth", "MaxWidth"})

	add("ItemsControl", "Control", "Items", []string{"ItemsSource", "ItemTemplate", "ItemsPanel"})
	add("ListBox", "ItemsControl", "Items", []string{"SelectedItem", "SelectedIndex", "SelectionMode"}, "SelectionChanged")
	add("ComboBox", "ItemsControl", "Items", []string{"SelectedItem", "SelectedIndex", "IsEditable"}, "SelectionChanged")
	add("ListView", "ListBox", "Items", []string{"View"})
	add("Image", "FrameworkElement", "", []string{"Source", "Stretch"})
	add("Slider", "Control", "", []string{"Minimum", "Maximum", "Value", "TickFrequency"}, "ValueChanged")
	add("ProgressBar", "Control", "", []string{"Minimum", "Maximum", "Value", "IsIndeterminate"})
	add("Separator", "Control", "", nil)
	add("ScrollViewer", "ContentControl", "Content", []string{
		"HorizontalScrollBarVisibility", "VerticalScrollBarVisibility",
	})
	add("Style", "", "", []string{"TargetType", "BasedOn", "Setters"})
	add("Setter", "", "", []string{"Property", "Value", "TargetName"})
	add("DataTemplate", "", "", []string{"DataType"})
	add("ControlTemplate", "", "", []string{"TargetType"})

	add("BindingExtension", "", "", []string{"Path", "ElementName", "Mode", "Converter", "StringFormat"})
	add("StaticResourceExtension", "", "", []string{"ResourceKey"})
	add("DynamicResourceExtension", "", "", []string{"ResourceKey"})
	add("TypeExtension", "", "", []string{"TypeName"})
	add("StaticExtension", "", "", []string{"Member"})

	return r
}
