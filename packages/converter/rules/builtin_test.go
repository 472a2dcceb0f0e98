package rules

import (
	"strings"
	"testing"

	"xmc-go/packages/converter/diagnostics"
	"xmc-go/packages/converter/mappings"
	"xmc-go/packages/converter/xaml"
)

func translate(t *testing.T, source string) (*xaml.Document, *Context) {
	t.Helper()
	result := xaml.NewHybridParser(nil, nil).Parse(source, "test.xaml")
	if result.Document == nil {
		t.Fatal("Expected a document")
	}
	repo := mappings.WpfToAvalonia()
	ctx := NewContext(result.Document, repo)
	NewDefaultEngine(repo).Transform(result.Document, ctx)
	return result.Document, ctx
}

func findDiagnostic(doc *xaml.Document, code string) *diagnostics.Diagnostic {
	for _, d := range doc.Diagnostics.All() {
		if d.Code == code {
			return d
		}
	}
	return nil
}

func TestNamespaceRewrite(t *testing.T) {
	doc, ctx := translate(t, `<Window xmlns="http://schemas.microsoft.com/winfx/2006/xaml/presentation"
        xmlns:x="http://schemas.microsoft.com/winfx/2006/xaml"
        xmlns:local="clr-namespace:Demo">
    <Button Content="OK" />
</Window>
`)

	t.Run("should rewrite the declaration to the target uri", func(t *testing.T) {
		if doc.Root.Namespaces[0].URI != mappings.AvaloniaURI {
			t.Errorf("Unexpected default namespace: %s", doc.Root.Namespaces[0].URI)
		}
	})

	t.Run("should leave the directive namespace alone", func(t *testing.T) {
		if doc.Root.Namespaces[1].URI != xaml.XamlDirectiveNamespace {
			t.Errorf("Directive namespace was rewritten: %s", doc.Root.Namespaces[1].URI)
		}
	})

	t.Run("should follow declarations with the recorded element namespaces", func(t *testing.T) {
		if doc.Root.Namespace != mappings.AvaloniaURI {
			t.Errorf("Root namespace not updated: %s", doc.Root.Namespace)
		}
		if doc.Root.Children[0].Namespace != mappings.AvaloniaURI {
			t.Errorf("Child namespace not updated: %s", doc.Root.Children[0].Namespace)
		}
	})

	t.Run("should report unmapped project namespaces as info", func(t *testing.T) {
		d := findDiagnostic(doc, diagnostics.CodeNamespaceMappingNotFound)
		if d == nil {
			t.Fatal("Expected a namespace info diagnostic")
		}
		if d.Severity != diagnostics.SeverityInfo || !strings.Contains(d.Message, "clr-namespace:Demo") {
			t.Errorf("Unexpected diagnostic: %s", d)
		}
	})

	t.Run("should record the rewrite in the trace", func(t *testing.T) {
		var found bool
		for _, r := range ctx.Trace() {
			if r.RuleName == "namespace-rewrite" {
				found = true
			}
		}
		if !found {
			t.Error("Namespace rewrite missing from trace")
		}
	})
}

func TestTypeRename(t *testing.T) {
	doc, ctx := translate(t, `<Window xmlns="http://schemas.microsoft.com/winfx/2006/xaml/presentation">
    <ListView />
</Window>
`)

	t.Run("should rename the type", func(t *testing.T) {
		if doc.Root.Children[0].TypeName != "ListBox" {
			t.Errorf("Unexpected type: %s", doc.Root.Children[0].TypeName)
		}
	})

	t.Run("should flag the near-equivalent for manual review", func(t *testing.T) {
		d := findDiagnostic(doc, diagnostics.CodeManualReviewRequired)
		if d == nil {
			t.Fatal("Expected a review diagnostic")
		}
		if len(doc.Root.Children[0].Diagnostics) == 0 {
			t.Error("Review diagnostic not attached to the element")
		}
	})

	t.Run("should record the rename in the trace", func(t *testing.T) {
		var found bool
		for _, r := range ctx.Trace() {
			if r.RuleName == "type-rename" && strings.Contains(r.Description, "ListView -> ListBox") {
				found = true
			}
		}
		if !found {
			t.Errorf("Type rename missing from trace: %+v", ctx.Trace())
		}
	})
}

func TestUnmappedType(t *testing.T) {
	doc, _ := translate(t, `<Window xmlns="http://schemas.microsoft.com/winfx/2006/xaml/presentation">
    <Viewport3D />
</Window>
`)

	t.Run("should warn about source types with no mapping", func(t *testing.T) {
		d := findDiagnostic(doc, diagnostics.CodeTypeMappingNotFound)
		if d == nil {
			t.Fatal("Expected a missing-mapping warning")
		}
		if !strings.Contains(d.Message, "Viewport3D") {
			t.Errorf("Unexpected diagnostic: %s", d)
		}
	})

	t.Run("should keep the element in place", func(t *testing.T) {
		if doc.Root.Children[0].TypeName != "Viewport3D" {
			t.Errorf("Unexpected type: %s", doc.Root.Children[0].TypeName)
		}
	})
}

func TestPropertyRename(t *testing.T) {
	t.Run("should rename and convert visibility values", func(t *testing.T) {
		cases := []struct{ in, out string }{
			{"Visible", "True"},
			{"Collapsed", "False"},
			{"Hidden", "False"},
		}
		for _, tc := range cases {
			doc, _ := translate(t, `<Window xmlns="http://schemas.microsoft.com/winfx/2006/xaml/presentation">
    <Button Visibility="`+tc.in+`" />
</Window>
`)
			button := doc.Root.Children[0]
			if button.FindProperty("Visibility") != nil {
				t.Error("Source property still present")
			}
			isVisible := button.FindProperty("IsVisible")
			if isVisible == nil {
				t.Fatal("Expected an IsVisible property")
			}
			if isVisible.Value != tc.out {
				t.Errorf("Visibility %q converted to %q, want %q", tc.in, isVisible.Value, tc.out)
			}
		}
	})

	t.Run("should flag unrecognized conversion values for review", func(t *testing.T) {
		doc, _ := translate(t, `<Window xmlns="http://schemas.microsoft.com/winfx/2006/xaml/presentation">
    <Button Visibility="Maybe" />
</Window>
`)
		isVisible := doc.Root.Children[0].FindProperty("IsVisible")
		if isVisible == nil || isVisible.Value != "Maybe" {
			t.Fatalf("Unexpected property: %+v", isVisible)
		}
		if findDiagnostic(doc, diagnostics.CodeManualReviewRequired) == nil {
			t.Error("Expected a review diagnostic")
		}
	})

	t.Run("should flag bound properties instead of converting them", func(t *testing.T) {
		doc, _ := translate(t, `<Window xmlns="http://schemas.microsoft.com/winfx/2006/xaml/presentation">
    <Button Visibility="{Binding ShowButton}" />
</Window>
`)
		isVisible := doc.Root.Children[0].FindProperty("IsVisible")
		if isVisible == nil || isVisible.Extension == nil {
			t.Fatal("Expected a bound IsVisible property")
		}
		d := findDiagnostic(doc, diagnostics.CodeManualReviewRequired)
		if d == nil || !strings.Contains(d.Message, "bound") {
			t.Fatalf("Unexpected diagnostic: %v", d)
		}
	})

	t.Run("should convert renames with a separator into attached properties", func(t *testing.T) {
		doc, _ := translate(t, `<Window xmlns="http://schemas.microsoft.com/winfx/2006/xaml/presentation">
    <Button ToolTip="Saves the file" />
</Window>
`)
		button := doc.Root.Children[0]
		tip := button.FindProperty("Tip")
		if tip == nil {
			t.Fatal("Expected a ToolTip.Tip property")
		}
		if tip.Kind != xaml.PropertyKindAttachedProperty || tip.AttachedOwnerType != "ToolTip" {
			t.Errorf("Unexpected property shape: %+v", tip)
		}
		if tip.Value != "Saves the file" {
			t.Errorf("Value lost: %q", tip.Value)
		}
	})
}

func TestEventRename(t *testing.T) {
	doc, ctx := translate(t, `<Window xmlns="http://schemas.microsoft.com/winfx/2006/xaml/presentation">
    <Button MouseEnter="OnEnter" PreviewKeyDown="OnKey" Content="OK" />
</Window>
`)
	button := doc.Root.Children[0]

	t.Run("should rename mapped events", func(t *testing.T) {
		if button.FindProperty("MouseEnter") != nil {
			t.Error("Source event still present")
		}
		entered := button.FindProperty("PointerEntered")
		if entered == nil || entered.Value != "OnEnter" {
			t.Fatalf("Unexpected event property: %+v", entered)
		}
	})

	t.Run("should surface mapping notes as info", func(t *testing.T) {
		if button.FindProperty("KeyDown") == nil {
			t.Fatal("Expected a KeyDown event")
		}
		d := findDiagnostic(doc, diagnostics.CodeEventMappingNotFound)
		if d == nil || !strings.Contains(d.Message, "tunneling") {
			t.Fatalf("Unexpected diagnostic: %v", d)
		}
	})

	t.Run("should leave plain content attributes alone", func(t *testing.T) {
		content := button.FindProperty("Content")
		if content == nil || content.Value != "OK" {
			t.Errorf("Content disturbed: %+v", content)
		}
	})

	t.Run("should record renames in the trace", func(t *testing.T) {
		var found bool
		for _, r := range ctx.Trace() {
			if r.RuleName == "event-rename" && strings.Contains(r.Description, "MouseEnter -> PointerEntered") {
				found = true
			}
		}
		if !found {
			t.Errorf("Event rename missing from trace: %+v", ctx.Trace())
		}
	})
}

func TestRelativeSourceReview(t *testing.T) {
	doc, _ := translate(t, `<Window xmlns="http://schemas.microsoft.com/winfx/2006/xaml/presentation">
    <TextBlock Text="{Binding Title, RelativeSource={RelativeSource AncestorType=Window}}" />
</Window>
`)

	t.Run("should flag relative-source bindings", func(t *testing.T) {
		d := findDiagnostic(doc, diagnostics.CodeManualReviewRequired)
		if d == nil || !strings.Contains(d.Message, "RelativeSource") {
			t.Fatalf("Unexpected diagnostic: %v", d)
		}
	})
}
