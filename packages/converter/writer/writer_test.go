package writer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"xmc-go/packages/converter/diagnostics"
	"xmc-go/packages/converter/xaml"
)

func parse(t *testing.T, source string) *xaml.Document {
	t.Helper()
	result := xaml.NewHybridParser(nil, nil).Parse(source, "test.xaml")
	if result.Document == nil {
		t.Fatal("Expected a document")
	}
	return result.Document
}

const roundTripSource = `<?xml version="1.0" encoding="utf-8"?>
<Window xmlns="http://schemas.microsoft.com/winfx/2006/xaml/presentation"
        xmlns:x="http://schemas.microsoft.com/winfx/2006/xaml"
        x:Class="Demo.MainWindow"
        Title="Demo &amp; Friends">
    <Window.Resources>
        <Style x:Key="Primary" TargetType="Button" />
        <Style x:Key="Accent" TargetType="Button" />
    </Window.Resources>
    <!-- main layout -->
    <StackPanel Orientation="Vertical">
        <TextBlock Text="{Binding UserName, Mode=TwoWay}">Hello</TextBlock>
        <Button x:Name="ok" Content="OK" Grid.Row="1" />
    </StackPanel>
</Window>
`

func TestSerializeRoundTrip(t *testing.T) {
	t.Run("should reproduce an untransformed document byte for byte", func(t *testing.T) {
		doc := parse(t, roundTripSource)
		got, err := Serialize(doc)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if diff := cmp.Diff(roundTripSource, got); diff != "" {
			t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should survive repeated serialization", func(t *testing.T) {
		doc := parse(t, roundTripSource)
		first, err := Serialize(doc)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		second, err := Serialize(doc)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if first != second {
			t.Error("Serialization is not stable")
		}
	})

	t.Run("should preserve entity escapes untouched", func(t *testing.T) {
		doc := parse(t, roundTripSource)
		got, _ := Serialize(doc)
		if !strings.Contains(got, `Title="Demo &amp; Friends"`) {
			t.Errorf("Entity escape lost:\n%s", got)
		}
	})

	t.Run("should keep a tight self-closing tag tight", func(t *testing.T) {
		source := "<Grid>\n    <Button/>\n    <TextBlock />\n</Grid>\n"
		doc := parse(t, source)
		got, err := Serialize(doc)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if diff := cmp.Diff(source, got); diff != "" {
			t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should round-trip multi-line attribute layout", func(t *testing.T) {
		doc := parse(t, roundTripSource)
		got, _ := Serialize(doc)
		if !strings.Contains(got, "\n        xmlns:x=") {
			t.Errorf("Attribute continuation lines lost:\n%s", got)
		}
	})
}

func TestSerializeDirectiveOrder(t *testing.T) {
	t.Run("should write directives before ordinary attributes", func(t *testing.T) {
		doc := parse(t, `<Window xmlns:x="http://schemas.microsoft.com/winfx/2006/xaml" Title="Demo" x:Class="Demo.Main" />`)
		got, err := Serialize(doc)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		classAt := strings.Index(got, "x:Class")
		titleAt := strings.Index(got, "Title")
		if classAt < 0 || titleAt < 0 || classAt > titleAt {
			t.Errorf("Unexpected attribute order:\n%s", got)
		}
	})

	t.Run("should use the scoped prefix for directives", func(t *testing.T) {
		doc := parse(t, `<Window xmlns:y="http://schemas.microsoft.com/winfx/2006/xaml" y:Class="Demo.Main" />`)
		got, _ := Serialize(doc)
		if !strings.Contains(got, `y:Class="Demo.Main"`) {
			t.Errorf("Directive prefix lost:\n%s", got)
		}
	})
}

func TestSerializeGeneratedFormatting(t *testing.T) {
	source := `<Window Title="Demo">
    <StackPanel>
        <Button Content="OK" />
    </StackPanel>
</Window>
`

	t.Run("should generate indentation when preservation is off", func(t *testing.T) {
		doc := parse(t, source)
		w := NewXamlWriter(Options{PreserveFormatting: false, IndentSize: 2, EmitComments: true})
		got, err := w.Serialize(doc)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := `<Window Title="Demo">
  <StackPanel>
    <Button Content="OK" />
  </StackPanel>
</Window>
`
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Output mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should fall back to inner whitespace for a replacement first child", func(t *testing.T) {
		doc := parse(t, "<Grid>\n    <Button />\n</Grid>\n")
		doc.Root.RemoveChild(doc.Root.Children[0])
		replacement := xaml.NewElement("TextBlock")
		replacement.IsSelfClosing = true
		doc.Root.AddChild(replacement)
		got, _ := Serialize(doc)
		if !strings.Contains(got, "<Grid>\n    <TextBlock />") {
			t.Errorf("Inner whitespace not replayed:\n%s", got)
		}
	})

	t.Run("should self-close empty elements when preservation is off", func(t *testing.T) {
		doc := parse(t, `<Window><Border></Border></Window>`)
		w := NewXamlWriter(Options{PreserveFormatting: false, IndentSize: 4})
		got, _ := w.Serialize(doc)
		if !strings.Contains(got, "<Border />") {
			t.Errorf("Empty element not self-closed:\n%s", got)
		}
	})
}

func TestSerializeSortAttributes(t *testing.T) {
	t.Run("should order ordinary attributes alphabetically", func(t *testing.T) {
		doc := parse(t, `<Button Width="80" Content="OK" Height="24" />`)
		w := NewXamlWriter(Options{PreserveFormatting: true, SortAttributes: true, EmitComments: true})
		got, err := w.Serialize(doc)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := `<Button Content="OK" Height="24" Width="80" />` + "\n"
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Output mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestSerializeTargetNamespace(t *testing.T) {
	t.Run("should override the default namespace on the root", func(t *testing.T) {
		doc := parse(t, `<Window xmlns="urn:old" xmlns:x="http://schemas.microsoft.com/winfx/2006/xaml" />`)
		w := NewXamlWriter(Options{PreserveFormatting: true, TargetNamespace: "urn:new", EmitComments: true})
		got, _ := w.Serialize(doc)
		if !strings.Contains(got, `xmlns="urn:new"`) {
			t.Errorf("Default namespace not overridden:\n%s", got)
		}
		if !strings.Contains(got, `xmlns:x="http://schemas.microsoft.com/winfx/2006/xaml"`) {
			t.Errorf("Prefixed namespace disturbed:\n%s", got)
		}
	})

	t.Run("should declare the directive namespace even when the source omits it", func(t *testing.T) {
		doc := parse(t, `<Window xmlns="urn:old" Title="Demo" />`)
		w := NewXamlWriter(Options{PreserveFormatting: true, TargetNamespace: "urn:new", EmitComments: true})
		got, _ := w.Serialize(doc)
		if !strings.Contains(got, `xmlns:x="`+xaml.XamlDirectiveNamespace+`"`) {
			t.Errorf("Directive namespace missing:\n%s", got)
		}
	})

	t.Run("should honor the element override when no option is set", func(t *testing.T) {
		doc := parse(t, `<Window xmlns="urn:old" />`)
		doc.Root.NamespaceOverride = "urn:override"
		got, _ := Serialize(doc)
		if !strings.Contains(got, `xmlns="urn:override"`) {
			t.Errorf("Element override ignored:\n%s", got)
		}
	})

	t.Run("should prefer the option over the element override", func(t *testing.T) {
		doc := parse(t, `<Window xmlns="urn:old" />`)
		doc.Root.NamespaceOverride = "urn:override"
		w := NewXamlWriter(Options{PreserveFormatting: true, TargetNamespace: "urn:new", EmitComments: true})
		got, _ := w.Serialize(doc)
		if !strings.Contains(got, `xmlns="urn:new"`) {
			t.Errorf("Option not preferred:\n%s", got)
		}
	})
}

func TestSerializeComments(t *testing.T) {
	source := `<Window>
    <!-- keep me -->
    <Button Content="OK" />
</Window>
`

	t.Run("should emit comments in place", func(t *testing.T) {
		doc := parse(t, source)
		got, _ := Serialize(doc)
		if !strings.Contains(got, "<!-- keep me -->") {
			t.Errorf("Comment lost:\n%s", got)
		}
	})

	t.Run("should keep a comment between siblings in place", func(t *testing.T) {
		middle := "<Grid>\n    <Button />\n    <!-- middle -->\n    <TextBlock />\n</Grid>\n"
		doc := parse(t, middle)
		got, err := Serialize(doc)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if diff := cmp.Diff(middle, got); diff != "" {
			t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should keep a comment after the last sibling in place", func(t *testing.T) {
		trailing := "<Grid>\n    <Button />\n    <!-- after -->\n</Grid>\n"
		doc := parse(t, trailing)
		got, err := Serialize(doc)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if diff := cmp.Diff(trailing, got); diff != "" {
			t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should drop comments when disabled", func(t *testing.T) {
		doc := parse(t, source)
		w := NewXamlWriter(Options{PreserveFormatting: true, EmitComments: false})
		got, _ := w.Serialize(doc)
		if strings.Contains(got, "<!--") {
			t.Errorf("Comment leaked:\n%s", got)
		}
	})
}

func TestSerializeAnnotate(t *testing.T) {
	t.Run("should append the conversion report", func(t *testing.T) {
		doc := parse(t, `<Window Title="Demo" />`)
		doc.Diagnostics.AddWarning(diagnostics.CodeManualReviewRequired, "check the style", "test.xaml", 3, 1)
		w := NewXamlWriter(Options{PreserveFormatting: true, EmitComments: true, Annotate: true})
		got, err := w.Serialize(doc)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !strings.Contains(got, "CONVERSION REPORT") {
			t.Fatalf("Report banner missing:\n%s", got)
		}
		if !strings.Contains(got, "WARNINGS (1):") || !strings.Contains(got, "[XMC0104] line 3: check the style") {
			t.Errorf("Unexpected report body:\n%s", got)
		}
		if !strings.Contains(got, "<!--\nCONVERSION REPORT\n"+strings.Repeat("=", 68)+"\n") {
			t.Errorf("Unexpected report header:\n%s", got)
		}
		if strings.Index(got, "CONVERSION REPORT") < strings.Index(got, "<Window") {
			t.Error("Report not appended after the document")
		}
	})

	t.Run("should cap each report section", func(t *testing.T) {
		doc := parse(t, `<Window Title="Demo" />`)
		for i := 0; i < 12; i++ {
			doc.Diagnostics.AddWarning(diagnostics.CodeTypeMappingNotFound, "missing", "test.xaml", i+1, 1)
		}
		w := NewXamlWriter(Options{PreserveFormatting: true, EmitComments: true, Annotate: true})
		got, _ := w.Serialize(doc)
		if !strings.Contains(got, "... 2 more") {
			t.Errorf("Section cap missing:\n%s", got)
		}
	})

	t.Run("should omit the report when there is nothing to say", func(t *testing.T) {
		doc := parse(t, `<Window Title="Demo" />`)
		w := NewXamlWriter(Options{PreserveFormatting: true, EmitComments: true, Annotate: true})
		got, _ := w.Serialize(doc)
		if strings.Contains(got, "CONVERSION REPORT") {
			t.Errorf("Unexpected report:\n%s", got)
		}
	})
}

func TestSerializeErrors(t *testing.T) {
	t.Run("should reject a nil document", func(t *testing.T) {
		if _, err := Serialize(nil); err != ErrNoDocument {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("should reject a document without a root", func(t *testing.T) {
		doc := xaml.NewDocument("test.xaml")
		_, err := Serialize(doc)
		if err != ErrNoDocument {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(doc.Diagnostics.Errors()) == 0 {
			t.Error("Expected a serialization diagnostic")
		}
	})
}
