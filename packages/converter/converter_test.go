package converter

import (
	"strings"
	"testing"

	"xmc-go/packages/converter/mappings"
	"xmc-go/packages/converter/writer"
)

const mainWindowSource = `<?xml version="1.0" encoding="utf-8"?>
<Window xmlns="http://schemas.microsoft.com/winfx/2006/xaml/presentation"
        xmlns:x="http://schemas.microsoft.com/winfx/2006/xaml"
        x:Class="Demo.MainWindow"
        Title="Demo">
    <StackPanel>
        <Button Content="Save" ToolTip="Saves the file" Visibility="Collapsed" MouseEnter="OnEnter" />
        <ListView x:Name="items" />
    </StackPanel>
</Window>
`

func TestConvert(t *testing.T) {
	result, err := New(Config{}).Convert(mainWindowSource, "MainWindow.xaml")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	t.Run("should rewrite the framework namespace", func(t *testing.T) {
		if !strings.Contains(result.Output, `xmlns="https://github.com/avaloniaui"`) {
			t.Errorf("Namespace not rewritten:\n%s", result.Output)
		}
		if strings.Contains(result.Output, "schemas.microsoft.com/winfx/2006/xaml/presentation") {
			t.Errorf("Source namespace survived:\n%s", result.Output)
		}
	})

	t.Run("should keep the directive namespace", func(t *testing.T) {
		if !strings.Contains(result.Output, `xmlns:x="http://schemas.microsoft.com/winfx/2006/xaml"`) {
			t.Errorf("Directive namespace disturbed:\n%s", result.Output)
		}
	})

	t.Run("should translate visibility to a boolean property", func(t *testing.T) {
		if !strings.Contains(result.Output, `IsVisible="False"`) {
			t.Errorf("Visibility not converted:\n%s", result.Output)
		}
		if strings.Contains(result.Output, "Visibility") {
			t.Errorf("Source property survived:\n%s", result.Output)
		}
	})

	t.Run("should translate the tooltip into its attached form", func(t *testing.T) {
		if !strings.Contains(result.Output, `ToolTip.Tip="Saves the file"`) {
			t.Errorf("ToolTip not converted:\n%s", result.Output)
		}
	})

	t.Run("should rename mouse events to pointer events", func(t *testing.T) {
		if !strings.Contains(result.Output, `PointerEntered="OnEnter"`) {
			t.Errorf("Event not renamed:\n%s", result.Output)
		}
	})

	t.Run("should rename near-equivalent types and keep their directives", func(t *testing.T) {
		if !strings.Contains(result.Output, `<ListBox x:Name="items" />`) {
			t.Errorf("ListView not renamed:\n%s", result.Output)
		}
	})

	t.Run("should preserve the source layout", func(t *testing.T) {
		if !strings.HasPrefix(result.Output, `<?xml version="1.0" encoding="utf-8"?>`) {
			t.Errorf("Prolog lost:\n%s", result.Output)
		}
		if !strings.Contains(result.Output, "\n    <StackPanel>") {
			t.Errorf("Indentation lost:\n%s", result.Output)
		}
	})

	t.Run("should trace every applied transformation", func(t *testing.T) {
		if len(result.Trace) == 0 {
			t.Fatal("Expected a transformation trace")
		}
		rulesSeen := map[string]bool{}
		for _, r := range result.Trace {
			rulesSeen[r.RuleName] = true
		}
		for _, name := range []string{"namespace-rewrite", "type-rename", "property-rename", "event-rename"} {
			if !rulesSeen[name] {
				t.Errorf("Rule %s missing from trace: %+v", name, result.Trace)
			}
		}
	})
}

func TestConvertIdentity(t *testing.T) {
	t.Run("should round-trip unmapped markup untouched", func(t *testing.T) {
		source := `<Window Title="Plain">
    <StackPanel>
        <Button Content="OK" />
    </StackPanel>
</Window>
`
		conv := New(Config{Repository: mappings.NewStaticRepository()})
		result, err := conv.Convert(source, "plain.xaml")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if result.Output != source {
			t.Errorf("Identity conversion changed the document:\ngot:\n%s\nwant:\n%s", result.Output, source)
		}
	})
}

func TestConvertDeterminism(t *testing.T) {
	t.Run("should produce identical output from two fresh parses", func(t *testing.T) {
		first, err := New(Config{}).Convert(mainWindowSource, "MainWindow.xaml")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		second, err := New(Config{}).Convert(mainWindowSource, "MainWindow.xaml")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if first.Output != second.Output {
			t.Errorf("Outputs differ between runs:\nfirst:\n%s\nsecond:\n%s", first.Output, second.Output)
		}
	})
}

func TestConvertFailures(t *testing.T) {
	t.Run("should fail on an unterminated tag", func(t *testing.T) {
		_, err := New(Config{}).Convert("<Window>\n  <Button\n</Window>", "broken.xaml")
		if err == nil {
			t.Fatal("Expected an error")
		}
		if !strings.Contains(err.Error(), "broken.xaml") {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("should degrade but still convert when the semantic pass fails", func(t *testing.T) {
		result, err := New(Config{}).Convert(`<Window xmlns="http://schemas.microsoft.com/winfx/2006/xaml/presentation">
    <TextBlock>Fish &undefined; Chips</TextBlock>
</Window>
`, "degraded.xaml")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !strings.Contains(result.Output, `xmlns="https://github.com/avaloniaui"`) {
			t.Errorf("Degraded document not transformed:\n%s", result.Output)
		}
		if !strings.Contains(result.Output, "&undefined;") {
			t.Errorf("Raw text disturbed:\n%s", result.Output)
		}
	})
}

func TestConvertAnnotated(t *testing.T) {
	t.Run("should embed the conversion report when requested", func(t *testing.T) {
		opts := writer.DefaultOptions()
		opts.Annotate = true
		result, err := New(Config{Writer: opts}).Convert(mainWindowSource, "MainWindow.xaml")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !strings.Contains(result.Output, "CONVERSION REPORT") {
			t.Errorf("Report missing:\n%s", result.Output)
		}
	})
}
