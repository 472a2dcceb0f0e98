package mappings

// Namespace URIs of the built-in translation direction.
const (
	WpfPresentationURI = "http://schemas.microsoft.com/winfx/2006/xaml/presentation"
	AvaloniaURI        = "https://github.com/avaloniaui"
)

// WpfToAvalonia returns the built-in WPF to Avalonia mapping table. External
// mapping files layer on top of it, so project-specific entries can extend
// or override any of these.
func WpfToAvalonia() *StaticRepository {
	r := NewStaticRepository()

	r.AddNamespace(&NamespaceMapping{
		SourceURI: WpfPresentationURI,
		TargetURI: AvaloniaURI,
	})

	for _, m := range []*TypeMapping{
		{SourceType: "Window", TargetType: "Window"},
		{SourceType: "UserControl", TargetType: "UserControl"},
		{SourceType: "Page", TargetType: "UserControl", Note: "no page navigation model", RequiresManualReview: true},
		{SourceType: "StackPanel", TargetType: "StackPanel"},
		{SourceType: "DockPanel", TargetType: "DockPanel"},
		{SourceType: "WrapPanel", TargetType: "WrapPanel"},
		{SourceType: "Grid", TargetType: "Grid"},
		{SourceType: "Canvas", TargetType: "Canvas"},
		{SourceType: "Border", TargetType: "Border"},
		{SourceType: "ScrollViewer", TargetType: "ScrollViewer"},
		{SourceType: "TextBlock", TargetType: "TextBlock"},
		{SourceType: "TextBox", TargetType: "TextBox"},
		{SourceType: "Label", TargetType: "Label"},
		{SourceType: "Button", TargetType: "Button"},
		{SourceType: "CheckBox", TargetType: "CheckBox"},
		{SourceType: "RadioButton", TargetType: "RadioButton"},
		{SourceType: "ComboBox", TargetType: "ComboBox"},
		{SourceType: "ComboBoxItem", TargetType: "ComboBoxItem"},
		{SourceType: "ListBox", TargetType: "ListBox"},
		{SourceType: "ListBoxItem", TargetType: "ListBoxItem"},
		{SourceType: "ListView", TargetType: "ListBox", Note: "view/column model differs", RequiresManualReview: true},
		{SourceType: "DataGrid", TargetType: "DataGrid", Note: "needs Avalonia.Controls.DataGrid package"},
		{SourceType: "TreeView", TargetType: "TreeView"},
		{SourceType: "TreeViewItem", TargetType: "TreeViewItem"},
		{SourceType: "TabControl", TargetType: "TabControl"},
		{SourceType: "TabItem", TargetType: "TabItem"},
		{SourceType: "Menu", TargetType: "Menu"},
		{SourceType: "MenuItem", TargetType: "MenuItem"},
		{SourceType: "ToolTip", TargetType: "ToolTip"},
		{SourceType: "Image", TargetType: "Image"},
		{SourceType: "Slider", TargetType: "Slider"},
		{SourceType: "ProgressBar", TargetType: "ProgressBar"},
		{SourceType: "Separator", TargetType: "Separator"},
		{SourceType: "GroupBox", TargetType: "HeaderedContentControl", Note: "no direct GroupBox control", RequiresManualReview: true},
		{SourceType: "Expander", TargetType: "Expander"},
		{SourceType: "ItemsControl", TargetType: "ItemsControl"},
		{SourceType: "ContentControl", TargetType: "ContentControl"},
		{SourceType: "Style", TargetType: "Style", Note: "selector syntax replaces TargetType", RequiresManualReview: true},
		{SourceType: "Setter", TargetType: "Setter"},
		{SourceType: "DataTemplate", TargetType: "DataTemplate"},
		{SourceType: "ControlTemplate", TargetType: "ControlTemplate"},
	} {
		r.AddType(m)
	}

	for _, m := range []*PropertyMapping{
		{SourceProperty: "Visibility", TargetProperty: "IsVisible",
			ValueConversion: ConverterVisibilityToBoolean, TypeChanged: true,
			Note: "three-state visibility becomes boolean"},
		{SourceProperty: "ToolTip", TargetProperty: "ToolTip.Tip"},
		{SourceOwner: "TextBlock", SourceProperty: "TextTrimming", TargetProperty: "TextTrimming"},
		{SourceOwner: "ListBox", SourceProperty: "SelectionMode", TargetProperty: "SelectionMode"},
		{SourceProperty: "Margin", TargetProperty: "Margin"},
		{SourceProperty: "SnapsToDevicePixels", TargetProperty: "UseLayoutRounding",
			Note: "nearest equivalent", RequiresManualReview: true},
		{SourceOwner: "Button", SourceProperty: "IsDefault", TargetProperty: "IsDefault"},
		{SourceOwner: "Window", SourceProperty: "WindowStartupLocation", TargetProperty: "WindowStartupLocation"},
		{SourceOwner: "TextBox", SourceProperty: "TextWrapping", TargetProperty: "TextWrapping"},
	} {
		r.AddProperty(m)
	}

	for _, m := range []*EventMapping{
		{SourceEvent: "Click", TargetEvent: "Click"},
		{SourceEvent: "Loaded", TargetEvent: "Loaded",
			Note: "fires under a different attachment lifecycle"},
		{SourceEvent: "MouseEnter", TargetEvent: "PointerEntered"},
		{SourceEvent: "MouseLeave", TargetEvent: "PointerExited"},
		{SourceEvent: "MouseDown", TargetEvent: "PointerPressed"},
		{SourceEvent: "MouseUp", TargetEvent: "PointerReleased"},
		{SourceEvent: "MouseMove", TargetEvent: "PointerMoved"},
		{SourceEvent: "PreviewKeyDown", TargetEvent: "KeyDown",
			Note: "tunneling routes differ"},
		{SourceEvent: "TextChanged", TargetEvent: "TextChanged"},
		{SourceEvent: "SelectionChanged", TargetEvent: "SelectionChanged"},
	} {
		r.AddEvent(m)
	}

	return r
}
