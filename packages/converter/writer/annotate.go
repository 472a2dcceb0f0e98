package writer

import (
	"fmt"
	"strings"

	"xmc-go/packages/converter/diagnostics"
	"xmc-go/packages/converter/xaml"
)

// maxAnnotatedDiagnostics caps each severity section of the report; the
// remainder is summarized in one line.
const maxAnnotatedDiagnostics = 10

// buildAnnotation renders the conversion report comment from the document
// diagnostics. Returns "" when there is nothing to report.
func buildAnnotation(doc *xaml.Document) string {
	errs := doc.Diagnostics.Errors()
	warnings := doc.Diagnostics.Warnings()
	if len(errs) == 0 && len(warnings) == 0 {
		return ""
	}

	rule := strings.Repeat("=", 68)
	var sb strings.Builder
	sb.WriteString("<!--\n")
	sb.WriteString("CONVERSION REPORT\n")
	sb.WriteString(rule + "\n")
	writeSection(&sb, "ERRORS", errs)
	writeSection(&sb, "WARNINGS", warnings)
	sb.WriteString(rule + "\n")
	sb.WriteString("-->")
	return sb.String()
}

func writeSection(sb *strings.Builder, title string, list []*diagnostics.Diagnostic) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s (%d):\n", title, len(list))
	for i, d := range list {
		if i == maxAnnotatedDiagnostics {
			fmt.Fprintf(sb, "  ... %d more\n", len(list)-maxAnnotatedDiagnostics)
			break
		}
		if d.Line > 0 {
			fmt.Fprintf(sb, "  [%s] line %d: %s\n", d.Code, d.Line, d.Message)
		} else {
			fmt.Fprintf(sb, "  [%s] %s\n", d.Code, d.Message)
		}
	}
}
