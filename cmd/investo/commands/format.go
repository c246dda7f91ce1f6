package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// every command prints through these helpers
// ═══════════════════════════════════════════════════════════

const lineWidth = 59

// PrintHeader prints a titled double-line header
func PrintHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	PrintDoubleSeparator(w)
	fmt.Fprintf(w, "  %s\n", title)
	PrintSeparator(w)
}

// PrintSeparator prints a visual separator
func PrintSeparator(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("─", lineWidth))
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("═", lineWidth))
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintf(w, "⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(w io.Writer, message string) {
	fmt.Fprintf(w, "ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(w io.Writer, columns []string, widths []int) {
	PrintTableRow(w, columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(w, strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(w io.Writer, values []string, widths []int) {
	for i, val := range values {
		if i < len(values)-1 {
			fmt.Fprintf(w, "%-*s  ", widths[i], val)
		} else {
			fmt.Fprint(w, val)
		}
	}
	fmt.Fprintln(w)
}

// PrintList prints a bulleted list
func PrintList(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(w, "   • %s\n", item)
	}
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "   %-*s : %s\n", keyWidth, key, value)
}

// PrintJSON writes v as indented JSON
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
