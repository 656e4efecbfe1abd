// Package report выводит набор рекомендаций в терминал.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"patternadvisor/internal/recommend"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var hundred = decimal.NewFromInt(100)

// Render пишет set в w в указанном формате.
func Render(w io.Writer, set recommend.Set, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		if set.Patterns == nil {
			set.Patterns = []recommend.Pattern{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	case FormatText, "":
		return renderText(w, set)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Percent форматирует долю как процент с точностью до одного знака.
func Percent(confidence float64) string {
	return decimal.NewFromFloat(confidence).Mul(hundred).Round(1).String() + "%"
}

func renderText(w io.Writer, set recommend.Set) error {
	if len(set.Patterns) == 0 {
		_, err := fmt.Fprintln(w, "No patterns recommended.")
		return err
	}

	var b strings.Builder
	for i, p := range set.Patterns {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, p.Name, Percent(p.Confidence))
		writeSection(&b, "Explanation", p.Explanation)
		writeSection(&b, "Implementation", p.Implementation)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, title, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	fmt.Fprintf(b, "   %s:\n", title)
	for _, line := range strings.Split(body, "\n") {
		fmt.Fprintf(b, "     %s\n", strings.TrimRight(line, " \t"))
	}
}
