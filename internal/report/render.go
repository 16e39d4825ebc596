package report

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/olekukonko/tablewriter"
	"github.com/safetype/safetype/internal/types"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
	// ShowContext prints each finding's surrounding text under it,
	// syntax-highlighted unless NoColor is set.
	ShowContext bool
	// Baselined counts findings suppressed by the baseline.
	Baselined int
}

// FormatConfidence renders c as a whole percentage, rounding halves up:
// 0.95 -> "95%", 0.8 -> "80%".
func FormatConfidence(c float64) string {
	return fmt.Sprintf("%d%%", int(math.Floor(c*100+0.5)))
}

// PrintTable renders findings as a bordered table.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No secrets found ✅")
	} else {
		fmt.Fprintf(w, "Findings: %d\n", len(findings))
		table := tablewriter.NewWriter(w)
		table.Header("Severity", "Type", "Rule", "Location", "Confidence", "Match")
		rows := make([][]string, 0, len(findings))
		for _, f := range findings {
			rows = append(rows, []string{
				string(f.Severity()),
				string(f.Type),
				f.Rule,
				location(f),
				FormatConfidence(f.Confidence),
				MaskValue(f.Match),
			})
		}
		_ = table.Bulk(rows)
		_ = table.Render()
	}
	printFooter(w, findings, opts)
}

// PrintText renders findings one per line, optionally coloured.
func PrintText(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No secrets found ✅")
	} else {
		maxRule := 8
		for _, f := range findings {
			maxRule = max(maxRule, len(f.Rule))
		}
		fmt.Fprintf(w, "Findings: %d\n", len(findings))
		for _, f := range findings {
			sev := fmt.Sprintf("%-6s", f.Severity())
			if !opts.NoColor {
				sev = colorSeverity(f.Severity())
			}
			fmt.Fprintf(w, "%s %-*s %4s  %s  %s\n", sev, maxRule, f.Rule, FormatConfidence(f.Confidence), location(f), MaskValue(f.Match))
			if opts.ShowContext && f.Context != "" {
				ctx := strings.TrimSpace(f.Context)
				if !opts.NoColor {
					ctx = highlight(ctx, f.Path)
				}
				for _, line := range strings.Split(ctx, "\n") {
					fmt.Fprintf(w, "    │ %s\n", line)
				}
			}
		}
	}
	printFooter(w, findings, opts)
}

func printFooter(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	high, med, low := CountBySeverity(findings)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (high: %d, medium: %d, low: %d)\n", len(findings), high, med, low)
	if opts.Baselined > 0 {
		fmt.Fprintf(w, "Baselined (not shown): %d\n", opts.Baselined)
	}
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	}
}

// CountBySeverity tallies findings per severity.
func CountBySeverity(findings []types.Finding) (high, med, low int) {
	for _, f := range findings {
		switch f.Severity() {
		case types.SevHigh:
			high++
		case types.SevMed:
			med++
		default:
			low++
		}
	}
	return high, med, low
}

func location(f types.Finding) string {
	loc := fmt.Sprintf("%s:%d:%d", f.Path, f.Line, f.Column)
	if f.Commit != "" {
		loc += "@" + shortHash(f.Commit)
	}
	return loc
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

// MaskValue keeps the first and last four characters of long values.
func MaskValue(s string) string {
	if utf8.RuneCountInString(s) <= 8 {
		return "********"
	}
	r := []rune(s)
	return string(r[:4]) + "…" + string(r[len(r)-4:])
}

func colorSeverity(s types.Severity) string {
	switch s {
	case types.SevHigh:
		return "\x1b[31mhigh  \x1b[0m" // red
	case types.SevMed:
		return "\x1b[33mmedium\x1b[0m" // yellow
	default:
		return "\x1b[36mlow   \x1b[0m" // cyan
	}
}

// highlight syntax-colours code for a terminal using the lexer picked by
// filename. Unknown file types are returned unchanged.
func highlight(code, filename string) string {
	lexer := lexers.Match(filepath.Base(filename))
	if lexer == nil {
		return code
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return code
	}
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
