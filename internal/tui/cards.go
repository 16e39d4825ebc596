package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/safetype/safetype/internal/report"
	"github.com/safetype/safetype/internal/types"
)

// EmptyState is shown when a scan produced no results.
const EmptyState = "No sensitive data found."

// CardOptions tune how result cards render.
type CardOptions struct {
	Width int
	// Selected is the index of the highlighted card, or -1.
	Selected int
	// HideMatches masks the raw match on every card.
	HideMatches bool
}

// ResultsHeader returns the heading above the result cards.
func ResultsHeader(n int) string {
	return fmt.Sprintf("Detections (%d)", n)
}

// RenderCard draws one result: type badge, confidence, message and the raw
// match.
func RenderCard(r types.DetectionResult, width int, selected, hide bool) string {
	accent := typeColor(r.Type)
	badge := badgeStyle.Background(accent).Render(string(r.Type))
	conf := confidenceStyle.Render(report.FormatConfidence(r.Confidence) + " confidence")
	header := lipgloss.JoinHorizontal(lipgloss.Top, badge, " ", conf)

	match := r.Match
	if hide {
		match = redactSecret(match)
	}
	body := strings.Join([]string{header, r.Message, matchStyle.Render(match)}, "\n")

	style := cardStyle.BorderForeground(accent)
	if selected {
		style = style.BorderForeground(focusColor).BorderStyle(lipgloss.ThickBorder())
	}
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(body)
}

// RenderResults draws the header followed by one card per result, or the
// empty state.
func RenderResults(results []types.DetectionResult, opts CardOptions) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(ResultsHeader(len(results))))
	b.WriteString("\n")
	if len(results) == 0 {
		b.WriteString(emptyTextStyle.Render(EmptyState))
		return b.String()
	}
	for i, r := range results {
		b.WriteString(RenderCard(r, opts.Width, i == opts.Selected, opts.HideMatches))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// cardOffset returns the line at which card i starts inside RenderResults
// output.
func cardOffset(results []types.DetectionResult, opts CardOptions, i int) int {
	y := 1
	for j := 0; j < i && j < len(results); j++ {
		y += lipgloss.Height(RenderCard(results[j], opts.Width, j == opts.Selected, opts.HideMatches))
	}
	return y
}

