package safetype

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/safetype/safetype/internal/report"
	"github.com/spf13/cobra"
)

type ruleInfo struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	Severity   string   `json:"severity"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords,omitempty"`
	Pattern    string   `json:"pattern"`
	Message    string   `json:"message"`
}

func newRulesCmd(g *globalFlags) *cobra.Command {
	var idsOnly bool
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available rules, including custom rules from config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd, g, nil)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if idsOnly {
				for _, id := range s.catalog.IDs() {
					fmt.Fprintln(w, id)
				}
				return nil
			}
			var infos []ruleInfo
			for _, r := range s.catalog.Rules() {
				infos = append(infos, ruleInfo{
					ID:         r.ID,
					Type:       string(r.Type),
					Severity:   string(r.Type.Severity()),
					Confidence: r.Confidence,
					Keywords:   r.Keywords,
					Pattern:    r.Pattern.String(),
					Message:    r.Message,
				})
			}
			if g.json {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			table := tablewriter.NewWriter(w)
			table.Header("ID", "Type", "Severity", "Base", "Keywords", "Message")
			rows := make([][]string, 0, len(infos))
			for _, in := range infos {
				rows = append(rows, []string{
					in.ID, in.Type, in.Severity, report.FormatConfidence(in.Confidence),
					strings.Join(in.Keywords, ","), in.Message,
				})
			}
			if err := table.Bulk(rows); err != nil {
				return err
			}
			return table.Render()
		},
	}
	cmd.Flags().BoolVar(&idsOnly, "ids", false, "print rule IDs only")
	return cmd
}
