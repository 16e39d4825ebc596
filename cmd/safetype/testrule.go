package safetype

import (
	"fmt"
	"io"
	"strings"

	"github.com/safetype/safetype/internal/engine"
	"github.com/safetype/safetype/internal/report"
	"github.com/safetype/safetype/internal/rules"
	"github.com/spf13/cobra"
)

func newTestRuleCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test-rule <id>",
		Short: "Run a single rule against provided text (stdin)",
		Long:  "Run a single rule, built-in or from config, against text read from stdin and print its findings.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, g, nil)
			if err != nil {
				return err
			}
			id := args[0]
			rule, ok := s.catalog.Get(id)
			if !ok {
				return fmt.Errorf("unknown rule id: %s (available: %s)", id, strings.Join(s.catalog.IDs(), ", "))
			}
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			fs := engine.New(rules.MustNew(rule)).Findings(engine.StdinPath, string(data))
			w := cmd.OutOrStdout()
			if g.json {
				return report.WriteJSON(w, fs)
			}
			report.PrintTable(w, fs, report.PrintOptions{NoColor: s.noColor(cmd, g)})
			return nil
		},
	}
	return cmd
}
