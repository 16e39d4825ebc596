package safetype

import (
	"fmt"

	"github.com/safetype/safetype/internal/engine"
	"github.com/safetype/safetype/internal/report"
	"github.com/spf13/cobra"
)

func newBaselineCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	var sf scanFlags
	update := &cobra.Command{
		Use:   "update [paths...]",
		Short: "Update baseline from current scan",
		Long:  "Scan like `safetype scan` and record every finding in the baseline so later scans only report new ones.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, g, args)
			if err != nil {
				return err
			}
			defer func() { _ = s.log.Sync() }()
			res, err := engine.ScanFiles(cmd.Context(), sf.engineConfig(cmd, g, s))
			if err != nil {
				return err
			}
			path := sf.baselinePath(s)
			if err := report.SaveBaseline(path, res.Findings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated: %d findings in %s\n", len(res.Findings), path)
			return nil
		},
	}
	sf.register(update)

	cmd.AddCommand(update)
	return cmd
}
