package safetype

import (
	"fmt"

	"github.com/safetype/safetype/internal/ignore"
	"github.com/spf13/cobra"
)

func newIgnoreCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ignore <pattern>...",
		Short: "Add paths or globs to .safetypeignore",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, g, nil)
			if err != nil {
				return err
			}
			added, err := ignore.Append(s.root, args...)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(added) == 0 {
				fmt.Fprintln(w, "Already ignored.")
				return nil
			}
			for _, p := range added {
				fmt.Fprintf(w, "Added %s to %s\n", p, ignore.FileName)
			}
			return nil
		},
	}
}
