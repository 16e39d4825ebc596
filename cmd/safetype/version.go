package safetype

import (
	"fmt"

	"github.com/safetype/safetype/internal/update"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "safetype %s\n", version)
			if !check {
				return nil
			}
			latest, newer, err := update.Check(version, false)
			if err != nil {
				return err
			}
			switch {
			case newer:
				fmt.Fprintf(w, "new version available: v%s\n", latest)
			case latest != "":
				fmt.Fprintln(w, "up to date")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update safetype to the latest release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := selfUpdate()
			if err != nil {
				return fmt.Errorf("self-update: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated to v%s\n", v)
			return nil
		},
	}
}
