package safetype

import (
	"fmt"

	"github.com/safetype/safetype/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}

	var (
		output string
		force  bool
		global bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented .safetype.yml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := output
			if global {
				p, err := config.GlobalPath()
				if err != nil {
					return err
				}
				path = p
			}
			if err := config.WriteTemplate(path, force); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&output, "output", config.LocalNames[0], "output file path")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&global, "global", false, "write the global config instead")

	cfgCmd.AddCommand(initCmd)
	return cfgCmd
}
