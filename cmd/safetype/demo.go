package safetype

import (
	"fmt"
	"io"

	"github.com/safetype/safetype/internal/engine"
	"github.com/safetype/safetype/internal/tui"
	"github.com/spf13/cobra"
)

func newDemoCmd(g *globalFlags) *cobra.Command {
	var (
		text      string
		printOnce bool
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Type or paste text and watch detections update live",
		Long: "Open an editor that is rescanned on every change, with one card per detection.\n" +
			"With --print, or when stdout is not a terminal, the cards for --text (or stdin)\n" +
			"are printed once instead.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd, g, nil)
			if err != nil {
				return err
			}
			scanner := engine.New(s.catalog)
			if printOnce || !isTerminal(cmd.OutOrStdout()) {
				if !cmd.Flags().Changed("text") {
					b, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return err
					}
					text = string(b)
				}
				results := scanner.Scan(text)
				_, err := fmt.Fprintln(cmd.OutOrStdout(), tui.RenderResults(results, tui.CardOptions{Width: 80, Selected: -1}))
				return err
			}
			return tui.Run(tui.Options{Text: text, Scanner: scanner, Prefs: tui.LoadPrefs()})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "initial text (default: a sample API key)")
	cmd.Flags().BoolVar(&printOnce, "print", false, "print detection cards once and exit")
	return cmd
}
