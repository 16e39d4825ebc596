package safetype

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/safetype/safetype/internal/diagnostics"
	"github.com/safetype/safetype/internal/engine"
	"github.com/spf13/cobra"
)

func newDiagnosticsCmd(g *globalFlags) *cobra.Command {
	var uri string
	cmd := &cobra.Command{
		Use:   "diagnostics [file]",
		Short: "Emit editor diagnostics (JSON) for a document",
		Long: "Scan one document and print its diagnostics as JSON with zero-based line/character\n" +
			"ranges, warning severity and source SafeType. With no file, or '-', the document is\n" +
			"read from stdin. Documents whose URI uses the git: or output: scheme are not scanned.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, g, nil)
			if err != nil {
				return err
			}
			path := engine.StdinPath
			if len(args) == 1 {
				path = args[0]
			}
			if uri == "" && path != engine.StdinPath {
				uri = diagnostics.FileURI(path)
			}

			doc := diagnostics.Document{URI: uri, Diagnostics: []diagnostics.Diagnostic{}}
			if diagnostics.ShouldScan(uri) {
				text, err := readDocument(cmd, path)
				if err != nil {
					return err
				}
				doc.Diagnostics = diagnostics.FromResults(text, engine.New(s.catalog).Scan(text))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
	cmd.Flags().StringVar(&uri, "uri", "", "document URI to report (default: file:// URI of the path)")
	return cmd
}

func readDocument(cmd *cobra.Command, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == engine.StdinPath {
		b, err = io.ReadAll(cmd.InOrStdin())
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}
