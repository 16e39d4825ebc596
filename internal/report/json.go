package report

import (
	"encoding/json"
	"io"

	"github.com/safetype/safetype/internal/types"
)

// WriteJSON writes findings as an indented JSON array; no findings is [].
func WriteJSON(w io.Writer, findings []types.Finding) error {
	if findings == nil {
		findings = []types.Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}
