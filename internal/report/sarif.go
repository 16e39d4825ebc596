package report

import (
	"encoding/json"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/safetype/safetype/internal/rules"
	"github.com/safetype/safetype/internal/types"
)

// SARIFOptions describes the tool run around the findings.
type SARIFOptions struct {
	ToolVersion string
	// Rules populate tool.driver.rules in order; rules referenced by
	// findings but missing here are appended.
	Rules []rules.Rule
	// Repo, Commit and Branch fill versionControlProvenance when Commit is
	// set.
	Repo, Commit, Branch string
}

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Provenance []sarifVCS     `json:"versionControlProvenance,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name,omitempty"`
	ShortDescription     sarifMessage   `json:"shortDescription"`
	DefaultConfiguration sarifConfig    `json:"defaultConfiguration"`
	Properties           map[string]any `json:"properties,omitempty"`
}

type sarifConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             sarifMessage      `json:"message"`
	Locations           []sarifLoc        `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints"`
	Properties          map[string]any    `json:"properties,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int          `json:"startLine"`
	StartColumn int          `json:"startColumn,omitempty"`
	EndLine     int          `json:"endLine,omitempty"`
	EndColumn   int          `json:"endColumn,omitempty"`
	Snippet     sarifMessage `json:"snippet"`
}

type sarifVCS struct {
	RepositoryURI string `json:"repositoryUri"`
	RevisionID    string `json:"revisionId,omitempty"`
	Branch        string `json:"branch,omitempty"`
}

func sevToLevel(s types.Severity) string {
	switch s {
	case types.SevHigh:
		return "error"
	case types.SevMed:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes findings as SARIF 2.1.0 with the built-in rules.
func WriteSARIF(w io.Writer, findings []types.Finding) error {
	return WriteSARIFWithOptions(w, findings, SARIFOptions{Rules: rules.Default().Rules()})
}

// WriteSARIFWithOptions writes findings as SARIF 2.1.0 to the provided writer.
func WriteSARIFWithOptions(w io.Writer, findings []types.Finding, opts SARIFOptions) error {
	driver := sarifDriver{
		Name:           "safetype",
		Version:        opts.ToolVersion,
		InformationURI: "https://github.com/safetype/safetype",
	}
	index := map[string]int{}
	addRule := func(r sarifRule) {
		if _, ok := index[r.ID]; ok {
			return
		}
		index[r.ID] = len(driver.Rules)
		driver.Rules = append(driver.Rules, r)
	}
	for _, r := range opts.Rules {
		addRule(sarifRule{
			ID:                   r.ID,
			Name:                 string(r.Type),
			ShortDescription:     sarifMessage{Text: r.Message},
			DefaultConfiguration: sarifConfig{Level: sevToLevel(r.Type.Severity())},
			Properties:           map[string]any{"confidence": r.Confidence},
		})
	}

	run := sarifRun{Results: []sarifResult{}}
	for _, f := range findings {
		addRule(sarifRule{
			ID:                   f.Rule,
			Name:                 string(f.Type),
			ShortDescription:     sarifMessage{Text: f.Message},
			DefaultConfiguration: sarifConfig{Level: sevToLevel(f.Severity())},
		})
		endLine, endCol := endPosition(f)
		props := map[string]any{"confidence": f.Confidence, "type": string(f.Type)}
		if f.Commit != "" {
			props["commit"] = f.Commit
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:    f.Rule,
			RuleIndex: index[f.Rule],
			Level:     sevToLevel(f.Severity()),
			Message:   sarifMessage{Text: f.Message},
			Locations: []sarifLoc{{
				PhysicalLocation: sarifPhys{
					ArtifactLocation: sarifArt{URI: f.Path},
					Region: sarifRegion{
						StartLine:   f.Line,
						StartColumn: f.Column,
						EndLine:     endLine,
						EndColumn:   endCol,
						Snippet:     sarifMessage{Text: MaskValue(f.Match)},
					},
				},
			}},
			PartialFingerprints: map[string]string{"safetype/v1": Fingerprint(f)},
			Properties:          props,
		})
	}
	run.Tool = sarifTool{Driver: driver}
	if opts.Commit != "" {
		run.Provenance = []sarifVCS{{
			RepositoryURI: repositoryURI(opts.Repo),
			RevisionID:    opts.Commit,
			Branch:        opts.Branch,
		}}
	}

	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// endPosition returns the 1-based line and exclusive column where the match
// ends.
func endPosition(f types.Finding) (int, int) {
	if f.Line == 0 {
		return 0, 0
	}
	nl := strings.Count(f.Match, "\n")
	if nl == 0 {
		return f.Line, f.Column + utf8.RuneCountInString(f.Match)
	}
	tail := f.Match[strings.LastIndex(f.Match, "\n")+1:]
	return f.Line + nl, utf8.RuneCountInString(tail) + 1
}

func repositoryURI(repo string) string {
	if repo == "" || strings.Contains(repo, "://") {
		return repo
	}
	return "https://github.com/" + repo
}
