package core

import (
	"encoding/json"
	"io"
)

// MarshalResults pretty-prints detection results as JSON. Nil encodes as [].
func MarshalResults(w io.Writer, results []DetectionResult) error {
	if results == nil {
		results = []DetectionResult{}
	}
	return encode(w, results)
}

// MarshalFindings pretty-prints findings as JSON for humans or pipelines.
func MarshalFindings(w io.Writer, findings []Finding) error {
	if findings == nil {
		findings = []Finding{}
	}
	return encode(w, findings)
}

// UnmarshalFindings decodes findings JSON, useful for ingestion tests.
func UnmarshalFindings(r io.Reader) ([]Finding, error) {
	var fs []Finding
	if err := json.NewDecoder(r).Decode(&fs); err != nil {
		return nil, err
	}
	return fs, nil
}

// UnmarshalResults decodes a JSON array of detection results.
func UnmarshalResults(r io.Reader) ([]DetectionResult, error) {
	var rs []DetectionResult
	if err := json.NewDecoder(r).Decode(&rs); err != nil {
		return nil, err
	}
	return rs, nil
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
