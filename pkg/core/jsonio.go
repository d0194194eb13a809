package core

import (
	"encoding/json"
	"io"
)

// MarshalResults pretty-prints case results as JSON for humans or pipelines.
func MarshalResults(w io.Writer, results []CaseResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// UnmarshalResults decodes case results JSON, useful for ingestion tests.
func UnmarshalResults(r io.Reader) ([]CaseResult, error) {
	var rs []CaseResult
	if err := json.NewDecoder(r).Decode(&rs); err != nil {
		return nil, err
	}
	return rs, nil
}
