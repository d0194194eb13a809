package report

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/storecheck/storecheck/internal/types"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
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
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
	Help             sarifMessage `json:"help,omitempty"`
	Properties       sarifProps   `json:"properties,omitempty"`
}

type sarifProps struct {
	Tags []string `json:"tags,omitempty"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt `json:"artifactLocation"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

func riskToLevel(r types.Risk) string {
	switch r {
	case types.RiskHigh:
		return "error"
	case types.RiskMedium:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes scanner alerts as SARIF 2.1.0. Each ZAP plugin becomes a
// rule; each alert instance becomes a result located at its URL.
func WriteSARIF(w io.Writer, alerts []types.Alert, zapVersion string) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           "OWASP ZAP",
			Version:        zapVersion,
			InformationURI: "https://www.zaproxy.org/",
		}},
		Results: []sarifResult{},
	}

	ruleIndex := map[string]int{}
	ids := make([]string, 0)
	byID := map[string]types.Alert{}
	for _, a := range alerts {
		if _, ok := byID[a.PluginID]; !ok {
			byID[a.PluginID] = a
			ids = append(ids, a.PluginID)
		}
	}
	sort.Strings(ids)
	for i, id := range ids {
		a := byID[id]
		ruleIndex[id] = i
		var tags []string
		if a.CWEID != "" && a.CWEID != "-1" && a.CWEID != "0" {
			tags = append(tags, "CWE-"+a.CWEID)
		}
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{
			ID:               id,
			Name:             a.Name,
			ShortDescription: sarifMessage{Text: a.Name},
			Help:             sarifMessage{Text: a.Solution},
			Properties:       sarifProps{Tags: tags},
		})
	}

	for _, a := range alerts {
		msg := a.Name
		if a.Param != "" {
			msg += " (parameter: " + a.Param + ")"
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:    a.PluginID,
			RuleIndex: ruleIndex[a.PluginID],
			Level:     riskToLevel(a.Risk),
			Message:   sarifMessage{Text: msg},
			Locations: []sarifLoc{{
				PhysicalLocation: sarifPhys{ArtifactLocation: sarifArt{URI: a.URL}},
			}},
		})
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
