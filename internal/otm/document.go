// Package otm holds the Open Threat Model document aggregate and the
// materializer that builds one from a derived entity catalog.
package otm

import (
	"encoding/json"
	"fmt"
)

// Version is the OTM wire format version emitted by this tool.
const Version = "0.2.0"

// Document is the root OTM aggregate. All cross-references between entities
// are by identifier in a materialized document.
type Document struct {
	OTMVersion      string           `json:"otmVersion"`
	Project         Project          `json:"project"`
	Representations []Representation `json:"representations,omitempty"`
	TrustZones      []TrustZone      `json:"trustZones"`
	Components      []Component      `json:"components"`
	DataFlows       []DataFlow       `json:"dataflows"`
	Threats         []Threat         `json:"threats"`
	Mitigations     []Mitigation     `json:"mitigations"`
}

type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Owner       string   `json:"owner,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Representation describes a diagram attached to the project. The platform
// places canvas nodes against it; the pipeline only emits one placeholder.
type Representation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size *Size  `json:"size,omitempty"`
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type TrustZone struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Type string         `json:"type,omitempty"`
	Risk *TrustZoneRisk `json:"risk,omitempty"`
}

type TrustZoneRisk struct {
	TrustRating int `json:"trustRating"`
}

type Component struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Parent      *Parent  `json:"parent,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Parent links a component to its enclosing trust zone.
type Parent struct {
	TrustZone string `json:"trustZone"`
}

type DataFlow struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type Threat struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Categories  []string    `json:"categories,omitempty"`
	Risk        *ThreatRisk `json:"risk,omitempty"`
	Targets     []string    `json:"targets,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
}

type ThreatRisk struct {
	Likelihood *RiskValue `json:"likelihood,omitempty"`
	Impact     *RiskValue `json:"impact,omitempty"`
}

type Mitigation struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	RiskReduction int         `json:"riskReduction"`
	ReducesRisk   []ThreatRef `json:"reducesRisk,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
}

// ThreatRef links a mitigation to the threat whose risk it reduces.
type ThreatRef struct {
	Threat string `json:"threat"`
}

// RiskValue is a risk score on the platform's 0-100 scale. JSON input may
// carry either a number or an ordinal label such as "High"; a label keeps its
// raw form until the repair pass converts it through the severity table.
type RiskValue struct {
	Score int
	Label string
	Valid bool
}

func (v RiskValue) MarshalJSON() ([]byte, error) {
	if !v.Valid && v.Label != "" {
		return json.Marshal(v.Label)
	}
	return json.Marshal(v.Score)
}

func (v *RiskValue) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		v.Score = int(n)
		v.Label = ""
		v.Valid = true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("risk value must be a number or a severity label: %s", data)
	}
	v.Label = s
	v.Valid = false
	return nil
}

// NewScore returns a RiskValue holding a resolved numeric score.
func NewScore(score int) *RiskValue {
	return &RiskValue{Score: score, Valid: true}
}

// Load parses an OTM document from JSON bytes and normalizes its entity
// slices so downstream passes never see nil arrays.
func Load(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse OTM document: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

// Normalize guarantees the entity arrays are emitted even when empty.
func (d *Document) Normalize() {
	if d.TrustZones == nil {
		d.TrustZones = []TrustZone{}
	}
	if d.Components == nil {
		d.Components = []Component{}
	}
	if d.DataFlows == nil {
		d.DataFlows = []DataFlow{}
	}
	if d.Threats == nil {
		d.Threats = []Threat{}
	}
	if d.Mitigations == nil {
		d.Mitigations = []Mitigation{}
	}
}

// ComponentIDsByName returns a lookup from component name to identifier.
// Duplicate names keep the first occurrence.
func (d *Document) ComponentIDsByName() map[string]string {
	lookup := make(map[string]string, len(d.Components))
	for _, c := range d.Components {
		if _, ok := lookup[c.Name]; !ok {
			lookup[c.Name] = c.ID
		}
	}
	return lookup
}
