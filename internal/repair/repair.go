// Package repair fixes OTM documents that failed schema validation. The rule
// table is deterministic and runs once per validation failure; a document the
// rules cannot fix is handed back with its remaining violations untouched.
// Rules only correct fields, they never remove or rename entities.
package repair

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/geoffwhittington/devici-mcp/internal/otm"
)

type rule func(doc *otm.Document) []string

// Rules run in a fixed order. Identifiers come first so the parent and
// endpoint rules resolve references against assigned identifiers.
var rules = []rule{
	assignMissingIdentifiers,
	assignComponentParents,
	resolveDataFlowEndpoints,
	defaultThreatImpact,
	defaultThreatLikelihood,
}

// Apply runs the repair rule table once against the document and returns a
// description of every fix made. A document that needs nothing comes back
// unchanged with zero fixes.
func Apply(doc *otm.Document) []string {
	var fixes []string
	for _, applyRule := range rules {
		fixes = append(fixes, applyRule(doc)...)
	}
	return fixes
}

func assignMissingIdentifiers(doc *otm.Document) []string {
	var fixes []string
	if doc.Project.ID == "" {
		doc.Project.ID = uuid.NewString()
		fixes = append(fixes, fmt.Sprintf("assigned identifier to project %q", doc.Project.Name))
	}
	for i := range doc.Representations {
		if doc.Representations[i].ID == "" {
			doc.Representations[i].ID = uuid.NewString()
			fixes = append(fixes, fmt.Sprintf("assigned identifier to representation %q", doc.Representations[i].Name))
		}
	}
	for i := range doc.TrustZones {
		if doc.TrustZones[i].ID == "" {
			doc.TrustZones[i].ID = uuid.NewString()
			fixes = append(fixes, fmt.Sprintf("assigned identifier to trust zone %q", doc.TrustZones[i].Name))
		}
	}
	for i := range doc.Components {
		if doc.Components[i].ID == "" {
			doc.Components[i].ID = uuid.NewString()
			fixes = append(fixes, fmt.Sprintf("assigned identifier to component %q", doc.Components[i].Name))
		}
	}
	for i := range doc.DataFlows {
		if doc.DataFlows[i].ID == "" {
			doc.DataFlows[i].ID = uuid.NewString()
			fixes = append(fixes, fmt.Sprintf("assigned identifier to dataflow %q", doc.DataFlows[i].Name))
		}
	}
	for i := range doc.Threats {
		if doc.Threats[i].ID == "" {
			doc.Threats[i].ID = uuid.NewString()
			fixes = append(fixes, fmt.Sprintf("assigned identifier to threat %q", doc.Threats[i].Name))
		}
	}
	for i := range doc.Mitigations {
		if doc.Mitigations[i].ID == "" {
			doc.Mitigations[i].ID = uuid.NewString()
			fixes = append(fixes, fmt.Sprintf("assigned identifier to mitigation %q", doc.Mitigations[i].Name))
		}
	}
	return fixes
}

// assignComponentParents points every orphaned component at the first trust
// zone, synthesizing the default zone when the document has none at all.
func assignComponentParents(doc *otm.Document) []string {
	var fixes []string
	zoneIDs := make(map[string]bool, len(doc.TrustZones))
	for _, zone := range doc.TrustZones {
		zoneIDs[zone.ID] = true
	}

	for i := range doc.Components {
		component := &doc.Components[i]
		if component.Parent != nil && zoneIDs[component.Parent.TrustZone] {
			continue
		}
		if len(doc.TrustZones) == 0 {
			zone := otm.DefaultTrustZone()
			doc.TrustZones = append(doc.TrustZones, zone)
			zoneIDs[zone.ID] = true
			fixes = append(fixes, fmt.Sprintf("synthesized default trust zone %q", zone.Name))
		}
		component.Parent = &otm.Parent{TrustZone: doc.TrustZones[0].ID}
		fixes = append(fixes, fmt.Sprintf("assigned component %q to trust zone %q", component.Name, doc.TrustZones[0].Name))
	}
	return fixes
}

func resolveDataFlowEndpoints(doc *otm.Document) []string {
	var fixes []string
	componentIDs := make(map[string]bool, len(doc.Components))
	for _, component := range doc.Components {
		componentIDs[component.ID] = true
	}
	byName := doc.ComponentIDsByName()

	for i := range doc.DataFlows {
		flow := &doc.DataFlows[i]
		if id, ok := resolveEndpointName(flow.Source, componentIDs, byName); ok {
			fixes = append(fixes, fmt.Sprintf("resolved source of dataflow %q from name %q", flow.Name, flow.Source))
			flow.Source = id
		}
		if id, ok := resolveEndpointName(flow.Destination, componentIDs, byName); ok {
			fixes = append(fixes, fmt.Sprintf("resolved destination of dataflow %q from name %q", flow.Name, flow.Destination))
			flow.Destination = id
		}
	}
	return fixes
}

// resolveEndpointName maps a name-valued endpoint to its component
// identifier. Endpoints that already hold an identifier, or that match no
// component name, are left alone.
func resolveEndpointName(value string, componentIDs map[string]bool, byName map[string]string) (string, bool) {
	if value == "" || componentIDs[value] {
		return "", false
	}
	id, ok := byName[value]
	if !ok {
		return "", false
	}
	return id, true
}

func defaultThreatImpact(doc *otm.Document) []string {
	var fixes []string
	for i := range doc.Threats {
		threat := &doc.Threats[i]
		if threat.Risk == nil {
			threat.Risk = &otm.ThreatRisk{}
		}
		if fix := fixRiskValue(&threat.Risk.Impact, threat.Name, "impact"); fix != "" {
			fixes = append(fixes, fix)
		}
	}
	return fixes
}

func defaultThreatLikelihood(doc *otm.Document) []string {
	var fixes []string
	for i := range doc.Threats {
		threat := &doc.Threats[i]
		if threat.Risk == nil {
			threat.Risk = &otm.ThreatRisk{}
		}
		if fix := fixRiskValue(&threat.Risk.Likelihood, threat.Name, "likelihood"); fix != "" {
			fixes = append(fixes, fix)
		}
	}
	return fixes
}

// fixRiskValue resolves one risk field to a numeric score: missing values get
// the neutral default, labels go through the severity table, and unknown
// labels fall back to the default.
func fixRiskValue(value **otm.RiskValue, threatName, field string) string {
	current := *value
	switch {
	case current == nil:
		*value = otm.NewScore(otm.DefaultRiskScore)
		return fmt.Sprintf("set %s of threat %q to %d", field, threatName, otm.DefaultRiskScore)
	case current.Valid:
		return ""
	case current.Label != "":
		label := current.Label
		if score, ok := otm.SeverityScore(label); ok {
			*value = otm.NewScore(score)
			return fmt.Sprintf("converted %s label %q of threat %q to %d", field, label, threatName, score)
		}
		*value = otm.NewScore(otm.DefaultRiskScore)
		return fmt.Sprintf("replaced unknown %s label %q of threat %q with %d", field, label, threatName, otm.DefaultRiskScore)
	default:
		*value = otm.NewScore(otm.DefaultRiskScore)
		return fmt.Sprintf("set %s of threat %q to %d", field, threatName, otm.DefaultRiskScore)
	}
}
