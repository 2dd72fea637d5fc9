package otm

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/geoffwhittington/devici-mcp/internal/catalog"
)

// Defaults applied when the catalog carries no explicit seed value.
const (
	DefaultProjectName   = "Untitled Project"
	DefaultTrustZoneName = "Default Trust Zone"

	defaultTrustZoneType   = "private"
	defaultTrustZoneRating = 50
)

// Build materializes a derived catalog into a fully identified document.
// Every cross-reference in the result is an identifier; the returned warnings
// describe the fallback substitutions taken along the way.
func Build(cat catalog.Catalog) (*Document, []string) {
	var warnings []string

	doc := &Document{
		OTMVersion: Version,
		Project:    buildProject(cat.Project),
	}
	doc.Representations = []Representation{{
		ID:   uuid.NewString(),
		Name: doc.Project.Name + " Diagram",
		Type: "diagram",
		Size: &Size{Width: 1000, Height: 800},
	}}

	doc.TrustZones = buildTrustZones(cat.TrustZones)
	zoneIDs := make(map[string]string, len(doc.TrustZones))
	for _, zone := range doc.TrustZones {
		zoneIDs[zone.Name] = zone.ID
	}
	firstZoneID := doc.TrustZones[0].ID

	doc.Components = make([]Component, 0, len(cat.Components))
	componentIDs := make(map[string]string, len(cat.Components))
	for _, seed := range cat.Components {
		parent := firstZoneID
		if id, ok := zoneIDs[seed.Zone]; ok {
			parent = id
		}
		component := Component{
			ID:          uuid.NewString(),
			Name:        seed.Name,
			Type:        seed.Type,
			Description: seed.Description,
			Parent:      &Parent{TrustZone: parent},
			Tags:        append([]string(nil), seed.Tags...),
		}
		doc.Components = append(doc.Components, component)
		if _, exists := componentIDs[seed.Name]; !exists {
			componentIDs[seed.Name] = component.ID
		}
	}

	doc.DataFlows, warnings = buildDataFlows(cat.DataFlows, doc.Components, componentIDs, warnings)

	doc.Threats = make([]Threat, 0, len(cat.Threats))
	threatIDs := make(map[string]string, len(cat.Threats))
	for _, seed := range cat.Threats {
		threat := Threat{
			ID:          uuid.NewString(),
			Name:        seed.Name,
			Description: seed.Description,
			Categories:  append([]string(nil), seed.Categories...),
			Risk: &ThreatRisk{
				Likelihood: scoreFromLabel(seed.Likelihood),
				Impact:     scoreFromLabel(seed.Impact),
			},
		}
		doc.Threats = append(doc.Threats, threat)
		if _, exists := threatIDs[seed.Name]; !exists {
			threatIDs[seed.Name] = threat.ID
		}
	}
	assignThreatTargets(doc.Threats, doc.Components)

	doc.Mitigations = make([]Mitigation, 0, len(cat.Mitigations))
	for _, seed := range cat.Mitigations {
		mitigation := Mitigation{
			ID:            uuid.NewString(),
			Name:          seed.Name,
			Description:   seed.Description,
			RiskReduction: clampRiskReduction(seed.RiskReduction),
		}
		if seed.Reduces != "" {
			if id, ok := threatIDs[seed.Reduces]; ok {
				mitigation.ReducesRisk = []ThreatRef{{Threat: id}}
			} else {
				warnings = append(warnings, fmt.Sprintf("mitigation %q reduces unknown threat %q", seed.Name, seed.Reduces))
			}
		}
		doc.Mitigations = append(doc.Mitigations, mitigation)
	}

	return doc, warnings
}

func buildProject(seed catalog.ProjectSeed) Project {
	name := seed.Name
	if name == "" {
		name = DefaultProjectName
	}
	return Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: seed.Description,
		Owner:       seed.Owner,
		Tags:        append([]string(nil), seed.Tags...),
	}
}

// buildTrustZones guarantees at least one zone so component parents always
// have somewhere to point.
func buildTrustZones(seeds []catalog.TrustZoneSeed) []TrustZone {
	if len(seeds) == 0 {
		return []TrustZone{DefaultTrustZone()}
	}

	zones := make([]TrustZone, 0, len(seeds))
	for _, seed := range seeds {
		zones = append(zones, TrustZone{
			ID:   uuid.NewString(),
			Name: seed.Name,
			Type: seed.Type,
			Risk: &TrustZoneRisk{TrustRating: seed.TrustRating},
		})
	}
	return zones
}

// DefaultTrustZone is the zone synthesized when derivation produced none.
func DefaultTrustZone() TrustZone {
	return TrustZone{
		ID:   uuid.NewString(),
		Name: DefaultTrustZoneName,
		Type: defaultTrustZoneType,
		Risk: &TrustZoneRisk{TrustRating: defaultTrustZoneRating},
	}
}

func buildDataFlows(seeds []catalog.DataFlowSeed, components []Component, componentIDs map[string]string, warnings []string) ([]DataFlow, []string) {
	flows := make([]DataFlow, 0, len(seeds))
	for _, seed := range seeds {
		source, srcWarn := resolveEndpoint(seed, "source", seed.Source, components, componentIDs)
		destination, dstWarn := resolveEndpoint(seed, "destination", seed.Destination, components, componentIDs)
		if srcWarn != "" {
			warnings = append(warnings, srcWarn)
		}
		if dstWarn != "" {
			warnings = append(warnings, dstWarn)
		}
		if source == "" || destination == "" {
			continue
		}
		flows = append(flows, DataFlow{
			ID:          uuid.NewString(),
			Name:        seed.Name,
			Source:      source,
			Destination: destination,
			Description: seed.Description,
		})
	}
	return flows, warnings
}

// resolveEndpoint maps a flow endpoint name to a component identifier. A
// name with no matching component falls back to the first component, which
// misattributes the flow; the warning surfaces that substitution.
func resolveEndpoint(seed catalog.DataFlowSeed, role, name string, components []Component, componentIDs map[string]string) (string, string) {
	if id, ok := componentIDs[name]; ok {
		return id, ""
	}
	if len(components) == 0 {
		return "", fmt.Sprintf("dropped data flow %q: %s %q has no component to resolve to", seed.Name, role, name)
	}
	fallback := components[0]
	return fallback.ID, fmt.Sprintf("data flow %q: %s %q is not a known component, substituted %q", seed.Name, role, name, fallback.Name)
}

// assignThreatTargets spreads threats over components round-robin. Walking
// max(len(threats), len(components)) slots covers every component and gives
// every threat at least one target.
func assignThreatTargets(threats []Threat, components []Component) {
	if len(threats) == 0 || len(components) == 0 {
		return
	}

	slots := len(threats)
	if len(components) > slots {
		slots = len(components)
	}
	for k := 0; k < slots; k++ {
		threat := &threats[k%len(threats)]
		id := components[k%len(components)].ID
		if !containsTarget(threat.Targets, id) {
			threat.Targets = append(threat.Targets, id)
		}
	}
}

func containsTarget(targets []string, id string) bool {
	for _, t := range targets {
		if t == id {
			return true
		}
	}
	return false
}

func clampRiskReduction(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
