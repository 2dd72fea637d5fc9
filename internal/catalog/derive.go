package catalog

import (
	"fmt"
	"strings"
)

// Derive maps the input signals to a provisional entity catalog. It is a pure
// function: no keyword match yields an empty component list, never an error.
func Derive(input Input) Catalog {
	haystack := buildHaystack(input)

	cat := Catalog{
		Project: ProjectSeed{
			Name:        input.ProjectName,
			Description: input.Description,
			Owner:       input.Owner,
			Tags:        append([]string(nil), input.Tags...),
		},
	}

	matched := matchedRules(haystack)
	for _, rule := range matched {
		cat.TrustZones = appendZones(cat.TrustZones, rule.TrustZones)
		cat.Components = appendComponents(cat.Components, rule.Components)
	}

	cat.Threats = append(cat.Threats, baseThreats...)
	cat.Mitigations = append(cat.Mitigations, baseMitigations...)
	for _, rule := range contextRules {
		if rule.matches(haystack) {
			cat.Threats = append(cat.Threats, rule.Threats...)
			cat.Mitigations = append(cat.Mitigations, rule.Mitigations...)
		}
	}

	cat.DataFlows = chainDataFlows(cat.Components)
	return cat
}

// matchedRules picks the architecture rules for the haystack. A pattern rule
// match suppresses the generic component rules entirely.
func matchedRules(haystack string) []Rule {
	for _, rule := range patternRules {
		if rule.matches(haystack) {
			return []Rule{rule}
		}
	}

	var rules []Rule
	for _, rule := range componentRules {
		if rule.matches(haystack) {
			rules = append(rules, rule)
		}
	}
	return rules
}

// buildHaystack folds every signal source into one lowercase search string.
func buildHaystack(input Input) string {
	parts := []string{input.Description, input.TechStack}
	parts = append(parts, input.Signals...)
	return strings.ToLower(strings.Join(parts, " "))
}

// appendZones adds zone seeds, keeping the first seed for each name.
func appendZones(zones []TrustZoneSeed, add []TrustZoneSeed) []TrustZoneSeed {
	for _, z := range add {
		if !zoneExists(zones, z.Name) {
			zones = append(zones, z)
		}
	}
	return zones
}

func zoneExists(zones []TrustZoneSeed, name string) bool {
	for _, z := range zones {
		if z.Name == name {
			return true
		}
	}
	return false
}

// appendComponents adds component seeds. Duplicate names keep the first seed
// and merge the later seed's tags into it, so the name lookup built during
// materialization never collapses two distinct components.
func appendComponents(components []ComponentSeed, add []ComponentSeed) []ComponentSeed {
	for _, c := range add {
		if i := componentIndex(components, c.Name); i >= 0 {
			components[i].Tags = mergeTags(components[i].Tags, c.Tags)
			continue
		}
		components = append(components, c)
	}
	return components
}

func componentIndex(components []ComponentSeed, name string) int {
	for i, c := range components {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func mergeTags(tags []string, add []string) []string {
	for _, t := range add {
		exists := false
		for _, have := range tags {
			if have == t {
				exists = true
				break
			}
		}
		if !exists {
			tags = append(tags, t)
		}
	}
	return tags
}

// chainDataFlows connects consecutively derived components with a linear
// chain of flows, in derivation order.
func chainDataFlows(components []ComponentSeed) []DataFlowSeed {
	if len(components) < 2 {
		return nil
	}

	flows := make([]DataFlowSeed, 0, len(components)-1)
	for i := 0; i+1 < len(components); i++ {
		src, dst := components[i], components[i+1]
		flows = append(flows, DataFlowSeed{
			Name:        fmt.Sprintf("%s to %s", src.Name, dst.Name),
			Source:      src.Name,
			Destination: dst.Name,
			Description: fmt.Sprintf("Data flow from %s to %s.", src.Name, dst.Name),
		})
	}
	return flows
}
