// Package catalog derives a provisional, name-keyed entity catalog from
// heuristic signals: a free-text description, a technology-stack string, and
// keywords contributed by a file-system scan. Entities carry no identifiers
// yet; materialization assigns those.
package catalog

// Input carries the heuristic signals a catalog is derived from.
type Input struct {
	ProjectName string
	Description string
	TechStack   string
	Signals     []string
	Owner       string
	Tags        []string
}

// Catalog is the ordered set of provisional entities derived from one input.
// All cross-references are by name.
type Catalog struct {
	Project     ProjectSeed
	TrustZones  []TrustZoneSeed
	Components  []ComponentSeed
	DataFlows   []DataFlowSeed
	Threats     []ThreatSeed
	Mitigations []MitigationSeed
}

type ProjectSeed struct {
	Name        string
	Description string
	Owner       string
	Tags        []string
}

type TrustZoneSeed struct {
	Name        string
	Type        string
	TrustRating int
}

// ComponentSeed names the trust zone it belongs to; the materializer falls
// back to the first zone when the named one was not derived.
type ComponentSeed struct {
	Name        string
	Type        string
	Description string
	Zone        string
	Tags        []string
}

type DataFlowSeed struct {
	Name        string
	Source      string
	Destination string
	Description string
}

// ThreatSeed carries ordinal severity labels; the materializer converts them
// to numeric scores.
type ThreatSeed struct {
	Name        string
	Description string
	Categories  []string
	Impact      string
	Likelihood  string
}

// MitigationSeed references the threat it reduces by name.
type MitigationSeed struct {
	Name          string
	Description   string
	RiskReduction int
	Reduces       string
}
