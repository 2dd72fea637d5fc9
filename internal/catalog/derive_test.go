package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func componentNames(cat Catalog) []string {
	names := make([]string, 0, len(cat.Components))
	for _, c := range cat.Components {
		names = append(names, c.Name)
	}
	return names
}

func threatNames(cat Catalog) []string {
	names := make([]string, 0, len(cat.Threats))
	for _, t := range cat.Threats {
		names = append(names, t.Name)
	}
	return names
}

func TestDeriveWebStack(t *testing.T) {
	cat := Derive(Input{Description: "React frontend with Node.js API and PostgreSQL"})

	assert.Equal(t, []string{"web-frontend", "api-server", "datastore"}, componentNames(cat))
	assert.GreaterOrEqual(t, len(cat.TrustZones), 2)
	assert.Len(t, cat.Threats, 5)
	assert.Len(t, cat.Mitigations, 5)

	require.Len(t, cat.DataFlows, 2)
	assert.Equal(t, "web-frontend", cat.DataFlows[0].Source)
	assert.Equal(t, "api-server", cat.DataFlows[0].Destination)
	assert.Equal(t, "api-server", cat.DataFlows[1].Source)
	assert.Equal(t, "datastore", cat.DataFlows[1].Destination)
}

func TestDeriveComponentTypes(t *testing.T) {
	cat := Derive(Input{Description: "vue website backed by mongodb"})

	require.Len(t, cat.Components, 2)
	assert.Equal(t, "process", cat.Components[0].Type)
	assert.Equal(t, "datastore", cat.Components[1].Type)
	for _, c := range cat.Components {
		assert.NotEmpty(t, c.Zone)
	}
}

func TestDerivePaymentContext(t *testing.T) {
	cat := Derive(Input{Description: "An e-commerce API that processes payments"})

	assert.Contains(t, threatNames(cat), "Payment fraud")
	assert.Len(t, cat.Threats, 6)

	var compliance *MitigationSeed
	for i := range cat.Mitigations {
		if cat.Mitigations[i].Name == "PCI DSS compliance controls" {
			compliance = &cat.Mitigations[i]
		}
	}
	require.NotNil(t, compliance)
	assert.Equal(t, "Payment fraud", compliance.Reduces)
}

func TestDeriveNoKeywords(t *testing.T) {
	cat := Derive(Input{Description: "a plain text notebook"})

	assert.Empty(t, cat.Components)
	assert.Empty(t, cat.TrustZones)
	assert.Empty(t, cat.DataFlows)
	assert.Len(t, cat.Threats, 5)
	assert.Len(t, cat.Mitigations, 5)
}

func TestDeriveEmptyInput(t *testing.T) {
	cat := Derive(Input{})

	assert.Empty(t, cat.Components)
	assert.Len(t, cat.Threats, 5)
	assert.Len(t, cat.Mitigations, 5)
}

func TestDerivePatternSuppressesGenericRules(t *testing.T) {
	// The description names both the protocol pattern and generic stack
	// keywords; the pattern must win and suppress the generic components.
	cat := Derive(Input{Description: "An MCP tool server written for a Node.js backend with PostgreSQL"})

	assert.Equal(t, []string{"protocol-client", "protocol-server"}, componentNames(cat))
	require.Len(t, cat.TrustZones, 1)
	assert.Equal(t, "Local Host", cat.TrustZones[0].Name)

	require.Len(t, cat.DataFlows, 1)
	assert.Equal(t, "protocol-client", cat.DataFlows[0].Source)
	assert.Equal(t, "protocol-server", cat.DataFlows[0].Destination)
}

func TestDeriveContextRulesApplyWithPattern(t *testing.T) {
	cat := Derive(Input{Description: "json-rpc tool server that handles payment webhooks for stripe"})

	assert.Equal(t, []string{"protocol-client", "protocol-server"}, componentNames(cat))
	assert.Contains(t, threatNames(cat), "Payment fraud")
}

func TestDeriveTechStackAndSignals(t *testing.T) {
	cat := Derive(Input{
		Description: "an internal tool",
		TechStack:   "react",
		Signals:     []string{"postgres"},
	})

	assert.Equal(t, []string{"web-frontend", "datastore"}, componentNames(cat))
}

func TestDeriveZonesDeduplicated(t *testing.T) {
	// api-server and datastore both contribute the private zone; it must
	// appear once.
	cat := Derive(Input{Description: "rest backend with postgres"})

	require.Len(t, cat.TrustZones, 1)
	assert.Equal(t, "Private Network", cat.TrustZones[0].Name)
}

func TestAppendComponentsMergesDuplicateNames(t *testing.T) {
	seeds := appendComponents(nil, []ComponentSeed{
		{Name: "api-server", Type: "process", Tags: []string{"api"}},
	})
	seeds = appendComponents(seeds, []ComponentSeed{
		{Name: "api-server", Type: "process", Tags: []string{"grpc"}},
	})

	require.Len(t, seeds, 1)
	assert.ElementsMatch(t, []string{"api", "grpc"}, seeds[0].Tags)
}

func TestDeriveAuthContext(t *testing.T) {
	cat := Derive(Input{Description: "user login portal with SSO"})

	assert.Contains(t, threatNames(cat), "Credential stuffing")

	found := false
	for _, m := range cat.Mitigations {
		if m.Name == "Multi-factor authentication" {
			found = true
			assert.Equal(t, "Credential stuffing", m.Reduces)
		}
	}
	assert.True(t, found)
}
