package catalog

import (
	"strings"
)

// Rule maps a keyword set to the entities it contributes to the catalog.
// The tables below are the whole derivation logic; Derive only walks them.
type Rule struct {
	Name        string
	Keywords    []string
	TrustZones  []TrustZoneSeed
	Components  []ComponentSeed
	Threats     []ThreatSeed
	Mitigations []MitigationSeed
}

func (r Rule) matches(haystack string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// Trust zones shared by the component rules.
var (
	zoneInternet = TrustZoneSeed{Name: "Internet", Type: "internet", TrustRating: 10}
	zonePrivate  = TrustZoneSeed{Name: "Private Network", Type: "private", TrustRating: 80}
	zoneLocal    = TrustZoneSeed{Name: "Local Host", Type: "private", TrustRating: 100}
)

// patternRules describe specialized architecture shapes. They are evaluated
// first and are mutually exclusive with the generic component rules: the
// first match suppresses the componentRules table entirely.
var patternRules = []Rule{
	{
		Name: "protocol-service",
		Keywords: []string{
			"mcp", "model context protocol", "json-rpc", "jsonrpc",
			"language server", "tool server", "protocol server",
		},
		TrustZones: []TrustZoneSeed{zoneLocal},
		Components: []ComponentSeed{
			{
				Name:        "protocol-client",
				Type:        "external-entity",
				Description: "Host application that connects to the protocol server and issues requests.",
				Zone:        zoneLocal.Name,
				Tags:        []string{"client"},
			},
			{
				Name:        "protocol-server",
				Type:        "process",
				Description: "Server process that exposes tools and resources over the protocol.",
				Zone:        zoneLocal.Name,
				Tags:        []string{"server"},
			},
		},
	},
}

// componentRules are the generic additive rules. Each rule contributes its
// components and trust zones at most once, however many of its keywords match.
var componentRules = []Rule{
	{
		Name: "web-frontend",
		Keywords: []string{
			"react", "vue", "angular", "svelte", "nextjs", "next.js",
			"frontend", "front-end", "browser", "website", "web app", "webapp", "spa",
		},
		TrustZones: []TrustZoneSeed{zoneInternet},
		Components: []ComponentSeed{
			{
				Name:        "web-frontend",
				Type:        "process",
				Description: "Browser-delivered user interface.",
				Zone:        zoneInternet.Name,
				Tags:        []string{"ui"},
			},
		},
	},
	{
		Name: "api-server",
		Keywords: []string{
			"api", "rest", "graphql", "grpc", "node", "express", "fastapi",
			"flask", "django", "spring", "backend", "microservice", "endpoint", "server",
		},
		TrustZones: []TrustZoneSeed{zonePrivate},
		Components: []ComponentSeed{
			{
				Name:        "api-server",
				Type:        "process",
				Description: "Application server handling business logic and API requests.",
				Zone:        zonePrivate.Name,
				Tags:        []string{"api"},
			},
		},
	},
	{
		Name: "datastore",
		Keywords: []string{
			"postgres", "postgresql", "mysql", "mariadb", "mongo", "mongodb",
			"database", "redis", "sqlite", "dynamodb", "cassandra", "elasticsearch",
		},
		TrustZones: []TrustZoneSeed{zonePrivate},
		Components: []ComponentSeed{
			{
				Name:        "datastore",
				Type:        "datastore",
				Description: "Persistent storage for application data.",
				Zone:        zonePrivate.Name,
				Tags:        []string{"storage"},
			},
		},
	},
	{
		Name: "external-service",
		Keywords: []string{
			"stripe", "paypal", "oauth", "auth0", "sendgrid", "twilio",
			"third-party", "third party", "external api", "webhook",
		},
		TrustZones: []TrustZoneSeed{zoneInternet},
		Components: []ComponentSeed{
			{
				Name:        "external-service",
				Type:        "external-service",
				Description: "Third-party service the system depends on.",
				Zone:        zoneInternet.Name,
				Tags:        []string{"third-party"},
			},
		},
	},
	{
		Name: "mobile-client",
		Keywords: []string{
			"mobile", "ios", "android", "app store", "react native", "flutter",
		},
		TrustZones: []TrustZoneSeed{zoneInternet},
		Components: []ComponentSeed{
			{
				Name:        "mobile-client",
				Type:        "external-entity",
				Description: "Mobile application used by end users.",
				Zone:        zoneInternet.Name,
				Tags:        []string{"mobile"},
			},
		},
	},
	{
		Name: "message-broker",
		Keywords: []string{
			"kafka", "rabbitmq", "message queue", "sqs", "pub/sub", "pubsub", "nats", "amqp", "event bus",
		},
		TrustZones: []TrustZoneSeed{zonePrivate},
		Components: []ComponentSeed{
			{
				Name:        "message-broker",
				Type:        "process",
				Description: "Asynchronous messaging between services.",
				Zone:        zonePrivate.Name,
				Tags:        []string{"messaging"},
			},
		},
	},
}

// contextRules contribute extra threats and mitigations on top of the base
// sets. They apply regardless of which architecture rules matched.
var contextRules = []Rule{
	{
		Name: "payment-context",
		Keywords: []string{
			"payment", "stripe", "billing", "checkout", "credit card", "pci",
		},
		Threats: []ThreatSeed{
			{
				Name:        "Payment fraud",
				Description: "Transactions are forged, replayed, or manipulated to move money illegitimately.",
				Categories:  []string{"Tampering", "Elevation of Privilege"},
				Impact:      "critical",
				Likelihood:  "medium",
			},
		},
		Mitigations: []MitigationSeed{
			{
				Name:          "PCI DSS compliance controls",
				Description:   "Segment cardholder data, tokenize card numbers, and audit access per PCI DSS.",
				RiskReduction: 80,
				Reduces:       "Payment fraud",
			},
		},
	},
	{
		Name: "auth-context",
		Keywords: []string{
			"login", "oauth", "sso", "authentication", "credential", "sign-in", "signin", "session",
		},
		Threats: []ThreatSeed{
			{
				Name:        "Credential stuffing",
				Description: "Breached credential lists are replayed against the login surface.",
				Categories:  []string{"Spoofing", "Elevation of Privilege"},
				Impact:      "high",
				Likelihood:  "high",
			},
		},
		Mitigations: []MitigationSeed{
			{
				Name:          "Multi-factor authentication",
				Description:   "Require a second factor so stolen passwords alone do not grant access.",
				RiskReduction: 85,
				Reduces:       "Credential stuffing",
			},
		},
	},
}

// baseThreats is the fixed STRIDE-seeded catalog emitted for every input.
var baseThreats = []ThreatSeed{
	{
		Name:        "Spoofing of user identity",
		Description: "An attacker impersonates a legitimate user or service to gain access.",
		Categories:  []string{"Spoofing"},
		Impact:      "high",
		Likelihood:  "medium",
	},
	{
		Name:        "Tampering with data in transit",
		Description: "Data is modified while moving between components.",
		Categories:  []string{"Tampering"},
		Impact:      "high",
		Likelihood:  "medium",
	},
	{
		Name:        "Repudiation of user actions",
		Description: "Actions cannot be attributed to the user who performed them.",
		Categories:  []string{"Repudiation"},
		Impact:      "medium",
		Likelihood:  "medium",
	},
	{
		Name:        "Information disclosure of stored data",
		Description: "Sensitive data is exposed to parties not authorized to see it.",
		Categories:  []string{"Information Disclosure"},
		Impact:      "high",
		Likelihood:  "medium",
	},
	{
		Name:        "Denial of service against public endpoints",
		Description: "The system is made unavailable to legitimate users.",
		Categories:  []string{"Denial of Service"},
		Impact:      "medium",
		Likelihood:  "high",
	},
}

// baseMitigations pair one-to-one with the base threats by name.
var baseMitigations = []MitigationSeed{
	{
		Name:          "Enforce strong authentication",
		Description:   "Authenticate every caller with credentials that are hard to forge.",
		RiskReduction: 75,
		Reduces:       "Spoofing of user identity",
	},
	{
		Name:          "Encrypt data in transit",
		Description:   "Use TLS on every hop so intercepted traffic cannot be read or altered.",
		RiskReduction: 80,
		Reduces:       "Tampering with data in transit",
	},
	{
		Name:          "Centralized audit logging",
		Description:   "Record security-relevant actions with actor, time, and origin.",
		RiskReduction: 60,
		Reduces:       "Repudiation of user actions",
	},
	{
		Name:          "Encrypt sensitive data at rest",
		Description:   "Protect stored data so a storage compromise does not expose plaintext.",
		RiskReduction: 70,
		Reduces:       "Information disclosure of stored data",
	},
	{
		Name:          "Rate limiting and resource quotas",
		Description:   "Bound per-client consumption so abusive load cannot exhaust the service.",
		RiskReduction: 65,
		Reduces:       "Denial of service against public endpoints",
	},
}
