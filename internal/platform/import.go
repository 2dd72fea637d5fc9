package platform

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/geoffwhittington/devici-mcp/internal/otm"
)

// ImportSummary reports what an OTM import created on the platform.
type ImportSummary struct {
	ThreatModelID      string   `json:"threat_model_id"`
	ComponentsCreated  int      `json:"components_created"`
	ThreatsCreated     int      `json:"threats_created"`
	MitigationsCreated int      `json:"mitigations_created"`
	Errors             []string `json:"errors,omitempty"`
}

// createdEnvelope covers the creation response shapes the platform uses:
// {"component": "<id>"}, {"threat": "<id>"}, {"mitigation": "<id>"}, or a
// plain {"id": "<id>"}.
type createdEnvelope struct {
	ID         string `json:"id"`
	Component  string `json:"component"`
	Threat     string `json:"threat"`
	Mitigation string `json:"mitigation"`
}

func (e createdEnvelope) identifier() string {
	for _, id := range []string{e.Component, e.Threat, e.Mitigation, e.ID} {
		if id != "" {
			return id
		}
	}
	return ""
}

// CreateComponent creates one component and returns its platform identifier.
func (c *Client) CreateComponent(body map[string]interface{}) (string, error) {
	var created createdEnvelope
	resp, err := c.httpc.R().
		SetBody(body).
		SetResult(&created).
		Post("/components")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return "", fmt.Errorf("%d on creating component '%v'", resp.StatusCode(), body["title"])
	}
	if created.identifier() == "" {
		return "", fmt.Errorf("no identifier returned for component '%v'", body["title"])
	}
	return created.identifier(), nil
}

func (c *Client) CreateThreat(body map[string]interface{}) (string, error) {
	var created createdEnvelope
	resp, err := c.httpc.R().
		SetBody(body).
		SetResult(&created).
		Post("/threats")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return "", fmt.Errorf("%d on creating threat '%v'", resp.StatusCode(), body["title"])
	}
	if created.identifier() == "" {
		return "", fmt.Errorf("no identifier returned for threat '%v'", body["title"])
	}
	return created.identifier(), nil
}

func (c *Client) CreateMitigation(body map[string]interface{}) (string, error) {
	var created createdEnvelope
	resp, err := c.httpc.R().
		SetBody(body).
		SetResult(&created).
		Post("/mitigations")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return "", fmt.Errorf("%d on creating mitigation '%v'", resp.StatusCode(), body["title"])
	}
	if created.identifier() == "" {
		return "", fmt.Errorf("no identifier returned for mitigation '%v'", body["title"])
	}
	return created.identifier(), nil
}

// ImportOTM uploads a document into the collection: it creates the threat
// model, creates every component individually so the canvas can reference
// them, then imports threats and mitigations through the bulk OTM endpoint.
// Per-entity failures are collected in the summary instead of aborting.
func (c *Client) ImportOTM(collectionID string, doc *otm.Document) (*ImportSummary, error) {
	title := doc.Project.Name
	if title == "" {
		title = "Imported Threat Model"
	}
	description := doc.Project.Description
	if description == "" {
		description = "Threat model imported from an OTM document"
	}

	model, err := c.CreateThreatModel(title, description, collectionID)
	if err != nil {
		return nil, err
	}
	c.logger.Info("created threat model", "id", model.ID, "title", title)

	summary := &ImportSummary{ThreatModelID: model.ID}

	canvasID, err := c.resolveCanvas(model)
	if err != nil {
		c.logger.Warn("failed to resolve the model's canvas", "threat_model", model.ID, "error", err)
	}
	if canvasID == "" {
		c.logger.Warn("threat model has no canvas, components will not be placed on the diagram", "threat_model", model.ID)
	}

	componentIDs := make(map[string]string, len(doc.Components))
	for _, component := range doc.Components {
		body := map[string]interface{}{
			"title":       component.Name,
			"description": component.Description,
			"type":        component.Type,
		}
		if canvasID != "" {
			body["canvasId"] = canvasID
		}
		if len(component.Tags) > 0 {
			body["tags"] = strings.Join(component.Tags, ", ")
		}

		id, err := c.CreateComponent(body)
		if err != nil {
			summary.Errors = append(summary.Errors, err.Error())
			continue
		}
		componentIDs[component.ID] = id
		summary.ComponentsCreated++
		c.logger.Debug("created component", "name", component.Name, "id", id)

		if canvasID != "" {
			if err := c.placeCanvasNode(canvasID, summary.ComponentsCreated); err != nil {
				c.logger.Warn("failed to place canvas node", "component", component.Name, "error", err)
			}
		}
	}

	if len(doc.Threats) == 0 && len(doc.Mitigations) == 0 {
		return summary, nil
	}

	if err := c.importThreatsBulk(collectionID, model.ID, doc, componentIDs, summary); err != nil {
		c.logger.Warn("bulk OTM import failed, creating threats individually", "error", err)
		summary.Errors = append(summary.Errors, err.Error())
		c.importThreatsIndividually(doc, componentIDs, summary)
	}
	return summary, nil
}

// resolveCanvas finds the canvas created alongside the threat model,
// re-reading the model when the create response carried none.
func (c *Client) resolveCanvas(model *ThreatModel) (string, error) {
	if len(model.Canvases) > 0 {
		return model.Canvases[0], nil
	}

	fresh, err := c.GetThreatModel(model.ID)
	if err != nil {
		return "", err
	}
	if len(fresh.Canvases) > 0 {
		return fresh.Canvases[0], nil
	}
	return "", nil
}

type otmImportResult struct {
	ThreatsCreated     *int     `json:"threatsCreated"`
	MitigationsCreated *int     `json:"mitigationsCreated"`
	Errors             []string `json:"errors"`
}

// importThreatsBulk posts threats and mitigations through the OTM endpoint,
// rewriting threat targets to the platform component identifiers first.
func (c *Client) importThreatsBulk(collectionID, threatModelID string, doc *otm.Document, componentIDs map[string]string, summary *ImportSummary) error {
	threats := make([]otm.Threat, len(doc.Threats))
	copy(threats, doc.Threats)
	for i := range threats {
		if len(threats[i].Targets) == 0 {
			continue
		}
		targets := make([]string, len(threats[i].Targets))
		for j, target := range threats[i].Targets {
			if id, ok := componentIDs[target]; ok {
				targets[j] = id
			} else {
				targets[j] = target
			}
		}
		threats[i].Targets = targets
	}

	payload := map[string]interface{}{
		"otmVersion":    doc.OTMVersion,
		"project":       doc.Project,
		"threats":       threats,
		"mitigations":   doc.Mitigations,
		"threatModelId": threatModelID,
	}

	var result otmImportResult
	resp, err := c.httpc.R().
		SetBody(payload).
		SetResult(&result).
		Post("/threat-models/otm/" + collectionID)
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return fmt.Errorf("%d on importing OTM into collection '%s'", resp.StatusCode(), collectionID)
	}

	summary.ThreatsCreated = len(doc.Threats)
	if result.ThreatsCreated != nil {
		summary.ThreatsCreated = *result.ThreatsCreated
	}
	summary.MitigationsCreated = len(doc.Mitigations)
	if result.MitigationsCreated != nil {
		summary.MitigationsCreated = *result.MitigationsCreated
	}
	summary.Errors = append(summary.Errors, result.Errors...)
	return nil
}

// importThreatsIndividually is the fallback path when the bulk endpoint
// rejects the payload: each threat and mitigation is created through its own
// CRUD endpoint and linked by identifier.
func (c *Client) importThreatsIndividually(doc *otm.Document, componentIDs map[string]string, summary *ImportSummary) {
	threatIDs := make(map[string]string, len(doc.Threats))
	for _, threat := range doc.Threats {
		body := map[string]interface{}{
			"title":       threat.Name,
			"description": threat.Description,
			"priority":    threatPriority(threat),
			"status":      "open",
			"is_custom":   true,
		}
		if len(threat.Categories) > 0 {
			body["source"] = "OTM Import: " + threat.Categories[0]
		}
		if len(threat.Targets) > 0 {
			if id, ok := componentIDs[threat.Targets[0]]; ok {
				body["component"] = map[string]string{"id": id}
			}
		}

		id, err := c.CreateThreat(body)
		if err != nil {
			summary.Errors = append(summary.Errors, err.Error())
			continue
		}
		threatIDs[threat.ID] = id
		summary.ThreatsCreated++
	}

	for _, mitigation := range doc.Mitigations {
		body := map[string]interface{}{
			"title":      mitigation.Name,
			"definition": mitigation.Description,
			"is_custom":  true,
		}
		if len(mitigation.ReducesRisk) > 0 {
			if id, ok := threatIDs[mitigation.ReducesRisk[0].Threat]; ok {
				body["threat"] = map[string]string{"id": id}
			}
		}

		if _, err := c.CreateMitigation(body); err != nil {
			summary.Errors = append(summary.Errors, err.Error())
			continue
		}
		summary.MitigationsCreated++
	}
}

// threatPriority maps a threat's numeric impact to the platform's priority
// scale, defaulting to medium when the impact is unresolved.
func threatPriority(threat otm.Threat) string {
	if threat.Risk == nil || threat.Risk.Impact == nil || !threat.Risk.Impact.Valid {
		return "medium"
	}
	switch score := threat.Risk.Impact.Score; {
	case score >= 90:
		return "critical"
	case score >= 65:
		return "high"
	case score >= 40:
		return "medium"
	default:
		return "low"
	}
}
