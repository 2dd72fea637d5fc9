package platform

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

const (
	canvasGridSize   = 300
	canvasNodeWidth  = 200
	canvasNodeHeight = 150
)

// canvasState is the slice of canvas data the import touches. Node and edge
// structures are free-form UI documents, not a stable contract, so they stay
// untyped.
type canvasState struct {
	Data canvasData `json:"data"`
}

type canvasData struct {
	Nodes        []map[string]interface{} `json:"nodes"`
	Edges        []map[string]interface{} `json:"edges"`
	EdgeFloating map[string]interface{}   `json:"edgeFloating,omitempty"`
}

func (c *Client) getCanvas(canvasID string) (*canvasState, error) {
	var canvas canvasState
	resp, err := c.httpc.R().
		SetResult(&canvas).
		Get("/canvases/" + canvasID)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on getting canvas '%s'", resp.StatusCode(), canvasID)
	}
	return &canvas, nil
}

// placeCanvasNode appends a visual node for the most recently created
// component so it shows up on the model's diagram. Placement is cosmetic and
// callers treat failures as warnings.
func (c *Client) placeCanvasNode(canvasID string, position int) error {
	canvas, err := c.getCanvas(canvasID)
	if err != nil {
		return err
	}

	nodes := canvas.Data.Nodes
	nodes = append(nodes, newCanvasNode(canvasID, canvas.Data.Nodes, position))

	edges := canvas.Data.Edges
	if edges == nil {
		edges = []map[string]interface{}{}
	}
	edgeFloating := canvas.Data.EdgeFloating
	if edgeFloating == nil {
		edgeFloating = map[string]interface{}{
			"default":        true,
			"editable":       false,
			"smoothstep":     true,
			"editableBezier": false,
		}
	}

	body := map[string]interface{}{
		"data": map[string]interface{}{
			"nodes":        nodes,
			"edges":        edges,
			"edgeFloating": edgeFloating,
		},
	}

	resp, err := c.httpc.R().
		SetBody(body).
		Patch("/canvases/" + canvasID)
	if err != nil {
		return err
	}
	if resp.StatusCode() == http.StatusOK {
		return nil
	}

	// some deployments only accept full updates
	resp, err = c.httpc.R().
		SetBody(body).
		Put("/canvases/" + canvasID)
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%d on updating canvas '%s'", resp.StatusCode(), canvasID)
	}
	return nil
}

// newCanvasNode builds a node document in the shape the canvas UI expects,
// laying components out on a three column grid.
func newCanvasNode(canvasID string, existing []map[string]interface{}, position int) map[string]interface{} {
	data := map[string]interface{}{
		"id":             "",
		"label":          "Process",
		"selectedBy":     []interface{}{},
		"representation": canvasID,
	}
	// nodes need an owning user on some deployments; borrow it from an
	// existing node when one is present
	if len(existing) > 0 {
		if first, ok := existing[0]["data"].(map[string]interface{}); ok {
			if user, ok := first["user"]; ok {
				data["user"] = user
			}
		}
	}

	return map[string]interface{}{
		"id":       uuid.NewString(),
		"data":     data,
		"type":     "processNode",
		"width":    canvasNodeWidth,
		"height":   canvasNodeHeight,
		"zIndex":   position + 1,
		"dragging": false,
		"measured": map[string]interface{}{
			"width":  canvasNodeWidth,
			"height": canvasNodeHeight,
		},
		"position": map[string]interface{}{
			"x": (position%3)*canvasGridSize + 200,
			"y": (position/3)*canvasGridSize + 100,
		},
		"resizing": false,
		"selected": false,
	}
}
