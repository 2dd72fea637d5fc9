// Package platform is the Devici API client used to upload synthesized
// threat models. Every call expects Authenticate to have succeeded first.
package platform

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/geoffwhittington/devici-mcp/pkg/shared/config"
	"github.com/geoffwhittington/devici-mcp/pkg/shared/httpclient"
)

// collectionPageSize is the page size used when searching collections by title.
const collectionPageSize = 100

type Client struct {
	httpc  *resty.Client
	logger hclog.Logger
}

// New builds a client from the application configuration.
func New(cfg *config.Config, logger hclog.Logger) *Client {
	httpc := httpclient.InitializeRestyClient(logger, cfg)
	httpc.SetBaseURL(cfg.Devici.BaseURL)

	return &Client{
		httpc:  httpc,
		logger: logger,
	}
}

type authResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Authenticate exchanges API credentials for a bearer token and installs it
// on every subsequent request.
func (c *Client) Authenticate(clientID, clientSecret string) error {
	var r authResult
	resp, err := c.httpc.R().
		SetBody(map[string]string{
			"clientId": clientID,
			"secret":   clientSecret,
		}).
		SetResult(&r).
		Post("/auth")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%d on authenticating client '%s'", resp.StatusCode(), clientID)
	}
	if r.AccessToken == "" {
		return fmt.Errorf("authentication response for client '%s' carries no access token", clientID)
	}

	tokenType := r.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	c.httpc.SetHeader("Authorization", fmt.Sprintf("%s %s", tokenType, r.AccessToken))
	c.logger.Debug("authenticated against the platform")
	return nil
}

// Collection groups threat models on the platform.
type Collection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type collectionsPage struct {
	Items []Collection `json:"items"`
}

func (c *Client) ListCollections(limit, page int) ([]Collection, error) {
	var r collectionsPage
	resp, err := c.httpc.R().
		SetQueryParams(map[string]string{
			"limit": strconv.Itoa(limit),
			"page":  strconv.Itoa(page),
		}).
		SetResult(&r).
		Get("/collections/")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on getting collections", resp.StatusCode())
	}
	return r.Items, nil
}

func (c *Client) GetCollection(collectionID string) (*Collection, error) {
	var collection Collection
	resp, err := c.httpc.R().
		SetResult(&collection).
		Get("/collections/" + collectionID)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on getting collection '%s'", resp.StatusCode(), collectionID)
	}
	return &collection, nil
}

func (c *Client) CreateCollection(title string) (*Collection, error) {
	var created Collection
	resp, err := c.httpc.R().
		SetBody(map[string]string{"title": title}).
		SetResult(&created).
		Post("/collections")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("%d on creating collection '%s'", resp.StatusCode(), title)
	}
	return &created, nil
}

// FindCollection returns the collection whose title matches, case
// insensitively, or nil when none does.
func (c *Client) FindCollection(title string) (*Collection, error) {
	collections, err := c.ListCollections(collectionPageSize, 0)
	if err != nil {
		return nil, err
	}

	for i := range collections {
		if strings.EqualFold(collections[i].Title, title) {
			return &collections[i], nil
		}
	}
	return nil, nil
}

// EnsureCollection finds a collection by title, creating it when missing.
func (c *Client) EnsureCollection(title string) (*Collection, error) {
	collection, err := c.FindCollection(title)
	if err != nil {
		return nil, err
	}
	if collection != nil {
		return collection, nil
	}

	c.logger.Info("collection not found, creating it", "title", title)
	return c.CreateCollection(title)
}

// ThreatModel is the platform record a document is imported into.
type ThreatModel struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Canvases    []string `json:"canvases,omitempty"`
}

type threatModelsPage struct {
	Items []ThreatModel `json:"items"`
}

func (c *Client) ListThreatModels(limit, page int) ([]ThreatModel, error) {
	var r threatModelsPage
	resp, err := c.httpc.R().
		SetQueryParams(map[string]string{
			"limit": strconv.Itoa(limit),
			"page":  strconv.Itoa(page),
		}).
		SetResult(&r).
		Get("/threat-models/")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on getting threat models", resp.StatusCode())
	}
	return r.Items, nil
}

func (c *Client) ListThreatModelsByCollection(collectionID string, limit, page int) ([]ThreatModel, error) {
	var r threatModelsPage
	resp, err := c.httpc.R().
		SetQueryParams(map[string]string{
			"limit": strconv.Itoa(limit),
			"page":  strconv.Itoa(page),
		}).
		SetResult(&r).
		Get("/threat-models/collection/" + collectionID)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on getting threat models for collection '%s'", resp.StatusCode(), collectionID)
	}
	return r.Items, nil
}

func (c *Client) GetThreatModel(threatModelID string) (*ThreatModel, error) {
	var model ThreatModel
	resp, err := c.httpc.R().
		SetResult(&model).
		Get("/threat-models/" + threatModelID)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on getting threat model '%s'", resp.StatusCode(), threatModelID)
	}
	return &model, nil
}

func (c *Client) CreateThreatModel(title, description, collectionID string) (*ThreatModel, error) {
	var created ThreatModel
	resp, err := c.httpc.R().
		SetBody(map[string]string{
			"title":        title,
			"description":  description,
			"collectionId": collectionID,
		}).
		SetResult(&created).
		Post("/threat-models")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("%d on creating threat model '%s'", resp.StatusCode(), title)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("no identifier returned for threat model '%s'", title)
	}
	return &created, nil
}

func (c *Client) DeleteThreatModel(threatModelID string) error {
	resp, err := c.httpc.R().
		Delete("/threat-models/" + threatModelID)
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return fmt.Errorf("%d on deleting threat model '%s'", resp.StatusCode(), threatModelID)
	}
	return nil
}
