//go:build !zabbix_nowebscenario

package zabbix

import "context"

// WebScenarioStep is one request of a web scenario. No is the step's
// position, starting at 1.
type WebScenarioStep struct {
	HTTPStepID      string `json:"httpstepid,omitempty"`
	Name            string `json:"name"`
	URL             string `json:"url"`
	No              int    `json:"no,string"`
	StatusCodes     string `json:"status_codes,omitempty"`
	Required        string `json:"required,omitempty"`
	Timeout         string `json:"timeout,omitempty"`
	FollowRedirects string `json:"follow_redirects,omitempty"`
}

// WebScenario is a web scenario record returned by httptest.get.
type WebScenario struct {
	HTTPTestID string            `json:"httptestid" zabbix:"required"`
	Name       string            `json:"name"`
	HostID     string            `json:"hostid"`
	Delay      string            `json:"delay,omitempty"`
	Retries    string            `json:"retries,omitempty"`
	Agent      string            `json:"agent,omitempty"`
	Status     string            `json:"status,omitempty"`
	Steps      []WebScenarioStep `json:"steps,omitempty"`
	Tags       []Tag             `json:"tags,omitempty"`
}

// WebScenarioGetParams are the parameters of httptest.get.
type WebScenarioGetParams struct {
	GetParams
	HTTPTestIDs []string `json:"httptestids,omitempty"`
	HostIDs     []string `json:"hostids,omitempty"`
	GroupIDs    []string `json:"groupids,omitempty"`
	SelectSteps Output   `json:"selectSteps,omitempty"`
	SelectTags  Output   `json:"selectTags,omitempty"`
}

// CreateWebScenarioRequest are the parameters of httptest.create.
type CreateWebScenarioRequest struct {
	Name    string            `json:"name"`
	HostID  string            `json:"hostid"`
	Steps   []WebScenarioStep `json:"steps"`
	Delay   string            `json:"delay,omitempty"`
	Retries int               `json:"retries,omitempty"`
	Agent   string            `json:"agent,omitempty"`
	Tags    []Tag             `json:"tags,omitempty"`
}

// GetWebScenarios calls httptest.get.
func (c *Client) GetWebScenarios(ctx context.Context, params WebScenarioGetParams) ([]WebScenario, error) {
	return getRecords[WebScenario](ctx, c, "httptest.get", params)
}

// CreateWebScenario calls httptest.create and returns the new web scenario ids.
func (c *Client) CreateWebScenario(ctx context.Context, req CreateWebScenarioRequest) ([]string, error) {
	return c.create(ctx, "httptest.create", "httptestids", req)
}
