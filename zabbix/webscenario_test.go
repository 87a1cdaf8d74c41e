//go:build !zabbix_nowebscenario

package zabbix

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWebScenario(t *testing.T) {
	c, srv := loggedIn(t, V6)
	srv.HandleResult("httptest.create", map[string]any{"httptestids": []string{"5"}})

	ids, err := c.CreateWebScenario(context.Background(), CreateWebScenarioRequest{
		Name:   "Homepage check",
		HostID: "10105",
		Steps: []WebScenarioStep{
			{Name: "Homepage", URL: "https://example.com", StatusCodes: "200", No: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, ids)

	call, _ := srv.LastCall()
	assert.Equal(t, "httptest.create", call.Method)
	assert.Equal(t, testToken, call.Auth)
	assert.JSONEq(t, `{
		"name": "Homepage check",
		"hostid": "10105",
		"steps": [{"name": "Homepage", "url": "https://example.com", "status_codes": "200", "no": "1"}]
	}`, string(call.Params))
}

func TestGetWebScenarios(t *testing.T) {
	c, srv := loggedIn(t, V7)
	srv.HandleResult("httptest.get", []any{
		map[string]any{
			"httptestid": "5",
			"name":       "Homepage check",
			"hostid":     "10105",
			"steps": []any{
				map[string]any{"httpstepid": "9", "name": "Homepage", "url": "https://example.com", "no": "1", "status_codes": "200"},
				map[string]any{"httpstepid": "10", "name": "Login", "url": "https://example.com/login", "no": "2"},
			},
		},
	})

	scenarios, err := c.GetWebScenarios(context.Background(), WebScenarioGetParams{SelectSteps: OutputExtend})
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	require.Len(t, scenarios[0].Steps, 2)
	assert.Equal(t, 2, scenarios[0].Steps[1].No)
	assert.Equal(t, "https://example.com/login", scenarios[0].Steps[1].URL)

	call, _ := srv.LastCall()
	assert.JSONEq(t, `{"selectSteps":"extend"}`, string(call.Params))
}

func TestGetWebScenariosMissingID(t *testing.T) {
	c, srv := loggedIn(t, V7)
	srv.HandleResult("httptest.get", []any{map[string]any{"name": "x"}})

	_, err := c.GetWebScenarios(context.Background(), WebScenarioGetParams{})
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "[0].httptestid", derr.Path)
}
