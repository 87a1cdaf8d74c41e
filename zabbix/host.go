//go:build !zabbix_nohost

package zabbix

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// HostStatus is whether a host is monitored.
type HostStatus int

const (
	HostMonitored   HostStatus = 0
	HostUnmonitored HostStatus = 1
)

func (s HostStatus) MarshalJSON() ([]byte, error) {
	if s != HostMonitored && s != HostUnmonitored {
		return nil, fmt.Errorf("zabbix: invalid host status %d", int(s))
	}
	return json.Marshal(strconv.Itoa(int(s)))
}

func (s *HostStatus) UnmarshalJSON(data []byte) error {
	v, err := enumCode(data, reflect.TypeFor[HostStatus](), 0, 1)
	if err != nil {
		return err
	}
	*s = HostStatus(v)
	return nil
}

// HostInterface is an agent, SNMP, IPMI or JMX interface of a host.
//
// Numeric properties travel as strings, as the server returns them.
type HostInterface struct {
	InterfaceID string `json:"interfaceid,omitempty"`
	Type        string `json:"type"`
	Main        string `json:"main"`
	UseIP       string `json:"useip"`
	IP          string `json:"ip"`
	DNS         string `json:"dns"`
	Port        string `json:"port"`
}

// Host is a host record returned by host.get.
type Host struct {
	HostID      string     `json:"hostid" zabbix:"required"`
	Host        string     `json:"host"`
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Status      HostStatus `json:"status"`
	// Groups is filled by the v6 selectGroups option.
	Groups []HostGroup `json:"groups,omitempty"`
	// HostGroups is filled by the v7 selectHostGroups option.
	HostGroups []HostGroup      `json:"hostgroups,omitempty"`
	Interfaces []HostInterface  `json:"interfaces,omitempty"`
	Tags       []Tag            `json:"tags,omitempty"`
	Templates  []TemplateID     `json:"parentTemplates,omitempty"`
	Macros     []Macro          `json:"macros,omitempty"`
	Inventory  *json.RawMessage `json:"inventory,omitempty"`
}

// HostGetParams are the parameters of host.get.
type HostGetParams struct {
	GetParams
	HostIDs  []string `json:"hostids,omitempty"`
	GroupIDs []string `json:"groupids,omitempty"`
	// SelectHostGroups returns each host's groups. The option is sent under
	// the name the client's protocol variant uses.
	SelectHostGroups Output `json:"-"`
	SelectInterfaces Output `json:"selectInterfaces,omitempty"`
	SelectTags       Output `json:"selectTags,omitempty"`
	SelectMacros     Output `json:"selectMacros,omitempty"`
	SelectInventory  Output `json:"selectInventory,omitempty"`
}

// CreateHostRequest are the parameters of host.create.
type CreateHostRequest struct {
	Host        string          `json:"host"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Groups      []HostGroupID   `json:"groups"`
	Interfaces  []HostInterface `json:"interfaces,omitempty"`
	Tags        []Tag           `json:"tags,omitempty"`
	Templates   []TemplateID    `json:"templates,omitempty"`
	Macros      []Macro         `json:"macros,omitempty"`
	Status      *HostStatus     `json:"status,omitempty"`
	// InventoryMode is -1 (disabled), 0 (manual) or 1 (automatic).
	InventoryMode *int              `json:"inventory_mode,omitempty"`
	Inventory     map[string]string `json:"inventory,omitempty"`
}

// UpdateHostRequest are the parameters of host.update. Unset fields are
// left unchanged on the server.
type UpdateHostRequest struct {
	HostID      string        `json:"hostid"`
	Host        string        `json:"host,omitempty"`
	Name        string        `json:"name,omitempty"`
	Description string        `json:"description,omitempty"`
	Status      *HostStatus   `json:"status,omitempty"`
	Groups      []HostGroupID `json:"groups,omitempty"`
	Tags        []Tag         `json:"tags,omitempty"`
}

// GetHosts calls host.get.
func (c *Client) GetHosts(ctx context.Context, params HostGetParams) ([]Host, error) {
	var p any = params
	if len(params.SelectHostGroups) > 0 {
		members, err := encodeWith(params, map[string]any{c.variant.hostGroupsSelect: params.SelectHostGroups})
		if err != nil {
			return nil, err
		}
		p = members
	}
	return getRecords[Host](ctx, c, "host.get", p)
}

// CreateHost calls host.create and returns the new host ids.
func (c *Client) CreateHost(ctx context.Context, req CreateHostRequest) ([]string, error) {
	return c.create(ctx, "host.create", "hostids", req)
}

// UpdateHost calls host.update and returns the updated host ids.
func (c *Client) UpdateHost(ctx context.Context, req UpdateHostRequest) ([]string, error) {
	return c.create(ctx, "host.update", "hostids", req)
}

// DisableHost stops monitoring a host.
func (c *Client) DisableHost(ctx context.Context, hostID string) ([]string, error) {
	status := HostUnmonitored
	return c.UpdateHost(ctx, UpdateHostRequest{HostID: hostID, Status: &status})
}
