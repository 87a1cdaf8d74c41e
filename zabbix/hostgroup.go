//go:build !zabbix_nohost

package zabbix

import "context"

// HostGroup is a host group record returned by hostgroup.get.
type HostGroup struct {
	GroupID string `json:"groupid" zabbix:"required"`
	Name    string `json:"name"`
}

// HostGroupID references a host group by id.
type HostGroupID struct {
	GroupID string `json:"groupid" zabbix:"required"`
}

// ID returns a reference to g.
func (g HostGroup) ID() HostGroupID {
	return HostGroupID{GroupID: g.GroupID}
}

// HostGroupGetParams are the parameters of hostgroup.get.
type HostGroupGetParams struct {
	GetParams
	GroupIDs  []string `json:"groupids,omitempty"`
	HostIDs   []string `json:"hostids,omitempty"`
	WithHosts bool     `json:"with_hosts,omitempty"`
}

// CreateHostGroupRequest are the parameters of hostgroup.create.
type CreateHostGroupRequest struct {
	Name string `json:"name"`
}

// GetHostGroups calls hostgroup.get.
func (c *Client) GetHostGroups(ctx context.Context, params HostGroupGetParams) ([]HostGroup, error) {
	return getRecords[HostGroup](ctx, c, "hostgroup.get", params)
}

// CreateHostGroup calls hostgroup.create and returns the new group ids.
func (c *Client) CreateHostGroup(ctx context.Context, req CreateHostGroupRequest) ([]string, error) {
	return c.create(ctx, "hostgroup.create", "groupids", req)
}
