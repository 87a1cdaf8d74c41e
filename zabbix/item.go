//go:build !zabbix_noitem

package zabbix

import "context"

// Item is an item record returned by item.get.
type Item struct {
	ItemID      string `json:"itemid" zabbix:"required"`
	HostID      string `json:"hostid"`
	Name        string `json:"name"`
	Key         string `json:"key_"`
	Type        string `json:"type,omitempty"`
	ValueType   string `json:"value_type,omitempty"`
	InterfaceID string `json:"interfaceid,omitempty"`
	Delay       string `json:"delay,omitempty"`
	Units       string `json:"units,omitempty"`
	Status      string `json:"status,omitempty"`
	LastValue   string `json:"lastvalue,omitempty"`
	LastClock   string `json:"lastclock,omitempty"`
	Tags        []Tag  `json:"tags,omitempty"`
}

// ItemGetParams are the parameters of item.get.
type ItemGetParams struct {
	GetParams
	ItemIDs      []string `json:"itemids,omitempty"`
	HostIDs      []string `json:"hostids,omitempty"`
	GroupIDs     []string `json:"groupids,omitempty"`
	WithTriggers bool     `json:"with_triggers,omitempty"`
	Monitored    bool     `json:"monitored,omitempty"`
	SelectTags   Output   `json:"selectTags,omitempty"`
}

// CreateItemRequest are the parameters of item.create.
type CreateItemRequest struct {
	Name   string `json:"name"`
	Key    string `json:"key_"`
	HostID string `json:"hostid"`
	// Type is the item type, e.g. 0 for a Zabbix agent item.
	Type int `json:"type"`
	// ValueType is 0 float, 1 character, 2 log, 3 unsigned, 4 text.
	ValueType   int    `json:"value_type"`
	InterfaceID string `json:"interfaceid,omitempty"`
	Delay       string `json:"delay,omitempty"`
	Units       string `json:"units,omitempty"`
	Description string `json:"description,omitempty"`
	Tags        []Tag  `json:"tags,omitempty"`
}

// GetItems calls item.get.
func (c *Client) GetItems(ctx context.Context, params ItemGetParams) ([]Item, error) {
	return getRecords[Item](ctx, c, "item.get", params)
}

// CreateItem calls item.create and returns the new item ids.
func (c *Client) CreateItem(ctx context.Context, req CreateItemRequest) ([]string, error) {
	return c.create(ctx, "item.create", "itemids", req)
}
