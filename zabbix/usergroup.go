//go:build !zabbix_nouser

package zabbix

import "context"

// Permission grants a user group access to a host or template group.
// Permission is 0 deny, 2 read-only or 3 read-write.
type Permission struct {
	ID         string `json:"id" zabbix:"required"`
	Permission int    `json:"permission,string"`
}

// TagFilter restricts a user group to problems carrying a tag.
type TagFilter struct {
	GroupID string `json:"groupid"`
	Tag     string `json:"tag,omitempty"`
	Value   string `json:"value,omitempty"`
}

// UserGroupUser references a user by id.
type UserGroupUser struct {
	UserID string `json:"userid" zabbix:"required"`
}

// UserGroup is a user group record returned by usergroup.get.
type UserGroup struct {
	UserGroupID string `json:"usrgrpid" zabbix:"required"`
	Name        string `json:"name"`
	GUIAccess   string `json:"gui_access,omitempty"`
	UsersStatus string `json:"users_status,omitempty"`
	DebugMode   string `json:"debug_mode,omitempty"`
	// Users is filled by the selectUsers option.
	Users []User `json:"users,omitempty"`
	// Rights are filled by the selectHostGroupRights and
	// selectTemplateGroupRights options.
	HostGroupRights     []Permission `json:"hostgroup_rights,omitempty"`
	TemplateGroupRights []Permission `json:"templategroup_rights,omitempty"`
	TagFilters          []TagFilter  `json:"tag_filters,omitempty"`
}

// UserGroupGetParams are the parameters of usergroup.get.
type UserGroupGetParams struct {
	GetParams
	UserGroupIDs              []string `json:"usrgrpids,omitempty"`
	UserIDs                   []string `json:"userids,omitempty"`
	Status                    *int     `json:"status,omitempty"`
	SelectUsers               Output   `json:"selectUsers,omitempty"`
	SelectHostGroupRights     Output   `json:"selectHostGroupRights,omitempty"`
	SelectTemplateGroupRights Output   `json:"selectTemplateGroupRights,omitempty"`
	SelectTagFilters          Output   `json:"selectTagFilters,omitempty"`
}

// CreateUserGroupRequest are the parameters of usergroup.create.
type CreateUserGroupRequest struct {
	Name                string          `json:"name"`
	DebugMode           *int            `json:"debug_mode,omitempty"`
	GUIAccess           *int            `json:"gui_access,omitempty"`
	UsersStatus         *int            `json:"users_status,omitempty"`
	HostGroupRights     []Permission    `json:"hostgroup_rights,omitempty"`
	TemplateGroupRights []Permission    `json:"templategroup_rights,omitempty"`
	TagFilters          []TagFilter     `json:"tag_filters,omitempty"`
	Users               []UserGroupUser `json:"users,omitempty"`
}

// GetUserGroups calls usergroup.get.
func (c *Client) GetUserGroups(ctx context.Context, params UserGroupGetParams) ([]UserGroup, error) {
	return getRecords[UserGroup](ctx, c, "usergroup.get", params)
}

// CreateUserGroup calls usergroup.create and returns the new user group ids.
func (c *Client) CreateUserGroup(ctx context.Context, req CreateUserGroupRequest) ([]string, error) {
	return c.create(ctx, "usergroup.create", "usrgrpids", req)
}
