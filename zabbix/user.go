//go:build !zabbix_nouser

package zabbix

import "context"

// User is a user record returned by user.get.
type User struct {
	UserID     string `json:"userid" zabbix:"required"`
	Username   string `json:"username"`
	Name       string `json:"name,omitempty"`
	Surname    string `json:"surname,omitempty"`
	RoleID     string `json:"roleid,omitempty"`
	Type       string `json:"type,omitempty"`
	URL        string `json:"url,omitempty"`
	Lang       string `json:"lang,omitempty"`
	Theme      string `json:"theme,omitempty"`
	Autologin  string `json:"autologin,omitempty"`
	Autologout string `json:"autologout,omitempty"`
	Refresh    string `json:"refresh,omitempty"`
	// UserGroups is filled by the selectUsrgrps option.
	UserGroups []UserGroup `json:"usrgrps,omitempty"`
}

// UserGroupID references a user group by id.
type UserGroupID struct {
	UserGroupID string `json:"usrgrpid" zabbix:"required"`
}

// UserMedia is a media entry of a user. SendTo is a string for most media
// types and a list of addresses for email.
type UserMedia struct {
	MediaTypeID string `json:"mediatypeid"`
	SendTo      any    `json:"sendto"`
	Active      int    `json:"active"`
	Severity    int    `json:"severity"`
	Period      string `json:"period"`
}

// UserGetParams are the parameters of user.get.
type UserGetParams struct {
	GetParams
	UserIDs       []string `json:"userids,omitempty"`
	UserGroupIDs  []string `json:"usrgrpids,omitempty"`
	SelectUsrgrps Output   `json:"selectUsrgrps,omitempty"`
	SelectRole    Output   `json:"selectRole,omitempty"`
}

// CreateUserRequest are the parameters of user.create.
type CreateUserRequest struct {
	Username   string        `json:"username"`
	Password   string        `json:"passwd"`
	RoleID     string        `json:"roleid"`
	UserGroups []UserGroupID `json:"usrgrps"`
	Name       string        `json:"name,omitempty"`
	Surname    string        `json:"surname,omitempty"`
	URL        string        `json:"url,omitempty"`
	Autologin  *int          `json:"autologin,omitempty"`
	Autologout string        `json:"autologout,omitempty"`
	Lang       string        `json:"lang,omitempty"`
	Refresh    string        `json:"refresh,omitempty"`
	Theme      string        `json:"theme,omitempty"`
	// Medias is sent as user_medias or medias depending on the protocol
	// variant.
	Medias []UserMedia `json:"-"`
}

// GetUsers calls user.get.
func (c *Client) GetUsers(ctx context.Context, params UserGetParams) ([]User, error) {
	return getRecords[User](ctx, c, "user.get", params)
}

// CreateUser calls user.create and returns the new user ids.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) ([]string, error) {
	var p any = req
	if len(req.Medias) > 0 {
		members, err := encodeWith(req, map[string]any{c.variant.userMediasKey: req.Medias})
		if err != nil {
			return nil, err
		}
		p = members
	}
	return c.create(ctx, "user.create", "userids", p)
}
