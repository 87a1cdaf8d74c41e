//go:build !zabbix_nouser

package zabbix

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserMediasByVariant(t *testing.T) {
	tests := []struct {
		variant Variant
		key     string
	}{
		{V6, "user_medias"},
		{V7, "medias"},
	}
	for _, tt := range tests {
		t.Run(tt.variant.Name(), func(t *testing.T) {
			c, srv := loggedIn(t, tt.variant)
			srv.HandleResult("user.create", map[string]any{"userids": []string{"12"}})

			ids, err := c.CreateUser(context.Background(), CreateUserRequest{
				Username:   "jdoe",
				Password:   "Secr3t-passw0rd",
				RoleID:     "1",
				UserGroups: []UserGroupID{{UserGroupID: "7"}},
				Medias: []UserMedia{
					{MediaTypeID: "1", SendTo: []string{"jdoe@example.com"}, Active: 0, Severity: 63, Period: "1-7,00:00-24:00"},
				},
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"12"}, ids)

			call, _ := srv.LastCall()
			assert.JSONEq(t, `{
				"username": "jdoe",
				"passwd": "Secr3t-passw0rd",
				"roleid": "1",
				"usrgrps": [{"usrgrpid": "7"}],
				"`+tt.key+`": [{"mediatypeid": "1", "sendto": ["jdoe@example.com"], "active": 0, "severity": 63, "period": "1-7,00:00-24:00"}]
			}`, string(call.Params))
		})
	}
}

func TestCreateUserWithoutMedias(t *testing.T) {
	c, srv := loggedIn(t, V7)
	srv.HandleResult("user.create", map[string]any{"userids": []string{"13"}})

	_, err := c.CreateUser(context.Background(), CreateUserRequest{
		Username:   "api",
		Password:   "Secr3t-passw0rd",
		RoleID:     "3",
		UserGroups: []UserGroupID{{UserGroupID: "7"}},
		Name:       "API",
	})
	require.NoError(t, err)

	call, _ := srv.LastCall()
	assert.JSONEq(t, `{"username":"api","passwd":"Secr3t-passw0rd","roleid":"3","usrgrps":[{"usrgrpid":"7"}],"name":"API"}`, string(call.Params))
}

func TestGetUsers(t *testing.T) {
	c, srv := loggedIn(t, V7)
	srv.HandleResult("user.get", []any{
		map[string]any{"userid": "1", "username": "Admin", "name": "Zabbix", "surname": "Administrator", "roleid": "3",
			"usrgrps": []any{map[string]any{"usrgrpid": "7", "name": "Zabbix administrators"}}},
	})

	users, err := c.GetUsers(context.Background(), UserGetParams{
		GetParams:     GetParams{Filter: map[string]any{"username": "Admin"}},
		SelectUsrgrps: OutputExtend,
	})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Admin", users[0].Username)
	require.Len(t, users[0].UserGroups, 1)
	assert.Equal(t, "Zabbix administrators", users[0].UserGroups[0].Name)

	call, _ := srv.LastCall()
	assert.JSONEq(t, `{"filter":{"username":"Admin"},"selectUsrgrps":"extend"}`, string(call.Params))
}

func TestGetUsersNestedGroupMissingID(t *testing.T) {
	c, srv := loggedIn(t, V7)
	srv.HandleResult("user.get", []any{
		map[string]any{"userid": "1", "usrgrps": []any{map[string]any{"name": "x"}}},
	})

	_, err := c.GetUsers(context.Background(), UserGetParams{})
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "[0].usrgrps[0].usrgrpid", derr.Path)
}

func TestUserGroups(t *testing.T) {
	c, srv := loggedIn(t, V7)
	srv.HandleResult("usergroup.create", map[string]any{"usrgrpids": []string{"20"}})
	srv.HandleResult("usergroup.get", []any{
		map[string]any{
			"usrgrpid":         "20",
			"name":             "Operators",
			"gui_access":       "0",
			"hostgroup_rights": []any{map[string]any{"id": "2", "permission": "3"}},
			"users":            []any{map[string]any{"userid": "12", "username": "jdoe"}},
		},
	})

	ids, err := c.CreateUserGroup(context.Background(), CreateUserGroupRequest{
		Name:            "Operators",
		HostGroupRights: []Permission{{ID: "2", Permission: 3}},
		TagFilters:      []TagFilter{{GroupID: "2", Tag: "service", Value: "web"}},
		Users:           []UserGroupUser{{UserID: "12"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"20"}, ids)
	call, _ := srv.LastCall()
	assert.JSONEq(t, `{
		"name": "Operators",
		"hostgroup_rights": [{"id": "2", "permission": "3"}],
		"tag_filters": [{"groupid": "2", "tag": "service", "value": "web"}],
		"users": [{"userid": "12"}]
	}`, string(call.Params))

	groups, err := c.GetUserGroups(context.Background(), UserGroupGetParams{
		UserGroupIDs:          []string{"20"},
		SelectUsers:           OutputExtend,
		SelectHostGroupRights: OutputExtend,
	})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, []Permission{{ID: "2", Permission: 3}}, groups[0].HostGroupRights)
	assert.Equal(t, "jdoe", groups[0].Users[0].Username)
	call, _ = srv.LastCall()
	assert.JSONEq(t, `{"usrgrpids":["20"],"selectUsers":"extend","selectHostGroupRights":"extend"}`, string(call.Params))
}
