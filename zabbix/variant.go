package zabbix

// AuthPlacement says where a session token travels on authenticated calls.
type AuthPlacement int

const (
	// AuthInBody sends the token as the "auth" member of the request object.
	AuthInBody AuthPlacement = iota + 1
	// AuthInHeader sends the token as an "Authorization: Bearer" header and
	// leaves "auth" out of the body.
	AuthInHeader
)

func (p AuthPlacement) String() string {
	switch p {
	case AuthInBody:
		return "body"
	case AuthInHeader:
		return "header"
	default:
		return "unknown"
	}
}

// Variant describes one server API generation: where the token goes, which
// typed methods exist, and the few field names that differ between them.
//
// A client is bound to one Variant for its lifetime. DefaultVariant is chosen
// at build time with the zabbix_v6 build tag.
type Variant struct {
	name string
	auth AuthPlacement
	// methods is the set of typed methods the server generation provides.
	methods map[string]bool
	// userMediasKey is the user.create member carrying media.
	userMediasKey string
	// hostGroupsSelect is the host.get option returning a host's groups.
	hostGroupsSelect string
}

// Name returns the variant's short name, "v6" or "v7".
func (v Variant) Name() string { return v.name }

// Auth returns the variant's token placement rule.
func (v Variant) Auth() AuthPlacement { return v.auth }

// Supports reports whether method is one of the variant's typed methods.
func (v Variant) Supports(method string) bool {
	return v.methods[method]
}

func (v Variant) isZero() bool { return v.name == "" }

// noAuthMethods never carry a token, in either variant.
var noAuthMethods = map[string]bool{
	"apiinfo.version":          true,
	"user.login":               true,
	"user.checkAuthentication": true,
}

// requiresAuth reports whether method needs a session token.
func requiresAuth(method string) bool {
	return !noAuthMethods[method]
}

func methodSet(methods ...string) map[string]bool {
	out := make(map[string]bool, len(methods))
	for _, m := range methods {
		out[m] = true
	}
	return out
}

var commonMethods = []string{
	"apiinfo.version",
	"user.login",
	"user.logout",
	"host.get", "host.create", "host.update",
	"hostgroup.get", "hostgroup.create",
	"item.get", "item.create",
	"trigger.get", "trigger.create",
	"httptest.get", "httptest.create",
	"user.get", "user.create",
	"usergroup.get", "usergroup.create",
}

var (
	// V6 is the Zabbix 6.0 API: token in the request body.
	V6 = Variant{
		name:             "v6",
		auth:             AuthInBody,
		methods:          methodSet(commonMethods...),
		userMediasKey:    "user_medias",
		hostGroupsSelect: "selectGroups",
	}
	// V7 is the Zabbix 7.x API: bearer token header.
	V7 = Variant{
		name:             "v7",
		auth:             AuthInHeader,
		methods:          methodSet(commonMethods...),
		userMediasKey:    "medias",
		hostGroupsSelect: "selectHostGroups",
	}
)
