// Package zabbix is a client for the Zabbix management API.
//
// A Client sends one JSON-RPC 2.0 request per call to the frontend's
// api_jsonrpc.php endpoint and maps the result into typed records.
//
// # Basic Usage
//
//	client, err := zabbix.NewClient(zabbix.Config{
//	    URL:      "https://zabbix.example.com/api_jsonrpc.php",
//	    Username: "Admin",
//	    Password: "zabbix",
//	})
//	if err != nil {
//	    return err
//	}
//	if err := client.Authenticate(ctx); err != nil {
//	    return err
//	}
//	hosts, err := client.GetHosts(ctx, zabbix.HostGetParams{
//	    GetParams: zabbix.GetParams{Output: zabbix.OutputExtend},
//	})
//
// # Sessions
//
// apiinfo.version, user.login and user.checkAuthentication need no
// session. Every other method returns ErrNotAuthenticated, without any
// network I/O, until Login, Authenticate, SetToken or Config.Token has
// provided a token.
//
// # Protocol Variants
//
// Zabbix 6.0 expects the token as the "auth" member of the request body;
// Zabbix 7.x expects an "Authorization: Bearer" header. A client is bound to
// one Variant. DefaultVariant is V7 unless the module is built with the
// zabbix_v6 tag; Config.Variant overrides it.
//
// # Entity Units
//
// Host and host group, item, trigger, web scenario, and user and user group
// support can each be compiled out with the zabbix_nohost, zabbix_noitem,
// zabbix_notrigger, zabbix_nowebscenario and zabbix_nouser build tags. Call
// reaches any method regardless.
//
// # Errors
//
// Failures are reported as one of:
//   - *TransportError: the HTTP exchange did not complete with a 2xx status.
//   - *MalformedError: the body was not a JSON-RPC response envelope.
//   - *RemoteError: the server returned an error object; code, message and
//     data are passed through unchanged.
//   - *DecodeError: the result did not have the expected shape. Path
//     locates the offending value, e.g. "[0].hostid".
//   - ErrNotAuthenticated, ErrUnsupportedMethod.
//
// MalformedError and RemoteError both match ErrProtocol.
package zabbix
