package zabbix

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mnehpets/zabbixrpc/jsonrpc"
)

var (
	// ErrNotAuthenticated is returned, before any network I/O, when a method
	// that needs a session token is called with no session established.
	ErrNotAuthenticated = errors.New("zabbix: not authenticated")
	// ErrUnsupportedMethod is returned when a typed method is not part of the
	// client's protocol variant.
	ErrUnsupportedMethod = errors.New("zabbix: method not supported by protocol variant")
	// ErrProtocol matches both MalformedError and RemoteError.
	ErrProtocol = jsonrpc.ErrProtocol
)

// RemoteError is a JSON-RPC error object returned by the server. Code,
// Message and Data are exactly what the server sent.
type RemoteError = jsonrpc.JSONRPCError

// MalformedError reports a response that is not a JSON-RPC response envelope.
type MalformedError = jsonrpc.MalformedError

// TransportError is a failure to complete the HTTP exchange: connection,
// TLS, timeout, or a non-2xx status.
type TransportError struct {
	URL string
	// StatusCode is set when the server answered with a non-2xx status.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "zabbix: transport error: <nil>"
	}
	msg := "zabbix: transport error"
	if e.StatusCode != 0 {
		msg += ": status " + strconv.Itoa(e.StatusCode) + " " + http.StatusText(e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DecodeError reports a successful result that does not have the shape the
// typed method expects.
type DecodeError struct {
	Method string
	// Path locates the offending value inside the result, e.g. "[0].hostid".
	// It is empty when the result as a whole has the wrong shape.
	Path   string
	Reason string
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "zabbix: decode error: <nil>"
	}
	path := "result"
	if e.Path != "" {
		if e.Path[0] == '[' {
			path += e.Path
		} else {
			path += "." + e.Path
		}
	}
	return "zabbix: decode " + e.Method + " " + path + ": " + e.Reason
}
