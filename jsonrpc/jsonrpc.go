package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Version is the only protocol version tag this package produces or accepts.
const Version = "2.0"

const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	// CodeApplicationError is returned by Zabbix for failures inside an API method.
	CodeApplicationError = -32500
)

// ErrProtocol matches every error produced by Decode: both malformed
// envelopes and remote JSON-RPC error objects.
var ErrProtocol = errors.New("jsonrpc: protocol error")

// maxBodyExcerpt bounds how much of an offending body is kept in a MalformedError.
const maxBodyExcerpt = 512

// JSONRPCError is a JSON-RPC error object returned by the remote side.
//
// Code, Message and Data are carried exactly as received.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *JSONRPCError) Error() string {
	if e == nil {
		return "jsonrpc: error: <nil>"
	}
	msg := "jsonrpc: remote error " + strconv.Itoa(e.Code) + ": " + e.Message
	if e.Data != "" {
		msg += " " + e.Data
	}
	return msg
}

func (e *JSONRPCError) Is(target error) bool {
	return target == ErrProtocol
}

func NewError(code int, message string) *JSONRPCError {
	return &JSONRPCError{Code: code, Message: message}
}

// MalformedError reports a response body that is not a well-formed JSON-RPC
// response envelope.
type MalformedError struct {
	Reason string
	// Body is a prefix of the offending response body.
	Body string
}

func (e *MalformedError) Error() string {
	if e == nil {
		return "jsonrpc: malformed response: <nil>"
	}
	return "jsonrpc: malformed response: " + e.Reason
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrProtocol
}

func malformed(reason string, body []byte) *MalformedError {
	if len(body) > maxBodyExcerpt {
		body = body[:maxBodyExcerpt]
	}
	return &MalformedError{Reason: reason, Body: string(body)}
}

// Request is a JSON-RPC 2.0 request envelope.
//
// Auth carries a session token in the request body for servers that expect
// it there. It is omitted from the wire when empty.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int64  `json:"id"`
	Auth    string `json:"auth,omitempty"`
}

// Response is a JSON-RPC 2.0 response envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
	ID      any             `json:"id"`
}

// Encode builds the wire form of a request.
//
// params is marshaled as given. A nil params is sent as an empty object.
func Encode(method string, params any, id int64, auth string) ([]byte, error) {
	if method == "" {
		return nil, errors.New("jsonrpc: encode: method required")
	}
	if params == nil {
		params = struct{}{}
	}
	data, err := json.Marshal(Request{
		JSONRPC: Version,
		Method:  method,
		Params:  params,
		ID:      id,
		Auth:    auth,
	})
	if err != nil {
		return nil, fmt.Errorf("jsonrpc: encode %s: %w", method, err)
	}
	return data, nil
}

// Decode unwraps a response body.
//
// It returns the raw result member on success, a *JSONRPCError when the body
// carries an error member, and a *MalformedError for anything that is not a
// response envelope with exactly one of result and error.
func Decode(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, malformed("empty body", body)
	}
	if trimmed[0] != '{' {
		return nil, malformed("body is not a JSON object", body)
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &members); err != nil {
		return nil, malformed("invalid JSON: "+err.Error(), body)
	}

	result, hasResult := members["result"]
	rawErr, hasError := members["error"]
	switch {
	case hasResult && hasError:
		return nil, malformed("both result and error present", body)
	case !hasResult && !hasError:
		return nil, malformed("neither result nor error present", body)
	case hasError:
		return nil, decodeError(rawErr, body)
	}
	return result, nil
}

func decodeError(raw json.RawMessage, body []byte) error {
	var fields struct {
		Code    *int            `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return malformed("invalid error member: "+err.Error(), body)
	}
	if fields.Code == nil {
		return malformed("error member without code", body)
	}
	rpcErr := &JSONRPCError{Code: *fields.Code, Message: fields.Message}
	if len(fields.Data) > 0 && !bytes.Equal(fields.Data, []byte("null")) {
		// Zabbix always sends data as a string; anything else is kept as its JSON text.
		var s string
		if err := json.Unmarshal(fields.Data, &s); err == nil {
			rpcErr.Data = s
		} else {
			rpcErr.Data = string(fields.Data)
		}
	}
	return rpcErr
}
