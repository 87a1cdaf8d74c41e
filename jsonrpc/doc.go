// Package jsonrpc encodes JSON-RPC 2.0 requests and decodes JSON-RPC 2.0
// responses for HTTP clients.
//
// This package implements the client half of the JSON-RPC 2.0 specification
// (https://www.jsonrpc.org/specification). It knows nothing about transports
// or sessions: callers hand it a method, params, an id and an optional body
// token, and hand back the bytes they received.
//
// # Encoding
//
//	body, err := jsonrpc.Encode("host.get", params, 2, token)
//
// Params are marshaled with encoding/json exactly as given. A nil params is
// sent as an empty object. The "auth" member is only written when the token
// is non-empty.
//
// # Decoding
//
//	result, err := jsonrpc.Decode(body)
//
// A response must carry exactly one of "result" and "error":
//   - "result" present: the raw result is returned for the caller to decode.
//   - "error" present: a *JSONRPCError is returned with code, message and
//     data as sent by the server.
//   - both or neither present, or a body that is not a JSON object: a
//     *MalformedError is returned.
//
// Both error types match ErrProtocol with errors.Is.
//
// Standard error codes are defined as constants:
//   - CodeParseError (-32700)
//   - CodeInvalidRequest (-32600)
//   - CodeMethodNotFound (-32601)
//   - CodeInvalidParams (-32602)
//   - CodeInternalError (-32603)
//   - CodeApplicationError (-32500)
package jsonrpc
