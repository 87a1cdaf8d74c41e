// Package zabbixtest provides an in-process Zabbix API stub for tests.
//
// A Server answers JSON-RPC 2.0 requests over HTTP with scripted results,
// remote errors or literal response bodies, and records every call so
// tests can assert on what the client sent:
//
//	srv := zabbixtest.New(t)
//	srv.HandleResult("user.login", "0424bd59b807674191e7d77572075f33")
//	client, _ := zabbix.NewClient(zabbix.Config{URL: srv.URL()})
package zabbixtest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mnehpets/zabbixrpc/jsonrpc"
)

// Path is the endpoint path served, as on a real frontend.
const Path = "/api_jsonrpc.php"

// HandlerFunc computes the result of one method call. Returning a
// *jsonrpc.JSONRPCError sends it as is; any other error is sent as a Zabbix
// application error with the error text as data.
type HandlerFunc func(ctx context.Context, params json.RawMessage) (any, error)

// Call is one request received by the server.
type Call struct {
	Method string
	Params json.RawMessage
	ID     json.RawMessage
	// Auth is the "auth" member of the request body, if any.
	Auth string
	// Bearer is the token from an "Authorization: Bearer" header, if any.
	Bearer string
	Header http.Header
}

// HasAuth reports whether the call carried a token in the body or header.
func (c Call) HasAuth() bool { return c.Auth != "" || c.Bearer != "" }

type route struct {
	handler HandlerFunc
	raw     []byte
	status  int
}

// Server is a stub Zabbix API endpoint.
type Server struct {
	srv *httptest.Server

	mu     sync.Mutex
	routes map[string]route
	calls  []Call
	token  string
}

// New starts a plain HTTP server that is closed when the test ends.
func New(t testing.TB) *Server {
	return start(t, httptest.NewServer)
}

// NewTLS starts an HTTPS server with a self-signed certificate.
func NewTLS(t testing.TB) *Server {
	return start(t, httptest.NewTLSServer)
}

func start(t testing.TB, listen func(http.Handler) *httptest.Server) *Server {
	t.Helper()
	s := &Server{routes: make(map[string]route)}
	s.srv = listen(http.HandlerFunc(s.serveHTTP))
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the API endpoint URL.
func (s *Server) URL() string { return s.srv.URL + Path }

// Client returns an HTTP client that trusts the server's certificate.
func (s *Server) Client() *http.Client { return s.srv.Client() }

// Handle registers fn for method, replacing any previous registration.
func (s *Server) Handle(method string, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method] = route{handler: fn}
}

// HandleResult answers method with a fixed result.
func (s *Server) HandleResult(method string, result any) {
	s.Handle(method, func(context.Context, json.RawMessage) (any, error) {
		return result, nil
	})
}

// HandleError answers method with a fixed JSON-RPC error object.
func (s *Server) HandleError(method string, code int, message, data string) {
	rpcErr := &jsonrpc.JSONRPCError{Code: code, Message: message, Data: data}
	s.Handle(method, func(context.Context, json.RawMessage) (any, error) {
		return nil, rpcErr
	})
}

// HandleRaw answers method with body verbatim, bypassing the envelope.
func (s *Server) HandleRaw(method, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method] = route{raw: []byte(body)}
}

// HandleStatus answers method with an empty body and the given HTTP status.
func (s *Server) HandleStatus(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method] = route{status: status}
}

// RequireAuth makes every method except apiinfo.version, user.login and
// user.checkAuthentication fail unless the call carries token, in the body
// or as a bearer header. An empty token turns the check off.
func (s *Server) RequireAuth(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Calls returns the calls received so far, oldest first.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// LastCall returns the most recent call. It reports false if none was made.
func (s *Server) LastCall() (Call, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return Call{}, false
	}
	return s.calls[len(s.calls)-1], true
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id"`
	Auth    string          `json:"auth"`
}

var openMethods = map[string]bool{
	"apiinfo.version":          true,
	"user.login":               true,
	"user.checkAuthentication": true,
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "JSON-RPC requires POST method", http.StatusMethodNotAllowed)
		return
	}
	contentType := r.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req request
	if err := json.Unmarshal(body, &req); err != nil {
		writeResponse(w, nil, nil, jsonrpc.NewError(jsonrpc.CodeParseError, "Parse error."))
		return
	}
	bearer, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")

	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method: req.Method,
		Params: req.Params,
		ID:     req.ID,
		Auth:   req.Auth,
		Bearer: bearer,
		Header: r.Header.Clone(),
	})
	rt, found := s.routes[req.Method]
	token := s.token
	s.mu.Unlock()

	if req.JSONRPC != jsonrpc.Version || req.Method == "" {
		writeResponse(w, req.ID, nil, jsonrpc.NewError(jsonrpc.CodeInvalidRequest, "Invalid Request."))
		return
	}
	if token != "" && !openMethods[req.Method] && req.Auth != token && bearer != token {
		writeResponse(w, req.ID, nil, &jsonrpc.JSONRPCError{
			Code:    jsonrpc.CodeInvalidParams,
			Message: "Invalid params.",
			Data:    "Not authorized.",
		})
		return
	}
	if !found {
		writeResponse(w, req.ID, nil, &jsonrpc.JSONRPCError{
			Code:    jsonrpc.CodeMethodNotFound,
			Message: "Method not found.",
			Data:    "Incorrect API \"" + req.Method + "\".",
		})
		return
	}

	switch {
	case rt.raw != nil:
		w.Header().Set("Content-Type", "application/json")
		w.Write(rt.raw)
	case rt.status != 0:
		w.WriteHeader(rt.status)
	default:
		result, err := rt.handler(r.Context(), req.Params)
		if err != nil {
			writeResponse(w, req.ID, nil, mapError(err))
			return
		}
		writeResponse(w, req.ID, result, nil)
	}
}

func writeResponse(w http.ResponseWriter, id json.RawMessage, result any, rpcErr *jsonrpc.JSONRPCError) {
	resp := jsonrpc.Response{JSONRPC: jsonrpc.Version, Error: rpcErr}
	if len(id) > 0 {
		resp.ID = id
	}
	if rpcErr == nil {
		data, err := json.Marshal(result)
		if err != nil {
			resp.Error = jsonrpc.NewError(jsonrpc.CodeInternalError, "Internal error.")
		} else {
			resp.Result = data
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// mapError converts a handler error to a JSON-RPC error.
// JSONRPCError values keep their code; other errors become application errors.
func mapError(err error) *jsonrpc.JSONRPCError {
	var rpcErr *jsonrpc.JSONRPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return &jsonrpc.JSONRPCError{
		Code:    jsonrpc.CodeApplicationError,
		Message: "Application error.",
		Data:    err.Error(),
	}
}
