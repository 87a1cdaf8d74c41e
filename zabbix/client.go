package zabbix

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/mnehpets/zabbixrpc/jsonrpc"
)

// Config configures a Client. Only URL is required.
type Config struct {
	// URL is the API endpoint, e.g. https://zabbix.example.com/api_jsonrpc.php.
	URL string
	// Username and Password are used by Authenticate.
	Username string
	Password string
	// Token is a pre-issued session or API token. When set the client starts
	// authenticated.
	Token string
	// Variant selects the server API generation. Defaults to DefaultVariant.
	Variant Variant

	Timeout            time.Duration
	InsecureSkipVerify bool
	UserAgent          string
	// HTTPClient replaces the HTTP client built from Timeout and
	// InsecureSkipVerify.
	HTTPClient *http.Client
	// Transport replaces HTTP entirely. Tests use it to stub the server.
	Transport Transport

	// Logger receives per-call debug events. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// Client is a Zabbix API client bound to one endpoint and one protocol
// variant. A Client is safe for concurrent use; each call is a single
// synchronous exchange.
type Client struct {
	url       string
	variant   Variant
	transport Transport
	session   session
	username  string
	password  string
	nextID    atomic.Int64
	log       zerolog.Logger
}

// NewClient creates a Client. It returns an error if the URL is missing or
// is not an absolute http or https URL.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("zabbix: URL is required")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("zabbix: invalid URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("zabbix: invalid URL %q: want an absolute http or https URL", cfg.URL)
	}

	variant := cfg.Variant
	if variant.isZero() {
		variant = DefaultVariant
	}
	transport := cfg.Transport
	if transport == nil {
		transport = NewHTTPTransport(HTTPTransportOptions{
			Timeout:            cfg.Timeout,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			UserAgent:          cfg.UserAgent,
			Client:             cfg.HTTPClient,
		})
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	c := &Client{
		url:       cfg.URL,
		variant:   variant,
		transport: transport,
		username:  cfg.Username,
		password:  cfg.Password,
		log:       logger.With().Str("component", "zabbix").Str("variant", variant.Name()).Logger(),
	}
	c.session.set(cfg.Token)
	return c, nil
}

// URL returns the endpoint the client talks to.
func (c *Client) URL() string { return c.url }

// Variant returns the protocol variant the client is bound to.
func (c *Client) Variant() Variant { return c.variant }

// Token returns the current session token, or "" when unauthenticated.
func (c *Client) Token() string { return c.session.get() }

// SetToken installs a token obtained elsewhere, e.g. an API token or a
// session restored from disk. An empty token returns the client to the
// unauthenticated state.
func (c *Client) SetToken(token string) { c.session.set(token) }

// Authenticated reports whether the client holds a session token.
func (c *Client) Authenticated() bool { return c.session.get() != "" }

// APIVersion calls apiinfo.version. It needs no session.
func (c *Client) APIVersion(ctx context.Context) (string, error) {
	const method = "apiinfo.version"
	raw, err := c.typed(ctx, method, nil)
	if err != nil {
		return "", err
	}
	return decodeString(method, raw)
}

// Login calls user.login and stores the returned token, replacing any
// previous one. The token is also returned.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	const method = "user.login"
	params := map[string]string{"username": username, "password": password}
	raw, err := c.typed(ctx, method, params)
	if err != nil {
		return "", err
	}
	token, err := decodeString(method, raw)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", &DecodeError{Method: method, Reason: "empty session token"}
	}
	c.session.set(token)
	c.log.Debug().Str("user", username).Msg("session established")
	return token, nil
}

// Authenticate logs in with the credentials from Config.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.username == "" {
		return errors.New("zabbix: no username configured")
	}
	_, err := c.Login(ctx, c.username, c.password)
	return err
}

// Logout calls user.logout and, on success, drops the session token.
func (c *Client) Logout(ctx context.Context) error {
	const method = "user.logout"
	token := c.session.get()
	raw, err := c.typed(ctx, method, []string{})
	if err != nil {
		return err
	}
	var ok bool
	if derr := decodeInto(raw, &ok, ""); derr != nil {
		derr.Method = method
		return derr
	}
	c.session.clearIf(token)
	return nil
}

// Call invokes any API method with the given params and returns the raw
// result. The method is not checked against the protocol variant and the
// result is not validated; the session rules still apply.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	return c.exchange(ctx, method, params)
}

// CallInto is Call followed by json.Unmarshal of the result into out.
func (c *Client) CallInto(ctx context.Context, method string, params, out any) error {
	raw, err := c.exchange(ctx, method, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		derr := translate(err, "")
		derr.Method = method
		return derr
	}
	return nil
}

// typed is the path for the typed methods: the method must belong to the
// client's variant.
func (c *Client) typed(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if !c.variant.Supports(method) {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedMethod, method, c.variant.Name())
	}
	return c.exchange(ctx, method, params)
}

// exchange runs one request through session, codec and transport.
func (c *Client) exchange(ctx context.Context, method string, params any) (json.RawMessage, error) {
	token, err := c.session.credential(method)
	if err != nil {
		return nil, err
	}

	id := c.nextID.Add(1)
	post := &Post{URL: c.url}
	var bodyAuth string
	if token != "" {
		switch c.variant.Auth() {
		case AuthInHeader:
			post.Token = token
		default:
			bodyAuth = token
		}
	}
	post.Body, err = jsonrpc.Encode(method, params, id, bodyAuth)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := c.transport.Send(ctx, post)
	elapsed := time.Since(start)
	if err != nil {
		var terr *TransportError
		if !errors.As(err, &terr) {
			err = &TransportError{URL: c.url, Err: err}
		}
		c.log.Error().Err(err).Str("method", method).Int64("id", id).Dur("elapsed", elapsed).Msg("call failed")
		return nil, err
	}

	result, err := jsonrpc.Decode(body)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Int64("id", id).Dur("elapsed", elapsed).Msg("call rejected")
		return nil, err
	}
	c.log.Debug().Str("method", method).Int64("id", id).Dur("elapsed", elapsed).Msg("call")
	return result, nil
}

// getRecords runs a typed get method and decodes its records strictly.
func getRecords[T any](ctx context.Context, c *Client, method string, params any) ([]T, error) {
	raw, err := c.typed(ctx, method, params)
	if err != nil {
		return nil, err
	}
	return decodeRecords[T](method, raw)
}

// create runs a typed create or update method and returns the identifiers
// listed under idsKey.
func (c *Client) create(ctx context.Context, method, idsKey string, params any) ([]string, error) {
	raw, err := c.typed(ctx, method, params)
	if err != nil {
		return nil, err
	}
	return decodeIDs(method, idsKey, raw)
}
