package zabbix

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const defaultTimeout = 30 * time.Second

// Post is one JSON-RPC exchange handed to a Transport.
type Post struct {
	URL  string
	Body []byte
	// Token, when non-empty, is sent as a bearer Authorization header.
	Token string
}

// Transport performs a single synchronous round trip and returns the
// response body. Implementations must not retry.
type Transport interface {
	Send(ctx context.Context, p *Post) ([]byte, error)
}

// TransportFunc adapts a function to a Transport.
type TransportFunc func(ctx context.Context, p *Post) ([]byte, error)

func (f TransportFunc) Send(ctx context.Context, p *Post) ([]byte, error) {
	return f(ctx, p)
}

// HTTPTransport posts JSON-RPC bodies over HTTP.
type HTTPTransport struct {
	client    *http.Client
	userAgent string
}

// HTTPTransportOptions configures NewHTTPTransport.
type HTTPTransportOptions struct {
	// Timeout bounds each exchange. Defaults to 30s.
	Timeout time.Duration
	// InsecureSkipVerify accepts self-signed or otherwise unverifiable
	// server certificates.
	InsecureSkipVerify bool
	UserAgent          string
	// Client, when set, is used as is and the options above other than
	// UserAgent are ignored.
	Client *http.Client
}

// NewHTTPTransport creates an HTTPTransport.
func NewHTTPTransport(opts HTTPTransportOptions) *HTTPTransport {
	client := opts.Client
	if client == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		if opts.InsecureSkipVerify {
			base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		client = &http.Client{Transport: base, Timeout: opts.Timeout}
		if client.Timeout == 0 {
			client.Timeout = defaultTimeout
		}
	}
	return &HTTPTransport{client: client, userAgent: opts.UserAgent}
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, p *Post) ([]byte, error) {
	if p == nil {
		return nil, errors.New("zabbix: nil post")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(p.Body))
	if err != nil {
		return nil, &TransportError{URL: p.URL, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if p.Token != "" {
		tok := &oauth2.Token{AccessToken: p.Token, TokenType: "Bearer"}
		tok.SetAuthHeader(req)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: p.URL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: p.URL, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{URL: p.URL, StatusCode: resp.StatusCode}
	}
	return data, nil
}
