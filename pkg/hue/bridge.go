package hue

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"time"

	"github.com/charmbracelet/log"
)

const applicationKeyHeader = "hue-application-key"

// Bridge talks to one Hue bridge. It holds no state besides the address, the
// credential and the HTTP client, so a value can be shared wherever its
// *http.Client can.
type Bridge struct {
	addr           netip.Addr
	baseURL        string
	applicationKey string
	httpClient     *http.Client
	logger         *log.Logger
}

type Option func(*Bridge)

func WithHTTPClient(client *http.Client) Option {
	return func(b *Bridge) {
		b.httpClient = client
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithBaseURL overrides the scheme://host the bridge is reached on.
func WithBaseURL(baseURL string) Option {
	return func(b *Bridge) {
		b.baseURL = baseURL
	}
}

// NewHTTPClient returns a client that accepts the bridge's self-signed certificate.
// A zero timeout means no timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}

func New(addr netip.Addr, opts ...Option) *Bridge {
	addr = addr.Unmap()
	host := addr.String()
	if addr.Is6() {
		host = "[" + host + "]"
	}

	b := &Bridge{
		addr:    addr,
		baseURL: "https://" + host,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.httpClient == nil {
		b.httpClient = NewHTTPClient(0)
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	return b
}

func (b *Bridge) Address() netip.Addr {
	return b.addr
}

// WithApplicationKey returns a copy of the bridge that authenticates with key.
func (b *Bridge) WithApplicationKey(key string) *Bridge {
	c := *b
	c.applicationKey = key
	return &c
}

// WithUser is the legacy name for WithApplicationKey; the v1 username and the v2
// application key are the same credential.
func (b *Bridge) WithUser(username string) *Bridge {
	return b.WithApplicationKey(username)
}

func (b *Bridge) ApplicationKey() string {
	return b.applicationKey
}

func (b *Bridge) GET(ctx context.Context, path string) ([]byte, error) {
	return b.makeRequest(ctx, http.MethodGet, path, nil)
}

func (b *Bridge) PUT(ctx context.Context, path string, body any) ([]byte, error) {
	return b.makeRequest(ctx, http.MethodPut, path, body)
}

func (b *Bridge) POST(ctx context.Context, path string, body any) ([]byte, error) {
	return b.makeRequest(ctx, http.MethodPost, path, body)
}

func (b *Bridge) makeRequest(ctx context.Context, verb string, path string, body any) ([]byte, error) {
	url := b.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &SerializationError{Err: err}
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, verb, url, bodyReader)
	if err != nil {
		return nil, &TransportError{Method: verb, URL: url, Err: err}
	}

	// set headers
	if b.applicationKey != "" {
		req.Header.Set(applicationKeyHeader, b.applicationKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	b.logger.Debug("bridge request", "method", verb, "path", path)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: verb, URL: url, Err: err}
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: verb, URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// v2 reports most rejections with a non-2xx status and an {errors} body
		if bridgeErr := bridgeErrorFrom(responseBody); bridgeErr != nil {
			b.logger.Warn("bridge rejected request", "method", verb, "path", path, "status", resp.StatusCode, "err", bridgeErr)
			return nil, bridgeErr
		}
		b.logger.Error("Error making Hue API call", "method", verb, "path", path, "status", resp.Status)
		return nil, &TransportError{Method: verb, URL: url, StatusCode: resp.StatusCode}
	}

	return responseBody, nil
}

func legacyPath(user string, format string, args ...any) string {
	return fmt.Sprintf("/api/%s/", user) + fmt.Sprintf(format, args...)
}

func resourcePath(rtype ResourceType, id ...string) string {
	if len(id) > 0 {
		return fmt.Sprintf("/clip/v2/resource/%s/%s", rtype, id[0])
	}
	return fmt.Sprintf("/clip/v2/resource/%s", rtype)
}
