package gptifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the base URL of the OpenAI platform API.
const DefaultBaseURL = "https://api.openai.com/v1"

// ErrMissingAdminKey is returned by organization endpoints when the client
// was built without an admin key.
var ErrMissingAdminKey = errors.New("admin key is not set")

// Client is a client for the OpenAI platform API.
//
// https://platform.openai.com/docs/api-reference
type Client struct {
	// APIKey is the project API key used for most requests.
	APIKey string

	// AdminKey is used for organization endpoints (costs, users).
	AdminKey string

	// Organization is sent as the OpenAI-Organization header when set.
	Organization string

	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient is the HTTP client to use for requests.
	HTTPClient *http.Client

	// Logger receives one debug event per request.
	Logger zerolog.Logger
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client to use for requests.
//
// If the client is nil, then http.DefaultClient is used.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		if c == nil {
			c = http.DefaultClient
		}
		client.HTTPClient = c
	}
}

// WithOrganization sets the organization to use for requests.
//
// https://platform.openai.com/docs/api-reference/authentication
func WithOrganization(org string) ClientOption {
	return func(client *Client) {
		client.Organization = org
	}
}

// WithAdminKey sets the admin key used by organization endpoints.
//
// https://platform.openai.com/docs/api-reference/administration
func WithAdminKey(key string) ClientOption {
	return func(client *Client) {
		client.AdminKey = key
	}
}

// WithBaseURL points the client at a different API root, such as a proxy
// or a test server. An empty value keeps DefaultBaseURL.
func WithBaseURL(u string) ClientOption {
	return func(client *Client) {
		if u != "" {
			client.BaseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(client *Client) {
		client.Logger = l
	}
}

// NewClient returns a new Client with the given API key.
//
// # Example
//
//	c := gptifier.NewClient(os.Getenv("OPENAI_API_KEY"))
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		APIKey:     apiKey,
		BaseURL:    DefaultBaseURL,
		HTTPClient: http.DefaultClient,
		Logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// StatusError is returned when the server answered with a non-2xx status
// and a body that carried no error envelope, such as a proxy's HTML page.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d: %s", e.Code, http.StatusText(e.Code))
}

// credential selects which key a request is signed with.
type credential int

const (
	projectKey credential = iota
	adminKey
)

// request is one call to the API.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	credential  credential
}

// exchange is the raw outcome of a request: whether the status was 2xx,
// and the body text, untouched.
type exchange struct {
	OK   bool
	Code int
	Body string
}

func (c *Client) do(ctx context.Context, req request) (exchange, error) {
	key := c.APIKey
	if req.credential == adminKey {
		if c.AdminKey == "" {
			return exchange{}, ErrMissingAdminKey
		}
		key = c.AdminKey
	}

	u := c.BaseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	r, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return exchange{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	r.Header.Set("Authorization", "Bearer "+key)
	if req.contentType != "" {
		r.Header.Set("Content-Type", req.contentType)
	}
	if c.Organization != "" {
		r.Header.Set("OpenAI-Organization", c.Organization)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(r)
	if err != nil {
		return exchange{}, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return exchange{}, fmt.Errorf("failed to read response body: %w", err)
	}

	c.Logger.Debug().
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Int("bytes", len(b)).
		Msg("openai request")

	return exchange{
		OK:   resp.StatusCode >= 200 && resp.StatusCode < 300,
		Code: resp.StatusCode,
		Body: string(b),
	}, nil
}

// check reports a non-2xx exchange. An error envelope always wins so the
// server's own message reaches the user; without one the status is
// reported.
func (ex exchange) check(backend serialization.Backend) error {
	if ex.OK {
		return nil
	}
	if _, err := serialization.Open(ex.Body, backend); errors.Is(err, serialization.ErrRemoteError) {
		return err
	}
	return &StatusError{Code: ex.Code, Body: ex.Body}
}

// open checks the exchange and runs the parse and error-envelope steps with
// the detector of the backend that was called.
func (ex exchange) open(backend serialization.Backend) (serialization.Document, error) {
	if err := ex.check(backend); err != nil {
		return serialization.Document{}, err
	}
	return serialization.Open(ex.Body, backend)
}

func decodeOne[T any](ex exchange, object serialization.Object, unpack serialization.Unpacker[T]) (T, error) {
	if err := ex.check(serialization.BackendOpenAI); err != nil {
		var zero T
		return zero, err
	}
	return serialization.Decode(ex.Body, serialization.BackendOpenAI, object, unpack)
}

func decodeList[T any](ex exchange, element serialization.Object, unpack serialization.Unpacker[T]) (serialization.List[T], error) {
	if err := ex.check(serialization.BackendOpenAI); err != nil {
		return serialization.List[T]{}, err
	}
	return serialization.DecodeList(ex.Body, serialization.BackendOpenAI, element, unpack)
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}

func jsonRequest(method, path string, body []byte) request {
	return request{
		method:      method,
		path:        path,
		body:        body,
		contentType: "application/json",
	}
}
