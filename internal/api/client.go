// Package api maps each backend endpoint to a typed Go call, grouped by the
// audience that uses it. Every call issues exactly one request carrying the
// session's headers; there is no retry or caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/hongminglow/clevo-client/internal/clienterr"
	"github.com/hongminglow/clevo-client/internal/middleware"
)

const maxBody = 4 << 20

// Credentials supplies the headers attached to every call.
type Credentials interface {
	AuthHeaders() http.Header
}

// Client talks to the backend rooted at a fixed base URL.
type Client struct {
	baseURL string
	creds   Credentials
	http    *http.Client
	logger  *slog.Logger
}

// Option customizes a Client.
type Option func(*clientOptions)

type clientOptions struct {
	transport http.RoundTripper
	logger    *slog.Logger
}

// WithTransport sets the base transport beneath the request-id and logging layers.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.transport = rt }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// New returns a Client for baseURL authenticated by creds.
func New(baseURL string, creds Credentials, opts ...Option) *Client {
	o := clientOptions{transport: http.DefaultTransport, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		logger:  o.logger,
		http: &http.Client{
			Transport: middleware.Chain(o.transport,
				middleware.WithRequestID(),
				middleware.WithLogging(o.logger),
			),
		},
	}
}

// Citizen returns the citizen-facing endpoints.
func (c *Client) Citizen() CitizenAPI { return CitizenAPI{c: c} }

// Recycler returns the recycler-facing endpoints.
func (c *Client) Recycler() RecyclerAPI { return RecyclerAPI{c: c} }

// Authority returns the authority-facing endpoints.
func (c *Client) Authority() AuthorityAPI { return AuthorityAPI{c: c} }

// Wards returns the shared ward listing.
func (c *Client) Wards() WardsAPI { return WardsAPI{c: c} }

// call describes one endpoint invocation. Fail is the fixed message used
// when the server does not supply one.
type call struct {
	op     string
	method string
	path   string
	body   any
	fail   string
}

func (c *Client) do(ctx context.Context, in call) ([]byte, error) {
	var reader io.Reader
	if in.body != nil {
		data, err := json.Marshal(in.body)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: encode request", in.op)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, in.method, c.baseURL+in.path, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: build request", in.op)
	}
	for k, v := range c.creds.AuthHeaders() {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(ctxErr, in.op)
		}
		return nil, &clienterr.NetworkError{Op: in.op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &clienterr.NetworkError{Op: in.op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, clienterr.NewAPIError(in.op, resp.StatusCode, in.fail, serverMessage(body))
	}
	return body, nil
}

// serverMessage extracts a human-readable message from an error body. Both a
// bare {"message": ...} and the {"code","message","data"} envelope carry it
// in "message"; some handlers use "error" instead.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(payload.Error)
}

func doJSON[T any](ctx context.Context, c *Client, in call) (T, error) {
	var out T
	body, err := c.do(ctx, in)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, errors.Wrapf(err, "%s: decode response", in.op)
	}
	return out, nil
}

func doText(ctx context.Context, c *Client, in call) (string, error) {
	body, err := c.do(ctx, in)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func doNoContent(ctx context.Context, c *Client, in call) error {
	_, err := c.do(ctx, in)
	return err
}
