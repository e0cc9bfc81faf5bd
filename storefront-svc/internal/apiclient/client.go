package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"zestify-storefront/storefront-svc/internal/domain"
)

const maxResponseBytes = 4 << 20

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// consecutive upstream failures before the breaker opens
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Client talks to the remote storefront REST API. Calls go through a circuit
// breaker; identical concurrent GETs share one upstream request.
type Client struct {
	baseURL string
	http    HTTPClient
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
	group   singleflight.Group
}

func New(cfg Config, httpClient HTTPClient) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	maxFailures := cfg.MaxFailures
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "storefront-api",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: countsAsHealthy,
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		timeout: cfg.Timeout,
		breaker: breaker,
	}
}

func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

func (c *Client) get(ctx context.Context, path string, query url.Values, token string, out interface{}, keys ...string) error {
	endpoint := c.endpoint(path, query)

	// the shared call must outlive any single caller that gives up early
	v, err, _ := c.group.Do(token+" "+endpoint, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.execute(callCtx, http.MethodGet, endpoint, token, nil, nil)
	})
	if err != nil {
		return translate(err)
	}
	return decodeEnvelope(v.([]byte), out, keys...)
}

func (c *Client) send(ctx context.Context, method, path, token string, in, out interface{}, keys ...string) error {
	return c.sendWithHeader(ctx, method, path, token, nil, in, out, keys...)
}

// sendWithHeader is send with extra request headers.
func (c *Client) sendWithHeader(ctx context.Context, method, path, token string, header http.Header, in, out interface{}, keys ...string) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := c.execute(callCtx, method, c.endpoint(path, nil), token, header, payload)
	if err != nil {
		return translate(err)
	}
	if out == nil {
		return nil
	}
	return decodeEnvelope(body, out, keys...)
}

func (c *Client) execute(ctx context.Context, method, endpoint, token string, header http.Header, payload []byte) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, endpoint, token, header, payload)
	})
}

func (c *Client) roundTrip(ctx context.Context, method, endpoint, token string, header http.Header, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Message: "network request failed: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.NetworkError{StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.NetworkError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	return data, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

// errorMessage reads {"message": "..."} and falls back to a generic text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return payload.Message
	}
	return domain.GenericErrorMessage
}

func countsAsHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr *domain.NetworkError
	return errors.As(err, &netErr) && netErr.ClientError()
}

func translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.NetworkError{Message: "service temporarily unavailable, please retry shortly", Err: err}
	}
	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		return netErr
	}
	return &domain.NetworkError{Message: domain.GenericErrorMessage, Err: err}
}

// decodeEnvelope accepts a bare payload or one wrapped in {"data": ...} or in
// one of the given keys.
func decodeEnvelope(body []byte, out interface{}, keys ...string) error {
	raw := bytes.TrimSpace(body)
	if len(raw) == 0 {
		return nil
	}

	candidates := append([]string{"data"}, keys...)
	for depth := 0; depth < 2 && len(raw) > 0 && raw[0] == '{'; depth++ {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			break
		}
		unwrapped := false
		for _, key := range candidates {
			if inner, ok := obj[key]; ok && len(bytes.TrimSpace(inner)) > 0 && string(bytes.TrimSpace(inner)) != "null" {
				raw = bytes.TrimSpace(inner)
				unwrapped = true
				break
			}
		}
		if !unwrapped {
			break
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.NetworkError{Message: "unexpected response from server", Err: err}
	}
	return nil
}
