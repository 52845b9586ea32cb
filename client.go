package sendblue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/afex/hystrix-go/hystrix"
	"github.com/rs/zerolog"

	"github.com/NewtTheWolf/sendblue/phonenumber"
)

// DefaultBaseURL is the production Sendblue API root.
const DefaultBaseURL = "https://api.sendblue.co/api"

const (
	headerAPIKey    = "sb-api-key-id"
	headerAPISecret = "sb-api-secret-key"

	defaultUserAgent = "sendblue-go"

	// maxBodyBytes caps how much of a response body is read into memory.
	maxBodyBytes = 10 << 20
)

// HTTPClient abstracts the http.Client Do method for easier testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root (sandbox, mock server).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient overrides the transport. Timeouts, proxies and transport
// level retries are the HTTPClient's concern.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger enables debug logging of every call. Credentials are never logged.
// A zero zerolog.Logger writes nothing.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithCircuitBreaker runs every call inside the named hystrix command. Only
// transport failures and 5xx answers count against the circuit; an open
// circuit surfaces as a KindTransport error. The command configuration is
// registered globally with hystrix.
func WithCircuitBreaker(name string, cfg hystrix.CommandConfig) Option {
	return func(c *Client) {
		if name = strings.TrimSpace(name); name != "" {
			hystrix.ConfigureCommand(name, cfg)
			c.breaker = name
		}
	}
}

// Client talks to the Sendblue API. It holds only immutable configuration
// and is safe for concurrent use.
type Client struct {
	apiKey     string
	apiSecret  string
	baseURL    string
	userAgent  string
	httpClient HTTPClient
	logger     zerolog.Logger
	breaker    string
}

// New constructs a client for the given credential pair.
func New(apiKey, apiSecret string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	apiSecret = strings.TrimSpace(apiSecret)
	if apiKey == "" {
		return nil, missingField("new client", "api key")
	}
	if apiSecret == "" {
		return nil, missingField("new client", "api secret")
	}

	c := &Client{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		baseURL:    DefaultBaseURL,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, &Error{Kind: KindValidation, Op: "new client", Err: fmt.Errorf("invalid base url: %w", err)}
	}

	return c, nil
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string { return c.baseURL }

// Send delivers a single-recipient message.
func (c *Client) Send(ctx context.Context, msg *Message) (*MessageResponse, error) {
	const op = "send"
	if msg == nil {
		return nil, missingField(op, "message")
	}
	if err := msg.validate(op); err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := c.do(ctx, op, http.MethodPost, "/send-message", nil, msg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendGroup delivers a message to several recipients or an existing group.
func (c *Client) SendGroup(ctx context.Context, msg *GroupMessage) (*GroupMessageResponse, error) {
	const op = "send group"
	if msg == nil {
		return nil, missingField(op, "group message")
	}
	if err := msg.validate(op); err != nil {
		return nil, err
	}

	var out GroupMessageResponse
	if err := c.do(ctx, op, http.MethodPost, "/send-group-message", nil, msg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMessages retrieves the message history. A nil params means no filters.
func (c *Client) GetMessages(ctx context.Context, params *GetMessagesParams) (*GetMessagesResponse, error) {
	const op = "get messages"
	if params != nil {
		if err := params.validate(op); err != nil {
			return nil, err
		}
	}

	var out GetMessagesResponse
	if err := c.do(ctx, op, http.MethodGet, "/accounts/messages", params.Values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EvaluateService reports whether a number is reachable over iMessage or SMS.
func (c *Client) EvaluateService(ctx context.Context, req *EvaluateService) (*EvaluateServiceResponse, error) {
	const op = "evaluate service"
	if req == nil || req.Number.IsZero() {
		return nil, missingField(op, "number")
	}

	query := url.Values{}
	query.Set("number", req.Number.E164())

	var out EvaluateServiceResponse
	if err := c.do(ctx, op, http.MethodGet, "/evaluate-service", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendTypingIndicator shows the "typing" bubble to the recipient.
func (c *Client) SendTypingIndicator(ctx context.Context, number phonenumber.PhoneNumber) (*TypingIndicatorResponse, error) {
	const op = "send typing indicator"
	if number.IsZero() {
		return nil, missingField(op, "number")
	}

	var out TypingIndicatorResponse
	body := TypingIndicator{Number: number}
	if err := c.do(ctx, op, http.MethodPost, "/send-typing-indicator", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one round trip and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set(headerAPISecret, c.apiSecret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	status, raw, err := c.roundTrip(op, req)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("op", op).
			Str("method", method).
			Str("path", path).
			Dur("duration", time.Since(start)).
			Msg("sendblue: request failed")
		return err
	}

	c.logger.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("duration", time.Since(start)).
		Msg("sendblue: request completed")

	if status < 200 || status >= 300 {
		return newAPIError(op, status, raw)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return &Error{Kind: KindDecode, Op: op, StatusCode: status, Err: errors.New("empty response body")}
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return &Error{Kind: KindDecode, Op: op, StatusCode: status, Body: string(raw), Err: errors.New("null response body")}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindDecode, Op: op, StatusCode: status, Body: string(raw), Err: err}
	}
	return nil
}

type exchangeResult struct {
	status int
	body   []byte
}

// roundTrip sends req, optionally through the circuit breaker.
func (c *Client) roundTrip(op string, req *http.Request) (int, []byte, error) {
	if c.breaker == "" {
		return c.exchange(op, req)
	}

	// Buffered so a run that outlives a hystrix timeout never blocks.
	results := make(chan exchangeResult, 1)
	err := hystrix.DoC(req.Context(), c.breaker, func(ctx context.Context) error {
		status, body, err := c.exchange(op, req)
		if err != nil {
			return err
		}
		results <- exchangeResult{status: status, body: body}
		if status >= http.StatusInternalServerError {
			return fmt.Errorf("upstream returned status %d", status)
		}
		return nil
	}, nil)

	select {
	case r := <-results:
		return r.status, r.body, nil
	default:
	}

	var sbErr *Error
	if errors.As(err, &sbErr) {
		return 0, nil, sbErr
	}
	if err == nil {
		err = errors.New("circuit breaker returned no response")
	}
	return 0, nil, &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("circuit %q: %w", c.breaker, err)}
}

// exchange performs the HTTP call and reads the whole body.
func (c *Client) exchange(op string, req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, &Error{Kind: KindTransport, Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	return resp.StatusCode, raw, nil
}
