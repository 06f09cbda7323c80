// Package analysis talks to the external circuit solver over HTTP.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"circuit-sketch/internal/config"
	"circuit-sketch/internal/image"
	"circuit-sketch/internal/logging"
)

// StatusSuccess is the status value of a successful analysis.
const StatusSuccess = "success"

// maxBody caps how much of a response is read.
const maxBody = 32 << 20

var (
	// ErrBackend marks failures reported by the solver itself.
	ErrBackend = errors.New("analysis backend error")
	// ErrStatus marks non-2xx HTTP responses.
	ErrStatus = errors.New("unexpected HTTP status")
)

// BackendError is a failure the service reported in its JSON body.
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string { return e.Message }
func (e *BackendError) Unwrap() error { return ErrBackend }

// StatusError is a non-2xx response. Message holds the service's message
// when the body carried one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d %s", e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// ErrorLine formats err as the single report line shown for a failed
// analysis.
func ErrorLine(err error) string {
	return "Error: " + err.Error()
}

// Result is a successful analysis.
type Result struct {
	Output     string // raw transcript
	DiagramURL string // absolute, empty when the service sent none
}

type request struct {
	Netlist string `json:"netlist"`
}

type response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Results struct {
		Output         string `json:"output"`
		CircuitDiagram string `json:"circuitDiagram"`
	} `json:"results"`
	CircuitDiagram string `json:"circuitDiagram"`
}

func (r response) message() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Error
}

// Client posts netlists to the analysis service.
type Client struct {
	base       *url.URL
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a client for the service described by cfg.
func NewClient(cfg config.ServiceConfig, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q is not absolute", cfg.BaseURL)
	}

	c := &Client{
		base:       base,
		endpoint:   strings.TrimLeft(cfg.Endpoint, "/"),
		timeout:    cfg.Timeout.Duration,
		httpClient: &http.Client{},
		log:        logging.WithComponent("analysis"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Timeout returns the per-call deadline, zero for none.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Resolve turns a service-relative path into an absolute URL.
func (c *Client) Resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", path, err)
	}
	return c.base.ResolveReference(ref).String(), nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Analyze sends one netlist and waits for the transcript.
func (c *Client) Analyze(ctx context.Context, netlist string) (Result, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	jsonBody, err := json.Marshal(request{Netlist: netlist})
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	target, err := c.Resolve(c.endpoint)
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(jsonBody))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debug("analysis response",
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Duration("took", time.Since(start)))

	var payload response
	decodeErr := json.Unmarshal(body, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode}
		if decodeErr == nil {
			se.Message = payload.message()
		}
		return Result{}, se
	}
	if decodeErr != nil {
		return Result{}, fmt.Errorf("failed to parse response: %w", decodeErr)
	}
	if payload.Status != StatusSuccess {
		msg := payload.message()
		if msg == "" {
			msg = fmt.Sprintf("analysis failed with status %q", payload.Status)
		}
		return Result{}, &BackendError{Message: msg}
	}

	res := Result{Output: payload.Results.Output}
	diagram := payload.CircuitDiagram
	if diagram == "" {
		diagram = payload.Results.CircuitDiagram
	}
	if diagram != "" {
		if res.DiagramURL, err = c.Resolve(diagram); err != nil {
			c.log.Warn("bad diagram path", slog.String("path", diagram), slog.Any("err", err))
		}
	}
	return res, nil
}

// Health checks that the service answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	target, err := c.Resolve("health")
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}
	var payload response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&payload); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if payload.Status != "healthy" {
		return &BackendError{Message: fmt.Sprintf("service status %q", payload.Status)}
	}
	return nil
}

// FetchDiagram downloads and decodes the diagram at rawURL, which may be
// relative to the service.
func (c *Client) FetchDiagram(ctx context.Context, rawURL string) (*image.Layer, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	target, err := c.Resolve(rawURL)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return image.Decode(io.LimitReader(resp.Body, maxBody), target)
}
