// Package spine submits assembled HL7v3 messages to the national messaging
// backbone and polls for the outcome of asynchronous submissions.
package spine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Response is the backbone's answer to a submission or a poll. A non-empty
// PollingPath means the message is still being processed and the caller
// should poll again later.
type Response struct {
	StatusCode  int
	Body        string
	PollingPath string
}

// Pending reports whether the backbone has accepted the message but not yet
// produced an outcome.
func (r Response) Pending() bool {
	return r.PollingPath != ""
}

// Client is the outbound collaborator used by the message handlers. Submit
// sends a serialized payload; Poll checks on a previously accepted one.
type Client interface {
	Submit(ctx context.Context, interactionID string, payload []byte) (Response, error)
	Poll(ctx context.Context, path string) (Response, error)
}

// ClientOption configures a LiveClient.
type ClientOption func(*LiveClient)

// WithHTTPClient overrides the default HTTP client used for submissions.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(l *LiveClient) { l.httpClient = c }
}

// LiveClient talks to a real backbone endpoint over HTTP.
type LiveClient struct {
	baseURL    string
	fromASID   string
	toASID     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewLiveClient creates a client for the backbone at baseURL. The ASIDs are
// carried as routing headers on every request.
func NewLiveClient(baseURL, fromASID, toASID string, logger zerolog.Logger, opts ...ClientOption) *LiveClient {
	l := &LiveClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		fromASID: fromASID,
		toASID:   toASID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *LiveClient) Submit(ctx context.Context, interactionID string, payload []byte) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/", bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("building submission request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", interactionID)
	req.Header.Set("NHSD-Request-From-ASID", l.fromASID)
	req.Header.Set("NHSD-Request-To-ASID", l.toASID)

	l.logger.Info().
		Str("interaction", interactionID).
		Int("payload_bytes", len(payload)).
		Msg("Submitting message to backbone")

	return l.do(req)
}

func (l *LiveClient) Poll(ctx context.Context, path string) (Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+path, nil)
	if err != nil {
		return Response{}, fmt.Errorf("building polling request: %w", err)
	}
	req.Header.Set("NHSD-Request-From-ASID", l.fromASID)
	req.Header.Set("NHSD-Request-To-ASID", l.toASID)

	return l.do(req)
}

func (l *LiveClient) do(req *http.Request) (Response, error) {
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("backbone request failed: %w", err)
	}
	defer resp.Body.Close()

	// Outcome bodies are small; cap the read in case the endpoint misbehaves.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Response{}, fmt.Errorf("reading backbone response: %w", err)
	}

	response := Response{StatusCode: resp.StatusCode, Body: string(body)}
	if resp.StatusCode == http.StatusAccepted {
		response.PollingPath = resp.Header.Get("Content-Location")
	}
	return response, nil
}
