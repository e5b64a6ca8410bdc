package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
)

// DefaultEndpoint is the execution service URL used when none is configured.
const DefaultEndpoint = "http://localhost:7777/code-runner/run"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 16 << 20

// HTTPClient posts requests as JSON to an execution service endpoint.
type HTTPClient struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTPClient creates an HTTPClient. An empty endpoint selects
// DefaultEndpoint and a nil client selects http.DefaultClient.
func NewHTTPClient(endpoint string, client *http.Client, logger *slog.Logger) *HTTPClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{endpoint: endpoint, client: client, logger: logger}
}

// Endpoint returns the configured service URL.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// Execute issues exactly one POST. The status code is not interpreted; any
// body that decodes to {"data": ...} with a non-null data is accepted.
func (c *HTTPClient) Execute(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug("posting to execution service",
		"endpoint", c.endpoint, "language", req.Language, "version", req.Version, "bytes", len(body))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Response{}, fmt.Errorf("%w: failed to read response: %w", ErrConnectionFailed, err)
	}

	c.logger.Debug("execution service replied", "status", resp.StatusCode, "bytes", len(raw))

	return decodeResponse(raw)
}

// decodeResponse reads {"data": ...}. A missing or null data is malformed.
// Any other data that is not an object, or an output that is empty, zero,
// false or null, is a reply without output. Other non-string outputs are
// kept as their JSON encoding.
func decodeResponse(raw []byte) (Response, error) {
	var envelope struct {
		Data any `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if envelope.Data == nil {
		return Response{}, fmt.Errorf("%w: missing data", ErrMalformedResponse)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		return Response{}, nil
	}

	resp := Response{Data: data}
	switch v := data["output"].(type) {
	case nil:
	case string:
		resp.Output = v
	case bool:
		if v {
			resp.Output = "true"
		}
	case float64:
		if v != 0 {
			resp.Output = strconv.FormatFloat(v, 'f', -1, 64)
		}
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return Response{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		resp.Output = string(b)
	}
	resp.HasOutput = resp.Output != ""
	return resp, nil
}

var _ Client = (*HTTPClient)(nil)
