package runner

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_PostsRequestAndDecodesOutput(t *testing.T) {
	var (
		calls int
		got   map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/code-runner/run", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = io.WriteString(w, `{"data":{"output":"\u001b[32mok\u001b[39m\n","exitCode":0}}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/code-runner/run", srv.Client(), nil)
	resp, err := c.Execute(context.Background(), Request{Language: "nodejs", Version: "18.15.0", Code: "console.log(1)"})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, map[string]any{"type": "nodejs", "version": "18.15.0", "code": "console.log(1)"}, got)
	assert.True(t, resp.HasOutput)
	assert.Equal(t, "\x1b[32mok\x1b[39m\n", resp.Output)
	assert.Equal(t, float64(0), resp.Data["exitCode"])
}

func TestHTTPClient_DefaultEndpoint(t *testing.T) {
	c := NewHTTPClient("", nil, nil)
	assert.Equal(t, "http://localhost:7777/code-runner/run", c.Endpoint())
}

func TestHTTPClient_ResponseShapes(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantErr   error
		hasOutput bool
		output    string
	}{
		{name: "no output field", status: 200, body: `{"data":{"stderr":""}}`},
		{name: "empty output", status: 200, body: `{"data":{"output":""}}`},
		{name: "null output", status: 200, body: `{"data":{"output":null}}`},
		{name: "numeric output", status: 200, body: `{"data":{"output":42}}`, hasOutput: true, output: "42"},
		{name: "fractional output", status: 200, body: `{"data":{"output":1.5}}`, hasOutput: true, output: "1.5"},
		{name: "zero output", status: 200, body: `{"data":{"output":0}}`},
		{name: "false output", status: 200, body: `{"data":{"output":false}}`},
		{name: "true output", status: 200, body: `{"data":{"output":true}}`, hasOutput: true, output: "true"},
		{name: "object output", status: 200, body: `{"data":{"output":{"a":1}}}`, hasOutput: true, output: `{"a":1}`},
		{name: "empty array output", status: 200, body: `{"data":{"output":[]}}`, hasOutput: true, output: `[]`},
		{name: "string data", status: 200, body: `{"data":"x"}`},
		{name: "numeric data", status: 200, body: `{"data":0}`},
		{name: "array data", status: 200, body: `{"data":["out"]}`},
		{name: "null data", status: 200, body: `{"data":null}`, wantErr: ErrMalformedResponse},
		{name: "null body", status: 200, body: `null`, wantErr: ErrMalformedResponse},
		{name: "array body", status: 200, body: `[{"data":{}}]`, wantErr: ErrMalformedResponse},
		{name: "error status still decoded", status: 500, body: `{"data":{"output":"boom"}}`, hasOutput: true, output: "boom"},
		{name: "missing data", status: 200, body: `{"message":"nope"}`, wantErr: ErrMalformedResponse},
		{name: "not json", status: 502, body: `<html>bad gateway</html>`, wantErr: ErrMalformedResponse},
		{name: "empty body", status: 200, body: ``, wantErr: ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			resp, err := NewHTTPClient(srv.URL, srv.Client(), nil).Execute(context.Background(), Request{Language: "python", Version: "3.10.0", Code: "print(1)"})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hasOutput, resp.HasOutput)
			assert.Equal(t, tt.output, resp.Output)
		})
	}
}

func TestHTTPClient_ConnectionFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url, nil, nil).Execute(context.Background(), Request{Language: "nodejs", Code: "1"})
	require.ErrorIs(t, err, ErrConnectionFailed)
}

func TestHTTPClient_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHTTPClient(srv.URL, srv.Client(), nil).Execute(ctx, Request{Language: "nodejs", Code: "1"})
	require.ErrorIs(t, err, ErrConnectionFailed)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestLocalClient_CapturesConsole(t *testing.T) {
	c := NewLocalClient(nil)
	resp, err := c.Execute(context.Background(), Request{
		Language: "nodejs",
		Code:     "console.log('hello', 1 + 2); console.error('\\x1b[31mbad\\x1b[39m')",
	})
	require.NoError(t, err)
	assert.True(t, resp.HasOutput)
	assert.Equal(t, "hello 3\n\x1b[31mbad\x1b[39m\n", resp.Output)
}

func TestLocalClient_ExceptionReportedInOutput(t *testing.T) {
	resp, err := NewLocalClient(nil).Execute(context.Background(), Request{
		Language: "nodejs",
		Code:     "console.log('before'); throw new Error('kaboom')",
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Output, "before\n")
	assert.Contains(t, resp.Output, "kaboom")
}

func TestLocalClient_NoOutput(t *testing.T) {
	resp, err := NewLocalClient(nil).Execute(context.Background(), Request{Language: "nodejs", Code: "var x = 1"})
	require.NoError(t, err)
	assert.False(t, resp.HasOutput)
	assert.Empty(t, resp.Output)
}

func TestLocalClient_UnsupportedLanguage(t *testing.T) {
	_, err := NewLocalClient(nil).Execute(context.Background(), Request{Language: "python", Code: "print(1)"})
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestLocalClient_Interrupted(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewLocalClient(nil).Execute(ctx, Request{Language: "nodejs", Code: "for (;;) {}"})
	require.ErrorIs(t, err, ErrConnectionFailed)
}

func TestGetClient(t *testing.T) {
	c, err := GetClient("http", Options{Endpoint: "http://example.invalid/run"})
	require.NoError(t, err)
	require.IsType(t, &HTTPClient{}, c)
	assert.Equal(t, "http://example.invalid/run", c.(*HTTPClient).Endpoint())

	c, err = GetClient("local", Options{})
	require.NoError(t, err)
	assert.IsType(t, &LocalClient{}, c)

	_, err = GetClient("carrier-pigeon", Options{})
	assert.EqualError(t, err, "unknown runner backend: carrier-pigeon (available: http, local)")
}
