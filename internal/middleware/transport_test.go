package middleware

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clickupmcp/server/internal/jsonrpc"
)

type echoProcessor struct{}

func (echoProcessor) ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	return map[string]string{"method": req.Method}, nil
}

// readEvent consumes one SSE event from the stream and returns its
// event name and data line.
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var event, data string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read SSE stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "":
			if event != "" || data != "" {
				return event, data
			}
		}
	}
}

func TestTransportAdvertisedEndpointRoundTrip(t *testing.T) {
	// The advertised POST endpoint must live under the same path the SSE
	// stream was opened on, whatever prefix the mux mounts.
	mux := http.NewServeMux()
	mux.Handle("/v1/mcp", Transport(echoProcessor{}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/mcp")
	if err != nil {
		t.Fatalf("open SSE stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want text/event-stream", ct)
	}

	reader := bufio.NewReader(resp.Body)
	event, endpoint := readEvent(t, reader)
	if event != "endpoint" {
		t.Fatalf("first event = %q, want endpoint", event)
	}
	if !strings.HasPrefix(endpoint, "/v1/mcp?sessionId=") {
		t.Fatalf("advertised endpoint = %q, want /v1/mcp?sessionId=... prefix", endpoint)
	}

	body := `{"jsonrpc":"2.0","id":1,"method":"ping"}`
	post, err := http.Post(srv.URL+endpoint, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST to advertised endpoint: %v", err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusAccepted {
		t.Fatalf("POST status = %d, want %d", post.StatusCode, http.StatusAccepted)
	}

	event, data := readEvent(t, reader)
	if event != "message" {
		t.Fatalf("second event = %q, want message", event)
	}
	var rpcResp jsonrpc.Response
	if err := json.Unmarshal([]byte(data), &rpcResp); err != nil {
		t.Fatalf("unmarshal message data: %v", err)
	}
	if rpcResp.Error != nil {
		t.Fatalf("unexpected JSON-RPC error: %+v", rpcResp.Error)
	}
	result, ok := rpcResp.Result.(map[string]any)
	if !ok || result["method"] != "ping" {
		t.Fatalf("result = %v, want echoed ping method", rpcResp.Result)
	}
}

func TestTransportInlinePost(t *testing.T) {
	srv := httptest.NewServer(Transport(echoProcessor{}))
	defer srv.Close()

	body := `{"jsonrpc":"2.0","id":7,"method":"tools/list"}`
	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("inline POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var rpcResp jsonrpc.Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	result, ok := rpcResp.Result.(map[string]any)
	if !ok || result["method"] != "tools/list" {
		t.Fatalf("result = %v, want echoed method", rpcResp.Result)
	}
}

func TestTransportUnknownSession(t *testing.T) {
	srv := httptest.NewServer(Transport(echoProcessor{}))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"?sessionId=deadbeef", "application/json",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestTransportMethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(Transport(echoProcessor{}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodDelete, srv.URL, nil)
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}
