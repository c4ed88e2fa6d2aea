package taxonomy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify the wire contract
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type: application/json, got %s", r.Header.Get("Content-Type"))
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("failed to read request body: %v", err)
		}
		want := `{"query":"query { taxonomy { name type } }"}`
		if string(body) != want {
			t.Errorf("request body = %s, want %s", body, want)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"taxonomy": [{"name": "A", "type": "x"}]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	data, err := client.Query(context.Background(), DefaultQuery)
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}

	var payload struct {
		Taxonomy []Entry `json:"taxonomy"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("failed to parse returned data: %v", err)
	}
	if len(payload.Taxonomy) != 1 || payload.Taxonomy[0].Name != "A" {
		t.Errorf("data = %s, want one entry named A", data)
	}
}

func TestClientQueryServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Query(context.Background(), DefaultQuery)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if terr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want %d", terr.StatusCode, http.StatusInternalServerError)
	}
	if !strings.Contains(terr.Detail, "internal error") {
		t.Errorf("Detail = %q, want it to carry the response body", terr.Detail)
	}
}

func TestClientQueryNon200Success(t *testing.T) {
	// Anything in the 2xx family other than 200 still violates the
	// contract.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Query(context.Background(), DefaultQuery)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if terr.StatusCode != http.StatusNoContent {
		t.Errorf("StatusCode = %d, want %d", terr.StatusCode, http.StatusNoContent)
	}
}

func TestClientQueryGraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": null, "errors": [{"message": "field taxonomy not found"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Query(context.Background(), DefaultQuery)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if !strings.Contains(terr.Detail, "field taxonomy not found") {
		t.Errorf("Detail = %q, want it to carry the remote message", terr.Detail)
	}
}

func TestClientQueryConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url)
	_, err := client.Query(context.Background(), DefaultQuery)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if terr.Err == nil {
		t.Error("expected underlying transport error to be set")
	}
}

func TestClientQueryInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("definitely not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Query(context.Background(), DefaultQuery)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse response") {
		t.Errorf("error = %v, want parse failure", err)
	}
}

func TestClientQueryHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("Authorization = %q, want \"Bearer tok123\"", got)
		}
		if got := r.Header.Get("X-Org"); got != "formfield" {
			t.Errorf("X-Org = %q, want \"formfield\"", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"taxonomy": []}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL,
		WithHeader("Authorization", "Bearer tok123"),
		WithHeader("X-Org", "formfield"),
	)
	if _, err := client.Query(context.Background(), DefaultQuery); err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
}

func TestNewClientOptions(t *testing.T) {
	client := NewClient("http://example.com")
	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("default timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
	}

	client = NewClient("http://example.com", WithTimeout(5*time.Second))
	if client.httpClient.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", client.httpClient.Timeout)
	}

	hc := &http.Client{Timeout: time.Second}
	client = NewClient("http://example.com", WithHTTPClient(hc))
	if client.httpClient != hc {
		t.Error("WithHTTPClient should replace the underlying client")
	}
}
