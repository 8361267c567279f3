package embedding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetVector_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", srv.URL, "text-embedding-3-small")
	vec, err := client.GetVector(context.Background(), "a cat on a sofa")
	if err != nil {
		t.Fatalf("GetVector error: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Fatalf("unexpected vector: %v", vec)
	}
}

func TestGetVector_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("bad-key", srv.URL, "")
	if _, err := client.GetVector(context.Background(), "text"); err == nil {
		t.Fatal("expected error on 401 response")
	}
}

func TestGetVector_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", srv.URL, "")
	if _, err := client.GetVector(context.Background(), "text"); err == nil {
		t.Fatal("expected error on empty data")
	}
}
