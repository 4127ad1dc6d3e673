package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewOpenAIClient(t *testing.T) {
	client := NewOpenAIClient("test-api-key", "https://api.test.com", "test-model", 1000)

	if client.apiKey != "test-api-key" {
		t.Errorf("Expected apiKey 'test-api-key', got '%s'", client.apiKey)
	}
	if client.baseURL != "https://api.test.com" {
		t.Errorf("Expected baseURL 'https://api.test.com', got '%s'", client.baseURL)
	}
	if client.model != "test-model" {
		t.Errorf("Expected model 'test-model', got '%s'", client.model)
	}
	if client.maxTokens != 1000 {
		t.Errorf("Expected maxTokens 1000, got %d", client.maxTokens)
	}
}

func TestNewOpenAIClient_TrimTrailingSlash(t *testing.T) {
	client := NewOpenAIClient("key", "https://api.test.com/", "model", 1000)

	if client.baseURL != "https://api.test.com" {
		t.Errorf("Expected baseURL without trailing slash, got '%s'", client.baseURL)
	}
}

func TestOpenAIClient_Invoke(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request
		if r.Method != "POST" {
			t.Errorf("Expected POST method, got %s", r.Method)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Expected path /v1/chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header, got %s", r.Header.Get("Authorization"))
		}

		// Verify request body
		var reqBody chatRequest
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}
		if reqBody.Model != "test-model" {
			t.Errorf("Expected model 'test-model', got '%s'", reqBody.Model)
		}
		if reqBody.Temperature != 0.2 {
			t.Errorf("Expected temperature 0.2, got %f", reqBody.Temperature)
		}
		if len(reqBody.Messages) != 2 {
			t.Errorf("Expected 2 messages, got %d", len(reqBody.Messages))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "test-id",
			"model": "test-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello! How can I help you?"}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("test-key", server.URL, "test-model", 1000)

	text, err := client.Invoke(context.Background(), []Message{
		System("You are helpful."),
		User("Hi"),
	}, 0.2)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if text != "Hello! How can I help you?" {
		t.Errorf("Unexpected response text: %q", text)
	}
}

func TestOpenAIClient_Invoke_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid key"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("bad-key", server.URL, "test-model", 1000)

	_, err := client.Invoke(context.Background(), []Message{User("Hi")}, 0)
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("Expected status code in error, got: %v", err)
	}
}

func TestOpenAIClient_Invoke_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "recovered"}}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("key", server.URL, "test-model", 1000)

	text, err := client.Invoke(context.Background(), []Message{User("Hi")}, 0)
	if err != nil {
		t.Fatalf("Invoke failed after retries: %v", err)
	}
	if text != "recovered" {
		t.Errorf("Unexpected text: %q", text)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestOpenAIClient_Invoke_NoRetryOnClientError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewOpenAIClient("key", server.URL, "test-model", 1000)

	_, err := client.Invoke(context.Background(), []Message{User("Hi")}, 0)
	if err == nil {
		t.Fatal("Expected error")
	}
	if attempts != 1 {
		t.Errorf("Expected exactly 1 attempt for 400 response, got %d", attempts)
	}
}

func TestOpenAIClient_Invoke_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("key", server.URL, "test-model", 1000)

	_, err := client.Invoke(context.Background(), []Message{User("Hi")}, 0)
	if err == nil {
		t.Fatal("Expected error for empty choices")
	}
}
