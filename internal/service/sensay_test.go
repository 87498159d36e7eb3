package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSensayClient(url string, timeout time.Duration) *SensayClient {
	return NewSensayClient(SensayConfig{
		BaseURL:            url,
		OrganizationSecret: "org-secret",
		ReplicaID:          "replica-1",
		Timeout:            timeout,
	}, http.DefaultClient, nil, nil)
}

func TestSensayClient_ChatCompletion(t *testing.T) {
	t.Run("should send the request shape and return content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/replicas/replica-1/chat/completions", r.URL.Path)
			assert.Equal(t, "org-secret", r.Header.Get("X-ORGANIZATION-SECRET"))
			assert.Equal(t, "2025-03-25", r.Header.Get("X-API-Version"))
			assert.Equal(t, "user-42", r.Header.Get("X-USER-ID"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "hello", body["content"])
			assert.Equal(t, true, body["skip_chat_history"])
			assert.Equal(t, "web", body["source"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"content":"[1,2,3]"}`))
		}))
		defer server.Close()

		reply, err := newTestSensayClient(server.URL+"/", time.Second).ChatCompletion(context.Background(), "user-42", "hello", true)

		require.NoError(t, err)
		assert.Equal(t, "[1,2,3]", reply)
	})

	t.Run("should signal a timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		_, err := newTestSensayClient(server.URL, 50*time.Millisecond).ChatCompletion(context.Background(), "u", "hi", true)

		assert.ErrorIs(t, err, ErrUpstreamTimeout)
	})

	t.Run("should report non-2xx status with body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"bad secret"}`))
		}))
		defer server.Close()

		_, err := newTestSensayClient(server.URL, time.Second).ChatCompletion(context.Background(), "u", "hi", true)

		var httpErr *UpstreamHTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
		assert.Contains(t, httpErr.Body, "bad secret")
	})

	t.Run("should report transport failures", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := newTestSensayClient(url, time.Second).ChatCompletion(context.Background(), "u", "hi", true)

		var netErr *UpstreamNetworkError
		assert.ErrorAs(t, err, &netErr)
	})

	t.Run("should reject empty content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":true,"content":"  "}`))
		}))
		defer server.Close()

		_, err := newTestSensayClient(server.URL, time.Second).ChatCompletion(context.Background(), "u", "hi", true)

		assert.ErrorIs(t, err, ErrEmptyUpstreamReply)
	})
}
