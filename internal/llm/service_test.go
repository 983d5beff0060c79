package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionBody = `{
  "id": "gen-1",
  "object": "chat.completion",
  "created": 1760000000,
  "model": "google/gemini-2.0-flash-001",
  "choices": [
    {"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "  {\"name\":\"Priya\"}\n"}}
  ]
}`

type capturedRequest struct {
	Path    string
	Auth    string
	Referer string
	Title   string
	Body    struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
}

func newTestService(t *testing.T, url string, obs Observer) *Service {
	t.Helper()
	svc, err := NewService(Options{
		APIKey:   "sk-test",
		Model:    "google/gemini-2.0-flash-001",
		BaseURL:  url + "/api/v1/",
		SiteURL:  "https://structcrew.online",
		SiteName: "StructCrew Platform",
		Timeout:  5 * time.Second,
		Observer: obs,
	})
	require.NoError(t, err)
	return svc
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var got capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Path = r.URL.Path
		got.Auth = r.Header.Get("Authorization")
		got.Referer = r.Header.Get("HTTP-Referer")
		got.Title = r.Header.Get("X-Title")
		_ = json.NewDecoder(r.Body).Decode(&got.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	var observed int
	svc := newTestService(t, srv.URL, func(model string, _ time.Duration, err error) {
		observed++
		assert.Equal(t, "google/gemini-2.0-flash-001", model)
		assert.NoError(t, err)
	})

	out, err := svc.Complete(context.Background(), "system rules", "Candidate Text: hello")
	require.NoError(t, err)

	assert.Equal(t, `{"name":"Priya"}`, out)
	assert.Equal(t, "/api/v1/chat/completions", got.Path)
	assert.Equal(t, "Bearer sk-test", got.Auth)
	assert.Equal(t, "https://structcrew.online", got.Referer)
	assert.Equal(t, "StructCrew Platform", got.Title)
	assert.Equal(t, "google/gemini-2.0-flash-001", got.Body.Model)
	assert.InDelta(t, 0.1, got.Body.Temperature, 1e-9)
	require.Len(t, got.Body.Messages, 2)
	assert.Equal(t, "system", got.Body.Messages[0].Role)
	assert.Equal(t, "system rules", got.Body.Messages[0].Content)
	assert.Equal(t, "user", got.Body.Messages[1].Role)
	assert.Equal(t, "Candidate Text: hello", got.Body.Messages[1].Content)
	assert.Equal(t, 1, observed)
}

func TestCompleteNonSuccessIsNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"No auth credentials found","code":401}}`))
	}))
	defer srv.Close()

	_, err := newTestService(t, srv.URL, nil).Complete(context.Background(), "s", "u")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	_, err := newTestService(t, srv.URL, nil).Complete(context.Background(), "s", "u")
	assert.ErrorContains(t, err, "no response")
}

func TestCompleteHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestService(t, srv.URL, nil).Complete(ctx, "s", "u")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewServiceRequiresKeyAndModel(t *testing.T) {
	_, err := NewService(Options{Model: "m"})
	assert.Error(t, err)

	_, err = NewService(Options{APIKey: "k"})
	assert.Error(t, err)
}

func TestAPIErrorMessage(t *testing.T) {
	assert.Equal(t, "quota exceeded", (&APIError{StatusCode: 429, Message: "quota exceeded"}).Error())
	assert.Equal(t, "AI parsing failed (status 502)", (&APIError{StatusCode: 502}).Error())
}
