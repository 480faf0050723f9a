package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fadilmartias/career-pulse/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouterService_GenerateJSON(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[]"}}]}`))
	}))
	defer srv.Close()

	s := newOpenRouterService("secret", "test-model", srv.URL+"/")
	res, err := s.GenerateJSON(context.Background(), GenerateRequest{
		Prompt: "find mentors",
		Resume: model.Resume{Text: "Go developer"},
		Schema: MentorSchema(),
	})
	require.NoError(t, err)

	assert.Equal(t, "[]", res.Text)
	assert.Empty(t, res.Sources)
	assert.Equal(t, "test-model", body["model"])
	messages := body["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0].(map[string]any)["content"], "schema")
	assert.Contains(t, messages[1].(map[string]any)["content"], "Resume:\nGo developer")
}

func TestOpenRouterService_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	s := newOpenRouterService("secret", "m", srv.URL)
	_, err := s.GenerateJSON(context.Background(), GenerateRequest{Prompt: "p", Resume: model.Resume{Text: "r"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "bad key")
}

func TestOpenRouterService_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	s := newOpenRouterService("secret", "m", srv.URL)
	_, err := s.GenerateJSON(context.Background(), GenerateRequest{Prompt: "p", Resume: model.Resume{Text: "r"}})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestOpenRouterService_RejectsBinaryResume(t *testing.T) {
	s := newOpenRouterService("secret", "m", "http://127.0.0.1:1")
	_, err := s.GenerateJSON(context.Background(), GenerateRequest{
		Prompt: "p",
		Resume: model.Resume{Data: []byte("%PDF"), MIMEType: "application/pdf"},
	})
	assert.ErrorIs(t, err, ErrUnsupportedResume)

	text, err := textResume(model.Resume{Data: []byte("plain cv"), MIMEType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "plain cv", text)
}

func TestOpenRouterService_RequiresAPIKey(t *testing.T) {
	s := newOpenRouterService("", "m", "http://127.0.0.1:1")
	_, err := s.GenerateJSON(context.Background(), GenerateRequest{Prompt: "p", Resume: model.Resume{Text: "r"}})
	assert.Error(t, err)
}
