package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouter_Generate(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"score\": 81}"}}]}`))
	}))
	defer srv.Close()

	p, err := NewOpenRouter("secret", srv.URL, "test/model")
	require.NoError(t, err)

	out, err := p.Generate(context.Background(), "compare")
	require.NoError(t, err)
	assert.Equal(t, `{"score": 81}`, out)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "test/model", gotBody["model"])
}

func TestOpenRouter_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	p, err := NewOpenRouter("secret", srv.URL, "")
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "compare")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slow down")
}

func TestOpenRouter_EmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p, err := NewOpenRouter("secret", srv.URL, "")
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "compare")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "carrier-pigeon"})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{Provider: "openrouter"})
	assert.Error(t, err)
}
