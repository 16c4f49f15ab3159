package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishkeep/wishkeep/internal/assistant"
	"github.com/wishkeep/wishkeep/internal/stream"
)

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient("", "token")
	assert.Error(t, err)

	_, err = NewClient("http://localhost:8080", "")
	assert.Error(t, err)
}

func TestClientStream(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		w.Header().Set("Content-Type", "text/event-stream")
		enc := stream.NewEncoder(w)
		require.NoError(t, enc.Encode(stream.TextFrame("Hello")))
		require.NoError(t, enc.Encode(stream.FinishFrame("stop")))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret-token")
	require.NoError(t, err)

	var frames []stream.Frame
	err = client.Stream(context.Background(),
		[]assistant.Message{{Role: "user", Content: "hi"}},
		func(f stream.Frame) error {
			frames = append(frames, f)
			return nil
		})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "/api/assistant/stream", gotPath)
	require.Len(t, frames, 2)
	assert.Equal(t, stream.FrameText, frames[0].Type)
	assert.Equal(t, stream.FrameFinish, frames[1].Type)
}

func TestClientStream_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"invalid bearer token"}}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "wrong-token")
	require.NoError(t, err)

	err = client.Stream(context.Background(),
		[]assistant.Message{{Role: "user", Content: "hi"}},
		func(stream.Frame) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid bearer token")
}

func TestClientStream_CallbackErrorStopsDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		enc := stream.NewEncoder(w)
		for range 10 {
			_ = enc.Encode(stream.TextFrame("chunk"))
		}
		_ = enc.Encode(stream.FinishFrame("stop"))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret-token")
	require.NoError(t, err)

	calls := 0
	err = client.Stream(context.Background(),
		[]assistant.Message{{Role: "user", Content: "hi"}},
		func(stream.Frame) error {
			calls++
			return assert.AnError
		})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}
