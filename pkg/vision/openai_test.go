package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)

		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error": {"message": "nope"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testCompat(srv *httptest.Server) *OpenAICompat {
	return &OpenAICompat{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		Model:      "test-model",
		HTTPClient: srv.Client(),
	}
}

func TestOpenAICompatInfer(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	srv := chatServer(t, http.StatusOK, "```json\n{\"title\": \"Red barn\", \"keywords\": [\"barn\", \"farm\"], \"category\": \"Buildings\"}\n```")
	m, err := testCompat(srv).Infer(context.Background(), []byte("jpegbytes"), "describe")
	require.NoError(err)
	require.Equal("Red barn", m.Title)
	require.Equal([]string{"barn", "farm"}, m.Keywords)
}

func TestOpenAICompatStatusClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusTooManyRequests, RateLimited},
		{http.StatusUnauthorized, InvalidAuth},
		{http.StatusForbidden, InvalidAuth},
		{http.StatusBadRequest, Malformed},
		{http.StatusInternalServerError, Transient},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			t.Parallel()
			srv := chatServer(t, tc.status, "")
			_, err := testCompat(srv).Infer(context.Background(), nil, "describe")
			require.Error(t, err)
			require.Equal(t, tc.want, KindOf(err))
		})
	}
}

func TestOpenAICompatEmptyChoices(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	t.Cleanup(srv.Close)

	_, err := testCompat(srv).Infer(context.Background(), nil, "describe")
	require.Error(err)
	require.Equal(Transient, KindOf(err))
}
