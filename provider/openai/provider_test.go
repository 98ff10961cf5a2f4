package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/casualjim/muse/config"
	"github.com/casualjim/muse/fault"
	"github.com/casualjim/muse/pkg/uuidx"
	"github.com/casualjim/muse/provider"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func imageServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func testProvider(server *httptest.Server) *Provider {
	return New(
		config.OpenAI{APIKey: "test-key", BaseURL: server.URL},
		option.WithMaxRetries(0),
	)
}

func invocation(prompt string, options provider.Options) provider.Invocation {
	return provider.Invocation{RunID: uuidx.New(), Prompt: prompt, Options: options}
}

func respondImage(t *testing.T, w http.ResponseWriter, data []byte, revised string) {
	t.Helper()
	payload := map[string]any{
		"created": 1,
		"data": []map[string]any{{
			"b64_json":       base64.StdEncoding.EncodeToString(data),
			"revised_prompt": revised,
		}},
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":{"message":"` + message + `","type":"api_error"}}`))
}

func TestGenerate(t *testing.T) {
	t.Run("returns decoded image blob", func(t *testing.T) {
		server := imageServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/images/generations"))
			respondImage(t, w, []byte("png bytes"), "a better cat")
		})

		outcome, err := testProvider(server).Generate(context.Background(), invocation("a cat", provider.Options{}))
		require.NoError(t, err)

		blob, ok := outcome.(provider.Blob)
		require.True(t, ok)
		assert.Equal(t, []byte("png bytes"), blob.Data)
		assert.Equal(t, "image/png", blob.MIME)
		assert.Equal(t, "a better cat", blob.Meta.Get("revised_prompt").String())
	})

	t.Run("builds the request from options", func(t *testing.T) {
		var body []byte
		server := imageServer(t, func(w http.ResponseWriter, r *http.Request) {
			var err error
			body, err = io.ReadAll(r.Body)
			require.NoError(t, err)
			respondImage(t, w, []byte("x"), "")
		})

		_, err := testProvider(server).Generate(context.Background(), invocation("a cat", provider.Options{
			Model:       "dall-e-2",
			AspectRatio: "16:9",
			Style:       "vivid",
		}))
		require.NoError(t, err)

		assert.Equal(t, "a cat", gjson.GetBytes(body, "prompt").String())
		assert.Equal(t, "dall-e-2", gjson.GetBytes(body, "model").String())
		assert.Equal(t, "1792x1024", gjson.GetBytes(body, "size").String())
		assert.Equal(t, "b64_json", gjson.GetBytes(body, "response_format").String())
		assert.Equal(t, "vivid", gjson.GetBytes(body, "style").String())
		assert.Equal(t, int64(1), gjson.GetBytes(body, "n").Int())
	})

	t.Run("folds unknown styles into the prompt", func(t *testing.T) {
		var body []byte
		server := imageServer(t, func(w http.ResponseWriter, r *http.Request) {
			body, _ = io.ReadAll(r.Body)
			respondImage(t, w, []byte("x"), "")
		})

		_, err := testProvider(server).Generate(context.Background(), invocation("a cat", provider.Options{
			Style: "ukiyo-e",
		}))
		require.NoError(t, err)

		assert.Equal(t, "a cat, in the style of ukiyo-e", gjson.GetBytes(body, "prompt").String())
		assert.False(t, gjson.GetBytes(body, "style").Exists())
	})

	t.Run("missing api key fails without a request", func(t *testing.T) {
		server := imageServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request should be made without a key")
		})

		p := New(config.OpenAI{BaseURL: server.URL}, option.WithMaxRetries(0))
		_, err := p.Generate(context.Background(), invocation("a cat", provider.Options{}))
		assert.True(t, fault.IsConfigMissing(err))
	})

	t.Run("empty response data is a provider failure", func(t *testing.T) {
		server := imageServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"created":1,"data":[]}`))
		})

		_, err := testProvider(server).Generate(context.Background(), invocation("a cat", provider.Options{}))
		assert.True(t, fault.IsProviderFailure(err))
	})
}

func TestClassify(t *testing.T) {
	statuses := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"quota on 429", http.StatusTooManyRequests, fault.IsQuotaExceeded},
		{"config on 401", http.StatusUnauthorized, fault.IsConfigMissing},
		{"config on 403", http.StatusForbidden, fault.IsConfigMissing},
		{"transient on 500", http.StatusInternalServerError, fault.IsTransient},
		{"transient on 503", http.StatusServiceUnavailable, fault.IsTransient},
		{"provider failure on 400", http.StatusBadRequest, fault.IsProviderFailure},
	}

	for _, tt := range statuses {
		t.Run(tt.name, func(t *testing.T) {
			server := imageServer(t, func(w http.ResponseWriter, r *http.Request) {
				respondError(w, tt.status, "boom")
			})

			_, err := testProvider(server).Generate(context.Background(), invocation("a cat", provider.Options{}))
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected classification: %v", err)
		})
	}
}

func TestDescriptor(t *testing.T) {
	d := Descriptor(config.OpenAI{APIKey: "test-key"})
	require.NoError(t, d.Validate())
	assert.Equal(t, "openai", d.Name)
	assert.Equal(t, provider.Direct, d.Capabilities.Mode)
}
