package gemini_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/dreamboard/pkg/adapters/gemini"
	"github.com/aretw0/dreamboard/pkg/classifier"
	"github.com/aretw0/dreamboard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var req = domain.Request{ID: "r1", PersonaID: "freud", PromptText: "You are Freud.\n\nDream: \"teeth\""}

func TestGenerate_WireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/x:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t,
			`{"contents":[{"role":"user","parts":[{"text":"You are Freud.\n\nDream: \"teeth\""}]}]}`,
			string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Anxiety."}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	c := gemini.New(gemini.WithEndpoint(srv.URL + "/v1beta/models/x:generateContent"))
	payload, err := c.Generate(context.Background(), req, "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.Success("Anxiety."), classifier.Classify(payload, nil))
}

func TestGenerate_EmptyCredentialIsStillSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, r.URL.Query().Has("key"))
		assert.Equal(t, "", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := gemini.New(gemini.WithEndpoint(srv.URL)).Generate(context.Background(), req, "")
	require.NoError(t, err)
}

func TestGenerate_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := gemini.New(gemini.WithEndpoint(srv.URL)).Generate(context.Background(), req, "k")

	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 500, te.StatusCode)
	assert.Equal(t, "Internal Server Error", te.StatusText)
	assert.Equal(t,
		domain.Failure(domain.ErrorKindTransport, "API request failed with status 500: Internal Server Error"),
		classifier.Classify(nil, err))
}

func TestGenerate_Non2xxKeepsServerReasonPhrase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, buf, err := w.(http.Hijacker).Hijack()
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()
		_, _ = buf.WriteString("HTTP/1.1 503 Model Overloaded\r\nContent-Length: 0\r\nConnection: close\r\n\r\n")
		_ = buf.Flush()
	}))
	defer srv.Close()

	_, err := gemini.New(gemini.WithEndpoint(srv.URL)).Generate(context.Background(), req, "k")

	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 503, te.StatusCode)
	assert.Equal(t, "Model Overloaded", te.StatusText)
	assert.Equal(t, "API request failed with status 503: Model Overloaded", te.Error())
}

func TestGenerate_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": "not-a-list"`))
	}))
	defer srv.Close()

	_, err := gemini.New(gemini.WithEndpoint(srv.URL)).Generate(context.Background(), req, "k")
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
	assert.Equal(t, domain.ErrorKindMalformed, classifier.Classify(nil, err).Kind)
}

func TestGenerate_SafetyBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{"finishReason": "SAFETY"}},
		})
	}))
	defer srv.Close()

	payload, err := gemini.New(gemini.WithEndpoint(srv.URL)).Generate(context.Background(), req, "k")
	require.NoError(t, err)
	assert.Equal(t, domain.ErrorKindSafety, classifier.Classify(payload, nil).Kind)
}

func TestGenerate_NetworkErrorRedactsCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close() // nothing listens anymore

	_, err := gemini.New(gemini.WithEndpoint(endpoint)).Generate(context.Background(), req, "topsecret")

	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
	assert.NotContains(t, err.Error(), "topsecret")
	assert.Equal(t, domain.ErrorKindTransport, classifier.Classify(nil, err).Kind)
}

func TestNew_DefaultEndpoint(t *testing.T) {
	assert.Equal(t, gemini.DefaultEndpoint, gemini.New().Endpoint())
	assert.Equal(t, gemini.DefaultEndpoint, gemini.New(gemini.WithEndpoint("")).Endpoint())
}

func TestEndpointForModel(t *testing.T) {
	assert.Equal(t, gemini.DefaultEndpoint, gemini.EndpointForModel("gemini-2.0-flash"))
}
