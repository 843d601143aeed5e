// Copyright (c) Microsoft. All rights reserved.

package setup_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
	"github.com/jochenvw/azure-ai-samples/go/internal/config"
	"github.com/jochenvw/azure-ai-samples/go/internal/setup"
	"github.com/jochenvw/azure-ai-samples/go/openai"
	"github.com/jochenvw/azure-ai-samples/go/search"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func (f roundTripFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func reply(req *http.Request, body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Request:    req,
	}
}

func TestResponsesClient_APIKey(t *testing.T) {
	var got *http.Request
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		got = r
		return reply(r, `{"id":"resp_1","status":"completed","model":"gpt-5-mini","output":[]}`), nil
	})
	s := config.OpenAISettings{Endpoint: "https://res.openai.azure.com/", APIKey: "k1"}
	c := setup.ResponsesClient(s, "gpt-5-mini", nil, openai.WithHTTPClient(&http.Client{Transport: rt}))

	if _, err := c.Response(context.Background(), []af.Message{af.NewUserMessage("hi")}, nil); err != nil {
		t.Fatal(err)
	}
	if got.URL.String() != "https://res.openai.azure.com/openai/v1/responses" {
		t.Errorf("url = %s", got.URL)
	}
	if got.Header.Get("api-key") != "k1" || got.Header.Get("Authorization") != "" {
		t.Errorf("headers = %v", got.Header)
	}
	if c.Model() != "gpt-5-mini" {
		t.Errorf("model = %q", c.Model())
	}
}

func TestSearchClient_APIKey(t *testing.T) {
	var got *http.Request
	tr := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		got = r
		return reply(r, `{"value":[{"@search.score":1.5,"title":"a.pdf"}]}`), nil
	})
	s := config.SearchSettings{Endpoint: "https://svc.search.windows.net", Index: "kb", APIKey: "sk"}
	c, err := setup.SearchClient(s, nil, &search.ClientOptions{Transport: tr, MaxRetries: -1})
	if err != nil {
		t.Fatal(err)
	}
	docs, err := c.Search(context.Background(), search.SearchOptions{Text: "claims"})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Field("title") != "a.pdf" {
		t.Errorf("docs = %v", docs)
	}
	if got.Header.Get("api-key") != "sk" {
		t.Errorf("headers = %v", got.Header)
	}
}

func TestSearchClient_NoCredential(t *testing.T) {
	_, err := setup.SearchClient(config.SearchSettings{Endpoint: "https://svc.search.windows.net", Index: "kb"}, nil, nil)
	if af.ClassifyError(err) != af.ClassFatal {
		t.Errorf("error = %v, want fatal configuration error", err)
	}
}

func TestNeedsCredential(t *testing.T) {
	if setup.NeedsCredential("a", "b") {
		t.Error("keys present but credential needed")
	}
	if !setup.NeedsCredential("a", "") || !setup.NeedsCredential() {
		t.Error("credential not needed")
	}
}
