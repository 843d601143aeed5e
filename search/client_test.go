// Copyright (c) Microsoft. All rights reserved.

package search_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
	"github.com/jochenvw/azure-ai-samples/go/search"
)

type transportFunc func(*http.Request) (*http.Response, error)

func (f transportFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(req *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Request:    req,
	}
}

func newTestClient(t *testing.T, fn func(*http.Request) (*http.Response, error)) *search.Client {
	t.Helper()
	c, err := search.NewClient("https://svc.search.windows.net", "kb-index",
		search.KeyCredential("k"), &search.ClientOptions{Transport: transportFunc(fn), MaxRetries: -1})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

const twoDocs = `{"value":[
	{"@search.score":2.5,"@search.rerankerScore":3.1,"title":"insurance_times_bank.pdf","chunk":"Claims are paid in 14 days."},
	{"@search.score":1.25,"title":null,"name":"policy.docx","content":"Refunds.","pages":3}
]}`

func TestClient_Search_HybridRequest(t *testing.T) {
	var sent map[string]any
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/indexes/kb-index/docs/search" {
			t.Errorf("path = %q", req.URL.Path)
		}
		if req.URL.Query().Get("api-version") != search.DefaultAPIVersion {
			t.Errorf("api-version = %q", req.URL.Query().Get("api-version"))
		}
		_ = json.NewDecoder(req.Body).Decode(&sent)
		return jsonResponse(req, 200, twoDocs), nil
	})

	opts := search.SearchOptions{
		Text:                  "claims",
		Top:                   5,
		Select:                []string{"chunk", "title"},
		QueryType:             search.QueryTypeSemantic,
		SemanticConfiguration: "default",
		VectorQueries:         []search.VectorQuery{{Text: "claims", Fields: "text_vector"}},
	}
	docs, err := c.Search(context.Background(), opts)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if sent["search"] != "claims" || sent["top"] != float64(5) || sent["select"] != "chunk,title" {
		t.Errorf("request = %v", sent)
	}
	if sent["queryType"] != "semantic" || sent["semanticConfiguration"] != "default" {
		t.Errorf("semantic params = %v", sent)
	}
	vq := sent["vectorQueries"].([]any)[0].(map[string]any)
	if vq["kind"] != "text" || vq["k"] != float64(5) || vq["fields"] != "text_vector" {
		t.Errorf("vector query = %v", vq)
	}

	if len(docs) != 2 {
		t.Fatalf("docs = %d", len(docs))
	}
	if docs[0].Field("title") != "insurance_times_bank.pdf" || docs[0].Score() != 2.5 {
		t.Errorf("docs[0] = %s", docs[0].Raw())
	}
	if s, ok := docs[0].RerankerScore(); !ok || s != 3.1 {
		t.Errorf("RerankerScore = %v, %v", s, ok)
	}
	if _, ok := docs[1].RerankerScore(); ok {
		t.Error("docs[1] has no reranker score")
	}
}

func TestDocument_Field(t *testing.T) {
	doc, err := search.NewDocument([]byte(`{"title":null,"name":"","fileName":"a.pdf","pages":3,"meta":{"lang":"en"}}`))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		names []string
		want  string
	}{
		{[]string{"title", "name", "fileName"}, "a.pdf"},
		{[]string{"missing"}, ""},
		{[]string{"pages"}, "3"},
		{[]string{"meta"}, `{"lang":"en"}`},
	}
	for _, tc := range tests {
		if got := doc.Field(tc.names...); got != tc.want {
			t.Errorf("Field(%v) = %q, want %q", tc.names, got, tc.want)
		}
	}
	if doc.Get("meta.lang").String() != "en" {
		t.Error("Get(meta.lang)")
	}
}

func TestNewDocument_RejectsNonObjects(t *testing.T) {
	for _, raw := range []string{`[1,2]`, `"text"`, `{broken`} {
		if _, err := search.NewDocument([]byte(raw)); err == nil {
			t.Errorf("NewDocument(%s) succeeded", raw)
		}
	}
}

func TestSearchOptions_Kind(t *testing.T) {
	vq := []search.VectorQuery{{Text: "q", Fields: "v"}}
	tests := []struct {
		opts search.SearchOptions
		want string
	}{
		{search.SearchOptions{}, "simple"},
		{search.SearchOptions{QueryType: search.QueryTypeSemantic}, "semantic"},
		{search.SearchOptions{VectorQueries: vq}, "vector"},
		{search.SearchOptions{QueryType: search.QueryTypeSemantic, VectorQueries: vq}, "vector_semantic_hybrid"},
	}
	for _, tc := range tests {
		if got := tc.opts.Kind(); got != tc.want {
			t.Errorf("Kind(%+v) = %q, want %q", tc.opts, got, tc.want)
		}
	}
}

func TestClient_Search_ServiceError(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(req, 400, `{"error":{"code":"InvalidRequestParameter","message":"Unknown field 'text_vector'"}}`), nil
	})
	_, err := c.Search(context.Background(), search.SearchOptions{Text: "q"})
	var svcErr *af.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("error = %v, want ServiceError", err)
	}
	if !errors.Is(err, af.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestNewClient_RequiresIndex(t *testing.T) {
	_, err := search.NewClient("https://svc.search.windows.net", "", search.KeyCredential("k"), nil)
	if !errors.Is(err, af.ErrConfiguration) {
		t.Fatalf("error = %v", err)
	}
}
