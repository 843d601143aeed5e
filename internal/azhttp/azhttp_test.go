// Copyright (c) Microsoft. All rights reserved.

package azhttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
	"github.com/jochenvw/azure-ai-samples/go/internal/azhttp"
)

type transportFunc func(*http.Request) (*http.Response, error)

func (f transportFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(req *http.Request, status int, body any) *http.Response {
	b, _ := json.Marshal(body)
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(b)),
		Request:    req,
	}
}

type fakeCredential struct {
	scopes []string
	err    error
}

func (f *fakeCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	f.scopes = opts.Scopes
	if f.err != nil {
		return azcore.AccessToken{}, f.err
	}
	return azcore.AccessToken{Token: "tok", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		auth     azhttp.Auth
	}{
		{"missing endpoint", "", azhttp.Auth{APIKey: "k"}},
		{"relative endpoint", "search.windows.net", azhttp.Auth{APIKey: "k"}},
		{"no auth", "https://svc.search.windows.net", azhttp.Auth{}},
		{"credential without scope", "https://svc.search.windows.net", azhttp.Auth{Credential: &fakeCredential{}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := azhttp.NewClient("test", tc.endpoint, "", tc.auth, nil)
			if !errors.Is(err, af.ErrConfiguration) {
				t.Fatalf("error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestClient_Do_APIKey(t *testing.T) {
	tp := transportFunc(func(req *http.Request) (*http.Response, error) {
		if got := req.Header.Get("api-key"); got != "secret" {
			t.Errorf("api-key = %q", got)
		}
		if req.URL.Path != "/indexes/docs/docs/search" {
			t.Errorf("path = %q", req.URL.Path)
		}
		q := req.URL.Query()
		if q.Get("api-version") != "2024-07-01" || q.Get("extra") != "1" {
			t.Errorf("query = %q", req.URL.RawQuery)
		}
		var body map[string]any
		_ = json.NewDecoder(req.Body).Decode(&body)
		if body["search"] != "refunds" {
			t.Errorf("body = %v", body)
		}
		return jsonResponse(req, 200, map[string]any{"value": []any{}}), nil
	})

	c, err := azhttp.NewClient("test", "https://svc.search.windows.net/", "2024-07-01",
		azhttp.Auth{APIKey: "secret"}, &azhttp.Options{Transport: tp, MaxRetries: -1})
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Value []any `json:"value"`
	}
	err = c.Do(context.Background(), azhttp.Call{
		Method: http.MethodPost,
		Path:   "/indexes/docs/docs/search",
		Query:  map[string][]string{"extra": {"1"}},
		Body:   map[string]any{"search": "refunds"},
	}, &out)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestClient_Do_BearerToken(t *testing.T) {
	cred := &fakeCredential{}
	tp := transportFunc(func(req *http.Request) (*http.Response, error) {
		if got := req.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		return jsonResponse(req, 204, nil), nil
	})
	c, err := azhttp.NewClient("test", "https://acct.services.ai.azure.com/api/projects/p", "v1",
		azhttp.Auth{Credential: cred, Scope: "https://ai.azure.com/.default"}, &azhttp.Options{Transport: tp, MaxRetries: -1})
	if err != nil {
		t.Fatal(err)
	}
	err = c.Do(context.Background(), azhttp.Call{Method: http.MethodDelete, Path: "/assistants/asst_1", Status: []int{200, 204}}, nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(cred.scopes) != 1 || cred.scopes[0] != "https://ai.azure.com/.default" {
		t.Errorf("scopes = %v", cred.scopes)
	}
}

func TestClient_Do_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     map[string]any
		want     error
		wantCode string
		wantMsg  string
	}{
		{
			name:     "bad semantic configuration",
			status:   400,
			body:     map[string]any{"error": map[string]any{"code": "InvalidRequestParameter", "message": "semantic configuration not found"}},
			want:     af.ErrInvalidRequest,
			wantCode: "InvalidRequestParameter",
			wantMsg:  "semantic configuration not found",
		},
		{
			name:   "forbidden",
			status: 403,
			body:   map[string]any{"error": map[string]any{"code": "Forbidden", "message": "missing role"}},
			want:   af.ErrAuth,
		},
		{
			name:   "missing index",
			status: 404,
			body:   map[string]any{"error": map[string]any{"message": "index not found"}},
			want:   af.ErrNotFound,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tp := transportFunc(func(req *http.Request) (*http.Response, error) {
				return jsonResponse(req, tc.status, tc.body), nil
			})
			c, err := azhttp.NewClient("test", "https://svc.search.windows.net", "", azhttp.Auth{APIKey: "k"}, &azhttp.Options{Transport: tp, MaxRetries: -1})
			if err != nil {
				t.Fatal(err)
			}
			err = c.Do(context.Background(), azhttp.Call{Method: http.MethodGet, Path: "/indexes"}, nil)
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
			var svcErr *af.ServiceError
			if !errors.As(err, &svcErr) {
				t.Fatal("expected ServiceError")
			}
			if svcErr.StatusCode != tc.status {
				t.Errorf("StatusCode = %d", svcErr.StatusCode)
			}
			if tc.wantCode != "" && svcErr.Code != tc.wantCode {
				t.Errorf("Code = %q", svcErr.Code)
			}
			if tc.wantMsg != "" && svcErr.Message != tc.wantMsg {
				t.Errorf("Message = %q", svcErr.Message)
			}
			var azErr *azcore.ResponseError
			if !errors.As(err, &azErr) {
				t.Error("expected the azcore.ResponseError in the chain")
			}
		})
	}
}

func TestClient_Do_TokenFailureIsFatal(t *testing.T) {
	cred := &fakeCredential{err: errors.New("az login required")}
	tp := transportFunc(func(req *http.Request) (*http.Response, error) {
		t.Error("request sent without a token")
		return nil, errors.New("unreachable")
	})
	c, err := azhttp.NewClient("test", "https://svc.search.windows.net", "", azhttp.Auth{Credential: cred, Scope: "s"}, &azhttp.Options{Transport: tp, MaxRetries: -1})
	if err != nil {
		t.Fatal(err)
	}
	err = c.Do(context.Background(), azhttp.Call{Method: http.MethodGet, Path: "/indexes"}, nil)
	if af.ClassifyError(err) != af.ClassFatal {
		t.Fatalf("ClassifyError(%v) = %s, want fatal", err, af.ClassifyError(err))
	}
}
