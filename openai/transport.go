// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

const defaultBaseURL = "https://api.openai.com/v1"

// AzureBaseURL returns the v1 Responses base URL of an Azure OpenAI or AI
// Services resource endpoint such as https://my-resource.openai.azure.com/.
func AzureBaseURL(endpoint string) string {
	return strings.TrimRight(endpoint, "/") + "/openai/v1"
}

// ProjectBaseURL returns the OpenAI-compatible base URL of a Foundry project
// endpoint such as https://acct.services.ai.azure.com/api/projects/demo.
// Pair it with [WithAPIVersion] and [WithTokenScope]([ScopeAIFoundry]).
func ProjectBaseURL(projectEndpoint string) string {
	return strings.TrimRight(projectEndpoint, "/") + "/openai"
}

// transport is an unexported interface for HTTP communication.
// The default implementation uses net/http; tests inject a mock.
type transport interface {
	do(ctx context.Context, method, path string, body any) (*http.Response, error)
}

// httpTransport is the default transport using net/http.
type httpTransport struct {
	client          *http.Client
	baseURL         string
	apiKey          string
	org             string
	apiVersion      string
	headers         map[string]string
	azureCredential azcore.TokenCredential
	tokenScope      string
}

func newHTTPTransport(apiKey string, cfg *clientConfig) *httpTransport {
	t := &httpTransport{
		client:          cfg.httpClient,
		baseURL:         strings.TrimRight(cfg.baseURL, "/"),
		apiKey:          apiKey,
		org:             cfg.organization,
		apiVersion:      cfg.apiVersion,
		headers:         cfg.headers,
		azureCredential: cfg.azureCredential,
		tokenScope:      cfg.tokenScope,
	}
	if t.client == nil {
		t.client = http.DefaultClient
	}
	if t.baseURL == "" {
		t.baseURL = defaultBaseURL
	}
	if t.tokenScope == "" {
		t.tokenScope = ScopeCognitiveServices
	}
	return t
}

func (t *httpTransport) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	target := t.baseURL + path
	if t.apiVersion != "" {
		target += "?" + url.Values{"api-version": {t.apiVersion}}.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	switch _, hasKey := t.headers["api-key"]; {
	case t.azureCredential != nil:
		token, err := t.azureCredential.GetToken(ctx, policy.TokenRequestOptions{
			Scopes: []string{t.tokenScope},
		})
		if err != nil {
			return nil, &af.ServiceError{Message: "acquire token: " + err.Error(), Err: af.ErrAuth}
		}
		slog.DebugContext(ctx, "using Entra ID token", "scope", t.tokenScope, "expires_on", token.ExpiresOn)
		req.Header.Set("Authorization", "Bearer "+token.Token)
	case !hasKey && t.apiKey != "":
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	if t.org != "" {
		req.Header.Set("OpenAI-Organization", t.org)
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, parseErrorResponse(resp)
	}
	return resp, nil
}

// apiError is the error object of both error bodies and failed responses.
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// parseErrorResponse reads an error response body and returns a typed error.
func parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var envelope struct {
		Error apiError `json:"error"`
	}
	_ = json.Unmarshal(body, &envelope)

	msg := envelope.Error.Message
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = resp.Status
	}

	return &af.ServiceError{
		StatusCode: resp.StatusCode,
		Message:    msg,
		Code:       envelope.Error.Code,
		Err:        af.SentinelForStatus(resp.StatusCode, envelope.Error.Code),
	}
}
