// Copyright (c) Microsoft. All rights reserved.

// Package azhttp builds azcore pipelines for the Azure data-plane clients and
// maps their failures onto the agentframework error types.
package azhttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/tidwall/gjson"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

const moduleVersion = "v0.1.0"

// Auth selects how requests are authorized. Exactly one of APIKey or
// Credential is used; APIKey wins when both are set.
type Auth struct {
	APIKey string
	// KeyHeader is the header carrying APIKey. Defaults to "api-key".
	KeyHeader  string
	Credential azcore.TokenCredential
	Scope      string
}

// Options configures a [Client].
type Options struct {
	// Transport replaces the default HTTP transport, mainly for tests.
	Transport policy.Transporter
	// MaxRetries is passed to the azcore retry policy. Zero keeps the azcore
	// default; a negative value disables retries.
	MaxRetries int32
}

// Client sends JSON requests to one service endpoint through an azcore pipeline.
type Client struct {
	pl         runtime.Pipeline
	endpoint   string
	apiVersion string
}

// NewClient creates a client for endpoint. module names the calling package in
// the telemetry User-Agent, apiVersion is added to every request.
func NewClient(module, endpoint, apiVersion string, auth Auth, opts *Options) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint is required", af.ErrConfiguration)
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid endpoint %q", af.ErrConfiguration, endpoint)
	}
	if opts == nil {
		opts = &Options{}
	}

	var authPolicy policy.Policy
	switch {
	case auth.APIKey != "":
		header := auth.KeyHeader
		if header == "" {
			header = "api-key"
		}
		authPolicy = runtime.NewKeyCredentialPolicy(azcore.NewKeyCredential(auth.APIKey), header, nil)
	case auth.Credential != nil:
		if auth.Scope == "" {
			return nil, fmt.Errorf("%w: token scope is required", af.ErrConfiguration)
		}
		authPolicy = runtime.NewBearerTokenPolicy(tokenCredential{auth.Credential}, []string{auth.Scope}, nil)
	default:
		return nil, fmt.Errorf("%w: an API key or token credential is required", af.ErrConfiguration)
	}

	clientOpts := &policy.ClientOptions{
		Transport: opts.Transport,
		Retry:     policy.RetryOptions{MaxRetries: opts.MaxRetries},
	}
	pl := runtime.NewPipeline(module, moduleVersion, runtime.PipelineOptions{
		PerRetry: []policy.Policy{authPolicy},
	}, clientOpts)

	return &Client{
		pl:         pl,
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiVersion: apiVersion,
	}, nil
}

// Call describes one request.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Status lists the accepted status codes. Defaults to 200.
	Status []int
}

// Do sends call and decodes the JSON response into out, which may be nil.
// Unexpected status codes return an *af.ServiceError.
func (c *Client) Do(ctx context.Context, call Call, out any) error {
	req, err := runtime.NewRequest(ctx, call.Method, runtime.JoinPaths(c.endpoint, call.Path))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.Raw().URL.Query()
	for k, vs := range call.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if c.apiVersion != "" {
		q.Set("api-version", c.apiVersion)
	}
	req.Raw().URL.RawQuery = q.Encode()
	req.Raw().Header.Set("Accept", "application/json")

	if call.Body != nil {
		if err := runtime.MarshalAsJSON(req, call.Body); err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	slog.DebugContext(ctx, "azure request", "method", call.Method, "path", call.Path)
	resp, err := c.pl.Do(req)
	if err != nil {
		return transportError(err)
	}

	status := call.Status
	if len(status) == 0 {
		status = []int{http.StatusOK}
	}
	if !runtime.HasStatusCode(resp, status...) {
		return ResponseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := runtime.UnmarshalAsJSON(resp, out); err != nil {
		return fmt.Errorf("%w: %v", af.ErrInvalidResponse, err)
	}
	return nil
}

// ResponseError converts an unexpected HTTP response into an *af.ServiceError
// that also wraps the *azcore.ResponseError.
func ResponseError(resp *http.Response) error {
	body, _ := runtime.Payload(resp)
	respErr := runtime.NewResponseError(resp)

	code := ""
	var azErr *azcore.ResponseError
	if errors.As(respErr, &azErr) {
		code = azErr.ErrorCode
	}
	msg := gjson.GetBytes(body, "error.message").String()
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = resp.Status
	}
	return &af.ServiceError{
		StatusCode: resp.StatusCode,
		Message:    msg,
		Code:       code,
		Err:        fmt.Errorf("%w: %w", af.SentinelForStatus(resp.StatusCode, code), respErr),
	}
}

// tokenCredential marks token acquisition failures as authentication errors.
type tokenCredential struct {
	cred azcore.TokenCredential
}

func (t tokenCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	tk, err := t.cred.GetToken(ctx, opts)
	if err != nil {
		return tk, &af.ServiceError{Message: "acquire token: " + err.Error(), Err: fmt.Errorf("%w: %w", af.ErrAuth, err)}
	}
	return tk, nil
}

// transportError wraps errors returned by the pipeline before any response
// arrived. Auth and cancellation errors keep their identity.
func transportError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, af.ErrAuth) {
		return err
	}
	return fmt.Errorf("http request: %w", err)
}
