// Copyright (c) Microsoft. All rights reserved.

// Package search is a minimal Azure AI Search documents client supporting
// simple, semantic, vector and hybrid queries.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
	"github.com/jochenvw/azure-ai-samples/go/internal/azhttp"
)

const (
	// DefaultAPIVersion is the data-plane API version used by [Client].
	DefaultAPIVersion = "2024-07-01"

	// Scope is the Entra ID scope for Azure AI Search.
	Scope = "https://search.azure.com/.default"
)

// Credential authorizes search requests with either an admin or query key or
// an Entra ID token. Token callers need the Search Index Data Reader role.
type Credential struct {
	APIKey string
	Token  azcore.TokenCredential
}

// KeyCredential returns an API-key [Credential].
func KeyCredential(key string) Credential { return Credential{APIKey: key} }

// TokenCredential returns an Entra ID [Credential].
func TokenCredential(cred azcore.TokenCredential) Credential { return Credential{Token: cred} }

// ClientOptions configures a [Client].
type ClientOptions struct {
	APIVersion string
	Transport  policy.Transporter
	MaxRetries int32
}

// Client queries one search index.
type Client struct {
	az    *azhttp.Client
	index string
}

// NewClient creates a client for index on the search service at endpoint.
func NewClient(endpoint, index string, cred Credential, opts *ClientOptions) (*Client, error) {
	if index == "" {
		return nil, fmt.Errorf("%w: search index name is required", af.ErrConfiguration)
	}
	if opts == nil {
		opts = &ClientOptions{}
	}
	version := opts.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	az, err := azhttp.NewClient("search", endpoint, version,
		azhttp.Auth{APIKey: cred.APIKey, Credential: cred.Token, Scope: Scope},
		&azhttp.Options{Transport: opts.Transport, MaxRetries: opts.MaxRetries})
	if err != nil {
		return nil, err
	}
	return &Client{az: az, index: index}, nil
}

// Index returns the index name.
func (c *Client) Index() string { return c.index }

// QueryType selects the ranking mode of a query.
type QueryType string

const (
	QueryTypeSimple   QueryType = "simple"
	QueryTypeFull     QueryType = "full"
	QueryTypeSemantic QueryType = "semantic"
)

// VectorQuery is a text query vectorized by the index's configured vectorizer.
type VectorQuery struct {
	Text string
	// K is the number of nearest neighbours. Defaults to the query's Top.
	K      int
	Fields string
}

// SearchOptions is one search request.
type SearchOptions struct {
	Text                  string
	Top                   int
	Select                []string
	Filter                string
	QueryType             QueryType
	SemanticConfiguration string
	VectorQueries         []VectorQuery
}

// Kind names the query in the terms used by the service documentation:
// simple, semantic, vector or vector_semantic_hybrid.
func (o SearchOptions) Kind() string {
	semantic := o.QueryType == QueryTypeSemantic
	vector := len(o.VectorQueries) > 0
	switch {
	case semantic && vector:
		return "vector_semantic_hybrid"
	case semantic:
		return "semantic"
	case vector:
		return "vector"
	default:
		return "simple"
	}
}

type searchRequest struct {
	Search                string             `json:"search,omitempty"`
	Top                   int                `json:"top,omitempty"`
	Select                string             `json:"select,omitempty"`
	Filter                string             `json:"filter,omitempty"`
	QueryType             QueryType          `json:"queryType,omitempty"`
	SemanticConfiguration string             `json:"semanticConfiguration,omitempty"`
	VectorQueries         []vectorQueryParam `json:"vectorQueries,omitempty"`
}

type vectorQueryParam struct {
	Kind   string `json:"kind"`
	Text   string `json:"text"`
	K      int    `json:"k,omitempty"`
	Fields string `json:"fields"`
}

type searchResponse struct {
	Value []Document `json:"value"`
}

// Search runs a query and returns the documents in the order the service ranked them.
func (c *Client) Search(ctx context.Context, opts SearchOptions) ([]Document, error) {
	req := searchRequest{
		Search:                opts.Text,
		Top:                   opts.Top,
		Select:                strings.Join(opts.Select, ","),
		Filter:                opts.Filter,
		QueryType:             opts.QueryType,
		SemanticConfiguration: opts.SemanticConfiguration,
	}
	for _, v := range opts.VectorQueries {
		k := v.K
		if k == 0 {
			k = opts.Top
		}
		req.VectorQueries = append(req.VectorQueries, vectorQueryParam{Kind: "text", Text: v.Text, K: k, Fields: v.Fields})
	}

	var out searchResponse
	err := c.az.Do(ctx, azhttp.Call{
		Method: http.MethodPost,
		Path:   "/indexes/" + url.PathEscape(c.index) + "/docs/search",
		Body:   req,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", c.index, err)
	}
	slog.DebugContext(ctx, "search completed", "index", c.index, "kind", opts.Kind(), "documents", len(out.Value))
	return out.Value, nil
}
