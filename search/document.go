// Copyright (c) Microsoft. All rights reserved.

package search

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Document is one search result. Index schemas vary, so the document keeps its
// raw JSON and exposes lookups by field name.
type Document struct {
	raw    json.RawMessage
	fields map[string]gjson.Result
}

// NewDocument wraps a raw JSON object.
func NewDocument(raw []byte) (Document, error) {
	if !gjson.ValidBytes(raw) {
		return Document{}, errors.New("invalid document JSON")
	}
	res := gjson.ParseBytes(raw)
	if !res.IsObject() {
		return Document{}, fmt.Errorf("document is %s, want object", res.Type)
	}
	return Document{raw: append(json.RawMessage(nil), raw...), fields: res.Map()}, nil
}

func (d *Document) UnmarshalJSON(b []byte) error {
	doc, err := NewDocument(b)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	if d.raw == nil {
		return []byte("{}"), nil
	}
	return d.raw, nil
}

// Raw returns the document JSON as returned by the service.
func (d Document) Raw() json.RawMessage { return d.raw }

// Field returns the first of names whose value is a non-empty string.
// Non-string values are rendered as JSON.
func (d Document) Field(names ...string) string {
	for _, n := range names {
		v, ok := d.fields[n]
		if !ok || v.Type == gjson.Null {
			continue
		}
		if s := v.String(); s != "" {
			return s
		}
	}
	return ""
}

// Get evaluates a gjson path against the document, for nested fields.
func (d Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d.raw, path)
}

// Score returns @search.score.
func (d Document) Score() float64 {
	return d.fields["@search.score"].Float()
}

// RerankerScore returns @search.rerankerScore, present on semantic queries.
func (d Document) RerankerScore() (float64, bool) {
	v, ok := d.fields["@search.rerankerScore"]
	if !ok || v.Type == gjson.Null {
		return 0, false
	}
	return v.Float(), true
}
