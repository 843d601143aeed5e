// Copyright (c) Microsoft. All rights reserved.

package agentframework_test

import (
	"encoding/json"
	"testing"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

type searchArgs struct {
	Query string `json:"query" jsonschema:"description=Search terms,required"`
	Mode  string `json:"mode"  jsonschema:"description=Query mode,enum=simple|semantic"`
}

func TestGenerateSchema_BasicStruct(t *testing.T) {
	schema := af.GenerateSchema[searchArgs]()

	var parsed map[string]any
	if err := json.Unmarshal(schema, &parsed); err != nil {
		t.Fatalf("unmarshal schema: %v", err)
	}

	if parsed["type"] != "object" {
		t.Errorf("type = %v, want object", parsed["type"])
	}

	props, ok := parsed["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties not a map: %T", parsed["properties"])
	}

	queryProp, ok := props["query"].(map[string]any)
	if !ok {
		t.Fatalf("query property missing or wrong type")
	}
	if queryProp["type"] != "string" {
		t.Errorf("query type = %v", queryProp["type"])
	}
	if queryProp["description"] != "Search terms" {
		t.Errorf("query description = %v", queryProp["description"])
	}

	modeProp, ok := props["mode"].(map[string]any)
	if !ok {
		t.Fatalf("mode property missing or wrong type")
	}
	enumVals, ok := modeProp["enum"].([]any)
	if !ok {
		t.Fatalf("mode enum missing or wrong type: %T", modeProp["enum"])
	}
	if len(enumVals) != 2 {
		t.Errorf("enum len = %d, want 2", len(enumVals))
	}

	required, ok := parsed["required"].([]any)
	if !ok {
		t.Fatalf("required missing or wrong type")
	}
	found := false
	for _, r := range required {
		if r == "query" {
			found = true
		}
	}
	if !found {
		t.Error("query not in required list")
	}
}

type nestedArgs struct {
	Items []string       `json:"items"`
	Tags  map[string]int `json:"tags"`
	Count int            `json:"count"`
	Flag  bool           `json:"flag"`
	Score float64        `json:"score"`
}

func TestGenerateSchema_TypeMapping(t *testing.T) {
	schema := af.GenerateSchema[nestedArgs]()

	var parsed map[string]any
	if err := json.Unmarshal(schema, &parsed); err != nil {
		t.Fatal(err)
	}

	props := parsed["properties"].(map[string]any)

	// Array of strings
	items := props["items"].(map[string]any)
	if items["type"] != "array" {
		t.Errorf("items type = %v", items["type"])
	}
	itemsInner := items["items"].(map[string]any)
	if itemsInner["type"] != "string" {
		t.Errorf("items inner type = %v", itemsInner["type"])
	}

	// Map
	tags := props["tags"].(map[string]any)
	if tags["type"] != "object" {
		t.Errorf("tags type = %v", tags["type"])
	}

	// Int
	count := props["count"].(map[string]any)
	if count["type"] != "integer" {
		t.Errorf("count type = %v", count["type"])
	}

	// Bool
	flag := props["flag"].(map[string]any)
	if flag["type"] != "boolean" {
		t.Errorf("flag type = %v", flag["type"])
	}

	// Float
	score := props["score"].(map[string]any)
	if score["type"] != "number" {
		t.Errorf("score type = %v", score["type"])
	}
}

type pagedArgs struct {
	searchArgs
	Top int `json:"top" jsonschema:"description=Number of documents,minimum=1,maximum=50,default=5"`
}

func TestGenerateSchema_EmbeddedAndBounds(t *testing.T) {
	var parsed struct {
		Properties map[string]map[string]any `json:"properties"`
		Required   []string                  `json:"required"`
	}
	if err := json.Unmarshal(af.GenerateSchema[pagedArgs](), &parsed); err != nil {
		t.Fatal(err)
	}
	if _, ok := parsed.Properties["query"]; !ok {
		t.Error("embedded field query was not flattened")
	}
	top := parsed.Properties["top"]
	if top["minimum"] != 1.0 || top["maximum"] != 50.0 || top["default"] != 5.0 {
		t.Errorf("top = %v", top)
	}
	if len(parsed.Required) != 1 || parsed.Required[0] != "query" {
		t.Errorf("required = %v", parsed.Required)
	}
}
