// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// generateSchemaFromType uses reflection to produce a JSON Schema for a struct.
func generateSchemaFromType(v any) json.RawMessage {
	t := reflect.TypeOf(v)
	if t == nil {
		return json.RawMessage(`{"type":"object","properties":{}}`)
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	b, _ := json.Marshal(schemaForType(t))
	return b
}

func schemaForType(t reflect.Type) map[string]any {
	switch t.Kind() {
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Slice, reflect.Array:
		return map[string]any{
			"type":  "array",
			"items": schemaForType(t.Elem()),
		}
	case reflect.Ptr:
		return schemaForType(t.Elem())
	case reflect.Struct:
		properties := make(map[string]any)
		var required []string
		collectFields(t, properties, &required)
		schema := map[string]any{
			"type":       "object",
			"properties": properties,
		}
		if len(required) > 0 {
			schema["required"] = required
		}
		return schema
	case reflect.Map:
		if t.Key().Kind() == reflect.String {
			return map[string]any{
				"type":                 "object",
				"additionalProperties": schemaForType(t.Elem()),
			}
		}
		return map[string]any{"type": "object"}
	default:
		return map[string]any{"type": "string"}
	}
}

// collectFields adds t's exported fields to properties. Anonymous struct
// fields without a json name are flattened, as encoding/json does.
func collectFields(t reflect.Type, properties map[string]any, required *[]string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name, _, _ := strings.Cut(jsonTag, ",")

		ft := field.Type
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if field.Anonymous && name == "" && ft.Kind() == reflect.Struct {
			collectFields(ft, properties, required)
			continue
		}
		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}

		prop := schemaForType(field.Type)
		if applySchemaTag(prop, field.Tag.Get("jsonschema")) {
			*required = append(*required, name)
		}
		properties[name] = prop
	}
}

// applySchemaTag applies a `jsonschema:"description=...,required,enum=a|b"`
// tag to prop and reports whether the field is required. minimum, maximum
// and default are also understood.
func applySchemaTag(prop map[string]any, tag string) bool {
	if tag == "" {
		return false
	}
	required := false
	for _, part := range strings.Split(tag, ",") {
		key, val, _ := strings.Cut(part, "=")
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		switch key {
		case "description":
			prop["description"] = val
		case "required":
			required = true
		case "enum":
			var vals []any
			for _, ev := range strings.Split(val, "|") {
				vals = append(vals, strings.TrimSpace(ev))
			}
			prop["enum"] = vals
		case "minimum", "maximum":
			if n, err := strconv.ParseFloat(val, 64); err == nil {
				prop[key] = n
			}
		case "default":
			prop["default"] = typedDefault(prop["type"], val)
		}
	}
	return required
}

func typedDefault(typ any, val string) any {
	switch typ {
	case "integer":
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	case "number":
		if n, err := strconv.ParseFloat(val, 64); err == nil {
			return n
		}
	case "boolean":
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return val
}
