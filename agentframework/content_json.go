// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"encoding/json"
	"fmt"
)

// contentWire is the JSON form of every Content variant, discriminated by $type.
// Unused fields are omitted.
type contentWire struct {
	Type        ContentType     `json:"$type"`
	Text        string          `json:"text,omitempty"`
	Annotations []Annotation    `json:"annotations,omitempty"`
	URI         string          `json:"uri,omitempty"`
	MediaType   string          `json:"mediaType,omitempty"`
	Message     string          `json:"message,omitempty"`
	ErrorCode   string          `json:"errorCode,omitempty"`
	CallID      string          `json:"callId,omitempty"`
	ServerLabel string          `json:"serverLabel,omitempty"`
	Name        string          `json:"name,omitempty"`
	Arguments   json.RawMessage `json:"arguments,omitempty"`
	Result      any             `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	Usage       *UsageDetails   `json:"usage,omitempty"`
	Code        string          `json:"code,omitempty"`
	Output      string          `json:"output,omitempty"`
	Approved    *bool           `json:"approved,omitempty"`
	Reason      string          `json:"reason,omitempty"`
}

// rawArgs keeps JSON arguments verbatim and quotes anything that is not valid JSON.
func rawArgs(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	b, _ := json.Marshal(s)
	return b
}

// argsString reverses rawArgs.
func argsString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

// MarshalContentJSON marshals a single Content value into its JSON envelope.
func MarshalContentJSON(c Content) ([]byte, error) {
	w := contentWire{}
	switch v := c.(type) {
	case *TextContent:
		w.Text, w.Annotations = v.Text, v.Annotations
	case *TextReasoningContent:
		w.Text = v.Text
	case *DataContent:
		w.URI, w.MediaType = v.URI, v.MediaType
	case *URIContent:
		w.URI, w.MediaType = v.URI, v.MediaType
	case *ErrorContent:
		w.Message, w.ErrorCode = v.Message, v.ErrorCode
	case *FunctionCallContent:
		w.CallID, w.Name, w.Arguments = v.CallID, v.Name, rawArgs(v.Arguments)
	case *FunctionResultContent:
		w.CallID, w.Result = v.CallID, v.Result
	case *UsageContent:
		u := v.Usage
		w.Usage = &u
	case *CodeInterpreterCallContent:
		w.CallID, w.Code = v.CallID, v.Code
	case *CodeInterpreterResultContent:
		w.CallID, w.Output = v.CallID, v.Output
	case *ImageGenResultContent:
		w.CallID, w.URI = v.CallID, v.URI
	case *MCPServerCallContent:
		w.CallID, w.ServerLabel, w.Name, w.Arguments = v.CallID, v.ServerLabel, v.Name, rawArgs(v.Arguments)
	case *MCPServerResultContent:
		w.CallID, w.Result, w.Error = v.CallID, v.Result, v.Error
	case *ApprovalRequestContent:
		w.CallID, w.ServerLabel, w.Name, w.Arguments = v.CallID, v.ServerLabel, v.Name, rawArgs(v.Arguments)
	case *ApprovalResponseContent:
		approved := v.Approved
		w.CallID, w.Approved, w.Reason = v.CallID, &approved, v.Reason
	default:
		return nil, fmt.Errorf("unknown content type: %T", c)
	}
	w.Type = c.Type()
	return json.Marshal(w)
}

// UnmarshalContentJSON unmarshals a single Content value from its JSON envelope.
func UnmarshalContentJSON(data []byte) (Content, error) {
	var w contentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("unmarshal content envelope: %w", err)
	}

	switch w.Type {
	case ContentTypeText:
		return &TextContent{Text: w.Text, Annotations: w.Annotations}, nil
	case ContentTypeTextReasoning:
		return &TextReasoningContent{Text: w.Text}, nil
	case ContentTypeData:
		return &DataContent{URI: w.URI, MediaType: w.MediaType}, nil
	case ContentTypeURI:
		return &URIContent{URI: w.URI, MediaType: w.MediaType}, nil
	case ContentTypeError:
		return &ErrorContent{Message: w.Message, ErrorCode: w.ErrorCode}, nil
	case ContentTypeFunctionCall:
		return &FunctionCallContent{CallID: w.CallID, Name: w.Name, Arguments: argsString(w.Arguments)}, nil
	case ContentTypeFunctionResult:
		return &FunctionResultContent{CallID: w.CallID, Result: w.Result}, nil
	case ContentTypeUsage:
		c := &UsageContent{}
		if w.Usage != nil {
			c.Usage = *w.Usage
		}
		return c, nil
	case ContentTypeCodeInterpreterCall:
		return &CodeInterpreterCallContent{CallID: w.CallID, Code: w.Code}, nil
	case ContentTypeCodeInterpreterResult:
		return &CodeInterpreterResultContent{CallID: w.CallID, Output: w.Output}, nil
	case ContentTypeImageGenResult:
		return &ImageGenResultContent{CallID: w.CallID, URI: w.URI}, nil
	case ContentTypeMCPServerCall:
		return &MCPServerCallContent{CallID: w.CallID, ServerLabel: w.ServerLabel, Name: w.Name, Arguments: argsString(w.Arguments)}, nil
	case ContentTypeMCPServerResult:
		return &MCPServerResultContent{CallID: w.CallID, Result: w.Result, Error: w.Error}, nil
	case ContentTypeApprovalRequest:
		return &ApprovalRequestContent{CallID: w.CallID, ServerLabel: w.ServerLabel, Name: w.Name, Arguments: argsString(w.Arguments)}, nil
	case ContentTypeApprovalResponse:
		return &ApprovalResponseContent{CallID: w.CallID, Approved: w.Approved != nil && *w.Approved, Reason: w.Reason}, nil
	default:
		return nil, fmt.Errorf("unknown content $type: %q", w.Type)
	}
}

// Contents is a typed slice enabling JSON marshal/unmarshal of polymorphic Content arrays.
type Contents []Content

// MarshalJSON serializes each Content item using its $type discriminator.
func (cs Contents) MarshalJSON() ([]byte, error) {
	items := make([]json.RawMessage, len(cs))
	for i, c := range cs {
		b, err := MarshalContentJSON(c)
		if err != nil {
			return nil, fmt.Errorf("marshal content[%d]: %w", i, err)
		}
		items[i] = b
	}
	return json.Marshal(items)
}

// UnmarshalJSON deserializes a JSON array of Content items using the $type discriminator.
func (cs *Contents) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	result := make(Contents, len(raw))
	for i, r := range raw {
		c, err := UnmarshalContentJSON(r)
		if err != nil {
			return fmt.Errorf("unmarshal content[%d]: %w", i, err)
		}
		result[i] = c
	}
	*cs = result
	return nil
}
