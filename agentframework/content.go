// Copyright (c) Microsoft. All rights reserved.

package agentframework

// ContentType identifies the kind of content within a message.
type ContentType string

const (
	ContentTypeText                  ContentType = "text"
	ContentTypeTextReasoning         ContentType = "reasoning"
	ContentTypeData                  ContentType = "data"
	ContentTypeURI                   ContentType = "uri"
	ContentTypeError                 ContentType = "error"
	ContentTypeFunctionCall          ContentType = "functionCall"
	ContentTypeFunctionResult        ContentType = "functionResult"
	ContentTypeUsage                 ContentType = "usage"
	ContentTypeCodeInterpreterCall   ContentType = "codeInterpreterToolCall"
	ContentTypeCodeInterpreterResult ContentType = "codeInterpreterToolResult"
	ContentTypeImageGenResult        ContentType = "imageGenerationToolResult"
	ContentTypeMCPServerCall         ContentType = "mcpServerToolCall"
	ContentTypeMCPServerResult       ContentType = "mcpServerToolResult"
	ContentTypeApprovalRequest       ContentType = "functionApprovalRequest"
	ContentTypeApprovalResponse      ContentType = "functionApprovalResponse"
)

// Content is a sealed interface representing a piece of content within a [Message].
// Each concrete type carries data specific to its [ContentType].
// Use a type switch to inspect the underlying type.
type Content interface {
	// Type returns the discriminator for this content item.
	Type() ContentType

	// sealed prevents external implementations.
	sealed()
}

// base is embedded by every concrete Content type to satisfy the sealed marker.
type base struct{}

func (base) sealed() {}

// AnnotationKind distinguishes citation sources.
type AnnotationKind string

const (
	AnnotationURLCitation  AnnotationKind = "url_citation"
	AnnotationFileCitation AnnotationKind = "file_citation"
)

// Annotation is a citation attached to a span of generated text.
type Annotation struct {
	Kind       AnnotationKind `json:"kind"`
	Title      string         `json:"title,omitempty"`
	URL        string         `json:"url,omitempty"`
	FileID     string         `json:"fileId,omitempty"`
	StartIndex int            `json:"startIndex,omitempty"`
	EndIndex   int            `json:"endIndex,omitempty"`
}

// TextContent holds plain text and any citations the service attached to it.
type TextContent struct {
	base
	Text        string
	Annotations []Annotation
}

func (c *TextContent) Type() ContentType { return ContentTypeText }

// TextReasoningContent holds a reasoning summary produced by a reasoning model.
type TextReasoningContent struct {
	base
	Text string
}

func (c *TextReasoningContent) Type() ContentType { return ContentTypeTextReasoning }

// DataContent holds binary data represented as a data URI.
type DataContent struct {
	base
	URI       string // data URI (e.g. data:image/png;base64,...)
	MediaType string
}

func (c *DataContent) Type() ContentType { return ContentTypeData }

// URIContent holds an external URI reference.
type URIContent struct {
	base
	URI       string
	MediaType string
}

func (c *URIContent) Type() ContentType { return ContentTypeURI }

// ErrorContent represents an error returned as message content.
type ErrorContent struct {
	base
	Message   string
	ErrorCode string
}

func (c *ErrorContent) Type() ContentType { return ContentTypeError }

// FunctionCallContent represents a tool/function call requested by the model.
type FunctionCallContent struct {
	base
	CallID    string
	Name      string
	Arguments string // JSON-encoded arguments
}

func (c *FunctionCallContent) Type() ContentType { return ContentTypeFunctionCall }

// FunctionResultContent represents the result of a tool/function call.
type FunctionResultContent struct {
	base
	CallID string
	Result any
}

func (c *FunctionResultContent) Type() ContentType { return ContentTypeFunctionResult }

// UsageContent carries token usage information.
type UsageContent struct {
	base
	Usage UsageDetails
}

func (c *UsageContent) Type() ContentType { return ContentTypeUsage }

// CodeInterpreterCallContent represents a hosted code interpreter invocation.
type CodeInterpreterCallContent struct {
	base
	CallID string
	Code   string
}

func (c *CodeInterpreterCallContent) Type() ContentType { return ContentTypeCodeInterpreterCall }

// CodeInterpreterResultContent represents the logs produced by a code interpreter.
type CodeInterpreterResultContent struct {
	base
	CallID string
	Output string
}

func (c *CodeInterpreterResultContent) Type() ContentType { return ContentTypeCodeInterpreterResult }

// ImageGenResultContent represents an image produced by a hosted image tool.
type ImageGenResultContent struct {
	base
	CallID string
	URI    string
}

func (c *ImageGenResultContent) Type() ContentType { return ContentTypeImageGenResult }

// MCPServerCallContent represents a call the service made to a remote MCP server.
type MCPServerCallContent struct {
	base
	CallID      string
	ServerLabel string
	Name        string
	Arguments   string
}

func (c *MCPServerCallContent) Type() ContentType { return ContentTypeMCPServerCall }

// MCPServerResultContent represents the output of a remote MCP tool.
type MCPServerResultContent struct {
	base
	CallID string
	Result any
	Error  string
}

func (c *MCPServerResultContent) Type() ContentType { return ContentTypeMCPServerResult }

// ApprovalRequestContent requests user approval before a tool runs. ServerLabel
// is set when the request comes from a hosted MCP tool.
type ApprovalRequestContent struct {
	base
	CallID      string
	ServerLabel string
	Name        string
	Arguments   string
}

func (c *ApprovalRequestContent) Type() ContentType { return ContentTypeApprovalRequest }

// ApprovalResponseContent carries the user's approval decision.
type ApprovalResponseContent struct {
	base
	CallID   string
	Approved bool
	Reason   string
}

func (c *ApprovalResponseContent) Type() ContentType { return ContentTypeApprovalResponse }
