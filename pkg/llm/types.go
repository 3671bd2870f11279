package llm

import (
	"context"
	"encoding/base64"
	"strings"
)

// Role of a message sender.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsConversational reports whether r may appear in conversation history.
func (r Role) IsConversational() bool {
	return r == RoleUser || r == RoleAssistant
}

// DefaultImageType is used when an image has no content type.
const DefaultImageType = "image/png"

// Image is an inline attachment.
type Image struct {
	ContentType string
	Data        []byte
}

// DataURI encodes the image as data:{type};base64,{payload}.
func (i Image) DataURI() string {
	ct := strings.TrimSpace(i.ContentType)
	if ct == "" {
		ct = DefaultImageType
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Message is a single chat turn. Images are honoured on user messages only.
type Message struct {
	Role    Role
	Content string
	Images  []Image
}

// UserText builds a user message with optional images.
func UserText(content string, images ...Image) Message {
	return Message{Role: RoleUser, Content: content, Images: images}
}

// AssistantText builds an assistant message.
func AssistantText(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Request is a single completion request.
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64

	// JSON asks the model for a JSON object response.
	JSON bool
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Response is the first choice of a completion.
type Response struct {
	Content      string
	FinishReason string
	Model        string
	Usage        Usage
}

// Completer produces chat completions.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Model() string
}
