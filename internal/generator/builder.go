package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrymomot/mailcraft/pkg/apperr"
	"github.com/dmitrymomot/mailcraft/pkg/llm"
)

const (
	// MaxImages is the attachment limit of a single generation request.
	MaxImages = 4

	generationTemperature = 0.3
	generationMaxTokens   = 4000
)

// Reference is a stored template offered to the model as a style guide.
type Reference struct {
	Subject     string
	Description string
	HTML        string
}

// BuildInput is everything that shapes a generation request.
type BuildInput struct {
	Prompt      string
	History     []llm.Message
	CurrentHTML string
	Images      []llm.Image
	References  []Reference
}

// EditMode reports whether the request modifies an existing document.
func (in BuildInput) EditMode() bool {
	return strings.TrimSpace(in.CurrentHTML) != ""
}

// Build assembles the chat request. In edit mode references are ignored and
// the final user turn embeds the current document. More than MaxImages images
// is a validation error.
func Build(in BuildInput) (llm.Request, error) {
	if len(in.Images) > MaxImages {
		return llm.Request{}, tooManyImages()
	}

	system := SystemPrompt
	var final string
	if in.EditMode() {
		final = EditTurn(in.CurrentHTML, in.Prompt)
	} else {
		final = in.Prompt
		if block := FormatReferences(in.References); block != "" {
			system = SystemPrompt + "\n\n" + block + "\n"
		}
	}

	messages := append(FilterHistory(in.History), llm.UserText(final, in.Images...))

	return llm.Request{
		System:      system,
		Messages:    messages,
		MaxTokens:   generationMaxTokens,
		Temperature: generationTemperature,
	}, nil
}

func tooManyImages() error {
	return apperr.Validation("too_many_images", fmt.Sprintf("Maximum %d images allowed", MaxImages))
}

// EditTurn wraps the current document and the user's instruction.
func EditTurn(currentHTML, prompt string) string {
	return "CURRENT TEMPLATE HTML:\n```html\n" + currentHTML + "\n```\n\nUSER REQUEST: " + prompt
}

// FilterHistory keeps user and assistant turns with content, in order.
// Images on history turns are dropped.
func FilterHistory(history []llm.Message) []llm.Message {
	out := make([]llm.Message, 0, len(history)+1)
	for _, msg := range history {
		if !msg.Role.IsConversational() || msg.Content == "" {
			continue
		}
		out = append(out, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	return out
}

// ParseHistory decodes a JSON array of {"role", "content"} objects. A missing
// role means user. Malformed input yields no history and a non-nil error the
// caller may log.
func ParseHistory(raw string) ([]llm.Message, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var turns []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHistory, err)
	}

	out := make([]llm.Message, 0, len(turns))
	for _, turn := range turns {
		role := llm.Role(turn.Role)
		if role == "" {
			role = llm.RoleUser
		}
		out = append(out, llm.Message{Role: role, Content: turn.Content})
	}
	return FilterHistory(out), nil
}

const (
	referencesHeader = "=== REFERENCE TEMPLATES (Use these as style/structure guides) ==="
	referencesFooter = "=== END REFERENCE TEMPLATES ==="
	referencesIntro  = "The following are similar high-quality email templates from our database.\n" +
		"Use them as inspiration for layout, structure, and design patterns.\n" +
		"Do NOT copy them exactly - create a NEW template based on the user's request."
)

// FormatReferences renders refs as the reference block appended to the system
// instruction. No refs renders as an empty string.
func FormatReferences(refs []Reference) string {
	if len(refs) == 0 {
		return ""
	}

	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = fmt.Sprintf("\n--- REFERENCE TEMPLATE %d ---\nSubject: %s\nDescription: %s\nHTML Code:\n```html\n%s\n```\n",
			i+1, orNA(ref.Subject), orNA(ref.Description), ref.HTML)
	}

	return "\n" + referencesHeader + "\n" + referencesIntro + "\n" +
		strings.Join(parts, "\n") + "\n" + referencesFooter + "\n"
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
