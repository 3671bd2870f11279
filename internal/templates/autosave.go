package templates

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/dmitrymomot/mailcraft/pkg/llm"
	"github.com/dmitrymomot/mailcraft/pkg/logger"
)

// Categories the metadata prompt lets the model choose from.
var Categories = []string{
	"Marketing", "Newsletter", "Transactional", "Personal",
	"Business", "Onboarding", "Event", "Other",
}

const (
	fallbackCategory = "General"
	htmlPreviewLimit = 10000

	metadataSystemPrompt = "You are a helpful assistant that analyzes emails. Output JSON only."
)

// Metadata describes a sent email for later retrieval.
type Metadata struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

// AutoSaver stores sent emails as reference templates with model-written metadata.
type AutoSaver struct {
	templates *Service
	llm       llm.Completer
}

// NewAutoSaver returns nil when either dependency is missing; a nil AutoSaver
// is a no-op.
func NewAutoSaver(templates *Service, completer llm.Completer) *AutoSaver {
	if templates == nil || !templates.Enabled() || completer == nil {
		return nil
	}
	return &AutoSaver{templates: templates, llm: completer}
}

// Save describes and categorizes the email, embeds "{subject} {description}
// {category}" and stores it as a public template.
func (a *AutoSaver) Save(ctx context.Context, subject, html, sender string) (err error) {
	if a == nil {
		return nil
	}
	defer func() { a.templates.metrics.ObserveAutoSave(err) }()

	meta := a.Describe(ctx, subject, html)
	tpl, err := normalize(SaveInput{
		Subject:      subject,
		Description:  meta.Description,
		TemplateCode: html,
		Category:     meta.Category,
		Visibility:   DefaultVisibility,
		Sender:       sender,
	})
	if err != nil {
		return err
	}

	saved, err := a.templates.insert(ctx, tpl, tpl.Subject+" "+tpl.Description+" "+tpl.Category)
	if err != nil {
		return err
	}
	a.templates.log.InfoContext(ctx, "sent email auto-saved as template",
		logger.TemplateID(saved.ID), logger.Event("auto_save"))
	return nil
}

// Describe asks the model for a one-sentence description and a category.
// It never fails; a failed or malformed answer yields the fallback metadata.
func (a *AutoSaver) Describe(ctx context.Context, subject, html string) Metadata {
	fallback := Metadata{
		Description: "Auto-saved template for: " + subject,
		Category:    fallbackCategory,
	}

	resp, err := a.llm.Complete(ctx, llm.Request{
		System:      metadataSystemPrompt,
		Messages:    []llm.Message{llm.UserText(metadataPrompt(subject, html))},
		Temperature: 0.3,
		JSON:        true,
	})
	if err != nil {
		a.templates.log.WarnContext(ctx, "template metadata generation failed", logger.Error(err))
		return fallback
	}

	var meta Metadata
	if err := json.Unmarshal([]byte(resp.Content), &meta); err != nil {
		a.templates.log.WarnContext(ctx, "template metadata is not valid JSON", logger.Error(err))
		return fallback
	}
	meta.Description = strings.TrimSpace(meta.Description)
	meta.Category = strings.TrimSpace(meta.Category)
	if meta.Description == "" {
		meta.Description = "Template for " + subject
	}
	if meta.Category == "" {
		meta.Category = fallbackCategory
	}
	return meta
}

func metadataPrompt(subject, html string) string {
	return "Analyze this email template and generate a short description and a category.\n\n" +
		"Subject: " + subject + "\n" +
		"HTML Preview: " + preview(html, htmlPreviewLimit) + "\n\n" +
		"Return ONLY a JSON object with keys:\n" +
		"- description: A short, clear description of what this email is for (max 1 sentence)\n" +
		"- category: One suitable category from [" + strings.Join(Categories, ", ") + "]"
}

// preview cuts s to at most limit characters without splitting a rune.
func preview(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
