package templates

import (
	"errors"

	"github.com/dmitrymomot/mailcraft/pkg/apperr"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrNotConfigured    = errors.New("template store is not configured")
	ErrEmbedderMissing  = errors.New("embedding provider is not configured")
)

func notConfigured() error {
	return apperr.Wrap(ErrNotConfigured, apperr.KindConfiguration, "templates_not_configured", "Template storage is not configured")
}

func embedderMissing() error {
	return apperr.Wrap(ErrEmbedderMissing, apperr.KindConfiguration, "embeddings_not_configured", "Embedding provider is not configured")
}
