package api

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/dmitrymomot/mailcraft/internal/generator"
	"github.com/dmitrymomot/mailcraft/pkg/apperr"
	"github.com/dmitrymomot/mailcraft/pkg/file"
	"github.com/dmitrymomot/mailcraft/pkg/handler"
	"github.com/dmitrymomot/mailcraft/pkg/llm"
	"github.com/dmitrymomot/mailcraft/pkg/logger"
)

type generateRequest struct {
	Prompt      string                  `form:"prompt" json:"prompt" validate:"required"`
	History     string                  `form:"history" json:"history"`
	CurrentHTML string                  `form:"current_html" json:"current_html"`
	UseRAG      *bool                   `form:"use_rag" json:"use_rag"`
	Images      []*multipart.FileHeader `file:"images" json:"-"`
}

type generateResponse struct {
	Success bool `json:"success"`
	*generator.Result
}

func (a *API) generateEmail(ctx handler.Context, req generateRequest) handler.Response {
	return a.generate(ctx, req, false)
}

// generateEmailRAG retrieves reference templates unless use_rag is false.
func (a *API) generateEmailRAG(ctx handler.Context, req generateRequest) handler.Response {
	useRAG := req.UseRAG == nil || *req.UseRAG
	return a.generate(ctx, req, useRAG)
}

func (a *API) generate(ctx handler.Context, req generateRequest, useRAG bool) handler.Response {
	if a.Generator == nil {
		return handler.JSONError(apperr.Wrap(generator.ErrLLMNotAvailable, apperr.KindConfiguration,
			"llm_not_configured", "Language model is not configured"))
	}
	if len(req.Images) > generator.MaxImages {
		return handler.JSONError(apperr.Validation("too_many_images",
			fmt.Sprintf("Maximum %d images allowed", generator.MaxImages)))
	}

	history, err := generator.ParseHistory(req.History)
	if err != nil {
		a.Log.WarnContext(ctx, "ignoring malformed history", logger.Error(err))
	}

	images, err := a.attachments(req.Images)
	if err != nil {
		return handler.JSONError(err)
	}

	res, err := a.Generator.Generate(ctx, generator.Input{
		Prompt:      req.Prompt,
		History:     history,
		CurrentHTML: req.CurrentHTML,
		Images:      images,
		UseRAG:      useRAG,
		Enhance:     useRAG && a.EnhancePrompts,
	})
	if err != nil {
		return handler.JSONError(err)
	}
	return handler.JSON(generateResponse{Success: true, Result: res})
}

func (a *API) attachments(files []*multipart.FileHeader) ([]llm.Image, error) {
	images := make([]llm.Image, 0, len(files))
	for _, fh := range files {
		data, contentType, err := file.ReadImage(fh, a.AttachmentMaxSize)
		if err != nil {
			return nil, imageError(err)
		}
		images = append(images, llm.Image{ContentType: contentType, Data: data})
	}
	return images, nil
}

// imageError classifies upload failures.
func imageError(err error) error {
	switch {
	case errors.Is(err, file.ErrFileTooLarge):
		return apperr.Wrap(err, apperr.KindValidation, "file_too_large", "File too large")
	case errors.Is(err, file.ErrMIMETypeNotAllowed):
		return apperr.Wrap(err, apperr.KindValidation, "invalid_image_type",
			"File must be a JPEG, PNG, GIF or WebP image")
	case errors.Is(err, file.ErrInvalidName), errors.Is(err, file.ErrInvalidPath):
		return apperr.Wrap(err, apperr.KindValidation, "invalid_filename", "Invalid filename")
	case errors.Is(err, file.ErrFileNotFound):
		return apperr.Wrap(err, apperr.KindNotFound, "image_not_found", "Image not found")
	case errors.Is(err, file.ErrUnavailable), errors.Is(err, file.ErrAccessDenied), errors.Is(err, file.ErrBucketNotFound):
		return apperr.Provider(err, "image_storage_unavailable", "Image storage is unavailable")
	default:
		return apperr.Internal(err, "image_storage_failed", "Image storage failed")
	}
}
