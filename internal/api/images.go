package api

import (
	"mime/multipart"

	"github.com/dmitrymomot/mailcraft/pkg/apperr"
	"github.com/dmitrymomot/mailcraft/pkg/file"
	"github.com/dmitrymomot/mailcraft/pkg/handler"
)

func (a *API) imageStore() (*file.Images, error) {
	if a.Images == nil {
		return nil, apperr.Configuration("images_not_configured", "Image storage is not configured")
	}
	return a.Images, nil
}

type uploadImageRequest struct {
	File *multipart.FileHeader `file:"file" validate:"required"`
}

func (a *API) uploadImage(ctx handler.Context, req uploadImageRequest) handler.Response {
	store, err := a.imageStore()
	if err != nil {
		return handler.JSONError(err)
	}
	img, err := store.Upload(ctx, req.File)
	if err != nil {
		return handler.JSONError(imageError(err))
	}
	return handler.JSON(map[string]any{
		"success":  true,
		"url":      img.URL,
		"filename": img.Name,
	})
}

func (a *API) listImages(ctx handler.Context, _ empty) handler.Response {
	store, err := a.imageStore()
	if err != nil {
		return handler.JSONError(err)
	}
	images, err := store.List(ctx)
	if err != nil {
		return handler.JSONError(imageError(err))
	}
	return handler.JSON(map[string]any{"images": images})
}

type deleteImageRequest struct {
	Filename string `path:"filename" validate:"required"`
}

func (a *API) deleteImage(ctx handler.Context, req deleteImageRequest) handler.Response {
	store, err := a.imageStore()
	if err != nil {
		return handler.JSONError(err)
	}
	if err := store.Delete(ctx, req.Filename); err != nil {
		return handler.JSONError(imageError(err))
	}
	return handler.JSON(map[string]any{"success": true, "deleted": req.Filename})
}
