package api

import (
	"fmt"

	"github.com/dmitrymomot/mailcraft/internal/templates"
	"github.com/dmitrymomot/mailcraft/pkg/apperr"
	"github.com/dmitrymomot/mailcraft/pkg/handler"
)

func (a *API) templateStore() (*templates.Service, error) {
	if a.Templates == nil {
		return nil, apperr.Wrap(templates.ErrNotConfigured, apperr.KindConfiguration,
			"templates_not_configured", "Template storage is not configured")
	}
	return a.Templates, nil
}

type saveTemplateRequest struct {
	Subject      string `form:"subject" json:"subject" validate:"required"`
	Description  string `form:"description" json:"description" validate:"required"`
	TemplateCode string `form:"template_code" json:"template_code" validate:"required"`
	Category     string `form:"category" json:"category"`
	Visibility   string `form:"visibility" json:"visibility" validate:"omitempty,oneof=public private"`
}

func (a *API) saveTemplate(ctx handler.Context, req saveTemplateRequest) handler.Response {
	store, err := a.templateStore()
	if err != nil {
		return handler.JSONError(err)
	}
	tpl, err := store.Save(ctx, templates.SaveInput{
		Subject:      req.Subject,
		Description:  req.Description,
		TemplateCode: req.TemplateCode,
		Category:     req.Category,
		Visibility:   req.Visibility,
	})
	if err != nil {
		return handler.JSONError(err)
	}
	return handler.JSON(map[string]any{
		"success": true,
		"message": "Template saved successfully",
		"id":      tpl.ID,
		"subject": tpl.Subject,
	})
}

type searchTemplatesRequest struct {
	Query     string `form:"query" json:"query" validate:"required"`
	Limit     int    `form:"limit" json:"limit"`
	UseHybrid *bool  `form:"use_hybrid" json:"use_hybrid"`
}

type searchTemplatesResponse struct {
	Success    bool                 `json:"success"`
	Query      string               `json:"query"`
	SearchType string               `json:"search_type"`
	Fallback   bool                 `json:"fallback,omitempty"`
	Count      int                  `json:"count"`
	Templates  []templates.Template `json:"templates"`
}

func (a *API) searchTemplates(ctx handler.Context, req searchTemplatesRequest) handler.Response {
	store, err := a.templateStore()
	if err != nil {
		return handler.JSONError(err)
	}
	res, err := store.Search(ctx, templates.SearchInput{
		Query:  req.Query,
		Limit:  req.Limit,
		Hybrid: req.UseHybrid == nil || *req.UseHybrid,
	})
	if err != nil {
		return handler.JSONError(err)
	}
	found := res.Templates
	if found == nil {
		found = []templates.Template{}
	}
	return handler.JSON(searchTemplatesResponse{
		Success:    true,
		Query:      res.Query,
		SearchType: res.SearchType,
		Fallback:   res.Fallback,
		Count:      len(found),
		Templates:  found,
	})
}

type listTemplatesRequest struct {
	Limit int `query:"limit" validate:"min=0"`
}

func (a *API) listTemplates(ctx handler.Context, req listTemplatesRequest) handler.Response {
	store, err := a.templateStore()
	if err != nil {
		return handler.JSONError(err)
	}
	list, err := store.List(ctx, req.Limit)
	if err != nil {
		return handler.JSONError(err)
	}
	if list == nil {
		list = []templates.Template{}
	}
	return handler.JSON(map[string]any{
		"success":   true,
		"count":     len(list),
		"templates": list,
	})
}

type templateIDRequest struct {
	ID int64 `path:"id" validate:"required,min=1"`
}

func (a *API) getTemplate(ctx handler.Context, req templateIDRequest) handler.Response {
	store, err := a.templateStore()
	if err != nil {
		return handler.JSONError(err)
	}
	tpl, err := store.Get(ctx, req.ID)
	if err != nil {
		return handler.JSONError(err)
	}
	return handler.JSON(map[string]any{"success": true, "template": tpl})
}

func (a *API) deleteTemplate(ctx handler.Context, req templateIDRequest) handler.Response {
	store, err := a.templateStore()
	if err != nil {
		return handler.JSONError(err)
	}
	if err := store.Delete(ctx, req.ID); err != nil {
		return handler.JSONError(err)
	}
	return handler.JSON(map[string]any{
		"success": true,
		"message": "Template deleted successfully",
		"id":      req.ID,
	})
}

func (a *API) generateEmbeddings(ctx handler.Context, _ empty) handler.Response {
	store, err := a.templateStore()
	if err != nil {
		return handler.JSONError(err)
	}
	res, err := store.Backfill(ctx)
	if err != nil {
		return handler.JSONError(err)
	}
	return handler.JSON(map[string]any{
		"success":                  true,
		"message":                  fmt.Sprintf("Generated embeddings for %d templates", res.Updated),
		"updated":                  res.Updated,
		"failed":                   res.Failed,
		"total_without_embeddings": res.Total,
	})
}
