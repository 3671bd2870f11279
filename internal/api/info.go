package api

import (
	"net/http"

	"github.com/dmitrymomot/mailcraft/pkg/handler"
)

type endpointGroup map[string]string

type serviceInfo struct {
	Service   string                   `json:"service"`
	Version   string                   `json:"version"`
	Status    string                   `json:"status"`
	Features  Features                 `json:"features"`
	Endpoints map[string]endpointGroup `json:"endpoints"`
}

var endpoints = map[string]endpointGroup{
	"auth": {
		"connect":          "/connect/google (GET)",
		"callback":         "/auth/google/callback (GET)",
		"check_connection": "/check-connection/{session_id} (GET)",
		"disconnect":       "/disconnect/{session_id} (POST)",
	},
	"email": {
		"send": "/send-email (POST)",
	},
	"ai": {
		"generate":     "/generate-email (POST)",
		"generate_rag": "/generate-email-rag (POST)",
	},
	"templates": {
		"save":                "/save-template (POST)",
		"search":              "/search-templates (POST)",
		"list":                "/list-templates (GET)",
		"get":                 "/get-template/{id} (GET)",
		"delete":              "/delete-template/{id} (DELETE)",
		"generate_embeddings": "/generate-embeddings (POST)",
	},
	"images": {
		"upload": "/upload-image (POST)",
		"list":   "/list-images (GET)",
		"delete": "/delete-image/{filename} (DELETE)",
	},
	"system": {
		"health":  "/health (GET)",
		"metrics": "/metrics (GET)",
	},
}

func (a *API) info(w http.ResponseWriter, r *http.Request) {
	_ = handler.JSON(serviceInfo{
		Service:   ServiceName,
		Version:   ServiceVersion,
		Status:    "running",
		Features:  a.Features,
		Endpoints: endpoints,
	}).Render(w, r)
}
