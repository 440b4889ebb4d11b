// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/BryanPineda21/HWSphere/internal/platform/request"
	"github.com/BryanPineda21/HWSphere/internal/platform/respond"
)

// Handler exposes the read-only tag endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a tag HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /api/v1/tags.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listTags)
	router.Get("/{id}", handler.getTag)
	return router
}

func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.service.ListTags(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tags)
}

func (handler *Handler) getTag(writer http.ResponseWriter, request *http.Request) {
	tag, err := handler.service.GetTag(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tag)
}
