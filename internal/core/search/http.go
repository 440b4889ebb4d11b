// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package search

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BryanPineda21/HWSphere/internal/core/project"
	"github.com/BryanPineda21/HWSphere/internal/platform/respond"
	"github.com/BryanPineda21/HWSphere/pkg/pagination"
)

// Handler exposes the aggregated search.
type Handler struct {
	aggregator *Aggregator
}

// NewHandler creates a search handler.
func NewHandler(aggregator *Aggregator) *Handler {
	return &Handler{aggregator: aggregator}
}

// Routes returns the router mounted at /api/v1/search.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.search)
	return router
}

/*
GET /api/v1/search.

Description: Free-text search over public projects. Multiple terms must all
appear in title, description, author or tags.

Request:
  - q: string
  - tag: string (optional)
  - filter: newest | featured | trending (default trending)
  - pageSize: int (default 6)

Response:
  - 200: []Project with pagination meta
  - 500: a sub-query failed
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()
	options := Options{
		Tag:        params.Get("tag"),
		FilterType: project.ParseFilterType(params.Get("filter")),
		PageSize:   pagination.PageSizeFromRequest(request),
	}

	page, err := handler.aggregator.SearchProjects(request.Context(), params.Get("q"), options)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Items, pagination.NewMeta(options.PageSize, len(page.Items), page.LastVisible))
}
