// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package discover

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BryanPineda21/HWSphere/internal/platform/respond"
	"github.com/BryanPineda21/HWSphere/pkg/convert"
	"github.com/BryanPineda21/HWSphere/pkg/pagination"
)

// Handler exposes the hosted index search.
type Handler struct {
	client *Client
}

// NewHandler creates a discover handler.
func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// Routes returns the router mounted at /api/v1/discover.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.search)
	return router
}

/*
GET /api/v1/discover.

Request:
  - q: string (empty matches everything)
  - page: int (1-based, default 1)
  - perPage: int (default 6, max 50)

Response:
  - 200: Result
  - 503: index not configured or unreachable
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()

	query := params.Get("q")
	if query == "" {
		query = "*"
	}
	page := max(convert.ToIntD(params.Get("page"), 1), 1)
	perPage := pagination.ClampPageSize(convert.ToIntD(params.Get("perPage"), pagination.DefaultPageSize))

	result, err := handler.client.Search(request.Context(), query, page, perPage)
	if err != nil {
		respond.Error(writer, request, asAppError(err))
		return
	}
	respond.OK(writer, result)
}
