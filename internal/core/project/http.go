// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package project

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/BryanPineda21/HWSphere/internal/platform/apperr"
	"github.com/BryanPineda21/HWSphere/internal/platform/ctxutil"
	"github.com/BryanPineda21/HWSphere/internal/platform/middleware"
	requestutil "github.com/BryanPineda21/HWSphere/internal/platform/request"
	"github.com/BryanPineda21/HWSphere/internal/platform/respond"
	"github.com/BryanPineda21/HWSphere/pkg/convert"
	"github.com/BryanPineda21/HWSphere/pkg/pagination"
	"github.com/BryanPineda21/HWSphere/pkg/pointer"
	"github.com/BryanPineda21/HWSphere/pkg/query"
)

// Handler exposes project records over HTTP.
type Handler struct {
	service        *Service
	maxUploadBytes int64
}

// NewHandler creates a project handler accepting multipart bodies up to maxUploadBytes.
func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	return &Handler{service: service, maxUploadBytes: maxUploadBytes}
}

// Routes returns the router mounted at /api/v1/projects.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listProjects)
	router.Get("/owner/{ownerID}", handler.listByOwner)
	router.Get("/{projectID}", handler.getProject)

	router.Group(func(owner chi.Router) {
		owner.Use(middleware.RequireAuth)
		owner.Post("/", handler.createProject)
		owner.Patch("/{projectID}", handler.updateProject)
		owner.Delete("/{projectID}", handler.deleteProject)
	})

	return router
}

// # Reads

/*
GET /api/v1/projects.

Description: Lists public projects.

Request:
  - tag: string (optional; a tag ID from /tags or its display name)
  - filter: newest | featured | trending (default trending)
  - pageSize: int (default 6, max 50)
  - cursor: string (nextCursor of the previous page)

Response:
  - 200: []Project with pagination meta
  - 400: ErrInvalidCursor
*/
func (handler *Handler) listProjects(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()

	after, err := pagination.Decode(params.Get("cursor"))
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid cursor"))
		return
	}

	options := ListOptions{
		Tag:        params.Get("tag"),
		FilterType: ParseFilterType(params.Get("filter")),
		PageSize:   pagination.PageSizeFromRequest(request),
		After:      after,
	}

	page, err := handler.service.GetProjects(request.Context(), options)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Items, pagination.NewMeta(options.PageSize, len(page.Items), page.LastVisible))
}

/*
GET /api/v1/projects/{projectID}.

Description: Returns one project with its code object inlined as codeContent.
Pass code=false to skip the download.

Response:
  - 200: Project
  - 404: ErrNotFound: missing, or private and not owned by the caller
*/
func (handler *Handler) getProject(writer http.ResponseWriter, request *http.Request) {
	withCode := request.URL.Query().Get("code") != "false"

	p, err := handler.service.GetProject(request.Context(),
		requestutil.Param(request, "projectID"), withCode, ctxutil.GetUserID(request.Context()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, p)
}

/*
GET /api/v1/projects/owner/{ownerID}.

Response:
  - 200: []Project
  - 404: ErrNotFound: the owner has no visible projects
*/
func (handler *Handler) listByOwner(writer http.ResponseWriter, request *http.Request) {
	projects, err := handler.service.ListByOwner(request.Context(),
		requestutil.Param(request, "ownerID"), ctxutil.GetUserID(request.Context()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, projects)
}

// # Writes

/*
POST /api/v1/projects.

Description: Creates a project from a multipart form.

Request (multipart/form-data):
  - title, description, visibility, isPinned
  - tags: repeated or comma-separated
  - codeFile, modelFile, pdfFile, videoFile, thumbnailFile: at least one

Response:
  - 201: Project
  - 400: Validation errors
  - 401: Authentication required
  - 413: Body over the upload limit
  - 502: UPLOAD_FAILED
*/
func (handler *Handler) createProject(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseMultipart(writer, request, handler.maxUploadBytes); err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer request.MultipartForm.RemoveAll()

	form := request.MultipartForm
	input := &Project{
		Title:       formValue(form, FieldTitle),
		Description: formValue(form, FieldDescription),
		Tags:        query.Values(form.Value[FieldTags]),
		Visibility:  Visibility(formValue(form, FieldVisibility)),
		IsPinned:    convert.ToBool(formValue(form, FieldIsPinned)),
	}

	uploads, closeAll, err := formUploads(form)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer closeAll()

	created, err := handler.service.AddProject(request.Context(), input, uploads,
		Owner{ID: claims.UserID, Username: claims.Username})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

/*
PATCH /api/v1/projects/{projectID}.

Description: Applies a shallow patch. Absent fields are kept. tags is
required so the tag counts stay exact; send it empty to clear all tags.

Request (multipart/form-data):
  - title, description, visibility, isPinned: optional
  - tags: required, repeated or comma-separated (may be empty)
  - <slot>File: replaces the slot's file
  - remove<Slot>=true: clears the slot

Response:
  - 200: Project
  - 400: Validation errors
  - 403: Not the owner
  - 404: Project not found
*/
func (handler *Handler) updateProject(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseMultipart(writer, request, handler.maxUploadBytes); err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer request.MultipartForm.RemoveAll()

	form := request.MultipartForm
	rawTags, ok := form.Value[FieldTags]
	if !ok {
		respond.Error(writer, request, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldTags, Message: "Is required"}))
		return
	}

	patch := Patch{Tags: query.Values(rawTags)}
	if patch.Tags == nil {
		patch.Tags = []string{}
	}
	if values, ok := form.Value[FieldTitle]; ok && len(values) > 0 {
		patch.Title = pointer.To(values[0])
	}
	if values, ok := form.Value[FieldDescription]; ok && len(values) > 0 {
		patch.Description = pointer.To(values[0])
	}
	if values, ok := form.Value[FieldVisibility]; ok && len(values) > 0 {
		patch.Visibility = pointer.To(Visibility(values[0]))
	}
	if values, ok := form.Value[FieldIsPinned]; ok && len(values) > 0 {
		patch.IsPinned = pointer.To(convert.ToBool(values[0]))
	}
	for _, slot := range FileSlots {
		if convert.ToBool(formValue(form, removeField(slot))) {
			patch.Remove = append(patch.Remove, slot)
		}
	}

	uploads, closeAll, err := formUploads(form)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer closeAll()
	patch.Uploads = uploads

	updated, err := handler.service.UpdateProject(request.Context(),
		requestutil.Param(request, "projectID"), patch, claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

/*
DELETE /api/v1/projects/{projectID}.

Response:
  - 204: Deleted
  - 403: Not the owner
  - 404: Project not found
*/
func (handler *Handler) deleteProject(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteProject(request.Context(), requestutil.Param(request, "projectID"), claims.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Form Helpers

func fileField(slot FileSlot) string {
	return string(slot) + "File"
}

func removeField(slot FileSlot) string {
	name := string(slot)
	return "remove" + strings.ToUpper(name[:1]) + name[1:]
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// formUploads opens the first file of every slot field. The returned func closes them.
func formUploads(form *multipart.Form) ([]Upload, func(), error) {
	var uploads []Upload
	var opened []multipart.File
	closeAll := func() {
		for _, file := range opened {
			_ = file.Close()
		}
	}

	for _, slot := range FileSlots {
		headers := form.File[fileField(slot)]
		if len(headers) == 0 {
			continue
		}
		header := headers[0]

		file, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, apperr.ValidationError("Unreadable upload",
				apperr.FieldError{Field: fileField(slot), Message: header.Filename})
		}
		opened = append(opened, file)

		uploads = append(uploads, Upload{
			Slot:        slot,
			FileName:    header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		})
	}
	return uploads, closeAll, nil
}
