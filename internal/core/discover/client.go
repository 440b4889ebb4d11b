// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

/*
Package discover talks to the hosted, Typesense-compatible project index.

It is a separate search path from the search package: the index ranks by
relevance over title and description, and is kept in sync on a best-effort
basis by project writes and the sync-discover maintenance job.

With no host configured the client is disabled: writes are no-ops and
searches fail with SERVICE_UNAVAILABLE.
*/
package discover

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/BryanPineda21/HWSphere/internal/core/project"
	"github.com/BryanPineda21/HWSphere/internal/platform/apperr"
	"github.com/BryanPineda21/HWSphere/internal/platform/config"
	"github.com/BryanPineda21/HWSphere/pkg/pointer"
)

const (
	apiKeyHeader   = "X-TYPESENSE-API-KEY"
	queryBy        = "title,description"
	requestTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
)

// ErrDisabled is returned by [Client.Search] when no index host is configured.
var ErrDisabled = errors.New("discover: search index is not configured")

// Document is the indexed form of a public project.
type Document struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Author       string   `json:"author"`
	Tags         []string `json:"tags"`
	LikeCount    int      `json:"likeCount"`
	ViewCount    int      `json:"viewCount"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	CreatedAt    int64    `json:"createdAt"`
}

// NewDocument converts a project into its index document.
func NewDocument(p *project.Project) Document {
	doc := Document{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Author:       p.Author,
		Tags:         p.Tags,
		LikeCount:    p.LikeCount,
		ViewCount:    p.ViewCount,
		ThumbnailURL: pointer.Val(p.ThumbnailURL),
		CreatedAt:    p.CreatedAt.Unix(),
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	return doc
}

// Result is one page of index hits.
type Result struct {
	Found int        `json:"found"`
	Page  int        `json:"page"`
	Items []Document `json:"items"`
}

// Client is the REST client of one index collection.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	collection string
	enabled    bool
	logger     *slog.Logger
}

// New creates an index client from cfg.
func New(cfg config.SearchIndexConfig, logger *slog.Logger) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		enabled:    cfg.Enabled(),
		logger:     logger.With(slog.String("component", "discover")),
	}
	if client.enabled {
		client.baseURL = cfg.BaseURL()
	}
	return client
}

// newWithURL points a client at baseURL; used by tests.
func newWithURL(baseURL, apiKey, collection string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		collection: collection,
		enabled:    true,
		logger:     logger,
	}
}

// Enabled reports whether an index host is configured.
func (client *Client) Enabled() bool {
	return client.enabled
}

// collectionSchema declares the indexed fields; createdAt is the default sort.
func (client *Client) collectionSchema() map[string]any {
	return map[string]any{
		"name": client.collection,
		"fields": []map[string]any{
			{"name": "title", "type": "string"},
			{"name": "description", "type": "string"},
			{"name": "author", "type": "string", "facet": true},
			{"name": "tags", "type": "string[]", "facet": true},
			{"name": "likeCount", "type": "int32"},
			{"name": "viewCount", "type": "int32"},
			{"name": "thumbnailUrl", "type": "string", "optional": true, "index": false},
			{"name": "createdAt", "type": "int64"},
		},
		"default_sorting_field": "createdAt",
	}
}

// EnsureCollection creates the collection unless it already exists.
func (client *Client) EnsureCollection(context context.Context) error {
	if !client.enabled {
		return nil
	}

	status, err := client.do(context, http.MethodPost, "/collections", client.collectionSchema(), nil)
	if err != nil && status != http.StatusConflict {
		return err
	}

	client.logger.InfoContext(context, "search_index_collection_ready",
		slog.String("collection", client.collection),
		slog.Bool("created", status != http.StatusConflict),
	)
	return nil
}

// Upsert creates or replaces a document.
func (client *Client) Upsert(context context.Context, doc Document) error {
	if !client.enabled {
		return nil
	}

	path := fmt.Sprintf("/collections/%s/documents?action=upsert", url.PathEscape(client.collection))
	_, err := client.do(context, http.MethodPost, path, doc, nil)
	return err
}

// Delete removes a document. A missing document is not an error.
func (client *Client) Delete(context context.Context, id string) error {
	if !client.enabled {
		return nil
	}

	path := fmt.Sprintf("/collections/%s/documents/%s", url.PathEscape(client.collection), url.PathEscape(id))
	status, err := client.do(context, http.MethodDelete, path, nil, nil)
	if status == http.StatusNotFound {
		return nil
	}
	return err
}

// IndexProject implements project.Indexer.
func (client *Client) IndexProject(context context.Context, p *project.Project) error {
	return client.Upsert(context, NewDocument(p))
}

// RemoveProject implements project.Indexer.
func (client *Client) RemoveProject(context context.Context, id string) error {
	return client.Delete(context, id)
}

// searchResponse is the subset of the index search reply that is read.
type searchResponse struct {
	Found int `json:"found"`
	Page  int `json:"page"`
	Hits  []struct {
		Document Document `json:"document"`
	} `json:"hits"`
}

// Search runs a relevance query over title and description.
func (client *Client) Search(context context.Context, query string, page, perPage int) (*Result, error) {
	if !client.enabled {
		return nil, ErrDisabled
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("query_by", queryBy)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	path := fmt.Sprintf("/collections/%s/documents/search?%s", url.PathEscape(client.collection), params.Encode())

	var response searchResponse
	if _, err := client.do(context, http.MethodGet, path, nil, &response); err != nil {
		return nil, err
	}

	result := &Result{Found: response.Found, Page: response.Page, Items: make([]Document, 0, len(response.Hits))}
	for _, hit := range response.Hits {
		result.Items = append(result.Items, hit.Document)
	}
	return result, nil
}

// do sends one request and decodes a 2xx JSON reply into out.
// The status is returned even on error so callers can accept 404 or 409.
func (client *Client) do(context context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("discover: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(context, method, client.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("discover: build %s %s: %w", method, path, err)
	}
	request.Header.Set(apiKeyHeader, client.apiKey)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return 0, fmt.Errorf("discover: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		message, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		return response.StatusCode, fmt.Errorf("discover: %s %s returned %d: %s", method, path, response.StatusCode, message)
	}

	if out != nil {
		if err := json.NewDecoder(response.Body).Decode(out); err != nil {
			return response.StatusCode, fmt.Errorf("discover: decode %s: %w", path, err)
		}
	}
	return response.StatusCode, nil
}

// asAppError maps client errors onto API errors for the handler.
func asAppError(err error) error {
	if errors.Is(err, ErrDisabled) {
		return apperr.ServiceUnavailable("Discover search is not configured")
	}
	unavailable := apperr.ServiceUnavailable("Discover search is unavailable")
	unavailable.Cause = err
	return unavailable
}
