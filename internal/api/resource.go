package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"

	"github.com/jbweber/homelab/simpledms/internal/repository"
)

// Paging defaults applied when page or size is omitted
const (
	DefaultPage = 0
	DefaultSize = 3
)

// Store defines the service interface behind a resource's handlers
type Store[T any] interface {
	FindAllContaining(ctx context.Context, q string, pageable repository.Pageable) (repository.Page[T], error)
	FindByID(ctx context.Context, id int64) (*T, error)
	Save(ctx context.Context, entity T) (T, error)
	RemoveAll(ctx context.Context) error
	RemoveByID(ctx context.Context, id int64) (bool, error)
}

// PageResponse is the list envelope
type PageResponse[T any] struct {
	Items       []T   `json:"items"`
	CurrentPage int   `json:"currentPage"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

// NewPageResponse wraps a repository page in the list envelope
func NewPageResponse[T any](page repository.Page[T]) PageResponse[T] {
	return PageResponse[T]{
		Items:       page.Content,
		CurrentPage: page.Number,
		TotalItems:  page.TotalElements,
		TotalPages:  page.TotalPages,
	}
}

// Resource groups the handlers of one entity kind
type Resource[T any] struct {
	idParam     string
	filterParam string
	store       Store[T]
	logger      *slog.Logger
}

// NewResource creates handlers for an entity identified by the idParam path
// parameter and searched by the filterParam query parameter.
func NewResource[T any](idParam, filterParam string, store Store[T], logger *slog.Logger) *Resource[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resource[T]{
		idParam:     idParam,
		filterParam: filterParam,
		store:       store,
		logger:      logger,
	}
}

// Routes registers the resource endpoints relative to the mount point
func (res *Resource[T]) Routes(r chi.Router) {
	r.Get("/", res.ListHandler)
	r.Post("/", res.CreateHandler)
	r.Delete("/all", res.RemoveAllHandler)
	r.Get("/{"+res.idParam+"}", res.GetHandler)
	r.Put("/{"+res.idParam+"}", res.UpdateHandler)
	r.Delete("/deletion/{"+res.idParam+"}", res.RemoveHandler)
}

// ListHandler handles GET /?{filter}=&page=&size=.
// Responds 200 with a PageResponse, or 204 when the page is empty.
func (res *Resource[T]) ListHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var q string
	page, size := DefaultPage, DefaultSize
	if err := runtime.BindQueryParameter("form", true, false, res.filterParam, query, &q); err != nil {
		res.badRequest(w, r, err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "page", query, &page); err != nil {
		res.badRequest(w, r, err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "size", query, &size); err != nil {
		res.badRequest(w, r, err)
		return
	}

	pageable := repository.PageRequest(page, size)
	if err := pageable.Validate(); err != nil {
		res.badRequest(w, r, err)
		return
	}

	result, err := res.store.FindAllContaining(r.Context(), q, pageable)
	if err != nil {
		res.serverError(w, r, err)
		return
	}

	if result.IsEmpty() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	res.writeJSON(w, r, NewPageResponse(result))
}

// RemoveAllHandler handles DELETE /all
func (res *Resource[T]) RemoveAllHandler(w http.ResponseWriter, r *http.Request) {
	if err := res.store.RemoveAll(r.Context()); err != nil {
		res.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// CreateHandler handles POST / and responds 200 with the stored record
func (res *Resource[T]) CreateHandler(w http.ResponseWriter, r *http.Request) {
	entity, err := decode[T](r)
	if err != nil {
		res.badRequest(w, r, err)
		return
	}

	saved, err := res.store.Save(r.Context(), entity)
	if err != nil {
		res.serverError(w, r, err)
		return
	}
	res.writeJSON(w, r, saved)
}

// GetHandler handles GET /{id}. Responds 204 when there is no live record.
func (res *Resource[T]) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := res.pathID(r)
	if err != nil {
		res.badRequest(w, r, err)
		return
	}

	entity, err := res.store.FindByID(r.Context(), id)
	if err != nil {
		res.serverError(w, r, err)
		return
	}
	if entity == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	res.writeJSON(w, r, entity)
}

// UpdateHandler handles PUT /{id}. The body's own identity decides
// whether the record is updated or inserted.
func (res *Resource[T]) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := res.pathID(r); err != nil {
		res.badRequest(w, r, err)
		return
	}

	entity, err := decode[T](r)
	if err != nil {
		res.badRequest(w, r, err)
		return
	}

	saved, err := res.store.Save(r.Context(), entity)
	if err != nil {
		res.serverError(w, r, err)
		return
	}
	res.writeJSON(w, r, saved)
}

// RemoveHandler handles DELETE /deletion/{id}.
// Responds 200 when a record was deleted and 204 otherwise.
func (res *Resource[T]) RemoveHandler(w http.ResponseWriter, r *http.Request) {
	id, err := res.pathID(r)
	if err != nil {
		res.badRequest(w, r, err)
		return
	}

	removed, err := res.store.RemoveByID(r.Context(), id)
	if err != nil {
		res.serverError(w, r, err)
		return
	}
	if !removed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (res *Resource[T]) pathID(r *http.Request) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", res.idParam, chi.URLParam(r, res.idParam), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	return id, err
}

func decode[T any](r *http.Request) (T, error) {
	var entity T
	err := json.NewDecoder(r.Body).Decode(&entity)
	return entity, err
}

func (res *Resource[T]) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		res.logger.Debug("failed to encode response",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Any("error", err))
	}
}

func (res *Resource[T]) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	res.logger.Debug("rejected request",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	w.WriteHeader(http.StatusBadRequest)
}

func (res *Resource[T]) serverError(w http.ResponseWriter, r *http.Request, err error) {
	res.logger.Debug("request failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	w.WriteHeader(http.StatusInternalServerError)
}
