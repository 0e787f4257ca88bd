package service

import (
	"context"
	"errors"

	"github.com/jbweber/homelab/simpledms/internal/repository"
)

// SearchFunc pages through entities whose search field contains q
type SearchFunc[T any] func(ctx context.Context, q string, pageable repository.Pageable) (repository.Page[T], error)

// CRUD passes requests through to a paging repository and translates
// not-found results into nil and false values.
type CRUD[T any] struct {
	repo   repository.PagingRepository[T, int64]
	search SearchFunc[T]
}

// NewCRUD creates a service over repo. search is the entity's named finder.
func NewCRUD[T any](repo repository.PagingRepository[T, int64], search SearchFunc[T]) *CRUD[T] {
	if search == nil {
		search = repo.FindAllContaining
	}
	return &CRUD[T]{repo: repo, search: search}
}

// FindAllContaining returns the requested page of live entities matching q
func (s *CRUD[T]) FindAllContaining(ctx context.Context, q string, pageable repository.Pageable) (repository.Page[T], error) {
	return s.search(ctx, q, pageable)
}

// FindByID returns the live entity or nil when there is none
func (s *CRUD[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// Save inserts or updates the entity and returns it as stored
func (s *CRUD[T]) Save(ctx context.Context, entity T) (T, error) {
	return s.repo.Save(ctx, entity)
}

// RemoveAll deletes every live entity
func (s *CRUD[T]) RemoveAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

// RemoveByID deletes the live entity, reporting whether one was found
func (s *CRUD[T]) RemoveByID(ctx context.Context, id int64) (bool, error) {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
