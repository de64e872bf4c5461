package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/msomdec/hbnb/internal/domain"
)

// Repository implements domain.Repository over one collection. A nil mu
// means the caller already holds the store lock.
type Repository[T domain.Entity[T]] struct {
	mu *sync.RWMutex
	c  *collection[T]
}

func (r *Repository[T]) lock() func() {
	if r.mu == nil {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *Repository[T]) rlock() func() {
	if r.mu == nil {
		return func() {}
	}
	r.mu.RLock()
	return r.mu.RUnlock
}

func (r *Repository[T]) Add(_ context.Context, entity T) error {
	defer r.lock()()

	id := entity.ID()
	if _, ok := r.c.items[id]; ok {
		return &domain.DuplicateIDError{Collection: r.c.name, ID: id}
	}
	if err := r.c.checkUnique(entity); err != nil {
		return err
	}
	r.c.items[id] = entity.Clone()
	r.c.order = append(r.c.order, id)
	return nil
}

func (r *Repository[T]) Get(_ context.Context, id string) (T, error) {
	defer r.rlock()()

	item, ok := r.c.items[id]
	if !ok {
		var zero T
		return zero, &domain.NotFoundError{Collection: r.c.name, ID: id}
	}
	return item.Clone(), nil
}

func (r *Repository[T]) GetByAttribute(_ context.Context, field string, value any) (T, error) {
	var zero T
	if !slices.Contains(r.c.attributes, field) {
		return zero, &domain.ValidationError{Entity: r.c.name, Field: field, Reason: "is not a known attribute"}
	}

	defer r.rlock()()

	for _, id := range r.c.order {
		item := r.c.items[id]
		if v, _ := item.Field(field); domain.AttributeEqual(v, value) {
			return item.Clone(), nil
		}
	}
	return zero, &domain.NotFoundError{Collection: r.c.name, ID: fmt.Sprintf("%s=%v", field, value)}
}

func (r *Repository[T]) GetAll(_ context.Context) ([]T, error) {
	defer r.rlock()()

	all := make([]T, 0, len(r.c.order))
	for _, id := range r.c.order {
		all = append(all, r.c.items[id].Clone())
	}
	return all, nil
}

func (r *Repository[T]) Update(_ context.Context, id string, patch domain.Patch[T]) (T, error) {
	defer r.lock()()

	var zero T
	item, ok := r.c.items[id]
	if !ok {
		return zero, &domain.NotFoundError{Collection: r.c.name, ID: id}
	}
	updated := item.Clone()
	if err := patch.Apply(updated); err != nil {
		return zero, err
	}
	if err := r.c.checkUnique(updated); err != nil {
		return zero, err
	}
	r.c.items[id] = updated
	return updated.Clone(), nil
}

func (r *Repository[T]) Delete(_ context.Context, id string) (bool, error) {
	defer r.lock()()

	if _, ok := r.c.items[id]; !ok {
		return false, nil
	}
	delete(r.c.items, id)
	if i := slices.Index(r.c.order, id); i >= 0 {
		r.c.order = slices.Delete(r.c.order, i, i+1)
	}
	return true, nil
}
