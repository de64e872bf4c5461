// Package memory provides the volatile backend: one map per entity type,
// guarded by a store-wide lock, with snapshot-based transactions.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/msomdec/hbnb/internal/domain"
)

// Compile-time check that Store satisfies the domain store contract.
var _ domain.Store = (*Store)(nil)

// Store keeps every collection in process memory. Its contents live as
// long as the Store value.
type Store struct {
	mu        sync.RWMutex
	users     *collection[*domain.User]
	places    *collection[*domain.Place]
	amenities *collection[*domain.Amenity]
	reviews   *collection[*domain.Review]
}

func NewStore() *Store {
	return &Store{
		users:     newCollection[*domain.User](domain.CollectionUsers, domain.UserAttributes, emailConflict),
		places:    newCollection[*domain.Place](domain.CollectionPlaces, domain.PlaceAttributes, nil),
		amenities: newCollection[*domain.Amenity](domain.CollectionAmenities, domain.AmenityAttributes, nil),
		reviews:   newCollection[*domain.Review](domain.CollectionReviews, domain.ReviewAttributes, nil),
	}
}

// Repositories returns repositories that take the store lock per call.
// They must not be used from inside a WithinTx callback, which already
// holds the lock; use the repositories passed to the callback instead.
func (s *Store) Repositories() domain.Repositories {
	return s.repositories(&s.mu)
}

func (s *Store) repositories(mu *sync.RWMutex) domain.Repositories {
	return domain.Repositories{
		Users:     &Repository[*domain.User]{mu: mu, c: s.users},
		Places:    &Repository[*domain.Place]{mu: mu, c: s.places},
		Amenities: &Repository[*domain.Amenity]{mu: mu, c: s.amenities},
		Reviews:   &Repository[*domain.Review]{mu: mu, c: s.reviews},
	}
}

// WithinTx holds the store write lock for the whole of fn. Every collection
// is snapshotted first and restored if fn returns an error or panics.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	restores := []func(){
		s.users.snapshot(),
		s.places.snapshot(),
		s.amenities.snapshot(),
		s.reviews.snapshot(),
	}
	rollback := func() {
		for _, restore := range restores {
			restore()
		}
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err = fn(ctx, s.repositories(nil)); err != nil {
		rollback()
	}
	return err
}

func (s *Store) Close() error { return nil }

// collection holds clones of stored entities. Stored values are never
// mutated in place, which keeps snapshots shallow.
type collection[T domain.Entity[T]] struct {
	name       string
	attributes []string
	items      map[string]T
	order      []string
	// conflict reports a unique-key clash between a stored item and a
	// candidate with a different id.
	conflict func(stored, candidate T) error
}

func newCollection[T domain.Entity[T]](name string, attributes []string, conflict func(stored, candidate T) error) *collection[T] {
	return &collection[T]{name: name, attributes: attributes, items: make(map[string]T), conflict: conflict}
}

func (c *collection[T]) checkUnique(candidate T) error {
	if c.conflict == nil {
		return nil
	}
	for id, stored := range c.items {
		if id == candidate.ID() {
			continue
		}
		if err := c.conflict(stored, candidate); err != nil {
			return err
		}
	}
	return nil
}

// emailConflict mirrors the unique email column of the durable backend.
func emailConflict(stored, candidate *domain.User) error {
	if stored.Email() == candidate.Email() {
		return &domain.DuplicateEmailError{Email: candidate.Email()}
	}
	return nil
}

func (c *collection[T]) snapshot() func() {
	items := maps.Clone(c.items)
	order := slices.Clone(c.order)
	return func() {
		c.items = items
		c.order = order
	}
}
