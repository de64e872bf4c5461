// Package service implements the application rules that span more than one
// repository: reference resolution, email uniqueness, cascading deletes and
// token based authentication.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/msomdec/hbnb/internal/domain"
)

// Facade is the single entry point for application logic. Every operation
// that reads and then writes runs in one store transaction.
type Facade struct {
	store           domain.Store
	hasher          domain.PasswordHasher
	logger          *slog.Logger
	dedupeAmenities bool
}

// Option configures a Facade.
type Option func(*Facade)

func WithLogger(l *slog.Logger) Option {
	return func(f *Facade) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithAmenityDedup controls whether CreateAmenity returns an existing
// amenity with the same trimmed name instead of creating another one.
func WithAmenityDedup(on bool) Option {
	return func(f *Facade) { f.dedupeAmenities = on }
}

func NewFacade(store domain.Store, hasher domain.PasswordHasher, opts ...Option) *Facade {
	f := &Facade{
		store:           store,
		hasher:          hasher,
		logger:          slog.Default(),
		dedupeAmenities: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Facade) repos() domain.Repositories {
	return f.store.Repositories()
}

// Stats holds entity counts.
type Stats struct {
	Users     int `json:"users"`
	Places    int `json:"places"`
	Amenities int `json:"amenities"`
	Reviews   int `json:"reviews"`
}

// Stats counts the stored entities of each type from one consistent view.
func (f *Facade) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := f.store.WithinTx(ctx, func(ctx context.Context, r domain.Repositories) error {
		users, err := r.Users.GetAll(ctx)
		if err != nil {
			return err
		}
		places, err := r.Places.GetAll(ctx)
		if err != nil {
			return err
		}
		amenities, err := r.Amenities.GetAll(ctx)
		if err != nil {
			return err
		}
		reviews, err := r.Reviews.GetAll(ctx)
		if err != nil {
			return err
		}
		s = Stats{Users: len(users), Places: len(places), Amenities: len(amenities), Reviews: len(reviews)}
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("count entities: %w", err)
	}
	return s, nil
}

// isNotFound reports whether err is a not-found result, as opposed to a
// backend failure.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
