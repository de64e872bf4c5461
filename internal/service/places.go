package service

import (
	"context"

	"github.com/msomdec/hbnb/internal/domain"
)

// CreatePlace resolves the owner and every amenity before the place is
// built, then stores it.
func (f *Facade) CreatePlace(ctx context.Context, in CreatePlaceInput) (*domain.Place, error) {
	if err := validateInput("place", in); err != nil {
		return nil, err
	}

	var created *domain.Place
	err := f.store.WithinTx(ctx, func(ctx context.Context, r domain.Repositories) error {
		owner, err := r.Users.Get(ctx, in.OwnerID)
		if err != nil {
			return err
		}
		amenities, err := resolveAmenities(ctx, r, in.Amenities)
		if err != nil {
			return err
		}

		p, err := domain.NewPlace(domain.PlaceParams{
			Title:       in.Title,
			Description: *in.Description,
			Price:       *in.Price,
			Latitude:    *in.Latitude,
			Longitude:   *in.Longitude,
			Owner:       owner,
		})
		if err != nil {
			return err
		}
		for _, a := range amenities {
			if err := p.AddAmenity(a); err != nil {
				return err
			}
		}
		if err := r.Places.Add(ctx, p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	f.logger.Info("place created", "place_id", created.ID(), "owner_id", created.OwnerID())
	return created, nil
}

func resolveAmenities(ctx context.Context, r domain.Repositories, ids []string) ([]*domain.Amenity, error) {
	out := make([]*domain.Amenity, 0, len(ids))
	for _, id := range ids {
		a, err := r.Amenities.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *Facade) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	return f.repos().Places.Get(ctx, id)
}

func (f *Facade) GetAllPlaces(ctx context.Context) ([]*domain.Place, error) {
	return f.repos().Places.GetAll(ctx)
}

// GetPlaceAmenities returns the amenities of a place in the order they were
// linked.
func (f *Facade) GetPlaceAmenities(ctx context.Context, placeID string) ([]*domain.Amenity, error) {
	var out []*domain.Amenity
	err := f.store.WithinTx(ctx, func(ctx context.Context, r domain.Repositories) error {
		p, err := r.Places.Get(ctx, placeID)
		if err != nil {
			return err
		}
		out, err = resolveAmenities(ctx, r, p.AmenityIDs())
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePlace applies in to the place with the given id. A supplied
// amenity list replaces the set once every id resolves.
func (f *Facade) UpdatePlace(ctx context.Context, id string, in UpdatePlaceInput) (*domain.Place, error) {
	if err := validateInput("place", in); err != nil {
		return nil, err
	}
	patch := domain.PlacePatch{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
	}

	var updated *domain.Place
	err := f.store.WithinTx(ctx, func(ctx context.Context, r domain.Repositories) error {
		if _, err := r.Places.Get(ctx, id); err != nil {
			return err
		}
		if in.Amenities != nil {
			amenities, err := resolveAmenities(ctx, r, *in.Amenities)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(amenities))
			for _, a := range amenities {
				ids = append(ids, a.ID())
			}
			patch.AmenityIDs = &ids
		}
		p, err := r.Places.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePlace removes the place and its reviews.
func (f *Facade) DeletePlace(ctx context.Context, id string) error {
	var removed int
	err := f.store.WithinTx(ctx, func(ctx context.Context, r domain.Repositories) error {
		if _, err := r.Places.Get(ctx, id); err != nil {
			return err
		}
		reviews, err := r.Reviews.GetAll(ctx)
		if err != nil {
			return err
		}
		for _, rv := range reviews {
			if rv.PlaceID() != id {
				continue
			}
			if _, err := r.Reviews.Delete(ctx, rv.ID()); err != nil {
				return err
			}
			removed++
		}
		_, err = r.Places.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	f.logger.Info("place deleted", "place_id", id, "reviews", removed)
	return nil
}
