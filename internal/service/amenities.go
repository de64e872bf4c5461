package service

import (
	"context"

	"github.com/msomdec/hbnb/internal/domain"
)

// CreateAmenity stores a new amenity. With deduplication on, an existing
// amenity of the same trimmed name is returned instead.
func (f *Facade) CreateAmenity(ctx context.Context, in CreateAmenityInput) (*domain.Amenity, error) {
	if err := validateInput("amenity", in); err != nil {
		return nil, err
	}
	a, err := domain.NewAmenity(in.Name)
	if err != nil {
		return nil, err
	}

	result := a
	err = f.store.WithinTx(ctx, func(ctx context.Context, r domain.Repositories) error {
		if f.dedupeAmenities {
			existing, err := r.Amenities.GetByAttribute(ctx, "name", a.Name())
			if err == nil {
				result = existing
				return nil
			}
			if !isNotFound(err) {
				return err
			}
		}
		return r.Amenities.Add(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	if result != a {
		f.logger.Debug("amenity already exists", "amenity_id", result.ID(), "name", result.Name())
	}
	return result, nil
}

func (f *Facade) GetAmenity(ctx context.Context, id string) (*domain.Amenity, error) {
	return f.repos().Amenities.Get(ctx, id)
}

func (f *Facade) GetAllAmenities(ctx context.Context) ([]*domain.Amenity, error) {
	return f.repos().Amenities.GetAll(ctx)
}

func (f *Facade) UpdateAmenity(ctx context.Context, id string, in UpdateAmenityInput) (*domain.Amenity, error) {
	if err := validateInput("amenity", in); err != nil {
		return nil, err
	}
	return f.repos().Amenities.Update(ctx, id, domain.AmenityPatch{Name: in.Name})
}

// DeleteAmenity unlinks the amenity from every place, then removes it.
func (f *Facade) DeleteAmenity(ctx context.Context, id string) error {
	return f.store.WithinTx(ctx, func(ctx context.Context, r domain.Repositories) error {
		if _, err := r.Amenities.Get(ctx, id); err != nil {
			return err
		}
		places, err := r.Places.GetAll(ctx)
		if err != nil {
			return err
		}
		for _, p := range places {
			if !p.RemoveAmenity(id) {
				continue
			}
			remaining := p.AmenityIDs()
			if _, err := r.Places.Update(ctx, p.ID(), domain.PlacePatch{AmenityIDs: &remaining}); err != nil {
				return err
			}
		}
		_, err = r.Amenities.Delete(ctx, id)
		return err
	})
}
