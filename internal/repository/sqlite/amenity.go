package sqlite

import "github.com/msomdec/hbnb/internal/domain"

func newAmenityTable(q querier) *table[*domain.Amenity, *domain.AmenityRecord] {
	return &table[*domain.Amenity, *domain.AmenityRecord]{
		q:          q,
		name:       domain.CollectionAmenities,
		columns:    []string{"id", "name", "created_at", "updated_at"},
		attributes: domain.AmenityAttributes,
		values: func(a *domain.Amenity) []any {
			r := a.Record()
			return []any{r.ID, r.Name, r.CreatedAt, r.UpdatedAt}
		},
		scan: func(s scanner) (*domain.AmenityRecord, error) {
			var r domain.AmenityRecord
			err := s.Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt)
			return &r, err
		},
		restore: func(r *domain.AmenityRecord) (*domain.Amenity, error) {
			return domain.RestoreAmenity(*r)
		},
	}
}
