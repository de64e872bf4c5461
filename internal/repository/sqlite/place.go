package sqlite

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/msomdec/hbnb/internal/domain"
)

var placeColumns = []string{
	"id", "title", "description", "price", "latitude", "longitude", "owner_id", "created_at", "updated_at",
}

func newPlaceTable(q querier) *table[*domain.Place, *domain.PlaceRecord] {
	return &table[*domain.Place, *domain.PlaceRecord]{
		q:          q,
		name:       domain.CollectionPlaces,
		columns:    placeColumns,
		attributes: domain.PlaceAttributes,
		values: func(p *domain.Place) []any {
			r := p.Record()
			return []any{r.ID, r.Title, r.Description, r.Price, r.Latitude, r.Longitude, r.OwnerID, r.CreatedAt, r.UpdatedAt}
		},
		scan: func(s scanner) (*domain.PlaceRecord, error) {
			var r domain.PlaceRecord
			err := s.Scan(&r.ID, &r.Title, &r.Description, &r.Price, &r.Latitude, &r.Longitude, &r.OwnerID, &r.CreatedAt, &r.UpdatedAt)
			return &r, err
		},
		restore: func(r *domain.PlaceRecord) (*domain.Place, error) {
			return domain.RestorePlace(*r)
		},
		load:   loadPlaceAmenities,
		save:   savePlaceAmenities,
		remove: clearPlaceAmenities,
	}
}

// loadPlaceAmenities fills the amenity ids of recs from place_amenities,
// keeping the order in which they were linked.
func loadPlaceAmenities(ctx context.Context, q querier, recs []*domain.PlaceRecord) error {
	byID := make(map[string]*domain.PlaceRecord, len(recs))
	ids := make([]any, 0, len(recs))
	for _, r := range recs {
		byID[r.ID] = r
		ids = append(ids, r.ID)
	}

	query, args, err := dialect.From("place_amenities").Prepared(true).
		Select("place_id", "amenity_id").
		Where(goqu.C("place_id").In(ids...)).
		Order(goqu.C("place_id").Asc(), goqu.C("position").Asc()).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build select place_amenities: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query place_amenities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var placeID, amenityID string
		if err := rows.Scan(&placeID, &amenityID); err != nil {
			return fmt.Errorf("scan place_amenities: %w", err)
		}
		if r, ok := byID[placeID]; ok {
			r.AmenityIDs = append(r.AmenityIDs, amenityID)
		}
	}
	return rows.Err()
}

func clearPlaceAmenities(ctx context.Context, q querier, placeID string) error {
	query, args, err := dialect.Delete("place_amenities").Prepared(true).
		Where(goqu.C("place_id").Eq(placeID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete place_amenities: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear place_amenities: %w", err)
	}
	return nil
}

// savePlaceAmenities replaces the link rows of p with its current set.
func savePlaceAmenities(ctx context.Context, q querier, p *domain.Place) error {
	if err := clearPlaceAmenities(ctx, q, p.ID()); err != nil {
		return err
	}

	amenityIDs := p.AmenityIDs()
	if len(amenityIDs) == 0 {
		return nil
	}
	rows := make([]any, 0, len(amenityIDs))
	for i, id := range amenityIDs {
		rows = append(rows, goqu.Record{"place_id": p.ID(), "amenity_id": id, "position": i})
	}
	query, args, err := dialect.Insert("place_amenities").Prepared(true).Rows(rows...).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert place_amenities: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert place_amenities: %w", err)
	}
	return nil
}
