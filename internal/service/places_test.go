package service_test

import (
	"context"
	"testing"

	"github.com/msomdec/hbnb/internal/repository/memory"
	"github.com/msomdec/hbnb/internal/service"
)

func TestCreatePlace_Bounds(t *testing.T) {
	f := newTestFacade(t, memory.NewStore())
	owner := createUser(t, f, "owner@example.com")

	tests := []struct {
		name   string
		mutate func(*service.CreatePlaceInput)
		field  string // empty means accepted
	}{
		{"price 100", func(in *service.CreatePlaceInput) { in.Price = ptr(100.0) }, ""},
		{"price 0", func(in *service.CreatePlaceInput) { in.Price = ptr(0.0) }, "price"},
		{"price negative", func(in *service.CreatePlaceInput) { in.Price = ptr(-5.0) }, "price"},
		{"latitude 90", func(in *service.CreatePlaceInput) { in.Latitude = ptr(90.0) }, ""},
		{"latitude 90.1", func(in *service.CreatePlaceInput) { in.Latitude = ptr(90.1) }, "latitude"},
		{"latitude -90", func(in *service.CreatePlaceInput) { in.Latitude = ptr(-90.0) }, ""},
		{"latitude -90.1", func(in *service.CreatePlaceInput) { in.Latitude = ptr(-90.1) }, "latitude"},
		{"longitude 180", func(in *service.CreatePlaceInput) { in.Longitude = ptr(180.0) }, ""},
		{"longitude -180.5", func(in *service.CreatePlaceInput) { in.Longitude = ptr(-180.5) }, "longitude"},
		{"zero latitude present", func(in *service.CreatePlaceInput) { in.Latitude = ptr(0.0) }, ""},
		{"missing price", func(in *service.CreatePlaceInput) { in.Price = nil }, "price"},
		{"missing latitude", func(in *service.CreatePlaceInput) { in.Latitude = nil }, "latitude"},
		{"missing description", func(in *service.CreatePlaceInput) { in.Description = nil }, "description"},
		{"empty description", func(in *service.CreatePlaceInput) { in.Description = ptr("") }, ""},
		{"blank title", func(in *service.CreatePlaceInput) { in.Title = "  " }, "title"},
		{"missing owner", func(in *service.CreatePlaceInput) { in.OwnerID = "" }, "owner_id"},
		{"empty amenity id", func(in *service.CreatePlaceInput) { in.Amenities = []string{""} }, "amenities[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := placeInput(owner.ID())
			tt.mutate(&in)
			p, err := f.CreatePlace(context.Background(), in)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				if p.OwnerID() != owner.ID() {
					t.Fatalf("unexpected owner %s", p.OwnerID())
				}
				return
			}
			assertValidation(t, err, tt.field)
		})
	}
}

func TestCreatePlace_UnknownReferences(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *service.Facade) {
		ctx := context.Background()
		owner := createUser(t, f, "owner@example.com")

		_, err := f.CreatePlace(ctx, placeInput("missing-owner"))
		assertNotFound(t, err)

		wifi, err := f.CreateAmenity(ctx, service.CreateAmenityInput{Name: "Wifi"})
		if err != nil {
			t.Fatalf("CreateAmenity: %v", err)
		}
		in := placeInput(owner.ID())
		in.Amenities = []string{wifi.ID(), "missing-amenity"}
		_, err = f.CreatePlace(ctx, in)
		assertNotFound(t, err)

		places, err := f.GetAllPlaces(ctx)
		if err != nil {
			t.Fatalf("GetAllPlaces: %v", err)
		}
		if len(places) != 0 {
			t.Fatalf("expected no stored places, got %d", len(places))
		}
	})
}

func TestUpdatePlace_RoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *service.Facade) {
		ctx := context.Background()
		owner := createUser(t, f, "owner@example.com")
		p := createPlace(t, f, owner.ID())

		if _, err := f.UpdatePlace(ctx, p.ID(), service.UpdatePlaceInput{Title: ptr("New Title")}); err != nil {
			t.Fatalf("UpdatePlace: %v", err)
		}
		got, err := f.GetPlace(ctx, p.ID())
		if err != nil {
			t.Fatalf("GetPlace: %v", err)
		}
		if got.Title() != "New Title" {
			t.Fatalf("expected title %q, got %q", "New Title", got.Title())
		}
		if got.Description() != p.Description() || got.Price() != p.Price() ||
			got.Latitude() != p.Latitude() || got.Longitude() != p.Longitude() || got.OwnerID() != p.OwnerID() {
			t.Fatalf("other fields changed: %+v vs %+v", got.Record(), p.Record())
		}
	})
}

func TestUpdatePlace_ReplacesAmenities(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *service.Facade) {
		ctx := context.Background()
		owner := createUser(t, f, "owner@example.com")
		wifi, _ := f.CreateAmenity(ctx, service.CreateAmenityInput{Name: "Wifi"})
		pool, _ := f.CreateAmenity(ctx, service.CreateAmenityInput{Name: "Pool"})

		in := placeInput(owner.ID())
		in.Amenities = []string{wifi.ID(), wifi.ID()}
		p, err := f.CreatePlace(ctx, in)
		if err != nil {
			t.Fatalf("CreatePlace: %v", err)
		}
		if ids := p.AmenityIDs(); len(ids) != 1 {
			t.Fatalf("duplicate amenity kept: %v", ids)
		}

		bad := []string{pool.ID(), "missing"}
		_, err = f.UpdatePlace(ctx, p.ID(), service.UpdatePlaceInput{Title: ptr("Changed"), Amenities: &bad})
		assertNotFound(t, err)
		got, _ := f.GetPlace(ctx, p.ID())
		if got.Title() != "Cozy loft" || !got.HasAmenity(wifi.ID()) {
			t.Fatalf("failed update changed the place: %+v", got.Record())
		}

		set := []string{pool.ID()}
		updated, err := f.UpdatePlace(ctx, p.ID(), service.UpdatePlaceInput{Amenities: &set})
		if err != nil {
			t.Fatalf("UpdatePlace: %v", err)
		}
		if updated.HasAmenity(wifi.ID()) || !updated.HasAmenity(pool.ID()) {
			t.Fatalf("amenity set not replaced: %v", updated.AmenityIDs())
		}

		amenities, err := f.GetPlaceAmenities(ctx, p.ID())
		if err != nil {
			t.Fatalf("GetPlaceAmenities: %v", err)
		}
		if len(amenities) != 1 || amenities[0].Name() != "Pool" {
			t.Fatalf("unexpected amenities: %v", amenities)
		}
	})
}

func TestUpdatePlace_InvalidIsAtomic(t *testing.T) {
	f := newTestFacade(t, memory.NewStore())
	ctx := context.Background()
	owner := createUser(t, f, "owner@example.com")
	p := createPlace(t, f, owner.ID())

	_, err := f.UpdatePlace(ctx, p.ID(), service.UpdatePlaceInput{Title: ptr("Changed"), Latitude: ptr(91.0)})
	assertValidation(t, err, "latitude")

	got, _ := f.GetPlace(ctx, p.ID())
	if got.Title() != "Cozy loft" {
		t.Fatalf("partial update applied: %q", got.Title())
	}

	_, err = f.UpdatePlace(ctx, "missing", service.UpdatePlaceInput{Title: ptr("X")})
	assertNotFound(t, err)
}

func TestDeletePlace_CascadesReviews(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *service.Facade) {
		ctx := context.Background()
		owner := createUser(t, f, "owner@example.com")
		p := createPlace(t, f, owner.ID())
		other := createPlace(t, f, owner.ID())
		rv := createReview(t, f, owner.ID(), p.ID())
		keep := createReview(t, f, owner.ID(), other.ID())

		if err := f.DeletePlace(ctx, p.ID()); err != nil {
			t.Fatalf("DeletePlace: %v", err)
		}
		_, err := f.GetPlace(ctx, p.ID())
		assertNotFound(t, err)
		_, err = f.GetReview(ctx, rv.ID())
		assertNotFound(t, err)
		if _, err := f.GetReview(ctx, keep.ID()); err != nil {
			t.Fatalf("review of another place removed: %v", err)
		}

		assertNotFound(t, f.DeletePlace(ctx, p.ID()))
	})
}
