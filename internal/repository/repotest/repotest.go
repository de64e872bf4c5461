// Package repotest holds the behaviour every domain.Store backend must
// share. Backend packages call RunStoreContract from their own tests.
package repotest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/msomdec/hbnb/internal/domain"
)

// PlainHasher is a fast, insecure domain.PasswordHasher for tests.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) { return "plain$" + password, nil }

func (PlainHasher) Verify(password, hash string) bool { return hash == "plain$"+password }

// NewUser returns a valid user with the given email.
func NewUser(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(domain.UserParams{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "secret123",
	}, PlainHasher{})
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	return u
}

// NewPlace returns a valid place owned by owner.
func NewPlace(t *testing.T, owner *domain.User, title string) *domain.Place {
	t.Helper()
	p, err := domain.NewPlace(domain.PlaceParams{
		Title:     title,
		Price:     120,
		Latitude:  48.85,
		Longitude: 2.35,
		Owner:     owner,
	})
	if err != nil {
		t.Fatalf("NewPlace: %v", err)
	}
	return p
}

// NewAmenity returns a valid amenity.
func NewAmenity(t *testing.T, name string) *domain.Amenity {
	t.Helper()
	a, err := domain.NewAmenity(name)
	if err != nil {
		t.Fatalf("NewAmenity: %v", err)
	}
	return a
}

// RunStoreContract runs the shared store tests against stores built by
// newStore. Each subtest gets a fresh, empty store.
func RunStoreContract(t *testing.T, newStore func(t *testing.T) domain.Store) {
	t.Run("AddGet", func(t *testing.T) { testAddGet(t, newStore(t)) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, newStore(t)) })
	t.Run("DuplicateID", func(t *testing.T) { testDuplicateID(t, newStore(t)) })
	t.Run("GetByAttribute", func(t *testing.T) { testGetByAttribute(t, newStore(t)) })
	t.Run("GetAllOrder", func(t *testing.T) { testGetAllOrder(t, newStore(t)) })
	t.Run("UpdateAtomic", func(t *testing.T) { testUpdateAtomic(t, newStore(t)) })
	t.Run("UpdateMissing", func(t *testing.T) { testUpdateMissing(t, newStore(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("NoAliasing", func(t *testing.T) { testNoAliasing(t, newStore(t)) })
	t.Run("PlaceAmenities", func(t *testing.T) { testPlaceAmenities(t, newStore(t)) })
	t.Run("ReviewReplies", func(t *testing.T) { testReviewReplies(t, newStore(t)) })
	t.Run("WithinTxCommit", func(t *testing.T) { testWithinTxCommit(t, newStore(t)) })
	t.Run("WithinTxRollback", func(t *testing.T) { testWithinTxRollback(t, newStore(t)) })
	t.Run("DuplicateEmail", func(t *testing.T) { testDuplicateEmail(t, newStore(t)) })
	t.Run("DanglingReferences", func(t *testing.T) { testDanglingReferences(t, newStore(t)) })
	t.Run("DeleteDoesNotCascade", func(t *testing.T) { testDeleteDoesNotCascade(t, newStore(t)) })
	t.Run("GetByAttributeNumeric", func(t *testing.T) { testGetByAttributeNumeric(t, newStore(t)) })
}

func mustAdd[T domain.Entity[T]](t *testing.T, repo domain.Repository[T], e T) {
	t.Helper()
	if err := repo.Add(context.Background(), e); err != nil {
		t.Fatalf("Add: %v", err)
	}
}

func testAddGet(t *testing.T, s domain.Store) {
	ctx := context.Background()
	repos := s.Repositories()
	u := NewUser(t, "ada@example.com")
	mustAdd(t, repos.Users, u)

	got, err := repos.Users.Get(ctx, u.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID() != u.ID() || got.Email() != u.Email() || got.FirstName() != "Ada" {
		t.Fatalf("unexpected user: %+v", got.Record())
	}
	if got.PasswordHash() != u.PasswordHash() {
		t.Fatal("password hash was not persisted")
	}
	if !got.CreatedAt().Equal(u.CreatedAt()) || !got.UpdatedAt().Equal(u.UpdatedAt()) {
		t.Fatalf("timestamps changed: %v/%v vs %v/%v", got.CreatedAt(), got.UpdatedAt(), u.CreatedAt(), u.UpdatedAt())
	}
}

func testGetMissing(t *testing.T, s domain.Store) {
	_, err := s.Repositories().Amenities.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.ID != "missing" || nf.Collection != domain.CollectionAmenities {
		t.Fatalf("expected NotFoundError for amenities/missing, got %#v", err)
	}
}

func testDuplicateID(t *testing.T, s domain.Store) {
	repos := s.Repositories()
	a := NewAmenity(t, "Wifi")
	mustAdd(t, repos.Amenities, a)

	err := repos.Amenities.Add(context.Background(), a)
	if !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	all, err := repos.Amenities.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 amenity, got %d", len(all))
	}
}

func testGetByAttribute(t *testing.T, s domain.Store) {
	ctx := context.Background()
	repos := s.Repositories()
	u := NewUser(t, "grace@example.com")
	mustAdd(t, repos.Users, NewUser(t, "other@example.com"))
	mustAdd(t, repos.Users, u)

	got, err := repos.Users.GetByAttribute(ctx, "email", "grace@example.com")
	if err != nil {
		t.Fatalf("GetByAttribute: %v", err)
	}
	if got.ID() != u.ID() {
		t.Fatalf("expected user %s, got %s", u.ID(), got.ID())
	}

	if _, err := repos.Users.GetByAttribute(ctx, "email", "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repos.Users.GetByAttribute(ctx, "password_hash", "x"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown attribute, got %v", err)
	}
}

func testGetAllOrder(t *testing.T, s domain.Store) {
	ctx := context.Background()
	repos := s.Repositories()

	empty, err := repos.Amenities.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}

	names := []string{"Wifi", "Pool", "Parking"}
	for _, n := range names {
		mustAdd(t, repos.Amenities, NewAmenity(t, n))
	}
	all, err := repos.Amenities.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != len(names) {
		t.Fatalf("expected %d amenities, got %d", len(names), len(all))
	}
	for i, a := range all {
		if a.Name() != names[i] {
			t.Fatalf("position %d: expected %s, got %s", i, names[i], a.Name())
		}
	}
}

func testUpdateAtomic(t *testing.T, s domain.Store) {
	ctx := context.Background()
	repos := s.Repositories()
	owner := NewUser(t, "owner@example.com")
	mustAdd(t, repos.Users, owner)
	p := NewPlace(t, owner, "Loft")
	mustAdd(t, repos.Places, p)

	title := "Renamed"
	price := -1.0
	_, err := repos.Places.Update(ctx, p.ID(), domain.PlacePatch{Title: &title, Price: &price})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	got, err := repos.Places.Get(ctx, p.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title() != "Loft" || got.Price() != 120 {
		t.Fatalf("failed update changed the place: title=%q price=%v", got.Title(), got.Price())
	}

	price = 99.5
	updated, err := repos.Places.Update(ctx, p.ID(), domain.PlacePatch{Title: &title, Price: &price})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title() != "Renamed" || updated.Price() != 99.5 {
		t.Fatalf("unexpected update result: %+v", updated.Record())
	}
	if updated.UpdatedAt().Before(p.UpdatedAt()) {
		t.Fatal("updated_at moved backwards")
	}
	got, err = repos.Places.Get(ctx, p.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title() != "Renamed" {
		t.Fatalf("update was not stored: %q", got.Title())
	}
}

func testUpdateMissing(t *testing.T, s domain.Store) {
	name := "Sauna"
	_, err := s.Repositories().Amenities.Update(context.Background(), "missing", domain.AmenityPatch{Name: &name})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testDelete(t *testing.T, s domain.Store) {
	ctx := context.Background()
	repos := s.Repositories()
	a := NewAmenity(t, "Wifi")
	mustAdd(t, repos.Amenities, a)

	ok, err := repos.Amenities.Delete(ctx, a.ID())
	if err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	ok, err = repos.Amenities.Delete(ctx, a.ID())
	if err != nil || ok {
		t.Fatalf("second Delete: ok=%v err=%v", ok, err)
	}
	if _, err := repos.Amenities.Get(ctx, a.ID()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func testNoAliasing(t *testing.T, s domain.Store) {
	ctx := context.Background()
	repos := s.Repositories()
	a := NewAmenity(t, "Wifi")
	mustAdd(t, repos.Amenities, a)

	if err := a.SetName("Changed after add"); err != nil {
		t.Fatalf("SetName: %v", err)
	}
	got, err := repos.Amenities.Get(ctx, a.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := got.SetName("Changed after get"); err != nil {
		t.Fatalf("SetName: %v", err)
	}

	again, err := repos.Amenities.Get(ctx, a.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.Name() != "Wifi" {
		t.Fatalf("stored amenity was mutated through a caller copy: %q", again.Name())
	}
}

func testPlaceAmenities(t *testing.T, s domain.Store) {
	ctx := context.Background()
	repos := s.Repositories()
	owner := NewUser(t, "owner@example.com")
	mustAdd(t, repos.Users, owner)
	wifi, pool, sauna := NewAmenity(t, "Wifi"), NewAmenity(t, "Pool"), NewAmenity(t, "Sauna")
	for _, a := range []*domain.Amenity{wifi, pool, sauna} {
		mustAdd(t, repos.Amenities, a)
	}

	p := NewPlace(t, owner, "Loft")
	if err := p.AddAmenity(pool); err != nil {
		t.Fatalf("AddAmenity: %v", err)
	}
	if err := p.AddAmenity(wifi); err != nil {
		t.Fatalf("AddAmenity: %v", err)
	}
	mustAdd(t, repos.Places, p)

	got, err := repos.Places.Get(ctx, p.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ids := strings.Join(got.AmenityIDs(), ","); ids != pool.ID()+","+wifi.ID() {
		t.Fatalf("unexpected amenity ids: %s", ids)
	}

	set := []string{sauna.ID()}
	if _, err := repos.Places.Update(ctx, p.ID(), domain.PlacePatch{AmenityIDs: &set}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	all, err := repos.Places.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 1 || !all[0].HasAmenity(sauna.ID()) || all[0].HasAmenity(wifi.ID()) {
		t.Fatalf("amenity set not replaced: %v", all[0].AmenityIDs())
	}
}

func testReviewReplies(t *testing.T, s domain.Store) {
	ctx := context.Background()
	repos := s.Repositories()
	owner := NewUser(t, "owner@example.com")
	guest := NewUser(t, "guest@example.com")
	mustAdd(t, repos.Users, owner)
	mustAdd(t, repos.Users, guest)
	p := NewPlace(t, owner, "Loft")
	mustAdd(t, repos.Places, p)

	r, err := domain.NewReview(domain.ReviewParams{Text: "Lovely", Rating: 5, Place: p, User: guest})
	if err != nil {
		t.Fatalf("NewReview: %v", err)
	}
	mustAdd(t, repos.Reviews, r)

	reply := "Thanks for staying"
	if _, err := repos.Reviews.Update(ctx, r.ID(), domain.ReviewPatch{Reply: &reply}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repos.Reviews.GetByAttribute(ctx, "place_id", p.ID())
	if err != nil {
		t.Fatalf("GetByAttribute: %v", err)
	}
	if got.Rating() != 5 || got.UserID() != guest.ID() {
		t.Fatalf("unexpected review: %+v", got.Record())
	}
	if replies := got.Replies(); len(replies) != 1 || replies[0] != reply {
		t.Fatalf("unexpected replies: %v", replies)
	}
}

func testWithinTxCommit(t *testing.T, s domain.Store) {
	ctx := context.Background()
	a := NewAmenity(t, "Wifi")
	err := s.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if err := repos.Amenities.Add(ctx, a); err != nil {
			return err
		}
		name := "Fast Wifi"
		_, err := repos.Amenities.Update(ctx, a.ID(), domain.AmenityPatch{Name: &name})
		return err
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
	got, err := s.Repositories().Amenities.Get(ctx, a.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name() != "Fast Wifi" {
		t.Fatalf("expected committed name, got %q", got.Name())
	}
}

func testWithinTxRollback(t *testing.T, s domain.Store) {
	ctx := context.Background()
	kept := NewAmenity(t, "Pool")
	mustAdd(t, s.Repositories().Amenities, kept)

	boom := errors.New("boom")
	a := NewAmenity(t, "Wifi")
	err := s.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if err := repos.Amenities.Add(ctx, a); err != nil {
			return err
		}
		if _, err := repos.Amenities.Delete(ctx, kept.ID()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	repos := s.Repositories()
	if _, err := repos.Amenities.Get(ctx, a.ID()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("rolled back add is visible: %v", err)
	}
	if _, err := repos.Amenities.Get(ctx, kept.ID()); err != nil {
		t.Fatalf("rolled back delete removed the amenity: %v", err)
	}
}

func testDuplicateEmail(t *testing.T, s domain.Store) {
	ctx := context.Background()
	repos := s.Repositories()
	first := NewUser(t, "first@example.com")
	second := NewUser(t, "second@example.com")
	mustAdd(t, repos.Users, first)
	mustAdd(t, repos.Users, second)

	err := repos.Users.Add(ctx, NewUser(t, "first@example.com"))
	var dup *domain.DuplicateEmailError
	if !errors.As(err, &dup) || dup.Email != "first@example.com" {
		t.Fatalf("Add: expected DuplicateEmailError for first@example.com, got %v", err)
	}

	taken := "first@example.com"
	if _, err := repos.Users.Update(ctx, second.ID(), domain.UserPatch{Email: &taken}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("Update: expected ErrDuplicateEmail, got %v", err)
	}
	got, err := repos.Users.Get(ctx, second.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Email() != "second@example.com" {
		t.Fatalf("email changed despite conflict: %s", got.Email())
	}

	// Rewriting a user with its own email is not a conflict.
	same := "first@example.com"
	if _, err := repos.Users.Update(ctx, first.ID(), domain.UserPatch{Email: &same}); err != nil {
		t.Fatalf("Update own email: %v", err)
	}
}

// Repositories store references as given; resolving them is the caller's job.
func testDanglingReferences(t *testing.T, s domain.Store) {
	ctx := context.Background()
	repos := s.Repositories()
	ghostOwner := NewUser(t, "ghost@example.com")
	ghostGuest := NewUser(t, "nobody@example.com")

	p := NewPlace(t, ghostOwner, "Loft")
	if err := p.AddAmenity(NewAmenity(t, "Wifi")); err != nil {
		t.Fatalf("AddAmenity: %v", err)
	}
	mustAdd(t, repos.Places, p)

	r, err := domain.NewReview(domain.ReviewParams{Text: "Fine", Rating: 4, Place: NewPlace(t, ghostOwner, "Gone"), User: ghostGuest})
	if err != nil {
		t.Fatalf("NewReview: %v", err)
	}
	mustAdd(t, repos.Reviews, r)

	got, err := repos.Places.Get(ctx, p.ID())
	if err != nil {
		t.Fatalf("Get place: %v", err)
	}
	if got.OwnerID() != ghostOwner.ID() || len(got.AmenityIDs()) != 1 {
		t.Fatalf("unexpected place: %+v", got.Record())
	}
	if _, err := repos.Reviews.Get(ctx, r.ID()); err != nil {
		t.Fatalf("Get review: %v", err)
	}
}

func testDeleteDoesNotCascade(t *testing.T, s domain.Store) {
	ctx := context.Background()
	repos := s.Repositories()
	owner := NewUser(t, "owner@example.com")
	mustAdd(t, repos.Users, owner)
	wifi := NewAmenity(t, "Wifi")
	mustAdd(t, repos.Amenities, wifi)

	reviewed := NewPlace(t, owner, "Loft")
	kept := NewPlace(t, owner, "Cabin")
	if err := kept.AddAmenity(wifi); err != nil {
		t.Fatalf("AddAmenity: %v", err)
	}
	mustAdd(t, repos.Places, reviewed)
	mustAdd(t, repos.Places, kept)
	r, err := domain.NewReview(domain.ReviewParams{Text: "Lovely", Rating: 5, Place: reviewed, User: owner})
	if err != nil {
		t.Fatalf("NewReview: %v", err)
	}
	mustAdd(t, repos.Reviews, r)

	if ok, err := repos.Places.Delete(ctx, reviewed.ID()); err != nil || !ok {
		t.Fatalf("Delete place: ok=%v err=%v", ok, err)
	}
	if ok, err := repos.Users.Delete(ctx, owner.ID()); err != nil || !ok {
		t.Fatalf("Delete user: ok=%v err=%v", ok, err)
	}
	if ok, err := repos.Amenities.Delete(ctx, wifi.ID()); err != nil || !ok {
		t.Fatalf("Delete amenity: ok=%v err=%v", ok, err)
	}

	reviews, err := repos.Reviews.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll reviews: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("expected the review to survive, got %d reviews", len(reviews))
	}
	got, err := repos.Places.Get(ctx, kept.ID())
	if err != nil {
		t.Fatalf("Get place: %v", err)
	}
	if !got.HasAmenity(wifi.ID()) {
		t.Fatalf("expected amenity link to survive, got %v", got.AmenityIDs())
	}
}

func testGetByAttributeNumeric(t *testing.T, s domain.Store) {
	ctx := context.Background()
	repos := s.Repositories()
	owner := NewUser(t, "owner@example.com")
	mustAdd(t, repos.Users, owner)
	p := NewPlace(t, owner, "Loft")
	mustAdd(t, repos.Places, p)

	for _, v := range []any{120, int64(120), uint8(120), float32(120), 120.0} {
		got, err := repos.Places.GetByAttribute(ctx, "price", v)
		if err != nil {
			t.Fatalf("GetByAttribute(price, %T): %v", v, err)
		}
		if got.ID() != p.ID() {
			t.Fatalf("GetByAttribute(price, %T) returned %s", v, got.ID())
		}
	}

	misses := []struct {
		field string
		value any
	}{
		{"price", "120"},
		{"price", 121},
		{"price", nil},
		{"price", struct{}{}},
		{"title", 0},
	}
	for _, m := range misses {
		if _, err := repos.Places.GetByAttribute(ctx, m.field, m.value); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("GetByAttribute(%s, %#v): expected ErrNotFound, got %v", m.field, m.value, err)
		}
	}
	// A bool attribute never equals a number.
	if _, err := repos.Users.GetByAttribute(ctx, "is_admin", 0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByAttribute(is_admin, 0): expected ErrNotFound, got %v", err)
	}
}
