package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/msomdec/hbnb/internal/domain"
	"github.com/msomdec/hbnb/internal/repository/memory"
	"github.com/msomdec/hbnb/internal/repository/repotest"
	"github.com/msomdec/hbnb/internal/service"
)

func TestCreateUser_TrimsNames(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *service.Facade) {
		u, err := f.CreateUser(context.Background(), service.CreateUserInput{
			FirstName: "  Bob  ",
			LastName:  " Smith ",
			Email:     " bob@example.com ",
			Password:  "secret123",
		})
		if err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		if u.FirstName() != "Bob" || u.LastName() != "Smith" || u.Email() != "bob@example.com" {
			t.Fatalf("fields not trimmed: %q %q %q", u.FirstName(), u.LastName(), u.Email())
		}
		if u.IsAdmin() {
			t.Fatal("new users must not be admins")
		}
		if u.PasswordHash() == "secret123" {
			t.Fatal("password stored in plaintext")
		}
	})
}

func TestCreateUser_Validation(t *testing.T) {
	valid := service.CreateUserInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "secret123"}

	tests := []struct {
		name   string
		mutate func(*service.CreateUserInput)
		field  string
	}{
		{"whitespace first name", func(in *service.CreateUserInput) { in.FirstName = "   " }, "first_name"},
		{"missing last name", func(in *service.CreateUserInput) { in.LastName = "" }, "last_name"},
		{"long last name", func(in *service.CreateUserInput) { in.LastName = strings.Repeat("x", 51) }, "last_name"},
		{"missing email", func(in *service.CreateUserInput) { in.Email = "" }, "email"},
		{"malformed email", func(in *service.CreateUserInput) { in.Email = "not-an-email" }, "email"},
		{"missing password", func(in *service.CreateUserInput) { in.Password = "" }, "password"},
	}

	f := newTestFacade(t, memory.NewStore())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.CreateUser(context.Background(), in)
			assertValidation(t, err, tt.field)
		})
	}

	users, err := f.GetAllUsers(context.Background())
	if err != nil {
		t.Fatalf("GetAllUsers: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("invalid input stored %d users", len(users))
	}
}

func TestCreateUser_AcceptsShortPassword(t *testing.T) {
	f := newTestFacade(t, memory.NewStore())
	u, err := f.CreateUser(context.Background(), service.CreateUserInput{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "abc",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := f.Authenticate(context.Background(), u.Email(), "abc"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *service.Facade) {
		ctx := context.Background()
		first := createUser(t, f, "a@example.com")

		_, err := f.CreateUser(ctx, service.CreateUserInput{
			FirstName: "Other", LastName: "Person", Email: "a@example.com", Password: "secret123",
		})
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}

		got, err := f.GetUserByEmail(ctx, "a@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail: %v", err)
		}
		if got.ID() != first.ID() {
			t.Fatalf("expected first user %s, got %s", first.ID(), got.ID())
		}
	})
}

func TestCreateAdmin(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *service.Facade) {
		ctx := context.Background()
		in := service.CreateUserInput{FirstName: "Root", LastName: "Admin", Email: "root@example.com", Password: "secret123"}

		u, err := f.CreateAdmin(ctx, in)
		if err != nil {
			t.Fatalf("CreateAdmin: %v", err)
		}
		got, err := f.GetUser(ctx, u.ID())
		if err != nil {
			t.Fatalf("GetUser: %v", err)
		}
		if !got.IsAdmin() {
			t.Fatal("expected stored user to be an admin")
		}

		// A failed admin creation leaves nothing behind.
		if _, err := f.CreateAdmin(ctx, in); !errors.Is(err, domain.ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
		in.Email = "not-an-email"
		_, err = f.CreateAdmin(ctx, in)
		assertValidation(t, err, "email")

		users, err := f.GetAllUsers(ctx)
		if err != nil {
			t.Fatalf("GetAllUsers: %v", err)
		}
		if len(users) != 1 {
			t.Fatalf("expected 1 user, got %d", len(users))
		}
	})
}

func TestGetUser_NotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *service.Facade) {
		_, err := f.GetUser(context.Background(), "missing")
		assertNotFound(t, err)
		_, err = f.GetUserByEmail(context.Background(), "nobody@example.com")
		assertNotFound(t, err)
	})
}

func TestUpdateUser(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *service.Facade) {
		ctx := context.Background()
		u := createUser(t, f, "ada@example.com")
		other := createUser(t, f, "taken@example.com")

		_, err := f.UpdateUser(ctx, u.ID(), service.UpdateUserInput{Email: ptr("taken@example.com")})
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}

		// Keeping one's own email is not a conflict.
		updated, err := f.UpdateUser(ctx, u.ID(), service.UpdateUserInput{
			FirstName: ptr("Augusta"),
			Email:     ptr("ada@example.com"),
			Password:  ptr("new-secret"),
		})
		if err != nil {
			t.Fatalf("UpdateUser: %v", err)
		}
		if updated.FirstName() != "Augusta" || updated.LastName() != "Lovelace" {
			t.Fatalf("unexpected names: %s %s", updated.FirstName(), updated.LastName())
		}

		if _, err := f.Authenticate(ctx, "ada@example.com", "new-secret"); err != nil {
			t.Fatalf("new password rejected: %v", err)
		}
		if _, err := f.Authenticate(ctx, "ada@example.com", "secret123"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("old password still accepted: %v", err)
		}

		got, err := f.GetUser(ctx, other.ID())
		if err != nil || got.Email() != "taken@example.com" {
			t.Fatalf("other user changed: %v", err)
		}
	})
}

func TestUpdateUser_InvalidLeavesUserUnchanged(t *testing.T) {
	f := newTestFacade(t, memory.NewStore())
	ctx := context.Background()
	u := createUser(t, f, "ada@example.com")

	_, err := f.UpdateUser(ctx, u.ID(), service.UpdateUserInput{FirstName: ptr("Augusta"), LastName: ptr("  ")})
	assertValidation(t, err, "last_name")

	got, err := f.GetUser(ctx, u.ID())
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.FirstName() != "Ada" {
		t.Fatalf("partial update applied: %s", got.FirstName())
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	f := newTestFacade(t, memory.NewStore())
	_, err := f.UpdateUser(context.Background(), "missing", service.UpdateUserInput{FirstName: ptr("X")})
	assertNotFound(t, err)
}

func TestDeleteUser_Cascades(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *service.Facade) {
		ctx := context.Background()
		owner := createUser(t, f, "owner@example.com")
		guest := createUser(t, f, "guest@example.com")

		owned := createPlace(t, f, owner.ID())
		guestPlace := createPlace(t, f, guest.ID())
		reviewOfOwned := createReview(t, f, guest.ID(), owned.ID())
		authored := createReview(t, f, owner.ID(), guestPlace.ID())
		kept := createReview(t, f, guest.ID(), guestPlace.ID())

		if err := f.DeleteUser(ctx, owner.ID()); err != nil {
			t.Fatalf("DeleteUser: %v", err)
		}

		_, err := f.GetUser(ctx, owner.ID())
		assertNotFound(t, err)
		_, err = f.GetPlace(ctx, owned.ID())
		assertNotFound(t, err)
		_, err = f.GetReview(ctx, reviewOfOwned.ID())
		assertNotFound(t, err)
		_, err = f.GetReview(ctx, authored.ID())
		assertNotFound(t, err)

		if _, err := f.GetPlace(ctx, guestPlace.ID()); err != nil {
			t.Fatalf("unrelated place removed: %v", err)
		}
		if _, err := f.GetReview(ctx, kept.ID()); err != nil {
			t.Fatalf("unrelated review removed: %v", err)
		}
	})
}

func TestDeleteUser_NotFound(t *testing.T) {
	f := newTestFacade(t, memory.NewStore())
	assertNotFound(t, f.DeleteUser(context.Background(), "missing"))
}

var errBoom = errors.New("boom")

type failingPlaces struct {
	domain.Repository[*domain.Place]
}

func (failingPlaces) Delete(context.Context, string) (bool, error) { return false, errBoom }

// failingStore breaks place deletion inside transactions.
type failingStore struct {
	*memory.Store
}

func (s failingStore) WithinTx(ctx context.Context, fn func(ctx context.Context, r domain.Repositories) error) error {
	return s.Store.WithinTx(ctx, func(ctx context.Context, r domain.Repositories) error {
		r.Places = failingPlaces{r.Places}
		return fn(ctx, r)
	})
}

func TestDeleteUser_RollsBackOnFailure(t *testing.T) {
	store := failingStore{memory.NewStore()}
	f := service.NewFacade(store, repotest.PlainHasher{}, service.WithLogger(quietLogger()))
	ctx := context.Background()

	owner := createUser(t, f, "owner@example.com")
	p := createPlace(t, f, owner.ID())
	rv := createReview(t, f, owner.ID(), p.ID())

	if err := f.DeleteUser(ctx, owner.ID()); !errors.Is(err, errBoom) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if _, err := f.GetUser(ctx, owner.ID()); err != nil {
		t.Fatalf("user removed despite rollback: %v", err)
	}
	if _, err := f.GetReview(ctx, rv.ID()); err != nil {
		t.Fatalf("review removed despite rollback: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	f := newTestFacade(t, memory.NewStore())
	ctx := context.Background()
	u := createUser(t, f, "ada@example.com")

	got, err := f.Authenticate(ctx, " ada@example.com ", "secret123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID() != u.ID() {
		t.Fatalf("expected %s, got %s", u.ID(), got.ID())
	}
	if _, err := f.Authenticate(ctx, "ada@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.Authenticate(ctx, "nobody@example.com", "secret123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
