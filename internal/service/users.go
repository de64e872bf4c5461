package service

import (
	"context"
	"strings"

	"github.com/msomdec/hbnb/internal/domain"
)

// CreateUser validates in, hashes the password and stores the user unless
// the email is already taken.
func (f *Facade) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	return f.createUser(ctx, in, false)
}

// CreateAdmin is CreateUser for a user holding administrator rights from
// the start.
func (f *Facade) CreateAdmin(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	return f.createUser(ctx, in, true)
}

func (f *Facade) createUser(ctx context.Context, in CreateUserInput, isAdmin bool) (*domain.User, error) {
	if err := validateInput("user", in); err != nil {
		return nil, err
	}
	u, err := domain.NewUser(domain.UserParams{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
		IsAdmin:   isAdmin,
	}, f.hasher)
	if err != nil {
		return nil, err
	}

	err = f.store.WithinTx(ctx, func(ctx context.Context, r domain.Repositories) error {
		if err := ensureEmailFree(ctx, r, u.Email(), ""); err != nil {
			return err
		}
		return r.Users.Add(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	f.logger.Info("user created", "user_id", u.ID(), "is_admin", isAdmin)
	return u, nil
}

// ensureEmailFree fails with *domain.DuplicateEmailError when a user other
// than selfID already holds email.
func ensureEmailFree(ctx context.Context, r domain.Repositories, email, selfID string) error {
	existing, err := r.Users.GetByAttribute(ctx, "email", email)
	switch {
	case isNotFound(err):
		return nil
	case err != nil:
		return err
	case existing.ID() != selfID:
		return &domain.DuplicateEmailError{Email: email}
	}
	return nil
}

func (f *Facade) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return f.repos().Users.Get(ctx, id)
}

func (f *Facade) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return f.repos().Users.GetByAttribute(ctx, "email", strings.TrimSpace(email))
}

func (f *Facade) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	return f.repos().Users.GetAll(ctx)
}

// UpdateUser applies in to the user with the given id. A new email is
// checked against every other user; a new password is hashed before it is
// stored.
func (f *Facade) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error) {
	if err := validateInput("user", in); err != nil {
		return nil, err
	}
	patch := domain.UserPatch{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
		IsAdmin:   in.IsAdmin,
		Hasher:    f.hasher,
	}

	var updated *domain.User
	err := f.store.WithinTx(ctx, func(ctx context.Context, r domain.Repositories) error {
		if _, err := r.Users.Get(ctx, id); err != nil {
			return err
		}
		if in.Email != nil {
			if err := ensureEmailFree(ctx, r, strings.TrimSpace(*in.Email), id); err != nil {
				return err
			}
		}
		u, err := r.Users.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteUser removes the user together with every review they wrote, every
// place they own and every review of those places, all or nothing.
func (f *Facade) DeleteUser(ctx context.Context, id string) error {
	var removedPlaces, removedReviews int
	err := f.store.WithinTx(ctx, func(ctx context.Context, r domain.Repositories) error {
		if _, err := r.Users.Get(ctx, id); err != nil {
			return err
		}

		places, err := r.Places.GetAll(ctx)
		if err != nil {
			return err
		}
		owned := make(map[string]bool)
		for _, p := range places {
			if p.OwnerID() == id {
				owned[p.ID()] = true
			}
		}

		reviews, err := r.Reviews.GetAll(ctx)
		if err != nil {
			return err
		}
		for _, rv := range reviews {
			if rv.UserID() != id && !owned[rv.PlaceID()] {
				continue
			}
			if _, err := r.Reviews.Delete(ctx, rv.ID()); err != nil {
				return err
			}
			removedReviews++
		}

		for placeID := range owned {
			if _, err := r.Places.Delete(ctx, placeID); err != nil {
				return err
			}
			removedPlaces++
		}

		_, err = r.Users.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	f.logger.Info("user deleted", "user_id", id, "places", removedPlaces, "reviews", removedReviews)
	return nil
}

// Authenticate returns the user holding email when password matches.
// Unknown emails and wrong passwords both fail with
// domain.ErrInvalidCredentials.
func (f *Facade) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := f.GetUserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.VerifyPassword(password, f.hasher) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}
