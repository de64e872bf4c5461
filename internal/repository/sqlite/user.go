package sqlite

import (
	"github.com/msomdec/hbnb/internal/domain"
)

var userColumns = []string{
	"id", "first_name", "last_name", "email", "password_hash", "is_admin", "created_at", "updated_at",
}

func newUserTable(q querier) *table[*domain.User, *domain.UserRecord] {
	return &table[*domain.User, *domain.UserRecord]{
		q:          q,
		name:       domain.CollectionUsers,
		columns:    userColumns,
		attributes: domain.UserAttributes,
		values: func(u *domain.User) []any {
			r := u.Record()
			return []any{r.ID, r.FirstName, r.LastName, r.Email, r.PasswordHash, r.IsAdmin, r.CreatedAt, r.UpdatedAt}
		},
		scan: func(s scanner) (*domain.UserRecord, error) {
			var r domain.UserRecord
			err := s.Scan(&r.ID, &r.FirstName, &r.LastName, &r.Email, &r.PasswordHash, &r.IsAdmin, &r.CreatedAt, &r.UpdatedAt)
			return &r, err
		},
		restore: func(r *domain.UserRecord) (*domain.User, error) {
			return domain.RestoreUser(*r)
		},
		// The email column is the only other unique key.
		conflict: func(u *domain.User) error {
			return &domain.DuplicateEmailError{Email: u.Email()}
		},
	}
}
