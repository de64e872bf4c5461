package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Base carries the identity shared by every entity. The id is assigned once
// at construction; UpdatedAt moves forward on every successful setter.
type Base struct {
	id        string
	createdAt time.Time
	updatedAt time.Time
}

func newBase() Base {
	now := time.Now().UTC()
	return Base{id: uuid.NewString(), createdAt: now, updatedAt: now}
}

func restoreBase(entity, id string, createdAt, updatedAt time.Time) (Base, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Base{}, invalid(entity, "id", "must be a uuid")
	}
	return Base{id: id, createdAt: createdAt.UTC(), updatedAt: updatedAt.UTC()}, nil
}

func (b *Base) ID() string           { return b.id }
func (b *Base) CreatedAt() time.Time { return b.createdAt }
func (b *Base) UpdatedAt() time.Time { return b.updatedAt }

func (b *Base) touch() {
	now := time.Now().UTC()
	if now.Before(b.updatedAt) {
		now = b.updatedAt
	}
	b.updatedAt = now
}

// boundedText trims value and checks that 1..limit characters remain.
func boundedText(entity, field, value string, limit int) (string, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return "", invalid(entity, field, "must not be empty")
	}
	if utf8.RuneCountInString(s) > limit {
		return "", invalid(entity, field, fmt.Sprintf("must be at most %d characters", limit))
	}
	return s, nil
}
