package domain

import "context"

// Collection names used in error context.
const (
	CollectionUsers     = "users"
	CollectionPlaces    = "places"
	CollectionAmenities = "amenities"
	CollectionReviews   = "reviews"
)

// Entity is the identity contract a repository needs from a stored type.
// Clone returns a deep copy so that stored state is never aliased by
// callers. Field returns the value of a named attribute (json name) for
// lookups by attribute.
type Entity[T any] interface {
	ID() string
	Clone() T
	Field(name string) (any, bool)
}

// Patch carries a partial update. Apply must change either every provided
// field or none of them.
type Patch[T any] interface {
	Apply(entity T) error
}

// Repository is the CRUD contract over a single entity type. Backends
// report an absent id as *NotFoundError.
type Repository[T Entity[T]] interface {
	Add(ctx context.Context, entity T) error
	Get(ctx context.Context, id string) (T, error)
	GetByAttribute(ctx context.Context, field string, value any) (T, error)
	GetAll(ctx context.Context) ([]T, error)
	Update(ctx context.Context, id string, patch Patch[T]) (T, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Repositories groups one repository per entity type.
type Repositories struct {
	Users     Repository[*User]
	Places    Repository[*Place]
	Amenities Repository[*Amenity]
	Reviews   Repository[*Review]
}

// Store owns the repositories of one backend. WithinTx runs fn with
// repositories bound to a single transaction: all writes made through them
// are committed when fn returns nil and discarded otherwise.
type Store interface {
	Repositories() Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Close() error
}

// Database defines lifecycle operations for a persistent store. Each
// implementation owns its own migration files and strategy.
type Database interface {
	Store
	Migrate(ctx context.Context) error
}

// PasswordHasher produces and checks one-way password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
