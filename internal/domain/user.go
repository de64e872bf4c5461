package domain

import (
	"regexp"
	"strings"
	"time"
)

const (
	entityUser   = "user"
	maxNameChars = 50
)

// UserAttributes lists the attribute names accepted by GetByAttribute.
var UserAttributes = []string{"id", "first_name", "last_name", "email", "is_admin"}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,7}$`)

// User represents a registered user of the marketplace. Email uniqueness is
// a store-wide rule and is not checked here.
type User struct {
	Base
	firstName    string
	lastName     string
	email        string
	passwordHash string
	isAdmin      bool
}

// UserParams holds the construction arguments of a User.
type UserParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	IsAdmin   bool
}

// NewUser validates p and returns a User whose password is stored only as
// the hash produced by hasher.
func NewUser(p UserParams, hasher PasswordHasher) (*User, error) {
	u := &User{Base: newBase(), isAdmin: p.IsAdmin}
	if err := u.SetFirstName(p.FirstName); err != nil {
		return nil, err
	}
	if err := u.SetLastName(p.LastName); err != nil {
		return nil, err
	}
	if err := u.SetEmail(p.Email); err != nil {
		return nil, err
	}
	if err := u.SetPassword(p.Password, hasher); err != nil {
		return nil, err
	}
	u.updatedAt = u.createdAt
	return u, nil
}

func (u *User) FirstName() string    { return u.firstName }
func (u *User) LastName() string     { return u.lastName }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) IsAdmin() bool        { return u.isAdmin }

func (u *User) SetFirstName(v string) error {
	s, err := boundedText(entityUser, "first_name", v, maxNameChars)
	if err != nil {
		return err
	}
	u.firstName = s
	u.touch()
	return nil
}

func (u *User) SetLastName(v string) error {
	s, err := boundedText(entityUser, "last_name", v, maxNameChars)
	if err != nil {
		return err
	}
	u.lastName = s
	u.touch()
	return nil
}

func (u *User) SetEmail(v string) error {
	s := strings.TrimSpace(v)
	if !emailPattern.MatchString(s) {
		return invalid(entityUser, "email", "must be a valid email address")
	}
	u.email = s
	u.touch()
	return nil
}

// SetPassword hashes password with hasher and keeps only the hash.
func (u *User) SetPassword(password string, hasher PasswordHasher) error {
	if password == "" {
		return invalid(entityUser, "password", "must not be empty")
	}
	if hasher == nil {
		return invalid(entityUser, "password", "requires a hasher")
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return invalid(entityUser, "password", "could not be hashed: "+err.Error())
	}
	u.passwordHash = hash
	u.touch()
	return nil
}

func (u *User) SetAdmin(v bool) {
	u.isAdmin = v
	u.touch()
}

// VerifyPassword reports whether password matches the stored hash.
func (u *User) VerifyPassword(password string, hasher PasswordHasher) bool {
	if hasher == nil || u.passwordHash == "" {
		return false
	}
	return hasher.Verify(password, u.passwordHash)
}

func (u *User) Clone() *User {
	c := *u
	return &c
}

func (u *User) Field(name string) (any, bool) {
	switch name {
	case "id":
		return u.id, true
	case "first_name":
		return u.firstName, true
	case "last_name":
		return u.lastName, true
	case "email":
		return u.email, true
	case "is_admin":
		return u.isAdmin, true
	}
	return nil, false
}

// UserPatch is a partial update of a User. Password, when set, is hashed
// with Hasher.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	IsAdmin   *bool
	Hasher    PasswordHasher
}

func (p UserPatch) Apply(u *User) error {
	c := u.Clone()
	if p.FirstName != nil {
		if err := c.SetFirstName(*p.FirstName); err != nil {
			return err
		}
	}
	if p.LastName != nil {
		if err := c.SetLastName(*p.LastName); err != nil {
			return err
		}
	}
	if p.Email != nil {
		if err := c.SetEmail(*p.Email); err != nil {
			return err
		}
	}
	if p.Password != nil {
		if err := c.SetPassword(*p.Password, p.Hasher); err != nil {
			return err
		}
	}
	if p.IsAdmin != nil {
		c.SetAdmin(*p.IsAdmin)
	}
	*u = *c
	return nil
}

// UserRecord is the persisted form of a User.
type UserRecord struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) Record() UserRecord {
	return UserRecord{
		ID:           u.id,
		FirstName:    u.firstName,
		LastName:     u.lastName,
		Email:        u.email,
		PasswordHash: u.passwordHash,
		IsAdmin:      u.isAdmin,
		CreatedAt:    u.createdAt,
		UpdatedAt:    u.updatedAt,
	}
}

// RestoreUser rebuilds a stored User, re-checking every field.
func RestoreUser(r UserRecord) (*User, error) {
	base, err := restoreBase(entityUser, r.ID, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u := &User{Base: base, isAdmin: r.IsAdmin}
	if u.firstName, err = boundedText(entityUser, "first_name", r.FirstName, maxNameChars); err != nil {
		return nil, err
	}
	if u.lastName, err = boundedText(entityUser, "last_name", r.LastName, maxNameChars); err != nil {
		return nil, err
	}
	if !emailPattern.MatchString(r.Email) {
		return nil, invalid(entityUser, "email", "must be a valid email address")
	}
	if r.PasswordHash == "" {
		return nil, invalid(entityUser, "password", "must not be empty")
	}
	u.email = r.Email
	u.passwordHash = r.PasswordHash
	return u, nil
}
