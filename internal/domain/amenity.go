package domain

import "time"

const entityAmenity = "amenity"

// AmenityAttributes lists the attribute names accepted by GetByAttribute.
var AmenityAttributes = []string{"id", "name"}

// Amenity is a feature a Place may offer. Identity does not depend on the
// name.
type Amenity struct {
	Base
	name string
}

func NewAmenity(name string) (*Amenity, error) {
	a := &Amenity{Base: newBase()}
	if err := a.SetName(name); err != nil {
		return nil, err
	}
	a.updatedAt = a.createdAt
	return a, nil
}

func (a *Amenity) Name() string { return a.name }

func (a *Amenity) SetName(v string) error {
	s, err := boundedText(entityAmenity, "name", v, maxNameChars)
	if err != nil {
		return err
	}
	a.name = s
	a.touch()
	return nil
}

func (a *Amenity) Clone() *Amenity {
	c := *a
	return &c
}

func (a *Amenity) Field(name string) (any, bool) {
	switch name {
	case "id":
		return a.id, true
	case "name":
		return a.name, true
	}
	return nil, false
}

type AmenityPatch struct {
	Name *string
}

func (p AmenityPatch) Apply(a *Amenity) error {
	if p.Name == nil {
		return nil
	}
	return a.SetName(*p.Name)
}

// AmenityRecord is the persisted form of an Amenity.
type AmenityRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Amenity) Record() AmenityRecord {
	return AmenityRecord{ID: a.id, Name: a.name, CreatedAt: a.createdAt, UpdatedAt: a.updatedAt}
}

func RestoreAmenity(r AmenityRecord) (*Amenity, error) {
	base, err := restoreBase(entityAmenity, r.ID, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	name, err := boundedText(entityAmenity, "name", r.Name, maxNameChars)
	if err != nil {
		return nil, err
	}
	return &Amenity{Base: base, name: name}, nil
}
