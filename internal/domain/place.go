package domain

import (
	"math"
	"slices"
	"strings"
	"time"
)

const (
	entityPlace   = "place"
	maxTitleChars = 100
)

// PlaceAttributes lists the attribute names accepted by GetByAttribute.
var PlaceAttributes = []string{"id", "title", "description", "price", "latitude", "longitude", "owner_id"}

// Place is a rental listing. It always has an owner; its amenities form a
// set kept in insertion order.
type Place struct {
	Base
	title       string
	description string
	price       float64
	latitude    float64
	longitude   float64
	ownerID     string
	amenityIDs  []string
}

// PlaceParams holds the construction arguments of a Place.
type PlaceParams struct {
	Title       string
	Description string
	Price       float64
	Latitude    float64
	Longitude   float64
	Owner       *User
}

func NewPlace(p PlaceParams) (*Place, error) {
	if p.Owner == nil || p.Owner.ID() == "" {
		return nil, invalid(entityPlace, "owner", "is required")
	}
	pl := &Place{Base: newBase(), ownerID: p.Owner.ID()}
	if err := pl.SetTitle(p.Title); err != nil {
		return nil, err
	}
	pl.SetDescription(p.Description)
	if err := pl.SetPrice(p.Price); err != nil {
		return nil, err
	}
	if err := pl.SetLatitude(p.Latitude); err != nil {
		return nil, err
	}
	if err := pl.SetLongitude(p.Longitude); err != nil {
		return nil, err
	}
	pl.updatedAt = pl.createdAt
	return pl, nil
}

func (p *Place) Title() string       { return p.title }
func (p *Place) Description() string { return p.description }
func (p *Place) Price() float64      { return p.price }
func (p *Place) Latitude() float64   { return p.latitude }
func (p *Place) Longitude() float64  { return p.longitude }
func (p *Place) OwnerID() string     { return p.ownerID }

// AmenityIDs returns a copy of the amenity set.
func (p *Place) AmenityIDs() []string { return slices.Clone(p.amenityIDs) }

func (p *Place) HasAmenity(id string) bool { return slices.Contains(p.amenityIDs, id) }

func (p *Place) SetTitle(v string) error {
	s, err := boundedText(entityPlace, "title", v, maxTitleChars)
	if err != nil {
		return err
	}
	p.title = s
	p.touch()
	return nil
}

func (p *Place) SetDescription(v string) {
	p.description = v
	p.touch()
}

func (p *Place) SetPrice(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return invalid(entityPlace, "price", "must be greater than 0")
	}
	p.price = v
	p.touch()
	return nil
}

func (p *Place) SetLatitude(v float64) error {
	if math.IsNaN(v) || v < -90 || v > 90 {
		return invalid(entityPlace, "latitude", "must be between -90 and 90")
	}
	p.latitude = v
	p.touch()
	return nil
}

func (p *Place) SetLongitude(v float64) error {
	if math.IsNaN(v) || v < -180 || v > 180 {
		return invalid(entityPlace, "longitude", "must be between -180 and 180")
	}
	p.longitude = v
	p.touch()
	return nil
}

// AddAmenity links a to the place. Adding an amenity twice is a no-op.
func (p *Place) AddAmenity(a *Amenity) error {
	if a == nil || a.ID() == "" {
		return invalid(entityPlace, "amenities", "must reference an amenity")
	}
	if p.HasAmenity(a.ID()) {
		return nil
	}
	p.amenityIDs = append(p.amenityIDs, a.ID())
	p.touch()
	return nil
}

// SetAmenityIDs replaces the amenity set. Duplicates collapse to their
// first occurrence.
func (p *Place) SetAmenityIDs(ids []string) error {
	set, err := amenitySet(ids)
	if err != nil {
		return err
	}
	p.amenityIDs = set
	p.touch()
	return nil
}

// RemoveAmenity unlinks id and reports whether it was linked.
func (p *Place) RemoveAmenity(id string) bool {
	i := slices.Index(p.amenityIDs, id)
	if i < 0 {
		return false
	}
	p.amenityIDs = slices.Delete(slices.Clone(p.amenityIDs), i, i+1)
	p.touch()
	return true
}

func amenitySet(ids []string) ([]string, error) {
	set := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, invalid(entityPlace, "amenities", "must not contain empty ids")
		}
		if !slices.Contains(set, id) {
			set = append(set, id)
		}
	}
	return set, nil
}

func (p *Place) Clone() *Place {
	c := *p
	c.amenityIDs = slices.Clone(p.amenityIDs)
	return &c
}

func (p *Place) Field(name string) (any, bool) {
	switch name {
	case "id":
		return p.id, true
	case "title":
		return p.title, true
	case "description":
		return p.description, true
	case "price":
		return p.price, true
	case "latitude":
		return p.latitude, true
	case "longitude":
		return p.longitude, true
	case "owner_id":
		return p.ownerID, true
	}
	return nil, false
}

// PlacePatch is a partial update of a Place. AmenityIDs, when set, replaces
// the whole set.
type PlacePatch struct {
	Title       *string
	Description *string
	Price       *float64
	Latitude    *float64
	Longitude   *float64
	AmenityIDs  *[]string
}

func (pp PlacePatch) Apply(p *Place) error {
	c := p.Clone()
	if pp.Title != nil {
		if err := c.SetTitle(*pp.Title); err != nil {
			return err
		}
	}
	if pp.Description != nil {
		c.SetDescription(*pp.Description)
	}
	if pp.Price != nil {
		if err := c.SetPrice(*pp.Price); err != nil {
			return err
		}
	}
	if pp.Latitude != nil {
		if err := c.SetLatitude(*pp.Latitude); err != nil {
			return err
		}
	}
	if pp.Longitude != nil {
		if err := c.SetLongitude(*pp.Longitude); err != nil {
			return err
		}
	}
	if pp.AmenityIDs != nil {
		if err := c.SetAmenityIDs(*pp.AmenityIDs); err != nil {
			return err
		}
	}
	*p = *c
	return nil
}

// PlaceRecord is the persisted form of a Place.
type PlaceRecord struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Latitude    float64
	Longitude   float64
	OwnerID     string
	AmenityIDs  []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Place) Record() PlaceRecord {
	return PlaceRecord{
		ID:          p.id,
		Title:       p.title,
		Description: p.description,
		Price:       p.price,
		Latitude:    p.latitude,
		Longitude:   p.longitude,
		OwnerID:     p.ownerID,
		AmenityIDs:  slices.Clone(p.amenityIDs),
		CreatedAt:   p.createdAt,
		UpdatedAt:   p.updatedAt,
	}
}

// RestorePlace rebuilds a stored Place, re-checking every field.
func RestorePlace(r PlaceRecord) (*Place, error) {
	base, err := restoreBase(entityPlace, r.ID, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if r.OwnerID == "" {
		return nil, invalid(entityPlace, "owner", "is required")
	}
	c := &Place{ownerID: r.OwnerID, description: r.Description}
	if err := (PlacePatch{
		Title:      &r.Title,
		Price:      &r.Price,
		Latitude:   &r.Latitude,
		Longitude:  &r.Longitude,
		AmenityIDs: &r.AmenityIDs,
	}).Apply(c); err != nil {
		return nil, err
	}
	c.Base = base
	return c, nil
}
