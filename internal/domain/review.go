package domain

import (
	"fmt"
	"math"
	"slices"
	"time"
)

const (
	entityReview   = "review"
	maxReviewChars = 500

	// MinRating and MaxRating bound a review rating, inclusive.
	MinRating = 1.0
	MaxRating = 5.0
)

// ReviewAttributes lists the attribute names accepted by GetByAttribute.
var ReviewAttributes = []string{"id", "text", "rating", "place_id", "user_id"}

// Review is a rating and text left by a User on a Place.
type Review struct {
	Base
	text    string
	rating  float64
	placeID string
	userID  string
	replies []string
}

// ReviewParams holds the construction arguments of a Review. Place and User
// must be entities the caller has already resolved.
type ReviewParams struct {
	Text   string
	Rating float64
	Place  *Place
	User   *User
}

func NewReview(p ReviewParams) (*Review, error) {
	if p.Place == nil || p.Place.ID() == "" {
		return nil, invalid(entityReview, "place_id", "is required")
	}
	if p.User == nil || p.User.ID() == "" {
		return nil, invalid(entityReview, "user_id", "is required")
	}
	r := &Review{Base: newBase(), placeID: p.Place.ID(), userID: p.User.ID()}
	if err := r.SetText(p.Text); err != nil {
		return nil, err
	}
	if err := r.SetRating(p.Rating); err != nil {
		return nil, err
	}
	r.updatedAt = r.createdAt
	return r, nil
}

func (r *Review) Text() string    { return r.text }
func (r *Review) Rating() float64 { return r.rating }
func (r *Review) PlaceID() string { return r.placeID }
func (r *Review) UserID() string  { return r.userID }

// Replies returns a copy of the replies in the order they were added.
func (r *Review) Replies() []string { return slices.Clone(r.replies) }

func (r *Review) SetText(v string) error {
	s, err := boundedText(entityReview, "text", v, maxReviewChars)
	if err != nil {
		return err
	}
	r.text = s
	r.touch()
	return nil
}

func (r *Review) SetRating(v float64) error {
	if math.IsNaN(v) || v < MinRating || v > MaxRating {
		return invalid(entityReview, "rating", fmt.Sprintf("must be between %g and %g", MinRating, MaxRating))
	}
	r.rating = v
	r.touch()
	return nil
}

func (r *Review) AddReply(v string) error {
	s, err := boundedText(entityReview, "replies", v, maxReviewChars)
	if err != nil {
		return err
	}
	r.replies = append(slices.Clone(r.replies), s)
	r.touch()
	return nil
}

func (r *Review) Clone() *Review {
	c := *r
	c.replies = slices.Clone(r.replies)
	return &c
}

func (r *Review) Field(name string) (any, bool) {
	switch name {
	case "id":
		return r.id, true
	case "text":
		return r.text, true
	case "rating":
		return r.rating, true
	case "place_id":
		return r.placeID, true
	case "user_id":
		return r.userID, true
	}
	return nil, false
}

// ReviewPatch is a partial update of a Review. Only text and rating are
// mutable; Reply appends one reply.
type ReviewPatch struct {
	Text   *string
	Rating *float64
	Reply  *string
}

func (p ReviewPatch) Apply(r *Review) error {
	c := r.Clone()
	if p.Text != nil {
		if err := c.SetText(*p.Text); err != nil {
			return err
		}
	}
	if p.Rating != nil {
		if err := c.SetRating(*p.Rating); err != nil {
			return err
		}
	}
	if p.Reply != nil {
		if err := c.AddReply(*p.Reply); err != nil {
			return err
		}
	}
	*r = *c
	return nil
}

// ReviewRecord is the persisted form of a Review.
type ReviewRecord struct {
	ID        string
	Text      string
	Rating    float64
	PlaceID   string
	UserID    string
	Replies   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Review) Record() ReviewRecord {
	return ReviewRecord{
		ID:        r.id,
		Text:      r.text,
		Rating:    r.rating,
		PlaceID:   r.placeID,
		UserID:    r.userID,
		Replies:   slices.Clone(r.replies),
		CreatedAt: r.createdAt,
		UpdatedAt: r.updatedAt,
	}
}

// RestoreReview rebuilds a stored Review, re-checking every field.
func RestoreReview(rec ReviewRecord) (*Review, error) {
	base, err := restoreBase(entityReview, rec.ID, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if rec.PlaceID == "" {
		return nil, invalid(entityReview, "place_id", "is required")
	}
	if rec.UserID == "" {
		return nil, invalid(entityReview, "user_id", "is required")
	}
	r := &Review{placeID: rec.PlaceID, userID: rec.UserID}
	if err := (ReviewPatch{Text: &rec.Text, Rating: &rec.Rating}).Apply(r); err != nil {
		return nil, err
	}
	for _, reply := range rec.Replies {
		if err := r.AddReply(reply); err != nil {
			return nil, err
		}
	}
	r.Base = base
	return r, nil
}
