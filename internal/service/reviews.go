package service

import (
	"context"

	"github.com/msomdec/hbnb/internal/domain"
)

// CreateReview resolves the author and the place before the review is
// built, then stores it.
func (f *Facade) CreateReview(ctx context.Context, in CreateReviewInput) (*domain.Review, error) {
	if err := validateInput("review", in); err != nil {
		return nil, err
	}

	var created *domain.Review
	err := f.store.WithinTx(ctx, func(ctx context.Context, r domain.Repositories) error {
		user, err := r.Users.Get(ctx, in.UserID)
		if err != nil {
			return err
		}
		place, err := r.Places.Get(ctx, in.PlaceID)
		if err != nil {
			return err
		}
		rv, err := domain.NewReview(domain.ReviewParams{
			Text:   in.Text,
			Rating: *in.Rating,
			Place:  place,
			User:   user,
		})
		if err != nil {
			return err
		}
		if err := r.Reviews.Add(ctx, rv); err != nil {
			return err
		}
		created = rv
		return nil
	})
	if err != nil {
		return nil, err
	}
	f.logger.Debug("review created", "review_id", created.ID(), "place_id", created.PlaceID())
	return created, nil
}

func (f *Facade) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	return f.repos().Reviews.Get(ctx, id)
}

func (f *Facade) GetAllReviews(ctx context.Context) ([]*domain.Review, error) {
	return f.repos().Reviews.GetAll(ctx)
}

// GetReviewsByPlace returns the reviews of placeID in creation order. An
// unknown place has no reviews.
func (f *Facade) GetReviewsByPlace(ctx context.Context, placeID string) ([]*domain.Review, error) {
	all, err := f.repos().Reviews.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Review, 0, len(all))
	for _, rv := range all {
		if rv.PlaceID() == placeID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (f *Facade) UpdateReview(ctx context.Context, id string, in UpdateReviewInput) (*domain.Review, error) {
	if err := validateInput("review", in); err != nil {
		return nil, err
	}
	return f.repos().Reviews.Update(ctx, id, domain.ReviewPatch{Text: in.Text, Rating: in.Rating})
}

// AddReviewReply appends a reply to the review.
func (f *Facade) AddReviewReply(ctx context.Context, id, text string) (*domain.Review, error) {
	return f.repos().Reviews.Update(ctx, id, domain.ReviewPatch{Reply: &text})
}

func (f *Facade) DeleteReview(ctx context.Context, id string) error {
	ok, err := f.repos().Reviews.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.NotFoundError{Collection: domain.CollectionReviews, ID: id}
	}
	return nil
}
