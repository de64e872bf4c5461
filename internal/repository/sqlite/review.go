package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/msomdec/hbnb/internal/domain"
)

var reviewColumns = []string{
	"id", "text", "rating", "place_id", "user_id", "replies", "created_at", "updated_at",
}

func newReviewTable(q querier) *table[*domain.Review, *domain.ReviewRecord] {
	return &table[*domain.Review, *domain.ReviewRecord]{
		q:          q,
		name:       domain.CollectionReviews,
		columns:    reviewColumns,
		attributes: domain.ReviewAttributes,
		values: func(rv *domain.Review) []any {
			r := rv.Record()
			return []any{r.ID, r.Text, r.Rating, r.PlaceID, r.UserID, encodeReplies(r.Replies), r.CreatedAt, r.UpdatedAt}
		},
		scan: func(s scanner) (*domain.ReviewRecord, error) {
			var (
				r       domain.ReviewRecord
				replies string
			)
			if err := s.Scan(&r.ID, &r.Text, &r.Rating, &r.PlaceID, &r.UserID, &replies, &r.CreatedAt, &r.UpdatedAt); err != nil {
				return nil, err
			}
			if err := json.Unmarshal([]byte(replies), &r.Replies); err != nil {
				return nil, fmt.Errorf("decode replies of review %s: %w", r.ID, err)
			}
			return &r, nil
		},
		restore: func(r *domain.ReviewRecord) (*domain.Review, error) {
			return domain.RestoreReview(*r)
		},
	}
}

// encodeReplies stores replies as a JSON array; an empty list is "[]".
func encodeReplies(replies []string) string {
	if len(replies) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(replies)
	return string(b)
}
