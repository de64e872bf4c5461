package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/msomdec/hbnb/internal/domain"
)

// CreateUserInput is the payload of CreateUser. Admin rights cannot be
// requested here.
type CreateUserInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// UpdateUserInput is the payload of UpdateUser. Nil fields are left alone.
type UpdateUserInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	IsAdmin   *bool   `json:"is_admin"`
}

// CreatePlaceInput is the payload of CreatePlace. Numeric fields are
// pointers so that an absent value is distinguishable from zero.
type CreatePlaceInput struct {
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Latitude    *float64 `json:"latitude" validate:"required"`
	Longitude   *float64 `json:"longitude" validate:"required"`
	OwnerID     string   `json:"owner_id" validate:"required"`
	Amenities   []string `json:"amenities" validate:"dive,required"`
}

// UpdatePlaceInput is the payload of UpdatePlace. Amenities, when present,
// replaces the whole set. The owner cannot change.
type UpdatePlaceInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Amenities   *[]string `json:"amenities" validate:"omitempty,dive,required"`
}

type CreateAmenityInput struct {
	Name string `json:"name" validate:"required"`
}

type UpdateAmenityInput struct {
	Name *string `json:"name"`
}

type CreateReviewInput struct {
	Text    string   `json:"text" validate:"required"`
	Rating  *float64 `json:"rating" validate:"required"`
	PlaceID string   `json:"place_id" validate:"required"`
	UserID  string   `json:"user_id" validate:"required"`
}

// UpdateReviewInput is the payload of UpdateReview. Only text and rating
// are mutable.
type UpdateReviewInput struct {
	Text   *string  `json:"text"`
	Rating *float64 `json:"rating"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their json names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput checks the struct tags of in and returns the first failure
// as a *domain.ValidationError.
func validateInput(entity string, in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &domain.ValidationError{Entity: entity, Field: fe.Field(), Reason: reason(fe)}
	}
	return fmt.Errorf("validate %s input: %w", entity, err)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
