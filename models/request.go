package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Defaults applied when the caller omits maxReviews.
const (
	DefaultAcquireReviews = 20
	DefaultAnalyzeReviews = 5
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// AcquireRequest asks for the reviews of one listing.
type AcquireRequest struct {
	Locator    string `json:"airbnbUrl" validate:"required,contains=airbnb.com"`
	MaxReviews *int   `json:"maxReviews,omitempty" validate:"omitempty,gte=1,lte=100"`
}

// Validate checks the request shape.
func (r *AcquireRequest) Validate() error {
	return validate.Struct(r)
}

// Limit returns the requested review cap or the default.
func (r *AcquireRequest) Limit() int {
	if r.MaxReviews == nil {
		return DefaultAcquireReviews
	}
	return *r.MaxReviews
}

// AnalyzeRequest asks for the best reviews out of a caller-supplied set.
type AnalyzeRequest struct {
	Reviews      []string `json:"reviews" validate:"required"`
	MaxReviews   *int     `json:"maxReviews,omitempty" validate:"omitempty,gte=0"`
	PropertyName string   `json:"propertyName,omitempty"`
}

// Validate checks the request shape.
func (r *AnalyzeRequest) Validate() error {
	return validate.Struct(r)
}

// Limit returns the requested top-review count or the default.
func (r *AnalyzeRequest) Limit() int {
	if r.MaxReviews == nil {
		return DefaultAnalyzeReviews
	}
	return *r.MaxReviews
}
