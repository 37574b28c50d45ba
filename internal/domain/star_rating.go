package domain

import "fmt"

// Star rating bounds.
const (
	MinStars = 1
	MaxStars = 5
)

// StarRating is an integer constrained to 1..5.
type StarRating int

// NewStarRating validates v.
func NewStarRating(v int) (StarRating, error) {
	if v < MinStars || v > MaxStars {
		return 0, invalid("rating", fmt.Sprintf("A avaliação deve estar entre %d e %d.", MinStars, MaxStars))
	}
	return StarRating(v), nil
}

// Int returns the rating as a plain integer.
func (s StarRating) Int() int {
	return int(s)
}
