package domain

// Rating is a user's star rating of a recipe. At most one rating per
// (user, recipe) is enforced by the rating service, not here.
type Rating struct {
	base
	userID   int64
	recipeID int64
	value    StarRating
}

// RatingState is the persisted form of a Rating.
type RatingState struct {
	Record
	UserID   int64 `json:"user_id"`
	RecipeID int64 `json:"recipe_id"`
	Value    int   `json:"value"`
}

// NewRating validates and creates an unpersisted Rating.
func NewRating(userID, recipeID int64, stars int) (*Rating, error) {
	if err := checkID("userId", userID); err != nil {
		return nil, err
	}
	if err := checkID("recipeId", recipeID); err != nil {
		return nil, err
	}
	value, err := NewStarRating(stars)
	if err != nil {
		return nil, err
	}
	return &Rating{base: newBase(), userID: userID, recipeID: recipeID, value: value}, nil
}

// LoadRating rehydrates a Rating without validation.
func LoadRating(s RatingState) *Rating {
	return &Rating{
		base:     loadBase(s.Record),
		userID:   s.UserID,
		recipeID: s.RecipeID,
		value:    StarRating(s.Value),
	}
}

func (r *Rating) UserID() int64     { return r.userID }
func (r *Rating) RecipeID() int64   { return r.recipeID }
func (r *Rating) Value() StarRating { return r.value }

// Change sets a new value. Returns false when unchanged.
func (r *Rating) Change(stars int) (bool, error) {
	value, err := NewStarRating(stars)
	if err != nil {
		return false, err
	}
	if value == r.value {
		return false, nil
	}
	r.value = value
	r.touch()
	return true, nil
}

// Deactivate soft-deletes the rating.
func (r *Rating) Deactivate() bool {
	return r.deactivate()
}

// State returns the persisted form.
func (r *Rating) State() RatingState {
	return RatingState{
		Record:   r.record(),
		UserID:   r.userID,
		RecipeID: r.recipeID,
		Value:    r.value.Int(),
	}
}
