package domain

// Favorite marks a recipe as a favorite of a user.
type Favorite struct {
	base
	userID   int64
	recipeID int64
}

// FavoriteState is the persisted form of a Favorite.
type FavoriteState struct {
	Record
	UserID   int64 `json:"user_id"`
	RecipeID int64 `json:"recipe_id"`
}

// NewFavorite validates and creates an unpersisted Favorite.
func NewFavorite(userID, recipeID int64) (*Favorite, error) {
	if err := checkID("userId", userID); err != nil {
		return nil, err
	}
	if err := checkID("recipeId", recipeID); err != nil {
		return nil, err
	}
	return &Favorite{base: newBase(), userID: userID, recipeID: recipeID}, nil
}

// LoadFavorite rehydrates a Favorite without validation.
func LoadFavorite(s FavoriteState) *Favorite {
	return &Favorite{base: loadBase(s.Record), userID: s.UserID, recipeID: s.RecipeID}
}

func (f *Favorite) UserID() int64   { return f.userID }
func (f *Favorite) RecipeID() int64 { return f.recipeID }

// IsValid reports whether both ids are set.
func (f *Favorite) IsValid() bool {
	return f.userID > 0 && f.recipeID > 0
}

// Deactivate removes the favorite. Returns false when already removed.
func (f *Favorite) Deactivate() bool {
	return f.deactivate()
}

// Reactivate restores a removed favorite. Returns false when already active.
func (f *Favorite) Reactivate() bool {
	if f.active {
		return false
	}
	f.active = true
	f.touch()
	return true
}

// State returns the persisted form.
func (f *Favorite) State() FavoriteState {
	return FavoriteState{Record: f.record(), UserID: f.userID, RecipeID: f.recipeID}
}
