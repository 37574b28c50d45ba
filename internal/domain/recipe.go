package domain

// Recipe field limits.
const (
	RecipeTitleMin        = 5
	RecipeTitleMax        = 200
	RecipeInstructionsMin = 20
	recipeServingsMax     = 50
)

// Recipe is authored by a user, filed under a category and graded by a
// difficulty. IsActive (soft delete) and IsApproved (moderation) are
// independent one-way flags.
type Recipe struct {
	base
	title           string
	instructions    string
	servings        string
	prepTimeMinutes int
	cookTimeMinutes int
	userID          int64
	categoryID      int64
	difficultyID    int64
	approved        bool
}

// RecipeState is the persisted form of a Recipe.
type RecipeState struct {
	Record
	Title           string `json:"title"`
	Instructions    string `json:"instructions"`
	Servings        string `json:"servings"`
	PrepTimeMinutes int    `json:"prep_time_minutes"`
	CookTimeMinutes int    `json:"cook_time_minutes"`
	UserID          int64  `json:"user_id"`
	CategoryID      int64  `json:"category_id"`
	DifficultyID    int64  `json:"difficulty_id"`
	IsApproved      bool   `json:"is_approved"`
}

// RecipeDetails holds the user-editable part of a recipe.
type RecipeDetails struct {
	Title           string
	Instructions    string
	Servings        string
	PrepTimeMinutes int
	CookTimeMinutes int
	CategoryID      int64
	DifficultyID    int64
}

func (d RecipeDetails) validate() (RecipeDetails, error) {
	var err error
	if d.Title, err = checkText("title", d.Title, RecipeTitleMin, RecipeTitleMax); err != nil {
		return d, err
	}
	if d.Instructions, err = checkText("instructions", d.Instructions, RecipeInstructionsMin, 0); err != nil {
		return d, err
	}
	if d.Servings, err = checkText("servings", d.Servings, 1, recipeServingsMax); err != nil {
		return d, err
	}
	if d.PrepTimeMinutes < 0 {
		return d, invalid("prepTimeMinutes", "O tempo de preparo não pode ser negativo.")
	}
	if d.CookTimeMinutes < 0 {
		return d, invalid("cookTimeMinutes", "O tempo de cozimento não pode ser negativo.")
	}
	if d.PrepTimeMinutes+d.CookTimeMinutes <= 0 {
		return d, invalid("cookTimeMinutes", "O tempo total de preparo e cozimento deve ser maior que zero.")
	}
	if err := checkID("categoryId", d.CategoryID); err != nil {
		return d, err
	}
	if err := checkID("difficultyId", d.DifficultyID); err != nil {
		return d, err
	}
	return d, nil
}

// NewRecipe validates and creates an unpersisted, unapproved Recipe.
func NewRecipe(userID int64, d RecipeDetails) (*Recipe, error) {
	if err := checkID("userId", userID); err != nil {
		return nil, err
	}
	d, err := d.validate()
	if err != nil {
		return nil, err
	}

	r := &Recipe{base: newBase(), userID: userID}
	r.apply(d)
	return r, nil
}

// LoadRecipe rehydrates a Recipe without validation.
func LoadRecipe(s RecipeState) *Recipe {
	return &Recipe{
		base:            loadBase(s.Record),
		title:           s.Title,
		instructions:    s.Instructions,
		servings:        s.Servings,
		prepTimeMinutes: s.PrepTimeMinutes,
		cookTimeMinutes: s.CookTimeMinutes,
		userID:          s.UserID,
		categoryID:      s.CategoryID,
		difficultyID:    s.DifficultyID,
		approved:        s.IsApproved,
	}
}

func (r *Recipe) Title() string        { return r.title }
func (r *Recipe) Instructions() string { return r.instructions }
func (r *Recipe) Servings() string     { return r.servings }
func (r *Recipe) PrepTimeMinutes() int { return r.prepTimeMinutes }
func (r *Recipe) CookTimeMinutes() int { return r.cookTimeMinutes }
func (r *Recipe) UserID() int64        { return r.userID }
func (r *Recipe) CategoryID() int64    { return r.categoryID }
func (r *Recipe) DifficultyID() int64  { return r.difficultyID }
func (r *Recipe) IsApproved() bool     { return r.approved }

// TotalTimeMinutes returns preparation plus cooking time.
func (r *Recipe) TotalTimeMinutes() int {
	return r.prepTimeMinutes + r.cookTimeMinutes
}

// IsOwnedBy reports whether userID authored the recipe.
func (r *Recipe) IsOwnedBy(userID int64) bool {
	return userID != 0 && r.userID == userID
}

// Details returns the editable part of the recipe.
func (r *Recipe) Details() RecipeDetails {
	return RecipeDetails{
		Title:           r.title,
		Instructions:    r.instructions,
		Servings:        r.servings,
		PrepTimeMinutes: r.prepTimeMinutes,
		CookTimeMinutes: r.cookTimeMinutes,
		CategoryID:      r.categoryID,
		DifficultyID:    r.difficultyID,
	}
}

// UpdateDetails validates and applies new details. Returns false when nothing changed.
func (r *Recipe) UpdateDetails(d RecipeDetails) (bool, error) {
	d, err := d.validate()
	if err != nil {
		return false, err
	}
	if d == r.Details() {
		return false, nil
	}
	r.apply(d)
	r.touch()
	return true, nil
}

// Approve marks the recipe as moderated. Approval cannot be revoked.
func (r *Recipe) Approve() bool {
	if r.approved {
		return false
	}
	r.approved = true
	r.touch()
	return true
}

// Deactivate soft-deletes the recipe. Returns false when already inactive.
func (r *Recipe) Deactivate() bool {
	return r.deactivate()
}

func (r *Recipe) apply(d RecipeDetails) {
	r.title = d.Title
	r.instructions = d.Instructions
	r.servings = d.Servings
	r.prepTimeMinutes = d.PrepTimeMinutes
	r.cookTimeMinutes = d.CookTimeMinutes
	r.categoryID = d.CategoryID
	r.difficultyID = d.DifficultyID
}

// State returns the persisted form.
func (r *Recipe) State() RecipeState {
	return RecipeState{
		Record:          r.record(),
		Title:           r.title,
		Instructions:    r.instructions,
		Servings:        r.servings,
		PrepTimeMinutes: r.prepTimeMinutes,
		CookTimeMinutes: r.cookTimeMinutes,
		UserID:          r.userID,
		CategoryID:      r.categoryID,
		DifficultyID:    r.difficultyID,
		IsApproved:      r.approved,
	}
}
