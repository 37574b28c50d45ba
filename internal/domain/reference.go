package domain

// Reference entities are simple named lookups: CategoryType, IngredientType,
// Difficulty and UserRole. Renaming to the current name is a no-op.

const (
	categoryTypeNameMax   = 100
	ingredientTypeNameMax = 100
	difficultyNameMax     = 50
	userRoleNameMax       = 50
)

// Well-known role names.
const (
	RoleAdmin     = "Admin"
	RoleModerator = "Moderator"
	RoleUser      = "User"
)

// NamedState is the persisted form of every reference entity.
type NamedState struct {
	Record
	Name string `json:"name"`
}

type named struct {
	base
	name string
	max  int
}

func newNamed(name string, max int) (named, error) {
	name, err := checkText("name", name, 1, max)
	if err != nil {
		return named{}, err
	}
	return named{base: newBase(), name: name, max: max}, nil
}

func loadNamed(s NamedState, max int) named {
	return named{base: loadBase(s.Record), name: s.Name, max: max}
}

// Name returns the display name.
func (n *named) Name() string {
	return n.name
}

// Rename changes the name. Returns false when the name is unchanged.
func (n *named) Rename(name string) (bool, error) {
	name, err := checkText("name", name, 1, n.max)
	if err != nil {
		return false, err
	}
	if name == n.name {
		return false, nil
	}
	n.name = name
	n.touch()
	return true, nil
}

// Deactivate soft-deletes the entity. Returns false when already inactive.
func (n *named) Deactivate() bool {
	return n.deactivate()
}

// State returns the persisted form.
func (n *named) State() NamedState {
	return NamedState{Record: n.record(), Name: n.name}
}

// CategoryType classifies categories (e.g., "Cozinha", "Ocasião").
type CategoryType struct{ named }

// NewCategoryType validates and creates an unpersisted CategoryType.
func NewCategoryType(name string) (*CategoryType, error) {
	n, err := newNamed(name, categoryTypeNameMax)
	if err != nil {
		return nil, err
	}
	return &CategoryType{n}, nil
}

// LoadCategoryType rehydrates a CategoryType without validation.
func LoadCategoryType(s NamedState) *CategoryType {
	return &CategoryType{loadNamed(s, categoryTypeNameMax)}
}

// IngredientType classifies ingredients (e.g., "Laticínios").
type IngredientType struct{ named }

// NewIngredientType validates and creates an unpersisted IngredientType.
func NewIngredientType(name string) (*IngredientType, error) {
	n, err := newNamed(name, ingredientTypeNameMax)
	if err != nil {
		return nil, err
	}
	return &IngredientType{n}, nil
}

// LoadIngredientType rehydrates an IngredientType without validation.
func LoadIngredientType(s NamedState) *IngredientType {
	return &IngredientType{loadNamed(s, ingredientTypeNameMax)}
}

// Difficulty grades recipes (e.g., "Fácil").
type Difficulty struct{ named }

// NewDifficulty validates and creates an unpersisted Difficulty.
func NewDifficulty(name string) (*Difficulty, error) {
	n, err := newNamed(name, difficultyNameMax)
	if err != nil {
		return nil, err
	}
	return &Difficulty{n}, nil
}

// LoadDifficulty rehydrates a Difficulty without validation.
func LoadDifficulty(s NamedState) *Difficulty {
	return &Difficulty{loadNamed(s, difficultyNameMax)}
}

// UserRole grants capabilities to users.
type UserRole struct{ named }

// NewUserRole validates and creates an unpersisted UserRole.
func NewUserRole(name string) (*UserRole, error) {
	n, err := newNamed(name, userRoleNameMax)
	if err != nil {
		return nil, err
	}
	return &UserRole{n}, nil
}

// LoadUserRole rehydrates a UserRole without validation.
func LoadUserRole(s NamedState) *UserRole {
	return &UserRole{loadNamed(s, userRoleNameMax)}
}

// CanModerate reports whether holders of the role may approve recipes.
func (r *UserRole) CanModerate() bool {
	return r.name == RoleAdmin || r.name == RoleModerator
}

// IsAdmin reports whether the role is the administrator role.
func (r *UserRole) IsAdmin() bool {
	return r.name == RoleAdmin
}
