package domain

import (
	"regexp"
)

const (
	ingredientNameMax = 100
	usageUnitMax      = 20
)

// unitRegex restricts measurement units to letters, spaces and periods
// (e.g., "g", "xícara", "colher de sopa", "c. chá").
var unitRegex = regexp.MustCompile(`^[\p{L} .]+$`)

// Ingredient is a named ingredient of a given IngredientType.
type Ingredient struct {
	base
	name   string
	typeID int64
}

// IngredientState is the persisted form of an Ingredient.
type IngredientState struct {
	Record
	Name   string `json:"name"`
	TypeID int64  `json:"type_id"`
}

// NewIngredient validates and creates an unpersisted Ingredient.
func NewIngredient(name string, typeID int64) (*Ingredient, error) {
	name, err := checkText("name", name, 1, ingredientNameMax)
	if err != nil {
		return nil, err
	}
	if err := checkID("typeId", typeID); err != nil {
		return nil, err
	}
	return &Ingredient{base: newBase(), name: name, typeID: typeID}, nil
}

// LoadIngredient rehydrates an Ingredient without validation.
func LoadIngredient(s IngredientState) *Ingredient {
	return &Ingredient{base: loadBase(s.Record), name: s.Name, typeID: s.TypeID}
}

func (i *Ingredient) Name() string  { return i.name }
func (i *Ingredient) TypeID() int64 { return i.typeID }

// Rename changes the name. Returns false when unchanged.
func (i *Ingredient) Rename(name string) (bool, error) {
	name, err := checkText("name", name, 1, ingredientNameMax)
	if err != nil {
		return false, err
	}
	if name == i.name {
		return false, nil
	}
	i.name = name
	i.touch()
	return true, nil
}

// ChangeType moves the ingredient to another IngredientType.
func (i *Ingredient) ChangeType(typeID int64) (bool, error) {
	if err := checkID("typeId", typeID); err != nil {
		return false, err
	}
	if typeID == i.typeID {
		return false, nil
	}
	i.typeID = typeID
	i.touch()
	return true, nil
}

// Deactivate soft-deletes the ingredient.
func (i *Ingredient) Deactivate() bool {
	return i.deactivate()
}

// State returns the persisted form.
func (i *Ingredient) State() IngredientState {
	return IngredientState{Record: i.record(), Name: i.name, TypeID: i.typeID}
}

// IngredientUsage links an ingredient to a recipe with a quantity.
type IngredientUsage struct {
	base
	recipeID     int64
	ingredientID int64
	quantity     float64
	unit         string
}

// IngredientUsageState is the persisted form of an IngredientUsage.
type IngredientUsageState struct {
	Record
	RecipeID     int64   `json:"recipe_id"`
	IngredientID int64   `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
}

func checkQuantity(quantity float64, unit string) (string, error) {
	if !(quantity > 0) {
		return "", invalid("quantity", "A quantidade deve ser maior que zero.")
	}
	unit, err := checkText("unit", unit, 1, usageUnitMax)
	if err != nil {
		return "", err
	}
	if !unitRegex.MatchString(unit) {
		return "", invalid("unit", "A unidade deve conter apenas letras, espaços e pontos.")
	}
	return unit, nil
}

// NewIngredientUsage validates and creates an unpersisted IngredientUsage.
func NewIngredientUsage(recipeID, ingredientID int64, quantity float64, unit string) (*IngredientUsage, error) {
	if err := checkID("recipeId", recipeID); err != nil {
		return nil, err
	}
	if err := checkID("ingredientId", ingredientID); err != nil {
		return nil, err
	}
	unit, err := checkQuantity(quantity, unit)
	if err != nil {
		return nil, err
	}
	return &IngredientUsage{
		base:         newBase(),
		recipeID:     recipeID,
		ingredientID: ingredientID,
		quantity:     quantity,
		unit:         unit,
	}, nil
}

// LoadIngredientUsage rehydrates an IngredientUsage without validation.
func LoadIngredientUsage(s IngredientUsageState) *IngredientUsage {
	return &IngredientUsage{
		base:         loadBase(s.Record),
		recipeID:     s.RecipeID,
		ingredientID: s.IngredientID,
		quantity:     s.Quantity,
		unit:         s.Unit,
	}
}

func (u *IngredientUsage) RecipeID() int64     { return u.recipeID }
func (u *IngredientUsage) IngredientID() int64 { return u.ingredientID }
func (u *IngredientUsage) Quantity() float64   { return u.quantity }
func (u *IngredientUsage) Unit() string        { return u.unit }

// Update changes quantity and unit. Returns false when unchanged.
func (u *IngredientUsage) Update(quantity float64, unit string) (bool, error) {
	unit, err := checkQuantity(quantity, unit)
	if err != nil {
		return false, err
	}
	if quantity == u.quantity && unit == u.unit {
		return false, nil
	}
	u.quantity = quantity
	u.unit = unit
	u.touch()
	return true, nil
}

// Deactivate soft-deletes the usage.
func (u *IngredientUsage) Deactivate() bool {
	return u.deactivate()
}

// State returns the persisted form.
func (u *IngredientUsage) State() IngredientUsageState {
	return IngredientUsageState{
		Record:       u.record(),
		RecipeID:     u.recipeID,
		IngredientID: u.ingredientID,
		Quantity:     u.quantity,
		Unit:         u.unit,
	}
}
