package handler

import (
	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/service"
)

// =============================================================================
// Requests
// =============================================================================

// Request field names match the field keys of validation failures.

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
	Password   string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Username    string `json:"username" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required"`
	AccountID   int64  `json:"accountId" validate:"required_without=AccountName,omitempty,gt=0"`
	AccountName string `json:"accountName" validate:"required_without=AccountID,omitempty,max=255"`
}

func (r registerRequest) input() service.RegisterInput {
	return service.RegisterInput{
		Name:        r.Name,
		Username:    r.Username,
		Email:       r.Email,
		Password:    r.Password,
		AccountID:   r.AccountID,
		AccountName: r.AccountName,
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

func (r changePasswordRequest) input() service.ChangePasswordInput {
	return service.ChangePasswordInput{CurrentPassword: r.CurrentPassword, NewPassword: r.NewPassword}
}

type recipeRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	Instructions    string `json:"instructions" validate:"required"`
	Servings        string `json:"servings" validate:"required,max=50"`
	PrepTimeMinutes int    `json:"prepTimeMinutes" validate:"gte=0"`
	CookTimeMinutes int    `json:"cookTimeMinutes" validate:"gte=0"`
	CategoryID      int64  `json:"categoryId" validate:"required,gt=0"`
	DifficultyID    int64  `json:"difficultyId" validate:"required,gt=0"`
}

func (r recipeRequest) details() domain.RecipeDetails {
	return domain.RecipeDetails{
		Title:           r.Title,
		Instructions:    r.Instructions,
		Servings:        r.Servings,
		PrepTimeMinutes: r.PrepTimeMinutes,
		CookTimeMinutes: r.CookTimeMinutes,
		CategoryID:      r.CategoryID,
		DifficultyID:    r.DifficultyID,
	}
}

type categoryRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	TypeID   int64  `json:"typeId" validate:"required,gt=0"`
	ParentID int64  `json:"parentId" validate:"gte=0"`
}

func (r categoryRequest) input() service.CategoryInput {
	return service.CategoryInput{Name: r.Name, TypeID: r.TypeID, ParentID: r.ParentID}
}

type ingredientRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	TypeID int64  `json:"typeId" validate:"required,gt=0"`
}

func (r ingredientRequest) input() service.IngredientInput {
	return service.IngredientInput{Name: r.Name, TypeID: r.TypeID}
}

type ingredientLineRequest struct {
	IngredientID int64   `json:"ingredientId" validate:"required,gt=0"`
	Quantity     float64 `json:"quantity" validate:"gt=0"`
	Unit         string  `json:"unit" validate:"required,max=20"`
}

func (r ingredientLineRequest) line() service.IngredientLine {
	return service.IngredientLine{IngredientID: r.IngredientID, Quantity: r.Quantity, Unit: r.Unit}
}

type commentRequest struct {
	Text   string `json:"text" validate:"required,max=500"`
	Rating int    `json:"rating" validate:"gte=1,lte=5"`
}

func (r commentRequest) input() service.CommentInput {
	return service.CommentInput{Text: r.Text, Rating: r.Rating}
}

type ratingRequest struct {
	Value int `json:"value" validate:"gte=1,lte=5"`
}

type settingsRequest struct {
	Theme                string `json:"theme" validate:"required,oneof=light dark system"`
	Language             string `json:"language" validate:"required,min=2,max=10"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
}

func (r settingsRequest) input() service.SettingsInput {
	return service.SettingsInput{Theme: r.Theme, Language: r.Language, NotificationsEnabled: r.NotificationsEnabled}
}

// =============================================================================
// Responses
// =============================================================================

func renderUser(u *domain.User) any                     { return u.State() }
func renderRecipe(r *domain.Recipe) any                 { return r.State() }
func renderUsage(u *domain.IngredientUsage) any         { return u.State() }
func renderComment(c *domain.Comment) any               { return c.State() }
func renderRating(r *domain.Rating) any                 { return r.State() }
func renderFavorite(f *domain.Favorite) any             { return f.State() }
func renderSettings(s *domain.UserSettings) any         { return s.State() }
func renderIngredient(i *domain.Ingredient) any         { return i.State() }
func renderDifficulty(d *domain.Difficulty) any         { return d.State() }
func renderCategory(c *domain.Category) any             { return categoryView(c) }
func renderIngredientType(t *domain.IngredientType) any { return t.State() }
func renderCategoryType(t *domain.CategoryType) any     { return t.State() }

type categoryResponse struct {
	domain.CategoryState
	Subcategories []domain.CategoryState `json:"subcategories,omitempty"`
}

func categoryView(c *domain.Category) categoryResponse {
	out := categoryResponse{CategoryState: c.State()}
	for _, sub := range c.Subcategories() {
		out.Subcategories = append(out.Subcategories, sub.State())
	}
	return out
}
