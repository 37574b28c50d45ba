package handler

import (
	"net/http"
	"strconv"

	"github.com/prn-tf/recipebook/internal/apperr"
	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/result"
)

// handleListRecipes lists approved recipes, or the visible recipes of one
// author (?user=) or category (?category=).
func (rt *Router) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var res result.Result[[]*domain.Recipe]
	switch {
	case query.Get("user") != "":
		id, err := strconv.ParseInt(query.Get("user"), 10, 64)
		if err != nil || id <= 0 {
			rt.writeFailure(w, r, apperr.ValidationField("user", "Identificador inválido."))
			return
		}
		res = rt.svc.Recipes.ListByUser(r.Context(), id)
	case query.Get("category") != "":
		id, err := strconv.ParseInt(query.Get("category"), 10, 64)
		if err != nil || id <= 0 {
			rt.writeFailure(w, r, apperr.ValidationField("category", "Identificador inválido."))
			return
		}
		res = rt.svc.Recipes.ListByCategory(r.Context(), id)
	default:
		res = rt.svc.Recipes.ListApproved(r.Context())
	}

	respond(rt, w, r, http.StatusOK, res, renderList(renderRecipe))
}

func (rt *Router) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if appErr := rt.decode(w, r, &req); appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusCreated, rt.svc.Recipes.Create(r.Context(), req.details()), renderRecipe)
}

func (rt *Router) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Recipes.Get(r.Context(), id), renderRecipe)
}

func (rt *Router) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}
	var req recipeRequest
	if appErr := rt.decode(w, r, &req); appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Recipes.Update(r.Context(), id, req.details()), renderRecipe)
}

func (rt *Router) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Recipes.Delete(r.Context(), id), nil)
}

func (rt *Router) handleApproveRecipe(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Recipes.Approve(r.Context(), id), renderRecipe)
}

// =============================================================================
// Recipe ingredients
// =============================================================================

func (rt *Router) handleListRecipeIngredients(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Recipes.ListIngredients(r.Context(), id), renderList(renderUsage))
}

func (rt *Router) handleAddRecipeIngredient(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}
	var req ingredientLineRequest
	if appErr := rt.decode(w, r, &req); appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusCreated, rt.svc.Recipes.AddIngredient(r.Context(), id, req.line()), renderUsage)
}

func (rt *Router) handleRemoveRecipeIngredient(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}
	ingredientID, appErr := idParam(r, "ingredientID")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Recipes.RemoveIngredient(r.Context(), id, ingredientID), nil)
}
