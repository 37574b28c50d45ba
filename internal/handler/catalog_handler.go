package handler

import (
	"net/http"
	"strconv"

	"github.com/prn-tf/recipebook/internal/apperr"
)

func (rt *Router) handleListDifficulties(w http.ResponseWriter, r *http.Request) {
	respond(rt, w, r, http.StatusOK, rt.svc.Difficulties.List(r.Context()), renderList(renderDifficulty))
}

func (rt *Router) handleListCategoryTypes(w http.ResponseWriter, r *http.Request) {
	respond(rt, w, r, http.StatusOK, rt.svc.CategoryTypes.List(r.Context()), renderList(renderCategoryType))
}

func (rt *Router) handleListIngredientTypes(w http.ResponseWriter, r *http.Request) {
	respond(rt, w, r, http.StatusOK, rt.svc.Ingredients.ListTypes(r.Context()), renderList(renderIngredientType))
}

// =============================================================================
// Ingredients
// =============================================================================

func (rt *Router) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	respond(rt, w, r, http.StatusOK, rt.svc.Ingredients.List(r.Context()), renderList(renderIngredient))
}

func (rt *Router) handleCreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
	if appErr := rt.decode(w, r, &req); appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusCreated, rt.svc.Ingredients.Create(r.Context(), req.input()), renderIngredient)
}

func (rt *Router) handleUpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}
	var req ingredientRequest
	if appErr := rt.decode(w, r, &req); appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Ingredients.Update(r.Context(), id, req.input()), renderIngredient)
}

func (rt *Router) handleDeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Ingredients.Delete(r.Context(), id), nil)
}

// =============================================================================
// Categories
// =============================================================================

// handleListCategories lists the categories of ?account=, defaulting to the
// caller's own account.
func (rt *Router) handleListCategories(w http.ResponseWriter, r *http.Request) {
	var accountID int64
	if raw := r.URL.Query().Get("account"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			rt.writeFailure(w, r, apperr.ValidationField("account", "Identificador inválido."))
			return
		}
		accountID = id
	} else {
		current := rt.svc.Users.Current(r.Context())
		if current.IsFailure() {
			rt.writeFailure(w, r, current.Err())
			return
		}
		accountID = current.Value().AccountID()
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Categories.ListByAccount(r.Context(), accountID), renderList(renderCategory))
}

func (rt *Router) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if appErr := rt.decode(w, r, &req); appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusCreated, rt.svc.Categories.Create(r.Context(), req.input()), renderCategory)
}

func (rt *Router) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Categories.Get(r.Context(), id), renderCategory)
}

func (rt *Router) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}
	var req categoryRequest
	if appErr := rt.decode(w, r, &req); appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Categories.Update(r.Context(), id, req.input()), renderCategory)
}

func (rt *Router) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Categories.Delete(r.Context(), id), nil)
}
