package handler

import (
	"net/http"

	"github.com/prn-tf/recipebook/internal/apperr"
	"github.com/prn-tf/recipebook/internal/repository"
)

// =============================================================================
// Comments
// =============================================================================

func (rt *Router) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Comments.ListByRecipe(r.Context(), id), renderList(renderComment))
}

func (rt *Router) handleAddComment(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}
	var req commentRequest
	if appErr := rt.decode(w, r, &req); appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusCreated, rt.svc.Comments.Add(r.Context(), id, req.input()), renderComment)
}

func (rt *Router) handleEditComment(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}
	var req commentRequest
	if appErr := rt.decode(w, r, &req); appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Comments.Edit(r.Context(), id, req.input()), renderComment)
}

func (rt *Router) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Comments.Delete(r.Context(), id), nil)
}

// =============================================================================
// Ratings
// =============================================================================

func (rt *Router) handleGetRating(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Ratings.Average(r.Context(), id),
		func(s repository.RatingStats) any { return s })
}

// handlePutRating records the caller's rating, replacing an earlier one.
func (rt *Router) handlePutRating(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}
	var req ratingRequest
	if appErr := rt.decode(w, r, &req); appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	res := rt.svc.Ratings.Rate(r.Context(), id, req.Value)
	if res.IsFailure() && res.Code() == apperr.CodeConflictExists {
		res = rt.svc.Ratings.Change(r.Context(), id, req.Value)
	}
	respond(rt, w, r, http.StatusOK, res, renderRating)
}

func (rt *Router) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Ratings.Remove(r.Context(), id), nil)
}

// =============================================================================
// Favorites and settings
// =============================================================================

func (rt *Router) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Favorites.Add(r.Context(), id), renderFavorite)
}

func (rt *Router) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, appErr := idParam(r, "id")
	if appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Favorites.Remove(r.Context(), id), nil)
}

func (rt *Router) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	respond(rt, w, r, http.StatusOK, rt.svc.Favorites.ListForCurrentUser(r.Context()), renderList(renderFavorite))
}

func (rt *Router) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	respond(rt, w, r, http.StatusOK, rt.svc.Settings.Current(r.Context()), renderSettings)
}

func (rt *Router) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if appErr := rt.decode(w, r, &req); appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Settings.Update(r.Context(), req.input()), renderSettings)
}
