package handler

import (
	"net/http"

	"github.com/prn-tf/recipebook/internal/auth"
)

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if appErr := rt.decode(w, r, &req); appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	res := rt.svc.Auth.Login(r.Context(), req.Identifier, req.Password)
	respond(rt, w, r, http.StatusOK, res, func(t auth.Token) any { return t })
}

func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	respond(rt, w, r, http.StatusOK, rt.svc.Auth.Logout(r.Context()), nil)
}

func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if appErr := rt.decode(w, r, &req); appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusCreated, rt.svc.Users.Register(r.Context(), req.input()), renderUser)
}

func (rt *Router) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	respond(rt, w, r, http.StatusOK, rt.svc.Users.Current(r.Context()), renderUser)
}

func (rt *Router) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if appErr := rt.decode(w, r, &req); appErr != nil {
		rt.writeFailure(w, r, appErr)
		return
	}

	respond(rt, w, r, http.StatusOK, rt.svc.Users.ChangePassword(r.Context(), req.input()), nil)
}
