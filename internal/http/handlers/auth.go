package handlers

import (
	"net/http"
	"time"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Register handles POST /register.
func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !a.decode(w, r, &req) {
		return
	}
	user, err := a.Auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"user": userDTO{ID: user.ID, Email: user.Email, CreatedAt: &user.CreatedAt}})
}

// Login handles POST /login and returns a bearer token.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !a.decode(w, r, &req) {
		return
	}
	sess, err := a.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"user":      userDTO{ID: sess.User.ID, Email: sess.User.Email},
		"token":     sess.Token,
		"expiresAt": sess.ExpiresAt.UTC(),
		"message":   "Login successful",
	})
}
