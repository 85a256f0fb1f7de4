package api

import (
	"net/http"

	"github.com/mmynk/listling/internal/auth"
	"github.com/mmynk/listling/internal/models"
	"github.com/mmynk/listling/internal/service"
)

type registerRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

func (req *registerRequest) validate() error {
	switch {
	case req.Email == "":
		return service.Validationf("email is required")
	case req.Username == "":
		return service.Validationf("username is required")
	case req.FirstName == "" || req.LastName == "":
		return service.Validationf("first_name and last_name are required")
	case req.Password == "":
		return service.Validationf("password is required")
	}
	return nil
}

// handleRegister creates a new account.
func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := a.auth.Register(r.Context(), auth.Registration{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// handleLogin verifies credentials and issues a token.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, service.Validationf("email and password are required"))
		return
	}

	token, user, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}
