package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"osboard/internal/service"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Authenticator exchanges the dashboard password for a bearer token.
type Authenticator interface {
	Login(password string) (string, error)
}

func LoginHandler(authSvc Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		token, err := authSvc.Login(req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidPassword) {
				http.Error(w, "invalid password", http.StatusUnauthorized)
				return
			}
			slog.Error("login failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Authorization", "Bearer "+token)
		writeJSON(w, http.StatusOK, loginResponse{Token: token})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
