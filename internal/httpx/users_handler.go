package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/storefront-go/shop-backend/internal/users"
)

type UsersHandler struct {
	Users *users.Store
}

func (h *UsersHandler) Register(r *chi.Mux) {
	r.Post("/users", h.createUser)
	r.Get("/users", h.listUsers)
}

func (h *UsersHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var u users.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if u.Name == "" || u.Surname == "" || !strings.Contains(u.Email, "@") {
		writeErr(w, http.StatusBadRequest, "name, surname and a valid email are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Users.CreateUser(ctx, &u); err != nil {
		writeStoreErr(w, err, "user already present")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UsersHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	us, err := h.Users.ListUsers(ctx)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if us == nil {
		us = []users.User{}
	}
	writeJSON(w, http.StatusOK, us)
}
