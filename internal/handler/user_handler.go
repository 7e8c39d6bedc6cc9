package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-web-gallery/internal/model"
	"go-web-gallery/internal/service"
	"go-web-gallery/pkg/apierror"
)

// UserHandler exposes the admin-only account management endpoints.
type UserHandler struct {
	service *service.AuthService
}

func NewUserHandler(service *service.AuthService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": accounts})
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	account, err := h.service.CreateUser(r.Context(), payload.Username, payload.Password, payload.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id, err := userIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if payload.Active == nil {
		writeError(w, apierror.New("BAD_REQUEST", "active is required", "active", http.StatusBadRequest))
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, *payload.Active); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"active": *payload.Active})
}

func (h *UserHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id, err := userIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if err := h.service.SetPassword(r.Context(), id, payload.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"changed": true})
}

func userIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.New("BAD_REQUEST", "user id must be a positive integer", "id", http.StatusBadRequest)
	}
	return id, nil
}
