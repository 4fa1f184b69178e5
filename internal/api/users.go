package api

import (
	"net/http"
	"strconv"

	"github.com/safar/gymwear-api/internal/store"
)

type userRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,max=50"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
}

func (req userRequest) input() store.UserInput {
	return store.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
	}
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePage(r)

	result, err := store.ListUsers(r.Context(), h.db, page, pageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	user, err := store.CreateUser(r.Context(), h.db, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	user, err := store.GetUser(r.Context(), h.db, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req userRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	user, err := store.UpdateUser(r.Context(), h.db, id, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := store.DeleteUser(r.Context(), h.db, id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listUserOrders pages through one user's order history with a keyset
// cursor: ?cursor=<next_cursor>&limit=<n>.
func (h *Handler) listUserOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	_, limit = store.NormalizePage(1, limit)

	cursor := r.URL.Query().Get("cursor")
	if _, err := store.DecodeCursor(cursor); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid cursor")
		return
	}

	if _, err := h.lookup.User(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := store.ListOrdersCursor(r.Context(), h.db, id, cursor, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
