package api

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/safar/gymwear-api/internal/store"
)

type categoryRequest struct {
	ParentID    *int64 `json:"parent_id" validate:"omitempty,gt=0"`
	Name        string `json:"name" validate:"required,max=255"`
	Slug        string `json:"slug" validate:"omitempty,max=255"`
	Description string `json:"description"`
}

func (req categoryRequest) input() store.CategoryInput {
	return store.CategoryInput{
		ParentID:    req.ParentID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}
}

type productRequest struct {
	CategoryID  int64           `json:"category_id" validate:"required,gt=0"`
	Name        string          `json:"name" validate:"required,max=255"`
	Slug        string          `json:"slug" validate:"omitempty,max=255"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price" validate:"gte=0"`
	Active      *bool           `json:"active"`
}

func (req productRequest) input() store.ProductInput {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return store.ProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Active:      active,
	}
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePage(r)

	result, err := store.ListCategories(r.Context(), h.db, page, pageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	category, err := store.CreateCategory(r.Context(), h.db, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, category)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	category, err := store.GetCategory(r.Context(), h.db, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, category)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req categoryRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeValidationError(w, r, err)
		return
	}
	if req.ParentID != nil && *req.ParentID == id {
		respondError(w, r, http.StatusBadRequest, "category cannot be its own parent")
		return
	}

	category, err := store.UpdateCategory(r.Context(), h.db, id, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, category)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := store.DeleteCategory(r.Context(), h.db, id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listProducts accepts ?category_id= and ?active=true filters.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePage(r)

	var filter store.ProductFilter
	if v := r.URL.Query().Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id < 1 {
			respondError(w, r, http.StatusBadRequest, "invalid category_id")
			return
		}
		filter.CategoryID = id
	}
	filter.ActiveOnly = r.URL.Query().Get("active") == "true"

	result, err := store.ListProducts(r.Context(), h.db, filter, page, pageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	product, err := store.CreateProduct(r.Context(), h.db, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	product, err := store.GetProduct(r.Context(), h.db, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req productRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	product, err := store.UpdateProduct(r.Context(), h.db, id, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := store.DeleteProduct(r.Context(), h.db, id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
