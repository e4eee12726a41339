package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/storefront-go/shop-backend/internal/catalog"
	"github.com/storefront-go/shop-backend/internal/postgres"
)

type ProductsHandler struct {
	Catalog *catalog.Store
}

type createProductRequest struct {
	Name       string          `json:"name"`
	SerialNo   string          `json:"serialNo"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	CategoryID int64           `json:"categoryId"`
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Post("/products", h.createProduct)
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Post("/categories", h.createCategory)
}

func (h *ProductsHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" || req.SerialNo == "" {
		writeErr(w, http.StatusBadRequest, "name and serialNo must not be empty")
		return
	}
	if req.Price.IsNegative() || req.Quantity < 0 {
		writeErr(w, http.StatusBadRequest, "price and quantity must not be negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p := catalog.Product{
		Name:       req.Name,
		SerialNo:   req.SerialNo,
		Price:      req.Price,
		Quantity:   req.Quantity,
		CategoryID: req.CategoryID,
	}
	if err := h.Catalog.CreateProduct(ctx, &p); err != nil {
		writeStoreErr(w, err, "product already present")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			writeErr(w, http.StatusNotFound, "product not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	q := catalog.ListQuery{
		Name:     r.URL.Query().Get("name"),
		SerialNo: r.URL.Query().Get("serialNo"),
	}
	q.Take, _ = strconv.Atoi(r.URL.Query().Get("take"))
	q.Cursor, _ = strconv.ParseInt(r.URL.Query().Get("cursor"), 10, 64)
	q.CategoryID, _ = strconv.ParseInt(r.URL.Query().Get("categoryId"), 10, 64)

	ps, err := h.Catalog.ListProducts(ctx, q)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ps == nil {
		ps = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var c catalog.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if c.Name == "" {
		writeErr(w, http.StatusBadRequest, "name must not be empty")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Catalog.CreateCategory(ctx, &c); err != nil {
		writeStoreErr(w, err, "category already present")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// writeStoreErr maps create-path store failures: duplicates and dangling
// references are client conflicts, everything else is a server fault.
func writeStoreErr(w http.ResponseWriter, err error, duplicateMsg string) {
	switch {
	case errors.Is(err, postgres.ErrAlreadyExists):
		writeErr(w, http.StatusConflict, duplicateMsg)
	case errors.Is(err, postgres.ErrReferentialViolation):
		writeErr(w, http.StatusConflict, "foreign key violation")
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}
