package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/imaging"
	"github.com/erazemk/katalog/internal/store"
)

// ProductsHandler handles product catalog endpoints.
type ProductsHandler struct {
	DB       *sqlx.DB
	Catalog  *catalog.Service
	Images   *imaging.Ingester
	MaxBytes int64
	Log      *zap.Logger
}

type productRequest struct {
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Size        string     `json:"size"`
	Color       string     `json:"color"`
	Description string     `json:"description"`
	Price       flexNumber `json:"price"`
	OldPrice    flexNumber `json:"oldPrice"`
	Image       imageField `json:"image"`
	Author      authorRef  `json:"author"`
}

func (req *productRequest) input() catalog.Input {
	return catalog.Input{
		Name:        req.Name,
		Category:    req.Category,
		Size:        req.Size,
		Color:       req.Color,
		Description: req.Description,
		Price:       req.Price.raw,
		OldPrice:    req.OldPrice.raw,
		Images:      req.Image.urls,
		Author:      int64(req.Author),
	}
}

type validationBody struct {
	Error string                 `json:"error"`
	Kind  catalog.ValidationKind `json:"kind"`
	Field string                 `json:"field"`
}

// fail maps a catalog error to its HTTP status.
func (h *ProductsHandler) fail(w http.ResponseWriter, op string, err error) {
	var ve *catalog.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonResponse(w, http.StatusBadRequest, validationBody{Error: ve.Error(), Kind: ve.Kind, Field: ve.Field})
	case errors.Is(err, catalog.ErrNotFound):
		jsonError(w, http.StatusNotFound, "product not found")
	default:
		h.Log.Error("catalog operation failed", zap.String("op", op), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to "+op)
	}
}

// authorExists reports whether id names an active user. Zero is left to validation.
func (h *ProductsHandler) authorExists(r *http.Request, id int64) (bool, error) {
	if id == 0 {
		return true, nil
	}
	u, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		return false, err
	}
	return u != nil && u.DeletedAt == nil, nil
}

// Create handles POST /api/products/create-product. An authenticated caller
// is the default author.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(w, r, &req, maxBodyBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if claims := GetClaims(r.Context()); claims != nil && req.Author == 0 {
		req.Author = authorRef(claims.UserID)
	}

	ok, err := h.authorExists(r, int64(req.Author))
	if err != nil {
		h.fail(w, "create product", err)
		return
	}
	if !ok {
		jsonError(w, http.StatusBadRequest, "author does not exist")
		return
	}

	p, err := h.Catalog.Create(r.Context(), req.input())
	if err != nil {
		h.fail(w, "create product", err)
		return
	}
	jsonResponse(w, http.StatusCreated, p)
}

// List handles GET /api/products.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.Catalog.List(r.Context(), catalog.ParseListQuery(r.URL.Query()))
	if err != nil {
		h.fail(w, "list products", err)
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

// Get handles GET /api/products/{id} and GET /api/products/product/{id}.
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.Catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, "get product", err)
		return
	}
	jsonResponse(w, http.StatusOK, d)
}

// Update handles PATCH /api/products/update-product/{id}.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(w, r, &req, maxBodyBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ok, err := h.authorExists(r, int64(req.Author))
	if err != nil {
		h.fail(w, "update product", err)
		return
	}
	if !ok {
		jsonError(w, http.StatusBadRequest, "author does not exist")
		return
	}

	p, err := h.Catalog.Update(r.Context(), r.PathValue("id"), req.input())
	if err != nil {
		h.fail(w, "update product", err)
		return
	}

	if claims := GetClaims(r.Context()); claims != nil {
		h.Log.Info("product updated by admin", zap.String("product_id", p.ID), zap.String("admin", claims.Email))
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Product updated successfully",
		"product": p,
	})
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, "delete product", err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// Related handles GET /api/products/related/{id}.
func (h *ProductsHandler) Related(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.Related(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, "find related products", err)
		return
	}
	jsonResponse(w, http.StatusOK, products)
}

// UploadImages handles POST /api/products/uploadImages.
func (h *ProductsHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Images json.RawMessage `json:"images"`
	}
	if err := decodeJSON(w, r, &req, h.MaxBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var payloads []string
	if len(req.Images) == 0 || req.Images[0] != '[' || json.Unmarshal(req.Images, &payloads) != nil {
		jsonError(w, http.StatusBadRequest, "images must be an array")
		return
	}

	urls, err := h.Images.Ingest(r.Context(), payloads)
	if errors.Is(err, imaging.ErrInvalidImage) {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Log.Error("uploading images failed", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to upload images")
		return
	}
	jsonResponse(w, http.StatusOK, urls)
}
