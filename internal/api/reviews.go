package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/store"
)

// ReviewsHandler handles product review endpoints.
type ReviewsHandler struct {
	DB  *sqlx.DB
	Log *zap.Logger
}

type createReviewRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

// Create handles POST /api/reviews.
func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createReviewRequest
	if err := decodeJSON(w, r, &req, maxBodyBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := checkRequest(&req); !ok {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	p, err := store.GetProduct(r.Context(), h.DB, req.ProductID)
	if err != nil {
		h.Log.Error("failed to get product", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to create review")
		return
	}
	if p == nil {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}

	rv := &model.Review{
		ProductID: req.ProductID,
		UserID:    claims.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := store.CreateReview(r.Context(), h.DB, rv); err != nil {
		h.Log.Error("failed to create review", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to create review")
		return
	}
	rv.User = &model.AuthorRef{ID: claims.UserID, Email: claims.Email}

	h.Log.Info("review created", zap.String("product_id", rv.ProductID), zap.Int64("user_id", rv.UserID))
	jsonResponse(w, http.StatusCreated, rv)
}
