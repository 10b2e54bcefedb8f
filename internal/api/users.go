package api

import (
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/store"
)

// UsersHandler handles account management endpoints (admin only).
type UsersHandler struct {
	DB  *sqlx.DB
	Log *zap.Logger
}

type updateUserRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

// userFromPath loads the active user named by the {id} path value, writing
// the error response itself when it returns nil.
func (h *UsersHandler) userFromPath(w http.ResponseWriter, r *http.Request) *model.User {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return nil
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		h.Log.Error("failed to get user", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to get user")
		return nil
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return nil
	}
	return user
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		h.Log.Error("failed to list users", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	if user := h.userFromPath(w, r); user != nil {
		jsonResponse(w, http.StatusOK, user)
	}
}

// Update handles PUT /api/users/{id}.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := h.userFromPath(w, r)
	if user == nil {
		return
	}

	var req updateUserRequest
	if err := decodeJSON(w, r, &req, maxBodyBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := checkRequest(&req); !ok {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	if err := store.UpdateUserRole(r.Context(), h.DB, user.ID, req.Role); err != nil {
		h.Log.Error("failed to update user", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	user.Role = req.Role

	h.Log.Info("user role updated",
		zap.String("admin", GetClaims(r.Context()).Email),
		zap.String("target", user.Email),
		zap.String("role", req.Role))
	jsonResponse(w, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := h.userFromPath(w, r)
	if user == nil {
		return
	}

	claims := GetClaims(r.Context())
	if claims.UserID == user.ID {
		jsonError(w, http.StatusBadRequest, "cannot delete yourself")
		return
	}

	if err := store.DeleteUser(r.Context(), h.DB, user.ID); err != nil {
		h.Log.Error("failed to delete user", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	h.Log.Info("user deleted", zap.String("admin", claims.Email), zap.String("target", user.Email))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
