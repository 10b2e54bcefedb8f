package api

import (
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/imaging"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/store"
)

// ImageURLPrefix is the public path under which stored images are served.
const ImageURLPrefix = "/api/images/"

// Options configures the API router.
type Options struct {
	JWTSecret string
	// MaxImageBytes bounds one decoded upload. The upload request body may be
	// up to ten times this size.
	MaxImageBytes int64
	Log           *zap.Logger
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sqlx.DB, opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()

	products := &ProductsHandler{
		DB:      db,
		Catalog: catalog.NewService(&store.Catalog{DB: db}, log.Named("catalog")),
		Images: &imaging.Ingester{
			Save: func(ctx context.Context, data []byte, mime string) (string, error) {
				return store.SaveImage(ctx, db, data, mime)
			},
			Remove: func(ctx context.Context, ids []string) error {
				_, err := store.DeleteImages(ctx, db, ids)
				return err
			},
			MaxBytes:  opts.MaxImageBytes,
			URLPrefix: ImageURLPrefix,
		},
		MaxBytes: uploadBodyLimit(opts.MaxImageBytes),
		Log:      log,
	}
	images := &ImagesHandler{DB: db, Log: log}
	reviews := &ReviewsHandler{DB: db, Log: log}
	authHandler := &AuthHandler{DB: db, JWTSecret: opts.JWTSecret, Log: log}
	users := &UsersHandler{DB: db, Log: log}

	authMW := AuthMiddleware(opts.JWTSecret, db)
	optionalAuth := OptionalAuth(opts.JWTSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Auth.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Products. Only updates are gated on identity.
	mux.HandleFunc("POST /api/products/uploadImages", products.UploadImages)
	mux.Handle("POST /api/products/create-product", optionalAuth(http.HandlerFunc(products.Create)))
	mux.HandleFunc("GET /api/products", products.List)
	mux.HandleFunc("GET /api/products/{id}", products.Get)
	mux.HandleFunc("GET /api/products/product/{id}", products.Get)
	mux.HandleFunc("GET /api/products/related/{id}", products.Related)
	mux.Handle("PATCH /api/products/update-product/{id}", authMW(requireAdmin(http.HandlerFunc(products.Update))))
	mux.HandleFunc("DELETE /api/products/{id}", products.Delete)

	mux.HandleFunc("GET "+ImageURLPrefix+"{id}", images.Get)

	// Reviews.
	mux.Handle("POST /api/reviews", authMW(http.HandlerFunc(reviews.Create)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(users.List))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(users.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(users.Update))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(users.Delete))))

	return mux
}

func uploadBodyLimit(maxImage int64) int64 {
	if maxImage <= 0 {
		return 64 << 20
	}
	return maxImage * 10
}
