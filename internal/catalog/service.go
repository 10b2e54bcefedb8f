package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/erazemk/katalog/internal/model"
)

// Store is the persistence collaborator the catalog delegates to.
// Lookups return a nil product, not an error, when the id does not resolve.
type Store interface {
	CountProducts(ctx context.Context, f Filter) (int64, error)
	// FindProducts returns one page of matches, newest first, with the
	// author resolved to its email.
	FindProducts(ctx context.Context, f Filter, page Page) ([]model.Product, error)
	// FindProductsExcept returns every product but id in store order.
	FindProductsExcept(ctx context.Context, id string) ([]model.Product, error)
	// GetProduct resolves the author to email and username.
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	InsertProduct(ctx context.Context, p *model.Product) error
	ReplaceProduct(ctx context.Context, id string, upd ProductUpdate) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
	DeleteReviewsByProduct(ctx context.Context, productID string) (int64, error)
	ListReviewsByProduct(ctx context.Context, productID string) ([]model.Review, error)
}

// ProductUpdate is the full mutable field set written by an update.
// Images and AuthorID are only written when set (non-empty / non-zero).
type ProductUpdate struct {
	Name        string
	Category    string
	Size        string
	Color       string
	Description string
	Price       float64
	OldPrice    *float64
	Images      []string
	AuthorID    int64
}

// ListResult is one page of a filtered listing.
type ListResult struct {
	Products      []model.Product `json:"products"`
	TotalPages    int             `json:"totalPages"`
	TotalProducts int64           `json:"totalProducts"`
}

// Detail is a product together with its reviews.
type Detail struct {
	Product *model.Product `json:"product"`
	Reviews []model.Review `json:"reviews"`
}

// Service sequences catalog mutations and queries against a Store.
type Service struct {
	store Store
	log   *zap.Logger
}

// NewService creates a catalog service. A nil logger disables logging.
func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// Create validates the payload, composes the display name and persists the product.
func (s *Service) Create(ctx context.Context, in Input) (*model.Product, error) {
	f, err := ValidateCreate(in)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		Name:        ComposeName(f.Name, f.Size),
		Category:    f.Category,
		Size:        f.Size,
		Color:       f.Color,
		Description: f.Description,
		Price:       f.Price,
		OldPrice:    f.OldPrice,
		Images:      f.Images,
		AuthorID:    f.Author,
	}
	if err := s.store.InsertProduct(ctx, p); err != nil {
		return nil, storeErr("insert product", err)
	}

	s.log.Info("product created", zap.String("product_id", p.ID), zap.String("category", p.Category))
	return p, nil
}

// Update replaces the mutable fields of product id. The caller must already
// be authenticated as an admin.
func (s *Service) Update(ctx context.Context, id string, in Input) (*model.Product, error) {
	f, err := ValidateUpdate(in)
	if err != nil {
		return nil, err
	}

	p, err := s.store.ReplaceProduct(ctx, id, ProductUpdate{
		Name:        ComposeName(f.Name, f.Size),
		Category:    f.Category,
		Size:        f.Size,
		Color:       f.Color,
		Description: f.Description,
		Price:       f.Price,
		OldPrice:    f.OldPrice,
		Images:      f.Images,
		AuthorID:    f.Author,
	})
	if err != nil {
		return nil, storeErr("replace product", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}

	s.log.Info("product updated", zap.String("product_id", id))
	return p, nil
}

// Delete removes product id and then every review that references it.
// The cascade is not atomic with the primary delete: if removing reviews
// fails the product stays deleted, the failure is logged, and Delete
// still succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return storeErr("delete product", err)
	}
	if !deleted {
		return ErrNotFound
	}

	n, err := s.store.DeleteReviewsByProduct(ctx, id)
	if err != nil {
		s.log.Error("cascade delete of reviews failed",
			zap.String("product_id", id), zap.Error(err))
		return nil
	}

	s.log.Info("product deleted", zap.String("product_id", id), zap.Int64("reviews_deleted", n))
	return nil
}

// List returns one page of products matching the query, newest first.
func (s *Service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	f := BuildFilter(q)

	total, err := s.store.CountProducts(ctx, f)
	if err != nil {
		return nil, storeErr("count products", err)
	}

	page := Paginate(q.Page, q.Limit, total)
	products, err := s.store.FindProducts(ctx, f, page)
	if err != nil {
		return nil, storeErr("find products", err)
	}
	if products == nil {
		products = []model.Product{}
	}

	return &ListResult{
		Products:      products,
		TotalPages:    page.TotalPages,
		TotalProducts: total,
	}, nil
}

// Get returns product id with its reviews.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr("get product", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}

	reviews, err := s.store.ListReviewsByProduct(ctx, id)
	if err != nil {
		return nil, storeErr("list reviews", err)
	}
	if reviews == nil {
		reviews = []model.Review{}
	}

	return &Detail{Product: p, Reviews: reviews}, nil
}

// Related returns products sharing a name token or the category with product id.
func (s *Service) Related(ctx context.Context, id string) ([]model.Product, error) {
	target, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr("get product", err)
	}
	if target == nil {
		return nil, ErrNotFound
	}

	candidates, err := s.store.FindProductsExcept(ctx, id)
	if err != nil {
		return nil, storeErr("find products", err)
	}

	m := NewMatcher(target)
	if m.MatchesAll() {
		s.log.Warn("product name has no usable tokens; every product is related",
			zap.String("product_id", id), zap.String("name", target.Name))
	}
	return m.Filter(candidates), nil
}
