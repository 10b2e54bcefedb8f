package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/erazemk/katalog/internal/model"
)

// memStore is an in-memory Store that evaluates filters with Filter.Matches.
type memStore struct {
	products []model.Product
	reviews  []model.Review
	seq      int
	base     time.Time

	inserts       int
	insertErr     error
	cascadeErr    error
	lastFindPage  Page
	lastFindCount int
}

func newMemStore() *memStore {
	return &memStore{base: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memStore) CountProducts(_ context.Context, f Filter) (int64, error) {
	var n int64
	for i := range m.products {
		if f.Matches(&m.products[i]) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) FindProducts(_ context.Context, f Filter, page Page) ([]model.Product, error) {
	m.lastFindPage = page
	var out []model.Product
	for _, p := range m.products {
		if f.Matches(&p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	start := page.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := start + page.Take
	if end > len(out) {
		end = len(out)
	}
	m.lastFindCount = end - start
	return out[start:end], nil
}

func (m *memStore) FindProductsExcept(_ context.Context, id string) ([]model.Product, error) {
	var out []model.Product
	for _, p := range m.products {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) GetProduct(_ context.Context, id string) (*model.Product, error) {
	for i := range m.products {
		if m.products[i].ID == id {
			p := m.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memStore) InsertProduct(_ context.Context, p *model.Product) error {
	m.inserts++
	if m.insertErr != nil {
		return m.insertErr
	}
	m.seq++
	p.ID = fmt.Sprintf("p%d", m.seq)
	p.CreatedAt = m.base.Add(time.Duration(m.seq) * time.Minute)
	p.UpdatedAt = p.CreatedAt
	m.products = append(m.products, *p)
	return nil
}

func (m *memStore) ReplaceProduct(_ context.Context, id string, upd ProductUpdate) (*model.Product, error) {
	for i := range m.products {
		p := &m.products[i]
		if p.ID != id {
			continue
		}
		p.Name, p.Category, p.Size, p.Color = upd.Name, upd.Category, upd.Size, upd.Color
		p.Description, p.Price, p.OldPrice = upd.Description, upd.Price, upd.OldPrice
		if len(upd.Images) > 0 {
			p.Images = upd.Images
		}
		if upd.AuthorID != 0 {
			p.AuthorID = upd.AuthorID
		}
		out := *p
		return &out, nil
	}
	return nil, nil
}

func (m *memStore) DeleteProduct(_ context.Context, id string) (bool, error) {
	for i := range m.products {
		if m.products[i].ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) DeleteReviewsByProduct(_ context.Context, productID string) (int64, error) {
	if m.cascadeErr != nil {
		return 0, m.cascadeErr
	}
	var kept []model.Review
	var n int64
	for _, r := range m.reviews {
		if r.ProductID == productID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.reviews = kept
	return n, nil
}

func (m *memStore) ListReviewsByProduct(_ context.Context, productID string) ([]model.Review, error) {
	var out []model.Review
	for _, r := range m.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func mustCreate(t *testing.T, svc *Service, name, category, size string, price string) *model.Product {
	t.Helper()
	p, err := svc.Create(context.Background(), Input{
		Name:        name,
		Category:    category,
		Size:        size,
		Description: "test product",
		Price:       str(price),
		Images:      []string{"https://cdn.example.com/x.jpg"},
		Author:      1,
	})
	require.NoError(t, err)
	return p
}

func TestServiceCreateComposesName(t *testing.T) {
	st := newMemStore()
	svc := NewService(st, nil)

	p := mustCreate(t, svc, "Olive Vaseline", "فازلين زيت الزيتون", "100ml", "30")

	assert.Equal(t, "Olive Vaseline - 100ml", p.Name)
	assert.Equal(t, "100ml", p.Size)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, "Olive Vaseline - 100ml", st.products[0].Name)
}

func TestServiceCreateValidationSkipsStore(t *testing.T) {
	st := newMemStore()
	svc := NewService(st, nil)

	_, err := svc.Create(context.Background(), Input{Name: "No price", Category: "Oils"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, st.inserts)
}

func TestServiceCreateStoreError(t *testing.T) {
	st := newMemStore()
	st.insertErr = errors.New("disk full")
	svc := NewService(st, nil)

	in := validCreateInput()
	_, err := svc.Create(context.Background(), in)

	assert.ErrorIs(t, err, ErrStore)
	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "insert product", se.Op)
	assert.EqualError(t, se.Err, "disk full")
}

func TestServiceUpdateRecomposesName(t *testing.T) {
	st := newMemStore()
	svc := NewService(st, nil)
	p := mustCreate(t, svc, "Rose Oil", "Oils", "", "10")
	require.Equal(t, "Rose Oil", p.Name)

	got, err := svc.Update(context.Background(), p.ID, Input{
		Name:        "Rose Oil",
		Category:    "Oils",
		Size:        "50ml",
		Description: "now sized",
		Price:       str("11"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Rose Oil - 50ml", got.Name)
	assert.Equal(t, 11.0, got.Price)
	assert.Equal(t, []string{"https://cdn.example.com/x.jpg"}, got.Images, "images kept when not provided")
	assert.Equal(t, int64(1), got.AuthorID, "author kept when not provided")
}

func TestServiceUpdateReplacesImages(t *testing.T) {
	st := newMemStore()
	svc := NewService(st, nil)
	p := mustCreate(t, svc, "Rose Oil", "Oils", "", "10")

	got, err := svc.Update(context.Background(), p.ID, Input{
		Name:        "Rose Oil",
		Category:    "Oils",
		Description: "new photo",
		Price:       str("10"),
		Images:      []string{"https://cdn.example.com/new.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/new.jpg"}, got.Images)
}

func TestServiceUpdateNotFound(t *testing.T) {
	svc := NewService(newMemStore(), nil)

	_, err := svc.Update(context.Background(), "missing", Input{
		Name: "x", Category: "y", Description: "z", Price: str("1"),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceUpdateValidatesBeforeLookup(t *testing.T) {
	svc := NewService(newMemStore(), nil)

	_, err := svc.Update(context.Background(), "missing", Input{
		Name: "x", Category: LegacySizeCategory, Description: "z", Price: str("1"),
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, MissingSize, ve.Kind)
}

func TestServiceDeleteCascadesReviews(t *testing.T) {
	st := newMemStore()
	svc := NewService(st, nil)
	p := mustCreate(t, svc, "Rose Oil", "Oils", "", "10")
	other := mustCreate(t, svc, "Argan", "Oils", "", "10")

	for i := 0; i < 3; i++ {
		st.reviews = append(st.reviews, model.Review{ID: int64(i + 1), ProductID: p.ID, Rating: 5})
	}
	st.reviews = append(st.reviews, model.Review{ID: 9, ProductID: other.ID, Rating: 4})

	require.NoError(t, svc.Delete(context.Background(), p.ID))

	assert.Len(t, st.reviews, 1)
	assert.Equal(t, other.ID, st.reviews[0].ProductID)

	_, err := svc.Get(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceDeleteNotFound(t *testing.T) {
	svc := NewService(newMemStore(), nil)
	assert.ErrorIs(t, svc.Delete(context.Background(), "missing"), ErrNotFound)
}

func TestServiceDeleteCascadeFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	st := newMemStore()
	svc := NewService(st, zap.New(core))
	p := mustCreate(t, svc, "Rose Oil", "Oils", "", "10")
	st.cascadeErr = errors.New("reviews table locked")

	require.NoError(t, svc.Delete(context.Background(), p.ID))

	gone, _ := st.GetProduct(context.Background(), p.ID)
	assert.Nil(t, gone, "primary delete is not rolled back")

	failures := logs.FilterMessage("cascade delete of reviews failed").All()
	require.Len(t, failures, 1)
	assert.Equal(t, zapcore.ErrorLevel, failures[0].Level)
	assert.Equal(t, p.ID, failures[0].ContextMap()["product_id"])
}

func TestServiceListFiltersAndPaginates(t *testing.T) {
	st := newMemStore()
	svc := NewService(st, nil)
	for i := 0; i < 25; i++ {
		mustCreate(t, svc, fmt.Sprintf("Item %02d", i), "X", "", fmt.Sprint(i))
	}
	mustCreate(t, svc, "Other", "Y", "", "10")

	res, err := svc.List(context.Background(), ListQuery{Page: "3", Limit: "10", Category: str("X")})
	require.NoError(t, err)

	assert.Equal(t, int64(25), res.TotalProducts)
	assert.Equal(t, 3, res.TotalPages)
	require.Len(t, res.Products, 5)
	assert.Equal(t, "Item 04", res.Products[0].Name, "newest first")
	assert.Equal(t, "Item 00", res.Products[4].Name)

	res, err = svc.List(context.Background(), categoryRange("X", "5", "15"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), res.TotalProducts)
	for _, p := range res.Products {
		assert.Equal(t, "X", p.Category)
		assert.True(t, p.Price >= 5 && p.Price <= 15)
	}
}

// categoryRange is a shorthand for a category plus price range listing.
func categoryRange(category, lo, hi string) ListQuery {
	return ListQuery{Category: &category, MinPrice: lo, MaxPrice: hi}
}

func TestServiceListEmptyIsNotNil(t *testing.T) {
	svc := NewService(newMemStore(), nil)

	res, err := svc.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.NotNil(t, res.Products)
	assert.Zero(t, res.TotalPages)
}

func TestServiceListNegativePageClamped(t *testing.T) {
	st := newMemStore()
	svc := NewService(st, nil)
	mustCreate(t, svc, "Only", "X", "", "1")

	res, err := svc.List(context.Background(), ListQuery{Page: "0"})
	require.NoError(t, err)
	assert.Equal(t, -10, st.lastFindPage.Skip)
	assert.Len(t, res.Products, 1)
}

func TestServiceGetWithReviews(t *testing.T) {
	st := newMemStore()
	svc := NewService(st, nil)
	p := mustCreate(t, svc, "Rose Oil", "Oils", "", "10")
	st.reviews = append(st.reviews, model.Review{ID: 1, ProductID: p.ID, Rating: 5, Comment: "lovely"})

	d, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, d.Product.ID)
	require.Len(t, d.Reviews, 1)
	assert.Equal(t, "lovely", d.Reviews[0].Comment)
}

func TestServiceRelated(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	st := newMemStore()
	svc := NewService(st, zap.New(core))

	rose := mustCreate(t, svc, "Rose Oil", "Oils", "", "10")
	water := mustCreate(t, svc, "Rose Water", "Waters", "", "5")
	argan := mustCreate(t, svc, "Argan", "Oils", "", "20")
	mustCreate(t, svc, "Soap", "Bath", "", "3")

	got, err := svc.Related(context.Background(), rose.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{water.ID, argan.ID}, ids(got))
	assert.Zero(t, logs.Len())

	_, err = svc.Related(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceRelatedMatchAllIsFlagged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	st := newMemStore()
	svc := NewService(st, zap.New(core))

	odd := mustCreate(t, svc, "X", "Solo", "", "1")
	mustCreate(t, svc, "Soap", "Bath", "", "3")
	mustCreate(t, svc, "Candle", "Home", "", "4")

	got, err := svc.Related(context.Background(), odd.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, logs.FilterMessageSnippet("no usable tokens").Len())
}
