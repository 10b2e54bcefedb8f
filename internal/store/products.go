package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/model"
)

// stringList is a []string persisted as a JSON array in a TEXT column.
type stringList []string

func (l *stringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scanning string list: unsupported type %T", src)
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

func (l stringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

type productRow struct {
	ID             string          `db:"id"`
	Name           string          `db:"name"`
	Category       string          `db:"category"`
	Size           string          `db:"size"`
	Color          string          `db:"color"`
	Description    string          `db:"description"`
	Price          float64         `db:"price"`
	OldPrice       sql.NullFloat64 `db:"old_price"`
	Images         stringList      `db:"images"`
	AuthorID       int64           `db:"author_id"`
	AuthorEmail    sql.NullString  `db:"author_email"`
	AuthorUsername sql.NullString  `db:"author_username"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

func (r *productRow) toModel() model.Product {
	p := model.Product{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		Size:        r.Size,
		Color:       r.Color,
		Description: r.Description,
		Price:       r.Price,
		Images:      []string(r.Images),
		AuthorID:    r.AuthorID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if r.OldPrice.Valid {
		v := r.OldPrice.Float64
		p.OldPrice = &v
	}
	if r.AuthorEmail.Valid {
		p.Author = &model.AuthorRef{
			ID:       r.AuthorID,
			Email:    r.AuthorEmail.String,
			Username: r.AuthorUsername.String,
		}
	}
	return p
}

const productColumns = `p.id, p.name, p.category, p.size, p.color, p.description,
        p.price, p.old_price, p.images, p.author_id, p.created_at, p.updated_at`

// filterWhere renders a listing filter as a WHERE clause over alias p.
func filterWhere(f catalog.Filter) (string, []any) {
	var conds []string
	var args []any

	if f.Category != nil {
		conds = append(conds, "p.category = ?")
		args = append(args, *f.Category)
	}
	if f.Size != nil {
		conds = append(conds, "p.size = ?")
		args = append(args, *f.Size)
	}
	if f.Color != nil {
		conds = append(conds, "p.color = ?")
		args = append(args, *f.Color)
	}
	if f.Price != nil {
		conds = append(conds, "p.price BETWEEN ? AND ?")
		args = append(args, f.Price.Min, f.Price.Max)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// CreateProduct inserts p, assigning its ID and timestamps.
func CreateProduct(ctx context.Context, db *sqlx.DB, p *model.Product) error {
	now := time.Now().UTC()
	row := productRow{
		ID:          uuid.NewString(),
		Name:        p.Name,
		Category:    p.Category,
		Size:        p.Size,
		Color:       p.Color,
		Description: p.Description,
		Price:       p.Price,
		OldPrice:    nullFloat(p.OldPrice),
		Images:      stringList(p.Images),
		AuthorID:    p.AuthorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := db.NamedExecContext(ctx,
		`INSERT INTO products (id, name, category, size, color, description, price, old_price,
		                       images, author_id, created_at, updated_at)
		 VALUES (:id, :name, :category, :size, :color, :description, :price, :old_price,
		         :images, :author_id, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return fmt.Errorf("creating product: %w", err)
	}

	p.ID = row.ID
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// GetProduct returns a product with its author's email and username.
func GetProduct(ctx context.Context, db *sqlx.DB, id string) (*model.Product, error) {
	var row productRow
	err := db.GetContext(ctx, &row,
		`SELECT `+productColumns+`, u.email AS author_email, u.username AS author_username
		 FROM products p LEFT JOIN users u ON u.id = p.author_id
		 WHERE p.id = ?`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	p := row.toModel()
	return &p, nil
}

// CountProducts returns the number of products matching f.
func CountProducts(ctx context.Context, db *sqlx.DB, f catalog.Filter) (int64, error) {
	where, args := filterWhere(f)
	var n int64
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products p`+where, args...); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return n, nil
}

// ListProducts returns one page of products matching f, newest first, with
// the author's email.
func ListProducts(ctx context.Context, db *sqlx.DB, f catalog.Filter, page catalog.Page) ([]model.Product, error) {
	where, args := filterWhere(f)
	args = append(args, page.Take, page.Offset())

	var rows []productRow
	err := db.SelectContext(ctx, &rows,
		`SELECT `+productColumns+`, u.email AS author_email
		 FROM products p LEFT JOIN users u ON u.id = p.author_id`+where+`
		 ORDER BY p.created_at DESC, p.rowid DESC
		 LIMIT ? OFFSET ?`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return toProducts(rows), nil
}

// ListProductsExcept returns every product other than id in insertion order.
func ListProductsExcept(ctx context.Context, db *sqlx.DB, id string) ([]model.Product, error) {
	var rows []productRow
	err := db.SelectContext(ctx, &rows,
		`SELECT `+productColumns+` FROM products p WHERE p.id <> ? ORDER BY p.rowid`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return toProducts(rows), nil
}

// ReplaceProduct overwrites the mutable fields of product id. Images and
// author are only written when set. Returns nil if the product does not exist.
func ReplaceProduct(ctx context.Context, db *sqlx.DB, id string, upd catalog.ProductUpdate) (*model.Product, error) {
	sets := []string{
		"name = ?", "category = ?", "size = ?", "color = ?", "description = ?",
		"price = ?", "old_price = ?", "updated_at = ?",
	}
	args := []any{
		upd.Name, upd.Category, upd.Size, upd.Color, upd.Description,
		upd.Price, nullFloat(upd.OldPrice), time.Now().UTC(),
	}
	if len(upd.Images) > 0 {
		sets = append(sets, "images = ?")
		args = append(args, stringList(upd.Images))
	}
	if upd.AuthorID != 0 {
		sets = append(sets, "author_id = ?")
		args = append(args, upd.AuthorID)
	}
	args = append(args, id)

	result, err := db.ExecContext(ctx,
		`UPDATE products SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	return GetProduct(ctx, db, id)
}

// DeleteProduct hard-deletes a product and reports whether it existed.
func DeleteProduct(ctx context.Context, db *sqlx.DB, id string) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting product: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting product: %w", err)
	}
	return n > 0, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func toProducts(rows []productRow) []model.Product {
	products := make([]model.Product, 0, len(rows))
	for i := range rows {
		products = append(products, rows[i].toModel())
	}
	return products
}
