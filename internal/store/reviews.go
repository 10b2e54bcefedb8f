package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/katalog/internal/model"
)

type reviewRow struct {
	ID           int64          `db:"id"`
	ProductID    string         `db:"product_id"`
	UserID       int64          `db:"user_id"`
	Rating       int            `db:"rating"`
	Comment      string         `db:"comment"`
	CreatedAt    time.Time      `db:"created_at"`
	UserEmail    sql.NullString `db:"user_email"`
	UserUsername sql.NullString `db:"user_username"`
}

// CreateReview inserts r, assigning its ID and creation time.
func CreateReview(ctx context.Context, db *sqlx.DB, r *model.Review) error {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO reviews (product_id, user_id, rating, comment, created_at) VALUES (?, ?, ?, ?, ?)`,
		r.ProductID, r.UserID, r.Rating, r.Comment, now,
	)
	if err != nil {
		return fmt.Errorf("creating review: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting review id: %w", err)
	}

	r.ID = id
	r.CreatedAt = now
	return nil
}

// ListReviewsByProduct returns a product's reviews, oldest first, with each
// reviewer's username and email.
func ListReviewsByProduct(ctx context.Context, db *sqlx.DB, productID string) ([]model.Review, error) {
	var rows []reviewRow
	err := db.SelectContext(ctx, &rows,
		`SELECT r.id, r.product_id, r.user_id, r.rating, r.comment, r.created_at,
		        u.email AS user_email, u.username AS user_username
		 FROM reviews r LEFT JOIN users u ON u.id = r.user_id
		 WHERE r.product_id = ?
		 ORDER BY r.id`, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}

	reviews := make([]model.Review, 0, len(rows))
	for _, row := range rows {
		rv := model.Review{
			ID:        row.ID,
			ProductID: row.ProductID,
			UserID:    row.UserID,
			Rating:    row.Rating,
			Comment:   row.Comment,
			CreatedAt: row.CreatedAt,
		}
		if row.UserEmail.Valid {
			rv.User = &model.AuthorRef{ID: row.UserID, Email: row.UserEmail.String, Username: row.UserUsername.String}
		}
		reviews = append(reviews, rv)
	}
	return reviews, nil
}

// DeleteReviewsByProduct removes every review of a product and returns how
// many were removed.
func DeleteReviewsByProduct(ctx context.Context, db *sqlx.DB, productID string) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM reviews WHERE product_id = ?`, productID)
	if err != nil {
		return 0, fmt.Errorf("deleting reviews: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting reviews: %w", err)
	}
	return n, nil
}
