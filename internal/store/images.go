package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SaveImage stores encoded image data and returns its new ID.
func SaveImage(ctx context.Context, db *sqlx.DB, data []byte, mime string) (string, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO images (id, data, mime, created_at) VALUES (?, ?, ?, ?)`,
		id, data, mime, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return id, nil
}

// GetImage returns an image's data and MIME type. Data is nil if the image
// does not exist.
func GetImage(ctx context.Context, db *sqlx.DB, id string) ([]byte, string, error) {
	var img struct {
		Data []byte `db:"data"`
		Mime string `db:"mime"`
	}
	err := db.GetContext(ctx, &img, `SELECT data, mime FROM images WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting image: %w", err)
	}
	return img.Data, img.Mime, nil
}

// DeleteImages removes the images with the given IDs and returns how many
// rows were deleted.
func DeleteImages(ctx context.Context, db *sqlx.DB, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM images WHERE id IN (?)`, ids)
	if err != nil {
		return 0, fmt.Errorf("deleting images: %w", err)
	}
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("deleting images: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting images: %w", err)
	}
	return n, nil
}
