package imaging

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// SaveFunc persists an encoded image and returns its ID.
type SaveFunc func(ctx context.Context, data []byte, mime string) (string, error)

// RemoveFunc deletes previously saved images by ID.
type RemoveFunc func(ctx context.Context, ids []string) error

// Ingester turns uploaded image payloads into stored image URLs.
type Ingester struct {
	Save SaveFunc
	// Remove, when set, drops the images of a batch that failed part way
	// through saving.
	Remove RemoveFunc
	// MaxBytes bounds the decoded size of a single payload. Zero means no limit.
	MaxBytes int64
	// URLPrefix is joined with the stored ID to form the public URL.
	URLPrefix string
}

// Ingest decodes, processes and stores each payload in order and returns
// their URLs. Every payload is decoded and processed before anything is
// saved, so an invalid payload stores nothing. If a save fails, the images
// already saved by this call are removed through Remove.
func (in *Ingester) Ingest(ctx context.Context, payloads []string) ([]string, error) {
	encoded := make([]*Encoded, 0, len(payloads))
	for i, p := range payloads {
		raw, err := Decode(p)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		if in.MaxBytes > 0 && int64(len(raw)) > in.MaxBytes {
			return nil, fmt.Errorf("image %d: %w: larger than %d bytes", i, ErrInvalidImage, in.MaxBytes)
		}

		enc, err := Process(raw)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		encoded = append(encoded, enc)
	}

	ids := make([]string, 0, len(encoded))
	urls := make([]string, 0, len(encoded))
	for i, enc := range encoded {
		id, err := in.Save(ctx, enc.Data, enc.MIME)
		if err != nil {
			err = fmt.Errorf("image %d: %w", i, err)
			if in.Remove != nil && len(ids) > 0 {
				if rmErr := in.Remove(ctx, ids); rmErr != nil {
					err = errors.Join(err, fmt.Errorf("removing saved images: %w", rmErr))
				}
			}
			return nil, err
		}
		ids = append(ids, id)
		urls = append(urls, in.URLPrefix+id)
	}
	return urls, nil
}

// Decode accepts plain base64 (standard or URL alphabet, padded or not) or a
// base64 data URI and returns the raw bytes.
func Decode(payload string) ([]byte, error) {
	s := strings.TrimSpace(payload)
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 || !strings.HasSuffix(s[:comma], ";base64") {
			return nil, fmt.Errorf("%w: data URI is not base64", ErrInvalidImage)
		}
		s = s[comma+1:]
	}
	if s == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: payload is not base64", ErrInvalidImage)
}
