package ports

import "context"

// ImageUploader hands image bytes to an external host and returns a
// durable public URL.
type ImageUploader interface {
	Upload(ctx context.Context, image CoverImage, folder string) (string, error)
}
