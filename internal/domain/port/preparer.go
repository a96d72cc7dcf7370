package port

import "context"

// ImagePreparer normalizes a captured photo before it is analyzed.
type ImagePreparer interface {
	Prepare(ctx context.Context, imageData []byte) ([]byte, error)
}
