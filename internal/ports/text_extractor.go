package ports

import "context"

type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}
