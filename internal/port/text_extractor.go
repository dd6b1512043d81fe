package port

import "context"

// TextExtractor returns cleaned plain text for a file on local disk.
// An empty string means nothing could be extracted.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}
