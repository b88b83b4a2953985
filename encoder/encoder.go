package encoder

import (
	"context"
	"io"
)

// Encoder converts one typed record into a binary payload.
//
// Implementations must be safe for concurrent use unless documented otherwise.
type Encoder[iType any] interface {
	Encode(ctx context.Context, item iType) (data []byte, err error)
	FileExtension() string
	ContentType() string
}

// StreamEncoder is an optional interface for encoders that can write directly
// to an io.Writer.
type StreamEncoder[iType any] interface {
	EncodeTo(ctx context.Context, item iType, w io.Writer) error
	FileExtension() string
	ContentType() string
}
