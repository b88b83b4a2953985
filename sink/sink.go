package sink

import (
	"context"
)

type WriteRequest struct {
	Key         string
	Data        []byte
	ContentType string
}

// Sinkr stores one object per write.
type Sinkr interface {
	Write(ctx context.Context, req WriteRequest) error
	// Bucket names the container objects are written to.
	Bucket() string
}
