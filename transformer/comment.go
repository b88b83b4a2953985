package transformer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/baldanca/comment-ingestor/comment"
	"github.com/baldanca/comment-ingestor/source"
)

// Payload keys of a comment submission.
const (
	FieldTenantID = "tenant_id"
	FieldText     = "texto"
)

// IDFunc generates a record identifier.
type IDFunc func() (string, error)

// NewUUIDv7 returns a time-ordered UUID (RFC 9562 version 7). Its random tail
// keeps ids unique across processes generating at the same millisecond.
func NewUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Comment builds comment records from submissions.
//
// The zero value is ready to use: it generates UUIDv7 ids and reads the wall
// clock.
type Comment struct {
	NewID IDFunc
	Now   func() time.Time
}

func (c Comment) Transform(ctx context.Context, in source.Envelope) (comment.Record, error) {
	tenantID, err := in.Field(FieldTenantID)
	if err != nil {
		return comment.Record{}, err
	}
	text, err := in.Field(FieldText)
	if err != nil {
		return comment.Record{}, err
	}

	newID := c.NewID
	if newID == nil {
		newID = NewUUIDv7
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}

	id, err := newID()
	if err != nil {
		return comment.Record{}, fmt.Errorf("generate comment id: %w", err)
	}
	return comment.NewRecord(tenantID, text, id, now()), nil
}

var _ Transformer[comment.Record] = Comment{}
