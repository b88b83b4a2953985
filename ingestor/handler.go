package ingestor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/baldanca/comment-ingestor/comment"
	"github.com/baldanca/comment-ingestor/encoder"
	"github.com/baldanca/comment-ingestor/sink"
	"github.com/baldanca/comment-ingestor/source"
	"github.com/baldanca/comment-ingestor/store"
	"github.com/baldanca/comment-ingestor/transformer"
)

// Response describes both writes of a successful submission.
type Response struct {
	StatusCode int            `json:"statusCode"`
	Comment    comment.Record `json:"comentario"`
	S3Key      string         `json:"s3_key"`
	S3Bucket   string         `json:"s3_bucket"`
	Ack        store.PutAck   `json:"response"`
}

// Handler ingests one comment submission per call: it stores the record in
// the table, then archives a JSON copy in the bucket.
//
// The two writes are sequential and independent. When the archive write
// fails the table item stays in place.
//
// A Handler holds no per-request state and is safe for concurrent use.
type Handler struct {
	transformer transformer.Transformer[comment.Record]
	encoder     encoder.Encoder[comment.Record]
	table       store.Putter
	archive     sink.Sinkr
	logger      *slog.Logger
}

type Option func(*Handler)

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithTransformer replaces the default transformer.Comment, typically to pin
// ids and clocks in tests.
func WithTransformer(t transformer.Transformer[comment.Record]) Option {
	return func(h *Handler) {
		if t != nil {
			h.transformer = t
		}
	}
}

func WithEncoder(e encoder.Encoder[comment.Record]) Option {
	return func(h *Handler) {
		if e != nil {
			h.encoder = e
		}
	}
}

// NewHandler returns a Handler writing to table and archive. It fails with
// comment.ErrConfiguration when either target is unnamed.
func NewHandler(table store.Putter, archive sink.Sinkr, opts ...Option) (*Handler, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: table is nil", comment.ErrConfiguration)
	}
	if archive == nil {
		return nil, fmt.Errorf("%w: archive sink is nil", comment.ErrConfiguration)
	}
	if strings.TrimSpace(table.Name()) == "" {
		return nil, fmt.Errorf("%w: table name is empty", comment.ErrConfiguration)
	}
	if strings.TrimSpace(archive.Bucket()) == "" {
		return nil, fmt.Errorf("%w: ingest bucket is empty", comment.ErrConfiguration)
	}

	h := &Handler{
		transformer: transformer.Comment{},
		encoder:     encoder.NewJSONEncoder[comment.Record](),
		table:       table,
		archive:     archive,
		logger:      slog.Default(),
	}
	for _, o := range opts {
		o(h)
	}
	return h, nil
}

// Handle ingests the submission carried by raw. Errors are returned as-is
// to the caller, categorized by the comment.Err* sentinels.
func (h *Handler) Handle(ctx context.Context, raw json.RawMessage) (Response, error) {
	h.logger.InfoContext(ctx, "comment request received", slog.String("event", string(raw)))

	env, err := source.ParseEnvelope(raw)
	if err != nil {
		return Response{}, err
	}

	rec, err := h.transformer.Transform(ctx, env)
	if err != nil {
		return Response{}, err
	}

	ack, err := h.table.Put(ctx, rec)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", comment.ErrPersistence, err)
	}

	key := rec.ArchiveKey(h.encoder.FileExtension())

	data, err := h.encoder.Encode(ctx, rec)
	if err != nil {
		return Response{}, fmt.Errorf("%w: encode key=%q: %w", comment.ErrArchive, key, err)
	}

	contentType := h.encoder.ContentType()
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.archive.Write(ctx, sink.WriteRequest{Key: key, Data: data, ContentType: contentType}); err != nil {
		return Response{}, fmt.Errorf("%w: %w", comment.ErrArchive, err)
	}

	h.logger.InfoContext(ctx, "comment stored",
		slog.String("tenant_id", rec.TenantID),
		slog.String("uuid", rec.ID),
		slog.String("table", h.table.Name()),
		slog.String("s3_bucket", h.archive.Bucket()),
		slog.String("s3_key", key),
		slog.String("body", env.Kind.String()),
	)

	return Response{
		StatusCode: http.StatusOK,
		Comment:    rec,
		S3Key:      key,
		S3Bucket:   h.archive.Bucket(),
		Ack:        ack,
	}, nil
}
