package ingestor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/baldanca/comment-ingestor/comment"
	"github.com/baldanca/comment-ingestor/source"
)

// Worker feeds messages from a Source through a Handler, one at a time.
//
// Successful messages are acknowledged. Messages that can never succeed
// (malformed payload, missing field) are logged and acknowledged too so they
// don't cycle through the queue forever. Any other failure is reported to the
// message via Fail and left for the source to redeliver; the worker itself
// never retries.
type Worker struct {
	source  source.Sourcer
	handler *Handler
	logger  *slog.Logger
}

func NewWorker(src source.Sourcer, h *Handler, logger *slog.Logger) (*Worker, error) {
	if src == nil {
		return nil, fmt.Errorf("source is nil")
	}
	if h == nil {
		return nil, fmt.Errorf("handler is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{source: src, handler: h, logger: logger}, nil
}

// Run processes messages until ctx is canceled or the source is closed.
func (w *Worker) Run(ctx context.Context) error {
	for {
		msg, err := w.source.Receive(ctx)
		if err != nil {
			if errors.Is(err, source.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := w.process(ctx, msg); err != nil {
			w.logger.ErrorContext(ctx, "settle comment message", slog.Any("error", err))
		}
	}
}

// settleTimeout bounds acknowledging a message once Handle has returned.
const settleTimeout = 10 * time.Second

func (w *Worker) process(ctx context.Context, msg source.Message) error {
	resp, err := w.handler.Handle(ctx, msg.Body())

	// Settle mesmo com ctx cancelado (shutdown): o registro já foi gravado e
	// uma redelivery geraria outro uuid.
	settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
	defer cancel()

	switch {
	case err == nil:
		w.logger.DebugContext(ctx, "comment message done", slog.String("s3_key", resp.S3Key))
		return msg.Ack(settleCtx)

	case errors.Is(err, comment.ErrMalformedPayload), errors.Is(err, comment.ErrMissingField):
		w.logger.WarnContext(ctx, "dropping invalid comment message", slog.Any("error", err))
		return msg.Ack(settleCtx)

	default:
		w.logger.ErrorContext(ctx, "comment message failed", slog.Any("error", err))
		return msg.Fail(settleCtx, err)
	}
}
