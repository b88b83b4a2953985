package ingestor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/baldanca/comment-ingestor/comment"
	"github.com/baldanca/comment-ingestor/sink"
	"github.com/baldanca/comment-ingestor/source"
	"github.com/baldanca/comment-ingestor/store"
	"github.com/baldanca/comment-ingestor/transformer"
)

// ---- fakes ----

type memTable struct {
	mu sync.Mutex

	name   string
	items  map[string]comment.Record
	calls  int
	putErr error
}

func newMemTable(name string) *memTable {
	return &memTable{name: name, items: map[string]comment.Record{}}
}

func (t *memTable) Name() string { return t.name }

func (t *memTable) Put(ctx context.Context, item any) (store.PutAck, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls++
	if t.putErr != nil {
		return store.PutAck{}, t.putErr
	}
	rec, ok := item.(comment.Record)
	if !ok {
		return store.PutAck{}, errors.New("unexpected item type")
	}
	t.items[rec.ID] = rec
	return store.PutAck{ResponseMetadata: store.ResponseMetadata{RequestID: "req-" + rec.ID}}, nil
}

func (t *memTable) get(id string) (comment.Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.items[id]
	return r, ok
}

func (t *memTable) putCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

var _ store.Putter = (*memTable)(nil)

type memSink struct {
	mu sync.Mutex

	bucket   string
	objects  map[string]sink.WriteRequest
	calls    int
	writeErr error
	onWrite  func()
}

func newMemSink(bucket string) *memSink {
	return &memSink{bucket: bucket, objects: map[string]sink.WriteRequest{}}
}

func (s *memSink) Bucket() string { return s.bucket }

func (s *memSink) Write(ctx context.Context, req sink.WriteRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.onWrite != nil {
		s.onWrite()
	}
	if s.writeErr != nil {
		return s.writeErr
	}
	s.objects[req.Key] = req
	return nil
}

func (s *memSink) writeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *memSink) object(key string) (sink.WriteRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.objects[key]
	return r, ok
}

var _ sink.Sinkr = (*memSink)(nil)

type tMsg struct {
	body []byte

	mu       sync.Mutex
	acks     int
	fails    int
	lastFail error
	ackErr   error
	// ctx.Err() seen by the last Ack or Fail.
	settleCtxErr error
}

func newTMsg(body string) *tMsg {
	return &tMsg{body: []byte(body)}
}

func (m *tMsg) Body() []byte { return m.body }

func (m *tMsg) Ack(ctx context.Context) error {
	m.mu.Lock()
	m.acks++
	m.settleCtxErr = ctx.Err()
	err := m.ackErr
	m.mu.Unlock()
	return err
}

func (m *tMsg) Fail(ctx context.Context, reason error) error {
	m.mu.Lock()
	m.fails++
	m.lastFail = reason
	m.settleCtxErr = ctx.Err()
	m.mu.Unlock()
	return nil
}

func (m *tMsg) counts() (acks, fails int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acks, m.fails
}

var _ source.Message = (*tMsg)(nil)

type tSource struct {
	ch chan source.Message
}

func newTSource(msgs ...source.Message) *tSource {
	s := &tSource{ch: make(chan source.Message, len(msgs))}
	for _, m := range msgs {
		s.ch <- m
	}
	close(s.ch)
	return s
}

func (s *tSource) Receive(ctx context.Context) (source.Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case m, ok := <-s.ch:
		if !ok {
			return nil, source.ErrClosed
		}
		return m, nil
	}
}

var _ source.Sourcer = (*tSource)(nil)

type errSource struct{ err error }

func (s errSource) Receive(ctx context.Context) (source.Message, error) { return nil, s.err }

// ---- helpers ----

var fixedNow = time.Date(2025, 10, 16, 12, 0, 0, 500000000, time.UTC)

func fixedTransformer(id string) transformer.Comment {
	return transformer.Comment{
		NewID: func() (string, error) { return id, nil },
		Now:   func() time.Time { return fixedNow },
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
