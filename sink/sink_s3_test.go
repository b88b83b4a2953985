package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3API struct {
	mu sync.Mutex

	putCalls int
	lastIn   *s3.PutObjectInput
	lastBody []byte

	putErr error
}

func (f *fakeS3API) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	f.putCalls++
	f.lastIn = in
	putErr := f.putErr
	f.mu.Unlock()

	if putErr != nil {
		return nil, putErr
	}

	if in.Body != nil {
		b, _ := io.ReadAll(in.Body)
		f.mu.Lock()
		f.lastBody = b
		f.mu.Unlock()
	}
	return &s3.PutObjectOutput{}, nil
}

// no-capture fake for benchmarks: minimal overhead, no body reads/copies.
type fakeS3NoCapture struct {
	mu       sync.Mutex
	putCalls int
}

func (f *fakeS3NoCapture) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	f.putCalls++
	f.mu.Unlock()
	return &s3.PutObjectOutput{}, nil
}

func TestNew_PanicsWithoutBucket(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New(&fakeS3API{}, "  ")
}

func TestSink_Write_PutsObject(t *testing.T) {
	f := &fakeS3API{}
	s := New(f, "ingest")

	data := []byte("{\n  \"texto\": \"olá\"\n}")
	err := s.Write(context.Background(), WriteRequest{
		Key:         "acme/0190b5c2.json",
		Data:        data,
		ContentType: "application/json; charset=utf-8",
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.putCalls != 1 {
		t.Fatalf("expected 1 call, got %d", f.putCalls)
	}
	if aws.ToString(f.lastIn.Bucket) != "ingest" {
		t.Fatalf("bucket: %q", aws.ToString(f.lastIn.Bucket))
	}
	if aws.ToString(f.lastIn.Key) != "acme/0190b5c2.json" {
		t.Fatalf("key: %q", aws.ToString(f.lastIn.Key))
	}
	if aws.ToString(f.lastIn.ContentType) != "application/json; charset=utf-8" {
		t.Fatalf("content-type: %q", aws.ToString(f.lastIn.ContentType))
	}
	if f.lastIn.ContentLength == nil || *f.lastIn.ContentLength != int64(len(data)) {
		t.Fatalf("content-length: %#v", f.lastIn.ContentLength)
	}
	if !bytes.Equal(f.lastBody, data) {
		t.Fatalf("body mismatch: %q", string(f.lastBody))
	}
	if s.Bucket() != "ingest" {
		t.Fatalf("Bucket(): %q", s.Bucket())
	}
}

func TestSink_Write_KeepsKeyVerbatim(t *testing.T) {
	f := &fakeS3API{}
	s := New(f, "bkt")

	if err := s.Write(context.Background(), WriteRequest{Key: "/a/../b/x.json"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if aws.ToString(f.lastIn.Key) != "/a/../b/x.json" {
		t.Fatalf("key: %q", aws.ToString(f.lastIn.Key))
	}
	if f.lastIn.ContentType != nil {
		t.Fatalf("expected no content-type, got %q", aws.ToString(f.lastIn.ContentType))
	}
}

func TestSink_Write_EmptyKeyReturnsError(t *testing.T) {
	f := &fakeS3API{}
	s := New(f, "bkt")
	if err := s.Write(context.Background(), WriteRequest{Key: ""}); err == nil {
		t.Fatalf("expected error")
	}
	if f.putCalls != 0 {
		t.Fatalf("expected no put, got %d", f.putCalls)
	}
}

func TestSink_Write_PropagatesPutError(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeS3API{putErr: boom}
	s := New(f, "bkt")
	if err := s.Write(context.Background(), WriteRequest{Key: "x", Data: []byte("1")}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func BenchmarkSink_Write_NoCapture(b *testing.B) {
	for _, size := range []int{0, 128, 1024, 16 * 1024} {
		b.Run(fmt.Sprintf("size=%s", strconv.Itoa(size)), func(b *testing.B) {
			f := &fakeS3NoCapture{}
			s := New(f, "bkt")
			data := make([]byte, size)
			req := WriteRequest{Key: "acme/x.json", Data: data, ContentType: "application/json; charset=utf-8"}
			ctx := context.Background()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := s.Write(ctx, req); err != nil {
					b.Fatalf("write: %v", err)
				}
			}
		})
	}
}
