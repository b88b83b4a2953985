package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Sink struct {
	client s3API

	bucket    string
	bucketPtr *string
}

func New(client s3API, bucket string) *Sink {
	if client == nil {
		panic("s3 client is required")
	}
	if strings.TrimSpace(bucket) == "" {
		panic("bucket is required")
	}

	s := &Sink{
		client: client,
		bucket: bucket,
	}
	// Pointer estável (sem aws.String que aloca).
	s.bucketPtr = &s.bucket
	return s
}

func (s *Sink) Bucket() string { return s.bucket }

func (s *Sink) Write(ctx context.Context, req WriteRequest) error {
	if req.Key == "" {
		return fmt.Errorf("empty key")
	}

	// Chave vai exatamente como veio: sem path-clean, sem trim de "/".
	key := req.Key
	cl := int64(len(req.Data))

	// Evita alocação do bytes.NewReader.
	var body bytes.Reader
	body.Reset(req.Data)

	// Evita aws.String/aws.Int64 (alocam).
	input := s3.PutObjectInput{
		Bucket:        s.bucketPtr,
		Key:           &key,
		Body:          &body,
		ContentLength: &cl,
	}
	if req.ContentType != "" {
		ct := req.ContentType
		input.ContentType = &ct
	}

	_, err := s.client.PutObject(ctx, &input)
	if err != nil {
		return fmt.Errorf("put s3 object bucket=%q key=%q: %w", s.bucket, key, err)
	}
	return nil
}

var _ Sinkr = (*Sink)(nil)
