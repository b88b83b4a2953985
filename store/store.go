package store

import (
	"context"
	"fmt"
	"strings"

	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// ResponseMetadata carries the service metadata of a table write, in the
// shape AWS SDKs report it.
type ResponseMetadata struct {
	RequestID      string `json:"RequestId,omitempty"`
	HTTPStatusCode int    `json:"HTTPStatusCode,omitempty"`
	RetryAttempts  int    `json:"RetryAttempts"`
}

func responseMetadata(md middleware.Metadata) ResponseMetadata {
	var rm ResponseMetadata
	if id, ok := awsmiddleware.GetRequestIDMetadata(md); ok {
		rm.RequestID = id
	}
	if resp, ok := awsmiddleware.GetRawResponse(md).(*smithyhttp.Response); ok && resp != nil && resp.Response != nil {
		rm.HTTPStatusCode = resp.StatusCode
	}
	// Uma tentativa por resultado; a primeira não conta como retry.
	if res, ok := retry.GetAttemptResults(md); ok && len(res.Results) > 1 {
		rm.RetryAttempts = len(res.Results) - 1
	}
	return rm
}

// PutAck is the acknowledgment of a table write, returned to callers as-is.
type PutAck struct {
	ResponseMetadata ResponseMetadata        `json:"ResponseMetadata"`
	ConsumedCapacity *types.ConsumedCapacity `json:"ConsumedCapacity,omitempty"`
}

// Putter writes single items to a key-value table.
type Putter interface {
	Put(ctx context.Context, item any) (PutAck, error)
	// Name identifies the table.
	Name() string
}

// Table writes items to one DynamoDB table. The table's key schema is owned
// by whoever provisions it; Put sends the full item and lets DynamoDB pick
// the key attributes out of it.
type Table struct {
	client dynamoAPI

	name    string
	namePtr *string

	capacity types.ReturnConsumedCapacity
}

type Option func(*Table)

// WithConsumedCapacity asks DynamoDB to report the capacity consumed by each
// write in the acknowledgment.
func WithConsumedCapacity(c types.ReturnConsumedCapacity) Option {
	return func(t *Table) { t.capacity = c }
}

func NewTable(client dynamoAPI, name string, opts ...Option) *Table {
	if client == nil {
		panic("dynamodb client is required")
	}
	if strings.TrimSpace(name) == "" {
		panic("table name is required")
	}

	t := &Table{
		client: client,
		name:   name,
	}
	// Pointer estável, igual ao bucket do sink.
	t.namePtr = &t.name
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Table) Name() string { return t.name }

func (t *Table) Put(ctx context.Context, item any) (PutAck, error) {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return PutAck{}, fmt.Errorf("marshal dynamodb item table=%q: %w", t.name, err)
	}

	input := dynamodb.PutItemInput{
		TableName: t.namePtr,
		Item:      av,
	}
	if t.capacity != "" {
		input.ReturnConsumedCapacity = t.capacity
	}

	out, err := t.client.PutItem(ctx, &input)
	if err != nil {
		return PutAck{}, fmt.Errorf("put dynamodb item table=%q: %w", t.name, err)
	}

	return PutAck{
		ResponseMetadata: responseMetadata(out.ResultMetadata),
		ConsumedCapacity: out.ConsumedCapacity,
	}, nil
}

var _ Putter = (*Table)(nil)
