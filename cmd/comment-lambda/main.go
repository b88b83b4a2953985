// Command comment-lambda is the AWS Lambda entry point of the comment ingestor.
//
// It expects TABLE_NAME and INGEST_BUCKET in the environment and standard AWS
// credentials (the function's execution role).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/baldanca/comment-ingestor/config"
	"github.com/baldanca/comment-ingestor/ingestor"
	"github.com/baldanca/comment-ingestor/logging"
	"github.com/baldanca/comment-ingestor/sink"
	"github.com/baldanca/comment-ingestor/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "comment-lambda: %v\n", err)
		os.Exit(1)
	}

	base := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	logger := slog.New(logging.NewContextHandler(base.Handler(), lambdaRequestID))
	slog.SetDefault(logger)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Error("load aws config", slog.Any("error", err))
		os.Exit(1)
	}

	// Clients are built once per execution environment and shared by every
	// invocation it serves.
	table := store.NewTable(dynamodb.NewFromConfig(awsCfg), cfg.TableName)
	archive := sink.New(s3.NewFromConfig(awsCfg), cfg.IngestBucket)

	h, err := ingestor.NewHandler(table, archive, ingestor.WithLogger(logger))
	if err != nil {
		logger.Error("build handler", slog.Any("error", err))
		os.Exit(1)
	}

	lambda.Start(invoke(h))
}

// invoke adapts the handler to the Lambda runtime. Errors go back to the
// runtime unchanged; it reports them as a failed invocation.
func invoke(h *ingestor.Handler) func(context.Context, json.RawMessage) (ingestor.Response, error) {
	return func(ctx context.Context, event json.RawMessage) (ingestor.Response, error) {
		return h.Handle(ctx, event)
	}
}

func lambdaRequestID(ctx context.Context) []slog.Attr {
	lc, ok := lambdacontext.FromContext(ctx)
	if !ok || lc == nil {
		return nil
	}
	return []slog.Attr{slog.String("aws_request_id", lc.AwsRequestID)}
}
