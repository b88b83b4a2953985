// Command comment-worker ingests comment requests queued in SQS.
//
// Each message body is one raw request, in any of the shapes the Lambda entry
// point accepts. Set COMMENT_QUEUE_URL, TABLE_NAME and INGEST_BUCKET.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/baldanca/comment-ingestor/config"
	"github.com/baldanca/comment-ingestor/ingestor"
	"github.com/baldanca/comment-ingestor/logging"
	"github.com/baldanca/comment-ingestor/sink"
	"github.com/baldanca/comment-ingestor/source"
	"github.com/baldanca/comment-ingestor/store"
)

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		fmt.Fprintf(os.Stderr, "comment-worker: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("comment worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.WorkerConfig, logger *slog.Logger) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	table := store.NewTable(dynamodb.NewFromConfig(awsCfg), cfg.TableName)
	archive := sink.New(s3.NewFromConfig(awsCfg), cfg.IngestBucket)

	h, err := ingestor.NewHandler(table, archive, ingestor.WithLogger(logger))
	if err != nil {
		return err
	}

	src := source.NewSQSWithConfig(ctx, sqs.NewFromConfig(awsCfg), cfg.QueueURL, sourceConfig(cfg))
	defer src.Close()

	w, err := ingestor.NewWorker(src, h, logger)
	if err != nil {
		return err
	}

	logger.Info("comment worker started",
		slog.String("queue_url", cfg.QueueURL),
		slog.Int("pollers", cfg.Pollers),
	)
	return w.Run(ctx)
}

func sourceConfig(cfg config.WorkerConfig) source.SourceSQSConfig {
	sc := source.DefaultSourceSQSConfig
	sc.Pollers = cfg.Pollers
	sc.WaitTimeSeconds = cfg.WaitTimeSeconds
	sc.VisibilityTO = cfg.VisibilityTimeout
	if cfg.FailVisibilityTimeout >= 0 {
		v := cfg.FailVisibilityTimeout
		sc.FailVisibilityTimeoutSeconds = &v
	}
	return sc
}
