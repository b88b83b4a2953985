package source

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// ErrClosed is returned when Receive is called after the source has been closed.
var ErrClosed = errors.New("source closed")

type SourceSQSConfig struct {
	WaitTimeSeconds int32
	MaxMessages     int32
	VisibilityTO    int32

	Pollers int
	BufSize int

	// FailVisibilityTimeoutSeconds, when set, is applied to a failed message so
	// SQS redelivers it after that many seconds instead of after VisibilityTO.
	FailVisibilityTimeoutSeconds *int32
}

func (c *SourceSQSConfig) validate() {
	if c.WaitTimeSeconds < 0 || c.WaitTimeSeconds > 20 {
		panic("wait time seconds must be between 0 and 20")
	}
	if c.MaxMessages < 1 || c.MaxMessages > 10 {
		panic("max messages must be between 1 and 10")
	}
	if c.VisibilityTO < 0 {
		panic("visibility timeout must be non-negative")
	}
	if c.Pollers < 1 {
		panic("pollers must be at least 1")
	}
	if c.BufSize < 1 {
		panic("buffer size must be at least 1")
	}
	if c.FailVisibilityTimeoutSeconds != nil && *c.FailVisibilityTimeoutSeconds < 0 {
		panic("fail visibility timeout seconds must be non-negative")
	}
}

var DefaultSourceSQSConfig = SourceSQSConfig{
	WaitTimeSeconds: 20,
	MaxMessages:     10,
	VisibilityTO:    30,
	Pollers:         2,
	BufSize:         32,
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error)
}

// SourceSQS long-polls a queue whose message bodies are raw comment requests.
type SourceSQS struct {
	cfg SourceSQSConfig

	client      sqsAPI
	queueURL    string
	queueURLPtr *string

	bufCh chan *sqstypes.Message

	closeOnce sync.Once
	cancel    context.CancelFunc

	wg sync.WaitGroup
}

func NewSQS(ctx context.Context, client sqsAPI, queueURL string) *SourceSQS {
	return NewSQSWithConfig(ctx, client, queueURL, DefaultSourceSQSConfig)
}

func NewSQSWithConfig(ctx context.Context, client sqsAPI, queueURL string, cfg SourceSQSConfig) *SourceSQS {
	if client == nil {
		panic("sqs client is required")
	}
	if queueURL == "" {
		panic("queue url is required")
	}
	cfg.validate()

	ctx, cancel := context.WithCancel(ctx)

	s := &SourceSQS{
		cfg:      cfg,
		client:   client,
		queueURL: queueURL,
		bufCh:    make(chan *sqstypes.Message, cfg.BufSize),
		cancel:   cancel,
	}
	// Pointer estável (sem aws.String que aloca).
	s.queueURLPtr = &s.queueURL

	s.startPollers(ctx)
	return s
}

func (s *SourceSQS) startPollers(ctx context.Context) {
	s.wg.Add(s.cfg.Pollers)
	for i := 0; i < s.cfg.Pollers; i++ {
		go func() {
			defer s.wg.Done()
			s.pollLoop(ctx)
		}()
	}
	go func() {
		s.wg.Wait()
		close(s.bufCh)
	}()
}

func (s *SourceSQS) pollLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		reqCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.WaitTimeSeconds+5)*time.Second)
		out, err := s.client.ReceiveMessage(reqCtx, &sqs.ReceiveMessageInput{
			QueueUrl:            s.queueURLPtr,
			MaxNumberOfMessages: s.cfg.MaxMessages,
			WaitTimeSeconds:     s.cfg.WaitTimeSeconds,
			VisibilityTimeout:   s.cfg.VisibilityTO,
		})
		cancel()

		if err != nil {
			select {
			case <-time.After(250 * time.Millisecond):
				continue
			case <-ctx.Done():
				return
			}
		}

		for i := range out.Messages {
			// ponteiro direto pros campos do slice
			msg := &out.Messages[i]
			select {
			case s.bufCh <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Close stops the pollers. Messages already buffered can still be received;
// after that Receive returns ErrClosed.
func (s *SourceSQS) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
	})
}

func (s *SourceSQS) Receive(ctx context.Context) (Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case m, ok := <-s.bufCh:
		if !ok {
			return nil, ErrClosed
		}
		return &message{src: s, m: m}, nil
	}
}

type message struct {
	src *SourceSQS
	m   *sqstypes.Message
}

func (m *message) Body() []byte {
	return []byte(aws.ToString(m.m.Body))
}

// ID returns the SQS message id, for logging.
func (m *message) ID() string {
	return aws.ToString(m.m.MessageId)
}

func (m *message) Ack(ctx context.Context) error {
	_, err := m.src.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      m.src.queueURLPtr,
		ReceiptHandle: m.m.ReceiptHandle,
	})
	if err != nil {
		return fmt.Errorf("sqs delete message id=%s: %w", m.ID(), err)
	}
	return nil
}

func (m *message) Fail(ctx context.Context, _ error) error {
	if m.src.cfg.FailVisibilityTimeoutSeconds == nil {
		return nil
	}
	_, callErr := m.src.client.ChangeMessageVisibility(ctx, &sqs.ChangeMessageVisibilityInput{
		QueueUrl:          m.src.queueURLPtr,
		ReceiptHandle:     m.m.ReceiptHandle,
		VisibilityTimeout: *m.src.cfg.FailVisibilityTimeoutSeconds,
	})
	// Shutdown no meio do Fail: a mensagem volta sozinha quando a visibilidade expira.
	if callErr != nil && !errors.Is(callErr, context.Canceled) && !errors.Is(callErr, context.DeadlineExceeded) {
		return fmt.Errorf("sqs change visibility id=%s: %w", m.ID(), callErr)
	}
	return nil
}

var _ Sourcer = (*SourceSQS)(nil)
var _ Message = (*message)(nil)
