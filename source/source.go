package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/baldanca/comment-ingestor/comment"
)

// BodyKind records where the comment payload was found in an inbound request.
type BodyKind uint8

const (
	// BodyAbsent means the request had no body and is itself the payload.
	BodyAbsent BodyKind = iota
	// BodyString means the body carried the payload as serialized JSON.
	BodyString
	// BodyObject means the body carried the payload as a JSON object.
	BodyObject
)

func (k BodyKind) String() string {
	switch k {
	case BodyAbsent:
		return "absent"
	case BodyString:
		return "string"
	case BodyObject:
		return "object"
	default:
		return fmt.Sprintf("BodyKind(%d)", uint8(k))
	}
}

// Envelope is the resolved payload of one inbound request.
//
// Gateways deliver the same submission in three shapes: a proxy integration
// serializes it into a "body" string, a mapping template nests it as a "body"
// object, and direct invocations send it at the top level. ParseEnvelope
// resolves all three once so the rest of the pipeline sees a single form.
type Envelope struct {
	Kind    BodyKind
	Payload map[string]json.RawMessage
}

// Message is one inbound request received from a Source.
type Message interface {
	Body() []byte
	Ack(ctx context.Context) error
	Fail(ctx context.Context, reason error) error
}

// Sourcer delivers inbound requests.
//
// Receive blocks until a message is available or the context is canceled.
type Sourcer interface {
	Receive(ctx context.Context) (Message, error)
}

// ParseEnvelope resolves the payload of a raw request.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var req map[string]json.RawMessage
	if err := json.Unmarshal(raw, &req); err != nil {
		return Envelope{}, fmt.Errorf("%w: request is not a JSON object: %w", comment.ErrMalformedPayload, err)
	}

	body, ok := req["body"]
	if !ok || isNull(body) {
		return Envelope{Kind: BodyAbsent, Payload: req}, nil
	}

	body = bytes.TrimSpace(body)
	switch body[0] {
	case '"':
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return Envelope{}, fmt.Errorf("%w: body: %w", comment.ErrMalformedPayload, err)
		}
		var payload map[string]json.RawMessage
		if err := json.Unmarshal([]byte(s), &payload); err != nil {
			return Envelope{}, fmt.Errorf("%w: body is not valid JSON: %w", comment.ErrMalformedPayload, err)
		}
		return Envelope{Kind: BodyString, Payload: payload}, nil
	case '{':
		var payload map[string]json.RawMessage
		if err := json.Unmarshal(body, &payload); err != nil {
			return Envelope{}, fmt.Errorf("%w: body: %w", comment.ErrMalformedPayload, err)
		}
		return Envelope{Kind: BodyObject, Payload: payload}, nil
	default:
		return Envelope{}, fmt.Errorf("%w: body must be a JSON string or object", comment.ErrMalformedPayload)
	}
}

// Field returns the string value of a payload key. Absent and null keys
// are reported as missing.
func (e Envelope) Field(name string) (string, error) {
	v, ok := e.Payload[name]
	if !ok || isNull(v) {
		return "", comment.NewMissingFieldError(name)
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", fmt.Errorf("%w: field %q must be a string", comment.ErrMalformedPayload, name)
	}
	return s, nil
}

func isNull(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) == 0 || bytes.Equal(v, []byte("null"))
}
