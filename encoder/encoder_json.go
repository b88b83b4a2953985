package encoder

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
)

const JSONContentType = "application/json; charset=utf-8"

// JSONEncoder renders records as human-readable UTF-8 JSON.
//
// Non-ASCII text and the HTML-sensitive characters <, > and & are written
// as-is rather than as \u escapes. The output has no trailing newline.
type JSONEncoder[iType any] struct {
	// Indent (optional) defaults to two spaces.
	Indent string
}

func NewJSONEncoder[iType any]() JSONEncoder[iType] {
	return JSONEncoder[iType]{Indent: "  "}
}

func (e JSONEncoder[iType]) FileExtension() string { return ".json" }

func (e JSONEncoder[iType]) ContentType() string { return JSONContentType }

func (e JSONEncoder[iType]) Encode(ctx context.Context, item iType) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.EncodeTo(ctx, item, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e JSONEncoder[iType]) EncodeTo(ctx context.Context, item iType, w io.Writer) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	indent := e.Indent
	if indent == "" {
		indent = "  "
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(item); err != nil {
		return err
	}

	// json.Encoder always terminates the value with a newline.
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

var _ Encoder[any] = JSONEncoder[any]{}
var _ StreamEncoder[any] = JSONEncoder[any]{}
