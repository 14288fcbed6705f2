package dottree

import (
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
)

// JSONWriter is a Writer streaming JSON tokens through a jsontext.Encoder.
type JSONWriter struct {
	enc   *jsontext.Encoder
	stack stack
}

// NewJSONWriter returns a JSONWriter writing indented JSON to out.
func NewJSONWriter(out io.Writer, opts ...jsontext.Options) *JSONWriter {
	opts = append([]jsontext.Options{jsontext.WithIndent("  ")}, opts...)
	return &JSONWriter{enc: jsontext.NewEncoder(out, opts...)}
}

func (w *JSONWriter) Context() Context { return w.stack.context() }

func (w *JSONWriter) OpenMapping() error {
	if err := w.stack.checkBare(); err != nil {
		return err
	}
	return w.open(ContextMapping, jsontext.BeginObject)
}

func (w *JSONWriter) OpenKeyedMapping(key string) error {
	if err := w.stack.checkKeyed(key); err != nil {
		return err
	}
	if err := w.write(jsontext.String(key)); err != nil {
		return err
	}
	return w.open(ContextMapping, jsontext.BeginObject)
}

func (w *JSONWriter) CloseMapping() error {
	return w.close(ContextMapping, jsontext.EndObject)
}

func (w *JSONWriter) OpenSequence() error {
	if err := w.stack.checkBare(); err != nil {
		return err
	}
	return w.open(ContextSequence, jsontext.BeginArray)
}

func (w *JSONWriter) OpenKeyedSequence(key string) error {
	if err := w.stack.checkKeyed(key); err != nil {
		return err
	}
	if err := w.write(jsontext.String(key)); err != nil {
		return err
	}
	return w.open(ContextSequence, jsontext.BeginArray)
}

func (w *JSONWriter) CloseSequence() error {
	return w.close(ContextSequence, jsontext.EndArray)
}

func (w *JSONWriter) WriteKeyValue(key, value string) error {
	if err := w.stack.checkKeyed(key); err != nil {
		return err
	}
	if err := w.write(jsontext.String(key)); err != nil {
		return err
	}
	return w.write(jsontext.String(value))
}

func (w *JSONWriter) WriteElement(value string) error {
	if err := w.stack.checkBare(); err != nil {
		return err
	}
	return w.write(jsontext.String(value))
}

// Flush closes open containers. The encoder writes each top-level value
// out once it is complete.
func (w *JSONWriter) Flush() error {
	for len(w.stack) > 0 {
		tok := jsontext.EndObject
		if w.stack.context() == ContextSequence {
			tok = jsontext.EndArray
		}
		if err := w.close(w.stack.context(), tok); err != nil {
			return err
		}
	}
	return nil
}

func (w *JSONWriter) open(ctx Context, tok jsontext.Token) error {
	if err := w.write(tok); err != nil {
		return err
	}
	w.stack.push(ctx)
	return nil
}

func (w *JSONWriter) close(ctx Context, tok jsontext.Token) error {
	if err := w.stack.pop(ctx); err != nil {
		return err
	}
	return w.write(tok)
}

func (w *JSONWriter) write(tok jsontext.Token) error {
	if err := w.enc.WriteToken(tok); err != nil {
		return fmt.Errorf("write json token: %w", err)
	}
	return nil
}
