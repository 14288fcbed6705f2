// Package dottree builds nested documents from flat dotted keys, as found in
// Rails-style translation files, and serializes them as YAML or JSON.
//
// Keys are split into segments (see SplitKey) and accumulated in a Trie.
// When the Serializer is flushed, the trie is projected depth-first onto a
// Writer: a node whose child segments are all digit strings becomes a
// sequence, any other node with children becomes a mapping, and leaves
// become string scalars.
//
//	s, _ := dottree.New(os.Stdout, "fr")
//	s.WriteKeyValue("foo.1", "b")
//	s.WriteKeyValue("foo.0", "a")
//	s.Flush()
//
// writes
//
//	fr:
//	  foo:
//	    - a
//	    - b
package dottree

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var ErrFlushed = errors.New("serializer already flushed")

// EncodingError reports a key or value that cannot be represented in the
// configured output encoding.
type EncodingError struct {
	Key      string
	Value    string
	Encoding string
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("key %q: not representable in %s: %v", e.Key, e.Encoding, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// KeyValueWriter accepts flat dotted key/value pairs.
type KeyValueWriter interface {
	WriteKeyValue(key, value string) error
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithFormat selects the output format. The default is YAMLFormat's.
func WithFormat(f Format) Option {
	return func(s *Serializer) { s.format = f }
}

// WithEncoding sets the output character encoding. Keys and values are
// checked against it as they are written. The default is UTF-8.
func WithEncoding(enc encoding.Encoding) Option {
	return func(s *Serializer) { s.encoding = enc }
}

// WithLogger sets the logger used for debug records. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *Serializer) { s.logger = l }
}

// WithMaxSequenceIndex bounds the largest index a sequence is rebuilt with.
func WithMaxSequenceIndex(n int) Option {
	return func(s *Serializer) { s.projector.MaxIndex = n }
}

// Serializer collects dotted key/value pairs and writes them as one nested
// document under a root key when flushed. It is single use and not safe
// for concurrent use.
type Serializer struct {
	out       io.Writer
	root      string
	format    Format
	encoding  encoding.Encoding
	logger    *slog.Logger
	projector Projector

	trie    *Trie
	stream  io.Writer // out, or an encoding transformer over it
	encoder *encoding.Encoder
	writer  Writer
	flushed bool
}

// New returns a Serializer writing to out. root names the top-level key the
// tree is written under, typically a locale such as "fr".
func New(out io.Writer, root string, opts ...Option) (*Serializer, error) {
	if out == nil {
		return nil, errors.New("nil output")
	}
	s := &Serializer{
		out:  out,
		root: root,
		trie: NewTrie(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.format.NewWriter == nil {
		s.format = yamlFormat
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.stream = out
	if s.encoding != nil && s.encoding != unicode.UTF8 {
		s.encoder = s.encoding.NewEncoder()
		s.stream = transform.NewWriter(out, s.encoding.NewEncoder())
	}
	s.writer = s.format.NewWriter(s.stream)
	if s.writer == nil {
		return nil, fmt.Errorf("format %q: nil writer", s.format.Name)
	}
	return s, nil
}

// Format returns the output format in use.
func (s *Serializer) Format() Format { return s.format }

// WriteKeyValue records value under the dotted key. Nothing is written
// until Flush. A repeated key replaces the earlier value.
func (s *Serializer) WriteKeyValue(key, value string) error {
	if s.flushed {
		return ErrFlushed
	}
	if err := s.checkEncodable(key, value); err != nil {
		return err
	}
	s.trie.Add(SplitKey(key), value)
	return nil
}

// WriteRaw writes text directly to the output, ahead of the tree written by
// Flush.
func (s *Serializer) WriteRaw(text string) error {
	if s.flushed {
		return ErrFlushed
	}
	if _, err := io.WriteString(s.stream, text); err != nil {
		return fmt.Errorf("write raw: %w", err)
	}
	return nil
}

// Find returns the value recorded under the dotted key.
func (s *Serializer) Find(key string) (string, bool) {
	return s.trie.Find(SplitKey(key))
}

// Flush writes the collected tree and commits all output. It may be called
// once; later calls return ErrFlushed. A sequence index above the configured
// maximum (DefaultMaxSequenceIndex unless WithMaxSequenceIndex is given)
// fails the whole flush with ErrIndexRange.
func (s *Serializer) Flush() error {
	if s.flushed {
		return ErrFlushed
	}
	s.flushed = true

	s.logger.Debug("flush", "root", s.root, "values", s.trie.Len(), "format", s.format.Name)

	if err := s.writer.OpenMapping(); err != nil {
		return err
	}
	if err := s.projector.Project(s.writer, s.trie.Root(), s.root); err != nil {
		return fmt.Errorf("project %q: %w", s.root, err)
	}
	if err := s.writer.CloseMapping(); err != nil {
		return err
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("flush %s writer: %w", s.format.Name, err)
	}
	if c, ok := s.stream.(io.Closer); ok && s.encoder != nil {
		if err := c.Close(); err != nil {
			return fmt.Errorf("flush encoded output: %w", err)
		}
	}
	return nil
}

// Close flushes if needed and closes the output when it is an io.Closer.
// The output is closed even when the flush fails.
func (s *Serializer) Close() error {
	var flushErr error
	if !s.flushed {
		flushErr = s.Flush()
	}
	if c, ok := s.out.(io.Closer); ok {
		return errors.Join(flushErr, c.Close())
	}
	return flushErr
}

func (s *Serializer) checkEncodable(key, value string) error {
	for _, str := range [...]string{key, value} {
		var err error
		if s.encoder == nil {
			if !utf8.ValidString(str) {
				err = encoding.ErrInvalidUTF8
			}
		} else {
			_, err = s.encoder.String(str)
		}
		if err != nil {
			return &EncodingError{Key: key, Value: value, Encoding: encodingName(s.encoding), Err: err}
		}
	}
	return nil
}

func encodingName(enc encoding.Encoding) string {
	if enc == nil {
		enc = unicode.UTF8
	}
	if name, err := htmlindex.Name(enc); err == nil {
		return name
	}
	return fmt.Sprint(enc)
}
