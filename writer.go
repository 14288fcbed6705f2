package dottree

import (
	"errors"
	"fmt"
)

// Context reports where a Writer is positioned.
type Context int

const (
	// ContextTop is outside any container.
	ContextTop Context = iota
	// ContextMapping is directly inside a mapping; the next write needs a key.
	ContextMapping
	// ContextSequence is directly inside a sequence; writes are bare elements.
	ContextSequence
)

func (c Context) String() string {
	switch c {
	case ContextTop:
		return "top"
	case ContextMapping:
		return "mapping"
	case ContextSequence:
		return "sequence"
	default:
		return fmt.Sprintf("Context(%d)", int(c))
	}
}

var (
	ErrNotInMapping    = errors.New("not in a mapping")
	ErrNotInSequence   = errors.New("not in a sequence")
	ErrMismatchedClose = errors.New("mismatched close")
)

// Writer is an event-driven structured output stream. Keyed calls are only
// valid in ContextMapping; bare calls are valid anywhere else.
type Writer interface {
	OpenMapping() error
	OpenKeyedMapping(key string) error
	CloseMapping() error

	OpenSequence() error
	OpenKeyedSequence(key string) error
	CloseSequence() error

	WriteKeyValue(key, value string) error
	WriteElement(value string) error

	// Context reports the current nesting context.
	Context() Context

	// Flush closes any containers left open and commits buffered output
	// to the underlying stream.
	Flush() error
}

// stack tracks container nesting for Writer implementations.
type stack []Context

func (s stack) context() Context {
	if len(s) == 0 {
		return ContextTop
	}
	return s[len(s)-1]
}

// checkKeyed validates a keyed write.
func (s stack) checkKeyed(key string) error {
	if s.context() != ContextMapping {
		return fmt.Errorf("write key %q in %s: %w", key, s.context(), ErrNotInMapping)
	}
	return nil
}

// checkBare validates a bare write.
func (s stack) checkBare() error {
	if s.context() == ContextMapping {
		return fmt.Errorf("bare write in mapping: %w", ErrNotInSequence)
	}
	return nil
}

func (s *stack) push(c Context) { *s = append(*s, c) }

func (s *stack) pop(c Context) error {
	if s.context() != c {
		return fmt.Errorf("close %s in %s: %w", c, s.context(), ErrMismatchedClose)
	}
	*s = (*s)[:len(*s)-1]
	return nil
}
