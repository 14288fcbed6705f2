package dottree

import (
	"errors"
	"fmt"
	"strconv"
)

// DefaultMaxSequenceIndex bounds the largest index a sequence may be
// reconstructed with when no other limit is configured.
const DefaultMaxSequenceIndex = 1 << 20

var ErrIndexRange = errors.New("sequence index out of range")

// Projector walks a trie depth-first and drives a Writer.
type Projector struct {
	// MaxIndex is the largest accepted sequence index. Zero means
	// DefaultMaxSequenceIndex.
	MaxIndex int
}

// Project projects n with the default Projector.
func Project(w Writer, n *Node, key string) error {
	return Projector{}.Project(w, n, key)
}

// Project writes n to w. key names n when w is positioned in a mapping and
// is ignored otherwise. A node with children becomes a sequence when every
// child segment is an ASCII digit string and a mapping otherwise; a leaf
// becomes a scalar. Children take precedence over a value held by the same
// node. A nil node, or one with neither children nor value, is written as
// the empty string.
func (p Projector) Project(w Writer, n *Node, key string) error {
	switch {
	case n != nil && n.HasChildren():
		if isSequence(n) {
			return p.projectSequence(w, n, key)
		}
		return p.projectMapping(w, n, key)
	case n != nil && n.HasValue():
		return writeScalar(w, key, n.value)
	default:
		return writeScalar(w, key, "")
	}
}

func (p Projector) projectMapping(w Writer, n *Node, key string) error {
	var err error
	if w.Context() == ContextMapping {
		err = w.OpenKeyedMapping(key)
	} else {
		err = w.OpenMapping()
	}
	if err != nil {
		return err
	}
	for seg, child := range n.Children() {
		if err := p.Project(w, child, seg); err != nil {
			return err
		}
	}
	return w.CloseMapping()
}

func (p Projector) projectSequence(w Writer, n *Node, key string) error {
	elems, err := p.sequence(n)
	if err != nil {
		return fmt.Errorf("key %q: %w", key, err)
	}
	if w.Context() == ContextMapping {
		err = w.OpenKeyedSequence(key)
	} else {
		err = w.OpenSequence()
	}
	if err != nil {
		return err
	}
	for _, elem := range elems {
		if err := p.Project(w, elem, ""); err != nil {
			return err
		}
	}
	return w.CloseSequence()
}

// sequence places children at their parsed indices. Missing indices are
// left nil. Segments parsing to the same index ("1", "01") collide and the
// one inserted last wins.
func (p Projector) sequence(n *Node) ([]*Node, error) {
	limit := p.MaxIndex
	if limit <= 0 {
		limit = DefaultMaxSequenceIndex
	}
	indices := make([]int, 0, n.Len())
	size := 0
	for seg := range n.Children() {
		idx, err := strconv.Atoi(seg)
		if err != nil || idx > limit {
			return nil, fmt.Errorf("index %q exceeds %d: %w", seg, limit, ErrIndexRange)
		}
		indices = append(indices, idx)
		size = max(size, idx+1)
	}
	elems := make([]*Node, size)
	i := 0
	for _, child := range n.Children() {
		elems[indices[i]] = child
		i++
	}
	return elems, nil
}

func isSequence(n *Node) bool {
	for seg := range n.Children() {
		if !isDigits(seg) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func writeScalar(w Writer, key, value string) error {
	if w.Context() == ContextMapping {
		return w.WriteKeyValue(key, value)
	}
	return w.WriteElement(value)
}
