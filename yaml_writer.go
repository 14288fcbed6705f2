package dottree

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter is a Writer producing YAML text. Containers are assembled as
// yaml.v3 nodes; every completed top-level value is encoded as its own
// document on Flush.
type YAMLWriter struct {
	out    io.Writer
	indent int
	stack  stack
	frames []*yaml.Node
	docs   []*yaml.Node
}

// NewYAMLWriter returns a YAMLWriter writing to out with two-space
// indentation.
func NewYAMLWriter(out io.Writer) *YAMLWriter {
	return &YAMLWriter{out: out, indent: 2}
}

func (w *YAMLWriter) Context() Context { return w.stack.context() }

func (w *YAMLWriter) OpenMapping() error {
	if err := w.stack.checkBare(); err != nil {
		return err
	}
	w.open(ContextMapping, yaml.MappingNode)
	return nil
}

func (w *YAMLWriter) OpenKeyedMapping(key string) error {
	if err := w.stack.checkKeyed(key); err != nil {
		return err
	}
	w.attach(strNode(key))
	w.open(ContextMapping, yaml.MappingNode)
	return nil
}

func (w *YAMLWriter) CloseMapping() error {
	return w.close(ContextMapping)
}

func (w *YAMLWriter) OpenSequence() error {
	if err := w.stack.checkBare(); err != nil {
		return err
	}
	w.open(ContextSequence, yaml.SequenceNode)
	return nil
}

func (w *YAMLWriter) OpenKeyedSequence(key string) error {
	if err := w.stack.checkKeyed(key); err != nil {
		return err
	}
	w.attach(strNode(key))
	w.open(ContextSequence, yaml.SequenceNode)
	return nil
}

func (w *YAMLWriter) CloseSequence() error {
	return w.close(ContextSequence)
}

func (w *YAMLWriter) WriteKeyValue(key, value string) error {
	if err := w.stack.checkKeyed(key); err != nil {
		return err
	}
	w.attach(strNode(key))
	w.attach(strNode(value))
	return nil
}

func (w *YAMLWriter) WriteElement(value string) error {
	if err := w.stack.checkBare(); err != nil {
		return err
	}
	w.attach(strNode(value))
	return nil
}

// Flush closes open containers and encodes all pending documents.
func (w *YAMLWriter) Flush() error {
	for len(w.stack) > 0 {
		if err := w.close(w.stack.context()); err != nil {
			return err
		}
	}
	if len(w.docs) == 0 {
		return nil
	}
	enc := yaml.NewEncoder(w.out)
	enc.SetIndent(w.indent)
	for _, doc := range w.docs {
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	}
	w.docs = w.docs[:0]
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close yaml encoder: %w", err)
	}
	return nil
}

func (w *YAMLWriter) open(ctx Context, kind yaml.Kind) {
	n := &yaml.Node{Kind: kind}
	if kind == yaml.MappingNode {
		n.Tag = "!!map"
	} else {
		n.Tag = "!!seq"
	}
	w.attach(n)
	w.stack.push(ctx)
	w.frames = append(w.frames, n)
}

func (w *YAMLWriter) close(ctx Context) error {
	if err := w.stack.pop(ctx); err != nil {
		return err
	}
	w.frames = w.frames[:len(w.frames)-1]
	return nil
}

// attach appends n to the innermost open container, or starts a new
// document. Mapping nodes hold alternating key and value children.
func (w *YAMLWriter) attach(n *yaml.Node) {
	if len(w.frames) == 0 {
		w.docs = append(w.docs, n)
		return
	}
	parent := w.frames[len(w.frames)-1]
	parent.Content = append(parent.Content, n)
}

// strNode tags scalars as strings so the encoder quotes values that would
// otherwise resolve to another type ("yes", "1", "").
func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
