package dottree

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"
)

// DecodeJSON reads a JSON object from r and writes every scalar leaf to kv
// under its dotted path. Nested objects contribute their member names as
// segments and arrays their element positions. Strings are written
// unescaped, numbers and booleans as their literal text and null as the
// empty string. Empty objects and arrays produce no pairs.
func DecodeJSON(r io.Reader, kv KeyValueWriter) error {
	dec := jsontext.NewDecoder(r)
	if k := dec.PeekKind(); k != '{' {
		if _, err := dec.ReadToken(); err != nil {
			return fmt.Errorf("read top-level value: %w", err)
		}
		return fmt.Errorf("top-level json value must be an object (got %v)", k)
	}
	return decodeJSONValue(dec, nil, kv)
}

func decodeJSONValue(dec *jsontext.Decoder, path []string, kv KeyValueWriter) error {
	switch dec.PeekKind() {
	case '{':
		if _, err := dec.ReadToken(); err != nil { // '{'
			return fmt.Errorf("read object open: %w", err)
		}
		for dec.PeekKind() != '}' {
			name, err := dec.ReadToken()
			if err != nil {
				return fmt.Errorf("read object key: %w", err)
			}
			if err := decodeJSONValue(dec, append(path, name.String()), kv); err != nil {
				return err
			}
		}
		if _, err := dec.ReadToken(); err != nil { // '}'
			return fmt.Errorf("read object close: %w", err)
		}
		return nil
	case '[':
		if _, err := dec.ReadToken(); err != nil { // '['
			return fmt.Errorf("read array open: %w", err)
		}
		for i := 0; dec.PeekKind() != ']'; i++ {
			if err := decodeJSONValue(dec, append(path, strconv.Itoa(i)), kv); err != nil {
				return err
			}
		}
		if _, err := dec.ReadToken(); err != nil { // ']'
			return fmt.Errorf("read array close: %w", err)
		}
		return nil
	default:
		tok, err := dec.ReadToken()
		if err != nil {
			return fmt.Errorf("read value for key %q: %w", JoinKey(path), err)
		}
		value := tok.String()
		if tok.Kind() == 'n' {
			value = ""
		}
		return kv.WriteKeyValue(JoinKey(path), value)
	}
}

// DecodeYAML reads the first YAML document from r and writes every scalar
// leaf to kv under its dotted path, like DecodeJSON. The document must be
// a mapping; aliases are followed and null scalars become the empty string.
// An empty stream writes nothing.
func DecodeYAML(r io.Reader, kv KeyValueWriter) error {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode yaml: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("top-level yaml value must be a mapping (line %d)", root.Line)
	}
	return decodeYAMLNode(root, nil, kv)
}

func decodeYAMLNode(n *yaml.Node, path []string, kv KeyValueWriter) error {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if err := decodeYAMLNode(n.Content[i+1], append(path, n.Content[i].Value), kv); err != nil {
				return err
			}
		}
		return nil
	case yaml.SequenceNode:
		for i, elem := range n.Content {
			if err := decodeYAMLNode(elem, append(path, strconv.Itoa(i)), kv); err != nil {
				return err
			}
		}
		return nil
	case yaml.AliasNode:
		return decodeYAMLNode(n.Alias, path, kv)
	case yaml.ScalarNode:
		value := n.Value
		if n.ShortTag() == "!!null" {
			value = ""
		}
		return kv.WriteKeyValue(JoinKey(path), value)
	default:
		return fmt.Errorf("unsupported yaml node kind %d at line %d", n.Kind, n.Line)
	}
}
