package dottree

import "iter"

// Node is a single trie node. It may hold a value, children, both or
// neither. A value that was never assigned is distinct from the empty
// string.
type Node struct {
	value    string
	hasValue bool
	keys     []string // insertion order
	children map[string]*Node
}

// Value returns the node's value and whether one was ever assigned.
func (n *Node) Value() (string, bool) {
	return n.value, n.hasValue
}

func (n *Node) HasValue() bool    { return n.hasValue }
func (n *Node) HasChildren() bool { return len(n.keys) > 0 }

// Len returns the number of direct children.
func (n *Node) Len() int { return len(n.keys) }

// Child returns the child stored under seg, or nil.
func (n *Node) Child(seg string) *Node {
	return n.children[seg]
}

// Children iterates over the direct children in insertion order.
func (n *Node) Children() iter.Seq2[string, *Node] {
	return func(yield func(string, *Node) bool) {
		for _, k := range n.keys {
			if !yield(k, n.children[k]) {
				return
			}
		}
	}
}

func (n *Node) childOrCreate(seg string) *Node {
	if c, ok := n.children[seg]; ok {
		return c
	}
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	c := &Node{}
	n.children[seg] = c
	n.keys = append(n.keys, seg)
	return c
}

// Trie accumulates segment paths into a tree rooted at an empty node.
type Trie struct {
	root   *Node
	values int
}

func NewTrie() *Trie {
	return &Trie{root: &Node{}}
}

func (t *Trie) Root() *Node { return t.root }

// Len returns the number of distinct paths holding a value.
func (t *Trie) Len() int { return t.values }

// Add stores value at path, creating intermediate nodes as needed. A later
// Add on the same path replaces the value; children already below the
// terminal node are kept.
func (t *Trie) Add(path []string, value string) {
	node := t.root
	for _, seg := range path {
		node = node.childOrCreate(seg)
	}
	if !node.hasValue {
		t.values++
	}
	node.value = value
	node.hasValue = true
}

// Find returns the value stored at exactly path.
func (t *Trie) Find(path []string) (string, bool) {
	node := t.root
	for _, seg := range path {
		node = node.children[seg]
		if node == nil {
			return "", false
		}
	}
	return node.Value()
}
