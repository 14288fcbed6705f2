package dottree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct{ key, value string }

func buildTrie(pairs ...pair) *Trie {
	tr := NewTrie()
	for _, p := range pairs {
		tr.Add(SplitKey(p.key), p.value)
	}
	return tr
}

// projectUnder projects the trie under root inside a bare mapping and
// returns the tree stored under root.
func projectUnder(t *testing.T, root string, pairs ...pair) any {
	t.Helper()
	w := NewDocumentWriter()
	require.NoError(t, w.OpenMapping())
	require.NoError(t, Project(w, buildTrie(pairs...).Root(), root))
	require.NoError(t, w.CloseMapping())
	require.Len(t, w.Values(), 1)

	doc, ok := w.Value().(Document)
	require.True(t, ok, "expected Document, got %T", w.Value())
	require.Len(t, doc, 1)
	require.Equal(t, root, doc[0].Key)
	return doc[0].Value
}

type failingWriter struct {
	*DocumentWriter
	failOn string
}

func (w failingWriter) OpenKeyedSequence(key string) error {
	if w.failOn == "sequence" {
		return assert.AnError
	}
	return w.DocumentWriter.OpenKeyedSequence(key)
}

func (w failingWriter) WriteKeyValue(key, value string) error {
	if w.failOn == "scalar" {
		return assert.AnError
	}
	return w.DocumentWriter.WriteKeyValue(key, value)
}

func TestProject(t *testing.T) {
	t.Run("scalar under key", func(t *testing.T) {
		got := projectUnder(t, "fr", pair{"foo", "bar"})
		assert.Equal(t, Document{{Key: "foo", Value: "bar"}}, got)
	})

	t.Run("nested mappings", func(t *testing.T) {
		got := projectUnder(t, "fr", pair{"foo.bar.baz", "boo"})
		want := Document{{Key: "foo", Value: Document{{Key: "bar", Value: Document{{Key: "baz", Value: "boo"}}}}}}
		assert.Equal(t, want, got)
	})

	t.Run("mapping keys follow insertion order", func(t *testing.T) {
		got := projectUnder(t, "fr",
			pair{"i.like.burritos", "beanz"},
			pair{"ham.cheese", "sandwich"},
			pair{"i.like.cheesy.burritos", "yum"},
			pair{"ham.lettuce", "crunchay"},
		)
		want := Document{
			{Key: "i", Value: Document{
				{Key: "like", Value: Document{
					{Key: "burritos", Value: "beanz"},
					{Key: "cheesy", Value: Document{{Key: "burritos", Value: "yum"}}},
				}},
			}},
			{Key: "ham", Value: Document{
				{Key: "cheese", Value: "sandwich"},
				{Key: "lettuce", Value: "crunchay"},
			}},
		}
		assert.Equal(t, want, got)
	})

	t.Run("insertion order a.b then c", func(t *testing.T) {
		got := projectUnder(t, "fr", pair{"a.b", "1"}, pair{"c", "2"})
		want := Document{
			{Key: "a", Value: Document{{Key: "b", Value: "1"}}},
			{Key: "c", Value: "2"},
		}
		assert.Equal(t, want, got)
	})

	t.Run("insertion order c then a.b", func(t *testing.T) {
		got := projectUnder(t, "fr", pair{"c", "2"}, pair{"a.b", "1"})
		want := Document{
			{Key: "c", Value: "2"},
			{Key: "a", Value: Document{{Key: "b", Value: "1"}}},
		}
		assert.Equal(t, want, got)
	})

	t.Run("sequence rebuilt from unordered indices", func(t *testing.T) {
		got := projectUnder(t, "fr", pair{"foo.1", "b"}, pair{"foo.0", "a"}, pair{"foo.2", "c"})
		assert.Equal(t, Document{{Key: "foo", Value: Array{"a", "b", "c"}}}, got)
	})

	t.Run("non-numeric siblings stay a mapping", func(t *testing.T) {
		got := projectUnder(t, "fr", pair{"foo.bar1", "b"}, pair{"foo.bar0", "a"}, pair{"foo.bar2", "c"})
		want := Document{{Key: "foo", Value: Document{
			{Key: "bar1", Value: "b"},
			{Key: "bar0", Value: "a"},
			{Key: "bar2", Value: "c"},
		}}}
		assert.Equal(t, want, got)
	})

	t.Run("mixed numeric and non-numeric siblings stay a mapping", func(t *testing.T) {
		got := projectUnder(t, "fr", pair{"foo.0", "a"}, pair{"foo.x", "b"})
		want := Document{{Key: "foo", Value: Document{
			{Key: "0", Value: "a"},
			{Key: "x", Value: "b"},
		}}}
		assert.Equal(t, want, got)
	})

	t.Run("sequence of mappings holding sequences", func(t *testing.T) {
		got := projectUnder(t, "fr",
			pair{"foo.0.bar.0", "a"},
			pair{"foo.0.bar.1", "b"},
			pair{"foo.1.bar.0", "c"},
			pair{"foo.1.bar.1", "d"},
		)
		want := Document{{Key: "foo", Value: Array{
			Document{{Key: "bar", Value: Array{"a", "b"}}},
			Document{{Key: "bar", Value: Array{"c", "d"}}},
		}}}
		assert.Equal(t, want, got)
	})

	t.Run("sequence of sequences", func(t *testing.T) {
		got := projectUnder(t, "fr", pair{"m.1.0", "c"}, pair{"m.0.1", "b"}, pair{"m.0.0", "a"})
		want := Document{{Key: "m", Value: Array{Array{"a", "b"}, Array{"c"}}}}
		assert.Equal(t, want, got)
	})

	t.Run("holes become empty scalars", func(t *testing.T) {
		got := projectUnder(t, "fr", pair{"foo.3", "d"}, pair{"foo.0", "a"})
		assert.Equal(t, Document{{Key: "foo", Value: Array{"a", "", "", "d"}}}, got)
	})

	t.Run("leading zero index", func(t *testing.T) {
		got := projectUnder(t, "fr", pair{"foo.01", "x"})
		assert.Equal(t, Document{{Key: "foo", Value: Array{"", "x"}}}, got)
	})

	t.Run("colliding indices keep the last inserted", func(t *testing.T) {
		got := projectUnder(t, "fr", pair{"foo.01", "first"}, pair{"foo.1", "second"})
		assert.Equal(t, Document{{Key: "foo", Value: Array{"", "second"}}}, got)

		got = projectUnder(t, "fr", pair{"foo.1", "first"}, pair{"foo.01", "second"})
		assert.Equal(t, Document{{Key: "foo", Value: Array{"", "second"}}}, got)
	})

	t.Run("children take precedence over value", func(t *testing.T) {
		got := projectUnder(t, "fr", pair{"foo", "dropped"}, pair{"foo.bar", "kept"})
		assert.Equal(t, Document{{Key: "foo", Value: Document{{Key: "bar", Value: "kept"}}}}, got)

		got = projectUnder(t, "fr", pair{"foo.bar", "kept"}, pair{"foo", "dropped"})
		assert.Equal(t, Document{{Key: "foo", Value: Document{{Key: "bar", Value: "kept"}}}}, got)
	})

	t.Run("last write wins", func(t *testing.T) {
		got := projectUnder(t, "fr", pair{"foo", "a"}, pair{"foo", "b"})
		assert.Equal(t, Document{{Key: "foo", Value: "b"}}, got)
	})

	t.Run("empty key is an empty-named entry", func(t *testing.T) {
		got := projectUnder(t, "fr", pair{"", "v"})
		assert.Equal(t, Document{{Key: "", Value: "v"}}, got)
	})

	t.Run("explicit empty value", func(t *testing.T) {
		got := projectUnder(t, "fr", pair{"foo", ""})
		assert.Equal(t, Document{{Key: "foo", Value: ""}}, got)
	})

	t.Run("empty trie is an empty scalar", func(t *testing.T) {
		got := projectUnder(t, "fr")
		assert.Equal(t, "", got)
	})

	t.Run("root value without children", func(t *testing.T) {
		w := NewDocumentWriter()
		require.NoError(t, w.OpenMapping())
		tr := NewTrie()
		tr.Add(nil, "v")
		require.NoError(t, Project(w, tr.Root(), "fr"))
		require.NoError(t, w.CloseMapping())
		assert.Equal(t, Document{{Key: "fr", Value: "v"}}, w.Value())
	})
}

func TestProjectBare(t *testing.T) {
	t.Run("sequence at top level", func(t *testing.T) {
		w := NewDocumentWriter()
		tr := buildTrie(pair{"1", "b"}, pair{"0", "a"})
		require.NoError(t, Project(w, tr.Root(), "ignored"))
		assert.Equal(t, Array{"a", "b"}, w.Value())
	})

	t.Run("mapping at top level", func(t *testing.T) {
		w := NewDocumentWriter()
		tr := buildTrie(pair{"a", "1"})
		require.NoError(t, Project(w, tr.Root(), ""))
		assert.Equal(t, Document{{Key: "a", Value: "1"}}, w.Value())
	})

	t.Run("nil node is an empty element", func(t *testing.T) {
		w := NewDocumentWriter()
		require.NoError(t, w.OpenSequence())
		require.NoError(t, Project(w, nil, ""))
		require.NoError(t, w.CloseSequence())
		assert.Equal(t, Array{""}, w.Value())
	})
}

func TestProjectErrors(t *testing.T) {
	t.Run("index above limit", func(t *testing.T) {
		w := NewDocumentWriter()
		require.NoError(t, w.OpenMapping())
		tr := buildTrie(pair{"foo.11", "x"})
		err := Projector{MaxIndex: 10}.Project(w, tr.Root(), "fr")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIndexRange)
		assert.Contains(t, err.Error(), `"foo"`)
	})

	t.Run("index at limit", func(t *testing.T) {
		w := NewDocumentWriter()
		require.NoError(t, w.OpenMapping())
		tr := buildTrie(pair{"foo.10", "x"})
		require.NoError(t, Projector{MaxIndex: 10}.Project(w, tr.Root(), "fr"))
	})

	t.Run("index overflowing int", func(t *testing.T) {
		w := NewDocumentWriter()
		require.NoError(t, w.OpenMapping())
		tr := buildTrie(pair{"foo.99999999999999999999999999", "x"})
		err := Project(w, tr.Root(), "fr")
		assert.ErrorIs(t, err, ErrIndexRange)
	})

	t.Run("writer error bubbles up", func(t *testing.T) {
		w := failingWriter{DocumentWriter: NewDocumentWriter(), failOn: "sequence"}
		require.NoError(t, w.OpenMapping())
		tr := buildTrie(pair{"foo.0", "x"})
		err := Project(w, tr.Root(), "fr")
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("scalar error stops walk", func(t *testing.T) {
		w := failingWriter{DocumentWriter: NewDocumentWriter(), failOn: "scalar"}
		require.NoError(t, w.OpenMapping())
		tr := buildTrie(pair{"a", "1"}, pair{"b", "2"})
		err := Project(w, tr.Root(), "fr")
		assert.ErrorIs(t, err, assert.AnError)
	})
}
