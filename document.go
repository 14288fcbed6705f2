package dottree

// Document is an ordered collection of key-value pairs, the in-memory form
// of a projected mapping.
type Document []Entry

// Array is the in-memory form of a projected sequence. Elements are
// strings, Documents or Arrays.
type Array []any

// Entry is a single entry in a Document. Value is a string, Document or
// Array.
type Entry struct {
	Key   string
	Value any
}

// Get returns the value stored under key.
func (d Document) Get(key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

type docFrame struct {
	key string
	doc Document
	arr Array
}

// DocumentWriter is a Writer building Documents and Arrays in memory.
type DocumentWriter struct {
	stack  stack
	frames []docFrame
	values []any
}

func NewDocumentWriter() *DocumentWriter {
	return &DocumentWriter{}
}

// Values returns the completed top-level values in write order.
func (w *DocumentWriter) Values() []any { return w.values }

// Value returns the first completed top-level value, or nil.
func (w *DocumentWriter) Value() any {
	if len(w.values) == 0 {
		return nil
	}
	return w.values[0]
}

func (w *DocumentWriter) Context() Context { return w.stack.context() }

func (w *DocumentWriter) OpenMapping() error {
	if err := w.stack.checkBare(); err != nil {
		return err
	}
	w.open(ContextMapping, "")
	return nil
}

func (w *DocumentWriter) OpenKeyedMapping(key string) error {
	if err := w.stack.checkKeyed(key); err != nil {
		return err
	}
	w.open(ContextMapping, key)
	return nil
}

func (w *DocumentWriter) CloseMapping() error {
	return w.close(ContextMapping)
}

func (w *DocumentWriter) OpenSequence() error {
	if err := w.stack.checkBare(); err != nil {
		return err
	}
	w.open(ContextSequence, "")
	return nil
}

func (w *DocumentWriter) OpenKeyedSequence(key string) error {
	if err := w.stack.checkKeyed(key); err != nil {
		return err
	}
	w.open(ContextSequence, key)
	return nil
}

func (w *DocumentWriter) CloseSequence() error {
	return w.close(ContextSequence)
}

func (w *DocumentWriter) WriteKeyValue(key, value string) error {
	if err := w.stack.checkKeyed(key); err != nil {
		return err
	}
	w.attach(key, value)
	return nil
}

func (w *DocumentWriter) WriteElement(value string) error {
	if err := w.stack.checkBare(); err != nil {
		return err
	}
	w.attach("", value)
	return nil
}

func (w *DocumentWriter) Flush() error {
	for len(w.stack) > 0 {
		if err := w.close(w.stack.context()); err != nil {
			return err
		}
	}
	return nil
}

func (w *DocumentWriter) open(ctx Context, key string) {
	f := docFrame{key: key}
	if ctx == ContextMapping {
		f.doc = Document{}
	} else {
		f.arr = Array{}
	}
	w.stack.push(ctx)
	w.frames = append(w.frames, f)
}

func (w *DocumentWriter) close(ctx Context) error {
	if err := w.stack.pop(ctx); err != nil {
		return err
	}
	f := w.frames[len(w.frames)-1]
	w.frames = w.frames[:len(w.frames)-1]
	if ctx == ContextMapping {
		w.attach(f.key, f.doc)
	} else {
		w.attach(f.key, f.arr)
	}
	return nil
}

// attach adds v to the innermost open container, or records it as a
// top-level value.
func (w *DocumentWriter) attach(key string, v any) {
	if len(w.frames) == 0 {
		w.values = append(w.values, v)
		return
	}
	f := &w.frames[len(w.frames)-1]
	if f.doc != nil {
		f.doc = append(f.doc, Entry{Key: key, Value: v})
	} else {
		f.arr = append(f.arr, v)
	}
}
