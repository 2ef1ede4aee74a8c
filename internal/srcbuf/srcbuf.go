// Package srcbuf indexes a source file's bytes by line so diagnostics can
// quote the offending line.
package srcbuf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/alecthomas/participle/v2/lexer"
)

// Buffer accumulates a file's bytes while recording the byte offset of every
// newline, so Line(n) and Position(line, col) are O(log n) lookups.
type Buffer struct {
	filename string
	buf      bytes.Buffer
	offset   int
	offsets  []int
	mu       sync.Mutex
}

// New returns an empty Buffer attributed to filename.
func New(filename string) *Buffer {
	return &Buffer{filename: filename}
}

// Filename returns the name the Buffer was created with.
func (b *Buffer) Filename() string {
	return b.filename
}

// Write implements io.Writer, recording newline offsets as bytes arrive.
func (b *Buffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n, err = b.buf.Write(p)

	start := 0
	index := bytes.IndexByte(p[:n], byte('\n'))
	for index >= 0 {
		b.offsets = append(b.offsets, b.offset+start+index)
		start += index + 1
		index = bytes.IndexByte(p[start:n], byte('\n'))
	}
	b.offset += n

	return n, err
}

// Len returns the number of complete lines recorded so far.
func (b *Buffer) Len() int {
	return len(b.offsets)
}

// Bytes returns the buffer's contents.
func (b *Buffer) Bytes() []byte {
	return b.buf.Bytes()
}

// Position converts a 1-based line/column into a full lexer.Position,
// including the byte offset, for use as a dump-event or diagnostic position.
func (b *Buffer) Position(line, column int) lexer.Position {
	var offset int
	if line-2 < 0 {
		offset = column - 1
	} else if line-2 < len(b.offsets) {
		// offsets hold the newline byte; the line itself starts one past it.
		offset = b.offsets[line-2] + 1 + column - 1
	} else if len(b.offsets) > 0 {
		offset = b.offsets[len(b.offsets)-1] + 1 + column - 1
	}
	return lexer.Position{
		Filename: b.filename,
		Offset:   offset,
		Line:     line,
		Column:   column,
	}
}

// Line returns the 1-based line ln, without its trailing newline.
func (b *Buffer) Line(ln int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ln < 1 || ln > len(b.offsets) {
		return nil, fmt.Errorf("line %d outside of offsets", ln)
	}

	start := 0
	if ln > 1 {
		start = b.offsets[ln-2] + 1
	}
	end := b.offsets[ln-1]

	return b.read(start, end)
}

func (b *Buffer) read(start, end int) ([]byte, error) {
	r := bytes.NewReader(b.buf.Bytes())

	_, err := r.Seek(int64(start), io.SeekStart)
	if err != nil {
		return nil, err
	}

	line := make([]byte, end-start)
	n, err := r.Read(line)
	if err != nil && err != io.EOF {
		return nil, err
	}

	return line[:n], nil
}

// Lookup maps filenames to Buffers, shared across a command-line front-end's
// parallel per-file parses.
type Lookup struct {
	mu  sync.Mutex
	bufs map[string]*Buffer
}

// NewLookup returns an empty Lookup.
func NewLookup() *Lookup {
	return &Lookup{bufs: make(map[string]*Buffer)}
}

// Get returns the Buffer registered for filename, or nil.
func (l *Lookup) Get(filename string) *Buffer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bufs[filename]
}

// Set registers buf under filename.
func (l *Lookup) Set(filename string, buf *Buffer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bufs[filename] = buf
}

// All returns every registered Buffer, sorted by filename.
func (l *Lookup) All() []*Buffer {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.bufs))
	for name := range l.bufs {
		names = append(names, name)
	}
	sort.Strings(names)
	bufs := make([]*Buffer, 0, len(names))
	for _, name := range names {
		bufs = append(bufs, l.bufs[name])
	}
	return bufs
}

type lookupKey struct{}

// WithLookup attaches a Lookup to ctx.
func WithLookup(ctx context.Context, l *Lookup) context.Context {
	return context.WithValue(ctx, lookupKey{}, l)
}

// FromContext returns the Lookup attached to ctx, or a fresh empty one.
func FromContext(ctx context.Context) *Lookup {
	l, ok := ctx.Value(lookupKey{}).(*Lookup)
	if !ok {
		return NewLookup()
	}
	return l
}
