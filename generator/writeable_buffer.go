package generator

import (
	"bytes"
	"fmt"
)

// WriteableBuffer accumulates emitted source text with two-space
// indentation tracking. Every emitter in this package writes through one of these
// rather than building strings by hand.
type WriteableBuffer struct {
	buffer bytes.Buffer
	indent string
}

// NewWriteableBuffer returns an empty buffer at indent level zero.
func NewWriteableBuffer() *WriteableBuffer {
	return &WriteableBuffer{}
}

// P writes one line. With a single string argument it is written verbatim;
// with more it is treated as a Printf format plus args. Either way the
// current indentation is prefixed and a trailing newline appended.
func (b *WriteableBuffer) P(format ...interface{}) {
	if len(format) == 0 {
		b.buffer.WriteByte('\n')
		return
	}

	b.buffer.WriteString(b.indent)
	if s, ok := format[0].(string); ok {
		if len(format) == 1 {
			b.buffer.WriteString(s)
		} else {
			fmt.Fprintf(&b.buffer, s, format[1:]...)
		}
	} else {
		fmt.Fprint(&b.buffer, format...)
	}
	b.buffer.WriteByte('\n')
}

// P0 writes a blank line.
func (b *WriteableBuffer) P0() {
	b.buffer.WriteByte('\n')
}

// Indent increases the indentation level by two spaces.
func (b *WriteableBuffer) Indent() {
	b.indent += "  "
}

// Unindent decreases the indentation level by two spaces.
func (b *WriteableBuffer) Unindent() {
	if len(b.indent) >= 2 {
		b.indent = b.indent[:len(b.indent)-2]
	}
}

// String returns the accumulated text.
func (b *WriteableBuffer) String() string {
	return b.buffer.String()
}

// Bytes returns the accumulated text as a byte slice.
func (b *WriteableBuffer) Bytes() []byte {
	return b.buffer.Bytes()
}

// Reset empties the buffer and resets indentation to zero.
func (b *WriteableBuffer) Reset() {
	b.buffer.Reset()
	b.indent = ""
}
