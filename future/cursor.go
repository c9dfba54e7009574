// File: future/cursor.go
// Author: momentics <momentics@gmail.com>

package future

import "fmt"

// Cursor is an owned buffer plus a read/write position inside it.
//
// The position is an offset, never a pointer into buf, so a Cursor may be
// copied or moved at any phase of the computation holding it. Slices handed
// out by Rest and Bytes are only valid until the next mutating call.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor allocates a cursor over a zeroed buffer of n bytes.
func NewCursor(n int) Cursor {
	return Cursor{buf: make([]byte, n)}
}

// CursorOver positions a cursor at the start of an existing buffer, taking ownership of it.
func CursorOver(buf []byte) Cursor {
	return Cursor{buf: buf}
}

// Offset returns the position.
func (c *Cursor) Offset() int { return c.off }

// Len returns the buffer size.
func (c *Cursor) Len() int { return len(c.buf) }

// Full reports whether the position reached the end of the buffer.
func (c *Cursor) Full() bool { return c.off >= len(c.buf) }

// Bytes returns the part of the buffer before the position.
func (c *Cursor) Bytes() []byte { return c.buf[:c.off] }

// Rest returns the part of the buffer from the position on.
func (c *Cursor) Rest() []byte { return c.buf[c.off:] }

// Advance moves the position forward by n bytes.
func (c *Cursor) Advance(n int) {
	if n < 0 || c.off+n > len(c.buf) {
		panic(fmt.Sprintf("future: cursor advance %d out of range [%d:%d]", n, c.off, len(c.buf)))
	}
	c.off += n
}

// Write copies p at the position, growing the buffer if needed.
func (c *Cursor) Write(p []byte) (int, error) {
	if need := c.off + len(p); need > len(c.buf) {
		grown := make([]byte, need)
		copy(grown, c.buf)
		c.buf = grown
	}
	n := copy(c.buf[c.off:], p)
	c.off += n
	return n, nil
}

// Reset moves the position back to the start.
func (c *Cursor) Reset() { c.off = 0 }

func (c Cursor) String() string {
	return fmt.Sprintf("cursor(%d/%d)", c.off, len(c.buf))
}
