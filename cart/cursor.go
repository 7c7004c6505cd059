package cart

// Cursor reads sequentially from a Source, tracking its own position.
// Decoders advance a cursor through a chunk; random-access jumps go through
// Seek so every offset-table hop is explicit.
type Cursor struct {
	src *Source
	pos int
}

// Pos returns the current position relative to the start of the source.
func (c *Cursor) Pos() int {
	return c.pos
}

// Seek repositions the cursor to an absolute offset.
func (c *Cursor) Seek(off int) {
	c.pos = off
}

// Skip advances the cursor by n bytes without reading them.
func (c *Cursor) Skip(n int) {
	c.pos += n
}

// ReadU8 reads one byte and advances.
func (c *Cursor) ReadU8() (uint8, error) {
	v, err := c.src.U8(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos++
	return v, nil
}

// ReadU16 reads a little-endian 16-bit value and advances.
func (c *Cursor) ReadU16() (uint16, error) {
	v, err := c.src.U16(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 2
	return v, nil
}

// ReadBytes reads n bytes and advances. The returned slice aliases the
// source.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.src.Bytes(c.pos, n)
	if err != nil {
		return nil, err
	}
	c.pos += n
	return b, nil
}
