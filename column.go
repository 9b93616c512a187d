package depot

import (
	"unsafe"

	"github.com/rotisserie/eris"
)

// Column is a growable, densely packed buffer holding one element type for
// every row of a table. Elements are opaque byte runs of Layout().Size bytes.
//
// The column owns its elements: Drop runs exactly once for every element,
// either when its row is removed, when it is overwritten, or when the column
// is released. Take hands ownership of a removed element to the caller
// instead.
type Column struct {
	layout   ComponentLayout
	data     []byte // len == rows*size, cap == capacity*size
	rows     int
	capacity int
	minCap   int
}

// NewColumn builds an empty column for elements of the given layout. capacity
// is the number of rows allocated on first growth.
func NewColumn(layout ComponentLayout, capacity int) (*Column, error) {
	if err := layout.validate(); err != nil {
		return nil, err
	}
	if capacity < 1 {
		capacity = 1
	}
	return &Column{
		layout: layout,
		minCap: capacity,
	}, nil
}

func (c *Column) Layout() ComponentLayout {
	return c.layout
}

// Len returns the number of rows.
func (c *Column) Len() int {
	return c.rows
}

// Cap returns the number of rows the column can hold before growing.
func (c *Column) Cap() int {
	return c.capacity
}

// Bytes exposes the packed element bytes of every live row.
func (c *Column) Bytes() []byte {
	return c.data
}

// Push appends a copy of raw and returns its row index.
func (c *Column) Push(raw []byte) (int, error) {
	if err := c.checkValue(raw); err != nil {
		return -1, err
	}
	row := c.rows
	if size := c.size(); size > 0 {
		if c.rows == c.capacity {
			c.grow()
		}
		c.data = c.data[:(row+1)*size]
		copy(c.data[row*size:], raw)
	}
	c.rows++
	return row, nil
}

// Get returns the element at row. The slice aliases column storage.
func (c *Column) Get(row int) ([]byte, error) {
	if err := c.checkRow(row); err != nil {
		return nil, err
	}
	return c.slot(row), nil
}

// Set overwrites the element at row, dropping the value it replaces. Writing
// a slot's own bytes back (as returned by Get) changes nothing.
func (c *Column) Set(row int, raw []byte) error {
	if err := c.checkRow(row); err != nil {
		return err
	}
	if err := c.checkValue(raw); err != nil {
		return err
	}
	dst := c.slot(row)
	if len(dst) > 0 && unsafe.SliceData(raw) == unsafe.SliceData(dst) {
		return nil
	}
	if c.layout.Drop == nil {
		copy(dst, raw)
		return nil
	}
	// raw may overlap the slot, so read it before the old value is dropped.
	value := cloneAligned(raw, c.layout.Align)
	c.layout.Drop(dst)
	copy(dst, value)
	return nil
}

// SwapRemove drops the element at row and moves the last element into its
// place. It returns the former index of the element now stored at row; when
// that equals row nothing moved.
func (c *Column) SwapRemove(row int) (int, error) {
	if err := c.checkRow(row); err != nil {
		return -1, err
	}
	if c.layout.Drop != nil {
		c.layout.Drop(c.slot(row))
	}
	return c.compact(row), nil
}

// Take removes the element at row like SwapRemove but without dropping it.
// The returned copy now owns whatever the element owned.
func (c *Column) Take(row int) ([]byte, int, error) {
	if err := c.checkRow(row); err != nil {
		return nil, -1, err
	}
	value := cloneAligned(c.slot(row), c.layout.Align)
	return value, c.compact(row), nil
}

// Release drops every live element and frees the buffer.
func (c *Column) Release() {
	if c.layout.Drop != nil {
		for row := 0; row < c.rows; row++ {
			c.layout.Drop(c.slot(row))
		}
	}
	c.data = nil
	c.rows = 0
	c.capacity = 0
}

func (c *Column) compact(row int) int {
	last := c.rows - 1
	if size := c.size(); size > 0 {
		if row != last {
			copy(c.slot(row), c.slot(last))
		}
		clear(c.data[last*size:])
		c.data = c.data[:last*size]
	}
	c.rows = last
	return last
}

func (c *Column) grow() {
	size := c.size()
	newCap := max(c.minCap, 2*c.capacity)
	buf := alignedBytes(newCap*size, c.layout.Align)
	copy(buf, c.data)
	c.data = buf[:len(c.data)]
	c.capacity = newCap
}

func (c *Column) slot(row int) []byte {
	size := c.size()
	if size == 0 {
		return []byte{}
	}
	start := row * size
	return c.data[start : start+size : start+size]
}

func (c *Column) size() int {
	return int(c.layout.Size)
}

func (c *Column) checkRow(row int) error {
	if row < 0 || row >= c.rows {
		return eris.Wrapf(ErrIndexOutOfRange, "row %d, length %d", row, c.rows)
	}
	return nil
}

func (c *Column) checkValue(raw []byte) error {
	if len(raw) != c.size() {
		return eris.Wrapf(ErrTypeLayoutMismatch, "got %d bytes, want %d", len(raw), c.size())
	}
	return nil
}

// cloneAligned copies raw into a buffer aligned for align, so the copy can be
// viewed as the component type.
func cloneAligned(raw []byte, align uintptr) []byte {
	if len(raw) == 0 {
		return []byte{}
	}
	value := alignedBytes(len(raw), align)
	copy(value, raw)
	return value
}

// alignedBytes returns an n byte slice whose first element sits on an align
// boundary. The slice is capped at n so appends never reach the padding.
func alignedBytes(n int, align uintptr) []byte {
	if n == 0 {
		return nil
	}
	raw := make([]byte, n+int(align)-1)
	offset := int(-uintptr(unsafe.Pointer(&raw[0])) & (align - 1))
	return raw[offset : offset+n : offset+n]
}
