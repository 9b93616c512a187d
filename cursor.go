package depot

import (
	"iter"
)

var _ iCursor = &Cursor{}

// Cursor walks the rows of every table matching a query. It is lazy (tables
// are matched when iteration starts) and restartable (it resets itself when
// exhausted).
//
// While a cursor iterates it holds a database lock, so structural mutations
// must go through the Enqueue variants. Call Reset when abandoning a Next
// loop early; Entities does this on its own.
type Cursor struct {
	// The query to filter tables
	query QueryNode

	// The database to iterate over
	db *Database

	// Current iteration state
	currentTable *Table
	tableIndex   int
	rowIndex     int
	remaining    int

	// Initialization state
	initialized bool
	matched     []*Table

	err error
}

func newCursor(query QueryNode, db *Database) *Cursor {
	return &Cursor{
		query: query,
		db:    db,
	}
}

func (c *Cursor) Next() bool {
	if c.rowIndex < c.remaining {
		c.rowIndex++
		return true
	}
	return c.advance()
}

func (c *Cursor) advance() bool {
	if !c.initialized {
		c.initialize()
	}
	for c.tableIndex < len(c.matched) {
		c.currentTable = c.matched[c.tableIndex]
		c.remaining = c.currentTable.Len()

		if c.rowIndex < c.remaining {
			c.rowIndex++
			return true
		}
		c.tableIndex++
		c.rowIndex = 0
	}
	c.Reset()
	return false
}

// Entities yields every matching (entity, row) pair.
func (c *Cursor) Entities() iter.Seq2[EntityID, Row] {
	return func(yield func(EntityID, Row) bool) {
		c.initialize()

		for c.tableIndex < len(c.matched) {
			c.currentTable = c.matched[c.tableIndex]
			c.remaining = c.currentTable.Len()

			for c.rowIndex < c.remaining {
				row := Row{table: c.currentTable, index: c.rowIndex}
				c.rowIndex++
				if !yield(row.Entity(), row) {
					c.Reset()
					return
				}
			}
			c.rowIndex = 0
			c.tableIndex++
		}
		c.Reset()
	}
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	c.db.Lock()
	c.matched = c.matched[:0]
	for tbl := range c.db.Tables() {
		if c.query.Evaluate(tbl, c.db) {
			c.matched = append(c.matched, tbl)
		}
	}
	if len(c.matched) > 0 {
		c.tableIndex = 0
		c.currentTable = c.matched[0]
		c.remaining = c.currentTable.Len()
	}
	c.initialized = true
}

// Reset rewinds the cursor and releases its database lock. The error from
// applying operations queued during iteration is kept in Err.
func (c *Cursor) Reset() {
	wasInitialized := c.initialized
	c.tableIndex = 0
	c.rowIndex = 0
	c.remaining = 0
	c.currentTable = nil
	c.matched = nil
	c.initialized = false
	if wasInitialized {
		c.err = c.db.Unlock()
	}
}

// Err returns the error from the last flush of queued operations.
func (c *Cursor) Err() error {
	return c.err
}

// Row returns the row the cursor points at after a successful Next.
func (c *Cursor) Row() Row {
	return Row{table: c.currentTable, index: c.rowIndex - 1}
}

func (c *Cursor) Entity() EntityID {
	return c.Row().Entity()
}

func (c *Cursor) RemainingInTable() int {
	return c.remaining - c.rowIndex
}

// TotalMatched counts matching rows without starting an iteration.
func (c *Cursor) TotalMatched() int {
	if c.initialized {
		total := 0
		for _, tbl := range c.matched {
			total += tbl.Len()
		}
		return total
	}
	total := 0
	for tbl := range c.db.Tables() {
		if c.query.Evaluate(tbl, c.db) {
			total += tbl.Len()
		}
	}
	return total
}
