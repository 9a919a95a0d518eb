package exec

// collect is the materialization barrier: Open drains child completely
// before any row is handed to whatever sits above it, so Sort/Update/
// Delete never iterate a cursor a concurrent mutation could invalidate.
type collect struct {
	child Executor
	rows  []Tuple
	pos   int
}

func newCollect(child Executor) *collect {
	return &collect{child: child}
}

func (c *collect) Schema() Schema { return c.child.Schema() }
func (c *collect) Close() error   { return c.child.Close() }

func (c *collect) Open() error {
	if err := c.child.Open(); err != nil {
		return err
	}
	c.rows = nil
	for {
		tup, err := c.child.Next()
		if err != nil {
			return err
		}
		if tup == nil {
			break
		}
		c.rows = append(c.rows, *tup)
	}
	c.pos = 0
	return nil
}

func (c *collect) Next() (*Tuple, error) {
	if c.pos >= len(c.rows) {
		return nil, nil
	}
	tup := c.rows[c.pos]
	c.pos++
	return &tup, nil
}
