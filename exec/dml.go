package exec

// insertExec appends every row child produces to table, emitting each
// inserted row as it goes.
type insertExec struct {
	child Executor
	table *Table
}

func newInsert(child Executor, table *Table) *insertExec {
	return &insertExec{child: child, table: table}
}

func (ins *insertExec) Schema() Schema { return ins.table.Schema }
func (ins *insertExec) Open() error    { return ins.child.Open() }
func (ins *insertExec) Close() error   { return ins.child.Close() }

func (ins *insertExec) Next() (*Tuple, error) {
	tup, err := ins.child.Next()
	if err != nil {
		return nil, err
	}
	if tup == nil {
		return nil, nil
	}
	ins.table.Rows = append(ins.table.Rows, *tup)
	return tup, nil
}

// updateExec overwrites the columns named in assignments on every row
// child produces, in table. The planner is responsible for wrapping
// child in collect before it reaches here: this executor locates rows in
// table.Rows by value, and a live cursor over the same slice being
// mutated underneath it is undefined.
type updateExec struct {
	child       Executor
	table       *Table
	assignments map[string]Expr
}

func newUpdate(child Executor, table *Table, assignments map[string]Expr) (*updateExec, error) {
	return &updateExec{child: child, table: table, assignments: assignments}, nil
}

func (u *updateExec) Schema() Schema { return u.table.Schema }
func (u *updateExec) Open() error    { return u.child.Open() }
func (u *updateExec) Close() error   { return u.child.Close() }

func (u *updateExec) Next() (*Tuple, error) {
	tup, err := u.child.Next()
	if err != nil {
		return nil, err
	}
	if tup == nil {
		return nil, nil
	}

	row := *tup
	for col, expr := range u.assignments {
		idx := u.table.Schema.IndexOf(col)
		if idx < 0 {
			continue
		}
		v, err := Eval(expr, u.table.Schema, row)
		if err != nil {
			return nil, err
		}
		row.Values[idx] = v
	}
	applyInPlace(u.table, *tup, row)
	return &row, nil
}

// deleteExec removes every row child produces from table. child must
// already be wrapped in collect, for the same reason updateExec requires
// it.
type deleteExec struct {
	child Executor
	table *Table
}

func newDelete(child Executor, table *Table) *deleteExec {
	return &deleteExec{child: child, table: table}
}

func (d *deleteExec) Schema() Schema { return d.table.Schema }
func (d *deleteExec) Open() error    { return d.child.Open() }
func (d *deleteExec) Close() error   { return d.child.Close() }

func (d *deleteExec) Next() (*Tuple, error) {
	tup, err := d.child.Next()
	if err != nil {
		return nil, err
	}
	if tup == nil {
		return nil, nil
	}
	removeRow(d.table, *tup)
	return tup, nil
}

// applyInPlace finds the first row in table.Rows equal to before and
// replaces it with after. Rows are identified by value rather than by
// index because the source iterator materialized its own copies.
func applyInPlace(table *Table, before, after Tuple) {
	for i, row := range table.Rows {
		if tupleEqual(row, before) {
			table.Rows[i] = after
			return
		}
	}
}

func removeRow(table *Table, row Tuple) {
	for i, r := range table.Rows {
		if tupleEqual(r, row) {
			table.Rows = append(table.Rows[:i], table.Rows[i+1:]...)
			return
		}
	}
}

func tupleEqual(a, b Tuple) bool {
	if len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			return false
		}
	}
	return true
}
