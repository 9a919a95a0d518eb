package exec

// filter keeps only the rows of child for which predicate evaluates
// truthy, grounded on utkarsh5026-StoreMy's execution.Filter.
type filter struct {
	child     Executor
	predicate Expr
}

func newFilter(child Executor, predicate Expr) *filter {
	return &filter{child: child, predicate: predicate}
}

func (f *filter) Open() error    { return f.child.Open() }
func (f *filter) Close() error   { return f.child.Close() }
func (f *filter) Schema() Schema { return f.child.Schema() }

func (f *filter) Next() (*Tuple, error) {
	for {
		tup, err := f.child.Next()
		if err != nil {
			return nil, err
		}
		if tup == nil {
			return nil, nil
		}
		v, err := Eval(f.predicate, f.child.Schema(), *tup)
		if err != nil {
			return nil, err
		}
		if truthy(v) {
			return tup, nil
		}
	}
}
