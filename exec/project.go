package exec

// project evaluates exprs against each row of child, producing one new
// row per input row with one column per expression result, under names.
type project struct {
	child  Executor
	names  []string
	exprs  []Expr
	schema Schema
}

func newProject(child Executor, names []string, exprs []Expr) *project {
	return &project{child: child, names: names, exprs: exprs, schema: Schema{Columns: names}}
}

func (p *project) Open() error    { return p.child.Open() }
func (p *project) Close() error   { return p.child.Close() }
func (p *project) Schema() Schema { return p.schema }

func (p *project) Next() (*Tuple, error) {
	tup, err := p.child.Next()
	if err != nil {
		return nil, err
	}
	if tup == nil {
		return nil, nil
	}

	childSchema := p.child.Schema()
	values := make([]Value, len(p.exprs))
	for i, e := range p.exprs {
		v, err := Eval(e, childSchema, *tup)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return &Tuple{Values: values}, nil
}
