package exec

import "fmt"

// values produces one row per element of rows, evaluating each
// expression with an empty schema (literals only — Values has no input).
type values struct {
	rows []Tuple
	pos  int
}

func newValues(rowExprs [][]Expr) (*values, error) {
	empty := Schema{}
	rows := make([]Tuple, len(rowExprs))
	for i, exprs := range rowExprs {
		vs := make([]Value, len(exprs))
		for j, e := range exprs {
			v, err := Eval(e, empty, Tuple{})
			if err != nil {
				return nil, fmt.Errorf("exec: values row %d col %d: %w", i, j, err)
			}
			vs[j] = v
		}
		rows[i] = Tuple{Values: vs}
	}
	return &values{rows: rows}, nil
}

func (v *values) Open() error    { v.pos = 0; return nil }
func (v *values) Close() error   { return nil }
func (v *values) Schema() Schema { return Schema{} }

func (v *values) Next() (*Tuple, error) {
	if v.pos >= len(v.rows) {
		return nil, nil
	}
	tup := v.rows[v.pos]
	v.pos++
	return &tup, nil
}
