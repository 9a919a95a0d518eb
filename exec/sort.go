package exec

import (
	"fmt"
	"sort"
)

// sortExec orders its child's rows by column By. The planner is
// responsible for wrapping its input in a collect node before it reaches
// here — sortExec itself already drains its child fully in Open, so it
// works either way, but a raw cursor above a mutator elsewhere in the
// tree is still undefined.
type sortExec struct {
	child Executor
	by    int
	desc  bool
	rows  []Tuple
	pos   int
}

func newSort(child Executor, by string, desc bool) (*sortExec, error) {
	idx := child.Schema().IndexOf(by)
	if idx < 0 {
		return nil, fmt.Errorf("exec: sort: unknown column %q", by)
	}
	return &sortExec{child: child, by: idx, desc: desc}, nil
}

func (s *sortExec) Schema() Schema { return s.child.Schema() }
func (s *sortExec) Close() error   { return s.child.Close() }

func (s *sortExec) Open() error {
	if err := s.child.Open(); err != nil {
		return err
	}
	s.rows = nil
	for {
		tup, err := s.child.Next()
		if err != nil {
			return err
		}
		if tup == nil {
			break
		}
		s.rows = append(s.rows, *tup)
	}

	var sortErr error
	sort.SliceStable(s.rows, func(i, j int) bool {
		less, err := lessValue(s.rows[i].Values[s.by], s.rows[j].Values[s.by])
		if err != nil {
			sortErr = err
		}
		if s.desc {
			return !less
		}
		return less
	})
	s.pos = 0
	return sortErr
}

func (s *sortExec) Next() (*Tuple, error) {
	if s.pos >= len(s.rows) {
		return nil, nil
	}
	tup := s.rows[s.pos]
	s.pos++
	return &tup, nil
}

func lessValue(a, b Value) (bool, error) {
	switch av := a.(type) {
	case int64:
		bv, ok := b.(int64)
		if !ok {
			return false, fmt.Errorf("exec: sort: cannot compare int64 with %T", b)
		}
		return av < bv, nil
	case string:
		bv, ok := b.(string)
		if !ok {
			return false, fmt.Errorf("exec: sort: cannot compare string with %T", b)
		}
		return av < bv, nil
	default:
		return false, fmt.Errorf("exec: sort: unsupported value type %T", a)
	}
}
