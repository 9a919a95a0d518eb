package exec

import "fmt"

// Executor is a pull-based node in the executor tree: Next returns the
// next tuple, or (nil, nil) once exhausted.
type Executor interface {
	Open() error
	Next() (*Tuple, error)
	Close() error
	Schema() Schema
}

// Build recursively compiles plan into an Executor tree over storage. An
// unrecognized plan node is a programming error: it panics rather than
// returning an error, since it can only mean the planner and executor
// have drifted out of sync.
func Build(plan Plan, storage Storage) (Executor, error) {
	switch p := plan.(type) {
	case ScanPlan:
		t, err := storage.table(p.Table)
		if err != nil {
			return nil, err
		}
		return newSeqScan(t), nil

	case FilterPlan:
		child, err := Build(p.Input, storage)
		if err != nil {
			return nil, err
		}
		return newFilter(child, p.Predicate), nil

	case ProjectPlan:
		child, err := Build(p.Input, storage)
		if err != nil {
			return nil, err
		}
		return newProject(child, p.Names, p.Exprs), nil

	case SortPlan:
		child, err := Build(p.Input, storage)
		if err != nil {
			return nil, err
		}
		return newSort(child, p.By, p.Desc)

	case ValuesPlan:
		return newValues(p.Rows)

	case InsertPlan:
		child, err := Build(p.Input, storage)
		if err != nil {
			return nil, err
		}
		t, err := storage.table(p.Table)
		if err != nil {
			return nil, err
		}
		return newInsert(child, t), nil

	case UpdatePlan:
		child, err := Build(p.Input, storage)
		if err != nil {
			return nil, err
		}
		t, err := storage.table(p.Table)
		if err != nil {
			return nil, err
		}
		return newUpdate(child, t, p.Assignments)

	case DeletePlan:
		child, err := Build(p.Input, storage)
		if err != nil {
			return nil, err
		}
		t, err := storage.table(p.Table)
		if err != nil {
			return nil, err
		}
		return newDelete(child, t), nil

	case CollectPlan:
		child, err := Build(p.Input, storage)
		if err != nil {
			return nil, err
		}
		return newCollect(child), nil

	default:
		panic(fmt.Sprintf("exec: unsupported plan node %T", plan))
	}
}

// ExecutePlan builds plan's executor tree over storage and drains it
// into a list of tuples.
func ExecutePlan(plan Plan, storage Storage) ([]Tuple, error) {
	ex, err := Build(plan, storage)
	if err != nil {
		return nil, err
	}
	if err := ex.Open(); err != nil {
		return nil, err
	}
	defer ex.Close()

	var out []Tuple
	for {
		tup, err := ex.Next()
		if err != nil {
			return nil, err
		}
		if tup == nil {
			return out, nil
		}
		out = append(out, *tup)
	}
}
