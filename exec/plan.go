package exec

// Plan is the tagged plan tree: SeqScan, Filter, Project, Sort, Insert,
// Update, Delete, Collect, Values.
type Plan interface {
	planNode()
}

// ScanPlan reads every row of a table in storage order.
type ScanPlan struct {
	Table string
}

// FilterPlan keeps only the rows of Input for which Predicate is truthy.
type FilterPlan struct {
	Input     Plan
	Predicate Expr
}

// ProjectPlan evaluates Exprs against each row of Input, producing one new
// row per input row with one column per expression result, named by Names.
type ProjectPlan struct {
	Input Plan
	Names []string
	Exprs []Expr
}

// SortPlan orders Input's rows by the column named By. Its Input must
// already be wrapped in a CollectPlan: the planner inserts Collect in
// front of any cursor-sensitive consumer.
type SortPlan struct {
	Input Plan
	By    string
	Desc  bool
}

// ValuesPlan produces one row per element of Rows, with no input.
type ValuesPlan struct {
	Rows [][]Expr
}

// InsertPlan appends every row produced by Input into Table.
type InsertPlan struct {
	Table string
	Input Plan
}

// UpdatePlan overwrites columns named in Assignments on every row Input
// produces, in Table. Input must already be wrapped in CollectPlan.
type UpdatePlan struct {
	Table       string
	Input       Plan
	Assignments map[string]Expr
}

// DeletePlan removes every row Input produces from Table. Input must
// already be wrapped in CollectPlan.
type DeletePlan struct {
	Table string
	Input Plan
}

// CollectPlan is the materialization barrier: it fully drains Input
// before producing its first row, so a downstream mutator cannot
// invalidate a cursor still walking the same table.
type CollectPlan struct {
	Input Plan
}

func (ScanPlan) planNode()    {}
func (FilterPlan) planNode()  {}
func (ProjectPlan) planNode() {}
func (SortPlan) planNode()    {}
func (ValuesPlan) planNode()  {}
func (InsertPlan) planNode()  {}
func (UpdatePlan) planNode()  {}
func (DeletePlan) planNode()  {}
func (CollectPlan) planNode() {}
